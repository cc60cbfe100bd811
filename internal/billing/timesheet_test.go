package billing

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const hourlyCSV = `Date,Regular Hours
2025-03-03,8
2025-03-04,8.5
2025-03-05,0
2025-04-01,8
`

const attendanceCSV = `Date,Attendance
01-03-2025,Present
02-03-2025,Absent
03-03-2025,Present
03-03-2025,Present
04-03-2025,P
`

// buildWorkbook renders a minimal copy of the HR timesheet template: a couple
// of preamble rows, a header, then dated rows.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, ref, cell))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestIngestHourlyCSV(t *testing.T) {
	rec, err := Ingest(&CSVParser{}, []byte(hourlyCSV), 3, "Asha Pillai", time.March, 2025, CalculationHourly)
	require.NoError(t, err)

	// the April row falls outside the period and is ignored
	assert.True(t, rec.TotalWorkedHours.Equal(dec("16.5")), "got %s", rec.TotalWorkedHours)
	assert.Equal(t, int64(3), rec.EmployeeID)
	assert.Equal(t, CalculationHourly, rec.Basis)
}

func TestIngestAttendanceCSV(t *testing.T) {
	rec, err := Ingest(&CSVParser{}, []byte(attendanceCSV), 5, "Vikram Rao", time.March, 2025, CalculationMonthly)
	require.NoError(t, err)

	// 01, 03, 04 present; the duplicate 03 row counts once
	assert.Equal(t, 3, rec.TotalWorkedDays)
}

func TestIngestXLSXWithPreamble(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Employee", "Asha Pillai"},
		{"Location", "Pune"},
		{},
		{"Date", "Regular Hours"},
		{"2025-03-03", 8},
		{"2025-03-04", 7.5},
		{"2025-03-05", ""},
		{"2025-02-28", 8},
	})

	rec, err := Ingest(&XLSXParser{}, data, 1, "Asha Pillai", time.March, 2025, CalculationHourly)
	require.NoError(t, err)
	assert.True(t, rec.TotalWorkedHours.Equal(dec("15.5")), "got %s", rec.TotalWorkedHours)
}

func TestIngestEmptyPeriodIsEmptyTimesheet(t *testing.T) {
	// Rows exist but none fall inside the requested month.
	_, err := Ingest(&CSVParser{}, []byte(hourlyCSV), 1, "A", time.December, 2025, CalculationHourly)
	assert.ErrorIs(t, err, ErrEmptyTimesheet)
}

func TestIngestHeaderlessSheetIsMalformed(t *testing.T) {
	csvData := "just,some,cells\n1,2,3\n"
	_, err := Ingest(&CSVParser{}, []byte(csvData), 1, "A", time.March, 2025, CalculationHourly)

	var malformed *MalformedTimesheetError
	require.True(t, errors.As(err, &malformed), "got %v", err)
	assert.NotErrorIs(t, err, ErrEmptyTimesheet)
}

func TestIngestBadDateIsMalformed(t *testing.T) {
	csvData := "Date,Regular Hours\nnot-a-date,8\n"
	_, err := Ingest(&CSVParser{}, []byte(csvData), 1, "A", time.March, 2025, CalculationHourly)

	var malformed *MalformedTimesheetError
	require.True(t, errors.As(err, &malformed), "got %v", err)
	assert.Contains(t, malformed.Reason, "not-a-date")
}

func TestIngestBadWorkValueIsMalformed(t *testing.T) {
	csvData := "Date,Regular Hours\n2025-03-03,banana\n"
	_, err := Ingest(&CSVParser{}, []byte(csvData), 1, "A", time.March, 2025, CalculationHourly)

	var malformed *MalformedTimesheetError
	assert.True(t, errors.As(err, &malformed), "got %v", err)
}

func TestIngestGarbageBytesAreMalformed(t *testing.T) {
	_, err := Ingest(&XLSXParser{}, []byte("definitely not a zip archive"), 1, "A", time.March, 2025, CalculationHourly)

	var malformed *MalformedTimesheetError
	assert.True(t, errors.As(err, &malformed), "got %v", err)
}

func TestParserForFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     TimesheetParser
		wantErr  bool
	}{
		{filename: "march.xlsx", want: &XLSXParser{}},
		{filename: "MARCH.XLSX", want: &XLSXParser{}},
		{filename: "march.csv", want: &CSVParser{}},
		{filename: "march.pdf", wantErr: true},
		{filename: "no-extension", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			p, err := ParserForFilename(tt.filename)
			if tt.wantErr {
				var malformed *MalformedTimesheetError
				assert.True(t, errors.As(err, &malformed), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, p)
		})
	}
}

func TestParseWorkValueVariants(t *testing.T) {
	tests := []struct {
		in      string
		hours   string
		present bool
	}{
		{in: "8", hours: "8", present: true},
		{in: "8.5", hours: "8.5", present: true},
		{in: "8 hours", hours: "8", present: true},
		{in: "0", hours: "0", present: false},
		{in: "Present", hours: "0", present: true},
		{in: "absent", hours: "0", present: false},
		{in: "Leave", hours: "0", present: false},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("value_%s", tt.in), func(t *testing.T) {
			hours, present, err := parseWorkValue(tt.in)
			require.NoError(t, err)
			assert.True(t, hours.Equal(dec(tt.hours)), "got %s", hours)
			assert.Equal(t, tt.present, present)
		})
	}
}
