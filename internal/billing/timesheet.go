package billing

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// CalculationType selects the billing basis for a purchase order.
type CalculationType string

const (
	CalculationHourly  CalculationType = "hourly"
	CalculationMonthly CalculationType = "monthly"
)

// WorkEntry is one dated row extracted from an uploaded timesheet.
type WorkEntry struct {
	Date    time.Time
	Hours   decimal.Decimal
	Present bool
}

// TimesheetRecord is the normalized result of ingesting one employee's sheet
// for one invoicing period. Only the field matching the billing basis is set.
type TimesheetRecord struct {
	EmployeeID       int64
	EmployeeName     string
	Month            time.Month
	Year             int
	Basis            CalculationType
	TotalWorkedHours decimal.Decimal
	TotalWorkedDays  int
}

// TimesheetParser turns raw spreadsheet bytes into dated work entries.
// Format-specific libraries stay behind this interface so they can be swapped
// without touching calculation logic.
type TimesheetParser interface {
	Parse(data []byte) ([]WorkEntry, error)
}

// ParserForFilename picks a parser from the uploaded file's extension.
func ParserForFilename(filename string) (TimesheetParser, error) {
	switch strings.ToLower(strings.TrimPrefix(filenameExt(filename), ".")) {
	case "xlsx", "xlsm", "xls":
		return &XLSXParser{}, nil
	case "csv":
		return &CSVParser{}, nil
	default:
		return nil, &MalformedTimesheetError{Reason: fmt.Sprintf("unrecognized spreadsheet format %q", filename)}
	}
}

func filenameExt(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i:]
	}
	return ""
}

// Ingest runs the parser over the uploaded bytes and aggregates the rows that
// fall inside the requested month/year. Rows outside the period are ignored.
// Zero in-range rows is ErrEmptyTimesheet, never a silent zero invoice.
func Ingest(p TimesheetParser, data []byte, employeeID int64, employeeName string, month time.Month, year int, basis CalculationType) (*TimesheetRecord, error) {
	entries, err := p.Parse(data)
	if err != nil {
		return nil, err
	}

	rec := &TimesheetRecord{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Month:        month,
		Year:         year,
		Basis:        basis,
	}

	inRange := 0
	days := make(map[int]bool)
	for _, e := range entries {
		if e.Date.Month() != month || e.Date.Year() != year {
			continue
		}
		inRange++
		switch basis {
		case CalculationHourly:
			rec.TotalWorkedHours = rec.TotalWorkedHours.Add(e.Hours)
		case CalculationMonthly:
			if e.Present {
				days[e.Date.Day()] = true
			}
		}
	}
	if inRange == 0 {
		return nil, ErrEmptyTimesheet
	}
	rec.TotalWorkedDays = len(days)
	return rec, nil
}

var (
	hoursPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

	dateLayouts = []string{
		"2006-01-02",
		"02-01-2006",
		"01/02/2006",
		"02/01/2006",
		"1/2/06",
		"2-Jan-06",
		"02-Jan-2006",
		"Jan 2, 2006",
		"January 2, 2006",
		"2006/01/02",
	}
)

// XLSXParser reads .xlsx workbooks. The first sheet is expected to carry a
// header row with a date column and either an hours-worked or attendance
// column; preamble rows above the header (employee name, location) are
// tolerated the way the uploaded HR templates lay them out.
type XLSXParser struct{}

func (x *XLSXParser) Parse(data []byte) ([]WorkEntry, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, &MalformedTimesheetError{Reason: "cannot open workbook: " + err.Error()}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &MalformedTimesheetError{Reason: "workbook has no sheets"}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &MalformedTimesheetError{Reason: "cannot read rows: " + err.Error()}
	}
	return parseGrid(rows)
}

// CSVParser reads comma-separated timesheets with the same column contract.
type CSVParser struct{}

func (c *CSVParser) Parse(data []byte) ([]WorkEntry, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, &MalformedTimesheetError{Reason: "cannot read csv: " + err.Error()}
	}
	return parseGrid(rows)
}

// parseGrid is shared by every parser: locate the header, then walk data rows.
func parseGrid(rows [][]string) ([]WorkEntry, error) {
	headerIdx, dateCol, workCol := locateHeader(rows)
	if headerIdx < 0 {
		return nil, &MalformedTimesheetError{Reason: "no header row with a date column and an hours/attendance column"}
	}

	var entries []WorkEntry
	for _, row := range rows[headerIdx+1:] {
		if isBlankRow(row) {
			continue
		}
		dateStr := cellAt(row, dateCol)
		workStr := cellAt(row, workCol)
		if workStr == "" {
			// No hours/attendance recorded for the row, same as the HR
			// template leaving future dates empty.
			continue
		}
		date, err := parseDate(dateStr)
		if err != nil {
			return nil, &MalformedTimesheetError{Reason: fmt.Sprintf("row value %q is not a date", dateStr)}
		}
		hours, present, err := parseWorkValue(workStr)
		if err != nil {
			return nil, err
		}
		entries = append(entries, WorkEntry{Date: date, Hours: hours, Present: present})
	}
	return entries, nil
}

// locateHeader scans the leading rows for the column headings. Returns the
// header row index plus the date and work column positions, or -1 if absent.
func locateHeader(rows [][]string) (int, int, int) {
	for i, row := range rows {
		dateCol, workCol := -1, -1
		for j, cell := range row {
			c := strings.ToLower(strings.TrimSpace(cell))
			switch {
			case dateCol < 0 && strings.Contains(c, "date"):
				dateCol = j
			case workCol < 0 && (strings.Contains(c, "regular hours") ||
				strings.Contains(c, "hours worked") ||
				strings.Contains(c, "worked hours") ||
				c == "hours" ||
				strings.Contains(c, "attendance") ||
				c == "status"):
				workCol = j
			}
		}
		if dateCol >= 0 && workCol >= 0 {
			return i, dateCol, workCol
		}
	}
	return -1, -1, -1
}

func cellAt(row []string, col int) string {
	if col < len(row) {
		return strings.TrimSpace(row[col])
	}
	return ""
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date cell")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// parseWorkValue accepts "8", "8.5", "8 hours", "Present", "Absent" and the
// like. Numeric content wins; otherwise the cell is read as an attendance
// indicator.
func parseWorkValue(value string) (decimal.Decimal, bool, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "present", "p", "yes", "y":
		return decimal.Zero, true, nil
	case "absent", "a", "no", "n", "leave", "holiday", "off", "-":
		return decimal.Zero, false, nil
	}
	if m := hoursPattern.FindString(v); m != "" {
		hours, err := decimal.NewFromString(m)
		if err != nil {
			return decimal.Zero, false, &MalformedTimesheetError{Reason: fmt.Sprintf("row value %q is not a number", value)}
		}
		return hours, hours.IsPositive(), nil
	}
	return decimal.Zero, false, &MalformedTimesheetError{Reason: fmt.Sprintf("row value %q is neither hours nor an attendance status", value)}
}
