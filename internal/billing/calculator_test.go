package billing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testCalculator() *Calculator {
	return NewCalculator(22, dec("83.00"))
}

func TestCalculateHourlyLineItem(t *testing.T) {
	// 160 hours at 25.00 USD/h must come out at exactly 4000.00
	rates := ResolvedRates{Calculation: CalculationHourly, Currency: "USD", Regime: TaxRegimeNone}
	po := PORates{HourlyRate: dec("25.00")}
	records := []*TimesheetRecord{{
		EmployeeID:       1,
		EmployeeName:     "Asha Pillai",
		Month:            time.March,
		Year:             2025,
		Basis:            CalculationHourly,
		TotalWorkedHours: dec("160"),
	}}

	draft, err := testCalculator().Calculate(rates, po, records, nil)
	require.NoError(t, err)
	require.Len(t, draft.Lines, 1)

	line := draft.Lines[0]
	assert.Equal(t, CalculationHourly, line.Calculation)
	assert.True(t, line.SubTotal.Equal(dec("4000.00")), "got %s", line.SubTotal)
	assert.True(t, draft.SubTotal.Equal(dec("4000.00")))
	assert.Nil(t, draft.Warning)
}

func TestCalculateMonthlyProration(t *testing.T) {
	// 11 of 22 working days on a 60000 budget is exactly half
	rates := ResolvedRates{Calculation: CalculationMonthly, Currency: "INR", Regime: TaxRegimeInterState, IGST: dec("18")}
	po := PORates{MonthlyBudget: dec("60000"), IGST: dec("18")}
	records := []*TimesheetRecord{{
		EmployeeID:      7,
		EmployeeName:    "Vikram Rao",
		Basis:           CalculationMonthly,
		TotalWorkedDays: 11,
	}}

	draft, err := testCalculator().Calculate(rates, po, records, nil)
	require.NoError(t, err)
	require.Len(t, draft.Lines, 1)
	assert.True(t, draft.Lines[0].SubTotal.Equal(dec("30000.00")), "got %s", draft.Lines[0].SubTotal)
	assert.True(t, draft.SubTotal.Equal(dec("30000.00")))
}

func TestCalculateRoundsHalfUp(t *testing.T) {
	// 10.5h at 0.05/h = 0.525, which must round to 0.53
	rates := ResolvedRates{Calculation: CalculationHourly, Currency: "USD", Regime: TaxRegimeNone}
	po := PORates{HourlyRate: dec("0.05")}
	records := []*TimesheetRecord{{
		EmployeeID:       1,
		EmployeeName:     "A",
		Basis:            CalculationHourly,
		TotalWorkedHours: dec("10.5"),
	}}

	draft, err := testCalculator().Calculate(rates, po, records, nil)
	require.NoError(t, err)
	assert.True(t, draft.Lines[0].SubTotal.Equal(dec("0.53")), "got %s", draft.Lines[0].SubTotal)
}

func TestCalculateTaxReportedSeparately(t *testing.T) {
	// The stored sub_total stays pre-tax; CGST/SGST come off the grand total
	// and live beside it.
	rates := ResolvedRates{
		Calculation: CalculationMonthly, Currency: "INR", Regime: TaxRegimeIntraState,
		CGST: dec("9"), SGST: dec("9"),
	}
	po := PORates{MonthlyBudget: dec("44000")}
	records := []*TimesheetRecord{
		{EmployeeID: 1, EmployeeName: "A", Basis: CalculationMonthly, TotalWorkedDays: 22},
		{EmployeeID: 2, EmployeeName: "B", Basis: CalculationMonthly, TotalWorkedDays: 11},
	}

	draft, err := testCalculator().Calculate(rates, po, records, nil)
	require.NoError(t, err)

	assert.True(t, draft.SubTotal.Equal(dec("66000.00")), "got %s", draft.SubTotal)
	assert.True(t, draft.Taxes.CGST.Equal(dec("5940.00")), "got %s", draft.Taxes.CGST)
	assert.True(t, draft.Taxes.SGST.Equal(dec("5940.00")), "got %s", draft.Taxes.SGST)
	assert.True(t, draft.Taxes.IGST.IsZero())
	assert.True(t, draft.TotalWithTax().Equal(dec("77880.00")), "got %s", draft.TotalWithTax())
	// sub_total untouched by tax
	assert.True(t, draft.SubTotal.Equal(dec("66000.00")))
}

func TestCalculateInterStateUsesIGSTOnly(t *testing.T) {
	rates := ResolvedRates{
		Calculation: CalculationMonthly, Currency: "INR", Regime: TaxRegimeInterState,
		IGST: dec("18"),
	}
	po := PORates{MonthlyBudget: dec("22000")}
	records := []*TimesheetRecord{
		{EmployeeID: 1, EmployeeName: "A", Basis: CalculationMonthly, TotalWorkedDays: 22},
	}

	draft, err := testCalculator().Calculate(rates, po, records, nil)
	require.NoError(t, err)
	assert.True(t, draft.Taxes.IGST.Equal(dec("3960.00")), "got %s", draft.Taxes.IGST)
	assert.True(t, draft.Taxes.CGST.IsZero())
	assert.True(t, draft.Taxes.SGST.IsZero())
}

func TestCalculateUSDConvertsToINR(t *testing.T) {
	rates := ResolvedRates{Calculation: CalculationHourly, Currency: "USD", Regime: TaxRegimeNone}
	po := PORates{HourlyRate: dec("25.00")}
	records := []*TimesheetRecord{{
		EmployeeID: 1, EmployeeName: "A", Basis: CalculationHourly, TotalWorkedHours: dec("160"),
	}}

	draft, err := testCalculator().Calculate(rates, po, records, nil)
	require.NoError(t, err)
	assert.True(t, draft.SubTotalINR.Equal(dec("332000.00")), "got %s", draft.SubTotalINR)
}

func TestCalculateINRKeepsSubTotal(t *testing.T) {
	rates := ResolvedRates{Calculation: CalculationMonthly, Currency: "INR", Regime: TaxRegimeInterState, IGST: dec("18")}
	po := PORates{MonthlyBudget: dec("60000")}
	records := []*TimesheetRecord{{
		EmployeeID: 1, EmployeeName: "A", Basis: CalculationMonthly, TotalWorkedDays: 22,
	}}

	draft, err := testCalculator().Calculate(rates, po, records, nil)
	require.NoError(t, err)
	assert.True(t, draft.SubTotalINR.Equal(draft.SubTotal))
}

func TestCalculateEmptyBatchFails(t *testing.T) {
	rates := ResolvedRates{Calculation: CalculationHourly, Currency: "USD", Regime: TaxRegimeNone}
	skipped := []SkippedEmployee{{EmployeeID: 1, EmployeeName: "A", Reason: "no timesheet uploaded"}}

	_, err := testCalculator().Calculate(rates, PORates{}, nil, skipped)
	assert.ErrorIs(t, err, ErrEmptyInvoiceBatch)
}

func TestCalculatePartialBatchWarns(t *testing.T) {
	rates := ResolvedRates{Calculation: CalculationHourly, Currency: "USD", Regime: TaxRegimeNone}
	po := PORates{HourlyRate: dec("10")}
	records := []*TimesheetRecord{{
		EmployeeID: 1, EmployeeName: "Kept", Basis: CalculationHourly, TotalWorkedHours: dec("8"),
	}}
	skipped := []SkippedEmployee{{EmployeeID: 2, EmployeeName: "Dropped", Reason: "timesheet has no rows in the requested period"}}

	draft, err := testCalculator().Calculate(rates, po, records, skipped)
	require.NoError(t, err)
	require.NotNil(t, draft.Warning)
	require.Len(t, draft.Warning.Skipped, 1)
	assert.Equal(t, "Dropped", draft.Warning.Skipped[0].EmployeeName)
	assert.Contains(t, draft.Warning.Message(), "Dropped")
	// the surviving employee still gets invoiced
	require.Len(t, draft.Lines, 1)
	assert.Equal(t, "Kept", draft.Lines[0].EmployeeName)
}

func TestCalculateZeroWorkIsNotAnError(t *testing.T) {
	// "Worked zero" is a legal record, distinct from an empty timesheet.
	rates := ResolvedRates{Calculation: CalculationHourly, Currency: "USD", Regime: TaxRegimeNone}
	po := PORates{HourlyRate: dec("25.00")}
	records := []*TimesheetRecord{{
		EmployeeID: 1, EmployeeName: "A", Basis: CalculationHourly, TotalWorkedHours: decimal.Zero,
	}}

	draft, err := testCalculator().Calculate(rates, po, records, nil)
	require.NoError(t, err)
	assert.True(t, draft.SubTotal.IsZero())
}
