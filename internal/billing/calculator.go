package billing

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// LineItem is the per-employee result of an invoice run.
type LineItem struct {
	EmployeeID     int64           `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	Calculation    CalculationType `json:"calculation_type"`
	WorkedQuantity decimal.Decimal `json:"worked_quantity"`
	SubTotal       decimal.Decimal `json:"sub_total"`
}

// TaxBreakdown carries the GST amounts computed from the grand total. These
// are display/reporting figures only: the stored invoice sub_total is the
// pre-tax taxable base and the two must never be mixed.
type TaxBreakdown struct {
	CGST decimal.Decimal `json:"cgst"`
	SGST decimal.Decimal `json:"sgst"`
	IGST decimal.Decimal `json:"igst"`
}

// InvoiceDraft is everything the calculator produces for one run. It has no
// identity yet; the number is allocated when the draft is committed.
type InvoiceDraft struct {
	Lines       []LineItem
	Currency    string
	SubTotal    decimal.Decimal // pre-tax grand total in the contract currency
	SubTotalINR decimal.Decimal // converted for USD contracts, equal otherwise
	Taxes       TaxBreakdown
	Warning     *PartialBatchWarning
}

// Calculator combines ingested timesheet records with resolved rates.
// Externally configured constants: standard working days used for monthly
// proration, and the fixed USD→INR conversion rate.
type Calculator struct {
	StandardWorkingDays int
	USDToINR            decimal.Decimal
}

func NewCalculator(standardWorkingDays int, usdToINR decimal.Decimal) *Calculator {
	return &Calculator{StandardWorkingDays: standardWorkingDays, USDToINR: usdToINR}
}

// Calculate produces one line item per ingested record and the pre-tax grand
// total. Employees whose timesheets failed ingestion arrive in skipped; if
// everything was skipped the run fails, otherwise the draft carries a
// PartialBatchWarning so nobody is dropped silently.
func (c *Calculator) Calculate(rates ResolvedRates, po PORates, records []*TimesheetRecord, skipped []SkippedEmployee) (*InvoiceDraft, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInvoiceBatch
	}
	if rates.Calculation == CalculationMonthly && c.StandardWorkingDays <= 0 {
		return nil, fmt.Errorf("standard working days must be positive, got %d", c.StandardWorkingDays)
	}

	draft := &InvoiceDraft{Currency: rates.Currency}
	for _, rec := range records {
		line := LineItem{
			EmployeeID:   rec.EmployeeID,
			EmployeeName: rec.EmployeeName,
			Calculation:  rates.Calculation,
		}
		switch rates.Calculation {
		case CalculationHourly:
			line.WorkedQuantity = rec.TotalWorkedHours
			line.SubTotal = rec.TotalWorkedHours.Mul(po.HourlyRate).Round(2)
		case CalculationMonthly:
			days := decimal.NewFromInt(int64(rec.TotalWorkedDays))
			line.WorkedQuantity = days
			line.SubTotal = po.MonthlyBudget.Mul(days).
				Div(decimal.NewFromInt(int64(c.StandardWorkingDays))).Round(2)
		default:
			return nil, fmt.Errorf("unknown calculation type %q", rates.Calculation)
		}
		draft.Lines = append(draft.Lines, line)
		draft.SubTotal = draft.SubTotal.Add(line.SubTotal)
	}

	// Tax components come off the grand total. They are reported separately
	// and never added back into the stored sub_total.
	hundred := decimal.NewFromInt(100)
	switch rates.Regime {
	case TaxRegimeIntraState:
		draft.Taxes.CGST = draft.SubTotal.Mul(rates.CGST).Div(hundred).Round(2)
		draft.Taxes.SGST = draft.SubTotal.Mul(rates.SGST).Div(hundred).Round(2)
	case TaxRegimeInterState:
		draft.Taxes.IGST = draft.SubTotal.Mul(rates.IGST).Div(hundred).Round(2)
	}

	if rates.Currency == "USD" {
		draft.SubTotalINR = draft.SubTotal.Mul(c.USDToINR).Round(2)
	} else {
		draft.SubTotalINR = draft.SubTotal
	}

	if len(skipped) > 0 {
		draft.Warning = &PartialBatchWarning{Skipped: skipped}
	}
	return draft, nil
}

// TotalWithTax is the post-tax figure renderers display as the amount payable.
// Kept as a method so the pre-tax/post-tax boundary lives in exactly one place.
func (d *InvoiceDraft) TotalWithTax() decimal.Decimal {
	return d.SubTotal.Add(d.Taxes.CGST).Add(d.Taxes.SGST).Add(d.Taxes.IGST)
}
