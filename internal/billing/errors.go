package billing

import (
	"errors"
	"fmt"
	"strings"
)

// Fatal engine errors. Handlers translate these into HTTP responses; the
// dbrepo layer maps storage conflicts onto the same values so callers see a
// single taxonomy.
var (
	// ErrEmptyTimesheet means the sheet parsed fine but held zero rows inside
	// the requested month/year. Distinct from "employee worked zero hours".
	ErrEmptyTimesheet = errors.New("timesheet has no rows in the requested period")

	// ErrEmptyInvoiceBatch means no employee timesheet survived ingestion.
	ErrEmptyInvoiceBatch = errors.New("no timesheet could be ingested for this invoice run")

	// ErrDuplicateInvoicePeriod means an invoice already exists for the
	// (purchase order, month, year) tuple.
	ErrDuplicateInvoicePeriod = errors.New("an invoice already exists for this purchase order and period")

	// ErrInvalidPaymentAmount rejects negative paid amounts.
	ErrInvalidPaymentAmount = errors.New("paid amount must not be negative")

	// ErrInvoiceNotFound is returned for payment updates against unknown invoices.
	ErrInvoiceNotFound = errors.New("invoice not found")
)

// MalformedTimesheetError reports a sheet whose required columns are missing
// or whose cell values cannot be parsed as dates/numbers.
type MalformedTimesheetError struct {
	Reason string
}

func (e *MalformedTimesheetError) Error() string {
	return "malformed timesheet: " + e.Reason
}

// UnresolvedTaxSchemaError reports a client type the rate table does not know.
type UnresolvedTaxSchemaError struct {
	ClientType string
}

func (e *UnresolvedTaxSchemaError) Error() string {
	return fmt.Sprintf("no tax schema configured for client type %q", e.ClientType)
}

// SkippedEmployee names an employee whose timesheet failed ingestion.
type SkippedEmployee struct {
	EmployeeID   int64  `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Reason       string `json:"reason"`
}

// PartialBatchWarning is non-fatal: the invoice was still produced for the
// employees that ingested cleanly, but the caller must see who was dropped.
type PartialBatchWarning struct {
	Skipped []SkippedEmployee `json:"skipped"`
}

func (w *PartialBatchWarning) Message() string {
	names := make([]string, 0, len(w.Skipped))
	for _, s := range w.Skipped {
		names = append(names, s.EmployeeName)
	}
	return "timesheets skipped for: " + strings.Join(names, ", ")
}
