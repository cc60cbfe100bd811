package billing

import "github.com/shopspring/decimal"

// Settle applies an absolute paid amount against an invoice sub-total and
// derives the outstanding balance. The API semantics are "set", not "add":
// the new value replaces the cumulative paid amount. Overpayment is legal and
// floors the due amount at zero; due is always derived, never stored.
func Settle(subTotal, paidAmount decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	if paidAmount.IsNegative() {
		return decimal.Zero, decimal.Zero, ErrInvalidPaymentAmount
	}
	due := subTotal.Sub(paidAmount)
	if due.IsNegative() {
		due = decimal.Zero
	}
	return paidAmount, due.Round(2), nil
}

// Due recomputes the outstanding balance for reads. Same clamp as Settle.
func Due(subTotal, paidAmount decimal.Decimal) decimal.Decimal {
	due := subTotal.Sub(paidAmount)
	if due.IsNegative() {
		return decimal.Zero
	}
	return due.Round(2)
}
