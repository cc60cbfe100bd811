package dbrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/workbridge/invoicing-api/internal/billing"
	"github.com/workbridge/invoicing-api/internal/models"
)

// ============================== Invoice Repository ==============================
type InvoiceRepo struct {
	db *pgxpool.Pool
}

func NewInvoiceRepo(db *pgxpool.Pool) *InvoiceRepo {
	return &InvoiceRepo{db: db}
}

// CreateInvoice allocates the next invoice number and inserts the invoice and
// its line items in one transaction. The counter row is incremented inside
// the same transaction, so a failed insert rolls the number back and never
// leaks it; the row lock also serializes concurrent generation requests so
// numbers commit in allocation order. A second invoice for the same
// (po_id, month, year) trips the unique index and is reported as
// billing.ErrDuplicateInvoicePeriod.
func (r *InvoiceRepo) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// --- Step 1: Allocate the invoice number ---
	err = tx.QueryRow(ctx, `
        UPDATE invoice_counters
        SET last_value = last_value + 1
        WHERE id = 1
        RETURNING last_value
    `).Scan(&inv.InvoiceNumber)
	if err != nil {
		return fmt.Errorf("allocate invoice number: %w", err)
	}

	// --- Step 2: Insert invoice ---
	err = tx.QueryRow(ctx, `
        INSERT INTO invoices
        (invoice_number, company_id, po_id, month, year, client_type, currency,
         sub_total, sub_total_in_inr, cgst_amount, sgst_amount, igst_amount, paid_amount, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,0,CURRENT_TIMESTAMP)
        RETURNING id, paid_amount, created_at
    `,
		inv.InvoiceNumber, inv.CompanyID, inv.POID, inv.Month, inv.Year,
		inv.ClientType, inv.Currency, inv.SubTotal, inv.SubTotalINR,
		inv.CGSTAmount, inv.SGSTAmount, inv.IGSTAmount,
	).Scan(&inv.ID, &inv.PaidAmount, &inv.CreatedAt)
	if err != nil {
		if isUniqueViolation(err, "invoices_po_period_key") {
			return billing.ErrDuplicateInvoicePeriod
		}
		return fmt.Errorf("insert invoice: %w", err)
	}

	// --- Step 3: Insert line items ---
	for _, item := range inv.LineItems {
		err = tx.QueryRow(ctx, `
            INSERT INTO invoice_line_items
            (invoice_id, employee_id, employee_name, calculation_type, worked_quantity, sub_total)
            VALUES ($1,$2,$3,$4,$5,$6)
            RETURNING id
        `,
			inv.ID, item.EmployeeID, item.EmployeeName, item.CalculationType,
			item.WorkedQuantity, item.SubTotal,
		).Scan(&item.ID)
		if err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
		item.InvoiceID = inv.ID
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit invoice: %w", err)
	}
	inv.DueAmount = billing.Due(inv.SubTotal, inv.PaidAmount)
	return nil
}

// GetInvoices lists invoices newest first, with company and PO labels joined
func (r *InvoiceRepo) GetInvoices(ctx context.Context) ([]*models.Invoice, error) {
	rows, err := r.db.Query(ctx, `
        SELECT i.id, i.invoice_number, i.company_id, i.po_id, i.month, i.year,
               i.client_type, i.currency, i.sub_total, i.sub_total_in_inr,
               i.cgst_amount, i.sgst_amount, i.igst_amount, i.paid_amount, i.created_at,
               c.name, p.po_number
        FROM invoices i
        JOIN companies c ON c.id = i.company_id
        JOIN purchase_orders p ON p.id = i.po_id
        ORDER BY i.created_at DESC
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		var inv models.Invoice
		err := rows.Scan(
			&inv.ID, &inv.InvoiceNumber, &inv.CompanyID, &inv.POID, &inv.Month, &inv.Year,
			&inv.ClientType, &inv.Currency, &inv.SubTotal, &inv.SubTotalINR,
			&inv.CGSTAmount, &inv.SGSTAmount, &inv.IGSTAmount, &inv.PaidAmount, &inv.CreatedAt,
			&inv.CompanyName, &inv.PONumber,
		)
		if err != nil {
			return nil, err
		}
		inv.DueAmount = billing.Due(inv.SubTotal, inv.PaidAmount)
		invoices = append(invoices, &inv)
	}
	return invoices, nil
}

// GetInvoice fetches one invoice with its line items
func (r *InvoiceRepo) GetInvoice(ctx context.Context, id int64) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.QueryRow(ctx, `
        SELECT i.id, i.invoice_number, i.company_id, i.po_id, i.month, i.year,
               i.client_type, i.currency, i.sub_total, i.sub_total_in_inr,
               i.cgst_amount, i.sgst_amount, i.igst_amount, i.paid_amount, i.created_at,
               c.name, p.po_number
        FROM invoices i
        JOIN companies c ON c.id = i.company_id
        JOIN purchase_orders p ON p.id = i.po_id
        WHERE i.id = $1
    `, id).Scan(
		&inv.ID, &inv.InvoiceNumber, &inv.CompanyID, &inv.POID, &inv.Month, &inv.Year,
		&inv.ClientType, &inv.Currency, &inv.SubTotal, &inv.SubTotalINR,
		&inv.CGSTAmount, &inv.SGSTAmount, &inv.IGSTAmount, &inv.PaidAmount, &inv.CreatedAt,
		&inv.CompanyName, &inv.PONumber,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}
	inv.DueAmount = billing.Due(inv.SubTotal, inv.PaidAmount)

	rows, err := r.db.Query(ctx, `
        SELECT id, invoice_id, employee_id, employee_name, calculation_type, worked_quantity, sub_total
        FROM invoice_line_items
        WHERE invoice_id = $1
        ORDER BY id
    `, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item models.InvoiceLineItem
		err := rows.Scan(&item.ID, &item.InvoiceID, &item.EmployeeID, &item.EmployeeName,
			&item.CalculationType, &item.WorkedQuantity, &item.SubTotal)
		if err != nil {
			return nil, err
		}
		inv.LineItems = append(inv.LineItems, &item)
	}
	return &inv, nil
}

// SetPaidAmount replaces the cumulative paid amount ("set", not "add") and
// returns the updated invoice. Concurrent updates to the same invoice
// serialize on the row update; last writer wins, as the API contract states.
func (r *InvoiceRepo) SetPaidAmount(ctx context.Context, id int64, paid decimal.Decimal) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.QueryRow(ctx, `
        UPDATE invoices
        SET paid_amount = $1
        WHERE id = $2
        RETURNING id, invoice_number, sub_total, paid_amount
    `, paid, id).Scan(&inv.ID, &inv.InvoiceNumber, &inv.SubTotal, &inv.PaidAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, billing.ErrInvoiceNotFound
		}
		return nil, err
	}
	inv.DueAmount = billing.Due(inv.SubTotal, inv.PaidAmount)
	return &inv, nil
}

// DeleteInvoice removes an invoice and its line items. The invoice number is
// never reissued; the counter only moves forward.
func (r *InvoiceRepo) DeleteInvoice(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return billing.ErrInvoiceNotFound
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == constraint
	}
	return false
}
