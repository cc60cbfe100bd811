package dbrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workbridge/invoicing-api/internal/models"
)

// ============================== Purchase Order Repository ==============================
type PORepo struct {
	db *pgxpool.Pool
}

func NewPORepo(db *pgxpool.Pool) *PORepo {
	return &PORepo{db: db}
}

// GetPurchaseOrders lists a company's POs with employee counts
func (r *PORepo) GetPurchaseOrders(ctx context.Context, companyID int64) ([]*models.PurchaseOrder, error) {
	rows, err := r.db.Query(ctx, `
        SELECT p.id, p.company_id, p.po_number, p.monthly_budget, p.hourly_rate,
               p.cgst, p.sgst, p.igst, p.created_at, COUNT(e.id) AS employee_count
        FROM purchase_orders p
        LEFT JOIN employees e ON e.po_id = p.id
        WHERE p.company_id = $1
        GROUP BY p.id
        ORDER BY p.id
    `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*models.PurchaseOrder
	for rows.Next() {
		var po models.PurchaseOrder
		err := rows.Scan(&po.ID, &po.CompanyID, &po.PONumber, &po.MonthlyBudget, &po.HourlyRate,
			&po.CGST, &po.SGST, &po.IGST, &po.CreatedAt, &po.EmployeeCount)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &po)
	}
	return orders, nil
}

// GetPurchaseOrder fetches one PO with its employees
func (r *PORepo) GetPurchaseOrder(ctx context.Context, id int64) (*models.PurchaseOrder, error) {
	po := &models.PurchaseOrder{}
	err := r.db.QueryRow(ctx, `
        SELECT id, company_id, po_number, monthly_budget, hourly_rate, cgst, sgst, igst, created_at
        FROM purchase_orders WHERE id = $1
    `, id).Scan(&po.ID, &po.CompanyID, &po.PONumber, &po.MonthlyBudget, &po.HourlyRate,
		&po.CGST, &po.SGST, &po.IGST, &po.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("purchase order not found")
		}
		return nil, err
	}

	employees, err := listEmployeesByPO(ctx, r.db, po.ID)
	if err != nil {
		return nil, err
	}
	po.Employees = employees
	return po, nil
}
