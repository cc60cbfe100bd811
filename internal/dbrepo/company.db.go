package dbrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workbridge/invoicing-api/internal/models"
)

// ============================== Company Repository ==============================
type CompanyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepo(db *pgxpool.Pool) *CompanyRepo {
	return &CompanyRepo{db: db}
}

// CreateCompany inserts a company together with its purchase orders and their
// employees in one transaction, the way the onboarding form submits them.
func (r *CompanyRepo) CreateCompany(ctx context.Context, c *models.Company) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// --- Step 1: Insert company ---
	err = tx.QueryRow(ctx, `
        INSERT INTO companies
        (name, contact_number, building_no, local_street, city, state, country,
         gst, sac, email, client_type, document_path, is_active, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,TRUE,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
        RETURNING id, is_active, created_at, updated_at
    `,
		c.Name, c.ContactNumber, c.BuildingNo, c.LocalStreet, c.City, c.State, c.Country,
		c.GST, c.SAC, c.Email, c.ClientType, c.DocumentPath,
	).Scan(&c.ID, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert company: %w", err)
	}

	// --- Step 2: Insert purchase orders ---
	for _, po := range c.PONumbers {
		err = tx.QueryRow(ctx, `
            INSERT INTO purchase_orders
            (company_id, po_number, monthly_budget, hourly_rate, cgst, sgst, igst, created_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,CURRENT_TIMESTAMP)
            RETURNING id, created_at
        `,
			c.ID, po.PONumber, po.MonthlyBudget, po.HourlyRate, po.CGST, po.SGST, po.IGST,
		).Scan(&po.ID, &po.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert purchase order: %w", err)
		}
		po.CompanyID = c.ID

		// --- Step 3: Insert employees under the PO ---
		for _, emp := range po.Employees {
			err = tx.QueryRow(ctx, `
                INSERT INTO employees (po_id, name, email, date_of_joining, location, created_at, updated_at)
                VALUES ($1,$2,$3,$4,$5,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
                RETURNING id, created_at, updated_at
            `,
				po.ID, emp.Name, emp.Email, emp.DateOfJoining, emp.Location,
			).Scan(&emp.ID, &emp.CreatedAt, &emp.UpdatedAt)
			if err != nil {
				return fmt.Errorf("insert employee: %w", err)
			}
			emp.POID = po.ID
		}
	}

	return tx.Commit(ctx)
}

// GetCompanies lists companies with their PO counts
func (r *CompanyRepo) GetCompanies(ctx context.Context) ([]*models.Company, error) {
	rows, err := r.db.Query(ctx, `
        SELECT c.id, c.name, c.contact_number, c.email, c.client_type, c.is_active,
               c.created_at, COUNT(p.id) AS po_count
        FROM companies c
        LEFT JOIN purchase_orders p ON p.company_id = c.id
        GROUP BY c.id
        ORDER BY c.id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		var c models.Company
		err := rows.Scan(&c.ID, &c.Name, &c.ContactNumber, &c.Email, &c.ClientType,
			&c.IsActive, &c.CreatedAt, &c.POCount)
		if err != nil {
			return nil, err
		}
		companies = append(companies, &c)
	}
	return companies, nil
}

// GetCompany fetches a company with its POs and their employees
func (r *CompanyRepo) GetCompany(ctx context.Context, id int64) (*models.Company, error) {
	c := &models.Company{}
	err := r.db.QueryRow(ctx, `
        SELECT id, name, contact_number, building_no, local_street, city, state, country,
               gst, sac, email, client_type, COALESCE(document_path, ''), is_active, created_at, updated_at
        FROM companies WHERE id = $1
    `, id).Scan(
		&c.ID, &c.Name, &c.ContactNumber, &c.BuildingNo, &c.LocalStreet, &c.City, &c.State, &c.Country,
		&c.GST, &c.SAC, &c.Email, &c.ClientType, &c.DocumentPath, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("company not found")
		}
		return nil, err
	}

	rows, err := r.db.Query(ctx, `
        SELECT id, company_id, po_number, monthly_budget, hourly_rate, cgst, sgst, igst, created_at
        FROM purchase_orders WHERE company_id = $1 ORDER BY id
    `, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var po models.PurchaseOrder
		err := rows.Scan(&po.ID, &po.CompanyID, &po.PONumber, &po.MonthlyBudget, &po.HourlyRate,
			&po.CGST, &po.SGST, &po.IGST, &po.CreatedAt)
		if err != nil {
			return nil, err
		}
		c.PONumbers = append(c.PONumbers, &po)
	}

	for _, po := range c.PONumbers {
		employees, err := listEmployeesByPO(ctx, r.db, po.ID)
		if err != nil {
			return nil, err
		}
		po.Employees = employees
	}
	return c, nil
}

// SetCompanyStatus toggles the is_active flag
func (r *CompanyRepo) SetCompanyStatus(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `
        UPDATE companies SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2
    `, active, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("company not found")
	}
	return nil
}

// DeleteCompany removes a company; POs, employees, invoices and line items go
// with it via ON DELETE CASCADE. Returns the stored document path so the
// handler can remove the uploaded file as well.
func (r *CompanyRepo) DeleteCompany(ctx context.Context, id int64) (string, error) {
	var documentPath string
	err := r.db.QueryRow(ctx, `
        DELETE FROM companies WHERE id = $1 RETURNING COALESCE(document_path, '')
    `, id).Scan(&documentPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errors.New("company not found")
		}
		return "", err
	}
	return documentPath, nil
}
