package dbrepo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/workbridge/invoicing-api/internal/models"
)

// ============================== Employee Repository ==============================
type EmployeeRepo struct {
	db *pgxpool.Pool
}

func NewEmployeeRepo(db *pgxpool.Pool) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

// CreateEmployee inserts a new employee under a purchase order
func (r *EmployeeRepo) CreateEmployee(ctx context.Context, e *models.Employee) error {
	query := `
		INSERT INTO employees (po_id, name, email, date_of_joining, location, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,CURRENT_TIMESTAMP,CURRENT_TIMESTAMP)
		RETURNING id, created_at, updated_at;
	`
	return r.db.QueryRow(ctx, query,
		e.POID, e.Name, e.Email, e.DateOfJoining, e.Location,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
}

// GetEmployee fetches an employee by ID
func (r *EmployeeRepo) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	query := `SELECT id, po_id, name, email, date_of_joining, location, created_at, updated_at FROM employees WHERE id=$1`
	e := &models.Employee{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&e.ID, &e.POID, &e.Name, &e.Email, &e.DateOfJoining, &e.Location, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("employee not found")
		}
		return nil, err
	}
	return e, nil
}

// UpdateEmployee updates employee details
func (r *EmployeeRepo) UpdateEmployee(ctx context.Context, e *models.Employee) error {
	query := `
		UPDATE employees
		SET name=$1, email=$2, date_of_joining=$3, location=$4, updated_at=CURRENT_TIMESTAMP
		WHERE id=$5
		RETURNING updated_at;
	`
	return r.db.QueryRow(ctx, query,
		e.Name, e.Email, e.DateOfJoining, e.Location, e.ID,
	).Scan(&e.UpdatedAt)
}

// DeleteEmployee removes an employee
func (r *EmployeeRepo) DeleteEmployee(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM employees WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("employee not found")
	}
	return nil
}

// listEmployeesByPO is shared by the company and PO repositories
func listEmployeesByPO(ctx context.Context, db *pgxpool.Pool, poID int64) ([]*models.Employee, error) {
	rows, err := db.Query(ctx, `
        SELECT id, po_id, name, email, date_of_joining, location, created_at, updated_at
        FROM employees WHERE po_id = $1 ORDER BY id
    `, poID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []*models.Employee
	for rows.Next() {
		var e models.Employee
		err := rows.Scan(&e.ID, &e.POID, &e.Name, &e.Email, &e.DateOfJoining, &e.Location,
			&e.CreatedAt, &e.UpdatedAt)
		if err != nil {
			return nil, err
		}
		employees = append(employees, &e)
	}
	return employees, nil
}
