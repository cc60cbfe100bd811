package dbrepo

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBRepository contains all individual repositories
type DBRepository struct {
	CompanyRepo  *CompanyRepo
	PORepo       *PORepo
	EmployeeRepo *EmployeeRepo
	InvoiceRepo  *InvoiceRepo
	UserRepo     *UserRepo
}

// NewDBRepository initializes all repositories with a shared connection pool
func NewDBRepository(db *pgxpool.Pool) *DBRepository {
	return &DBRepository{
		CompanyRepo:  NewCompanyRepo(db),
		PORepo:       NewPORepo(db),
		EmployeeRepo: NewEmployeeRepo(db),
		InvoiceRepo:  NewInvoiceRepo(db),
		UserRepo:     NewUserRepo(db),
	}
}
