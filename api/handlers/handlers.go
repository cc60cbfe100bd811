package api

import (
	"log"

	"github.com/workbridge/invoicing-api/internal/billing"
	"github.com/workbridge/invoicing-api/internal/dbrepo"
	"github.com/workbridge/invoicing-api/internal/models"
)

type HandlerRepo struct {
	Auth     AuthHandler
	Company  CompanyHandler
	PO       POHandler
	Employee EmployeeHandler
	Invoice  InvoiceHandler
}

func NewHandlerRepo(db *dbrepo.DBRepository, cfg models.Config, infoLog *log.Logger, errorLog *log.Logger) *HandlerRepo {
	resolver := billing.NewRateResolver(billing.DefaultTaxSchemaTable())
	calculator := billing.NewCalculator(cfg.Billing.StandardWorkingDays, cfg.Billing.USDToINRRate)

	return &HandlerRepo{
		Auth:     *NewAuthHandler(db, cfg.JWT, infoLog, errorLog),
		Company:  *NewCompanyHandler(db.CompanyRepo, cfg.DocumentsDir, infoLog, errorLog),
		PO:       *NewPOHandler(db.PORepo, infoLog, errorLog),
		Employee: *NewEmployeeHandler(db.EmployeeRepo, infoLog, errorLog),
		Invoice:  *NewInvoiceHandler(db, resolver, calculator, infoLog, errorLog),
	}
}
