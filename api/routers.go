package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/workbridge/invoicing-api/internal/utils"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	// --- Global middlewares ---
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	mux.Use(app.Logger) // Simple logger

	// --- Static file serving for uploaded company documents ---
	// Serves files under the configured documents dir → accessible via /api/v1/documents/*
	fs := http.StripPrefix("/api/v1/documents/", http.FileServer(http.Dir(app.config.DocumentsDir)))
	mux.Handle("/api/v1/documents/*", fs)

	// --- Health check endpoint ---
	mux.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, 200, "Live")
	})

	mux.Post("/api/v1/login", app.Handlers.Auth.Signin)

	// --- Company / PO / Employee routes ---
	mux.Route("/api/v1", func(r chi.Router) {
		r.Use(app.Authenticate)

		// Onboard a company with its POs and employees
		// Example: POST /api/v1/companies
		// Form fields: name, contact_number, email, client_type, ..., po_numbers (JSON), document (file)
		r.Post("/companies", app.Handlers.Company.CreateCompany)

		// List companies
		// Example: GET /api/v1/companies
		r.Get("/companies", app.Handlers.Company.GetCompanies)

		// Get one company with its POs and employees
		// Example: GET /api/v1/companies/42
		r.Get("/companies/{id}", app.Handlers.Company.GetCompany)

		// Toggle the is_active flag
		// Example: PUT /api/v1/companies/42/status
		// Body (JSON): { "is_active": false }
		r.Put("/companies/{id}/status", app.Handlers.Company.SetCompanyStatus)

		// Delete a company and everything under it
		// Example: DELETE /api/v1/companies/42
		r.Delete("/companies/{id}", app.Handlers.Company.DeleteCompany)

		// List a company's purchase orders
		// Example: GET /api/v1/companies/42/po-numbers
		r.Get("/companies/{id}/po-numbers", app.Handlers.PO.GetPurchaseOrders)

		// List the employees onboarded under a PO
		// Example: GET /api/v1/po-numbers/7/employees
		r.Get("/po-numbers/{id}/employees", app.Handlers.PO.GetPOEmployees)

		// Employee CRUD
		// Example: GET /api/v1/employee?id=5
		r.Get("/employee", app.Handlers.Employee.GetEmployee)
		r.Post("/employee", app.Handlers.Employee.AddEmployee)
		r.Put("/employee", app.Handlers.Employee.UpdateEmployee)
		r.Delete("/employee", app.Handlers.Employee.DeleteEmployee)

		// --- Invoice routes ---

		// Generate an invoice for a company + PO + month/year.
		// Example: POST /api/v1/invoices/generate
		// Form fields: company_id, po_id, month ("01".."12"), year,
		// plus one spreadsheet per employee keyed timesheet_<employee_id>
		r.Post("/invoices/generate", app.Handlers.Invoice.GenerateInvoice)

		// List invoices, newest first
		// Example: GET /api/v1/invoices
		r.Get("/invoices", app.Handlers.Invoice.GetInvoices)

		// Get one invoice with its line items
		// Example: GET /api/v1/invoices/19
		r.Get("/invoices/{id}", app.Handlers.Invoice.GetInvoice)

		// Replace the cumulative paid amount; due is recomputed
		// Example: PUT /api/v1/invoices/19/payment
		// Body (JSON): { "paid_amount": "15000.00" }
		r.Put("/invoices/{id}/payment", app.Handlers.Invoice.UpdatePayment)

		// Delete an invoice; its number is never reused
		// Example: DELETE /api/v1/invoices/19
		r.Delete("/invoices/{id}", app.Handlers.Invoice.DeleteInvoice)
	})

	return mux
}
