package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/workbridge/invoicing-api/internal/billing"
	"github.com/workbridge/invoicing-api/internal/dbrepo"
	"github.com/workbridge/invoicing-api/internal/models"
	"github.com/workbridge/invoicing-api/internal/utils"
)

const maxGenerateFormBytes = 32 << 20 // 32MB

// InvoiceHandler drives the invoice computation engine: timesheet ingestion,
// rate resolution, calculation, number allocation and the payment ledger.
type InvoiceHandler struct {
	DB         *dbrepo.DBRepository
	resolver   *billing.RateResolver
	calculator *billing.Calculator
	infoLog    *log.Logger
	errorLog   *log.Logger
}

func NewInvoiceHandler(db *dbrepo.DBRepository, resolver *billing.RateResolver, calculator *billing.Calculator, infoLog *log.Logger, errorLog *log.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		DB:         db,
		resolver:   resolver,
		calculator: calculator,
		infoLog:    infoLog,
		errorLog:   errorLog,
	}
}

// GenerateInvoice runs one invoicing pass for a company + PO + month/year.
// Multipart form: company_id, po_id, month ("01".."12"), year, and one
// timesheet file per onboarded employee keyed "timesheet_<employee_id>".
// Employees whose sheets fail ingestion are skipped and reported in the
// warning; the run only fails when nothing ingests.
func (h *InvoiceHandler) GenerateInvoice(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxGenerateFormBytes); err != nil {
		h.errorLog.Println("ERROR_01_GenerateInvoice:", err)
		utils.BadRequest(w, err)
		return
	}

	companyID, err := strconv.ParseInt(r.FormValue("company_id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_02_GenerateInvoice: invalid company_id")
		utils.BadRequest(w, errors.New("invalid company_id"))
		return
	}
	poID, err := strconv.ParseInt(r.FormValue("po_id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_03_GenerateInvoice: invalid po_id")
		utils.BadRequest(w, errors.New("invalid po_id"))
		return
	}
	month, monthNum, err := parseMonth(r.FormValue("month"))
	if err != nil {
		h.errorLog.Println("ERROR_04_GenerateInvoice:", err)
		utils.BadRequest(w, err)
		return
	}
	year, err := strconv.Atoi(r.FormValue("year"))
	if err != nil || year < 2000 || year > 2200 {
		h.errorLog.Println("ERROR_05_GenerateInvoice: invalid year")
		utils.BadRequest(w, errors.New("invalid year"))
		return
	}

	company, err := h.DB.CompanyRepo.GetCompany(r.Context(), companyID)
	if err != nil {
		h.errorLog.Println("ERROR_06_GenerateInvoice:", err)
		utils.NotFound(w, err)
		return
	}
	if !company.IsActive {
		h.errorLog.Printf("ERROR_07_GenerateInvoice: company %d is inactive", companyID)
		utils.BadRequest(w, errors.New("company is inactive"))
		return
	}

	po, err := h.DB.PORepo.GetPurchaseOrder(r.Context(), poID)
	if err != nil {
		h.errorLog.Println("ERROR_08_GenerateInvoice:", err)
		utils.NotFound(w, err)
		return
	}
	if po.CompanyID != companyID {
		h.errorLog.Printf("ERROR_09_GenerateInvoice: PO %d does not belong to company %d", poID, companyID)
		utils.BadRequest(w, errors.New("purchase order does not belong to this company"))
		return
	}
	if len(po.Employees) == 0 {
		h.errorLog.Printf("ERROR_10_GenerateInvoice: PO %d has no employees", poID)
		utils.BadRequest(w, errors.New("purchase order has no onboarded employees"))
		return
	}

	poRates := billing.PORates{
		MonthlyBudget: po.MonthlyBudget,
		HourlyRate:    po.HourlyRate,
		CGST:          po.CGST,
		SGST:          po.SGST,
		IGST:          po.IGST,
	}
	rates, err := h.resolver.Resolve(billing.ClientType(company.ClientType), poRates)
	if err != nil {
		h.errorLog.Println("ERROR_11_GenerateInvoice:", err)
		utils.Unprocessable(w, err)
		return
	}

	// Ingest one timesheet per employee. Failures isolate per employee and
	// are collected for the batch warning instead of aborting the run.
	var records []*billing.TimesheetRecord
	var skipped []billing.SkippedEmployee
	for _, emp := range po.Employees {
		rec, err := h.ingestEmployeeTimesheet(r, emp, monthNum, year, rates.Calculation)
		if err != nil {
			h.errorLog.Printf("ERROR_12_GenerateInvoice: employee %d (%s): %v", emp.ID, emp.Name, err)
			skipped = append(skipped, billing.SkippedEmployee{
				EmployeeID:   emp.ID,
				EmployeeName: emp.Name,
				Reason:       err.Error(),
			})
			continue
		}
		records = append(records, rec)
	}

	draft, err := h.calculator.Calculate(rates, poRates, records, skipped)
	if err != nil {
		h.errorLog.Println("ERROR_13_GenerateInvoice:", err)
		utils.Unprocessable(w, err)
		return
	}

	inv := &models.Invoice{
		CompanyID:   companyID,
		POID:        poID,
		Month:       month,
		Year:        year,
		ClientType:  company.ClientType,
		Currency:    draft.Currency,
		SubTotal:    draft.SubTotal,
		SubTotalINR: draft.SubTotalINR,
		CGSTAmount:  draft.Taxes.CGST,
		SGSTAmount:  draft.Taxes.SGST,
		IGSTAmount:  draft.Taxes.IGST,
	}
	for _, line := range draft.Lines {
		inv.LineItems = append(inv.LineItems, &models.InvoiceLineItem{
			EmployeeID:      line.EmployeeID,
			EmployeeName:    line.EmployeeName,
			CalculationType: string(line.Calculation),
			WorkedQuantity:  line.WorkedQuantity,
			SubTotal:        line.SubTotal,
		})
	}

	if err := h.DB.InvoiceRepo.CreateInvoice(r.Context(), inv); err != nil {
		if errors.Is(err, billing.ErrDuplicateInvoicePeriod) {
			h.errorLog.Printf("ERROR_14_GenerateInvoice: duplicate period PO %d %s/%d", poID, month, year)
			utils.Conflict(w, err)
			return
		}
		h.errorLog.Println("ERROR_15_GenerateInvoice DB:", err)
		utils.ServerError(w, err)
		return
	}

	h.infoLog.Printf("Generated invoice %s for company %d PO %d period %s/%d",
		billing.FormatInvoiceNumber(inv.InvoiceNumber), companyID, poID, month, year)

	var resp struct {
		Error         bool                         `json:"error"`
		Status        string                       `json:"status"`
		Message       string                       `json:"message"`
		InvoiceID     int64                        `json:"invoice_id"`
		InvoiceNumber string                       `json:"invoice_number"`
		Company       *models.Company              `json:"company"`
		PONumber      string                       `json:"po_number"`
		Month         string                       `json:"month"`
		Year          int                          `json:"year"`
		Currency      string                       `json:"currency"`
		Employees     []billing.LineItem           `json:"employees"`
		GrandTotal    decimal.Decimal              `json:"grand_total"`
		SubTotalINR   decimal.Decimal              `json:"sub_total_in_inr"`
		Taxes         billing.TaxBreakdown         `json:"taxes"`
		TotalWithTax  decimal.Decimal              `json:"total_with_tax"`
		Warning       *billing.PartialBatchWarning `json:"warning,omitempty"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Invoice generated successfully"
	resp.InvoiceID = inv.ID
	resp.InvoiceNumber = billing.FormatInvoiceNumber(inv.InvoiceNumber)
	resp.Company = &models.Company{
		ID: company.ID, Name: company.Name, Email: company.Email,
		ClientType: company.ClientType, IsActive: company.IsActive,
		CreatedAt: company.CreatedAt, UpdatedAt: company.UpdatedAt,
	}
	resp.PONumber = po.PONumber
	resp.Month = month
	resp.Year = year
	resp.Currency = draft.Currency
	resp.Employees = draft.Lines
	resp.GrandTotal = draft.SubTotal
	resp.SubTotalINR = draft.SubTotalINR
	resp.Taxes = draft.Taxes
	resp.TotalWithTax = draft.TotalWithTax()
	resp.Warning = draft.Warning

	utils.WriteJSON(w, http.StatusCreated, resp)
}

// ingestEmployeeTimesheet pulls the employee's uploaded file out of the form
// and runs the pure ingestion step on its bytes.
func (h *InvoiceHandler) ingestEmployeeTimesheet(r *http.Request, emp *models.Employee, month time.Month, year int, basis billing.CalculationType) (*billing.TimesheetRecord, error) {
	file, header, err := r.FormFile(fmt.Sprintf("timesheet_%d", emp.ID))
	if err != nil {
		return nil, errors.New("no timesheet uploaded")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}

	parser, err := billing.ParserForFilename(header.Filename)
	if err != nil {
		return nil, err
	}
	return billing.Ingest(parser, data, emp.ID, emp.Name, month, year, basis)
}

// GetInvoices lists all invoices, newest first
func (h *InvoiceHandler) GetInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.DB.InvoiceRepo.GetInvoices(r.Context())
	if err != nil {
		h.errorLog.Println("ERROR_01_GetInvoices:", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error    bool              `json:"error"`
		Status   string            `json:"status"`
		Message  string            `json:"message"`
		Invoices []*models.Invoice `json:"invoices"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Invoices fetched successfully"
	resp.Invoices = invoices

	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetInvoice fetches one invoice with its line items
func (h *InvoiceHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_01_GetInvoice: invalid invoice id")
		utils.BadRequest(w, errors.New("invalid invoice id"))
		return
	}

	invoice, err := h.DB.InvoiceRepo.GetInvoice(r.Context(), id)
	if err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			h.errorLog.Println("ERROR_02_GetInvoice:", err)
			utils.NotFound(w, err)
			return
		}
		h.errorLog.Println("ERROR_03_GetInvoice:", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error         bool            `json:"error"`
		Status        string          `json:"status"`
		Message       string          `json:"message"`
		InvoiceNumber string          `json:"invoice_number"`
		Invoice       *models.Invoice `json:"invoice"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Invoice fetched successfully"
	resp.InvoiceNumber = billing.FormatInvoiceNumber(invoice.InvoiceNumber)
	resp.Invoice = invoice

	utils.WriteJSON(w, http.StatusOK, resp)
}

// UpdatePayment replaces the invoice's cumulative paid amount and returns the
// recomputed due amount. The value is absolute, not an increment; callers
// doing read-modify-write own the race on concurrent updates.
func (h *InvoiceHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_01_UpdatePayment: invalid invoice id")
		utils.BadRequest(w, errors.New("invalid invoice id"))
		return
	}

	var req struct {
		PaidAmount decimal.Decimal `json:"paid_amount"`
	}
	if err := utils.ReadJSON(w, r, &req); err != nil {
		h.errorLog.Println("ERROR_02_UpdatePayment:", err)
		utils.BadRequest(w, err)
		return
	}

	// Clamp before touching storage
	if req.PaidAmount.IsNegative() {
		h.errorLog.Println("ERROR_03_UpdatePayment: negative paid amount")
		utils.BadRequest(w, billing.ErrInvalidPaymentAmount)
		return
	}

	invoice, err := h.DB.InvoiceRepo.SetPaidAmount(r.Context(), id, req.PaidAmount)
	if err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			h.errorLog.Println("ERROR_04_UpdatePayment:", err)
			utils.NotFound(w, err)
			return
		}
		h.errorLog.Println("ERROR_05_UpdatePayment DB:", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error      bool            `json:"error"`
		Status     string          `json:"status"`
		Message    string          `json:"message"`
		PaidAmount decimal.Decimal `json:"paid_amount"`
		DueAmount  decimal.Decimal `json:"due_amount"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Payment updated successfully"
	resp.PaidAmount = invoice.PaidAmount
	resp.DueAmount = invoice.DueAmount

	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteInvoice removes an invoice. Its number is never reused.
func (h *InvoiceHandler) DeleteInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_01_DeleteInvoice: invalid invoice id")
		utils.BadRequest(w, errors.New("invalid invoice id"))
		return
	}

	if err := h.DB.InvoiceRepo.DeleteInvoice(r.Context(), id); err != nil {
		if errors.Is(err, billing.ErrInvoiceNotFound) {
			h.errorLog.Println("ERROR_02_DeleteInvoice:", err)
			utils.NotFound(w, err)
			return
		}
		h.errorLog.Println("ERROR_03_DeleteInvoice DB:", err)
		utils.BadRequest(w, err)
		return
	}

	resp := models.Response{
		Error:   false,
		Status:  "success",
		Message: "Invoice deleted successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// parseMonth validates the zero-padded "01".."12" month strings the UI sends
func parseMonth(value string) (string, time.Month, error) {
	if len(value) != 2 {
		return "", 0, errors.New(`month must be zero-padded "01".."12"`)
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 || n > 12 {
		return "", 0, errors.New(`month must be zero-padded "01".."12"`)
	}
	return value, time.Month(n), nil
}
