package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/workbridge/invoicing-api/internal/dbrepo"
	"github.com/workbridge/invoicing-api/internal/models"
	"github.com/workbridge/invoicing-api/internal/utils"
)

const maxOnboardingFormBytes = 16 << 20 // 16MB

// CompanyHandler handles company onboarding and administration
type CompanyHandler struct {
	DB           *dbrepo.CompanyRepo
	documentsDir string
	infoLog      *log.Logger
	errorLog     *log.Logger
}

func NewCompanyHandler(db *dbrepo.CompanyRepo, documentsDir string, infoLog *log.Logger, errorLog *log.Logger) *CompanyHandler {
	return &CompanyHandler{
		DB:           db,
		documentsDir: documentsDir,
		infoLog:      infoLog,
		errorLog:     errorLog,
	}
}

// CreateCompany onboards a company with its POs and employees in one call.
// Multipart form: company fields, optional document file, and po_numbers as
// a JSON array of {po_number, monthly_budget, hourly_rate, cgst, sgst, igst,
// employees: [{name, email, doj, location}]}.
func (h *CompanyHandler) CreateCompany(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxOnboardingFormBytes); err != nil {
		h.errorLog.Println("ERROR_01_CreateCompany:", err)
		utils.BadRequest(w, err)
		return
	}

	company := &models.Company{
		Name:          r.FormValue("name"),
		ContactNumber: r.FormValue("contact_number"),
		BuildingNo:    r.FormValue("building_no"),
		LocalStreet:   r.FormValue("local_street"),
		City:          r.FormValue("city"),
		State:         r.FormValue("state"),
		Country:       r.FormValue("country"),
		GST:           r.FormValue("gst"),
		SAC:           r.FormValue("sac"),
		Email:         r.FormValue("email"),
		ClientType:    r.FormValue("client_type"),
	}
	if company.Name == "" || company.ContactNumber == "" || company.Email == "" {
		h.errorLog.Println("ERROR_02_CreateCompany: missing required fields")
		utils.BadRequest(w, errors.New("name, contact_number and email are required"))
		return
	}
	switch company.ClientType {
	case "same_state", "other_state", "foreign":
	default:
		h.errorLog.Printf("ERROR_03_CreateCompany: bad client_type %q", company.ClientType)
		utils.BadRequest(w, errors.New("client_type must be same_state, other_state or foreign"))
		return
	}

	// Purchase orders + employees arrive as a JSON field, the way the
	// onboarding form submits them
	var poPayload []struct {
		PONumber      string `json:"po_number"`
		MonthlyBudget string `json:"monthly_budget"`
		HourlyRate    string `json:"hourly_rate"`
		CGST          string `json:"cgst"`
		SGST          string `json:"sgst"`
		IGST          string `json:"igst"`
		Employees     []struct {
			Name     string `json:"name"`
			Email    string `json:"email"`
			DOJ      string `json:"doj"`
			Location string `json:"location"`
		} `json:"employees"`
	}
	poJSON := r.FormValue("po_numbers")
	if poJSON == "" {
		poJSON = "[]"
	}
	if err := json.Unmarshal([]byte(poJSON), &poPayload); err != nil {
		h.errorLog.Println("ERROR_04_CreateCompany: invalid po_numbers JSON:", err)
		utils.BadRequest(w, fmt.Errorf("invalid po_numbers JSON: %w", err))
		return
	}

	for _, p := range poPayload {
		if p.PONumber == "" {
			h.errorLog.Println("ERROR_05_CreateCompany: PO without po_number")
			utils.BadRequest(w, errors.New("every purchase order needs a po_number"))
			return
		}
		po := &models.PurchaseOrder{
			PONumber:      p.PONumber,
			MonthlyBudget: decimalField(p.MonthlyBudget),
			HourlyRate:    decimalField(p.HourlyRate),
			CGST:          decimalFieldDefault(p.CGST, "9"),
			SGST:          decimalFieldDefault(p.SGST, "9"),
			IGST:          decimalFieldDefault(p.IGST, "18"),
		}
		for _, e := range p.Employees {
			if e.Name == "" {
				continue
			}
			po.Employees = append(po.Employees, &models.Employee{
				Name:          e.Name,
				Email:         e.Email,
				DateOfJoining: e.DOJ,
				Location:      e.Location,
			})
		}
		company.PONumbers = append(company.PONumbers, po)
	}

	// Optional onboarding document
	if file, header, err := r.FormFile("document"); err == nil {
		defer file.Close()
		path, err := h.saveDocument(file, header.Filename)
		if err != nil {
			h.errorLog.Println("ERROR_06_CreateCompany: save document:", err)
			utils.ServerError(w, err)
			return
		}
		company.DocumentPath = path
	}

	if err := h.DB.CreateCompany(r.Context(), company); err != nil {
		h.errorLog.Println("ERROR_07_CreateCompany DB:", err)
		utils.BadRequest(w, err)
		return
	}

	h.infoLog.Printf("Onboarded company %d (%s) with %d POs", company.ID, company.Name, len(company.PONumbers))

	var resp struct {
		Error     bool   `json:"error"`
		Status    string `json:"status"`
		Message   string `json:"message"`
		CompanyID int64  `json:"company_id"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Company created successfully"
	resp.CompanyID = company.ID

	utils.WriteJSON(w, http.StatusCreated, resp)
}

// decimalField parses an optional numeric form value; empty means zero
func decimalField(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// decimalFieldDefault falls back to the default GST percentages the
// onboarding form pre-fills
func decimalFieldDefault(value, fallback string) decimal.Decimal {
	if value == "" {
		value = fallback
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		d, _ = decimal.NewFromString(fallback)
	}
	return d
}

// saveDocument stores an uploaded file under a uuid-prefixed name so repeated
// filenames never collide
func (h *CompanyHandler) saveDocument(file io.Reader, filename string) (string, error) {
	if err := os.MkdirAll(h.documentsDir, 0o755); err != nil {
		return "", err
	}
	safe := filepath.Base(strings.ReplaceAll(filename, " ", "_"))
	path := filepath.Join(h.documentsDir, uuid.NewString()+"_"+safe)

	out, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		os.Remove(path)
		return "", err
	}
	return path, nil
}

// GetCompanies lists companies
func (h *CompanyHandler) GetCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := h.DB.GetCompanies(r.Context())
	if err != nil {
		h.errorLog.Println("ERROR_01_GetCompanies:", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error     bool              `json:"error"`
		Status    string            `json:"status"`
		Message   string            `json:"message"`
		Companies []*models.Company `json:"companies"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Companies fetched successfully"
	resp.Companies = companies

	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetCompany fetches one company with POs and employees
func (h *CompanyHandler) GetCompany(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_01_GetCompany: invalid company id")
		utils.BadRequest(w, errors.New("invalid company id"))
		return
	}

	company, err := h.DB.GetCompany(r.Context(), id)
	if err != nil {
		h.errorLog.Println("ERROR_02_GetCompany:", err)
		utils.NotFound(w, err)
		return
	}

	var resp struct {
		Error   bool            `json:"error"`
		Status  string          `json:"status"`
		Message string          `json:"message"`
		Company *models.Company `json:"company"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Company fetched successfully"
	resp.Company = company

	utils.WriteJSON(w, http.StatusOK, resp)
}

// SetCompanyStatus toggles the is_active flag
func (h *CompanyHandler) SetCompanyStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_01_SetCompanyStatus: invalid company id")
		utils.BadRequest(w, errors.New("invalid company id"))
		return
	}

	var req struct {
		IsActive *bool `json:"is_active"`
	}
	if err := utils.ReadJSON(w, r, &req); err != nil {
		h.errorLog.Println("ERROR_02_SetCompanyStatus:", err)
		utils.BadRequest(w, err)
		return
	}
	if req.IsActive == nil {
		h.errorLog.Println("ERROR_03_SetCompanyStatus: missing is_active")
		utils.BadRequest(w, errors.New("is_active is required"))
		return
	}

	if err := h.DB.SetCompanyStatus(r.Context(), id, *req.IsActive); err != nil {
		h.errorLog.Println("ERROR_04_SetCompanyStatus DB:", err)
		utils.NotFound(w, err)
		return
	}

	resp := models.Response{
		Error:   false,
		Status:  "success",
		Message: "Company status updated successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteCompany removes a company and everything under it (POs, employees,
// invoices) plus its stored onboarding document
func (h *CompanyHandler) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_01_DeleteCompany: invalid company id")
		utils.BadRequest(w, errors.New("invalid company id"))
		return
	}

	documentPath, err := h.DB.DeleteCompany(r.Context(), id)
	if err != nil {
		h.errorLog.Println("ERROR_02_DeleteCompany DB:", err)
		utils.NotFound(w, err)
		return
	}

	if documentPath != "" {
		if err := os.Remove(documentPath); err != nil && !os.IsNotExist(err) {
			// The record is already gone; just log the leftover file.
			h.errorLog.Println("ERROR_03_DeleteCompany: remove document:", err)
		}
	}

	resp := models.Response{
		Error:   false,
		Status:  "success",
		Message: "Company and related data deleted",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
