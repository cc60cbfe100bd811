package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/workbridge/invoicing-api/internal/dbrepo"
	"github.com/workbridge/invoicing-api/internal/models"
	"github.com/workbridge/invoicing-api/internal/utils"
)

// POHandler serves purchase-order views
type POHandler struct {
	DB       *dbrepo.PORepo
	infoLog  *log.Logger
	errorLog *log.Logger
}

func NewPOHandler(db *dbrepo.PORepo, infoLog *log.Logger, errorLog *log.Logger) *POHandler {
	return &POHandler{
		DB:       db,
		infoLog:  infoLog,
		errorLog: errorLog,
	}
}

// GetPurchaseOrders lists a company's POs
func (h *POHandler) GetPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	companyID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_01_GetPurchaseOrders: invalid company id")
		utils.BadRequest(w, errors.New("invalid company id"))
		return
	}

	orders, err := h.DB.GetPurchaseOrders(r.Context(), companyID)
	if err != nil {
		h.errorLog.Println("ERROR_02_GetPurchaseOrders:", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error          bool                    `json:"error"`
		Status         string                  `json:"status"`
		Message        string                  `json:"message"`
		PurchaseOrders []*models.PurchaseOrder `json:"po_numbers"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Purchase orders fetched successfully"
	resp.PurchaseOrders = orders

	utils.WriteJSON(w, http.StatusOK, resp)
}

// GetPOEmployees lists the employees onboarded under a PO
func (h *POHandler) GetPOEmployees(w http.ResponseWriter, r *http.Request) {
	poID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.errorLog.Println("ERROR_01_GetPOEmployees: invalid po id")
		utils.BadRequest(w, errors.New("invalid po id"))
		return
	}

	po, err := h.DB.GetPurchaseOrder(r.Context(), poID)
	if err != nil {
		h.errorLog.Println("ERROR_02_GetPOEmployees:", err)
		utils.NotFound(w, err)
		return
	}

	var resp struct {
		Error     bool               `json:"error"`
		Status    string             `json:"status"`
		Message   string             `json:"message"`
		Employees []*models.Employee `json:"employees"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Employees fetched successfully"
	resp.Employees = po.Employees

	utils.WriteJSON(w, http.StatusOK, resp)
}
