package api

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/workbridge/invoicing-api/internal/dbrepo"
	"github.com/workbridge/invoicing-api/internal/models"
	"github.com/workbridge/invoicing-api/internal/utils"
)

type EmployeeHandler struct {
	DB       *dbrepo.EmployeeRepo
	infoLog  *log.Logger
	errorLog *log.Logger
}

func NewEmployeeHandler(db *dbrepo.EmployeeRepo, infoLog *log.Logger, errorLog *log.Logger) *EmployeeHandler {
	return &EmployeeHandler{
		DB:       db,
		infoLog:  infoLog,
		errorLog: errorLog,
	}
}

func (e *EmployeeHandler) AddEmployee(w http.ResponseWriter, r *http.Request) {
	var employeeDetails models.Employee
	err := utils.ReadJSON(w, r, &employeeDetails)
	if err != nil {
		e.errorLog.Println("ERROR_01_AddEmployee", err)
		utils.BadRequest(w, err)
		return
	}

	if employeeDetails.POID == 0 || employeeDetails.Name == "" {
		e.errorLog.Println("ERROR_02_AddEmployee: missing po_id or name")
		utils.BadRequest(w, errors.New("po_id and name are required"))
		return
	}

	err = e.DB.CreateEmployee(r.Context(), &employeeDetails)
	if err != nil {
		e.errorLog.Println("ERROR_03_AddEmployee: ", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error    bool             `json:"error"`
		Status   string           `json:"status"`
		Message  string           `json:"message"`
		Employee *models.Employee `json:"employee"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Employee added successfully"
	resp.Employee = &employeeDetails

	utils.WriteJSON(w, http.StatusCreated, resp)
}

func (e *EmployeeHandler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	idParam := strings.TrimSpace(r.URL.Query().Get("id"))
	if idParam == "" {
		e.errorLog.Println("ERROR_01_GetEmployee: Empty employee id")
		utils.BadRequest(w, errors.New("missing employee id"))
		return
	}
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		e.errorLog.Println("ERROR_02_GetEmployee: Invalid employee id")
		utils.BadRequest(w, err)
		return
	}
	employee, err := e.DB.GetEmployee(r.Context(), id)
	if err != nil {
		e.errorLog.Println("ERROR_03_GetEmployee: ", err)
		utils.NotFound(w, err)
		return
	}

	var resp struct {
		Error    bool             `json:"error"`
		Status   string           `json:"status"`
		Message  string           `json:"message"`
		Employee *models.Employee `json:"employee"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Employee info fetched successfully"
	resp.Employee = employee

	utils.WriteJSON(w, http.StatusOK, resp)
}

// UpdateEmployee updates general employee details
func (e *EmployeeHandler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	var employeeDetails models.Employee
	err := utils.ReadJSON(w, r, &employeeDetails)
	if err != nil {
		e.errorLog.Println("ERROR_01_UpdateEmployee", err)
		utils.BadRequest(w, err)
		return
	}

	if employeeDetails.ID == 0 {
		e.errorLog.Println("ERROR_02_UpdateEmployee: Missing employee ID")
		utils.BadRequest(w, errors.New("missing employee ID"))
		return
	}

	err = e.DB.UpdateEmployee(r.Context(), &employeeDetails)
	if err != nil {
		e.errorLog.Println("ERROR_03_UpdateEmployee: ", err)
		utils.BadRequest(w, err)
		return
	}

	var resp struct {
		Error    bool             `json:"error"`
		Status   string           `json:"status"`
		Message  string           `json:"message"`
		Employee *models.Employee `json:"employee"`
	}
	resp.Error = false
	resp.Status = "success"
	resp.Message = "Employee details updated successfully"
	resp.Employee = &employeeDetails

	utils.WriteJSON(w, http.StatusOK, resp)
}

// DeleteEmployee removes an employee from a PO
func (e *EmployeeHandler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	idParam := strings.TrimSpace(r.URL.Query().Get("id"))
	if idParam == "" {
		e.errorLog.Println("ERROR_01_DeleteEmployee: Empty employee id")
		utils.BadRequest(w, errors.New("missing employee id"))
		return
	}
	id, err := strconv.ParseInt(idParam, 10, 64)
	if err != nil {
		e.errorLog.Println("ERROR_02_DeleteEmployee: Invalid employee id")
		utils.BadRequest(w, err)
		return
	}

	if err := e.DB.DeleteEmployee(r.Context(), id); err != nil {
		e.errorLog.Println("ERROR_03_DeleteEmployee: ", err)
		utils.NotFound(w, err)
		return
	}

	resp := models.Response{
		Error:   false,
		Status:  "success",
		Message: "Employee deleted successfully",
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
