package main

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/protomem/timeclock/internal/attendance"
	"github.com/protomem/timeclock/internal/model"
	"github.com/protomem/timeclock/internal/report"
	"github.com/protomem/timeclock/internal/request"
	"github.com/protomem/timeclock/internal/response"
	"github.com/protomem/timeclock/internal/validator"
)

// Handle Status
// @Summary Server Status
// @Description Check if the server is up and running
// @Tags api
// @Produce json
// @Success 200 {object} map[string]string
// @Router /status [get]
func (app *application) handleStatus(w http.ResponseWriter, r *http.Request) {
	if err := response.JSON(w, http.StatusOK, response.JSONObject{"status": "OK"}); err != nil {
		app.serverError(w, r, err)
	}
}

// Handle Login
// @Summary Login
// @Description Resolve an employee passcode
// @Tags employees
// @Accept json
// @Produce json
// @Param input body main.requestLogin true "Passcode"
// @Success 200 {object} main.responseLogin
// @Failure 401 {object} any "Invalid passcode"
// @Router /login [post]
func (app *application) handleLogin(w http.ResponseWriter, r *http.Request) {
	var input requestLogin
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if validateRequestLogin(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	employee, err := app.service.Login(r.Context(), input.Passcode)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			app.errorMessage(w, r, http.StatusUnauthorized, "invalid passcode", nil)
			return
		}

		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseLogin{ID: employee.ID, Name: employee.Name}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestLogin struct {
	Passcode string `json:"passcode"`
}

type responseLogin struct {
	ID   model.ID `json:"id"`
	Name string   `json:"name"`
}

// Handle Clock
// @Summary Clock IN or OUT
// @Description Record a clock action for the current local day
// @Tags attendance
// @Accept json
// @Produce json
// @Param input body main.requestClock true "Employee and action"
// @Success 200 {object} main.responseClock
// @Failure 404 {object} any "Employee not found"
// @Failure 409 {object} any "Already clocked in/out, or not clocked in"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Router /clock [post]
func (app *application) handleClock(w http.ResponseWriter, r *http.Request) {
	var input requestClock
	if err := request.DecodeJSON(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	var v validator.Validator
	if validateRequestClock(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	action, err := model.ParseAction(input.Action)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	result, err := app.service.ClockAction(r.Context(), input.EmployeeID, action)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseClock{Success: true, ClockResult: result}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestClock struct {
	EmployeeID model.ID `json:"employeeId" validate:"required"`
	Action     string   `json:"action" validate:"required,oneof=in out IN OUT"`
}

type responseClock struct {
	Success bool `json:"success"`
	attendance.ClockResult
}

// Handle Employee Status
// @Summary Latest clock event
// @Tags attendance
// @Produce json
// @Param employeeId path int true "Employee ID"
// @Success 200 {object} main.responseEmployeeStatus
// @Router /employees/{employeeId}/status [get]
func (app *application) handleEmployeeStatus(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	last, err := app.service.Status(r.Context(), employeeID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseEmployeeStatus{Last: last}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseEmployeeStatus struct {
	Last *attendance.StatusEvent `json:"last"`
}

// Handle History
// @Summary Attendance history
// @Description Sessions grouped by local day, most recent first
// @Tags attendance
// @Produce json
// @Param employeeId path int true "Employee ID"
// @Success 200 {object} main.responseHistory
// @Router /employees/{employeeId}/history [get]
func (app *application) handleHistory(w http.ResponseWriter, r *http.Request) {
	employeeID, err := employeeIDFromRequest(r)
	if err != nil {
		app.badRequest(w, r, err)
		return
	}

	days, err := app.service.History(r.Context(), employeeID)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseHistory{Days: days}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseHistory struct {
	Days []attendance.DayHistory `json:"days"`
}

// Handle Add Employee
// @Summary Add Employee
// @Tags admin
// @Accept json
// @Produce json
// @Param input body main.requestAddEmployee true "Employee"
// @Success 201 {object} main.responseAddEmployee
// @Failure 403 {object} any "Wrong admin code"
// @Failure 409 {object} any "Passcode already exists"
// @Failure 422 {object} validator.Validator "Invalid input data"
// @Router /admin/employees [post]
func (app *application) handleAddEmployee(w http.ResponseWriter, r *http.Request) {
	var input requestAddEmployee
	if err := request.DecodeJSONStrict(w, r, &input); err != nil {
		app.badRequest(w, r, err)
		return
	}

	if input.AdminCode != app.config.adminCode {
		app.errorMessage(w, r, http.StatusForbidden, "forbidden", nil)
		return
	}

	var v validator.Validator
	if validateRequestAddEmployee(&v, input); v.HasErrors() {
		app.failedValidation(w, r, v)
		return
	}

	employee, err := app.service.AddEmployee(r.Context(), input.Name, input.Passcode, input.HourlyRate)
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusCreated, responseAddEmployee{Employee: employee, Passcode: employee.Passcode}); err != nil {
		app.serverError(w, r, err)
	}
}

type requestAddEmployee struct {
	AdminCode  string  `json:"adminCode"`
	Name       string  `json:"name" validate:"required"`
	Passcode   string  `json:"passcode" validate:"required"`
	HourlyRate float64 `json:"hourlyRate" validate:"gte=0"`
}

type responseAddEmployee struct {
	Employee model.Employee `json:"employee"`
	Passcode string         `json:"passcode"`
}

// Handle Export
// @Summary Export pay report
// @Description Every session of every employee as an xlsx workbook
// @Tags admin
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /export [get]
func (app *application) handleExport(w http.ResponseWriter, r *http.Request) {
	rows, err := app.service.ExportReport(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	// Render fully first so a failure can still produce an error response.
	var buf bytes.Buffer
	if err := report.WriteXLSX(&buf, rows); err != nil {
		app.serverError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// Handle Export JSON
// @Summary Export pay report as JSON
// @Tags admin
// @Produce json
// @Success 200 {object} main.responseExport
// @Router /export.json [get]
func (app *application) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	rows, err := app.service.ExportReport(r.Context())
	if err != nil {
		app.domainError(w, r, err)
		return
	}

	if err := response.JSON(w, http.StatusOK, responseExport{Rows: rows}); err != nil {
		app.serverError(w, r, err)
	}
}

type responseExport struct {
	Rows []attendance.ReportRow `json:"rows"`
}
