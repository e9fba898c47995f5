package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/protomem/timeclock/internal/ctxstore"
	"github.com/protomem/timeclock/internal/model"
	"github.com/protomem/timeclock/internal/response"
	"github.com/protomem/timeclock/internal/validator"
)

func (app *application) reportServerError(r *http.Request, err error) {
	var (
		message = err.Error()
		method  = r.Method
		url     = r.URL.String()
		tid     = ctxstore.TraceID(r.Context())
	)

	requestAttrs := []any{"method", method, "url", url, ctxstore.TraceIDKey.String(), tid}
	app.serverLogger().Error(message, requestAttrs...)
}

func (app *application) errorMessage(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	err := response.JSONWithHeaders(w, status, response.JSONObject{"error": message}, headers)
	if err != nil {
		app.reportServerError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.reportServerError(r, err)

	message := "the server encountered a problem and could not process your request"
	app.errorMessage(w, r, http.StatusInternalServerError, message, nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	message := "the requested resource could not be found"
	app.errorMessage(w, r, http.StatusNotFound, message, nil)
}

func (app *application) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("the %s method is not supported for this resource", r.Method)
	app.errorMessage(w, r, http.StatusMethodNotAllowed, message, nil)
}

func (app *application) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
}

func (app *application) failedValidation(w http.ResponseWriter, r *http.Request, v validator.Validator) {
	err := response.JSON(w, http.StatusUnprocessableEntity, v)
	if err != nil {
		app.serverError(w, r, err)
	}
}

// domainError writes the response for an error returned by the attendance
// service. Store failures get a generic message; the cause is logged.
func (app *application) domainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		app.errorMessage(w, r, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, model.ErrNotFound):
		app.errorMessage(w, r, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, model.ErrAlreadyClockedIn),
		errors.Is(err, model.ErrAlreadyClockedOut),
		errors.Is(err, model.ErrNotClockedIn),
		errors.Is(err, model.ErrDuplicateCredential):
		app.errorMessage(w, r, http.StatusConflict, err.Error(), nil)
	default:
		app.serverError(w, r, err)
	}
}
