package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/protomem/timeclock/internal/model"
)

func employeeIDFromRequest(r *http.Request) (model.ID, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "employeeId"), 10, 0)
	if err != nil || id == 0 {
		return 0, errors.New("invalid employee id")
	}
	return model.ID(id), nil
}
