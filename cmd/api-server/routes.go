package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (app *application) routes() http.Handler {
	mux := chi.NewRouter()

	mux.NotFound(app.notFound)
	mux.MethodNotAllowed(app.methodNotAllowed)

	mux.Use(app.traceID)
	mux.Use(app.logAccess)
	mux.Use(app.recoverPanic)

	mux.Use(app.CORS)

	mux.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", app.handleStatus)

		r.Post("/login", app.handleLogin)
		r.Post("/clock", app.handleClock)

		r.Get("/employees/{employeeId}/status", app.handleEmployeeStatus)
		r.Get("/employees/{employeeId}/history", app.handleHistory)

		r.Post("/admin/employees", app.handleAddEmployee)

		r.Get("/export", app.handleExport)
		r.Get("/export.json", app.handleExportJSON)
	})

	app.logger.Debug("routes configured", "routes", chiRoutesToStrings(mux))

	return mux
}

func chiRoutesToStrings(routes chi.Routes) []string {
	parsedRoutes := make([]string, 0)
	_ = chi.Walk(routes, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		parsedRoutes = append(parsedRoutes, method+" "+route)
		return nil
	})
	return parsedRoutes
}
