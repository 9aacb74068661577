/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the chi router, middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     request logging
  2. Recoverer:  panic recovery (500 instead of crash)
  3. RequestID:  unique ID per request for tracing
  4. CORS:       cross-origin requests for frontends

SEE ALSO:
  - handlers.go: handler implementations
  - cmd/server/main.go: server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}", h.GetEmployee)
			r.Get("/{id}/balances", h.GetBalances)
			r.Get("/{id}/requests", h.GetEmployeeRequests)
			r.Get("/{id}/allocations", h.GetAllocations)
			r.Post("/{id}/requests", h.SubmitRequest)
		})

		r.Get("/departments", h.ListDepartments)
		r.Get("/leave-types", h.ListLeaveTypes)

		r.Route("/requests", func(r chi.Router) {
			r.Get("/pending", h.PendingApprovals)
			r.Post("/{id}/hod-approve", h.HODApprove)
			r.Post("/{id}/approve", h.ManagementApprove)
			r.Post("/{id}/reject", h.RejectRequest)
			r.Post("/{id}/recall", h.RecallRequest)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Post("/accrual/run", h.RunAccrual)
		})
	})

	return r
}
