/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for dashboard frontends

SECURITY NOTE:
  No authentication middleware. Authentication is outside this service's
  scope; deploy behind an authenticating proxy.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
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
		// Phase report + attendance views
		r.Route("/phases", func(r chi.Router) {
			r.Get("/{id}/report", h.GetReport)
			r.Get("/{id}/attendance", h.ListAttendance)
		})

		// Approval gate
		r.Route("/attendance", func(r chi.Router) {
			r.Post("/{id}/approve", h.ApproveEntry)
			r.Post("/{id}/revoke", h.RevokeEntry)
		})

		// Admin routes
		r.Route("/admin", func(r chi.Router) {
			r.Post("/wage-configs", h.UpsertWageConfig)
			r.Post("/phases", h.CreatePhase)
			r.Post("/phases/{id}/roster", h.AssignRoster)
			r.Post("/attendance", h.LogAttendance)
		})

		// Demo scenarios (dev only)
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/load", h.LoadScenario)
		})

		r.Get("/health", h.Health)
	})

	return r
}
