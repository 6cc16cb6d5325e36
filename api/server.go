/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the HR frontend

ROUTE GROUPS:
  /api/calculations/*   Calculate, history, exports
  /api/bank-holidays    Holiday lookup
  /api/regions          Region list
  /api/policy           Active contract norms
  /api/scenarios/*      Worked examples
  /healthz              Liveness/readiness
  /metrics              Prometheus scrape (when enabled)

SECURITY NOTE:
  No authentication middleware. Deploy behind the HR network's gateway.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/warp/leave-entitlement/metrics"
)

// RouterOptions tunes the outer surface of the router.
type RouterOptions struct {
	CORSOrigins    []string
	MetricsEnabled bool
}

// DefaultRouterOptions allows the local frontend dev servers and exposes
// metrics.
func DefaultRouterOptions() RouterOptions {
	return RouterOptions{
		CORSOrigins:    []string{"http://localhost:5173", "http://localhost:8080"},
		MetricsEnabled: true,
	}
}

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	r.Get("/healthz", h.Health)
	if opts.MetricsEnabled {
		r.Handle("/metrics", metrics.Handler())
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Route("/calculations", func(r chi.Router) {
			r.Get("/", h.ListCalculations)
			r.Post("/", h.CreateCalculation)
			r.Get("/{id}", h.GetCalculation)
			r.Get("/{id}/summary", h.GetSummary)
			r.Get("/{id}/export.csv", h.ExportCSV)
			r.Get("/{id}/export.pdf", h.ExportPDF)
		})

		r.Get("/bank-holidays", h.GetBankHolidays)
		r.Get("/regions", h.ListRegions)
		r.Get("/policy", h.GetPolicy)

		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", h.ListScenarios)
			r.Post("/run", h.RunScenario)
		})
	})

	return r
}
