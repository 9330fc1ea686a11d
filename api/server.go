/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route
  definitions. This is the wiring layer that connects URLs to handlers.

MIDDLEWARE STACK:
  1. RequestID:       Unique ID per request for tracing
  2. Recoverer:       Panic recovery (500 instead of crash)
  3. requestLogger:   Structured request logging (zerolog)
  4. CORS:            Cross-origin requests for the frontend
  5. RequireSession:  Bearer-token auth on everything but /api/login

ROUTE GROUPS:
  /api/login                 Public
  /api/admissions/*          Dashboard and admission lifecycle
  /api/entries/*             Charge corrections
  /api/payments, /api/rates, /api/summary
  /api/scenarios/*, /api/reset   Demo data management

SEE ALSO:
  - handlers.go: Handler implementations
  - auth.go: Session middleware
  - cmd/server/main.go: Server startup
*/
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler, corsOrigins []string) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", h.Login)

		// Everything else needs a session.
		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)

			r.Post("/logout", h.Logout)
			r.Post("/password", h.ChangePassword)

			r.Route("/admissions", func(r chi.Router) {
				r.Get("/", h.ListAdmissions)
				r.Post("/", h.CreateAdmission)
				r.Get("/{id}", h.GetAdmission)
				r.Put("/{id}", h.UpdateAdmission)
				r.Post("/{id}/discharge", h.Discharge)
				r.Put("/{id}/override", h.SetOverride)
				r.Delete("/{id}/override", h.ClearOverride)
				r.Post("/{id}/entries/{dept}", h.AddEntry)
			})

			r.Route("/entries", func(r chi.Router) {
				r.Put("/{dept}/{entryID}", h.UpdateEntry)
				r.Delete("/{dept}/{entryID}", h.DeleteEntry)
			})

			r.Get("/rates", h.ListRates)
			r.Get("/summary", h.GetSummary)

			r.Route("/payments", func(r chi.Router) {
				r.Get("/", h.ListPayments)
				r.Post("/", h.AddPayment)
			})

			r.Route("/scenarios", func(r chi.Router) {
				r.Get("/", h.ListScenarios)
				r.Post("/load", h.LoadScenario)
			})
			r.Post("/reset", h.ResetDatabase)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return r
}

// requestLogger emits one structured log line per request.
func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.Log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request")
	})
}
