package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.corsMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Health check (no auth required)
		r.Get("/health", s.handleHealth)

		// Provider catalogue (read-only, no auth required)
		r.Route("/providers", func(r chi.Router) {
			r.Get("/", s.handleListProviders)

			r.Route("/{provider}", func(r chi.Router) {
				r.Get("/", s.handleGetProvider)
				r.Get("/devices", s.handleListProviderDevices)

				r.Route("/devices/{device}", func(r chi.Router) {
					r.Get("/", s.handleGetProviderDevice)

					// Archiving writes to the snapshot store
					r.Group(func(r chi.Router) {
						r.Use(s.authMiddleware)
						r.Post("/snapshots", s.handleCreateSnapshot)
					})
				})
			})
		})

		// Cross-provider device lookup
		r.Route("/devices", func(r chi.Router) {
			r.Get("/", s.handleListDeviceNames)
			r.Get("/{device}", s.handleGetDevice)
		})

		// Snapshot archive (read-only, no auth required)
		r.Route("/snapshots", func(r chi.Router) {
			r.Get("/", s.handleListSnapshots)
			r.Get("/latest", s.handleLatestSnapshot)
			r.Get("/{id}", s.handleGetSnapshot)
		})

		// WebSocket (auth via token query parameter, validated in handler)
		r.Get("/ws", s.handleWebSocket)
	})

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
