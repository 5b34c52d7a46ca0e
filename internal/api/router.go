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

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/players", s.handleListPlayers)
		r.Get("/groups", s.handleListGroups)

		r.Route("/{uuid}", func(r chi.Router) {
			r.Post("/play", s.handlePlay)
			r.Post("/pause", s.handlePause)
			r.Get("/volume", s.handleGetVolume)
			r.Post("/volume/{vol}", s.handleSetVolume)
			r.Post("/join/{to}", s.handleJoin)
			r.Post("/unjoin", s.handleUnjoin)
			r.Get("/state", s.handleGetState)
		})
	})

	// Realtime channel (push-only, no auth)
	r.Get("/ws", s.handleWebSocket)

	return r
}

// handleHealth returns the server health status.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
	})
}
