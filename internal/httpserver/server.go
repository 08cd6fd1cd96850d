// internal/httpserver/server.go
//
// HTTP server wiring for the Termo backend.
// Responsibilities:
//   - Router + middleware (request IDs, real IP, panic recovery, CORS).
//   - Diagnostics: "/", "/health", "/debug/words".
//   - The websocket gateway mount at "/ws".
//
// Notes:
//   - CORS is origin-aware via CLIENT_ORIGIN; websocket upgrades skip the
//     preflight handling and are vetted by the gateway itself.
//   - No request timeout middleware: the gateway holds connections open for
//     the lifetime of a session.

package httpserver

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pietrosantos15/termomultiplayer/internal/gateway"
	"github.com/pietrosantos15/termomultiplayer/internal/room"
	"github.com/pietrosantos15/termomultiplayer/internal/words"
)

// Server bundles the router with the room registry and dictionary.
type Server struct {
	r        *chi.Mux
	registry *room.Registry
	dict     *words.List
}

// New constructs a Server, installs middleware, and registers routes.
func New(reg *room.Registry, dict *words.List, gw *gateway.Gateway) *Server {
	s := &Server{r: chi.NewRouter(), registry: reg, dict: dict}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"termo-multiplayer","endpoints":["/health","/ws","/debug/words"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/words", s.handleWordStats)

	// --- gateway ---
	s.r.Get("/ws", gw.Handle)

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// handleWordStats reports dictionary and room counts.
func (s *Server) handleWordStats(w http.ResponseWriter, r *http.Request) {
	answers, index := s.dict.Stats()
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	writeJSON(w, map[string]int{
		"answers": answers,
		"words":   index,
		"rooms":   s.registry.Count(),
	})
}

// writeJSON encodes v to the response; encoding errors mean the client is
// already gone.
func writeJSON(w http.ResponseWriter, v any) {
	_ = json.NewEncoder(w).Encode(v)
}

// corsFromEnv enables CORS for a single origin (CLIENT_ORIGIN, defaulting to
// the dev client). Websocket upgrade requests pass straight through.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
