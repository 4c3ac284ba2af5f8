// Package menu exposes the menu endpoints over HTTP.
package menu

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kilianp07/menucycle/core/schedule"
)

const notGeneratedMessage = "No menu generated yet. Please call /generate to create one."

// Generator is the service behind the endpoints.
type Generator interface {
	Generate(ctx context.Context) (schedule.Schedule, error)
	Current() (schedule.Schedule, error)
}

type generateResponse struct {
	Message string        `json:"message"`
	ID      string        `json:"id"`
	Menu    schedule.Menu `json:"menu"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewHandler returns the HTTP handler serving GET /menu, GET|POST /generate
// and GET /healthz. Cross-origin requests are allowed from allowedOrigin
// ("*" for any, empty for none).
func NewHandler(gen Generator, allowedOrigin string) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/menu", methods(NewMenuHandler(gen), http.MethodGet, http.MethodHead))
	mux.Handle("/generate", methods(NewGenerateHandler(gen), http.MethodGet, http.MethodPost))
	mux.Handle("/healthz", methods(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}), http.MethodGet, http.MethodHead))
	return CORS(allowedOrigin, mux)
}

// NewMenuHandler serves the current menu, or 404 before the first generation.
func NewMenuHandler(gen Generator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		s, err := gen.Current()
		if errors.Is(err, schedule.ErrNotGenerated) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: notGeneratedMessage})
			return
		}
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, s.Menu)
	})
}

// NewGenerateHandler produces a new menu and returns it.
func NewGenerateHandler(gen Generator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s, err := gen.Generate(r.Context())
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to generate menu: " + err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, generateResponse{
			Message: "New menu generated successfully!",
			ID:      s.ID,
			Menu:    s.Menu,
		})
	})
}

// CORS allows cross-origin calls from origin and answers preflight requests.
func CORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqOrigin := r.Header.Get("Origin")
		allowed := origin != "" && reqOrigin != "" && (origin == "*" || strings.EqualFold(origin, reqOrigin))
		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			if !allowed {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func methods(h http.Handler, allowed ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, m := range allowed {
			if r.Method == m {
				h.ServeHTTP(w, r)
				return
			}
		}
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
