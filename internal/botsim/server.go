// ABOUTME: HTTP API for the simulated bot, mirroring the remote control backend
// ABOUTME: Serves status, control, screenshot and logs behind the master password

package botsim

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/markalston/autoclick-dashboard/internal/client"
	"github.com/markalston/autoclick-dashboard/internal/middleware"
)

// Log page limits accepted by /api/logs
const (
	DefaultLogLimit = 5
	MaxLogLimit     = 50
)

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string
	Path    string
	Handler http.HandlerFunc
}

// Server exposes a Bot over the same envelope protocol as the real backend
type Server struct {
	bot      *Bot
	password string
}

// NewServer creates a server that accepts password as the master password
func NewServer(bot *Bot, password string) *Server {
	return &Server{bot: bot, password: password}
}

// Routes returns all API routes for registration.
func (s *Server) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/status", Handler: s.Status},
		{Method: http.MethodPost, Path: "/api/control", Handler: s.Control},
		{Method: http.MethodPost, Path: "/api/control/screenshot", Handler: s.Screenshot},
		{Method: http.MethodGet, Path: "/api/logs", Handler: s.Logs},
	}
}

// Handler builds the router with logging and CORS applied to every route
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	for _, route := range s.Routes() {
		r.HandleFunc(route.Path, middleware.Chain(route.Handler, middleware.LogRequest, middleware.CORS)).
			Methods(route.Method, http.MethodOptions)
	}
	r.NotFoundHandler = middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Not found", http.StatusNotFound)
	}, middleware.LogRequest)
	r.MethodNotAllowedHandler = middleware.Chain(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
	}, middleware.LogRequest)
	return r
}

type controlBody struct {
	MasterPassword string `json:"masterPassword"`
	Action         string `json:"action"`
	TargetLevel    *int   `json:"targetLevel"`
}

type screenshotBody struct {
	MasterPassword string `json:"masterPassword"`
}

// Status handles GET /api/status
func (s *Server) Status(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r.URL.Query().Get("masterPassword")) {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	s.bot.Step()
	writeData(w, s.bot.Snapshot())
}

// Control handles POST /api/control
func (s *Server) Control(w http.ResponseWriter, r *http.Request) {
	var body controlBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !s.authorized(body.MasterPassword) {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	action, err := client.ParseAction(body.Action)
	if err != nil || !action.IsControl() {
		writeError(w, "Invalid action", http.StatusBadRequest)
		return
	}

	status, err := s.bot.Control(action, body.TargetLevel)
	if err != nil {
		code := http.StatusBadRequest
		if errors.Is(err, ErrAlreadyRunning) || errors.Is(err, ErrNotRunning) {
			code = http.StatusConflict
		}
		writeError(w, err.Error(), code)
		return
	}

	slog.Info("Bot command applied", "action", action, "status", status.Status, "target_level", *status.TargetLevel)
	writeData(w, status)
}

// Screenshot handles POST /api/control/screenshot. A wrong password is an
// application-level failure here, not a 401, matching the real backend.
func (s *Server) Screenshot(w http.ResponseWriter, r *http.Request) {
	var body screenshotBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !s.authorized(body.MasterPassword) {
		writeError(w, "Invalid master password", http.StatusForbidden)
		return
	}
	if err := s.bot.RequestScreenshot(); err != nil {
		writeError(w, err.Error(), http.StatusConflict)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logs handles GET /api/logs
func (s *Server) Logs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if !s.authorized(q.Get("masterPassword")) {
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	limit := queryInt(q.Get("limit"), DefaultLogLimit)
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if limit > MaxLogLimit {
		limit = MaxLogLimit
	}
	offset := queryInt(q.Get("offset"), 0)
	if offset < 0 {
		offset = 0
	}

	logs, total := s.bot.Logs(limit, offset)
	writeData(w, client.LogPage{Logs: logs, Total: total})
}

func (s *Server) authorized(candidate string) bool {
	if s.password == "" || candidate == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.password)) == 1
}

func queryInt(value string, defaultValue int) int {
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

func writeData(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, struct {
		Success bool        `json:"success"`
		Data    interface{} `json:"data"`
	}{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{Success: false, Error: message})
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
