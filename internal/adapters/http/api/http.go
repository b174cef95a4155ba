// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	service "github.com/okian/gridpulse/internal/app"
	"github.com/okian/gridpulse/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the controller implementation.
type Dependencies interface {
	// Options lists the circuits a selection may contain.
	Options(ctx context.Context) []model.Option

	// Current returns the displayed view.
	Current() View

	// Select recomputes for circuits and returns the displayed view.
	Select(ctx context.Context, circuits []string) (View, error)
}

// View mirrors the read shape of the displayed dashboard.
type View = service.View

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	optionsHandler   *OptionsHandler
	viewHandler      *ViewHandler
	selectionHandler *SelectionHandler
	chartsHandler    *ChartsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, charts Charts) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(deps),
		statsHandler:     NewStatsHandler(statsProvider),
		optionsHandler:   NewOptionsHandler(deps),
		viewHandler:      NewViewHandler(deps),
		selectionHandler: NewSelectionHandler(deps),
		chartsHandler:    NewChartsHandler(deps, charts),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/options", MetricsMiddleware(RequestID(s.optionsHandler.HandleOptions), "options"))
	mux.HandleFunc("/api/view", MetricsMiddleware(RequestID(s.viewHandler.HandleView), "view"))
	mux.HandleFunc("/api/selection", MetricsMiddleware(RequestID(s.selectionHandler.HandleSelection), "selection"))
	mux.HandleFunc("/charts/", MetricsMiddleware(RequestID(s.chartsHandler.HandleChart), "charts"))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
	View      *View  `json:"view,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg, RequestID: RequestIDFrom(r.Context())})
}

// writeErrorWithView reports err and echoes the view that stays on screen.
func writeErrorWithView(w http.ResponseWriter, r *http.Request, status int, code string, err error, v View) {
	resp := errorResponse{Code: code, Message: err.Error(), RequestID: RequestIDFrom(r.Context())}
	if !v.Zero() {
		resp.View = &v
	}
	writeJSON(w, status, resp)
}
