package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	service "github.com/okian/gridpulse/internal/app"
)

const maxSelectionBody = 1 << 20

// OptionsHandler serves the circuit choices.
type OptionsHandler struct {
	deps Dependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps Dependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleOptions handles GET /api/options requests.
func (h *OptionsHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.Options(r.Context()))
}

// ViewHandler serves the displayed view.
type ViewHandler struct {
	deps Dependencies
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps Dependencies) *ViewHandler {
	return &ViewHandler{deps: deps}
}

// HandleView handles GET /api/view requests.
func (h *ViewHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v := h.deps.Current()
	if v.Zero() {
		writeError(w, r, http.StatusServiceUnavailable, "not_started", NewKind("api.view", service.ErrNotStarted))
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// selectionRequest mirrors the OpenAPI schema for POST /api/selection.
type selectionRequest struct {
	Circuits []string `json:"circuits"`
}

// SelectionHandler applies a new circuit selection.
type SelectionHandler struct {
	deps Dependencies
}

// NewSelectionHandler creates a new selection handler.
func NewSelectionHandler(deps Dependencies) *SelectionHandler {
	return &SelectionHandler{deps: deps}
}

// HandleSelection handles POST /api/selection requests.
func (h *SelectionHandler) HandleSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req selectionRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxSelectionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "bad_request", WrapKind("api.selection", ErrBadRequest, err))
		return
	}

	v, err := h.deps.Select(r.Context(), req.Circuits)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, v)
	case errors.Is(err, service.ErrUnknownCircuit):
		writeErrorWithView(w, r, http.StatusBadRequest, "unknown_circuit", err, v)
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, r, http.StatusServiceUnavailable, "not_started", err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeErrorWithView(w, r, http.StatusServiceUnavailable, "cancelled", err, v)
	default:
		writeErrorWithView(w, r, http.StatusInternalServerError, "recompute_failed", err, v)
	}
}
