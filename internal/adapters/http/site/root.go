// Package site serves the embedded dashboard page.
package site

import (
	"context"
	"net/http"
)

const (
	cacheNoStore = "no-store"
	cacheDefault = "public, max-age=300"
)

// Register attaches the dashboard page and its assets at /. In debug mode
// responses are marked no-store so edits show up on reload.
func Register(_ context.Context, mux *http.ServeMux, debug bool) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.Handle("/", NewRootHandler(debug))
}

// RootHandler serves the embedded files.
type RootHandler struct {
	files http.Handler
	cache string
}

// NewRootHandler creates a new root handler.
func NewRootHandler(debug bool) *RootHandler {
	cache := cacheDefault
	if debug {
		cache = cacheNoStore
	}
	return &RootHandler{files: http.FileServer(FS()), cache: cache}
}

// ServeHTTP handles GET requests under / and serves index.html at the root.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", h.cache)
	h.files.ServeHTTP(w, r)
}
