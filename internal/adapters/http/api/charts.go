package api

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/gridpulse/internal/adapters/render"
	"github.com/okian/gridpulse/internal/domain/figure"
)

// Chart names as they appear under /charts/.
const (
	chartDistribution = "distribution"
	chartProportion   = "proportion"
)

// Charts holds one renderer per image format. Default serves requests without ?format.
type Charts struct {
	Default   render.Format
	Renderers map[render.Format]render.Renderer
}

// NewCharts derives an SVG and a PNG renderer from g. g's own format is the default.
func NewCharts(g *render.GoChart) Charts {
	return Charts{
		Default: g.Format(),
		Renderers: map[render.Format]render.Renderer{
			render.FormatSVG: g.WithFormat(render.FormatSVG),
			render.FormatPNG: g.WithFormat(render.FormatPNG),
		},
	}
}

// ChartsHandler renders the charts of the displayed view.
type ChartsHandler struct {
	deps   Dependencies
	charts Charts
}

// NewChartsHandler creates a new charts handler.
func NewChartsHandler(deps Dependencies, charts Charts) *ChartsHandler {
	return &ChartsHandler{deps: deps, charts: charts}
}

// HandleChart handles GET /charts/{distribution|proportion} requests. An optional
// ?v=<seq> pins the request to a view; any other displayed view answers 409.
func (h *ChartsHandler) HandleChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, "/charts/"), "/")
	v := h.deps.Current()

	var spec figure.Spec
	switch name {
	case chartDistribution:
		spec = v.Distribution
	case chartProportion:
		spec = v.Proportion
	default:
		writeError(w, r, http.StatusNotFound, "not_found", NewKind("api.chart "+name, ErrUnknownChart))
		return
	}

	if q := r.URL.Query().Get("v"); q != "" {
		seq, err := strconv.ParseUint(q, 10, 64)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "bad_request", WrapKind("api.chart", ErrBadRequest, err))
			return
		}
		if seq != v.Seq {
			w.Header().Set("X-View-Seq", strconv.FormatUint(v.Seq, 10))
			writeError(w, r, http.StatusConflict, "stale_view",
				fmt.Errorf("%w: requested %d, displayed %d", NewKind("api.chart", ErrStaleView), seq, v.Seq))
			return
		}
	}

	format := h.charts.Default
	if q := r.URL.Query().Get("format"); q != "" {
		f, err := render.ParseFormat(q)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "unsupported_format", WrapKind("api.chart", ErrBadRequest, err))
			return
		}
		format = f
	}
	renderer, ok := h.charts.Renderers[format]
	if !ok {
		writeError(w, r, http.StatusBadRequest, "unsupported_format",
			WrapKind("api.chart", ErrBadRequest, render.ErrUnsupportedFormat))
		return
	}

	var buf bytes.Buffer
	if err := renderer.Render(r.Context(), spec, &buf); err != nil {
		writeError(w, r, http.StatusInternalServerError, "render_failed", WrapKind("api.chart", ErrRenderFailed, err))
		return
	}

	w.Header().Set("Content-Type", renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("X-View-Seq", strconv.FormatUint(v.Seq, 10))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}
