// Package render draws figure specs to SVG or PNG with go-chart.
package render

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/okian/gridpulse/internal/domain/figure"
	"github.com/okian/gridpulse/pkg/logger"
	"github.com/okian/gridpulse/pkg/metrics"
	"github.com/wcharczuk/go-chart/v2"
)

// Format is an output image encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

const (
	defaultWidth  = 1000
	defaultHeight = 560
)

// ParseFormat maps "svg" or "png" (any case) to a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatSVG:
		return FormatSVG, nil
	case FormatPNG:
		return FormatPNG, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// ContentType is the HTTP media type for the format.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return chart.ContentTypePNG
	}
	return chart.ContentTypeSVG
}

func (f Format) provider() chart.RendererProvider {
	if f == FormatPNG {
		return chart.PNG
	}
	return chart.SVG
}

// Renderer turns a figure spec into an image.
type Renderer interface {
	Render(ctx context.Context, spec figure.Spec, w io.Writer) error
	ContentType() string
}

// GoChart renders specs with github.com/wcharczuk/go-chart.
type GoChart struct {
	width  int
	height int
	format Format
	logger logger.Logger
}

// NewGoChart creates a renderer. Defaults to a 1000x560 SVG.
func NewGoChart(opts ...Option) (*GoChart, error) {
	g := &GoChart{width: defaultWidth, height: defaultHeight, format: FormatSVG}
	for _, opt := range opts {
		opt(g)
	}
	if g.format != FormatSVG && g.format != FormatPNG {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, g.format)
	}
	return g, nil
}

// WithFormat returns a copy of the renderer producing f.
func (g *GoChart) WithFormat(f Format) *GoChart {
	c := *g
	c.format = f
	return &c
}

// Format reports the configured output format.
func (g *GoChart) Format() Format { return g.format }

// ContentType implements Renderer.
func (g *GoChart) ContentType() string { return g.format.ContentType() }

// Render implements Renderer. An empty spec produces a titled chart with no marks.
func (g *GoChart) Render(ctx context.Context, spec figure.Spec, w io.Writer) error {
	if w == nil {
		return ErrNilWriter
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	start := time.Now()

	var err error
	switch {
	case spec.Kind != figure.KindBox && spec.Kind != figure.KindStackedBar:
		err = fmt.Errorf("%w: %q", ErrUnsupportedKind, spec.Kind)
	case spec.Empty():
		err = g.placeholder(spec).Render(g.format.provider(), w)
	case spec.Kind == figure.KindBox:
		err = g.distribution(spec).Render(g.format.provider(), w)
	default:
		err = g.proportion(spec).Render(g.format.provider(), w)
	}

	if err != nil {
		metrics.RecordRenderError(string(spec.Kind))
		if g.logger != nil {
			g.logger.Error(ctx, "chart render failed",
				logger.String("kind", string(spec.Kind)),
				logger.String("format", string(g.format)),
				logger.Error(err),
			)
		}
		return fmt.Errorf("render %s: %w", spec.Kind, err)
	}
	metrics.RecordRenderLatency(string(spec.Kind), string(g.format), float64(time.Since(start).Microseconds())/1000)
	return nil
}

// placeholder draws axes and the title with a single invisible series, since go-chart
// refuses to render a chart without data.
func (g *GoChart) placeholder(spec figure.Spec) chart.Chart {
	return chart.Chart{
		Title:      spec.Title,
		Width:      g.width,
		Height:     g.height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis:      chart.XAxis{Name: spec.XAxis.Title, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:      chart.YAxis{Name: spec.YAxis.Title, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "empty",
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style:   chart.Style{StrokeWidth: chart.Disabled},
			},
		},
	}
}
