package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/okian/gridpulse/internal/domain/figure"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	boxHalfWidth = 0.3
	capHalfWidth = 0.15
	outlierDot   = 3
)

// distribution draws each box group as outline, median, whisker and outlier series
// over a continuous grid axis.
func (g *GoChart) distribution(spec figure.Spec) chart.Chart {
	minX, maxX := math.Inf(1), math.Inf(-1)
	maxY := 0.0
	var series []chart.Series
	for _, b := range spec.Boxes {
		x := float64(b.Grid)
		minX = math.Min(minX, x)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, b.Max)
		series = append(series, boxSeries(b)...)
	}

	xr := &chart.ContinuousRange{Min: minX - 1, Max: maxX + 1}
	yr := &chart.ContinuousRange{Min: 0, Max: maxY + 1}

	return chart.Chart{
		Title:      spec.Title,
		Width:      g.width,
		Height:     g.height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  spec.XAxis.Title,
			Range: xr,
			Ticks: ticks(spec.XAxis, xr.Min, xr.Max),
		},
		YAxis: chart.YAxis{
			Name:  spec.YAxis.Title,
			Range: yr,
		},
		Series: series,
	}
}

func boxSeries(b figure.BoxGroup) []chart.Series {
	x := float64(b.Grid)
	col := drawing.ColorFromHex(b.Color)
	line := chart.Style{StrokeColor: col, StrokeWidth: 1.5}
	name := fmt.Sprintf("grid %d", b.Grid)

	out := []chart.Series{
		chart.ContinuousSeries{
			Name:    name,
			Style:   line,
			XValues: []float64{x - boxHalfWidth, x + boxHalfWidth, x + boxHalfWidth, x - boxHalfWidth, x - boxHalfWidth},
			YValues: []float64{b.Q1, b.Q1, b.Q3, b.Q3, b.Q1},
		},
		chart.ContinuousSeries{
			Name:    name + " median",
			Style:   chart.Style{StrokeColor: col, StrokeWidth: 2.5},
			XValues: []float64{x - boxHalfWidth, x + boxHalfWidth},
			YValues: []float64{b.Median, b.Median},
		},
		chart.ContinuousSeries{
			Name:    name + " lower whisker",
			Style:   line,
			XValues: []float64{x - capHalfWidth, x + capHalfWidth, x, x},
			YValues: []float64{b.LowerFence, b.LowerFence, b.LowerFence, b.Q1},
		},
		chart.ContinuousSeries{
			Name:    name + " upper whisker",
			Style:   line,
			XValues: []float64{x, x, x - capHalfWidth, x + capHalfWidth},
			YValues: []float64{b.Q3, b.UpperFence, b.UpperFence, b.UpperFence},
		},
	}

	if len(b.Outliers) > 0 {
		xs := make([]float64, len(b.Outliers))
		ys := make([]float64, len(b.Outliers))
		for i, o := range b.Outliers {
			xs[i] = x
			ys[i] = float64(o)
		}
		out = append(out, chart.ContinuousSeries{
			Name:    name + " outliers",
			Style:   chart.Style{StrokeWidth: chart.Disabled, DotWidth: outlierDot, DotColor: col},
			XValues: xs,
			YValues: ys,
		})
	}
	return out
}

// ticks expands an axis tick0/dtick pair into labelled ticks across [lo, hi].
func ticks(a figure.Axis, lo, hi float64) []chart.Tick {
	if a.DTick <= 0 {
		return nil
	}
	start := a.Tick0 + math.Ceil((lo-a.Tick0)/a.DTick)*a.DTick
	var out []chart.Tick
	for v := start; v <= hi; v += a.DTick {
		out = append(out, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	return out
}
