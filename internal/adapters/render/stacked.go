package render

import (
	"math"
	"slices"
	"strconv"

	"github.com/golang/freetype/truetype"
	"github.com/okian/gridpulse/internal/domain/figure"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	stackPadLeft   = 60
	stackPadRight  = 220
	stackPadTop    = 50
	stackPadBottom = 60
	barFill        = 0.6

	legendOffset = 60
	legendSwatch = 12
	legendRowGap = 8
	legendFont   = 10.0
)

// proportion draws one stacked bar per grid slot on the x axis tick lattice. Slots with
// no results get an empty bar so gaps stay visible. go-chart stacks from the top, so
// series are added in reverse to keep the first category at the base.
func (g *GoChart) proportion(spec figure.Spec) chart.StackedBarChart {
	points := spec.Series[0].Points
	at := make(map[int]int, len(points))
	xs := make([]int, len(points))
	for i, p := range points {
		at[p.X] = i
		xs[i] = p.X
	}
	slots := gridSlots(spec.XAxis, xs)

	n := len(slots)
	usable := g.width - stackPadLeft - stackPadRight
	slot := max(2, usable/max(1, n))
	barWidth := max(1, int(float64(slot)*barFill))
	spacing := max(1, slot-barWidth)

	bars := make([]chart.StackedBar, 0, n)
	for _, x := range slots {
		bar := chart.StackedBar{
			Name:  strconv.Itoa(x),
			Width: barWidth,
		}
		i, ok := at[x]
		if !ok {
			bars = append(bars, bar)
			continue
		}
		for s := len(spec.Series) - 1; s >= 0; s-- {
			ser := spec.Series[s]
			col := drawing.ColorFromHex(ser.Color)
			bar.Values = append(bar.Values, chart.Value{
				Label: "",
				Value: ser.Points[i].Y,
				Style: chart.Style{FillColor: col, StrokeColor: col, StrokeWidth: 1},
			})
		}
		bars = append(bars, bar)
	}

	c := chart.StackedBarChart{
		Title:      spec.Title,
		Width:      g.width,
		Height:     g.height,
		BarSpacing: spacing,
		Background: chart.Style{Padding: chart.Box{
			Top: stackPadTop, Left: stackPadLeft, Right: stackPadRight, Bottom: stackPadBottom,
		}},
		Bars: bars,
	}
	c.Elements = append(c.Elements, axisTitles(spec.XAxis.Title, spec.YAxis.Title))
	if spec.ShowLegend {
		c.Elements = append(c.Elements, legend(spec.Series))
	}
	return c
}

// gridSlots returns every tick between the smallest and largest x plus the xs
// themselves, ascending. Without a tick step the xs are returned unchanged.
func gridSlots(a figure.Axis, xs []int) []int {
	if len(xs) == 0 || a.DTick < 1 {
		return xs
	}
	lo, hi := slices.Min(xs), slices.Max(xs)
	step := int(a.DTick)
	seen := make(map[int]bool, hi-lo+1)
	out := make([]int, 0, hi-lo+1)
	start := int(a.Tick0 + math.Ceil((float64(lo)-a.Tick0)/a.DTick)*a.DTick)
	for v := start; v <= hi; v += step {
		seen[v] = true
		out = append(out, v)
	}
	for _, x := range xs {
		if !seen[x] {
			seen[x] = true
			out = append(out, x)
		}
	}
	slices.Sort(out)
	return out
}

func elementFont(defaults chart.Style) *truetype.Font {
	if f := defaults.GetFont(); f != nil {
		return f
	}
	f, _ := chart.GetDefaultFont()
	return f
}

// legend lists series top to bottom beside the canvas with a colour swatch each.
func legend(series []figure.Series) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		r.SetFont(elementFont(defaults))
		r.SetFontSize(legendFont)
		r.SetFontColor(chart.DefaultTextColor)

		x := cb.Right + legendOffset
		y := cb.Top
		for _, s := range series {
			col := drawing.ColorFromHex(s.Color)
			r.SetFillColor(col)
			r.SetStrokeColor(col)
			r.SetStrokeWidth(1)
			r.MoveTo(x, y)
			r.LineTo(x+legendSwatch, y)
			r.LineTo(x+legendSwatch, y+legendSwatch)
			r.LineTo(x, y+legendSwatch)
			r.Close()
			r.FillStroke()

			tb := r.MeasureText(s.Name)
			r.SetFontColor(chart.DefaultTextColor)
			r.Text(s.Name, x+legendSwatch+6, y+legendSwatch/2+tb.Height()/2)
			y += legendSwatch + legendRowGap
		}
	}
}

// axisTitles writes the x title level with the bar labels, right of the canvas, and the
// y title rotated left of it. The stacked chart gives the x axis no spare height below.
func axisTitles(xTitle, yTitle string) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		r.SetFont(elementFont(defaults))
		r.SetFontSize(chart.DefaultFontSize)
		r.SetFontColor(chart.DefaultTextColor)

		if xTitle != "" {
			tb := r.MeasureText(xTitle)
			r.Text(xTitle, cb.Right+legendOffset, cb.Bottom+chart.DefaultXAxisMargin+tb.Height())
		}
		if yTitle != "" {
			tb := r.MeasureText(yTitle)
			r.SetTextRotation(-math.Pi / 2)
			r.Text(yTitle, cb.Left-tb.Height()-10, cb.Top+(cb.Height()+tb.Width())/2)
			r.ClearTextRotation()
		}
	}
}
