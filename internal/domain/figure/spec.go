// Package figure shapes race results into renderer-neutral chart specifications.
package figure

// Kind identifies how a Spec is drawn.
type Kind string

const (
	KindBox        Kind = "box"
	KindStackedBar Kind = "stacked_bar"
)

// Axis describes one chart axis. Ticks start at Tick0 and repeat every DTick.
type Axis struct {
	Title string  `json:"title"`
	Tick0 float64 `json:"tick0"`
	DTick float64 `json:"dtick,omitempty"`
}

// Spec is a complete chart description handed to a renderer.
type Spec struct {
	Kind       Kind   `json:"kind"`
	Title      string `json:"title"`
	XAxis      Axis   `json:"x_axis"`
	YAxis      Axis   `json:"y_axis"`
	ShowLegend bool   `json:"show_legend"`
	HoverMode  string `json:"hover_mode"`

	// Boxes is set for KindBox, one per distinct grid value.
	Boxes []BoxGroup `json:"boxes,omitempty"`
	// Series is set for KindStackedBar, one per outcome category, stacked in order.
	Series []Series `json:"series,omitempty"`
}

// Empty reports whether the spec carries no data.
func (s Spec) Empty() bool {
	return len(s.Boxes) == 0 && len(s.Series) == 0
}

// BoxGroup summarizes the finishing positions recorded from one grid slot.
type BoxGroup struct {
	Grid       int     `json:"grid"`
	Color      string  `json:"color"`
	Count      int     `json:"count"`
	Min        float64 `json:"min"`
	Q1         float64 `json:"q1"`
	Median     float64 `json:"median"`
	Q3         float64 `json:"q3"`
	Max        float64 `json:"max"`
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
	Outliers   []int   `json:"outliers,omitempty"`
}

// Series is one stacked layer of a bar chart.
type Series struct {
	Name   string  `json:"name"`
	Color  string  `json:"color"`
	Points []Point `json:"points"`
}

// Point is a single bar segment. Count is carried for hover text.
type Point struct {
	X     int     `json:"x"`
	Y     float64 `json:"y"`
	Count int     `json:"count"`
}
