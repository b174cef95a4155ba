package figure

import (
	"math"
	"sort"

	"github.com/okian/gridpulse/internal/domain/aggregate"
	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/internal/domain/outcome"
)

// Chart text.
const (
	DistributionTitle = "Distribution of Finishing Position based on Starting Grid Position"
	ProportionTitle   = "Proportions of Finishing Positions based on Starting Grid"

	gridAxisTitle       = "Starting Grid Position"
	positionAxisTitle   = "Finishing Position"
	proportionAxisTitle = "Proportion (%)"
	hoverModeX          = "x"

	whiskerIQRFactor = 1.5
)

// Palette is the qualitative colour cycle used for grid groups.
var Palette = []string{
	"#636EFA", "#EF553B", "#00CC96", "#AB63FA", "#FFA15A",
	"#19D3F3", "#FF6692", "#B6E880", "#FF97FF", "#FECB52",
}

// CategoryColors fixes one colour per outcome so stacks read the same across selections.
var CategoryColors = map[outcome.Category]string{
	outcome.Podium:       "#636EFA",
	outcome.Points:       "#EF553B",
	outcome.NoPoints:     "#00CC96",
	outcome.Unclassified: "#B6B6B6",
}

func gridAxis() Axis {
	return Axis{Title: gridAxisTitle, Tick0: 0, DTick: 1}
}

// BuildDistribution summarizes finishing positions per starting grid as box groups,
// one per distinct grid in ascending order, coloured by grid and without a legend.
// Unclassified positions carry no finishing order and are left out of the boxes;
// a grid with no classified finisher gets no box.
func BuildDistribution(rows []model.RaceResult) Spec {
	spec := Spec{
		Kind:       KindBox,
		Title:      DistributionTitle,
		XAxis:      gridAxis(),
		YAxis:      Axis{Title: positionAxisTitle},
		ShowLegend: false,
		HoverMode:  hoverModeX,
	}

	byGrid := make(map[int][]int)
	for _, r := range rows {
		if outcome.Classify(r.Position) == outcome.Unclassified {
			continue
		}
		byGrid[r.Grid] = append(byGrid[r.Grid], r.Position)
	}
	grids := make([]int, 0, len(byGrid))
	for g := range byGrid {
		grids = append(grids, g)
	}
	sort.Ints(grids)

	for i, g := range grids {
		box := summarize(byGrid[g])
		box.Grid = g
		box.Color = Palette[i%len(Palette)]
		spec.Boxes = append(spec.Boxes, box)
	}
	return spec
}

// BuildProportion stacks aggregate proportions per grid by outcome category.
// Categories absent for a grid are filled with zero so every series spans every grid.
func BuildProportion(aggs []model.AggregateRow) Spec {
	spec := Spec{
		Kind:       KindStackedBar,
		Title:      ProportionTitle,
		XAxis:      gridAxis(),
		YAxis:      Axis{Title: proportionAxisTitle},
		ShowLegend: true,
		HoverMode:  hoverModeX,
	}

	grids := aggregate.Grids(aggs)
	present := make(map[outcome.Category]bool)
	cells := make(map[int]map[outcome.Category]model.AggregateRow)
	for _, a := range aggs {
		present[a.Category] = true
		if cells[a.Grid] == nil {
			cells[a.Grid] = make(map[outcome.Category]model.AggregateRow)
		}
		cells[a.Grid][a.Category] = a
	}

	for _, c := range outcome.All() {
		if !present[c] {
			continue
		}
		s := Series{Name: c.String(), Color: CategoryColors[c], Points: make([]Point, 0, len(grids))}
		for _, g := range grids {
			a := cells[g][c]
			s.Points = append(s.Points, Point{X: g, Y: a.Proportion, Count: a.Count})
		}
		spec.Series = append(spec.Series, s)
	}
	return spec
}

// summarize computes box statistics with linearly interpolated quartiles.
func summarize(positions []int) BoxGroup {
	vals := make([]float64, len(positions))
	for i, p := range positions {
		vals[i] = float64(p)
	}
	sort.Float64s(vals)

	b := BoxGroup{
		Count:  len(vals),
		Min:    vals[0],
		Max:    vals[len(vals)-1],
		Q1:     quantile(vals, 0.25),
		Median: quantile(vals, 0.5),
		Q3:     quantile(vals, 0.75),
	}

	iqr := b.Q3 - b.Q1
	lowLimit := b.Q1 - whiskerIQRFactor*iqr
	highLimit := b.Q3 + whiskerIQRFactor*iqr
	b.LowerFence, b.UpperFence = b.Max, b.Min
	for _, v := range vals {
		if v < lowLimit || v > highLimit {
			b.Outliers = append(b.Outliers, int(v))
			continue
		}
		b.LowerFence = math.Min(b.LowerFence, v)
		b.UpperFence = math.Max(b.UpperFence, v)
	}
	return b
}

// quantile expects sorted, non-empty input.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	return sorted[lo] + (sorted[hi]-sorted[lo])*(pos-float64(lo))
}
