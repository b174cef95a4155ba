// Package aggregate computes per-grid outcome proportions over race results.
package aggregate

import (
	"sort"

	"github.com/okian/gridpulse/internal/domain/model"
	"github.com/okian/gridpulse/internal/domain/outcome"
)

// Percentages are kept in hundredths so rounding stays in integer arithmetic.
const hundredthsOfPercent = 100 * 100

type groupKey struct {
	grid     int
	category outcome.Category
}

// Aggregate buckets each row's position and returns one row per (grid, category)
// pair present in rows, sorted by grid then category. Proportions are percentages
// of the grid's total, rounded half-up to two decimals.
func Aggregate(rows []model.RaceResult) []model.AggregateRow {
	counts := make(map[groupKey]int)
	totals := make(map[int]int)
	for _, r := range rows {
		k := groupKey{grid: r.Grid, category: outcome.Classify(r.Position)}
		counts[k]++
		totals[r.Grid]++
	}

	out := make([]model.AggregateRow, 0, len(counts))
	for k, n := range counts {
		out = append(out, model.AggregateRow{
			Grid:       k.grid,
			Category:   k.category,
			Count:      n,
			Proportion: Percent(n, totals[k.grid]),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Grid != out[j].Grid {
			return out[i].Grid < out[j].Grid
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Percent returns 100*part/whole rounded half-up to two decimals. A zero whole yields 0.
func Percent(part, whole int) float64 {
	if whole <= 0 || part < 0 {
		return 0
	}
	// round(x) = floor(x + 1/2) with x = part*10000/whole
	scaled := (2*hundredthsOfPercent*part + whole) / (2 * whole)
	return float64(scaled) / 100
}

// Totals returns the number of rows per grid slot.
func Totals(rows []model.RaceResult) map[int]int {
	totals := make(map[int]int)
	for _, r := range rows {
		totals[r.Grid]++
	}
	return totals
}

// ByGrid groups aggregate rows by grid, keeping their category order.
func ByGrid(aggs []model.AggregateRow) map[int][]model.AggregateRow {
	out := make(map[int][]model.AggregateRow)
	for _, a := range aggs {
		out[a.Grid] = append(out[a.Grid], a)
	}
	return out
}

// Grids returns the distinct grid values of aggs in ascending order.
func Grids(aggs []model.AggregateRow) []int {
	seen := make(map[int]struct{})
	grids := make([]int, 0)
	for _, a := range aggs {
		if _, ok := seen[a.Grid]; ok {
			continue
		}
		seen[a.Grid] = struct{}{}
		grids = append(grids, a.Grid)
	}
	sort.Ints(grids)
	return grids
}
