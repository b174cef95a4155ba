// Package selection derives filter options from race results and applies circuit selections.
package selection

import (
	"sort"

	"github.com/okian/gridpulse/internal/domain/model"
)

// DistinctValues returns one option per distinct value of field, in first-seen order.
// Label and value are both the field value. An unknown field yields no options.
func DistinctValues(rows []model.RaceResult, field model.Field) []model.Option {
	seen := make(map[string]struct{})
	out := make([]model.Option, 0)
	for _, r := range rows {
		v, ok := r.Value(field)
		if !ok {
			return out
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, model.Option{Label: v, Value: v})
	}
	return out
}

// Values extracts the option values in order.
func Values(opts []model.Option) []string {
	out := make([]string, len(opts))
	for i, o := range opts {
		out[i] = o.Value
	}
	return out
}

// Selection is an immutable set of selected circuit names. The zero value selects nothing.
type Selection struct {
	set map[string]struct{}
}

// New builds a selection from values; duplicates collapse.
func New(values ...string) Selection {
	s := Selection{set: make(map[string]struct{}, len(values))}
	for _, v := range values {
		s.set[v] = struct{}{}
	}
	return s
}

// Contains reports whether v is selected.
func (s Selection) Contains(v string) bool {
	_, ok := s.set[v]
	return ok
}

// Len is the number of selected values.
func (s Selection) Len() int { return len(s.set) }

// Empty reports whether nothing is selected.
func (s Selection) Empty() bool { return len(s.set) == 0 }

// Values returns the selected values sorted.
func (s Selection) Values() []string {
	out := make([]string, 0, len(s.set))
	for v := range s.set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Missing returns the selected values absent from opts, sorted.
func (s Selection) Missing(opts []model.Option) []string {
	known := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		known[o.Value] = struct{}{}
	}
	var missing []string
	for _, v := range s.Values() {
		if _, ok := known[v]; !ok {
			missing = append(missing, v)
		}
	}
	return missing
}

// Filter returns the rows whose circuit is selected, preserving order.
func Filter(rows []model.RaceResult, s Selection) []model.RaceResult {
	out := make([]model.RaceResult, 0)
	if s.Empty() {
		return out
	}
	for _, r := range rows {
		if s.Contains(r.CircuitName) {
			out = append(out, r)
		}
	}
	return out
}
