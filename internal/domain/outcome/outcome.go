// Package outcome classifies finishing positions into ordinal outcome categories.
package outcome

import (
	"fmt"
	"strings"
)

// Category is an ordinal finishing outcome. Lower values are better finishes.
type Category int

const (
	Podium Category = iota + 1
	Points
	NoPoints
	// Unclassified holds positions outside every bucket so per-grid totals stay complete.
	Unclassified
)

// Bucket is a half-open position range (Lower, Upper] mapped to a category.
type Bucket struct {
	Lower    int
	Upper    int
	Category Category
}

// Buckets is the classification table, ordered by position.
var Buckets = []Bucket{
	{Lower: 0, Upper: 3, Category: Podium},
	{Lower: 3, Upper: 10, Category: Points},
	{Lower: 10, Upper: 100, Category: NoPoints},
}

var labels = map[Category]string{
	Podium:       "Podium Finish",
	Points:       "Points Finish",
	NoPoints:     "No Points Finish",
	Unclassified: "Unclassified",
}

// All returns every category in ordinal order.
func All() []Category {
	return []Category{Podium, Points, NoPoints, Unclassified}
}

// Classify maps a finishing position onto its category.
func Classify(position int) Category {
	for _, b := range Buckets {
		if position > b.Lower && position <= b.Upper {
			return b.Category
		}
	}
	return Unclassified
}

// String returns the display label.
func (c Category) String() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return fmt.Sprintf("Category(%d)", int(c))
}

// Valid reports whether c is one of the defined categories.
func (c Category) Valid() bool {
	_, ok := labels[c]
	return ok
}

// Parse resolves a display label (case-insensitive) back to its category.
func Parse(label string) (Category, error) {
	for c, l := range labels {
		if strings.EqualFold(l, strings.TrimSpace(label)) {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, label)
}

// MarshalText encodes the category as its label for JSON and YAML.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a label produced by MarshalText.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
