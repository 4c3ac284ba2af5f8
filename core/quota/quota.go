// Package quota derives how many dishes of each category a half of the
// cycle may hold.
package quota

import (
	"fmt"
	"math"
	"sort"

	"github.com/kilianp07/menucycle/core/model"
)

// Policy names accepted in configuration.
const (
	PolicyDerived = "derived"
	PolicyFixed   = "fixed"
)

// Unbounded is the Max of a category without an upper limit.
const Unbounded = math.MaxInt32

// Bounds is the inclusive range of occurrences of a category within a half.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Table maps each constrained category to its per-half bounds.
type Table map[model.Category]Bounds

// Get returns the bounds of c. Categories missing from the table are
// unconstrained.
func (t Table) Get(c model.Category) Bounds {
	if b, ok := t[c]; ok {
		return b
	}
	return Bounds{Min: 0, Max: Unbounded}
}

// Totals returns the sums of minimums and maximums over the table.
func (t Table) Totals() (minSum, maxSum int) {
	for _, b := range t {
		minSum += b.Min
		if maxSum < Unbounded {
			maxSum += b.Max
		}
		if maxSum > Unbounded {
			maxSum = Unbounded
		}
	}
	return minSum, maxSum
}

// Categories returns the table keys in lexical order.
func (t Table) Categories() []model.Category {
	out := make([]model.Category, 0, len(t))
	for c := range t {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Policy turns a catalogue into a quota table.
type Policy interface {
	Derive(dishes []model.Dish) (Table, error)
}

// Derived splits each category as evenly as possible between two halves:
// min = floor(count/2), max = ceil(count/2).
type Derived struct{}

// Derive implements Policy.
func (Derived) Derive(dishes []model.Dish) (Table, error) {
	t := make(Table)
	for c, n := range model.CountByCategory(dishes) {
		t[c] = Bounds{Min: n / 2, Max: (n + 1) / 2}
	}
	return t, nil
}

// Fixed returns a literal table regardless of the catalogue.
type Fixed struct {
	Table Table
}

// Derive implements Policy. The returned table is a copy.
func (f Fixed) Derive([]model.Dish) (Table, error) {
	t := make(Table, len(f.Table))
	for c, b := range f.Table {
		if b.Min < 0 || b.Min > b.Max {
			return nil, fmt.Errorf("invalid bounds for %s: [%d, %d]", c, b.Min, b.Max)
		}
		t[c] = b
	}
	return t, nil
}
