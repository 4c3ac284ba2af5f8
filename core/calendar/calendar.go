package calendar

import (
	"fmt"
	"sort"

	"github.com/kilianp07/menucycle/core/model"
)

// Rule matches a (day, meal time) combination in every half.
type Rule struct {
	Day  model.Day
	Time model.MealTime
}

func (r Rule) matches(d model.Day, t model.MealTime) bool {
	return r.Day == d && r.Time == t
}

// PinRule forces Category on the slots matching Rule.
type PinRule struct {
	Rule
	Category model.Category
}

// Grid describes the calendar of a cycle.
type Grid struct {
	Halves   int
	Days     []model.Day
	Times    []model.MealTime
	Excluded []Rule
	Pins     []PinRule
}

// Default returns the two-week grid without Saturday lunch and with an egg
// dish on Saturday dinner.
func Default() Grid {
	return Grid{
		Halves:   2,
		Days:     model.Days,
		Times:    model.MealTimes,
		Excluded: []Rule{{Day: model.Saturday, Time: model.Lunch}},
		Pins: []PinRule{{
			Rule:     Rule{Day: model.Saturday, Time: model.Dinner},
			Category: "egg",
		}},
	}
}

// Build enumerates the slots of the grid sorted by half, day and meal time.
// The output only depends on the grid.
func (g Grid) Build() []model.Slot {
	var slots []model.Slot
	for h := 1; h <= g.Halves; h++ {
		for _, d := range g.Days {
			for _, t := range g.Times {
				if g.excluded(d, t) {
					continue
				}
				slots = append(slots, model.Slot{
					SlotKey: model.SlotKey{Half: model.Half(h), Day: d, Time: t},
					Pin:     g.pin(d, t),
				})
			}
		}
	}
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Less(slots[j].SlotKey) })
	return slots
}

// SlotsPerHalf returns the number of slots in a single half.
func (g Grid) SlotsPerHalf() int {
	n := 0
	for _, d := range g.Days {
		for _, t := range g.Times {
			if !g.excluded(d, t) {
				n++
			}
		}
	}
	return n
}

func (g Grid) excluded(d model.Day, t model.MealTime) bool {
	for _, r := range g.Excluded {
		if r.matches(d, t) {
			return true
		}
	}
	return false
}

// pin returns the category of the first matching pin rule.
func (g Grid) pin(d model.Day, t model.MealTime) model.Category {
	for _, p := range g.Pins {
		if p.matches(d, t) {
			return p.Category
		}
	}
	return ""
}

// Validate checks the grid can produce at least one slot and that pins do
// not target excluded combinations.
func (g Grid) Validate() error {
	if g.Halves < 1 {
		return fmt.Errorf("halves must be positive, got %d", g.Halves)
	}
	if len(g.Days) == 0 || len(g.Times) == 0 {
		return fmt.Errorf("grid needs at least one day and one meal time")
	}
	for _, p := range g.Pins {
		if p.Category == "" {
			return fmt.Errorf("pin on %s %s has no category", p.Day, p.Time)
		}
		if g.excluded(p.Day, p.Time) {
			return fmt.Errorf("pin on excluded slot %s %s", p.Day, p.Time)
		}
	}
	return nil
}
