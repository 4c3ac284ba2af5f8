package model

import "sort"

// Placement binds one dish to one slot.
type Placement struct {
	Slot Slot
	Dish Dish
}

// Assignment is a complete slot to dish mapping. Once returned by the solver
// it is never mutated.
type Assignment []Placement

// Sort orders the placements by slot key.
func (a Assignment) Sort() {
	sort.Slice(a, func(i, j int) bool { return a[i].Slot.Less(a[j].Slot.SlotKey) })
}

// Lookup returns the dish placed at key.
func (a Assignment) Lookup(key SlotKey) (Dish, bool) {
	for _, p := range a {
		if p.Slot.SlotKey == key {
			return p.Dish, true
		}
	}
	return Dish{}, false
}

// CategoryCounts returns how many slots of half h hold each category.
func (a Assignment) CategoryCounts(h Half) map[Category]int {
	counts := make(map[Category]int)
	for _, p := range a {
		if p.Slot.Half == h {
			counts[p.Dish.Category]++
		}
	}
	return counts
}

// Dishes returns the placed dishes in placement order.
func (a Assignment) Dishes() []Dish {
	out := make([]Dish, len(a))
	for i, p := range a {
		out[i] = p.Dish
	}
	return out
}
