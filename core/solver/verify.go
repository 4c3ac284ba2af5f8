package solver

import (
	"fmt"
	"sort"

	"github.com/kilianp07/menucycle/core/model"
)

// Verify checks that a is a bijection between p.Slots and p.Dishes that
// honours the quotas and pins of p, and the adjacency rule when requested.
func Verify(p Problem, a model.Assignment, adjacency bool) error {
	if len(a) != len(p.Slots) || len(a) != len(p.Dishes) {
		return fmt.Errorf("assignment has %d placements for %d slots and %d dishes", len(a), len(p.Slots), len(p.Dishes))
	}
	slots := make(map[model.SlotKey]model.Slot, len(p.Slots))
	for _, s := range p.Slots {
		slots[s.SlotKey] = s
	}
	dishes := make(map[string]model.Dish, len(p.Dishes))
	for _, d := range p.Dishes {
		dishes[d.Name] = d
	}

	seenSlot := make(map[model.SlotKey]bool, len(a))
	seenDish := make(map[string]bool, len(a))
	counts := map[model.Half]map[model.Category]int{}
	for _, pl := range a {
		slot, ok := slots[pl.Slot.SlotKey]
		if !ok {
			return fmt.Errorf("unknown slot %s", pl.Slot.SlotKey)
		}
		if seenSlot[slot.SlotKey] {
			return fmt.Errorf("slot %s assigned twice", slot.SlotKey)
		}
		seenSlot[slot.SlotKey] = true

		dish, ok := dishes[pl.Dish.Name]
		if !ok || dish.Category != pl.Dish.Category {
			return fmt.Errorf("unknown dish %q", pl.Dish.Name)
		}
		if seenDish[dish.Name] {
			return fmt.Errorf("dish %q used twice", dish.Name)
		}
		seenDish[dish.Name] = true

		if slot.Pinned() && dish.Category != slot.Pin {
			return fmt.Errorf("slot %s requires %s, got %s (%s)", slot.SlotKey, slot.Pin, dish.Name, dish.Category)
		}
		if counts[slot.Half] == nil {
			counts[slot.Half] = map[model.Category]int{}
		}
		counts[slot.Half][dish.Category]++
	}

	for h, byCat := range counts {
		for c, b := range p.Quotas {
			if n := byCat[c]; n < b.Min || n > b.Max {
				return fmt.Errorf("week %d holds %d %s dishes, want [%d, %d]", h, n, c, b.Min, b.Max)
			}
		}
	}

	if adjacency {
		sorted := append(model.Assignment(nil), a...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].Slot.Less(sorted[j].Slot.SlotKey) })
		for i := 1; i < len(sorted); i++ {
			if sorted[i].Dish.Category == sorted[i-1].Dish.Category {
				return fmt.Errorf("%s and %s both hold %s", sorted[i-1].Slot.SlotKey, sorted[i].Slot.SlotKey, sorted[i].Dish.Category)
			}
		}
	}
	return nil
}
