// Package schedule turns solver assignments into the nested menu served to
// clients and holds the current schedule of the service.
package schedule

import (
	"fmt"
	"sort"

	"github.com/kilianp07/menucycle/core/model"
)

// Menu is the nested half -> day -> meal time -> dish name view of an
// assignment. Its JSON form is {"1": {"Monday": {"Lunch": "..."}}}.
type Menu map[int]map[string]map[string]string

// Entry is one flattened menu line.
type Entry struct {
	Slot model.SlotKey
	Dish string
}

// Format builds the menu of an assignment.
func Format(a model.Assignment) Menu {
	m := make(Menu)
	for _, p := range a {
		half := int(p.Slot.Half)
		days, ok := m[half]
		if !ok {
			days = make(map[string]map[string]string)
			m[half] = days
		}
		day := p.Slot.Day.String()
		times, ok := days[day]
		if !ok {
			times = make(map[string]string)
			days[day] = times
		}
		times[p.Slot.Time.String()] = p.Dish.Name
	}
	return m
}

// Lookup returns the dish name served at key.
func (m Menu) Lookup(key model.SlotKey) (string, bool) {
	name, ok := m[int(key.Half)][key.Day.String()][key.Time.String()]
	return name, ok
}

// Len returns the number of filled slots.
func (m Menu) Len() int {
	n := 0
	for _, days := range m {
		for _, times := range days {
			n += len(times)
		}
	}
	return n
}

// Entries flattens the menu back into slot order. Unknown day or meal time
// names are reported as errors.
func (m Menu) Entries() ([]Entry, error) {
	var out []Entry
	for half, days := range m {
		for dayName, times := range days {
			day, err := model.ParseDay(dayName)
			if err != nil {
				return nil, fmt.Errorf("half %d: %w", half, err)
			}
			for timeName, dish := range times {
				t, err := model.ParseMealTime(timeName)
				if err != nil {
					return nil, fmt.Errorf("half %d %s: %w", half, dayName, err)
				}
				out = append(out, Entry{
					Slot: model.SlotKey{Half: model.Half(half), Day: day, Time: t},
					Dish: dish,
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Slot.Less(out[j].Slot) })
	return out, nil
}
