package model

import (
	"fmt"
	"strings"
)

// Half identifies one of the two weeks of the cycle. Valid values are 1 and 2.
type Half int

// Day is a day of the week, Monday first.
type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Days lists the week in calendar order.
var Days = []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// String returns the English name of the day.
func (d Day) String() string {
	switch d {
	case Monday:
		return "Monday"
	case Tuesday:
		return "Tuesday"
	case Wednesday:
		return "Wednesday"
	case Thursday:
		return "Thursday"
	case Friday:
		return "Friday"
	case Saturday:
		return "Saturday"
	case Sunday:
		return "Sunday"
	default:
		return "unknown"
	}
}

// ParseDay converts a day name (case-insensitive) to a Day.
func ParseDay(s string) (Day, error) {
	for _, d := range Days {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown day %q", s)
}

// MealTime is the meal of the day. Lunch is the primary meal, Dinner the
// secondary one.
type MealTime int

const (
	Lunch MealTime = iota
	Dinner
)

// MealTimes lists the meals of a day in order.
var MealTimes = []MealTime{Lunch, Dinner}

func (t MealTime) String() string {
	switch t {
	case Lunch:
		return "Lunch"
	case Dinner:
		return "Dinner"
	default:
		return "unknown"
	}
}

// ParseMealTime converts a meal name (case-insensitive) to a MealTime.
func ParseMealTime(s string) (MealTime, error) {
	for _, t := range MealTimes {
		if strings.EqualFold(strings.TrimSpace(s), t.String()) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown meal time %q", s)
}

// SlotKey is the identity of a meal slot.
type SlotKey struct {
	Half Half
	Day  Day
	Time MealTime
}

// Less orders keys by half, then day, then meal time.
func (k SlotKey) Less(o SlotKey) bool {
	if k.Half != o.Half {
		return k.Half < o.Half
	}
	if k.Day != o.Day {
		return k.Day < o.Day
	}
	return k.Time < o.Time
}

func (k SlotKey) String() string {
	return fmt.Sprintf("week %d %s %s", k.Half, k.Day, k.Time)
}

// Slot is a position of the cycle to be filled by exactly one dish.
// Pin, when set, is the category the dish must belong to.
type Slot struct {
	SlotKey
	Pin Category
}

// Pinned reports whether the slot requires a specific category.
func (s Slot) Pinned() bool { return s.Pin != "" }
