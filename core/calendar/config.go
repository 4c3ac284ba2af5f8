package calendar

import (
	"fmt"

	"github.com/kilianp07/menucycle/core/model"
)

// RuleConfig is the configuration form of a Rule.
type RuleConfig struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// PinConfig is the configuration form of a PinRule.
type PinConfig struct {
	Day      string `json:"day"`
	Time     string `json:"time"`
	Category string `json:"category"`
}

// Config defines the calendar settings.
type Config struct {
	Halves   int          `json:"halves"`
	Excluded []RuleConfig `json:"excluded"`
	Pins     []PinConfig  `json:"pins"`
}

// SetDefaults fills missing settings with the default grid.
func (c *Config) SetDefaults() {
	if c.Halves == 0 {
		c.Halves = 2
	}
	if c.Excluded == nil {
		c.Excluded = []RuleConfig{{Day: "Saturday", Time: "Lunch"}}
	}
	if c.Pins == nil {
		c.Pins = []PinConfig{{Day: "Saturday", Time: "Dinner", Category: "egg"}}
	}
}

// Grid parses the configuration into a Grid.
func (c Config) Grid() (Grid, error) {
	g := Grid{Halves: c.Halves, Days: model.Days, Times: model.MealTimes}
	for _, r := range c.Excluded {
		rule, err := parseRule(r.Day, r.Time)
		if err != nil {
			return Grid{}, fmt.Errorf("excluded: %w", err)
		}
		g.Excluded = append(g.Excluded, rule)
	}
	for _, p := range c.Pins {
		rule, err := parseRule(p.Day, p.Time)
		if err != nil {
			return Grid{}, fmt.Errorf("pins: %w", err)
		}
		g.Pins = append(g.Pins, PinRule{Rule: rule, Category: model.Category(p.Category)})
	}
	if err := g.Validate(); err != nil {
		return Grid{}, err
	}
	return g, nil
}

func parseRule(day, t string) (Rule, error) {
	d, err := model.ParseDay(day)
	if err != nil {
		return Rule{}, err
	}
	mt, err := model.ParseMealTime(t)
	if err != nil {
		return Rule{}, err
	}
	return Rule{Day: d, Time: mt}, nil
}
