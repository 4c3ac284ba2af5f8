package catalogue

import (
	"context"

	corecat "github.com/kilianp07/menucycle/core/catalogue"
	"github.com/kilianp07/menucycle/core/model"
)

// StaticSource serves a catalogue held in memory.
type StaticSource struct {
	Dishes []model.Dish
}

// Load implements catalogue.Provider. It returns a copy.
func (s StaticSource) Load(context.Context) ([]model.Dish, error) {
	out := append([]model.Dish(nil), s.Dishes...)
	if err := corecat.Validate(out); err != nil {
		return nil, err
	}
	return out, nil
}
