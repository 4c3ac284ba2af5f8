// Package catalogue implements the catalogue sources: csv files, sqlite
// tables and inline lists.
package catalogue

import (
	"fmt"

	corecat "github.com/kilianp07/menucycle/core/catalogue"
	"github.com/kilianp07/menucycle/core/factory"
	"github.com/kilianp07/menucycle/core/model"
)

// init registers built-in catalogue sources.
func init() {
	_ = corecat.RegisterSource("csv", func(conf map[string]any) (corecat.Provider, error) {
		var c struct {
			Path string `json:"path"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("csv catalogue requires a path")
		}
		return NewCSVSource(c.Path), nil
	})

	_ = corecat.RegisterSource("sqlite", func(conf map[string]any) (corecat.Provider, error) {
		var c struct {
			Path  string `json:"path"`
			Table string `json:"table"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		if c.Path == "" {
			return nil, fmt.Errorf("sqlite catalogue requires a path")
		}
		return NewSQLiteSource(c.Path, c.Table)
	})

	_ = corecat.RegisterSource("static", func(conf map[string]any) (corecat.Provider, error) {
		var c struct {
			Dishes []model.Dish `json:"dishes"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return StaticSource{Dishes: c.Dishes}, nil
	})
}
