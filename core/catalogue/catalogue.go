// Package catalogue defines where dishes come from.
//
// A Provider returns the ordered list of dishes of the menu. Concrete
// sources (csv file, sqlite table, inline list) live in infra/catalogue and
// register themselves by type name so they can be selected in
// configuration.
package catalogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/kilianp07/menucycle/core/factory"
	"github.com/kilianp07/menucycle/core/model"
)

// Provider loads the dish catalogue.
type Provider interface {
	Load(ctx context.Context) ([]model.Dish, error)
}

// Config selects and configures the catalogue source.
type Config = factory.ModuleConfig

var registry = factory.NewRegistry[Provider]()

// RegisterSource adds a catalogue source factory identified by name.
func RegisterSource(name string, f factory.Factory[Provider]) error {
	return registry.Register(name, f)
}

// NewProvider creates the Provider described by cfg.
func NewProvider(cfg Config) (Provider, error) {
	return registry.Create(cfg)
}

// Sources lists the registered source types.
func Sources() []string { return registry.Names() }

// Validate rejects malformed catalogues: empty names or categories and
// duplicate names. Surrounding whitespace is trimmed in place.
func Validate(dishes []model.Dish) error {
	seen := make(map[string]int, len(dishes))
	for i := range dishes {
		d := &dishes[i]
		d.Name = strings.TrimSpace(d.Name)
		d.Category = model.Category(strings.TrimSpace(string(d.Category)))
		if d.Name == "" {
			return fmt.Errorf("dish %d has no name", i+1)
		}
		if d.Category == "" {
			return fmt.Errorf("dish %q has no category", d.Name)
		}
		if j, dup := seen[d.Name]; dup {
			return fmt.Errorf("dish %q listed twice (entries %d and %d)", d.Name, j+1, i+1)
		}
		seen[d.Name] = i
	}
	return nil
}
