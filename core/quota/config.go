package quota

import (
	"fmt"

	"github.com/kilianp07/menucycle/core/model"
)

// Config selects the quota policy. Only one policy is active at a time.
type Config struct {
	Policy string            `json:"policy"`
	Fixed  map[string]Bounds `json:"fixed"`
}

// SetDefaults selects the derived policy when none is configured.
func (c *Config) SetDefaults() {
	if c.Policy == "" {
		c.Policy = PolicyDerived
	}
}

// Validate checks the policy name and the fixed table.
func (c Config) Validate() error {
	switch c.Policy {
	case PolicyDerived:
		return nil
	case PolicyFixed:
		if len(c.Fixed) == 0 {
			return fmt.Errorf("quota policy %q requires a table", PolicyFixed)
		}
		for name, b := range c.Fixed {
			if b.Min < 0 || b.Min > b.Max {
				return fmt.Errorf("invalid bounds for %s: [%d, %d]", name, b.Min, b.Max)
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown quota policy %q", c.Policy)
	}
}

// New returns the Policy described by cfg.
func New(cfg Config) (Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Policy == PolicyFixed {
		t := make(Table, len(cfg.Fixed))
		for name, b := range cfg.Fixed {
			t[model.Category(name)] = b
		}
		return Fixed{Table: t}, nil
	}
	return Derived{}, nil
}
