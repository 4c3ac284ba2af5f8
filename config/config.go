package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/menucycle/core/calendar"
	"github.com/kilianp07/menucycle/core/catalogue"
	"github.com/kilianp07/menucycle/core/metrics"
	"github.com/kilianp07/menucycle/core/quota"
	"github.com/kilianp07/menucycle/core/solver"
	"github.com/kilianp07/menucycle/infra/mqtt"
)

type Config struct {
	HTTP      HTTPConfig       `json:"http"`
	Catalogue catalogue.Config `json:"catalogue"`
	Quota     quota.Config     `json:"quota"`
	Calendar  calendar.Config  `json:"calendar"`
	Solver    solver.Options   `json:"solver"`
	Metrics   metrics.Config   `json:"metrics"`
	MQTT      mqtt.Config      `json:"mqtt"`
	Log       LogConfig        `json:"log"`
}

// Load reads the configuration file at path, applies K_ prefixed
// environment overrides (K_HTTP__ADDRESS sets http.address), then defaults.
// An empty path skips the file.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, fmt.Errorf("unsupported config format: %s", ext)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, err
		}
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults applies the defaults of every section.
func (c *Config) SetDefaults() {
	c.HTTP.SetDefaults()
	if c.Catalogue.Type == "" {
		c.Catalogue.Type = "csv"
	}
	if c.Catalogue.Type == "csv" && c.Catalogue.Conf == nil {
		c.Catalogue.Conf = map[string]any{"path": "dish_list.csv"}
	}
	c.Quota.SetDefaults()
	c.Calendar.SetDefaults()
	c.Solver.SetDefaults()
	c.MQTT.SetDefaults()
	c.Log.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http: %w", err)
	}
	if err := c.Quota.Validate(); err != nil {
		return fmt.Errorf("quota: %w", err)
	}
	if _, err := c.Calendar.Grid(); err != nil {
		return fmt.Errorf("calendar: %w", err)
	}
	if c.Solver.MaxNodes < 0 {
		return fmt.Errorf("solver: max_nodes must not be negative")
	}
	if err := c.MQTT.Validate(); err != nil {
		return err
	}
	return c.Log.Validate()
}
