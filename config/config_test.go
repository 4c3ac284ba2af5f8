package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/menucycle/core/quota"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `http:
  address: ":8080"
  allowed_origin: "*"
catalogue:
  type: sqlite
  conf:
    path: "dishes.db"
    table: "menu_dishes"
quota:
  policy: fixed
  fixed:
    egg: {min: 1, max: 2}
    fish: {min: 1, max: 1}
calendar:
  excluded:
    - {day: Saturday, time: Lunch}
    - {day: Sunday, time: Dinner}
  pins:
    - {day: Friday, time: Dinner, category: fish}
solver:
  adjacency: true
  max_nodes: 5000
  seed: 7
metrics:
  sinks:
    - type: "nop"
  prometheus_port: ":9090"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic: "home/menu"
  qos: 1
  retain: false
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	grid, err := cfg.Calendar.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"http.address", cfg.HTTP.Address, ":8080"},
		{"http.allowed_origin", cfg.HTTP.AllowedOrigin, "*"},
		{"catalogue.type", cfg.Catalogue.Type, "sqlite"},
		{"catalogue.conf.table", cfg.Catalogue.Conf["table"], "menu_dishes"},
		{"quota.policy", cfg.Quota.Policy, quota.PolicyFixed},
		{"quota.fixed.egg", cfg.Quota.Fixed["egg"], quota.Bounds{Min: 1, Max: 2}},
		{"calendar.halves", cfg.Calendar.Halves, 2},
		{"calendar.slots", len(grid.Build()), 24},
		{"solver.adjacency", cfg.Solver.Adjacency, true},
		{"solver.max_nodes", cfg.Solver.MaxNodes, 5000},
		{"solver.seed", cfg.Solver.Seed, uint64(7)},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"metrics.prometheus_port", cfg.Metrics.PrometheusPort, ":9090"},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.retain", cfg.MQTT.Retain != nil && !*cfg.MQTT.Retain, true},
		{"log.level", cfg.Log.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.HTTP.Address != ":5001" || cfg.HTTP.AllowedOrigin != "http://localhost:8000" {
		t.Errorf("http defaults not applied: %+v", cfg.HTTP)
	}
	if cfg.Catalogue.Type != "csv" || cfg.Catalogue.Conf["path"] != "dish_list.csv" {
		t.Errorf("catalogue defaults not applied: %+v", cfg.Catalogue)
	}
	if cfg.Quota.Policy != quota.PolicyDerived {
		t.Errorf("expected derived policy, got %s", cfg.Quota.Policy)
	}
	grid, err := cfg.Calendar.Grid()
	if err != nil {
		t.Fatalf("grid: %v", err)
	}
	if n := len(grid.Build()); n != 26 {
		t.Errorf("expected 26 slots, got %d", n)
	}
	if cfg.Solver.Adjacency {
		t.Errorf("adjacency must be off by default")
	}
	if cfg.MQTT.Enabled {
		t.Errorf("mqtt must be off by default")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("K_HTTP__ADDRESS", ":7000")
	t.Setenv("K_SOLVER__MAX_NODES", "42")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.HTTP.Address != ":7000" {
		t.Errorf("env override not applied: %s", cfg.HTTP.Address)
	}
	if cfg.Solver.MaxNodes != 42 {
		t.Errorf("env override not applied: %d", cfg.Solver.MaxNodes)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := "http:\n  address: \":8080\"\nmqtt:\n  enabled: true\n  broker: \"tcp://file:1883\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("K_HTTP__ADDRESS", ":9000")
	t.Setenv("K_MQTT__BROKER", "tcp://env:1883")
	t.Setenv("K_SOLVER__ADJACENCY", "true")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.HTTP.Address != ":9000" {
		t.Errorf("address: %s", cfg.HTTP.Address)
	}
	if cfg.MQTT.Broker != "tcp://env:1883" || !cfg.MQTT.Enabled {
		t.Errorf("mqtt: %+v", cfg.MQTT)
	}
	if !cfg.Solver.Adjacency {
		t.Error("adjacency override not applied")
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"policy.yaml": "quota:\n  policy: random\n",
		"fixed.yaml":  "quota:\n  policy: fixed\n",
		"pin.yaml":    "calendar:\n  pins:\n    - {day: Saturday, time: Lunch, category: egg}\n",
		"mqtt.yaml":   "mqtt:\n  enabled: true\n",
		"level.yaml":  "log:\n  level: loud\n",
		"format.toml": "",
	}
	for name, data := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
