package config

import "fmt"

// HTTPConfig defines the API listener.
type HTTPConfig struct {
	Address string `json:"address"`
	// AllowedOrigin is sent back in Access-Control-Allow-Origin. "*" allows
	// every origin, empty disables CORS.
	AllowedOrigin   string `json:"allowed_origin"`
	ShutdownSeconds int    `json:"shutdown_seconds"`
}

// SetDefaults applies sane defaults.
func (c *HTTPConfig) SetDefaults() {
	if c.Address == "" {
		c.Address = ":5001"
	}
	if c.AllowedOrigin == "" {
		c.AllowedOrigin = "http://localhost:8000"
	}
	if c.ShutdownSeconds <= 0 {
		c.ShutdownSeconds = 5
	}
}

// Validate checks mandatory fields.
func (c HTTPConfig) Validate() error {
	if c.Address == "" {
		return fmt.Errorf("address is required")
	}
	return nil
}
