// Package config handles configuration for the CLI client: defaults, JSON
// overlay, and command-line flags, applied in that order.
package config

// Config holds runtime settings for the healthlog CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend REST API.
//   - StoragePath: path to the local SQLite keystore file.
type Config struct {
	ServerBaseURL string
	StoragePath   string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:8080"
	c.StoragePath = "healthlog.db"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
