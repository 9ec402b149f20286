package config

import "time"

// Config holds runtime settings for the El Embauco CLI.
//
// Fields:
//   - ServerURL: base address of the backend API, e.g. http://127.0.0.1:8001.
//   - DatabasePath: SQLite file holding the persisted session.
//   - RequestTimeout: upper bound for a single backend call.
//   - ValidatePath: endpoint used to validate a resumed session at startup.
//   - LogLevel: debug, info, warn or error.
//   - Ephemeral: keep the session in memory only (nothing survives exit).
type Config struct {
	ServerURL      string
	DatabasePath   string
	RequestTimeout time.Duration
	ValidatePath   string
	LogLevel       string
	Ephemeral      bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8001"
	c.DatabasePath = "embauco.db"
	c.RequestTimeout = 15 * time.Second
	c.ValidatePath = "/api/dashboard/stats"
	c.LogLevel = "info"
	c.Ephemeral = false
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment (.env included), a JSON file and command-line flags. Later
// sources take precedence over earlier ones.
func LoadConfig(args []string) *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseJson(cfg, args)
	parseFlags(cfg, args)
	return cfg
}
