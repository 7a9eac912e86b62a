package config

import "time"

// Config holds runtime settings of the MedCaseGen CLI.
//
// Fields:
//   - APIBaseURL: root of the auth API, e.g. "http://localhost:4000/api".
//   - RequestTimeout: bound of every API call.
//   - DatabasePath: SQLite file keeping the session token between runs.
type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	DatabasePath   string
	LogLevel       string
}

func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:4000/api"
	c.RequestTimeout = 10 * time.Second
	c.DatabasePath = "medcasegen.db"
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the JSON file, then flags. Later
// sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
