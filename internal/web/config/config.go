package config

import "time"

type Config struct {
	ListenAddr            string
	APIBaseURL            string
	PublicURL             string
	RequestTimeout        time.Duration
	Environment           string
	RedirectAuthenticated bool
	SessionSecret         string
	LogLevel              string
}

func (c *Config) LoadDefaults() {
	c.ListenAddr = ":3000"
	c.APIBaseURL = "http://localhost:4000/api"
	c.PublicURL = "http://localhost:3000"
	c.RequestTimeout = 10 * time.Second
	c.Environment = "development"
	c.RedirectAuthenticated = false
	c.SessionSecret = ""
	c.LogLevel = "info"
}

// IsDevelopment reports whether the frontend runs on a developer machine.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// LoadConfig applies defaults, then the JSON file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
