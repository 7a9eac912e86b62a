// Package config handles configuration of the development auth API,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings of the development auth API.
//
// An empty DatabaseDSN keeps users, cases and simulations in memory; an empty
// RedisAddr starts an embedded Redis. The admin account is seeded only when
// both AdminEmail and AdminPassword are set. CasesFile, when set, names a
// JSON or JSON lines dataset imported at startup.
type Config struct {
	ListenAddr     string
	DatabaseDSN    string
	RedisAddr      string
	JWTSecret      string
	AccessTokenTTL time.Duration
	ResetTokenTTL  time.Duration
	AdminEmail     string
	AdminPassword  string
	CasesFile      string
	LogLevel       string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the JWT secret must be overridden outside a developer machine.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":4000"
	c.DatabaseDSN = ""
	c.RedisAddr = ""
	c.JWTSecret = "medcasegen-dev-secret"
	c.AccessTokenTTL = 7 * 24 * time.Hour
	c.ResetTokenTTL = time.Hour
	c.AdminEmail = "admin@medcasegen.local"
	c.AdminPassword = ""
	c.CasesFile = ""
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file, then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
