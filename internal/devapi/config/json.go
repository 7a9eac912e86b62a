package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/medcasegen/internal/flagx"
	"github.com/dmitrijs2005/medcasegen/internal/timex"
)

type JsonConfig struct {
	ListenAddr     string          `json:"address"`
	DatabaseDSN    string          `json:"database_dsn"`
	RedisAddr      string          `json:"redis_addr"`
	JWTSecret      string          `json:"jwt_secret"`
	AccessTokenTTL *timex.Duration `json:"access_token_ttl"`
	ResetTokenTTL  *timex.Duration `json:"reset_token_ttl"`
	AdminEmail     string          `json:"admin_email"`
	AdminPassword  string          `json:"admin_password"`
	CasesFile      string          `json:"cases_file"`
	LogLevel       string          `json:"log_level"`
}

func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	for dst, v := range map[*string]string{
		&cfg.ListenAddr:    jc.ListenAddr,
		&cfg.DatabaseDSN:   jc.DatabaseDSN,
		&cfg.RedisAddr:     jc.RedisAddr,
		&cfg.JWTSecret:     jc.JWTSecret,
		&cfg.AdminEmail:    jc.AdminEmail,
		&cfg.AdminPassword: jc.AdminPassword,
		&cfg.CasesFile:     jc.CasesFile,
		&cfg.LogLevel:      jc.LogLevel,
	} {
		if v != "" {
			*dst = v
		}
	}
	if jc.AccessTokenTTL != nil {
		cfg.AccessTokenTTL = jc.AccessTokenTTL.Duration
	}
	if jc.ResetTokenTTL != nil {
		cfg.ResetTokenTTL = jc.ResetTokenTTL.Duration
	}
}
