package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/medcasegen/internal/flagx"
	"github.com/dmitrijs2005/medcasegen/internal/timex"
)

// JsonConfig mirrors Config for unmarshalling. Absent keys keep the values
// already present in Config.
type JsonConfig struct {
	ListenAddr            string          `json:"address"`
	APIBaseURL            string          `json:"api_base_url"`
	PublicURL             string          `json:"public_url"`
	RequestTimeout        *timex.Duration `json:"request_timeout"`
	Environment           string          `json:"environment"`
	RedirectAuthenticated *bool           `json:"redirect_authenticated"`
	SessionSecret         string          `json:"session_secret"`
	LogLevel              string          `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics on
// read or decode errors.
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

	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.PublicURL, jc.PublicURL)
	setString(&cfg.Environment, jc.Environment)
	setString(&cfg.SessionSecret, jc.SessionSecret)
	setString(&cfg.LogLevel, jc.LogLevel)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.RedirectAuthenticated != nil {
		cfg.RedirectAuthenticated = *jc.RedirectAuthenticated
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
