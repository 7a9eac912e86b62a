package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/medcasegen/internal/flagx"
)

// parseFlags overlays cfg with command-line flags:
//
//	-api string   base URL of the auth API
//	-t duration   API call timeout
//	-db string    path of the local SQLite database
//	-l string     log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-api", "-t", "-db", "-l"})

	fs := flag.NewFlagSet("cli", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "base URL of the auth API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "API call timeout")
	fs.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "path of the local database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
