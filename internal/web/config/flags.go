package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/medcasegen/internal/flagx"
)

// parseFlags overlays cfg with command-line flags. It panics on malformed
// values.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-api", "-public", "-t", "-e", "-r", "-s", "-l"})

	fs := flag.NewFlagSet("web", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "listen address")
	fs.StringVar(&cfg.APIBaseURL, "api", cfg.APIBaseURL, "base URL of the auth API")
	fs.StringVar(&cfg.PublicURL, "public", cfg.PublicURL, "public URL of this site")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "timeout of outbound API calls")
	fs.StringVar(&cfg.Environment, "e", cfg.Environment, "environment (development, production)")
	fs.BoolVar(&cfg.RedirectAuthenticated, "r", cfg.RedirectAuthenticated, "redirect authenticated visitors away from login and register")
	fs.StringVar(&cfg.SessionSecret, "s", cfg.SessionSecret, "secret for the flash-message cookie")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
