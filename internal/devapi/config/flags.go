package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/medcasegen/internal/flagx"
)

func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-s", "-at", "-rt", "-ae", "-ap", "-cf", "-l"})

	fs := flag.NewFlagSet("devapi", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "listen address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "PostgreSQL DSN (empty keeps users in memory)")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address (empty starts an embedded one)")
	fs.StringVar(&cfg.JWTSecret, "s", cfg.JWTSecret, "HS256 secret for access tokens")
	fs.DurationVar(&cfg.AccessTokenTTL, "at", cfg.AccessTokenTTL, "access token lifetime")
	fs.DurationVar(&cfg.ResetTokenTTL, "rt", cfg.ResetTokenTTL, "password reset token lifetime")
	fs.StringVar(&cfg.AdminEmail, "ae", cfg.AdminEmail, "email of the seeded administrator")
	fs.StringVar(&cfg.AdminPassword, "ap", cfg.AdminPassword, "password of the seeded administrator")
	fs.StringVar(&cfg.CasesFile, "cf", cfg.CasesFile, "dataset of clinical cases imported at startup")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
