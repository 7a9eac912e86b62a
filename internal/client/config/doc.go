// Package config loads runtime configuration for the MedCaseGen CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "api_base_url": "http://localhost:4000/api",
//	  "request_timeout": "10s",
//	  "database_path": "medcasegen.db",
//	  "log_level": "warn"
//	}
package config
