// Package config loads runtime configuration for the MedCaseGen web frontend.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string     listen address (":3000")
//	-api string   base URL of the auth API ("http://localhost:4000/api")
//	-public string public URL of this site, used in password reset links
//	-t duration   timeout of outbound API calls ("10s")
//	-e string     environment; "development" disables the Secure cookie flag
//	-r            redirect authenticated visitors away from /login and /register
//	-s string     secret for the flash-message cookie
//	-l string     log level (debug, info, warn, error)
//
// # JSON schema
//
//	{
//	  "address": ":3000",
//	  "api_base_url": "http://localhost:4000/api",
//	  "public_url": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "environment": "production",
//	  "redirect_authenticated": false,
//	  "session_secret": "change-me",
//	  "log_level": "info"
//	}
package config
