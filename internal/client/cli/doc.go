// Package cli provides the interactive MedCaseGen command-line client.
//
// It wires configuration, a SQLite-backed token store, the auth API client
// and a REPL. The session token survives restarts; a 401 from the API drops
// it, after which the user logs in again.
//
// Commands: register, login, admin-login, logout, forgot, reset, whoami,
// status, help, exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
