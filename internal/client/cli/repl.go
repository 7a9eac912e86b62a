package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL drives. The real App satisfies
// it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	AdminLogin(ctx context.Context) error
	Logout(ctx context.Context) error
	ForgotPassword(ctx context.Context) error
	ResetPassword(ctx context.Context, args []string) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
	Cases(ctx context.Context) error
	Case(ctx context.Context, args []string) error
	Simulate(ctx context.Context, args []string) error
	Sessions(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// It returns on EOF or after "exit"/"quit".
//
//	Not logged in: help, register, login, admin-login, forgot, reset [token], status, exit
//	Logged in:     help, whoami, cases, case <id>, simulate <id>, sessions, logout, status, exit
//
// Command errors are reported and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("mcg %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Commandes disponibles : whoami, cases, case <id>, simulate <id>, sessions, logout, status, exit")
			} else {
				printlnFn("Commandes disponibles : register, login, admin-login, forgot, reset [jeton], status, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "admin-login":
			cmdErr = a.AdminLogin(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "forgot":
			cmdErr = a.ForgotPassword(ctx)

		case "reset":
			cmdErr = a.ResetPassword(ctx, args)

		case "whoami":
			cmdErr = a.WhoAmI(ctx)

		case "status":
			cmdErr = a.Status(ctx)

		case "cases":
			cmdErr = a.Cases(ctx)

		case "case":
			cmdErr = a.Case(ctx, args)

		case "simulate":
			cmdErr = a.Simulate(ctx, args)

		case "sessions":
			cmdErr = a.Sessions(ctx)

		case "exit", "quit":
			printlnFn("Au revoir !")
			return

		default:
			printlnFn("Commande inconnue :", cmd)
		}

		if cmdErr != nil {
			printlnFn("Erreur :", cmdErr)
		}
	}
}
