package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	fail     error

	calls []string
	args  []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.fail
}

func (f *fakeExec) isLoggedIn(ctx context.Context) bool { return f.loggedIn }
func (f *fakeExec) Register(ctx context.Context) error  { return f.record("register") }
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) AdminLogin(ctx context.Context) error {
	f.loggedIn = true
	return f.record("admin-login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) ForgotPassword(ctx context.Context) error { return f.record("forgot") }
func (f *fakeExec) ResetPassword(ctx context.Context, args []string) error {
	f.args = args
	return f.record("reset")
}
func (f *fakeExec) WhoAmI(ctx context.Context) error { return f.record("whoami") }
func (f *fakeExec) Status(ctx context.Context) error { return f.record("status") }
func (f *fakeExec) Cases(ctx context.Context) error  { return f.record("cases") }
func (f *fakeExec) Case(ctx context.Context, args []string) error {
	f.args = args
	return f.record("case")
}
func (f *fakeExec) Simulate(ctx context.Context, args []string) error {
	f.args = args
	return f.record("simulate")
}
func (f *fakeExec) Sessions(ctx context.Context) error { return f.record("sessions") }

// capturePrintln swaps printlnFn for the duration of the test.
func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.Join([]string{
		"help",
		"register",
		"login",
		"whoami",
		"",
		"status",
		"logout",
		"admin-login",
		"forgot",
		"reset abc123",
		"cases",
		"case c1",
		"sessions",
		"simulate c2",
		"exit",
		"login",
	}, "\n")

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader(input)))

	assert.Equal(t, []string{
		"register", "login", "whoami", "status", "logout",
		"admin-login", "forgot", "reset", "cases", "case", "sessions", "simulate",
	}, exec.calls)
	assert.Equal(t, []string{"c2"}, exec.args)
}

func TestRunREPL_HelpDependsOnSession(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("help\nlogin\nhelp\nquit\n")))

	var help []string
	for _, l := range *lines {
		if strings.HasPrefix(l, "Commandes disponibles") {
			help = append(help, l)
		}
	}
	require.Len(t, help, 2)
	assert.Contains(t, help[0], "register")
	assert.NotContains(t, help[1], "register")
	assert.Contains(t, help[1], "logout")
	assert.Contains(t, help[1], "simulate")
}

func TestRunREPL_ReportsErrorsAndContinues(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{fail: errors.New("Serveur indisponible.")}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("whoami\nstatus")))

	assert.Equal(t, []string{"whoami", "status"}, exec.calls)
	assert.Contains(t, *lines, "Erreur : Serveur indisponible.")
}

func TestRunREPL_UnknownCommandAndEOF(t *testing.T) {
	lines := capturePrintln(t)

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(déconnecté)" }, bufio.NewReader(strings.NewReader("foobar")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *lines, "Commande inconnue : foobar")
	assert.Contains(t, *lines, "mcg (déconnecté) >")
}
