package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	err      error

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) error {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
	return f.err
}

func (f *fakeExec) isLoggedIn(context.Context) bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error  { return f.record("register", nil) }
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login", nil)
}
func (f *fakeExec) Logout(context.Context) error        { return f.record("logout", nil) }
func (f *fakeExec) WhoAmI(context.Context) error        { return f.record("whoami", nil) }
func (f *fakeExec) Profile(context.Context) error       { return f.record("profile", nil) }
func (f *fakeExec) DeleteAccount(context.Context) error { return f.record("deleteaccount", nil) }
func (f *fakeExec) TwoFactor(_ context.Context, args []string) error {
	return f.record("twofactor", args)
}
func (f *fakeExec) Categories(context.Context) error  { return f.record("categories", nil) }
func (f *fakeExec) AddCategory(context.Context) error { return f.record("addcategory", nil) }
func (f *fakeExec) EditCategory(_ context.Context, args []string) error {
	return f.record("editcategory", args)
}
func (f *fakeExec) DeleteCategory(_ context.Context, args []string) error {
	return f.record("delcategory", args)
}
func (f *fakeExec) Wallets(context.Context) error   { return f.record("wallets", nil) }
func (f *fakeExec) AddWallet(context.Context) error { return f.record("addwallet", nil) }
func (f *fakeExec) Income(context.Context) error    { return f.record("income", nil) }
func (f *fakeExec) Expense(context.Context) error   { return f.record("expense", nil) }
func (f *fakeExec) Movements(_ context.Context, args []string) error {
	return f.record("movements", args)
}
func (f *fakeExec) DeleteMovement(_ context.Context, args []string) error {
	return f.record("delmovement", args)
}
func (f *fakeExec) Summary(_ context.Context, args []string) error {
	return f.record("summary", args)
}

// capturePrint swaps printlnFn for a buffer-backed stub.
func capturePrint(t *testing.T) *strings.Builder {
	t.Helper()
	var sb strings.Builder
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) { return fmt.Fprintln(&sb, a...) }
	t.Cleanup(func() { printlnFn = orig })
	return &sb
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	out := capturePrint(t)

	input := rdr(strings.Join([]string{
		"help",
		"whoami",
		"login",
		"help",
		"",
		"categories",
		"editcategory 17-3",
		"movements from=2026-03-01 kind=expense",
		"summary",
		"foobar",
		"logout",
		"exit",
		"wallets",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "(Ana)" }, input)

	require.Equal(t, []string{"login", "categories", "editcategory", "movements", "summary", "logout"}, exec.calls)
	require.Equal(t, []string{"17-3"}, exec.args[2])
	require.Equal(t, []string{"from=2026-03-01", "kind=expense"}, exec.args[3])

	s := out.String()
	require.Contains(t, s, "fk (Ana)> ")
	require.Contains(t, s, helpLoggedOut)
	require.Contains(t, s, helpLoggedIn)
	require.Contains(t, s, "Please log in first")
	require.Contains(t, s, "Unknown command: foobar")
	require.Contains(t, s, "Bye!")
}

func TestRunREPL_ReportsErrorsAndStopsAtEOF(t *testing.T) {
	out := capturePrint(t)

	exec := &fakeExec{loggedIn: true, err: errors.New("wallet not found")}
	runREPL(context.Background(), exec, func() string { return "" }, rdr("wallets\nincome"))

	require.Equal(t, []string{"wallets", "income"}, exec.calls)
	require.Contains(t, out.String(), "Error: wallet not found")
	require.NotContains(t, out.String(), "Bye!")
}

func TestRunREPL_EveryCommandIsDispatched(t *testing.T) {
	capturePrint(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "" }, rdr(strings.Join(sessionCommands, "\n")+"\n"))

	require.Equal(t, sessionCommands, exec.calls)
}
