package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string, args []string) {
	f.calls = append(f.calls, name)
	f.args = append(f.args, args)
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }

func (f *fakeExec) Register(ctx context.Context) error {
	f.record("register", nil)
	return nil
}

func (f *fakeExec) Login(ctx context.Context) error {
	f.record("login", nil)
	f.loggedIn = true
	return nil
}

func (f *fakeExec) Logout(ctx context.Context) error {
	f.record("logout", nil)
	f.loggedIn = false
	return nil
}

func (f *fakeExec) Scan(ctx context.Context, args []string) error {
	f.record("scan", args)
	return nil
}

func (f *fakeExec) List(ctx context.Context) error {
	f.record("list", nil)
	return nil
}

func (f *fakeExec) Filter(ctx context.Context, args []string) error {
	f.record("filter", args)
	return nil
}

func (f *fakeExec) Page(ctx context.Context, args []string) error {
	f.record("page", args)
	return nil
}

func (f *fakeExec) Show(ctx context.Context, args []string) error {
	f.record("show", args)
	return nil
}

func (f *fakeExec) Export(ctx context.Context, args []string) error {
	f.record("export", args)
	return nil
}

func runScript(t *testing.T, f *fakeExec, lines ...string) {
	t.Helper()

	origPrint := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = origPrint })

	input := strings.NewReader(strings.Join(lines, "\n") + "\n")
	runREPL(context.Background(), f, func() string { return "test" }, bufio.NewScanner(input))
}

func TestRunREPLDispatchesCommands(t *testing.T) {
	f := &fakeExec{}

	runScript(t, f,
		"help",
		"login",
		"scan receipt.png Groceries",
		"list",
		"l",
		"filter Dining",
		"page next",
		"show r-1",
		"export out.txt",
		"logout",
		"exit",
	)

	assert.Equal(t, []string{"login", "scan", "list", "list", "filter", "page", "show", "export", "logout"}, f.calls)
	assert.Equal(t, []string{"receipt.png", "Groceries"}, f.args[1])
	assert.Equal(t, []string{"Dining"}, f.args[4])
	assert.Equal(t, []string{"next"}, f.args[5])
}

func TestRunREPLUnknownAndBlankLines(t *testing.T) {
	f := &fakeExec{}

	runScript(t, f,
		"",
		"   ",
		"bogus",
		"register",
		"quit",
	)

	assert.Equal(t, []string{"register"}, f.calls)
}

func TestRunREPLExitsOnEOF(t *testing.T) {
	f := &fakeExec{}
	runScript(t, f, "list")
	assert.Equal(t, []string{"list"}, f.calls)
}
