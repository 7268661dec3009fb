package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Scan(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Filter(ctx context.Context, args []string) error
	Page(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
}

// runREPL starts a simple read-eval-print loop for the receiptscan CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Not logged in:
//	  - help           - show available commands
//	  - register       - create an account
//	  - login          - authenticate
//	  - exit | quit    - leave the program
//
//	Logged in:
//	  - scan <path> [category]  - upload a receipt image for extraction
//	  - list | l                - list receipts
//	  - filter <category|all>   - filter the listing by category
//	  - page <n|next|prev>      - change the listing page
//	  - show <id>               - show one receipt
//	  - export [path]           - write the extracted text out
//	  - logout, exit | quit
//
// Any errors returned by command handlers are ignored here; handlers report
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rscan> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: scan <path> [category], (l)ist, filter <category|all>, page <n|next|prev>, show <id>, export [path], logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "scan":
			_ = a.Scan(ctx, args)

		case "l", "list":
			_ = a.List(ctx)

		case "filter":
			_ = a.Filter(ctx, args)

		case "page":
			_ = a.Page(ctx, args)

		case "show":
			_ = a.Show(ctx, args)

		case "export":
			_ = a.Export(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
