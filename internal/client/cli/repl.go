package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

var errNotLoggedIn = errors.New("not logged in")

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Profile(ctx context.Context) error
	TwoFactor(ctx context.Context, args []string) error
	DeleteAccount(ctx context.Context) error
	Categories(ctx context.Context) error
	AddCategory(ctx context.Context) error
	EditCategory(ctx context.Context, args []string) error
	DeleteCategory(ctx context.Context, args []string) error
	Wallets(ctx context.Context) error
	AddWallet(ctx context.Context) error
	Income(ctx context.Context) error
	Expense(ctx context.Context) error
	Movements(ctx context.Context, args []string) error
	DeleteMovement(ctx context.Context, args []string) error
	Summary(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: whoami, profile, twofactor on|off, categories, addcategory, editcategory <id>, " +
		"delcategory <id>, wallets, addwallet, income, expense, movements [filters], delmovement <id>, " +
		"summary [filters], logout, deleteaccount, help, exit\n" +
		"Filters: from=YYYY-MM-DD to=YYYY-MM-DD kind=income|expense wallet=<id|name> category=<id|name> text=<substring>"
)

// runREPL starts a simple read-eval-print loop for the finkeeper CLI.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to methods on a with the remaining tokens as arguments. The loop
// exits on EOF or when the user types "exit" or "quit".
//
// Commands other than help, register, login and exit require a session.
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fk %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		eof := err != nil

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if eof {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
		case "register":
			report(a.Register(ctx))
		case "login":
			report(a.Login(ctx))
		default:
			if !isKnown(cmd) {
				printlnFn("Unknown command:", cmd)
				break
			}
			if !a.isLoggedIn(ctx) {
				printlnFn("Please log in first")
				break
			}
			report(dispatch(ctx, a, cmd, args))
		}

		if eof {
			return
		}
	}
}

var sessionCommands = []string{
	"logout", "whoami", "profile", "twofactor", "deleteaccount",
	"categories", "addcategory", "editcategory", "delcategory",
	"wallets", "addwallet", "income", "expense",
	"movements", "delmovement", "summary",
}

func isKnown(cmd string) bool {
	for _, c := range sessionCommands {
		if c == cmd {
			return true
		}
	}
	return false
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "logout":
		return a.Logout(ctx)
	case "whoami":
		return a.WhoAmI(ctx)
	case "profile":
		return a.Profile(ctx)
	case "twofactor":
		return a.TwoFactor(ctx, args)
	case "deleteaccount":
		return a.DeleteAccount(ctx)
	case "categories":
		return a.Categories(ctx)
	case "addcategory":
		return a.AddCategory(ctx)
	case "editcategory":
		return a.EditCategory(ctx, args)
	case "delcategory":
		return a.DeleteCategory(ctx, args)
	case "wallets":
		return a.Wallets(ctx)
	case "addwallet":
		return a.AddWallet(ctx)
	case "income":
		return a.Income(ctx)
	case "expense":
		return a.Expense(ctx)
	case "movements":
		return a.Movements(ctx, args)
	case "delmovement":
		return a.DeleteMovement(ctx, args)
	case "summary":
		return a.Summary(ctx, args)
	}
	return fmt.Errorf("unknown command %q", cmd)
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
