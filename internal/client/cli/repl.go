package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	List(ctx context.Context, args []string) error
	Search(ctx context.Context, args []string) error
	Category(ctx context.Context, args []string) error
	Suggest(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
	Mine(ctx context.Context) error
	Add(ctx context.Context) error
	Delete(ctx context.Context, args []string) error
	Rate(ctx context.Context, args []string) error
	Comment(ctx context.Context, args []string) error
	Uncomment(ctx context.Context, args []string) error
	Fav(ctx context.Context, args []string) error
	Favs(ctx context.Context) error
	Profile(ctx context.Context, args []string) error
	External(ctx context.Context, args []string) error
}

const (
	guestHelp = "Available commands: register, login, list [page], search <terms>, category <name> [page], " +
		"suggest <term>, show <id>, profile <userId>, external <term>, exit"
	userHelp = "Available commands: list [page], search <terms>, category <name> [page], suggest <term>, show <id>, " +
		"mine, add, delete <id>, rate <id> <1-5>, comment <id>, uncomment <id> <commentId>, fav <id>, favs, " +
		"profile <userId>, external <term>, whoami, logout, exit"
)

// runREPL reads commands line by line and dispatches them to a. Errors of
// command handlers are printed and the loop continues. The loop exits on EOF
// or when the user types "exit" or "quit".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("rs (%s)> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(userHelp)
			} else {
				printlnFn(guestHelp)
			}
		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "l", "list":
			err = a.List(ctx, args)
		case "search":
			err = a.Search(ctx, args)
		case "category":
			err = a.Category(ctx, args)
		case "suggest":
			err = a.Suggest(ctx, args)
		case "show":
			err = a.Show(ctx, args)
		case "mine":
			err = a.Mine(ctx)
		case "add":
			err = a.Add(ctx)
		case "delete":
			err = a.Delete(ctx, args)
		case "rate":
			err = a.Rate(ctx, args)
		case "comment":
			err = a.Comment(ctx, args)
		case "uncomment":
			err = a.Uncomment(ctx, args)
		case "fav":
			err = a.Fav(ctx, args)
		case "favs":
			err = a.Favs(ctx)
		case "profile":
			err = a.Profile(ctx, args)
		case "external":
			err = a.External(ctx, args)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
