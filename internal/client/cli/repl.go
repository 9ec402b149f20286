package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/embauco/internal/client/client"
)

// printlnFn is a test seam for REPL output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. The real App
// satisfies it; tests provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	settle()

	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Whoami(ctx context.Context) error
	Status(ctx context.Context) error

	Stats(ctx context.Context) error
	Chart(ctx context.Context) error

	Categories(ctx context.Context) error
	AddCategory(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context) error
	Delete(ctx context.Context) error
	Attach(ctx context.Context) error
}

// protectedCommands need an authenticated session.
var protectedCommands = map[string]bool{
	"stats":       true,
	"chart":       true,
	"categories":  true,
	"addcategory": true,
	"list":        true,
	"l":           true,
	"add":         true,
	"edit":        true,
	"delete":      true,
	"attach":      true,
}

const (
	helpGuest  = "Available commands: register, login, whoami, status, exit"
	helpMember = "Available commands: stats, chart, categories, addcategory, (l)ist, add, edit, delete, attach, whoami, status, logout, exit"
)

// runREPL reads one command per line from reader and dispatches it to a.
// The loop ends on end of input, when the user types "exit" or "quit", or
// once ctx is cancelled. Command errors are reported and the loop keeps going.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			printlnFn("Bye!")
			return
		}
		printlnFn(fmt.Sprintf("embauco %s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		if ctx.Err() != nil {
			// interrupted while waiting for input
			printlnFn("Bye!")
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			if readErr != nil {
				return
			}
			continue
		}
		cmd := parts[0]

		if protectedCommands[cmd] && !a.isLoggedIn() {
			printlnFn("Please log in first.")
			continue
		}

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "register":
			err = a.Register(ctx)
		case "login":
			err = a.Login(ctx)
		case "logout":
			err = a.Logout(ctx)
		case "whoami":
			err = a.Whoami(ctx)
		case "status":
			err = a.Status(ctx)

		case "stats":
			err = a.Stats(ctx)
		case "chart":
			err = a.Chart(ctx)

		case "categories":
			err = a.Categories(ctx)
		case "addcategory":
			err = a.AddCategory(ctx)
		case "l", "list":
			err = a.List(ctx)
		case "add":
			err = a.Add(ctx)
		case "edit":
			err = a.Edit(ctx)
		case "delete":
			err = a.Delete(ctx)
		case "attach":
			err = a.Attach(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil && !errors.Is(err, io.EOF) {
			printlnFn("Error:", client.Message(err))
		}
		a.settle()

		if readErr != nil {
			return
		}
	}
}
