package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/gophtodo/internal/client/client"
	"github.com/dmitrijs2005/gophtodo/internal/common"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App satisfies
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, ref string) error
	Toggle(ctx context.Context, ref string) error
	Delete(ctx context.Context, ref string) error
	Watch(ctx context.Context, ref string) error
	Export(ctx context.Context, path string) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// The first token is the command and the optional second one a task
// reference (its number in the last list, or its id). The loop exits on
// end of input or on "exit"/"quit".
//
//	Not logged in:
//	  help, register, login, exit | quit
//
//	Logged in:
//	  help, (l)ist, add, edit <n>, (t)oggle <n>, (d)elete <n>,
//	  watch <n>, export [file], logout, exit | quit
//
// A command error is printed and the loop goes on. Once ctx is done no
// further line is read.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("todo %s> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		ref := ""
		if len(parts) > 1 {
			ref = parts[1]
		}

		var cmdErr error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, add, edit <n>, (t)oggle <n>, (d)elete <n>, watch <n>, export [file], logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "l", "list", "add", "edit", "t", "toggle", "d", "delete", "watch", "export", "logout":
			if !a.isLoggedIn() {
				printlnFn("Please log in first.")
				continue
			}
			cmdErr = dispatch(ctx, a, cmd, ref)

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", userMessage(cmdErr))
		}
	}
}

func dispatch(ctx context.Context, a execIface, cmd, ref string) error {
	switch cmd {
	case "l", "list":
		return a.List(ctx)
	case "add":
		return a.Add(ctx)
	case "edit":
		return a.Edit(ctx, ref)
	case "t", "toggle":
		return a.Toggle(ctx, ref)
	case "d", "delete":
		return a.Delete(ctx, ref)
	case "watch":
		return a.Watch(ctx, ref)
	case "export":
		return a.Export(ctx, ref)
	default:
		return a.Logout(ctx)
	}
}

// userMessage turns an error into the text shown at the prompt.
func userMessage(err error) string {
	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	case errors.Is(err, common.ErrTokenExpired), errors.Is(err, common.ErrRefreshTokenExpired):
		return "session expired, please log in again"
	case errors.Is(err, common.ErrorNotFound):
		return "todo not found"
	default:
		return err.Error()
	}
}
