package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// execIface is the command surface the REPL drives. App satisfies it; tests
// use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Posts(ctx context.Context, page int) error
	Post(ctx context.Context, id string) error
	Create(ctx context.Context) error
	Edit(ctx context.Context, id string) error
	Upload(ctx context.Context, path string) error
}

// runREPL reads one command per line and dispatches it to a. It returns on
// EOF, "exit" or "quit". Command errors are printed and the loop goes on.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader, out io.Writer) {
	for {
		fmt.Fprintf(out, "inkpost%s> ", statusFn())

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			fmt.Fprintln(out)
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
			if a.isLoggedIn() {
				fmt.Fprintln(out, "Available commands: posts [page], post <id>, create, edit <id>, upload <file>, logout, exit")
			} else {
				fmt.Fprintln(out, "Available commands: register, login, posts [page], post <id>, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx)

		case "posts":
			page := 1
			if len(args) > 0 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					fmt.Fprintln(out, "Usage: posts [page]")
					continue
				}
				page = n
			}
			cmdErr = a.Posts(ctx, page)

		case "post":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: post <id>")
				continue
			}
			cmdErr = a.Post(ctx, args[0])

		case "create":
			cmdErr = a.Create(ctx)

		case "edit":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: edit <id>")
				continue
			}
			cmdErr = a.Edit(ctx, args[0])

		case "upload":
			if len(args) == 0 {
				fmt.Fprintln(out, "Usage: upload <file>")
				continue
			}
			cmdErr = a.Upload(ctx, args[0])

		case "exit", "quit":
			fmt.Fprintln(out, "Bye!")
			return

		default:
			fmt.Fprintln(out, "Unknown command:", cmd)
		}

		if cmdErr != nil {
			fmt.Fprintln(out, "Error:", cmdErr)
		}
	}
}
