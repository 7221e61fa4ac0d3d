package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output. In tests,
// replace them with stubs.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context, args []string) error
	New(ctx context.Context, args []string) error
	Text(ctx context.Context) error
	Demo(ctx context.Context) error
	List(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Show(ctx context.Context, args []string) error
}

// runREPL starts a simple read–eval–print loop for the Ember CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Handler errors are printed and the loop
// carries on. The loop exits on EOF or when the user types "exit" or "quit".
//
//	Not logged in:
//	  - help               show available commands
//	  - register           create an account
//	  - login              authenticate
//	  - exit | quit        leave the program
//
//	Logged in:
//	  - new <audio file>   journal a session recording
//	  - text               journal a pasted transcript
//	  - demo               journal the built-in sample session
//	  - (l)ist             list entries, newest first
//	  - search <term>      list entries matching term
//	  - show <id>          show one entry
//	  - logout [--purge]   log out; --purge also deletes the encryption key
//	  - exit | quit        leave the program
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("ember%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
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
				printlnFn("Available commands: new <file>, text, demo, (l)ist, search <term>, show <id>, logout [--purge], exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			cmdErr = a.Register(ctx)

		case "login":
			cmdErr = a.Login(ctx)

		case "logout":
			cmdErr = a.Logout(ctx, args)

		case "new":
			cmdErr = a.New(ctx, args)

		case "text":
			cmdErr = a.Text(ctx)

		case "demo":
			cmdErr = a.Demo(ctx)

		case "l", "list":
			cmdErr = a.List(ctx)

		case "s", "search":
			cmdErr = a.Search(ctx, args)

		case "show":
			cmdErr = a.Show(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn(failure(cmdErr))
		}
	}
}
