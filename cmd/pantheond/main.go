package main

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/iov-one/pantheon"
	"github.com/iov-one/pantheon/errors"
)

// commands is a register of all available commands that can be executed by
// this program. The name is used to match with the first argument given.
//
// A command function is given stdin, stdout and the command line arguments
// without the program name and the command name. It is the responsibility
// of the command function to parse the arguments. Each command opens the
// ledger stored in the home directory, processes a single request and
// writes the outcome as JSON.
var commands = map[string]func(input io.Reader, output io.Writer, args []string) error{
	"accrue":      cmdAccrue,
	"balance":     cmdBalance,
	"contract":    cmdContract,
	"execute":     cmdExecute,
	"init":        cmdInit,
	"instantiate": cmdInstantiate,
	"query":       cmdQuery,
	"rewards":     cmdRewards,
	"send":        cmdSend,
	"store-code":  cmdStoreCode,
	"version":     cmdVersion,
}

func main() {
	if len(os.Args) == 1 {
		fmt.Fprintf(os.Stderr, "%s runs revenue splitter contracts on a local ledger.\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s <command> [<flags>]\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		fmt.Fprintf(os.Stderr, "Run '%s <command> --help' to learn more about each command.\n", os.Args[0])
		os.Exit(2)
	}
	run, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "\nAvailable commands are:\n\t%s\n", strings.Join(availableCmds(), "\n\t"))
		os.Exit(2)
	}

	// Skip two first arguments. Second argument is the command name that
	// we just consumed.
	if err := run(os.Stdin, os.Stdout, os.Args[2:]); err != nil {
		code, _ := errors.Info(err, false)
		fmt.Fprintf(os.Stderr, "error %d: %s\n", code, err)
		os.Exit(1)
	}
}

func availableCmds() []string {
	available := make([]string, 0, len(commands))
	for name := range commands {
		available = append(available, name)
	}
	sort.Strings(available)
	return available
}

func cmdVersion(in io.Reader, out io.Writer, args []string) error {
	fmt.Fprintln(out, pantheon.Version())
	return nil
}
