package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/csrmap/csrmap-go/cmd/csrmap/interactive"
)

// RunShell runs the shell command.
func RunShell(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	var strict bool
	fs.BoolVar(&strict, "strict", false, "Reject unknown keys")

	ok, err := parseArgs(fs, args, stderr, printShellUsage)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if !ok {
		return exitSuccess
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one file required")
		printShellUsage(stderr)
		return exitCommandError
	}
	path := fs.Arg(0)

	e, err := newEnv(fs, common, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.Close()

	m, err := e.reader().ReadFile(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitValidation
	}

	shell, err := interactive.New(m, path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fmt.Fprintf(shell.Stdout(), "Loaded %s: %d registers, %d bit fields\n", m.Name(), m.Len(), m.BitFieldCount())
	shell.Run(ctx)
	return exitSuccess
}

func printShellUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: csrmap shell [options] <file>

Opens an interactive browser on the register map. Type 'help' inside the
shell for its commands.

Examples:
  csrmap shell uart.yaml`)
}
