package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/csrmap/csrmap-go/pkg/csrfile"
	"github.com/csrmap/csrmap-go/pkg/inspect"
)

// ShowOptions configures the show command.
type ShowOptions struct {
	Register string
	JSON     bool
	Brief    bool
	File     string
}

// RunShow runs the show command.
func RunShow(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	opts := ShowOptions{}
	fs.StringVar(&opts.Register, "register", "", "Show only this register (name, address or REG.FIELD)")
	fs.StringVar(&opts.Register, "r", "", "Show only this register (shorthand)")
	fs.BoolVar(&opts.JSON, "json", false, "Print the normalized document as JSON")
	fs.BoolVar(&opts.Brief, "brief", false, "Omit descriptions")

	ok, err := parseArgs(fs, args, stderr, printShowUsage)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if !ok {
		return exitSuccess
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: exactly one file required")
		printShowUsage(stderr)
		return exitCommandError
	}
	opts.File = fs.Arg(0)

	e, err := newEnv(fs, common, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.Close()

	m, err := e.reader().ReadFile(opts.File)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitValidation
	}

	if opts.JSON {
		data, err := csrfile.Encode(m, csrfile.FormatJSON)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		if _, err := stdout.Write(data); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		return exitSuccess
	}

	insp := inspect.NewInspector(m)
	formatter := inspect.NewFormatter()
	formatter.ShowDescriptions = !opts.Brief

	if opts.Register == "" {
		fmt.Fprint(stdout, formatter.FormatMapTree(insp.InspectMap()))
		return exitSuccess
	}

	path, err := insp.ParsePath(opts.Register)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	info, err := insp.InspectRegister(path)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	fmt.Fprint(stdout, formatter.FormatRegister(info))
	return exitSuccess
}

func printShowUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: csrmap show [options] <file>

Options:
  -r, --register  Show one register: CTRL, 0x4 or CTRL.EN
  --json          Print the normalized document as JSON
  --brief         Omit descriptions

Examples:
  csrmap show uart.yaml
  csrmap show --register 0x4 uart.yaml
  csrmap show --json uart.cbor`)
}
