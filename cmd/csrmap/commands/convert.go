package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/csrmap/csrmap-go/pkg/csrfile"
	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// ConvertOptions configures the convert command.
type ConvertOptions struct {
	Input  string
	Output string // "-" means stdout
	To     string // Empty means from the output extension
	Verify bool
}

// RunConvert runs the convert command.
func RunConvert(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	opts := ConvertOptions{}
	fs.StringVar(&opts.Output, "o", "", "Output file, - for stdout")
	fs.StringVar(&opts.Output, "output", "", "Output file")
	fs.StringVar(&opts.To, "to", "", "Output format (json, yaml, cbor)")
	fs.BoolVar(&opts.Verify, "verify", false, "Re-read the output and compare fingerprints")

	ok, err := parseArgs(fs, args, stderr, printConvertUsage)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if !ok {
		return exitSuccess
	}
	if fs.NArg() > 0 {
		opts.Input = fs.Arg(0)
	}

	if opts.Input == "" {
		fmt.Fprintln(stderr, "Error: no input file specified")
		printConvertUsage(stderr)
		return exitCommandError
	}
	if opts.Output == "" {
		fmt.Fprintln(stderr, "Error: no output file specified (-o)")
		printConvertUsage(stderr)
		return exitCommandError
	}

	to, err := csrfile.ParseFormat(opts.To)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if opts.Output == "-" && to == csrfile.FormatAuto {
		fmt.Fprintln(stderr, "Error: --to is required when writing to stdout")
		return exitCommandError
	}

	e, err := newEnv(fs, common, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.Close()

	m, err := e.reader().ReadFile(opts.Input)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
		return exitValidation
	}

	if opts.Output == "-" {
		data, err := csrfile.Encode(m, to)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitCommandError
		}
		if opts.Verify {
			r := e.reader()
			if _, code := verify(m, func() (*regmap.RegisterMap, error) { return r.ReadBytes(data, to) }, stderr); code != exitSuccess {
				return code
			}
		}
		if _, err := stdout.Write(data); err != nil {
			fmt.Fprintf(stderr, "Error writing output: %v\n", err)
			return exitCommandError
		}
		return exitSuccess
	}

	if err := e.writer(to).WriteFile(opts.Output, m); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return exitCommandError
	}
	e.logger.Info("converted", "input", opts.Input, "output", opts.Output)

	if !opts.Verify {
		fmt.Fprintf(stdout, "Converted %s -> %s\n", opts.Input, opts.Output)
		return exitSuccess
	}

	r := e.reader()
	r.Format = to
	fp, code := verify(m, func() (*regmap.RegisterMap, error) { return r.ReadFile(opts.Output) }, stderr)
	if code != exitSuccess {
		return code
	}
	fmt.Fprintf(stdout, "Converted %s -> %s (verified %s)\n", opts.Input, opts.Output, short(fp))
	return exitSuccess
}

// verify re-reads converted output and compares its fingerprint with
// the fingerprint of the source map.
func verify(m *regmap.RegisterMap, readBack func() (*regmap.RegisterMap, error), stderr io.Writer) (string, int) {
	want, err := csrfile.Fingerprint(m)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return "", exitCommandError
	}
	back, err := readBack()
	if err != nil {
		fmt.Fprintf(stderr, "Verify failed: %v\n", err)
		return "", exitValidation
	}
	got, err := csrfile.Fingerprint(back)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return "", exitCommandError
	}
	if got != want {
		fmt.Fprintf(stderr, "Verify failed: fingerprint %s, want %s\n", got, want)
		return "", exitValidation
	}
	return got, exitSuccess
}

func short(fp string) string {
	if len(fp) > 12 {
		return fp[:12]
	}
	return fp
}

func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: csrmap convert [options] -o <output> <input>

Options:
  -o, --output  Output file, - for stdout
  --to          Output format: json, yaml or cbor (default: from -o extension)
  --verify      Re-read the output and compare fingerprints

Examples:
  csrmap convert -o uart.json uart.yaml
  csrmap convert --to yaml -o - uart.json
  csrmap convert --verify -o uart.cbor uart.yaml`)
}
