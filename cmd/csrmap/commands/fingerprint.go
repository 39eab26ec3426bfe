package commands

import (
	"flag"
	"fmt"
	"io"

	"github.com/csrmap/csrmap-go/pkg/csrfile"
)

// RunFingerprint prints the fingerprint of each file, one per line, in
// the layout of sha256sum.
func RunFingerprint(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("fingerprint", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)

	ok, err := parseArgs(fs, args, stderr, printFingerprintUsage)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if !ok {
		return exitSuccess
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printFingerprintUsage(stderr)
		return exitCommandError
	}

	e, err := newEnv(fs, common, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.Close()

	exitCode := exitSuccess
	for _, path := range fs.Args() {
		m, err := e.reader().ReadFile(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			exitCode = exitValidation
			continue
		}
		fp, err := csrfile.Fingerprint(m)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %s: %v\n", path, err)
			exitCode = exitValidation
			continue
		}
		fmt.Fprintf(stdout, "%s  %s\n", fp, path)
	}
	return exitCode
}

func printFingerprintUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: csrmap fingerprint [options] <file>...

Prints a BLAKE2b-256 digest of each register map. Files describing the
same map in different formats have the same fingerprint.

Examples:
  csrmap fingerprint uart.yaml uart.json`)
}
