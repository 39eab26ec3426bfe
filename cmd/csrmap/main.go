// csrmap is a CLI tool for validating, inspecting and converting CSR map
// description files.
package main

import (
	"fmt"
	"os"

	"github.com/csrmap/csrmap-go/cmd/csrmap/commands"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitCommandError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var exitCode int
	switch cmd {
	case "validate":
		exitCode = commands.RunValidate(args, os.Stdout, os.Stderr)
	case "show":
		exitCode = commands.RunShow(args, os.Stdout, os.Stderr)
	case "convert":
		exitCode = commands.RunConvert(args, os.Stdout, os.Stderr)
	case "fingerprint":
		exitCode = commands.RunFingerprint(args, os.Stdout, os.Stderr)
	case "trace":
		exitCode = commands.RunTrace(args, os.Stdout, os.Stderr)
	case "shell":
		exitCode = commands.RunShell(args, os.Stdout, os.Stderr)
	case "help", "-h", "--help":
		printUsage()
		exitCode = exitSuccess
	case "version", "-v", "--version":
		fmt.Println("csrmap version 0.1.0")
		exitCode = exitSuccess
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		exitCode = exitCommandError
	}

	os.Exit(exitCode)
}

func printUsage() {
	fmt.Println(`csrmap - CSR map validation and conversion tool

Usage:
  csrmap <command> [options] [files...]

Commands:
  validate     Check CSR map files for structural errors
  show         Display the registers and bit fields of a map
  convert      Convert between formats (json, yaml, cbor)
  fingerprint  Print a format-independent digest of each map
  trace        View or summarize a trace log (.clog)
  shell        Browse a map interactively

Common options (after the command):
  -config FILE     Tool configuration (YAML)
  -trace FILE      Append reader/writer stage events to FILE
  -log-level LVL   Log level: debug, info, warn, error
  -progress        Print reader/writer stages on stderr
  -format FMT      Input format when not implied by the extension

Options:
  -h, --help     Show this help message
  -v, --version  Show version information

Examples:
  csrmap validate --strict regs/*.yaml
  csrmap show --register CTRL uart.json
  csrmap convert --verify -o uart.json uart.yaml
  csrmap convert -trace build.clog -o uart.cbor uart.yaml

For command-specific help, run:
  csrmap <command> --help`)
}
