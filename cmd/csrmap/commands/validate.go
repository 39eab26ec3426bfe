package commands

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/csrmap/csrmap-go/pkg/csrfile"
	"github.com/csrmap/csrmap-go/pkg/log"
	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// ValidateOptions configures the validate command.
type ValidateOptions struct {
	Strict  bool
	JSON    bool
	Verbose bool
	Files   []string
}

// RunValidate runs the validate command.
func RunValidate(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	var common commonFlags
	common.register(fs)
	opts := ValidateOptions{}
	fs.BoolVar(&opts.Strict, "strict", false, "Reject unknown keys")
	fs.BoolVar(&opts.JSON, "json", false, "Output results as JSON")
	fs.BoolVar(&opts.Verbose, "verbose", false, "Show dropped keys")
	fs.BoolVar(&opts.Verbose, "v", false, "Show dropped keys (shorthand)")

	ok, err := parseArgs(fs, args, stderr, printValidateUsage)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if !ok {
		return exitSuccess
	}
	opts.Files = fs.Args()

	if len(opts.Files) == 0 {
		fmt.Fprintln(stderr, "Error: no files specified")
		printValidateUsage(stderr)
		return exitCommandError
	}

	e, err := newEnv(fs, common, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	defer e.Close()

	hasErrors := false
	results := make([]*ValidationOutput, 0, len(opts.Files))

	for _, file := range opts.Files {
		result := validateFile(e, file)
		results = append(results, result)

		if !result.Valid {
			hasErrors = true
		}

		if !opts.JSON {
			printValidationResult(stdout, result, opts.Verbose)
		}
	}

	if opts.JSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(output))
	}

	if hasErrors {
		return exitValidation
	}
	return exitSuccess
}

// ValidationOutput represents the validation result for a file.
type ValidationOutput struct {
	File    string       `json:"file"`
	Valid   bool         `json:"valid"`
	Format  string       `json:"format,omitempty"`
	Error   *IssueOutput `json:"error,omitempty"`
	Dropped []string     `json:"dropped,omitempty"`
	Map     *MapOutput   `json:"map,omitempty"`
}

// IssueOutput represents a validation failure.
type IssueOutput struct {
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Register string `json:"register,omitempty"`
	BitField string `json:"bit_field,omitempty"`
	Key      string `json:"key,omitempty"`
}

// MapOutput represents register map metadata.
type MapOutput struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Registers   int    `json:"registers"`
	BitFields   int    `json:"bit_fields"`
	Fingerprint string `json:"fingerprint"`
}

func validateFile(e *env, path string) *ValidationOutput {
	output := &ValidationOutput{File: path}
	if format, err := csrfile.FormatFromPath(path); err == nil {
		output.Format = format.String()
	} else if e.format != csrfile.FormatAuto {
		output.Format = e.format.String()
	}

	var dropped []string
	r := e.reader()
	r.Logger = log.NewMultiLogger(e.tracer, log.LoggerFunc(func(event log.Event) {
		if event.Notice != nil {
			dropped = append(dropped, event.Notice.Message)
		}
	}))

	m, err := r.ReadFile(path)
	output.Dropped = dropped
	if err != nil {
		output.Error = issueFromError(err)
		return output
	}

	output.Valid = true
	fp, err := csrfile.Fingerprint(m)
	if err != nil {
		e.logger.Warn("fingerprint failed", "path", path, "error", err)
	}
	output.Map = &MapOutput{
		Name:        m.Name(),
		Version:     m.Version(),
		Registers:   m.Len(),
		BitFields:   m.BitFieldCount(),
		Fingerprint: fp,
	}
	return output
}

func issueFromError(err error) *IssueOutput {
	issue := &IssueOutput{
		Kind:    csrfile.ErrorKind(err),
		Message: err.Error(),
	}
	var re *regmap.Error
	if errors.As(err, &re) {
		issue.Register = re.Register
		issue.BitField = re.BitField
		issue.Key = re.Key
	}
	return issue
}

func printValidationResult(w io.Writer, result *ValidationOutput, verbose bool) {
	switch {
	case result.Valid && len(result.Dropped) == 0:
		fmt.Fprintf(w, "%s: OK (%d registers, %d bit fields)\n", result.File, result.Map.Registers, result.Map.BitFields)
	case result.Valid:
		fmt.Fprintf(w, "%s: OK (%d registers, %d bit fields, %d keys dropped)\n",
			result.File, result.Map.Registers, result.Map.BitFields, len(result.Dropped))
	default:
		fmt.Fprintf(w, "%s: FAILED\n", result.File)
		kind := result.Error.Kind
		if kind == "" {
			kind = "error"
		}
		fmt.Fprintf(w, "  ERROR [%s] %s\n", kind, result.Error.Message)
	}

	if verbose {
		for _, msg := range result.Dropped {
			fmt.Fprintf(w, "  DROPPED %s\n", msg)
		}
	}
}

func printValidateUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: csrmap validate [options] <file>...

Options:
  --strict       Reject unknown keys instead of dropping them
  --json         Output results as JSON
  -v, --verbose  List dropped keys

Exit codes:
  0  all files valid
  1  command error
  2  at least one file invalid

Examples:
  csrmap validate uart.yaml
  csrmap validate --strict --json regs/*.json`)
}
