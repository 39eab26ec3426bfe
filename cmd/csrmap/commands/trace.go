package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/csrmap/csrmap-go/pkg/log"
)

// TraceOptions configures the trace command.
type TraceOptions struct {
	RunID  string
	Stage  string
	Path   string
	Failed bool
	File   string
}

// RunTrace runs the trace command: "trace view" or "trace stats".
func RunTrace(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stderr, "Error: trace subcommand required (view or stats)")
		printTraceUsage(stderr)
		return exitCommandError
	}

	sub := args[0]
	switch sub {
	case "view", "stats":
	case "help", "-h", "--help":
		printTraceUsage(stdout)
		return exitSuccess
	default:
		fmt.Fprintf(stderr, "Error: unknown trace subcommand %q\n", sub)
		printTraceUsage(stderr)
		return exitCommandError
	}

	fs := flag.NewFlagSet("trace "+sub, flag.ContinueOnError)
	opts := TraceOptions{}
	fs.StringVar(&opts.RunID, "run", "", "Only events of this run ID")
	fs.StringVar(&opts.Stage, "stage", "", "Only events of this stage (e.g. READ_REGISTERS)")
	fs.StringVar(&opts.Path, "path", "", "Only events for this CSR map file")
	fs.BoolVar(&opts.Failed, "failed", false, "Only failed stages")

	ok, err := parseArgs(fs, args[1:], stderr, printTraceUsage)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	if !ok {
		return exitSuccess
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Error: trace log path required")
		printTraceUsage(stderr)
		return exitCommandError
	}
	opts.File = fs.Arg(0)

	filter, err := opts.filter()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}

	if sub == "view" {
		err = ViewTrace(opts.File, filter, stdout)
	} else {
		err = TraceStats(opts.File, filter, stdout)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCommandError
	}
	return exitSuccess
}

func (o TraceOptions) filter() (log.Filter, error) {
	f := log.Filter{RunID: o.RunID, Path: o.Path}
	if o.Stage != "" {
		st, ok := log.ParseStage(o.Stage)
		if !ok {
			return f, fmt.Errorf("unknown stage %q", o.Stage)
		}
		f.Stage = &st
	}
	if o.Failed {
		failed := log.StatusFailed
		f.Status = &failed
	}
	return f, nil
}

// ViewTrace prints matching events, one per line.
func ViewTrace(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace log: %w", err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		fmt.Fprintln(w, FormatEvent(event))
	}
}

// FormatEvent renders one trace event as a single line.
func FormatEvent(e log.Event) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s %-5s %-18s %-7s",
		e.Timestamp.Format("15:04:05.000"), shortRunID(e.RunID), e.Operation, e.Stage, e.Status)

	switch {
	case e.Stage == log.StageBegin:
		fmt.Fprintf(&sb, " %s (%s)", e.Path, e.Format)
	case e.Notice != nil:
		sb.WriteString(" " + e.Notice.Message)
	case e.Error != nil:
		if e.Error.Kind != "" {
			fmt.Fprintf(&sb, " [%s]", e.Error.Kind)
		}
		sb.WriteString(" " + e.Error.Message)
	case e.Summary != nil:
		fmt.Fprintf(&sb, " %s %s: %d registers, %d bit fields, %d bytes in %s",
			e.Summary.Name, e.Summary.Version, e.Summary.Registers, e.Summary.BitFields,
			e.Summary.Bytes, e.Elapsed.Round(time.Microsecond))
	}
	return strings.TrimRight(sb.String(), " ")
}

func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return fmt.Sprintf("%-8s", id)
}

// Stats holds aggregate statistics about a trace log.
type Stats struct {
	TotalEvents   int
	Runs          map[string]*RunStats
	EventsByStage map[log.Stage]int
	Failures      map[string]int // by error kind
	Notices       int
	TimeRange     struct {
		Start time.Time
		End   time.Time
	}
}

// RunStats holds statistics for a single reader or writer run.
type RunStats struct {
	Operation log.Operation
	Path      string
	Format    string
	Failed    bool
	Completed bool
	Elapsed   time.Duration
}

// TraceStats analyzes the trace log and prints statistics.
func TraceStats(path string, filter log.Filter, w io.Writer) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open trace log: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		Runs:          make(map[string]*RunStats),
		EventsByStage: make(map[log.Stage]int),
		Failures:      make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		stats.add(event)
	}

	printStats(w, stats)
	return nil
}

func (s *Stats) add(event log.Event) {
	s.TotalEvents++
	s.EventsByStage[event.Stage]++

	if s.TimeRange.Start.IsZero() || event.Timestamp.Before(s.TimeRange.Start) {
		s.TimeRange.Start = event.Timestamp
	}
	if event.Timestamp.After(s.TimeRange.End) {
		s.TimeRange.End = event.Timestamp
	}

	run, ok := s.Runs[event.RunID]
	if !ok {
		run = &RunStats{Operation: event.Operation, Path: event.Path, Format: event.Format}
		s.Runs[event.RunID] = run
	}
	if event.Elapsed > run.Elapsed {
		run.Elapsed = event.Elapsed
	}

	switch event.Status {
	case log.StatusFailed:
		run.Failed = true
		kind := "unknown"
		if event.Error != nil && event.Error.Kind != "" {
			kind = event.Error.Kind
		}
		s.Failures[kind]++
	case log.StatusNotice:
		s.Notices++
	}
	if event.Stage == log.StageEnd {
		run.Completed = true
	}
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== CSR Map Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintf(w, "Notices:      %d\n", stats.Notices)
	fmt.Fprintln(w)

	var reads, writes, failed, completed int
	var longest time.Duration
	for _, run := range stats.Runs {
		if run.Operation == log.OperationRead {
			reads++
		} else {
			writes++
		}
		if run.Failed {
			failed++
		}
		if run.Completed {
			completed++
		}
		longest = max(longest, run.Elapsed)
	}
	fmt.Fprintf(w, "Runs: %d (%d read, %d write)\n", len(stats.Runs), reads, writes)
	fmt.Fprintf(w, "  %-12s %d\n", "completed:", completed)
	fmt.Fprintf(w, "  %-12s %d\n", "failed:", failed)
	if len(stats.Runs) > 0 {
		fmt.Fprintf(w, "  %-12s %s\n", "longest:", longest.Round(time.Microsecond))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Stage:")
	for st := log.StageBegin; st <= log.StageEnd; st++ {
		if count := stats.EventsByStage[st]; count > 0 {
			fmt.Fprintf(w, "  %-20s %d\n", st.String()+":", count)
		}
	}

	if len(stats.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failures by Kind:")
		kinds := make([]string, 0, len(stats.Failures))
		for k := range stats.Failures {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Fprintf(w, "  %-20s %d\n", k+":", stats.Failures[k])
		}
	}
}

func printTraceUsage(w io.Writer) {
	fmt.Fprintln(w, `
Usage: csrmap trace <view|stats> [options] <file.clog>

Options:
  --run ID      Only events of this run
  --stage NAME  Only events of this stage (BEGIN, OPEN_FILE, READ_CONFIGURATION,
                READ_REGISTERS, PREPARE_DATA, SAVE_DATA, END)
  --path FILE   Only events for this CSR map file
  --failed      Only failed stages

Examples:
  csrmap trace view build.clog
  csrmap trace view --failed build.clog
  csrmap trace stats build.clog`)
}
