package commands

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/csrmap/csrmap-go/pkg/csrfile"
	"github.com/csrmap/csrmap-go/pkg/log"
)

const (
	exitSuccess      = 0
	exitCommandError = 1
	exitValidation   = 2
)

// ToolConfig is the optional YAML file given with -config. Command-line
// flags override its values.
type ToolConfig struct {
	// Strict rejects unknown keys in CSR map files.
	Strict bool `yaml:"strict"`

	// TraceLog appends reader and writer stage events to this file.
	TraceLog string `yaml:"trace_log"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// Format is the input format used when the file extension does not
	// tell it.
	Format string `yaml:"format"`
}

// LoadToolConfig reads a tool configuration file. Unknown keys are errors.
func LoadToolConfig(path string) (ToolConfig, error) {
	cfg := ToolConfig{LogLevel: "info"}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// commonFlags are accepted by every command that reads or writes maps.
type commonFlags struct {
	configFile string
	traceFile  string
	logLevel   string
	progress   bool
	format     string
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configFile, "config", "", "Tool configuration file (YAML)")
	fs.StringVar(&c.traceFile, "trace", "", "Append reader/writer stage events to this file")
	fs.StringVar(&c.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	fs.BoolVar(&c.progress, "progress", false, "Print reader/writer stages on stderr")
	fs.StringVar(&c.format, "format", "", "Input format when not implied by the extension (json, yaml, cbor)")
}

// env is the per-invocation state shared by the commands: resolved
// configuration, the operational logger and the trace logger.
type env struct {
	cfg    ToolConfig
	format csrfile.Format
	logger *slog.Logger
	tracer log.Logger

	closers []io.Closer
}

// newEnv resolves the tool configuration after fs has been parsed.
// Flags explicitly given on the command line win over the config file.
func newEnv(fs *flag.FlagSet, common commonFlags, stderr io.Writer) (*env, error) {
	cfg := ToolConfig{LogLevel: "info"}
	if common.configFile != "" {
		var err error
		if cfg, err = LoadToolConfig(common.configFile); err != nil {
			return nil, err
		}
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["trace"] {
		cfg.TraceLog = common.traceFile
	}
	if set["log-level"] || cfg.LogLevel == "" {
		cfg.LogLevel = common.logLevel
	}
	if set["format"] {
		cfg.Format = common.format
	}
	if f := fs.Lookup("strict"); f != nil && set["strict"] {
		cfg.Strict = f.Value.String() == "true"
	}

	level, err := parseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := csrfile.ParseFormat(cfg.Format)
	if err != nil {
		return nil, err
	}

	e := &env{
		cfg:    cfg,
		format: format,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}

	loggers := []log.Logger{log.NewSlogAdapter(e.logger)}
	if cfg.TraceLog != "" {
		fl, err := log.NewFileLogger(cfg.TraceLog)
		if err != nil {
			return nil, fmt.Errorf("open trace log: %w", err)
		}
		loggers = append(loggers, fl)
		e.closers = append(e.closers, fl)
	}
	if common.progress {
		loggers = append(loggers, log.NewConsoleLogger(stderr))
	}
	e.tracer = log.NewMultiLogger(loggers...)

	e.logger.Debug("configuration resolved",
		"config", common.configFile,
		"strict", cfg.Strict,
		"trace_log", cfg.TraceLog,
		"format", format.String())
	return e, nil
}

// reader returns a Reader honouring the resolved configuration.
func (e *env) reader() *csrfile.Reader {
	return &csrfile.Reader{
		Format: e.format,
		Strict: e.cfg.Strict,
		Logger: e.tracer,
	}
}

// writer returns a Writer for the given output format.
func (e *env) writer(format csrfile.Format) *csrfile.Writer {
	return &csrfile.Writer{
		Format: format,
		Logger: e.tracer,
	}
}

func (e *env) Close() {
	for _, c := range e.closers {
		if err := c.Close(); err != nil {
			e.logger.Warn("close failed", "error", err)
		}
	}
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("invalid log level %q (use debug, info, warn or error)", s)
}

// parseArgs parses args into fs, turning -h/--help into a usage message.
func parseArgs(fs *flag.FlagSet, args []string, stderr io.Writer, usage func(io.Writer)) (bool, error) {
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			usage(stderr)
			return false, nil
		}
		return false, err
	}
	return true, nil
}
