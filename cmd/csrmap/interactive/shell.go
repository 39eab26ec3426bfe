package interactive

import (
	"context"
	"fmt"
	"io"

	"github.com/chzyer/readline"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// Shell runs a Browser on a readline terminal.
type Shell struct {
	browser *Browser
	rl      *readline.Instance
}

// New creates a new interactive shell for m.
func New(m *regmap.RegisterMap, path string) (*Shell, error) {
	s := &Shell{browser: NewBrowser(m, path, io.Discard)}

	names := readline.PcItemDynamic(func(string) []string { return s.browser.RegisterNames() })
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          m.Name() + "> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete: readline.NewPrefixCompleter(
			readline.PcItem("help"),
			readline.PcItem("regs"),
			readline.PcItem("reg", names),
			readline.PcItem("addr"),
			readline.PcItem("decode", names),
			readline.PcItem("config"),
			readline.PcItem("info"),
			readline.PcItem("desc"),
			readline.PcItem("quit"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	s.rl = rl
	s.browser.SetOutput(rl.Stdout())
	return s, nil
}

// Stdout returns a writer that properly coordinates with the readline input.
// Use this for log output to avoid interfering with the command prompt.
func (s *Shell) Stdout() io.Writer {
	return s.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline input.
func (s *Shell) Stderr() io.Writer {
	return s.rl.Stderr()
}

// Run starts the interactive command loop. It returns when the user
// quits, input ends or ctx is cancelled.
func (s *Shell) Run(ctx context.Context) {
	defer s.rl.Close()

	fmt.Fprintln(s.rl.Stdout(), "Type 'help' for commands.")

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := s.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}

		if !s.browser.Exec(line) {
			fmt.Fprintln(s.rl.Stdout(), "Exiting...")
			return
		}
	}
}
