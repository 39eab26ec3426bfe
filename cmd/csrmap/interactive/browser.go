// Package interactive provides the interactive register map browser of
// csrmap shell.
package interactive

import (
	"fmt"
	"io"
	"strings"

	"github.com/csrmap/csrmap-go/pkg/csrfile"
	"github.com/csrmap/csrmap-go/pkg/inspect"
	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// Browser executes shell commands against one register map. It holds no
// terminal state so that commands can be driven from tests.
type Browser struct {
	path      string
	inspector *inspect.Inspector
	formatter *inspect.Formatter
	out       io.Writer
}

// NewBrowser creates a browser for m, read from path, printing to out.
func NewBrowser(m *regmap.RegisterMap, path string, out io.Writer) *Browser {
	return &Browser{
		path:      path,
		inspector: inspect.NewInspector(m),
		formatter: inspect.NewFormatter(),
		out:       out,
	}
}

// SetOutput redirects command output.
func (b *Browser) SetOutput(out io.Writer) {
	b.out = out
}

// Exec runs one command line. It returns false when the session should end.
func (b *Browser) Exec(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	parts := strings.Fields(input)
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "help", "?":
		b.printHelp()

	case "regs", "ls":
		b.cmdRegs()

	case "reg", "r":
		b.cmdReg(args)

	case "addr", "a":
		b.cmdAddr(args)

	case "decode", "d":
		b.cmdDecode(args)

	case "config", "c":
		b.cmdConfig()

	case "info":
		b.cmdInfo()

	case "desc":
		b.formatter.ShowDescriptions = !b.formatter.ShowDescriptions
		fmt.Fprintf(b.out, "Descriptions %s\n", onOff(b.formatter.ShowDescriptions))

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(b.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

// RegisterNames returns the register names for completion.
func (b *Browser) RegisterNames() []string {
	regs := b.inspector.Map().Registers()
	names := make([]string, len(regs))
	for i, r := range regs {
		names[i] = r.Name()
	}
	return names
}

func (b *Browser) printHelp() {
	fmt.Fprintln(b.out, `
CSR Map Browser Commands:
  Registers:
    regs                  - List all registers with their bit fields
    reg <name>[.<field>]  - Show one register or bit field
    addr <address>        - Show the register at an address (0x4, 16, ...)
    decode <reg> <value>  - Split a raw register value into bit fields

  Map:
    config                - Show configuration options
    info                  - Show map name, version and fingerprint
    desc                  - Toggle descriptions

  General:
    help                  - Show this help
    quit                  - Exit the browser`)
}

func (b *Browser) cmdRegs() {
	tree := b.inspector.InspectMap()
	fmt.Fprintf(b.out, "Registers (%d):\n", len(tree.Registers))
	for i := range tree.Registers {
		r := &tree.Registers[i]
		fmt.Fprint(b.out, b.formatter.FormatRegister(r))
	}
}

func (b *Browser) cmdReg(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(b.out, "Usage: reg <name>[.<field>]")
		return
	}
	b.showPath(args[0])
}

func (b *Browser) cmdAddr(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(b.out, "Usage: addr <address>")
		return
	}
	addr, err := inspect.ParseAddress(args[0])
	if err != nil {
		fmt.Fprintf(b.out, "Invalid address: %v\n", err)
		return
	}
	b.show(&inspect.Path{Address: addr, ByAddress: true, Raw: args[0]})
}

func (b *Browser) showPath(s string) {
	p, err := b.inspector.ParsePath(s)
	if err != nil {
		fmt.Fprintf(b.out, "Invalid path: %v\n", err)
		return
	}
	b.show(p)
}

func (b *Browser) show(p *inspect.Path) {
	info, err := b.inspector.InspectRegister(p)
	if err != nil {
		fmt.Fprintf(b.out, "Error: %v\n", err)
		return
	}
	fmt.Fprint(b.out, b.formatter.FormatRegister(info))
}

func (b *Browser) cmdDecode(args []string) {
	if len(args) != 2 {
		fmt.Fprintln(b.out, "Usage: decode <reg>[.<field>] <value>")
		return
	}
	p, err := b.inspector.ParsePath(args[0])
	if err != nil {
		fmt.Fprintf(b.out, "Invalid path: %v\n", err)
		return
	}
	raw, err := inspect.ParseAddress(args[1])
	if err != nil {
		fmt.Fprintf(b.out, "Invalid value: %v\n", err)
		return
	}
	values, err := b.inspector.Decode(p, raw)
	if err != nil {
		fmt.Fprintf(b.out, "Error: %v\n", err)
		return
	}
	fmt.Fprintf(b.out, "%s = %#x\n", p, raw)
	fmt.Fprint(b.out, b.formatter.FormatFieldValues(values))
}

func (b *Browser) cmdConfig() {
	fmt.Fprintln(b.out, "Configuration:")
	fmt.Fprint(b.out, b.formatter.FormatConfig(b.inspector.InspectConfig()))
}

func (b *Browser) cmdInfo() {
	m := b.inspector.Map()
	fmt.Fprintf(b.out, "File:        %s\n", b.path)
	fmt.Fprintf(b.out, "Map:         %s\n", m.Name())
	fmt.Fprintf(b.out, "Version:     %s\n", m.Version())
	fmt.Fprintf(b.out, "Registers:   %d\n", m.Len())
	fmt.Fprintf(b.out, "Bit fields:  %d\n", m.BitFieldCount())
	if fp, err := csrfile.Fingerprint(m); err == nil {
		fmt.Fprintf(b.out, "Fingerprint: %s\n", fp)
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
