package inspect

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// Formatter formats inspection output.
type Formatter struct {
	// ShowDescriptions includes register and bit-field descriptions
	ShowDescriptions bool

	// IndentWidth is the number of spaces per indent level
	IndentWidth int
}

// NewFormatter creates a new Formatter with default settings.
func NewFormatter() *Formatter {
	return &Formatter{
		ShowDescriptions: true,
		IndentWidth:      2,
	}
}

// Indent returns the content with indentation.
func (f *Formatter) Indent(depth int, content string) string {
	width := f.IndentWidth
	if width == 0 {
		width = 2
	}
	indent := strings.Repeat(" ", depth*width)
	return indent + content
}

// FormatValue formats a configuration value for display.
func (f *Formatter) FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case string:
		return strconv.Quote(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case []any:
		items := make([]string, len(v))
		for i, item := range v {
			items[i] = f.FormatValue(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case *regmap.Attrs:
		var items []string
		v.Range(func(k string, item any) bool {
			items = append(items, k+": "+f.FormatValue(item))
			return true
		})
		return "{" + strings.Join(items, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// FormatAddress formats an address zero-padded to the register width.
func FormatAddress(addr uint64, width uint) string {
	digits := int(width+3) / 4
	if digits == 0 {
		digits = 8
	}
	return fmt.Sprintf("0x%0*x", digits, addr)
}

// FormatBits formats a bit range such as "[0]" or "[7:4]".
func FormatBits(msb, lsb uint) string {
	if msb == lsb {
		return fmt.Sprintf("[%d]", lsb)
	}
	return fmt.Sprintf("[%d:%d]", msb, lsb)
}

// FormatMapTree formats the complete register map.
func (f *Formatter) FormatMapTree(tree *MapTree) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s (version %s, %d-bit registers)\n", tree.Name, tree.Version, tree.DataWidth)

	sb.WriteString("Configuration:\n")
	sb.WriteString(f.FormatConfig(tree.Config))

	fmt.Fprintf(&sb, "Registers (%d):\n", len(tree.Registers))
	if len(tree.Registers) == 0 {
		sb.WriteString(f.Indent(1, "(no registers)\n"))
	}
	for i := range tree.Registers {
		r := &tree.Registers[i]
		sb.WriteString(f.Indent(1, f.registerHeader(r)))
		sb.WriteString(f.FormatBitFieldTable(r.BitFields, 2))
	}
	return sb.String()
}

// FormatConfig formats configuration options, one per line.
func (f *Formatter) FormatConfig(entries []ConfigEntry) string {
	if len(entries) == 0 {
		return f.Indent(1, "(none)\n")
	}
	var sb strings.Builder
	for _, e := range entries {
		sb.WriteString(f.Indent(1, fmt.Sprintf("%s: %s\n", e.Name, f.FormatValue(e.Value))))
	}
	return sb.String()
}

// FormatRegister formats one register with its reset value and bit fields.
func (f *Formatter) FormatRegister(r *RegisterInfo) string {
	var sb strings.Builder
	sb.WriteString(f.registerHeader(r))
	sb.WriteString(f.Indent(1, fmt.Sprintf("width: %d bits, reset: %s\n", r.Width, FormatAddress(r.Reset, r.Width))))
	sb.WriteString(f.FormatBitFieldTable(r.BitFields, 1))
	return sb.String()
}

func (f *Formatter) registerHeader(r *RegisterInfo) string {
	line := fmt.Sprintf("%s %s", FormatAddress(r.Address, r.Width), r.Name)
	if f.ShowDescriptions && r.Description != "" {
		line += " - " + r.Description
	}
	return line + "\n"
}

// FormatBitFieldTable formats bit fields as aligned rows at the given
// indent depth.
func (f *Formatter) FormatBitFieldTable(fields []BitFieldInfo, depth int) string {
	if len(fields) == 0 {
		return f.Indent(depth, "(no bit fields)\n")
	}

	bitsWidth, nameWidth, accessWidth := 0, 0, 0
	for _, bf := range fields {
		bitsWidth = max(bitsWidth, len(FormatBits(bf.MSB, bf.LSB)))
		nameWidth = max(nameWidth, len(bf.Name))
		accessWidth = max(accessWidth, len(bf.Access))
	}

	var sb strings.Builder
	for _, bf := range fields {
		row := fmt.Sprintf("%-*s %-*s", bitsWidth, FormatBits(bf.MSB, bf.LSB), nameWidth, bf.Name)
		if accessWidth > 0 {
			row += fmt.Sprintf(" %-*s", accessWidth, bf.Access)
		}
		if bf.Reset != nil {
			row += fmt.Sprintf(" reset=%#x", *bf.Reset)
		}
		if bf.Hardware != "" {
			row += " hw=" + bf.Hardware
		}
		if f.ShowDescriptions && bf.Description != "" {
			row += "  " + bf.Description
		}
		sb.WriteString(f.Indent(depth, strings.TrimRight(row, " ")+"\n"))
	}
	return sb.String()
}

// FormatFieldValues formats decoded bit-field values.
func (f *Formatter) FormatFieldValues(values []FieldValue) string {
	if len(values) == 0 {
		return f.Indent(1, "(no bit fields)\n")
	}

	nameWidth := 0
	for _, v := range values {
		nameWidth = max(nameWidth, len(v.Name)+len(FormatBits(v.MSB, v.LSB)))
	}

	var sb strings.Builder
	for _, v := range values {
		label := v.Name + FormatBits(v.MSB, v.LSB)
		sb.WriteString(f.Indent(1, fmt.Sprintf("%-*s = %#x (%d)\n", nameWidth, label, v.Value, v.Value)))
	}
	return sb.String()
}
