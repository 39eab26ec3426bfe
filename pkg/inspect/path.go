// Package inspect provides register map inspection utilities.
//
// The inspect package offers a unified interface for:
//   - Parsing path expressions (e.g., "CTRL.EN" or "0x4.EN")
//   - Resolving paths against a register map
//   - Decoding raw register values into bit-field values
//   - Formatting output for display
package inspect

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Path errors.
var (
	ErrEmptyPath     = errors.New("empty path")
	ErrInvalidPath   = errors.New("invalid path format")
	ErrInvalidNumber = errors.New("invalid numeric value in path")
)

// Path represents a parsed inspection path.
// Format: register[.bitfield], where register is a name or an address.
type Path struct {
	// Register is the register name (empty when ByAddress is set).
	Register string

	// Address is the register address (when ByAddress is true).
	Address uint64

	// ByAddress indicates the register was given by address.
	ByAddress bool

	// BitField is the bit-field name, empty for a whole register.
	BitField string

	// Raw stores the original input string.
	Raw string
}

// IsPartial reports whether the path names a whole register.
func (p *Path) IsPartial() bool {
	return p.BitField == ""
}

// ParsePath parses a path string into a Path struct.
//
// Supported formats:
//   - "CTRL" - register by name
//   - "CTRL.EN" - bit field of a register
//   - "0x4" or "4" - register by address
//   - "0x4.EN" - bit field of a register given by address
//
// Addresses use Go integer literal syntax (decimal, 0x, 0o, 0b).
func ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyPath
	}

	reg, field, hasField := strings.Cut(input, ".")
	if reg == "" || (hasField && (field == "" || strings.Contains(field, "."))) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, input)
	}

	p := &Path{Raw: input, BitField: field}
	if isAddress(reg) {
		addr, err := ParseAddress(reg)
		if err != nil {
			return nil, err
		}
		p.Address = addr
		p.ByAddress = true
	} else {
		p.Register = reg
	}
	return p, nil
}

// String returns the path as a string.
func (p *Path) String() string {
	var sb strings.Builder
	if p.ByAddress {
		fmt.Fprintf(&sb, "%#x", p.Address)
	} else {
		sb.WriteString(p.Register)
	}
	if p.BitField != "" {
		sb.WriteString(".")
		sb.WriteString(p.BitField)
	}
	return sb.String()
}

// ParseAddress parses a register address or raw value.
func ParseAddress(s string) (uint64, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ErrInvalidNumber, s)
	}
	return v, nil
}

// isAddress checks if the string starts like a number.
func isAddress(s string) bool {
	return s[0] >= '0' && s[0] <= '9'
}
