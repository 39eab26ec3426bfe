package inspect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// Inspector errors.
var (
	ErrRegisterNotFound = errors.New("register not found")
	ErrBitFieldNotFound = errors.New("bit field not found")
	ErrValueTooWide     = errors.New("value does not fit in register")
)

// Inspector provides read-only inspection of a register map.
type Inspector struct {
	m *regmap.RegisterMap
}

// NewInspector creates a new Inspector for the given register map.
func NewInspector(m *regmap.RegisterMap) *Inspector {
	return &Inspector{m: m}
}

// Map returns the underlying register map.
func (i *Inspector) Map() *regmap.RegisterMap {
	return i.m
}

// MapTree represents the complete register map for display.
type MapTree struct {
	Name      string
	Version   string
	DataWidth uint
	Config    []ConfigEntry
	Registers []RegisterInfo
}

// ConfigEntry is one configuration option.
type ConfigEntry struct {
	Name  string
	Value any
}

// RegisterInfo represents register information for display.
type RegisterInfo struct {
	Name        string
	Description string
	Address     uint64
	Width       uint
	Reset       uint64
	BitFields   []BitFieldInfo
}

// BitFieldInfo represents bit-field information for display.
type BitFieldInfo struct {
	Name        string
	Description string
	MSB         uint
	LSB         uint
	Mask        uint64
	Access      string
	Reset       *uint64
	Hardware    string
}

// FieldValue is the value of one bit field extracted from a raw
// register value.
type FieldValue struct {
	Name  string
	MSB   uint
	LSB   uint
	Value uint64
}

// InspectMap returns a complete tree of the register map.
func (i *Inspector) InspectMap() *MapTree {
	width, err := i.m.Config().DataWidth()
	if err != nil {
		width = regmap.DefaultDataWidth
	}

	tree := &MapTree{
		Name:      i.m.Name(),
		Version:   i.m.Version(),
		DataWidth: width,
		Config:    i.InspectConfig(),
	}
	for _, r := range i.m.Registers() {
		tree.Registers = append(tree.Registers, registerInfo(r))
	}
	return tree
}

// InspectConfig returns the configuration options in document order.
func (i *Inspector) InspectConfig() []ConfigEntry {
	values := i.m.Config().Values()
	entries := make([]ConfigEntry, 0, values.Len())
	values.Range(func(name string, v any) bool {
		entries = append(entries, ConfigEntry{Name: name, Value: v})
		return true
	})
	return entries
}

// Resolve returns the register a path refers to.
func (i *Inspector) Resolve(p *Path) (*regmap.Register, error) {
	var r *regmap.Register
	var ok bool
	if p.ByAddress {
		r, ok = i.m.RegisterAt(p.Address)
	} else {
		r, ok = i.m.Register(p.Register)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRegisterNotFound, p)
	}
	return r, nil
}

// ParsePath parses a path against the map. Register names that the plain
// syntax cannot express, such as "1ST" or "uart.ctrl", are matched first:
// the whole input as a register name, then the longest register-name
// prefix before a "." with the rest as bit field. Anything else goes
// through the package-level ParsePath.
func (i *Inspector) ParsePath(input string) (*Path, error) {
	input = strings.TrimSpace(input)
	if _, ok := i.m.Register(input); ok {
		return &Path{Register: input, Raw: input}, nil
	}
	for j := strings.LastIndex(input, "."); j > 0; j = strings.LastIndex(input[:j], ".") {
		reg, field := input[:j], input[j+1:]
		if _, ok := i.m.Register(reg); ok && field != "" {
			return &Path{Register: reg, BitField: field, Raw: input}, nil
		}
	}
	return ParsePath(input)
}

// InspectRegister returns information about the register of a path. If
// the path names a bit field, only that field is included.
func (i *Inspector) InspectRegister(p *Path) (*RegisterInfo, error) {
	r, err := i.Resolve(p)
	if err != nil {
		return nil, err
	}
	info := registerInfo(r)
	if p.IsPartial() {
		return &info, nil
	}

	bf, ok := r.BitField(p.BitField)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrBitFieldNotFound, p)
	}
	info.BitFields = []BitFieldInfo{bitFieldInfo(bf)}
	return &info, nil
}

// Decode splits a raw register value into bit-field values. If the path
// names a bit field, only that field is returned.
func (i *Inspector) Decode(p *Path, raw uint64) ([]FieldValue, error) {
	r, err := i.Resolve(p)
	if err != nil {
		return nil, err
	}
	if r.Width() < 64 && raw>>r.Width() != 0 {
		return nil, fmt.Errorf("%w: %#x is wider than %d bits", ErrValueTooWide, raw, r.Width())
	}

	fields := r.BitFields()
	if !p.IsPartial() {
		bf, ok := r.BitField(p.BitField)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrBitFieldNotFound, p)
		}
		fields = []regmap.BitField{bf}
	}

	values := make([]FieldValue, 0, len(fields))
	for _, bf := range fields {
		values = append(values, FieldValue{
			Name:  bf.Name,
			MSB:   bf.MSB(),
			LSB:   bf.LSB(),
			Value: (raw & bf.Mask()) >> bf.Offset,
		})
	}
	return values, nil
}

func registerInfo(r *regmap.Register) RegisterInfo {
	info := RegisterInfo{
		Name:        r.Name(),
		Description: r.Description(),
		Address:     r.Address(),
		Width:       r.Width(),
		Reset:       r.ResetValue(),
	}
	for _, bf := range r.BitFields() {
		info.BitFields = append(info.BitFields, bitFieldInfo(bf))
	}
	return info
}

func bitFieldInfo(bf regmap.BitField) BitFieldInfo {
	return BitFieldInfo{
		Name:        bf.Name,
		Description: bf.Description,
		MSB:         bf.MSB(),
		LSB:         bf.LSB(),
		Mask:        bf.Mask(),
		Access:      bf.Access,
		Reset:       bf.Reset,
		Hardware:    bf.Hardware,
	}
}
