package regmap

import "fmt"

// RegisterMap is the complete, ordered set of registers of one hardware
// block together with its configuration.
type RegisterMap struct {
	name    string
	version string
	config  *Configuration

	regs      []*Register
	byName    map[string]int
	byAddress map[uint64]int
}

// New creates an empty register map holding a copy of config. A nil
// config is replaced by an empty configuration.
func New(name, version string, config *Configuration) *RegisterMap {
	c := NewConfiguration()
	if config != nil {
		c = ConfigurationFrom(config.values)
	}
	return &RegisterMap{
		name:      name,
		version:   version,
		config:    c,
		byName:    make(map[string]int),
		byAddress: make(map[uint64]int),
	}
}

// Name returns the map name.
func (m *RegisterMap) Name() string { return m.name }

// Version returns the map version.
func (m *RegisterMap) Version() string { return m.version }

// Config returns a copy of the map configuration. Changes to the copy do
// not affect the map; use SetOption.
func (m *RegisterMap) Config() *Configuration {
	return ConfigurationFrom(m.config.values)
}

// SetOption sets a configuration option. Once registers exist, data_width
// can only be set to the width they already have.
func (m *RegisterMap) SetOption(name string, value any) error {
	if name == DataWidthKey && len(m.regs) > 0 {
		trial := NewConfiguration()
		trial.Set(DataWidthKey, value)
		width, err := trial.DataWidth()
		if err != nil {
			return err
		}
		if want := m.regs[0].width; width != want {
			return &Error{Kind: ErrRange, Key: DataWidthKey,
				Detail: fmt.Sprintf("%d-bit registers already defined, cannot change to %d", want, width)}
		}
	}
	m.config.Set(name, value)
	return nil
}

// AddRegister appends a register. Register names and addresses must be
// unique within the map, and the register width must match data_width.
func (m *RegisterMap) AddRegister(r *Register) error {
	width, err := m.config.DataWidth()
	if err != nil {
		return err
	}
	if r.width != width {
		return &Error{Kind: ErrRange, Register: r.name,
			Detail: fmt.Sprintf("register width %d does not match data_width %d", r.width, width)}
	}
	if i, ok := m.byName[r.name]; ok {
		return &Error{Kind: ErrDuplicateName, Register: r.name,
			Detail: fmt.Sprintf("already defined at address %#x", m.regs[i].address)}
	}
	if i, ok := m.byAddress[r.address]; ok {
		return &Error{Kind: ErrDuplicateAddress, Register: r.name,
			Detail: fmt.Sprintf("address %#x already used by %q", r.address, m.regs[i].name)}
	}

	m.byName[r.name] = len(m.regs)
	m.byAddress[r.address] = len(m.regs)
	m.regs = append(m.regs, r)
	return nil
}

// Registers returns the registers in insertion order.
func (m *RegisterMap) Registers() []*Register {
	out := make([]*Register, len(m.regs))
	copy(out, m.regs)
	return out
}

// Register returns the register with the given name.
func (m *RegisterMap) Register(name string) (*Register, bool) {
	i, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return m.regs[i], true
}

// RegisterAt returns the register at the given address.
func (m *RegisterMap) RegisterAt(address uint64) (*Register, bool) {
	i, ok := m.byAddress[address]
	if !ok {
		return nil, false
	}
	return m.regs[i], true
}

// Len returns the number of registers.
func (m *RegisterMap) Len() int {
	return len(m.regs)
}

// BitFieldCount returns the number of bit fields across all registers.
func (m *RegisterMap) BitFieldCount() int {
	n := 0
	for _, r := range m.regs {
		n += len(r.fields)
	}
	return n
}
