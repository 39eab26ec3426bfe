package csrfile

import (
	"fmt"

	"github.com/csrmap/csrmap-go/pkg/log"
	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// Document keys.
const (
	keyName          = "name"
	keyVersion       = "version"
	keyConfiguration = "configuration"
	keyRegisters     = "registers"
	keyDescription   = "description"
	keyAddress       = "address"
	keyBitFields     = "bit_fields"
	keyOffset        = "offset"
	keyWidth         = "width"
	keyAccess        = "access"
	keyReset         = "reset"
	keyHardware      = "hardware"
)

var (
	topLevelKeys = map[string]bool{keyName: true, keyVersion: true, keyConfiguration: true, keyRegisters: true}
	registerKeys = map[string]bool{keyName: true, keyDescription: true, keyAddress: true, keyBitFields: true}
	bitFieldKeys = map[string]bool{
		keyName: true, keyDescription: true, keyOffset: true, keyWidth: true,
		keyAccess: true, keyReset: true, keyHardware: true,
	}
)

// Flatten converts a register map into the generic document written by
// every format. Registers and bit fields keep their stored order.
func Flatten(m *regmap.RegisterMap) (*regmap.Attrs, error) {
	config, err := normalize(m.Config().Values())
	if err != nil {
		return nil, fmt.Errorf("configuration: %w", err)
	}

	regs := make([]any, 0, m.Len())
	for _, r := range m.Registers() {
		fields := make([]any, 0, r.Len())
		for _, bf := range r.BitFields() {
			fields = append(fields, flattenBitField(bf))
		}

		entry := regmap.NewAttrs()
		entry.Set(keyName, r.Name())
		entry.Set(keyDescription, r.Description())
		entry.Set(keyAddress, intValue(r.Address()))
		entry.Set(keyBitFields, fields)
		regs = append(regs, entry)
	}

	doc := regmap.NewAttrs()
	doc.Set(keyName, m.Name())
	doc.Set(keyVersion, m.Version())
	doc.Set(keyConfiguration, config)
	doc.Set(keyRegisters, regs)
	return doc, nil
}

func flattenBitField(bf regmap.BitField) *regmap.Attrs {
	entry := regmap.NewAttrs()
	entry.Set(keyName, bf.Name)
	entry.Set(keyDescription, bf.Description)
	entry.Set(keyOffset, int64(bf.Offset))
	entry.Set(keyWidth, int64(bf.Width))
	if bf.Access != "" {
		entry.Set(keyAccess, bf.Access)
	}
	if bf.Reset != nil {
		entry.Set(keyReset, intValue(*bf.Reset))
	}
	if bf.Hardware != "" {
		entry.Set(keyHardware, bf.Hardware)
	}
	return entry
}

// BuildOptions controls how documents become register maps.
type BuildOptions struct {
	// Strict rejects unknown keys with regmap.ErrUnknownField. Otherwise
	// unknown keys are dropped and reported through OnDrop.
	Strict bool

	// OnDrop is called for every key dropped in lenient mode. May be nil.
	OnDrop func(log.NoticeEvent)
}

// Build converts a generic document into a validated register map.
func Build(doc *regmap.Attrs, opts BuildOptions) (*regmap.RegisterMap, error) {
	b := builder{opts: opts}
	config, err := b.configuration(doc)
	if err != nil {
		return nil, err
	}
	return b.registerMap(doc, config)
}

type builder struct {
	opts BuildOptions
}

// unknown applies the unknown-key policy to one record.
func (b builder) unknown(rec record, known map[string]bool) error {
	for _, key := range rec.unknownKeys(known) {
		if b.opts.Strict {
			return rec.fail(regmap.ErrUnknownField, key, "")
		}
		if b.opts.OnDrop != nil {
			b.opts.OnDrop(log.NoticeEvent{
				Register: rec.register,
				BitField: rec.bitField,
				Key:      key,
				Message:  dropMessage(rec, key),
			})
		}
	}
	return nil
}

func dropMessage(rec record, key string) string {
	switch {
	case rec.bitField != "":
		return fmt.Sprintf("register %q: bit field %q: dropped unknown key %q", rec.register, rec.bitField, key)
	case rec.register != "":
		return fmt.Sprintf("register %q: dropped unknown key %q", rec.register, key)
	}
	return fmt.Sprintf("dropped unknown top-level key %q", key)
}

// configuration reads the configuration sub-document wholesale.
func (b builder) configuration(doc *regmap.Attrs) (*regmap.Configuration, error) {
	rec := record{attrs: doc}
	v, err := rec.get(keyConfiguration)
	if err != nil {
		return nil, err
	}
	values, ok := v.(*regmap.Attrs)
	if !ok {
		return nil, rec.fail(regmap.ErrType, keyConfiguration, fmt.Sprintf("expected mapping, got %s", typeName(v)))
	}
	return regmap.ConfigurationFrom(values), nil
}

// registerMap reads name, version and the registers.
func (b builder) registerMap(doc *regmap.Attrs, config *regmap.Configuration) (*regmap.RegisterMap, error) {
	rec := record{attrs: doc}
	if err := b.unknown(rec, topLevelKeys); err != nil {
		return nil, err
	}
	name, err := rec.requireString(keyName)
	if err != nil {
		return nil, err
	}
	version, err := rec.requireString(keyVersion)
	if err != nil {
		return nil, err
	}
	width, err := config.DataWidth()
	if err != nil {
		return nil, err
	}

	items, err := sequence(rec, keyRegisters)
	if err != nil {
		return nil, err
	}

	m := regmap.New(name, version, config)
	for i, item := range items {
		attrs, ok := item.(*regmap.Attrs)
		if !ok {
			return nil, rec.fail(regmap.ErrType, keyRegisters, fmt.Sprintf("element %d: expected mapping, got %s", i, typeName(item)))
		}
		r, err := b.register(attrs, width)
		if err != nil {
			return nil, err
		}
		if err := m.AddRegister(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (b builder) register(attrs *regmap.Attrs, width uint) (*regmap.Register, error) {
	rec := record{attrs: attrs}
	name, err := rec.requireString(keyName)
	if err != nil {
		return nil, err
	}
	rec.register = name

	if err := b.unknown(rec, registerKeys); err != nil {
		return nil, err
	}
	description, err := rec.optionalString(keyDescription)
	if err != nil {
		return nil, err
	}
	address, err := rec.requireUint(keyAddress)
	if err != nil {
		return nil, err
	}
	r, err := regmap.NewRegister(name, description, address, width)
	if err != nil {
		return nil, err
	}

	items, err := sequence(rec, keyBitFields)
	if err != nil {
		return nil, err
	}
	for i, item := range items {
		fattrs, ok := item.(*regmap.Attrs)
		if !ok {
			return nil, rec.fail(regmap.ErrType, keyBitFields, fmt.Sprintf("element %d: expected mapping, got %s", i, typeName(item)))
		}
		bf, err := b.bitField(record{attrs: fattrs, register: name})
		if err != nil {
			return nil, err
		}
		if err := r.AddBitField(bf); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (b builder) bitField(rec record) (regmap.BitField, error) {
	var bf regmap.BitField
	var err error

	if bf.Name, err = rec.requireString(keyName); err != nil {
		return bf, err
	}
	rec.bitField = bf.Name

	if err = b.unknown(rec, bitFieldKeys); err != nil {
		return bf, err
	}
	if bf.Description, err = rec.optionalString(keyDescription); err != nil {
		return bf, err
	}
	if bf.Offset, err = rec.requireBits(keyOffset); err != nil {
		return bf, err
	}
	if bf.Width, err = rec.requireBits(keyWidth); err != nil {
		return bf, err
	}
	if bf.Access, err = rec.optionalString(keyAccess); err != nil {
		return bf, err
	}
	if bf.Reset, err = rec.optionalUint(keyReset); err != nil {
		return bf, err
	}
	if bf.Hardware, err = rec.optionalString(keyHardware); err != nil {
		return bf, err
	}
	return bf, nil
}

func sequence(rec record, key string) ([]any, error) {
	v, err := rec.get(key)
	if err != nil {
		return nil, err
	}
	items, ok := v.([]any)
	if !ok {
		return nil, rec.fail(regmap.ErrType, key, fmt.Sprintf("expected sequence, got %s", typeName(v)))
	}
	return items, nil
}
