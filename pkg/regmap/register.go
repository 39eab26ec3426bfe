package regmap

import "fmt"

// Register is an ordered collection of bit fields at a fixed address.
// Bit fields keep the order in which they were added.
type Register struct {
	name        string
	description string
	address     uint64
	width       uint

	fields []BitField
	byName map[string]int
}

// NewRegister creates an empty register. width is the register width in
// bits, usually taken from Configuration.DataWidth.
func NewRegister(name, description string, address uint64, width uint) (*Register, error) {
	if name == "" {
		return nil, &Error{Kind: ErrMissingField, Key: "name", Detail: "register name is empty"}
	}
	if width == 0 || width > 64 {
		return nil, &Error{Kind: ErrRange, Register: name, Detail: fmt.Sprintf("register width %d is outside 1..64", width)}
	}
	return &Register{
		name:        name,
		description: description,
		address:     address,
		width:       width,
		byName:      make(map[string]int),
	}, nil
}

// Name returns the register name.
func (r *Register) Name() string { return r.name }

// Description returns the register description.
func (r *Register) Description() string { return r.description }

// Address returns the register address.
func (r *Register) Address() uint64 { return r.address }

// Width returns the register width in bits.
func (r *Register) Width() uint { return r.width }

// AddBitField appends a bit field. It fails if the field does not fit in
// the register, reuses a name, or overlaps a field added earlier.
func (r *Register) AddBitField(bf BitField) error {
	if err := bf.validate(); err != nil {
		return inRegister(err, r.name)
	}
	if bf.Offset+bf.Width > r.width {
		return &Error{Kind: ErrRange, Register: r.name, BitField: bf.Name,
			Detail: fmt.Sprintf("bits [%d:%d] exceed register width %d", bf.MSB(), bf.LSB(), r.width)}
	}
	if _, ok := r.byName[bf.Name]; ok {
		return &Error{Kind: ErrDuplicateName, Register: r.name, BitField: bf.Name}
	}
	for _, existing := range r.fields {
		if bf.overlaps(existing) {
			return &Error{Kind: ErrOverlap, Register: r.name, BitField: bf.Name,
				Detail: fmt.Sprintf("%s overlaps %s", bf, existing)}
		}
	}

	r.byName[bf.Name] = len(r.fields)
	r.fields = append(r.fields, bf)
	return nil
}

// BitFields returns the bit fields in insertion order.
func (r *Register) BitFields() []BitField {
	out := make([]BitField, len(r.fields))
	copy(out, r.fields)
	return out
}

// BitField returns the bit field with the given name.
func (r *Register) BitField(name string) (BitField, bool) {
	i, ok := r.byName[name]
	if !ok {
		return BitField{}, false
	}
	return r.fields[i], true
}

// Len returns the number of bit fields.
func (r *Register) Len() int {
	return len(r.fields)
}

// ResetValue combines the reset values of all bit fields. Fields without a
// reset value contribute zeros.
func (r *Register) ResetValue() uint64 {
	var v uint64
	for _, bf := range r.fields {
		if bf.Reset != nil {
			v |= (*bf.Reset << bf.Offset) & bf.Mask()
		}
	}
	return v
}
