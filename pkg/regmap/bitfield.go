package regmap

import "fmt"

// Access modes commonly used in CSR descriptions. The model stores the
// access mode as given and does not restrict it to this list.
const (
	AccessRW   = "rw"
	AccessRO   = "ro"
	AccessWO   = "wo"
	AccessRW1C = "rw1c"
	AccessRW1S = "rw1s"
	AccessROC  = "roc"
	AccessWOSC = "wosc"
)

// BitField is a named, contiguous range of bits inside a register.
type BitField struct {
	Name        string
	Description string

	// Offset is the position of the least significant bit.
	Offset uint

	// Width is the number of bits, at least 1.
	Width uint

	// Access is the access mode, empty when not given.
	Access string

	// Reset is the reset value, nil when not given.
	Reset *uint64

	// Hardware describes the hardware-side interface, empty when not given.
	Hardware string
}

// NewBitField creates a bit field with the structurally required attributes.
func NewBitField(name string, offset, width uint) (BitField, error) {
	bf := BitField{Name: name, Offset: offset, Width: width}
	if err := bf.validate(); err != nil {
		return BitField{}, err
	}
	return bf, nil
}

func (bf BitField) validate() error {
	if bf.Name == "" {
		return &Error{Kind: ErrMissingField, Key: "name", Detail: "bit field name is empty"}
	}
	if bf.Width == 0 {
		return &Error{Kind: ErrRange, BitField: bf.Name, Key: "width", Detail: "width must be at least 1"}
	}
	if bf.Reset != nil && bf.Width < 64 && *bf.Reset>>bf.Width != 0 {
		return &Error{Kind: ErrRange, BitField: bf.Name, Key: "reset",
			Detail: fmt.Sprintf("reset value %#x does not fit in %d bits", *bf.Reset, bf.Width)}
	}
	return nil
}

// LSB returns the index of the least significant bit.
func (bf BitField) LSB() uint {
	return bf.Offset
}

// MSB returns the index of the most significant bit.
func (bf BitField) MSB() uint {
	return bf.Offset + bf.Width - 1
}

// Mask returns the in-register mask covered by the field.
func (bf BitField) Mask() uint64 {
	if bf.Width >= 64 {
		return ^uint64(0) << bf.Offset
	}
	return ((uint64(1) << bf.Width) - 1) << bf.Offset
}

// overlaps reports whether the two fields share at least one bit.
func (bf BitField) overlaps(other BitField) bool {
	return bf.Offset < other.Offset+other.Width && other.Offset < bf.Offset+bf.Width
}

// String returns a short description such as "EN[0]" or "MODE[5:2]".
func (bf BitField) String() string {
	if bf.Width == 1 {
		return fmt.Sprintf("%s[%d]", bf.Name, bf.Offset)
	}
	return fmt.Sprintf("%s[%d:%d]", bf.Name, bf.MSB(), bf.LSB())
}
