package regmap

import "fmt"

// DataWidthKey is the configuration option holding the register width in bits.
const DataWidthKey = "data_width"

// DefaultDataWidth is used when the configuration has no data_width option.
const DefaultDataWidth = 32

// Configuration holds the build/generation options of a register map.
// Option values are not interpreted here, apart from data_width.
type Configuration struct {
	values *Attrs
}

// NewConfiguration creates an empty configuration.
func NewConfiguration() *Configuration {
	return &Configuration{values: NewAttrs()}
}

// ConfigurationFrom creates a configuration holding a copy of values.
func ConfigurationFrom(values *Attrs) *Configuration {
	if values == nil {
		return NewConfiguration()
	}
	return &Configuration{values: values.Clone()}
}

// Get returns the value of an option.
func (c *Configuration) Get(name string) (any, bool) {
	return c.values.Get(name)
}

// Set sets an option.
func (c *Configuration) Set(name string, value any) {
	c.values.Set(name, value)
}

// Names returns the option names in document order.
func (c *Configuration) Names() []string {
	return c.values.Keys()
}

// Len returns the number of options.
func (c *Configuration) Len() int {
	return c.values.Len()
}

// Values returns a copy of all options.
func (c *Configuration) Values() *Attrs {
	return c.values.Clone()
}

// DataWidth returns the register width in bits. Valid widths are 8, 16,
// 32 and 64.
func (c *Configuration) DataWidth() (uint, error) {
	v, ok := c.values.Get(DataWidthKey)
	if !ok {
		return DefaultDataWidth, nil
	}
	var w uint64
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return 0, &Error{Kind: ErrRange, Key: DataWidthKey, Detail: fmt.Sprintf("%d is negative", n)}
		}
		w = uint64(n)
	case uint64:
		w = n
	default:
		return 0, &Error{Kind: ErrType, Key: DataWidthKey, Detail: fmt.Sprintf("expected integer, got %T", v)}
	}
	switch w {
	case 8, 16, 32, 64:
		return uint(w), nil
	}
	return 0, &Error{Kind: ErrRange, Key: DataWidthKey, Detail: fmt.Sprintf("%d is not one of 8, 16, 32, 64", w)}
}
