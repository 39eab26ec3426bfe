package csrfile

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// record is a mapping from a document together with its location, so
// that every error names the register and bit field it came from.
type record struct {
	attrs    *regmap.Attrs
	register string
	bitField string
}

func (r record) fail(kind error, key, detail string) error {
	return &regmap.Error{Kind: kind, Register: r.register, BitField: r.bitField, Key: key, Detail: detail}
}

func (r record) get(key string) (any, error) {
	v, ok := r.attrs.Get(key)
	if !ok {
		return nil, r.fail(regmap.ErrMissingField, key, "")
	}
	return v, nil
}

func (r record) requireString(key string) (string, error) {
	v, err := r.get(key)
	if err != nil {
		return "", err
	}
	s, ok := v.(string)
	if !ok {
		return "", r.fail(regmap.ErrType, key, fmt.Sprintf("expected string, got %s", typeName(v)))
	}
	return s, nil
}

func (r record) optionalString(key string) (string, error) {
	if !r.attrs.Has(key) {
		return "", nil
	}
	return r.requireString(key)
}

func (r record) requireUint(key string) (uint64, error) {
	v, err := r.get(key)
	if err != nil {
		return 0, err
	}
	return r.toUint(key, v)
}

func (r record) optionalUint(key string) (*uint64, error) {
	v, ok := r.attrs.Get(key)
	if !ok {
		return nil, nil
	}
	u, err := r.toUint(key, v)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// toUint accepts integer numbers and strings in Go integer literal syntax
// ("0x1C", "0b101", "1_000").
func (r record) toUint(key string, v any) (uint64, error) {
	switch n := v.(type) {
	case int64:
		if n < 0 {
			return 0, r.fail(regmap.ErrRange, key, fmt.Sprintf("%d is negative", n))
		}
		return uint64(n), nil
	case uint64:
		return n, nil
	case string:
		s := strings.TrimSpace(n)
		if strings.HasPrefix(s, "-") {
			return 0, r.fail(regmap.ErrRange, key, fmt.Sprintf("%q is negative", n))
		}
		u, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return 0, r.fail(regmap.ErrType, key, fmt.Sprintf("%q is not an integer", n))
		}
		return u, nil
	}
	return 0, r.fail(regmap.ErrType, key, fmt.Sprintf("expected integer, got %s", typeName(v)))
}

func (r record) requireBits(key string) (uint, error) {
	u, err := r.requireUint(key)
	if err != nil {
		return 0, err
	}
	if u > math.MaxUint32 {
		return 0, r.fail(regmap.ErrRange, key, fmt.Sprintf("%d is too large", u))
	}
	return uint(u), nil
}

// unknownKeys returns the keys of the record that are not in known, in
// document order.
func (r record) unknownKeys(known map[string]bool) []string {
	var out []string
	r.attrs.Range(func(k string, _ any) bool {
		if !known[k] {
			out = append(out, k)
		}
		return true
	})
	return out
}

func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case int64, uint64:
		return "integer"
	case float64:
		return "float"
	case string:
		return "string"
	case []any:
		return "sequence"
	case *regmap.Attrs:
		return "mapping"
	}
	return fmt.Sprintf("%T", v)
}
