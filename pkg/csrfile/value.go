package csrfile

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// normalize converts a Go value into the document tree used by all
// grammars: nil, bool, int64, uint64 (above MaxInt64 only), float64,
// string, []any and *regmap.Attrs. Plain maps are converted with sorted keys.
func normalize(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string, float64:
		return val, nil
	case int64:
		return val, nil
	case uint64:
		return intValue(val), nil
	case int:
		return int64(val), nil
	case int8:
		return int64(val), nil
	case int16:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint:
		return intValue(uint64(val)), nil
	case uint8:
		return int64(val), nil
	case uint16:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case float32:
		return float64(val), nil
	case []string:
		out := make([]any, len(val))
		for i, s := range val {
			out[i] = s
		}
		return out, nil
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			n, err := normalize(item)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case *regmap.Attrs:
		out := regmap.NewAttrs()
		var err error
		val.Range(func(k string, item any) bool {
			var n any
			if n, err = normalize(item); err != nil {
				return false
			}
			out.Set(k, n)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := regmap.NewAttrs()
		for _, k := range keys {
			n, err := normalize(val[k])
			if err != nil {
				return nil, err
			}
			out.Set(k, n)
		}
		return out, nil
	}
	return nil, &regmap.Error{Kind: regmap.ErrType, Detail: fmt.Sprintf("unsupported value type %T", v)}
}

// intValue stores integers as int64 whenever they fit.
func intValue(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

// formatFloat renders f so that it reads back as a float, never as an
// integer: integral values get a ".0" suffix.
func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}

// parseNumber converts a textual number into int64, uint64 or float64.
func parseNumber(s string) (any, error) {
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		if u, err := strconv.ParseUint(s, 10, 64); err == nil {
			return u, nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return f, nil
}
