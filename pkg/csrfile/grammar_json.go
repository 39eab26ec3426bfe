package csrfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// jsonIndent matches the indentation of hand-written description files.
const jsonIndent = "    "

type jsonGrammar struct{}

func (jsonGrammar) decode(data []byte) (any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, parseError(FormatJSON, errors.New("empty document"))
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	root, err := readJSONValue(dec)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, parseError(FormatJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, parseError(FormatJSON, fmt.Errorf("unexpected data after document at offset %d", dec.InputOffset()))
	}
	return root, nil
}

// readJSONValue reads one value from the token stream, keeping object
// keys in document order.
func readJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			obj := regmap.NewAttrs()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", keyTok)
				}
				if obj.Has(key) {
					return nil, fmt.Errorf("duplicate key %q at offset %d", key, dec.InputOffset())
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				obj.Set(key, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return obj, nil
		case '[':
			arr := []any{}
			for dec.More() {
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, val)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		}
		return nil, fmt.Errorf("unexpected %q at offset %d", t, dec.InputOffset())
	case json.Number:
		return parseNumber(t.String())
	default:
		// string, bool or nil
		return t, nil
	}
}

func (jsonGrammar) encode(doc *regmap.Attrs) ([]byte, error) {
	var compact bytes.Buffer
	if err := writeJSONValue(&compact, doc); err != nil {
		return nil, err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", jsonIndent); err != nil {
		return nil, err
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}

func writeJSONValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(val))
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
	case uint64:
		buf.WriteString(strconv.FormatUint(val, 10))
	case float64:
		if math.IsNaN(val) || math.IsInf(val, 0) {
			return &regmap.Error{Kind: regmap.ErrType, Detail: fmt.Sprintf("%v cannot be represented in JSON", val)}
		}
		buf.WriteString(formatFloat(val))
	case string:
		b, err := json.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
	case []any:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSONValue(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *regmap.Attrs:
		buf.WriteByte('{')
		var err error
		first := true
		val.Range(func(k string, item any) bool {
			if !first {
				buf.WriteByte(',')
			}
			first = false
			if err = writeJSONValue(buf, k); err != nil {
				return false
			}
			buf.WriteByte(':')
			err = writeJSONValue(buf, item)
			return err == nil
		})
		if err != nil {
			return err
		}
		buf.WriteByte('}')
	default:
		return &regmap.Error{Kind: regmap.ErrType, Detail: fmt.Sprintf("unsupported value type %T", v)}
	}
	return nil
}
