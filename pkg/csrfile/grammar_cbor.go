package csrfile

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// CBOR major types used for containers.
const (
	cborMajorArray = 4
	cborMajorMap   = 5
)

// snapshotEncMode encodes scalars. Containers are written by hand so that
// map keys keep document order instead of being sorted.
var snapshotEncMode cbor.EncMode

var snapshotDecMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
	}
	snapshotEncMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR encoder mode: %v", err))
	}

	decOpts := cbor.DecOptions{
		DupMapKey:   cbor.DupMapKeyEnforcedAPF,
		IndefLength: cbor.IndefLengthForbidden,
	}
	snapshotDecMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create snapshot CBOR decoder mode: %v", err))
	}
}

type cborGrammar struct{}

func (cborGrammar) decode(data []byte) (any, error) {
	if len(data) == 0 {
		return nil, parseError(FormatCBOR, errors.New("empty document"))
	}
	if err := snapshotDecMode.Wellformed(data); err != nil {
		return nil, parseError(FormatCBOR, err)
	}
	v, err := cborValue(data)
	if err != nil {
		return nil, parseError(FormatCBOR, err)
	}
	return v, nil
}

// cborValue decodes one well-formed data item. Maps are walked pair by
// pair to keep their key order.
func cborValue(raw []byte) (any, error) {
	major := raw[0] >> 5
	if major != cborMajorMap && major != cborMajorArray {
		var v any
		if err := snapshotDecMode.Unmarshal(raw, &v); err != nil {
			return nil, err
		}
		return cborScalar(v)
	}

	n, headLen, err := cborHead(raw)
	if err != nil {
		return nil, err
	}
	dec := snapshotDecMode.NewDecoder(bytes.NewReader(raw[headLen:]))

	next := func() (any, error) {
		var item cbor.RawMessage
		if err := dec.Decode(&item); err != nil {
			return nil, err
		}
		return cborValue(item)
	}

	if major == cborMajorArray {
		out := make([]any, 0, n)
		for i := uint64(0); i < n; i++ {
			v, err := next()
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}

	m := regmap.NewAttrs()
	for i := uint64(0); i < n; i++ {
		var key string
		if err := dec.Decode(&key); err != nil {
			return nil, fmt.Errorf("map key: %w", err)
		}
		if m.Has(key) {
			return nil, fmt.Errorf("duplicate key %q", key)
		}
		v, err := next()
		if err != nil {
			return nil, err
		}
		m.Set(key, v)
	}
	return m, nil
}

func cborScalar(v any) (any, error) {
	switch val := v.(type) {
	case nil, bool, string, int64, float64:
		return val, nil
	case uint64:
		return intValue(val), nil
	}
	return nil, fmt.Errorf("unsupported CBOR item of type %T", v)
}

// cborHead returns the element count of a definite-length container and
// the size of its head.
func cborHead(raw []byte) (n uint64, headLen int, err error) {
	info := raw[0] & 0x1f
	switch {
	case info < 24:
		return uint64(info), 1, nil
	case info == 24 && len(raw) >= 2:
		return uint64(raw[1]), 2, nil
	case info == 25 && len(raw) >= 3:
		return uint64(binary.BigEndian.Uint16(raw[1:3])), 3, nil
	case info == 26 && len(raw) >= 5:
		return uint64(binary.BigEndian.Uint32(raw[1:5])), 5, nil
	case info == 27 && len(raw) >= 9:
		return binary.BigEndian.Uint64(raw[1:9]), 9, nil
	}
	return 0, 0, fmt.Errorf("unsupported container head %#x", raw[0])
}

func appendCBORHead(buf *bytes.Buffer, major byte, n uint64) {
	m := major << 5
	switch {
	case n < 24:
		buf.WriteByte(m | byte(n))
	case n <= 0xff:
		buf.WriteByte(m | 24)
		buf.WriteByte(byte(n))
	case n <= 0xffff:
		buf.WriteByte(m | 25)
		buf.Write(binary.BigEndian.AppendUint16(nil, uint16(n)))
	case n <= 0xffffffff:
		buf.WriteByte(m | 26)
		buf.Write(binary.BigEndian.AppendUint32(nil, uint32(n)))
	default:
		buf.WriteByte(m | 27)
		buf.Write(binary.BigEndian.AppendUint64(nil, n))
	}
}

func (cborGrammar) encode(doc *regmap.Attrs) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeCBORValue(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeCBORValue(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case []any:
		appendCBORHead(buf, cborMajorArray, uint64(len(val)))
		for _, item := range val {
			if err := writeCBORValue(buf, item); err != nil {
				return err
			}
		}
		return nil
	case *regmap.Attrs:
		appendCBORHead(buf, cborMajorMap, uint64(val.Len()))
		var err error
		val.Range(func(k string, item any) bool {
			if err = writeCBORValue(buf, k); err != nil {
				return false
			}
			err = writeCBORValue(buf, item)
			return err == nil
		})
		return err
	case nil, bool, int64, uint64, float64, string:
		b, err := snapshotEncMode.Marshal(val)
		if err != nil {
			return err
		}
		buf.Write(b)
		return nil
	}
	return &regmap.Error{Kind: regmap.ErrType, Detail: fmt.Sprintf("unsupported value type %T", v)}
}
