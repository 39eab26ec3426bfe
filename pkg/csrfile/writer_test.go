package csrfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csrmap/csrmap-go/pkg/csrfile"
	"github.com/csrmap/csrmap-go/pkg/regmap"
)

var allFormats = []csrfile.Format{csrfile.FormatJSON, csrfile.FormatYAML, csrfile.FormatCBOR}

// wideMap exercises 64-bit registers, values above MaxInt64 and every
// optional bit-field key.
func wideMap(t *testing.T) *regmap.RegisterMap {
	t.Helper()
	config := regmap.NewConfiguration()
	config.Set(regmap.DataWidthKey, int64(64))
	config.Set("ratio", 0.25)
	config.Set("integral_float", 3.0)
	config.Set("enabled", false)
	config.Set("tags", []any{"a", int64(-1), nil})

	m := regmap.New("wide", "2.0", config)
	top := ^uint64(0)
	r, err := regmap.NewRegister("COUNTER", "Free running counter", 0xffff_ffff_0000_0000, 64)
	require.NoError(t, err)
	require.NoError(t, r.AddBitField(regmap.BitField{
		Name: "VALUE", Description: "Count", Offset: 0, Width: 64,
		Access: regmap.AccessRO, Reset: &top, Hardware: "i",
	}))
	require.NoError(t, m.AddRegister(r))
	return m
}

func TestRoundTripAllFormats(t *testing.T) {
	sample, err := csrfile.ReadFile(filepath.Join(sampleDir, "uart.json"))
	require.NoError(t, err)

	models := map[string]*regmap.RegisterMap{
		"uart": sample,
		"wide": wideMap(t),
	}

	for name, m := range models {
		for _, format := range allFormats {
			t.Run(name+"/"+format.String(), func(t *testing.T) {
				path := filepath.Join(t.TempDir(), "map"+format.Extension())
				require.NoError(t, csrfile.WriteFile(path, m))

				got, err := csrfile.ReadFile(path)
				require.NoError(t, err)
				requireSameModel(t, m, got)

				// Writing the re-read model again yields the same bytes.
				first, err := os.ReadFile(path)
				require.NoError(t, err)
				second, err := csrfile.Encode(got, format)
				require.NoError(t, err)
				assert.Equal(t, string(first), string(second))
			})
		}
	}
}

func TestRoundTripMinimalDocument(t *testing.T) {
	m, err := csrfile.NewReader().ReadBytes([]byte(minimalJSON), csrfile.FormatJSON)
	require.NoError(t, err)

	for _, format := range allFormats {
		data, err := csrfile.Encode(m, format)
		require.NoError(t, err)
		got, err := csrfile.NewReader().ReadBytes(data, format)
		require.NoError(t, err, format.String())
		requireSameModel(t, m, got)
	}
}

func TestWriteJSONLayout(t *testing.T) {
	m, err := csrfile.NewReader().ReadBytes([]byte(minimalJSON), csrfile.FormatJSON)
	require.NoError(t, err)

	data, err := csrfile.Encode(m, csrfile.FormatJSON)
	require.NoError(t, err)

	want := `{
    "name": "m",
    "version": "1.0",
    "configuration": {},
    "registers": [
        {
            "name": "CTRL",
            "description": "",
            "address": 0,
            "bit_fields": [
                {
                    "name": "EN",
                    "description": "",
                    "offset": 0,
                    "width": 1
                }
            ]
        }
    ]
}
`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("JSON output mismatch (-want +got):\n%s", diff)
	}
}

func TestWritePreservesOrder(t *testing.T) {
	m := regmap.New("m", "1", nil)
	b, err := regmap.NewRegister("B", "", 4, 32)
	require.NoError(t, err)
	require.NoError(t, b.AddBitField(regmap.BitField{Name: "f2", Offset: 4, Width: 4}))
	require.NoError(t, b.AddBitField(regmap.BitField{Name: "f1", Offset: 0, Width: 4}))
	a, err := regmap.NewRegister("A", "", 0, 32)
	require.NoError(t, err)
	require.NoError(t, m.AddRegister(b))
	require.NoError(t, m.AddRegister(a))

	for _, format := range []csrfile.Format{csrfile.FormatJSON, csrfile.FormatYAML} {
		data, err := csrfile.Encode(m, format)
		require.NoError(t, err)
		text := string(data)

		assert.Less(t, strings.Index(text, "B"), strings.Index(text, "A"), format.String())
		assert.Less(t, strings.Index(text, "f2"), strings.Index(text, "f1"), format.String())
	}
}

func TestWriteYAMLHasNoAliases(t *testing.T) {
	shared := regmap.NewAttrs()
	shared.Set("type", "apb")

	config := regmap.NewConfiguration()
	config.Set("primary", shared)
	config.Set("secondary", shared)
	list := []any{"x", "y"}
	config.Set("l1", list)
	config.Set("l2", list)
	m := regmap.New("m", "1", config)

	data, err := csrfile.Encode(m, csrfile.FormatYAML)
	require.NoError(t, err)
	text := string(data)

	assert.NotContains(t, text, "&")
	assert.NotContains(t, text, "*")
	assert.Equal(t, 2, strings.Count(text, "type: apb"))
	assert.Contains(t, text, `version: "1"`)
}

func TestWriteQuotesAmbiguousYAMLStrings(t *testing.T) {
	config := regmap.NewConfiguration()
	config.Set("looks_numeric", "0x10")
	config.Set("looks_bool", "true")
	config.Set("looks_null", "null")
	m := regmap.New("m", "1.0", config)

	data, err := csrfile.Encode(m, csrfile.FormatYAML)
	require.NoError(t, err)
	got, err := csrfile.NewReader().ReadBytes(data, csrfile.FormatYAML)
	require.NoError(t, err)

	for _, key := range []string{"looks_numeric", "looks_bool", "looks_null"} {
		v, _ := got.Config().Get(key)
		assert.IsType(t, "", v, key)
	}
	assert.Equal(t, "1.0", got.Version())
}

func TestWriteRejectsUnrepresentableJSON(t *testing.T) {
	config := regmap.NewConfiguration()
	config.Set("bad", []any{1.0, posInf()})
	m := regmap.New("m", "1", config)

	_, err := csrfile.Encode(m, csrfile.FormatJSON)
	assert.ErrorIs(t, err, regmap.ErrType)

	// YAML can carry it.
	_, err = csrfile.Encode(m, csrfile.FormatYAML)
	assert.NoError(t, err)
}

func TestWriteUnsupportedConfigValue(t *testing.T) {
	config := regmap.NewConfiguration()
	config.Set("ch", make(chan int))
	m := regmap.New("m", "1", config)

	err := csrfile.WriteFile(filepath.Join(t.TempDir(), "m.json"), m)
	assert.ErrorIs(t, err, regmap.ErrType)
}

func TestWriteNormalizesNativeValues(t *testing.T) {
	config := regmap.NewConfiguration()
	config.Set("n", 7)
	config.Set("names", []string{"a", "b"})
	config.Set("plain", map[string]any{"z": uint8(1), "a": float32(0.5)})
	m := regmap.New("m", "1", config)

	data, err := csrfile.Encode(m, csrfile.FormatJSON)
	require.NoError(t, err)
	got, err := csrfile.NewReader().ReadBytes(data, csrfile.FormatJSON)
	require.NoError(t, err)

	n, _ := got.Config().Get("n")
	assert.Equal(t, int64(7), n)
	plain, _ := got.Config().Get("plain")
	assert.Equal(t, []string{"a", "z"}, plain.(*regmap.Attrs).Keys())
}

func TestWriteFileErrors(t *testing.T) {
	m := regmap.New("m", "1", nil)

	err := csrfile.WriteFile(filepath.Join(t.TempDir(), "m.txt"), m)
	assert.ErrorIs(t, err, csrfile.ErrFormat)

	err = csrfile.WriteFile(filepath.Join(t.TempDir(), "no", "such", "dir", "m.json"), m)
	assert.ErrorIs(t, err, csrfile.ErrIO)
	assert.Equal(t, "i/o error", csrfile.ErrorKind(err))

	w := csrfile.NewWriter()
	w.Format = csrfile.FormatYAML
	path := filepath.Join(t.TempDir(), "m.txt")
	require.NoError(t, w.WriteFile(path, m))
	got, err := (&csrfile.Reader{Format: csrfile.FormatYAML}).ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "m", got.Name())
}
