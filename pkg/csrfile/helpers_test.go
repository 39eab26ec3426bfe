package csrfile_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// sampleDir holds the sample maps shared with the command tests.
const sampleDir = "../../testdata/maps"

// modelOpts compares register maps field by field, including the
// unexported lookup indexes.
var modelOpts = []cmp.Option{
	cmp.AllowUnexported(regmap.RegisterMap{}, regmap.Register{}, regmap.Configuration{}, regmap.Attrs{}),
	cmpopts.EquateEmpty(),
}

func requireSameModel(t *testing.T, want, got *regmap.RegisterMap) {
	t.Helper()
	if diff := cmp.Diff(want, got, modelOpts...); diff != "" {
		t.Fatalf("register map mismatch (-want +got):\n%s", diff)
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func registerNames(m *regmap.RegisterMap) []string {
	var names []string
	for _, r := range m.Registers() {
		names = append(names, r.Name())
	}
	return names
}

func bitFieldNames(r *regmap.Register) []string {
	var names []string
	for _, bf := range r.BitFields() {
		names = append(names, bf.Name)
	}
	return names
}

func posInf() float64 { return math.Inf(1) }

func cmpDiffAttrs(a, b *regmap.Attrs) string {
	return cmp.Diff(a, b, modelOpts...)
}
