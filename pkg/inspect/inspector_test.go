package inspect

import (
	"errors"
	"testing"

	"github.com/csrmap/csrmap-go/pkg/regmap"
)

// newTestMap creates a small UART register map for testing.
func newTestMap(t *testing.T) *regmap.RegisterMap {
	t.Helper()

	config := regmap.NewConfiguration()
	config.Set(regmap.DataWidthKey, int64(32))
	config.Set("lb_bridge", "apb")

	m := regmap.New("uart", "1.2", config)

	ctrl, err := regmap.NewRegister("CTRL", "Control register", 0x0, 32)
	if err != nil {
		t.Fatalf("NewRegister: %v", err)
	}
	one, five := uint64(1), uint64(5)
	for _, bf := range []regmap.BitField{
		{Name: "EN", Description: "Enable", Offset: 0, Width: 1, Access: regmap.AccessRW, Reset: &one},
		{Name: "BAUD", Offset: 4, Width: 4, Access: regmap.AccessRW, Reset: &five},
	} {
		if err := ctrl.AddBitField(bf); err != nil {
			t.Fatalf("AddBitField: %v", err)
		}
	}

	stat, err := regmap.NewRegister("STAT", "", 0x4, 32)
	if err != nil {
		t.Fatalf("NewRegister: %v", err)
	}
	if err := stat.AddBitField(regmap.BitField{Name: "BUSY", Offset: 0, Width: 1, Access: regmap.AccessRO, Hardware: "i"}); err != nil {
		t.Fatalf("AddBitField: %v", err)
	}

	for _, r := range []*regmap.Register{ctrl, stat} {
		if err := m.AddRegister(r); err != nil {
			t.Fatalf("AddRegister: %v", err)
		}
	}
	return m
}

func TestInspectMap(t *testing.T) {
	insp := NewInspector(newTestMap(t))
	tree := insp.InspectMap()

	if tree.Name != "uart" || tree.Version != "1.2" {
		t.Errorf("header = %q %q", tree.Name, tree.Version)
	}
	if tree.DataWidth != 32 {
		t.Errorf("DataWidth = %d, want 32", tree.DataWidth)
	}
	if len(tree.Config) != 2 || tree.Config[1].Name != "lb_bridge" {
		t.Errorf("Config = %+v", tree.Config)
	}
	if len(tree.Registers) != 2 {
		t.Fatalf("got %d registers, want 2", len(tree.Registers))
	}

	ctrl := tree.Registers[0]
	if ctrl.Name != "CTRL" || ctrl.Reset != 0x51 {
		t.Errorf("CTRL = %+v", ctrl)
	}
	if len(ctrl.BitFields) != 2 || ctrl.BitFields[1].MSB != 7 || ctrl.BitFields[1].Mask != 0xf0 {
		t.Errorf("CTRL bit fields = %+v", ctrl.BitFields)
	}
}

func TestInspectRegister(t *testing.T) {
	insp := NewInspector(newTestMap(t))

	tests := []struct {
		path       string
		wantName   string
		wantFields int
		wantErr    error
	}{
		{"CTRL", "CTRL", 2, nil},
		{"0x4", "STAT", 1, nil},
		{"4", "STAT", 1, nil},
		{"CTRL.BAUD", "CTRL", 1, nil},
		{"0x0.EN", "CTRL", 1, nil},
		{"NOPE", "", 0, ErrRegisterNotFound},
		{"0x8", "", 0, ErrRegisterNotFound},
		{"CTRL.NOPE", "", 0, ErrBitFieldNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := ParsePath(tt.path)
			if err != nil {
				t.Fatalf("ParsePath: %v", err)
			}
			info, err := insp.InspectRegister(p)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("InspectRegister: %v", err)
			}
			if info.Name != tt.wantName || len(info.BitFields) != tt.wantFields {
				t.Errorf("got %s with %d fields, want %s with %d", info.Name, len(info.BitFields), tt.wantName, tt.wantFields)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	insp := NewInspector(newTestMap(t))

	p, _ := ParsePath("CTRL")
	values, err := insp.Decode(p, 0xa1)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(values) != 2 {
		t.Fatalf("got %d values, want 2", len(values))
	}
	if values[0].Name != "EN" || values[0].Value != 1 {
		t.Errorf("EN = %+v", values[0])
	}
	if values[1].Name != "BAUD" || values[1].Value != 0xa {
		t.Errorf("BAUD = %+v", values[1])
	}

	p, _ = ParsePath("CTRL.BAUD")
	values, err = insp.Decode(p, 0x30)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(values) != 1 || values[0].Value != 3 {
		t.Errorf("values = %+v", values)
	}

	p, _ = ParsePath("CTRL")
	if _, err := insp.Decode(p, 1<<32); !errors.Is(err, ErrValueTooWide) {
		t.Errorf("error = %v, want ErrValueTooWide", err)
	}
}

func TestInspectorParsePathMatchesRegisterNames(t *testing.T) {
	m := newTestMap(t)
	for i, name := range []string{"1ST", "uart.ctrl"} {
		r, err := regmap.NewRegister(name, "", uint64(0x10+4*i), 32)
		if err != nil {
			t.Fatalf("NewRegister: %v", err)
		}
		if err := r.AddBitField(regmap.BitField{Name: "GO", Offset: 0, Width: 1}); err != nil {
			t.Fatalf("AddBitField: %v", err)
		}
		if err := m.AddRegister(r); err != nil {
			t.Fatalf("AddRegister: %v", err)
		}
	}
	insp := NewInspector(m)

	tests := []struct {
		input      string
		wantName   string
		wantFields int
	}{
		{"1ST", "1ST", 1},
		{"1ST.GO", "1ST", 1},
		{"uart.ctrl", "uart.ctrl", 1},
		{"uart.ctrl.GO", "uart.ctrl", 1},
		{"CTRL.EN", "CTRL", 1},
		{"0x4", "STAT", 1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			p, err := insp.ParsePath(tt.input)
			if err != nil {
				t.Fatalf("ParsePath: %v", err)
			}
			info, err := insp.InspectRegister(p)
			if err != nil {
				t.Fatalf("InspectRegister: %v", err)
			}
			if info.Name != tt.wantName || len(info.BitFields) != tt.wantFields {
				t.Errorf("got %s with %d fields, want %s with %d", info.Name, len(info.BitFields), tt.wantName, tt.wantFields)
			}
		})
	}

	if _, err := insp.ParsePath("uart.nope.GO"); err == nil {
		t.Error("expected error for unknown dotted path")
	}
}
