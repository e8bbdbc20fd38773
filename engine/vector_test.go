package engine

import (
	"errors"
	"testing"

	spiceerr "github.com/spicelab/spice-runtime/errors"
)

func realVector(n int) *RawVector {
	data := make([]float64, n)
	for i := range data {
		data[i] = float64(i) * 0.5
	}
	return &RawVector{
		Name:   "v(out)",
		Type:   TypeVoltage,
		Flags:  FlagReal | FlagPermanent,
		Length: n,
		Real:   data,
	}
}

func TestRawVector_At(t *testing.T) {
	v := realVector(4)

	tests := []struct {
		name    string
		index   int
		want    float64
		wantOK  bool
		wantErr bool
	}{
		{"first", 0, 0.0, true, false},
		{"middle", 2, 1.0, true, false},
		{"last", 3, 1.5, true, false},
		{"past end", 4, 0, false, true},
		{"negative", -1, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := v.At(tt.index)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("At(%d) err = nil, want out of range", tt.index)
				}
				if !spiceerr.HasKind(err, spiceerr.KindOutOfRange) {
					t.Errorf("At(%d) err = %v, want out_of_range", tt.index, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("At(%d) err = %v", tt.index, err)
			}
			if ok != tt.wantOK {
				t.Errorf("At(%d) ok = %v, want %v", tt.index, ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("At(%d) = %v, want %v", tt.index, got, tt.want)
			}
		})
	}
}

func TestRawVector_At_NoRealData(t *testing.T) {
	v := &RawVector{
		Name:   "ac.v(out)",
		Type:   TypeVoltage,
		Flags:  FlagComplex,
		Length: 3,
		Comp:   []complex128{1, 2i, 3},
	}

	got, ok, err := v.At(1)
	if err != nil {
		t.Fatalf("At(1) err = %v, want nil for complex-only vector", err)
	}
	if ok {
		t.Error("At(1) ok = true, want false when no real data")
	}
	if got != 0 {
		t.Errorf("At(1) = %v, want 0", got)
	}

	// Bounds still checked even without data.
	if _, _, err := v.At(3); err == nil {
		t.Error("At(3) should fail out of range")
	}
}

func TestRawVector_Range(t *testing.T) {
	v := realVector(5)

	tests := []struct {
		name    string
		start   int
		stop    int
		wantLen int
		wantErr bool
	}{
		{"full open-ended", 0, -1, 5, false},
		{"open-ended from k", 2, -1, 3, false},
		{"open-ended from end", 5, -1, 0, false},
		{"explicit", 1, 3, 2, false},
		{"explicit to end", 0, 5, 5, false},
		{"empty when stop before start", 3, 1, 0, false},
		{"negative start", -1, 3, 0, true},
		{"start past end", 6, -1, 0, true},
		{"stop past end", 0, 6, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.Range(tt.start, tt.stop)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Range(%d, %d) err = nil, want out of range", tt.start, tt.stop)
				}
				if !spiceerr.HasKind(err, spiceerr.KindOutOfRange) {
					t.Errorf("Range err = %v, want out_of_range", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Range(%d, %d) err = %v", tt.start, tt.stop, err)
			}
			if len(got) != tt.wantLen {
				t.Errorf("Range(%d, %d) len = %d, want %d", tt.start, tt.stop, len(got), tt.wantLen)
			}
		})
	}
}

func TestRawVector_RangeCopies(t *testing.T) {
	v := realVector(3)
	got, err := v.Range(0, -1)
	if err != nil {
		t.Fatal(err)
	}
	got[0] = 99
	if v.Real[0] == 99 {
		t.Error("Range must copy, not alias the backing data")
	}
}

func TestRawVector_RangeNoRealData(t *testing.T) {
	v := &RawVector{Name: "phase", Length: 4, Flags: FlagComplex}
	got, err := v.Range(0, -1)
	if err != nil {
		t.Fatalf("err = %v, want nil", err)
	}
	if got != nil {
		t.Errorf("got %v, want nil for vector without real data", got)
	}

	// Bounds still apply.
	if _, err := v.Range(5, -1); err == nil {
		t.Error("start past end should fail even without data")
	}
	var oor *spiceerr.Error
	_, err = v.Range(5, -1)
	if !errors.As(err, &oor) || oor.Kind != spiceerr.KindOutOfRange {
		t.Errorf("err = %v, want structured out_of_range", err)
	}
}

func TestVecTypeString(t *testing.T) {
	tests := []struct {
		typ      VecType
		expected string
	}{
		{TypeNoType, "notype"},
		{TypeTime, "time"},
		{TypeVoltage, "voltage"},
		{TypeCurrent, "current"},
		{TypeCharge, "charge"},
		{VecType(99), "type(99)"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.expected {
			t.Errorf("VecType(%d).String() = %q, want %q", int(tt.typ), got, tt.expected)
		}
	}
}

func TestVecFlagsString(t *testing.T) {
	tests := []struct {
		flags    VecFlags
		expected string
	}{
		{0, "none"},
		{FlagReal, "real"},
		{FlagReal | FlagPermanent, "real|permanent"},
		{FlagComplex | FlagPlot, "complex|plot"},
	}
	for _, tt := range tests {
		if got := tt.flags.String(); got != tt.expected {
			t.Errorf("VecFlags(%#x).String() = %q, want %q", int16(tt.flags), got, tt.expected)
		}
	}
}
