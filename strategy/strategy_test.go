package strategy

import (
	"math/big"
	"testing"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/value"
)

// pinned always returns the same draws.
type pinned struct {
	n int
	u uint64
}

func (p pinned) IntN(n int) int {
	if p.n >= n {
		return n - 1
	}
	return p.n
}

func (p pinned) Uint64() uint64 { return p.u }

func TestRandomInt_InDomain(t *testing.T) {
	src := NewSource(42)

	for _, bits := range []int{2, 7, 8, 63, 64, 65, 120, 256} {
		for _, signed := range []bool{true, false} {
			typ := value.Int(bits, signed)
			t.Run(typ.String(), func(t *testing.T) {
				for i := 0; i < 500; i++ {
					v := RandomInt(src, bits, signed)
					if !typ.Contains(v) {
						t.Fatalf("draw %d: %s outside %s", i, v, typ.Domain())
					}
				}
			})
		}
	}
}

func TestInt_PinnedBelowEdgeThreshold(t *testing.T) {
	for _, n := range []int{0, 3, EdgeWeight - 1} {
		src := pinned{n: n, u: ^uint64(0)}
		p := value.Param{Name: "x", Type: value.Int(16, true)}

		v, err := Int(src, p, nil)
		if err != nil {
			t.Fatalf("Int: %v", err)
		}

		found := false
		for _, e := range value.EdgeCases(16, true) {
			if e.Cmp(v.Int) == 0 {
				found = true
			}
		}
		if !found {
			t.Errorf("n=%d: %s is not an edge case", n, v.Int)
		}
	}
}

func TestInt_PinnedAboveEdgeThreshold(t *testing.T) {
	src := pinned{n: EdgeWeight, u: 0x1234}
	p := value.Param{Name: "x", Type: value.Int(64, false)}

	v, err := Int(src, p, nil)
	if err != nil {
		t.Fatalf("Int: %v", err)
	}
	if v.Int.Uint64() != 0x1234 {
		t.Errorf("random draw = %s, want 4660", v.Int)
	}
}

func TestInt_FixtureSampling(t *testing.T) {
	src := NewSource(7)
	p := value.Param{Name: "amount", Type: value.Int(8, false)}
	fixtures := []value.Value{
		value.IntValue(big.NewInt(3)),
		value.IntValue(big.NewInt(1000)), // out of the declared width on purpose
	}

	for i := 0; i < 100; i++ {
		v, err := Int(src, p, fixtures)
		if err != nil {
			t.Fatalf("Int: %v", err)
		}
		if !v.Equal(fixtures[0]) && !v.Equal(fixtures[1]) {
			t.Fatalf("draw %s is not a fixture", v.Int)
		}
	}
}

func TestFixtureTypeMismatch(t *testing.T) {
	src := NewSource(1)
	c, err := value.AddressCell(value.StdAddress(0, make([]byte, 32)))
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		param    value.Param
		fixtures []value.Value
		gotKind  string
	}{
		{
			name:     "int with slice fixture",
			param:    value.Param{Name: "a", Type: value.Int(32, true)},
			fixtures: []value.Value{value.IntValue(big.NewInt(1)), value.SliceValue(c)},
			gotKind:  "slice",
		},
		{
			name:     "slice with int fixture",
			param:    value.Param{Name: "s", Type: value.Slice()},
			fixtures: []value.Value{value.IntValue(big.NewInt(1))},
			gotKind:  "int",
		},
		{
			name:     "address with bool fixture",
			param:    value.Param{Name: "to", Type: value.Address()},
			fixtures: []value.Value{value.BoolValue(true)},
			gotKind:  "int",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Draw(src, tt.param, tt.fixtures)
			if !errors.Is(err, errors.ErrFixtureTypeMismatch) {
				t.Fatalf("error = %v, want fixture type mismatch", err)
			}
			var e *errors.Error
			if !errors.As(err, &e) {
				t.Fatalf("error is %T", err)
			}
			if e.Value != tt.gotKind {
				t.Errorf("offending kind = %v, want %s", e.Value, tt.gotKind)
			}
			if len(e.Path) != 1 || e.Path[0] != tt.param.Name {
				t.Errorf("path = %v", e.Path)
			}
		})
	}
}

func TestBool(t *testing.T) {
	src := NewSource(3)
	p := value.Param{Name: "flag", Type: value.Bool()}
	seen := map[bool]int{}

	for i := 0; i < 200; i++ {
		v, err := Bool(src, p, nil)
		if err != nil {
			t.Fatal(err)
		}
		if v.Int.Sign() < 0 || v.Int.Cmp(big.NewInt(1)) > 0 {
			t.Fatalf("bool draw = %s", v.Int)
		}
		seen[v.Bool()]++
	}
	if seen[true] == 0 || seen[false] == 0 {
		t.Errorf("coin never landed both sides: %v", seen)
	}
}

func TestEdgeAddresses_Classes(t *testing.T) {
	want := []string{value.ClassNone, value.ClassExternal, value.ClassExternal}
	for i, a := range EdgeAddresses() {
		c, err := value.AddressCell(a)
		if err != nil {
			t.Fatalf("edge %d: %v", i, err)
		}
		decoded, err := value.AddressValue(c).Address()
		if err != nil {
			t.Fatalf("edge %d: %v", i, err)
		}
		if got := value.AddressClass(decoded); got != want[i] {
			t.Errorf("edge %d class = %s, want %s", i, got, want[i])
		}
	}
}

func TestRandomAddress_Workchains(t *testing.T) {
	src := NewSource(11)
	seen := map[int32]bool{}
	for i := 0; i < 100; i++ {
		a := RandomAddress(src)
		if a.Workchain() != 0 && a.Workchain() != -1 {
			t.Fatalf("workchain %d", a.Workchain())
		}
		seen[a.Workchain()] = true
	}
	if len(seen) != 2 {
		t.Errorf("workchains seen = %v", seen)
	}
}

func TestRandomSlice_Limits(t *testing.T) {
	src := NewSource(5)
	for i := 0; i < 100; i++ {
		c, err := RandomSlice(src)
		if err != nil {
			t.Fatalf("RandomSlice: %v", err)
		}
		if c.BitsSize() > MaxSliceBytes*8 || c.BitsSize()%8 != 0 {
			t.Fatalf("bits = %d", c.BitsSize())
		}
		if c.RefsNum() > MaxSliceRefs {
			t.Fatalf("refs = %d", c.RefsNum())
		}
	}
}

func TestColumn(t *testing.T) {
	p := value.Param{Name: "n", Type: value.Int(8, true)}

	col, err := Column(NewSource(9), p, nil, 20)
	if err != nil {
		t.Fatalf("Column: %v", err)
	}
	if len(col) != 20 {
		t.Fatalf("len = %d", len(col))
	}
	for _, e := range value.EdgeCases(8, true) {
		found := false
		for _, v := range col {
			if v.Int.Cmp(e) == 0 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("edge %s missing from column", e)
		}
	}

	again, err := Column(NewSource(9), p, nil, 20)
	if err != nil {
		t.Fatal(err)
	}
	for i := range col {
		if !col[i].Equal(again[i]) {
			t.Fatalf("same seed produced different columns at %d", i)
		}
	}
}

func TestColumn_TruncatesEdges(t *testing.T) {
	col, err := Column(NewSource(1), value.Param{Name: "n", Type: value.Int(256, true)}, nil, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(col) != 2 {
		t.Fatalf("len = %d, want 2", len(col))
	}
}

func TestColumns_UnsupportedType(t *testing.T) {
	params := []value.Param{
		{Name: "a", Type: value.Int(8, true)},
		{Name: "b", Type: value.Type{Kind: value.KindInt, Bits: 512, Signed: true}},
	}

	_, err := Columns(NewSource(1), params, nil, 10)
	if !errors.Is(err, errors.ErrUnsupportedType) {
		t.Fatalf("error = %v, want unsupported type", err)
	}
	var e *errors.Error
	if errors.As(err, &e) && (len(e.Path) != 1 || e.Path[0] != "b") {
		t.Errorf("path = %v, want [b]", e.Path)
	}
}

func TestWrapGenerate_DetailVerbatim(t *testing.T) {
	cause := errors.New(errors.PhaseGenerate, errors.KindInvalidData).Detail("boom").Build()
	err := wrapGenerate(value.Param{Name: "s"}, "fill 100%s of %d bits", cause)

	var e *errors.Error
	if !errors.As(err, &e) {
		t.Fatalf("error is %T", err)
	}
	if e.Detail != "fill 100%s of %d bits" {
		t.Errorf("detail = %q", e.Detail)
	}
	if len(e.Path) != 1 || e.Path[0] != "s" {
		t.Errorf("path = %v", e.Path)
	}
	if e.Cause != cause {
		t.Errorf("cause = %v", e.Cause)
	}
}

func TestShuffle_Permutation(t *testing.T) {
	s := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	Shuffle(NewSource(2), s)

	seen := make(map[int]bool)
	for _, v := range s {
		seen[v] = true
	}
	if len(seen) != 10 {
		t.Errorf("shuffle lost elements: %v", s)
	}
}
