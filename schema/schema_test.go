package schema

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/value"
)

const argsTLB = `
// parameters of testFuzz_transfer
nothing$0 = Maybe;
args#_ a:int32 b:uint8 c:(## 9) d:# e:Coins f:Grams
       g:MsgAddress h:^Cell i:(#<= 1000) j:#< 16 k:int l:(uint 64)
       m:Address n:## 4 = Args;
`

func mustParse(t *testing.T, text string) *Schema {
	t.Helper()
	s, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return s
}

func TestParse_Args(t *testing.T) {
	s := mustParse(t, argsTLB)

	args, ok := s.Args()
	if !ok {
		t.Fatal("no Args constructor")
	}
	if args.Name != "args" || args.Tag != "#_" {
		t.Errorf("constructor = %s%s", args.Name, args.Tag)
	}

	want := []Field{
		{"a", "int32"}, {"b", "uint8"}, {"c", "## 9"}, {"d", "#"},
		{"e", "Coins"}, {"f", "Grams"}, {"g", "MsgAddress"}, {"h", "^Cell"},
		{"i", "#<= 1000"}, {"j", "#< 16"}, {"k", "int"}, {"l", "uint 64"},
		{"m", "Address"}, {"n", "## 4"},
	}
	if diff := cmp.Diff(want, args.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	if len(s.Constructors("Maybe")) != 1 {
		t.Error("Maybe constructor missing")
	}
}

func TestIntField(t *testing.T) {
	s := mustParse(t, argsTLB)

	tests := []struct {
		field string
		want  value.Type
	}{
		{"a", value.Int(32, true)},
		{"b", value.Int(8, false)},
		{"c", value.Int(9, false)},
		{"d", value.Int(32, false)},
		{"e", value.Int(120, false)},
		{"f", value.Int(120, false)},
		{"i", value.Int(10, false)},
		{"j", value.Int(4, false)},
		{"k", value.Int(256, true)},
		{"l", value.Int(64, false)},
		{"n", value.Int(4, false)},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, err := s.IntField(tt.field)
			if err != nil {
				t.Fatalf("IntField: %v", err)
			}
			if got != tt.want {
				t.Errorf("IntField(%s) = %+v, want %+v", tt.field, got, tt.want)
			}
		})
	}
}

func TestIntField_Errors(t *testing.T) {
	s := mustParse(t, argsTLB)

	for _, name := range []string{"g", "h", "missing"} {
		_, err := s.IntField(name)
		if !errors.Is(err, errors.ErrUnsupportedType) {
			t.Errorf("IntField(%s) error = %v", name, err)
		}
	}

	_, err := s.IntField("missing")
	var e *errors.Error
	if !errors.As(err, &e) || e.Detail != "Field missing is not of type TLBNumberType" {
		t.Errorf("detail = %v", err)
	}

	wide := mustParse(t, "_ x:uint512 = Args;")
	if _, err := wide.IntField("x"); !errors.Is(err, errors.ErrUnsupportedType) {
		t.Errorf("uint512 error = %v", err)
	}
}

func TestIsAddressField(t *testing.T) {
	s := mustParse(t, argsTLB)
	for name, want := range map[string]bool{"g": true, "m": true, "h": false, "a": false, "zz": false} {
		if got := s.IsAddressField(name); got != want {
			t.Errorf("IsAddressField(%s) = %v, want %v", name, got, want)
		}
	}
}

func TestRefineAll(t *testing.T) {
	s := mustParse(t, "_ amount:Coins to:MsgAddress body:^Cell ok:Bool = Args;")

	got, err := s.RefineAll([]value.Param{
		{Name: "amount", Type: value.Int(256, true)},
		{Name: "to", Type: value.Slice()},
		{Name: "body", Type: value.Slice()},
		{Name: "ok", Type: value.Bool()},
	})
	if err != nil {
		t.Fatalf("RefineAll: %v", err)
	}

	want := []value.Param{
		{Name: "amount", Type: value.Int(120, false)},
		{Name: "to", Type: value.Type{Kind: value.KindSlice, AddressLike: true}},
		{Name: "body", Type: value.Slice()},
		{Name: "ok", Type: value.Bool()},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("RefineAll mismatch (-want +got):\n%s", diff)
	}

	if _, err := s.RefineAll([]value.Param{{Name: "to", Type: value.Int(8, false)}}); err == nil {
		t.Error("expected error for non-numeric field")
	}
}

func TestParse_Errors(t *testing.T) {
	for _, text := range []string{
		"args a:int32 Args;",
		"args a:(int32 = Args;",
		"= Args;",
		"args a:int32 = ;",
	} {
		if _, err := Parse(text); err == nil {
			t.Errorf("Parse(%q) succeeded", text)
		}
	}
}

func TestParse_LessOrEqualBound(t *testing.T) {
	s := mustParse(t, "args#_ x:(#<= 1000) y:#<= 7 = Args;")

	args, ok := s.Args()
	if !ok {
		t.Fatal("no Args constructor")
	}
	want := []Field{{"x", "#<= 1000"}, {"y", "#<= 7"}}
	if diff := cmp.Diff(want, args.Fields); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}

	for name, bits := range map[string]int{"x": 10, "y": 3} {
		got, err := s.IntField(name)
		if err != nil {
			t.Fatalf("IntField(%s): %v", name, err)
		}
		if got != value.Int(bits, false) {
			t.Errorf("IntField(%s) = %+v, want uint%d", name, got, bits)
		}
	}
}

func TestParse_NoArgs(t *testing.T) {
	s := mustParse(t, "/* nothing */")
	if _, ok := s.Args(); ok {
		t.Error("unexpected Args")
	}
	if _, err := s.IntField("a"); err == nil {
		t.Error("expected error")
	}
}
