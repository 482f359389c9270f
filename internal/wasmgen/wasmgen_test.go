package wasmgen

import (
	"bytes"
	"testing"
)

func TestEncode_Header(t *testing.T) {
	got := New().Encode()
	want := []byte{0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("empty module = % x, want % x", got, want)
	}
}

func TestEncode_ExportedConst(t *testing.T) {
	m := New()
	m.Func("answer", nil, []ValType{I32}, nil, I32Const(42))
	got := m.Encode()

	want := []byte{
		0x00, 0x61, 0x73, 0x6D, 0x01, 0x00, 0x00, 0x00,
		0x01, 0x05, 0x01, 0x60, 0x00, 0x01, 0x7F, // type: () -> i32
		0x03, 0x02, 0x01, 0x00, // function: type 0
		0x07, 0x0A, 0x01, 0x06, 'a', 'n', 's', 'w', 'e', 'r', 0x00, 0x00, // export
		0x0A, 0x06, 0x01, 0x04, 0x00, 0x41, 0x2A, 0x0B, // code
	}
	if !bytes.Equal(got, want) {
		t.Errorf("module =\n% x\nwant\n% x", got, want)
	}
}

func TestWriteS64(t *testing.T) {
	tests := []struct {
		v    int64
		want []byte
	}{
		{0, []byte{0x00}},
		{-1, []byte{0x7f}},
		{63, []byte{0x3f}},
		{64, []byte{0xc0, 0x00}},
		{-65, []byte{0xbf, 0x7f}},
	}
	for _, tt := range tests {
		w := &writer{}
		w.WriteS64(tt.v)
		if !bytes.Equal(w.Bytes(), tt.want) {
			t.Errorf("WriteS64(%d) = % x, want % x", tt.v, w.Bytes(), tt.want)
		}
	}
}

func TestImportsMustPrecedeFunctions(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	m := New()
	m.Func("f", nil, nil, nil)
	m.Import("proptest", "gas", []ValType{I64}, nil)
}
