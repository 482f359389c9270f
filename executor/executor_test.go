package executor

import (
	"context"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/internal/wasmgen"
	"github.com/wippyai/proptest/trace"
	"github.com/wippyai/proptest/value"
)

func word(t *testing.T, n int64) []byte {
	t.Helper()
	b := make([]byte, WordSize)
	if err := PutWord(b, big.NewInt(n)); err != nil {
		t.Fatal(err)
	}
	return b
}

func guest(t *testing.T) []byte {
	t.Helper()
	i32 := []wasmgen.ValType{wasmgen.I32}
	ptrLen := []wasmgen.ValType{wasmgen.I32, wasmgen.I32}

	m := wasmgen.New()
	h := wasmgen.ImportHost(m)
	m.Memory(1)
	m.Data(2048, word(t, 42))

	m.Func("test_pass", nil, i32, nil, wasmgen.I32Const(0))
	m.Func("test_debug", nil, nil, nil, m.DebugAll(h, 1024, "ASSERT_FAIL", "boom", "custom"))
	m.Func("test_throw", nil, i32, nil,
		wasmgen.I32Const(5), wasmgen.Call(h.Throw), wasmgen.I32Const(0))
	m.Func("test_trap", nil, nil, nil, wasmgen.Unreachable())
	m.Func("test_gas", nil, nil, nil, wasmgen.I64Const(1000), wasmgen.Call(h.Gas))
	m.Func("testFuzz_gt", ptrLen, i32, nil,
		wasmgen.LocalGet(0), wasmgen.I64Load(0),
		wasmgen.I64Const(100), wasmgen.I64GtS(),
		wasmgen.If(wasmgen.I32), wasmgen.I32Const(7), wasmgen.Else(), wasmgen.I32Const(0), wasmgen.End())
	m.Func("fixture_a", nil, nil, nil, wasmgen.I32Const(2048), wasmgen.Call(h.PushInt))
	m.Func("test_time", nil, []wasmgen.ValType{wasmgen.I64}, nil, wasmgen.Call(h.Now))
	return m.Encode()
}

func newGuest(t *testing.T) *Wasm {
	t.Helper()
	ctx := context.Background()
	w, err := NewWasm(ctx, guest(t), nil)
	if err != nil {
		t.Fatalf("NewWasm: %v", err)
	}
	t.Cleanup(func() { w.Close(ctx) })
	return w
}

func TestWasm_Entries(t *testing.T) {
	w := newGuest(t)

	want := []string{"fixture_a", "testFuzz_gt", "test_debug", "test_gas", "test_pass", "test_throw", "test_trap"}
	if diff := cmp.Diff(want, w.Entries()); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if !w.TakesInput("testFuzz_gt") || w.TakesInput("test_pass") {
		t.Error("TakesInput misreports signatures")
	}
}

func TestWasm_Run(t *testing.T) {
	w := newGuest(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		req      Request
		exitCode int32
		vmlog    string
	}{
		{name: "pass", req: Request{Entry: "test_pass"}, exitCode: 0},
		{name: "throw", req: Request{Entry: "test_throw"}, exitCode: 5, vmlog: "execute THROW 5"},
		{name: "trap", req: Request{Entry: "test_trap"}, exitCode: ExitTrap, vmlog: "handling exception code 1000"},
		{name: "out of gas", req: Request{Entry: "test_gas", Env: Environment{GasLimit: 500}}, exitCode: ExitOutOfGas, vmlog: "out of gas"},
		{name: "enough gas", req: Request{Entry: "test_gas", Env: Environment{GasLimit: 5000}}, exitCode: 0},
		{
			name:     "input above threshold",
			req:      Request{Entry: "testFuzz_gt", Input: []value.Value{value.IntValue(big.NewInt(101))}},
			exitCode: 7,
		},
		{
			name:     "input at threshold",
			req:      Request{Entry: "testFuzz_gt", Input: []value.Value{value.IntValue(big.NewInt(100))}},
			exitCode: 0,
		},
		{
			name:     "negative input",
			req:      Request{Entry: "testFuzz_gt", Input: []value.Value{value.IntValue(big.NewInt(-500))}},
			exitCode: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := w.Run(ctx, tt.req)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !res.Success {
				t.Fatalf("Run failed: %s", res.Error)
			}
			if res.ExitCode != tt.exitCode {
				t.Errorf("exit code = %d, want %d (log: %s)", res.ExitCode, tt.exitCode, res.VMLog)
			}
			if tt.vmlog != "" && !strings.Contains(res.VMLog, tt.vmlog) {
				t.Errorf("vm log %q does not contain %q", res.VMLog, tt.vmlog)
			}
		})
	}
}

func TestWasm_Trace(t *testing.T) {
	w := newGuest(t)

	res, err := w.Run(context.Background(), Request{Entry: "test_debug"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"ASSERT_FAIL", "boom", "custom"}, trace.Split(res.Trace)); diff != "" {
		t.Errorf("trace mismatch (-want +got):\n%s", diff)
	}
}

func TestWasm_Gas(t *testing.T) {
	w := newGuest(t)

	res, err := w.Run(context.Background(), Request{Entry: "test_gas", Env: Environment{GasLimit: 5000}})
	if err != nil {
		t.Fatal(err)
	}
	if res.GasUsed != 1000 {
		t.Errorf("gas used = %d", res.GasUsed)
	}
	if !strings.Contains(res.VMLog, "gas remaining: 4000") {
		t.Errorf("vm log = %q", res.VMLog)
	}
}

func TestWasm_Stack(t *testing.T) {
	w := newGuest(t)

	res, err := w.Run(context.Background(), Request{Entry: "fixture_a"})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Stack) != 1 || res.Stack[0].Int.Int64() != 42 {
		t.Fatalf("stack = %v", res.Stack)
	}
}

func TestWasm_Refused(t *testing.T) {
	w := newGuest(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  Request
	}{
		{"missing entry", Request{Entry: "test_missing"}},
		{"unsupported signature", Request{Entry: "test_time"}},
		{"input to entry without parameters", Request{Entry: "test_pass", Input: []value.Value{value.BoolValue(true)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := w.Run(ctx, tt.req)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if res.Success || res.Error == "" {
				t.Errorf("result = %+v, want refused", res)
			}
		})
	}
}

func TestWasm_InstancesAreFresh(t *testing.T) {
	w := newGuest(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := w.Run(ctx, Request{Entry: "fixture_a"})
		if err != nil {
			t.Fatal(err)
		}
		if len(res.Stack) != 1 {
			t.Fatalf("run %d: stack carried over: %v", i, res.Stack)
		}
	}
}

func TestNewWasm_Invalid(t *testing.T) {
	_, err := NewWasm(context.Background(), []byte("not wasm"), nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var e *errors.Error
	if !errors.As(err, &e) || e.Phase != errors.PhaseLoad {
		t.Errorf("error = %v", err)
	}
}

func TestEncodeInput_RoundTrip(t *testing.T) {
	c, err := value.AddressCell(value.StdAddress(0, make([]byte, 32)))
	if err != nil {
		t.Fatal(err)
	}
	min, _ := value.Bounds(256, true)
	input := []value.Value{
		value.IntValue(big.NewInt(-2)),
		value.BoolValue(true),
		value.AddressValue(c),
		value.IntValue(min),
	}

	data, err := EncodeInput(input)
	if err != nil {
		t.Fatalf("EncodeInput: %v", err)
	}
	if len(data) <= 4*WordSize {
		t.Fatalf("cell bytes missing, len = %d", len(data))
	}

	back, err := DecodeInput(data, []value.Kind{value.KindInt, value.KindBool, value.KindAddress, value.KindInt})
	if err != nil {
		t.Fatalf("DecodeInput: %v", err)
	}
	for i := range input {
		if !input[i].Equal(back[i]) {
			t.Errorf("value %d: %v -> %v", i, input[i], back[i])
		}
	}
}

func TestPutWord(t *testing.T) {
	b := make([]byte, WordSize)
	if err := PutWord(b, big.NewInt(-1)); err != nil {
		t.Fatal(err)
	}
	for i, x := range b {
		if x != 0xff {
			t.Fatalf("byte %d = %x", i, x)
		}
	}

	_, max := value.Bounds(256, false)
	if err := PutWord(b, max); err != nil {
		t.Errorf("uint256 max: %v", err)
	}
	tooBig := new(big.Int).Add(max, big.NewInt(1))
	if err := PutWord(b, tooBig); err == nil {
		t.Error("2^256 should not fit")
	}
	min, _ := value.Bounds(256, true)
	tooSmall := new(big.Int).Sub(min, big.NewInt(1))
	if err := PutWord(b, tooSmall); err == nil {
		t.Error("-2^255-1 should not fit")
	}
}

func TestFunc(t *testing.T) {
	var got Request
	exec := Func(func(_ context.Context, req Request) (*Result, error) {
		got = req
		return &Result{Success: true, ExitCode: 3}, nil
	})

	res, err := exec.Run(context.Background(), Request{Entry: "test_x"})
	if err != nil || res.ExitCode != 3 || got.Entry != "test_x" {
		t.Errorf("Func adapter: %+v, %v, %+v", res, err, got)
	}
}

func TestEnvironment_WithDefaults(t *testing.T) {
	env := Environment{GasLimit: 10}.WithDefaults()
	if env.GasLimit != 10 {
		t.Errorf("gas limit overridden: %d", env.GasLimit)
	}
	if env.Balance.Cmp(DefaultBalance()) != 0 || env.UnixTime == 0 {
		t.Errorf("defaults not applied: %+v", env)
	}
}
