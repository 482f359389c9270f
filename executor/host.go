package executor

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"github.com/xssnick/tonutils-go/tvm/cell"
	"go.uber.org/zap"

	"github.com/wippyai/proptest/trace"
	"github.com/wippyai/proptest/value"
)

// HostModule is the import module name guests use for their environment.
const HostModule = "proptest"

type callKey struct{}

// callState is the per-call view of the host functions.
type callState struct {
	env   Environment
	trace strings.Builder
	vmlog []string
	stack []value.Value
	gas   int64
}

func (s *callState) logf(format string, args ...any) {
	s.vmlog = append(s.vmlog, fmt.Sprintf(format, args...))
}

func stateFrom(ctx context.Context) *callState {
	s, _ := ctx.Value(callKey{}).(*callState)
	if s == nil {
		// Host functions called outside Run still need somewhere to write.
		s = &callState{env: DefaultEnvironment()}
	}
	return s
}

// exit stops the calling module with code. The guest cannot continue
// after the host function returns.
func exit(ctx context.Context, mod api.Module, code int32) {
	_ = mod.CloseWithExitCode(ctx, uint32(code))
	panic(sys.NewExitError(uint32(code)))
}

func readMemory(mod api.Module, ptr, size uint32) ([]byte, bool) {
	mem := mod.Memory()
	if mem == nil {
		return nil, false
	}
	view, ok := mem.Read(ptr, size)
	if !ok {
		return nil, false
	}
	out := make([]byte, len(view))
	copy(out, view)
	return out, true
}

var (
	i32 = api.ValueTypeI32
	i64 = api.ValueTypeI64
)

func instantiateHost(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(HostModule)

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			s := stateFrom(ctx)
			data, ok := readMemory(mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
			if !ok {
				s.logf("handling exception code %d: debug entry outside of memory", ExitTrap)
				exit(ctx, mod, ExitTrap)
			}
			s.trace.WriteString(trace.Marker)
			s.trace.Write(data)
			s.trace.WriteByte('\n')
		}), []api.ValueType{i32, i32}, nil).
		Export("debug")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			s := stateFrom(ctx)
			units := int64(stack[0])
			if units < 0 {
				units = 0
			}
			if units > math.MaxInt64-s.gas {
				s.gas = math.MaxInt64
			} else {
				s.gas += units
			}
			if s.gas > s.env.GasLimit {
				s.logf("execute GAS %d", units)
				s.logf("handling exception code %d: out of gas", ExitOutOfGas)
				exit(ctx, mod, ExitOutOfGas)
			}
		}), []api.ValueType{i64}, nil).
		Export("gas")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			s := stateFrom(ctx)
			code := api.DecodeI32(stack[0])
			s.logf("execute THROW %d", code)
			s.logf("handling exception code %d: terminating vm with exit code %d", code, code)
			exit(ctx, mod, code)
		}), []api.ValueType{i32}, nil).
		Export("throw")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, stack []uint64) {
			stack[0] = uint64(stateFrom(ctx).env.UnixTime)
		}), nil, []api.ValueType{i64}).
		Export("now")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, _ api.Module, stack []uint64) {
			b := stateFrom(ctx).env.Balance
			switch {
			case b == nil:
				stack[0] = 0
			case b.IsInt64():
				stack[0] = uint64(b.Int64())
			default:
				stack[0] = math.MaxInt64
			}
		}), nil, []api.ValueType{i64}).
		Export("balance")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			s := stateFrom(ctx)
			data, ok := readMemory(mod, api.DecodeU32(stack[0]), WordSize)
			if !ok {
				s.logf("handling exception code %d: pushed integer outside of memory", ExitTrap)
				exit(ctx, mod, ExitTrap)
			}
			s.stack = append(s.stack, value.Value{Kind: value.KindInt, Int: ReadWord(data)})
		}), []api.ValueType{i32}, nil).
		Export("push_int")

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			s := stateFrom(ctx)
			data, ok := readMemory(mod, api.DecodeU32(stack[0]), api.DecodeU32(stack[1]))
			if !ok {
				s.logf("handling exception code %d: pushed cell outside of memory", ExitTrap)
				exit(ctx, mod, ExitTrap)
			}
			c, err := cell.FromBOC(data)
			if err != nil {
				Logger().Debug("guest pushed an invalid bag of cells", zap.Error(err))
				s.logf("handling exception code %d: invalid bag of cells", ExitBadOutput)
				exit(ctx, mod, ExitBadOutput)
			}
			s.stack = append(s.stack, value.SliceValue(c))
		}), []api.ValueType{i32, i32}, nil).
		Export("push_cell")

	return builder.Instantiate(ctx)
}
