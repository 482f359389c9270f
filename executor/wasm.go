package executor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/sys"
	"go.uber.org/zap"

	"github.com/wippyai/proptest/errors"
)

// allocExport is the optional guest allocator used to place input.
const allocExport = "alloc"

// WasmConfig holds configuration for the wasm executor.
type WasmConfig struct {
	// MemoryLimitPages caps guest memory in 64KB pages. 0 keeps the wazero default.
	MemoryLimitPages uint32
}

// Wasm runs entry points of a core WebAssembly module. The module is
// compiled once; every call runs in a fresh anonymous instance so no state
// survives between calls.
type Wasm struct {
	runtime  wazero.Runtime
	compiled wazero.CompiledModule
	entries  map[string]api.FunctionDefinition
	mu       sync.Mutex
}

var _ Executor = (*Wasm)(nil)

// NewWasm compiles wasmBytes and prepares the host module.
func NewWasm(ctx context.Context, wasmBytes []byte, cfg *WasmConfig) (*Wasm, error) {
	runtimeCfg := wazero.NewRuntimeConfig().WithCloseOnContextDone(true)
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}
	r := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)

	if _, err := instantiateHost(ctx, r); err != nil {
		r.Close(ctx)
		return nil, errors.Load("instantiate host module", err)
	}

	compiled, err := r.CompileModule(ctx, wasmBytes)
	if err != nil {
		r.Close(ctx)
		return nil, errors.Load("compile module", err)
	}

	w := &Wasm{
		runtime:  r,
		compiled: compiled,
		entries:  make(map[string]api.FunctionDefinition),
	}
	for name, def := range compiled.ExportedFunctions() {
		if name == allocExport {
			continue
		}
		if !validEntry(def) {
			Logger().Debug("skipping export with unsupported signature",
				zap.String("export", name),
				zap.Int("params", len(def.ParamTypes())),
				zap.Int("results", len(def.ResultTypes())))
			continue
		}
		w.entries[name] = def
	}
	return w, nil
}

func validEntry(def api.FunctionDefinition) bool {
	params, results := def.ParamTypes(), def.ResultTypes()
	switch len(params) {
	case 0:
	case 2:
		if params[0] != api.ValueTypeI32 || params[1] != api.ValueTypeI32 {
			return false
		}
	default:
		return false
	}
	switch len(results) {
	case 0:
		return true
	case 1:
		return results[0] == api.ValueTypeI32
	}
	return false
}

// Entries lists callable exports in name order.
func (w *Wasm) Entries() []string {
	names := make([]string, 0, len(w.entries))
	for name := range w.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TakesInput reports whether entry has the (ptr, len) signature.
func (w *Wasm) TakesInput(entry string) bool {
	def, ok := w.entries[entry]
	return ok && len(def.ParamTypes()) == 2
}

// Run calls req.Entry in a fresh instance. Calls are serialized.
func (w *Wasm) Run(ctx context.Context, req Request) (*Result, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	def, ok := w.entries[req.Entry]
	if !ok {
		return &Result{Error: fmt.Sprintf("entry %q not found", req.Entry)}, nil
	}

	state := &callState{env: req.Env.WithDefaults()}
	ctx = context.WithValue(ctx, callKey{}, state)

	mod, err := w.runtime.InstantiateModule(ctx, w.compiled,
		wazero.NewModuleConfig().WithName("").WithStartFunctions())
	if err != nil {
		return nil, errors.Wrap(errors.PhaseExecute, errors.KindExecution, err, "instantiate module")
	}
	defer mod.Close(ctx)

	var params []uint64
	if len(def.ParamTypes()) == 2 {
		input, err := EncodeInput(req.Input)
		if err != nil {
			return &Result{Error: err.Error()}, nil
		}
		ptr, err := writeInput(ctx, mod, input)
		if err != nil {
			return &Result{Error: err.Error()}, nil
		}
		params = []uint64{api.EncodeU32(ptr), api.EncodeU32(uint32(len(input)))}
	} else if len(req.Input) > 0 {
		return &Result{Error: fmt.Sprintf("entry %q takes no input", req.Entry)}, nil
	}

	state.logf("execute %s", req.Entry)
	start := time.Now()
	results, err := mod.ExportedFunction(req.Entry).Call(ctx, params...)
	res := &Result{
		Success:  true,
		Duration: time.Since(start),
	}

	var exitErr *sys.ExitError
	switch {
	case err == nil:
		if len(results) == 1 {
			res.ExitCode = api.DecodeI32(results[0])
		}
	case errors.As(err, &exitErr):
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		res.ExitCode = int32(exitErr.ExitCode())
	default:
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		res.ExitCode = ExitTrap
		state.logf("handling exception code %d: %s", ExitTrap, err)
	}

	state.logf("gas remaining: %d", state.env.GasLimit-state.gas)
	res.Trace = state.trace.String()
	res.VMLog = strings.Join(state.vmlog, "\n")
	res.GasUsed = state.gas
	res.Stack = state.stack

	Logger().Debug("call finished",
		zap.String("entry", req.Entry),
		zap.Int32("exit_code", res.ExitCode),
		zap.Int64("gas_used", res.GasUsed),
		zap.Duration("duration", res.Duration))

	return res, nil
}

func writeInput(ctx context.Context, mod api.Module, input []byte) (uint32, error) {
	var ptr uint32
	if alloc := mod.ExportedFunction(allocExport); alloc != nil {
		out, err := alloc.Call(ctx, api.EncodeU32(uint32(len(input))))
		if err != nil {
			return 0, errors.Wrap(errors.PhaseExecute, errors.KindExecution, err, "alloc input")
		}
		if len(out) > 0 {
			ptr = api.DecodeU32(out[0])
		}
	}
	if len(input) == 0 {
		return ptr, nil
	}
	mem := mod.Memory()
	if mem == nil || !mem.Write(ptr, input) {
		return 0, errors.InvalidInput(errors.PhaseExecute, "input does not fit guest memory")
	}
	return ptr, nil
}

// Close releases the compiled module and the runtime.
func (w *Wasm) Close(ctx context.Context) error {
	return w.runtime.Close(ctx)
}
