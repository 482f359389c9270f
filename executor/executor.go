package executor

import (
	"context"
	"math/big"
	"time"

	"github.com/wippyai/proptest/value"
)

// Well-known exit codes.
const (
	ExitOK        int32 = 0
	ExitOutOfGas  int32 = -14
	ExitTrap      int32 = 1000
	ExitBadOutput int32 = 1001
)

// DefaultGasLimit is used when neither the suite nor the test sets one.
const DefaultGasLimit int64 = 1 << 62

// DefaultBalance is one coin in nano units.
func DefaultBalance() *big.Int {
	return big.NewInt(1_000_000_000)
}

// Environment is the ambient state visible to a call.
type Environment struct {
	Balance  *big.Int
	UnixTime int64
	GasLimit int64
}

// DefaultEnvironment returns the environment used when nothing is overridden.
func DefaultEnvironment() Environment {
	return Environment{
		Balance:  DefaultBalance(),
		UnixTime: time.Now().Unix(),
		GasLimit: DefaultGasLimit,
	}
}

// WithDefaults fills zero fields from DefaultEnvironment.
func (e Environment) WithDefaults() Environment {
	d := DefaultEnvironment()
	if e.Balance == nil {
		e.Balance = d.Balance
	}
	if e.UnixTime == 0 {
		e.UnixTime = d.UnixTime
	}
	if e.GasLimit <= 0 {
		e.GasLimit = d.GasLimit
	}
	return e
}

// Request is one call of an entry point.
type Request struct {
	Entry string
	Input []value.Value
	Env   Environment
}

// Result is the outcome of one call.
type Result struct {
	Stack    []value.Value
	Trace    string // debug stream, see package trace
	VMLog    string
	Error    string // set when Success is false
	GasUsed  int64
	Duration time.Duration
	ExitCode int32
	Success  bool
}

// Executor runs entry points. Implementations need not be reentrant; callers
// issue one call at a time.
type Executor interface {
	Run(ctx context.Context, req Request) (*Result, error)
}

// Func adapts a function to Executor.
type Func func(ctx context.Context, req Request) (*Result, error)

// Run calls f.
func (f Func) Run(ctx context.Context, req Request) (*Result, error) {
	return f(ctx, req)
}
