package fuzz

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/proptest/assert"
	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/executor"
	"github.com/wippyai/proptest/trace"
	"github.com/wippyai/proptest/value"
)

// Outcome classifies a trial.
type Outcome uint8

const (
	Passed Outcome = iota
	Failed
	Skipped
)

func (o Outcome) String() string {
	switch o {
	case Passed:
		return "passed"
	case Failed:
		return "failed"
	case Skipped:
		return "skipped"
	}
	return "unknown"
}

// Trial is the outcome of one execution with one input row.
type Trial struct {
	Failure  error
	Result   *executor.Result
	Input    []value.Value
	Index    int
	Duration time.Duration
	Outcome  Outcome
}

// Message is the full human-readable failure message, or "".
func (t Trial) Message() string {
	return FailureMessage(t.Failure)
}

// Summary is the first line of Message.
func (t Trial) Summary() string {
	msg := t.Message()
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		return msg[:i]
	}
	return msg
}

// FailureMessage renders a trial failure for humans. Structured errors show
// their detail only; assertion failures show label and message.
func FailureMessage(err error) string {
	if err == nil {
		return ""
	}
	var ae *errors.AssertionError
	if errors.As(err, &ae) {
		return ae.Error()
	}
	var e *errors.Error
	if errors.As(err, &e) && e.Detail != "" {
		return e.Detail
	}
	return err.Error()
}

// stackTraceLines is how much of the VM log a failure message keeps.
const stackTraceLines = 8

// StackTrace keeps the tail of a VM log without gas and stack dumps.
func StackTrace(vmlog string) string {
	var kept []string
	for _, line := range strings.Split(vmlog, "\n") {
		if strings.HasPrefix(line, "gas remaining:") ||
			strings.HasPrefix(line, "stack:") ||
			strings.HasPrefix(line, "code cell hash:") {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) > stackTraceLines {
		kept = kept[len(kept)-stackTraceLines:]
	}
	return strings.Join(kept, "\n")
}

// Classify decides the outcome of a finished call.
//
// The debug stream is read first: TEST_ASSUME skips the trial, TEST_EXIT_CODE
// overrides expectedExit and the first assertion fails it. Then an executor
// refusal fails the trial, and finally the exit code is compared.
func Classify(entry string, res *executor.Result, expectedExit int32) (Outcome, error) {
	r := trace.Parse(res.Trace)

	for !r.EOF() {
		e, err := r.Next()
		if err != nil {
			return Failed, err
		}

		tag := assert.ParseTag(e)
		switch {
		case tag == assert.ExitCode:
			code, err := r.NextInt()
			if err != nil {
				return Failed, err
			}
			if code < math.MinInt32 || code > math.MaxInt32 {
				return Failed, errors.ProtocolDecode("Exit code out of range", strconv.FormatInt(code, 10))
			}
			expectedExit = int32(code)
		case tag == assert.Assume:
			return Skipped, nil
		case tag.IsAssertion():
			failure, err := assert.Decode(tag, r)
			if err != nil {
				return Failed, err
			}
			return Failed, failure
		default:
			Logger().Warn("unknown debug entry",
				zap.String("entry", entry),
				zap.String("value", e),
				zap.Int("position", r.Pos()-1))
		}
	}

	if !res.Success {
		return Failed, errors.ExecutionFailure(entry, res.Error, nil)
	}

	if expectedExit != 0 {
		if res.ExitCode != expectedExit {
			return Failed, errors.ExitCode(entry, res.ExitCode,
				fmt.Sprintf("Test case has thrown an error code %d (expected %d).", res.ExitCode, expectedExit))
		}
		return Passed, nil
	}

	if res.ExitCode != 0 {
		return Failed, errors.ExitCode(entry, res.ExitCode,
			fmt.Sprintf("Test case has failed with an error code %d.\n\n[...]\n%s", res.ExitCode, StackTrace(res.VMLog)))
	}
	return Passed, nil
}

// RunTrial executes one row and classifies it. Only a cancelled context is
// returned as an error; every other problem becomes a failed trial.
func RunTrial(ctx context.Context, exec executor.Executor, entry string, index int, input []value.Value, opts Options) (Trial, error) {
	t := Trial{Index: index, Input: input}

	start := time.Now()
	res, err := exec.Run(ctx, executor.Request{Entry: entry, Input: input, Env: opts.Env})
	t.Duration = time.Since(start)

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return t, ctxErr
		}
		t.Outcome = Failed
		t.Failure = errors.ExecutionFailure(entry, err.Error(), err)
		return t, nil
	}

	t.Result = res
	t.Outcome, t.Failure = Classify(entry, res, opts.ExpectedExitCode)
	return t, nil
}
