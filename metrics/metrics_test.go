package metrics

import (
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/proptest/executor"
	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/shrink"
	"github.com/wippyai/proptest/value"
)

func TestCollector_Trials(t *testing.T) {
	c := New()
	res := &executor.Result{Success: true}

	c.TrialFinished("testFuzz_a", fuzz.Trial{Outcome: fuzz.Passed, Result: res, Duration: time.Millisecond})
	c.TrialFinished("testFuzz_a", fuzz.Trial{Outcome: fuzz.Passed, Result: res})
	c.TrialFinished("testFuzz_a", fuzz.Trial{Outcome: fuzz.Failed})
	c.TrialFinished("testFuzz_b", fuzz.Trial{Outcome: fuzz.Skipped, Result: res})

	require.Equal(t, 2.0, testutil.ToFloat64(c.trials.WithLabelValues("testFuzz_a", "passed")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.trials.WithLabelValues("testFuzz_a", "failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.trials.WithLabelValues("testFuzz_b", "skipped")))

	// Trials without a call result are not timed.
	require.Equal(t, 2, testutil.CollectAndCount(c.duration))
}

func TestCollector_ShrinksAndTests(t *testing.T) {
	c := New()
	p := value.Param{Name: "x", Type: value.Int(8, false)}
	c.ShrinkFinished("testFuzz_a", p, shrink.Result{Value: big.NewInt(1), Executions: 6})
	c.ShrinkFinished("testFuzz_a", p, shrink.Result{Value: big.NewInt(0), Executions: 2})
	c.TestFinished("passed")
	c.TestFinished("failed")
	c.TestFinished("passed")

	require.Equal(t, 8.0, testutil.ToFloat64(c.shrinks.WithLabelValues("testFuzz_a")))
	require.Equal(t, 2.0, testutil.ToFloat64(c.tests.WithLabelValues("passed")))
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := New()
	c.TrialFinished("testFuzz_a", fuzz.Trial{Outcome: fuzz.Passed})

	path := filepath.Join(t.TempDir(), "proptest.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.Contains(string(data), `proptest_trials_total{outcome="passed",test="testFuzz_a"} 1`))

	require.Error(t, c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")))
}
