package fuzz

import (
	"context"
	"math/big"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/executor"
	"github.com/wippyai/proptest/shrink"
	"github.com/wippyai/proptest/strategy"
	"github.com/wippyai/proptest/value"
)

// Test is an entry point under test.
type Test struct {
	Fixtures FixtureSource
	Name     string
	Params   []value.Param
}

func (t Test) fixtures(name string) []value.Value {
	if t.Fixtures == nil {
		return nil
	}
	return t.Fixtures.Lookup(name)
}

// Shrunk describes the minimization of the first failing row.
type Shrunk struct {
	Original   []value.Value
	Minimized  []value.Value
	Index      int
	Executions int
}

// Report aggregates the trials of one run.
type Report struct {
	Shrunk   *Shrunk
	Test     string
	Params   []value.Param
	Failures []Trial
	Seed     uint64
	Duration time.Duration
	Passed   int
	Failed   int
	Skipped  int
}

// OK reports whether no trial failed.
func (r *Report) OK() bool {
	return r.Failed == 0
}

// Total is the number of trials run.
func (r *Report) Total() int {
	return r.Passed + r.Failed + r.Skipped
}

func (r *Report) record(t Trial) {
	switch t.Outcome {
	case Passed:
		r.Passed++
	case Skipped:
		r.Skipped++
	case Failed:
		r.Failed++
		r.Failures = append(r.Failures, t)
	}
}

// Run fuzzes test. It returns an error without a report when the test cannot
// be fuzzed at all, or when ctx is cancelled.
func Run(ctx context.Context, exec executor.Executor, test Test, opts Options) (*Report, error) {
	started := time.Now()
	log := Logger().With(zap.String("test", test.Name))

	seed := opts.Seed
	if seed == 0 {
		seed = strategy.RandomSeed()
	}
	src := opts.Source
	if src == nil {
		src = strategy.NewSource(seed)
	}

	pl, err := plan(src, test, opts)
	if err != nil {
		return nil, err
	}

	report := &Report{Test: test.Name, Params: test.Params, Seed: seed}
	observer := opts.Observer
	if observer == nil {
		observer = Observers(nil)
	}

	for i, row := range pl.rows {
		var t Trial
		if pl.genErr != nil && i >= pl.seeds {
			t = Trial{Index: i, Input: row, Outcome: Failed, Failure: pl.genErr}
		} else {
			t, err = RunTrial(ctx, exec, test.Name, i, row, opts)
			if err != nil {
				return nil, err
			}
		}

		if t.Outcome == Failed && report.Failed == 0 && opts.Shrink && t.Result != nil {
			minimized, err := shrinkTrial(ctx, exec, test, t, opts, observer, report)
			if err != nil {
				return nil, err
			}
			t = minimized
		}

		log.Debug("trial finished",
			zap.Int("run", i),
			zap.Stringer("outcome", t.Outcome),
			zap.Duration("duration", t.Duration))

		report.record(t)
		observer.TrialFinished(test.Name, t)

		if t.Outcome == Failed && opts.StopOnFailure {
			break
		}
	}

	report.Duration = time.Since(started)
	log.Debug("fuzz run finished",
		zap.Int("passed", report.Passed),
		zap.Int("failed", report.Failed),
		zap.Int("skipped", report.Skipped),
		zap.Uint64("seed", seed))
	return report, nil
}

// RunOnce runs an entry point without parameters as a single trial.
func RunOnce(ctx context.Context, exec executor.Executor, entry string, opts Options) (Trial, error) {
	return RunTrial(ctx, exec, entry, 0, nil, opts)
}

func validSeeds(test Test, seeds [][]value.Value) [][]value.Value {
	var out [][]value.Value
	for _, row := range seeds {
		if len(row) != len(test.Params) {
			continue
		}
		ok := true
		for i, v := range row {
			if !compatible(test.Params[i].Type, v) {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func compatible(t value.Type, v value.Value) bool {
	switch t.Kind {
	case value.KindInt:
		return v.Kind == value.KindInt && v.Int != nil
	case value.KindBool:
		return (v.Kind == value.KindBool || v.Kind == value.KindInt) && v.Int != nil
	case value.KindAddress, value.KindSlice:
		return (v.Kind == value.KindAddress || v.Kind == value.KindSlice) && v.Cell != nil
	}
	return false
}

// trialPlan holds seed rows followed by generated rows. A fixture type
// mismatch does not abort the run: it is kept as genErr and fails every
// generated row.
type trialPlan struct {
	genErr error
	rows   [][]value.Value
	seeds  int
}

func plan(src strategy.Source, test Test, opts Options) (trialPlan, error) {
	for _, p := range test.Params {
		if err := p.Type.Validate(); err != nil {
			return trialPlan{}, errors.UnsupportedParameterType(p.Name, p.Type.String())
		}
	}

	seeds := validSeeds(test, opts.Seeds)
	if skipped := len(opts.Seeds) - len(seeds); skipped > 0 {
		Logger().Warn("ignoring seed rows that do not match the parameters",
			zap.String("test", test.Name), zap.Int("rows", skipped))
	}

	runs := opts.runs()
	cols := make([][]value.Value, len(test.Params))
	var genErr error
	for i, p := range test.Params {
		col, err := strategy.Column(src, p, test.fixtures(p.Name), runs)
		if err != nil {
			if errors.Is(err, errors.ErrFixtureTypeMismatch) {
				genErr = err
				col = make([]value.Value, runs)
			} else {
				return trialPlan{}, err
			}
		}
		cols[i] = col
	}

	rows := make([][]value.Value, 0, len(seeds)+runs)
	rows = append(rows, seeds...)
	for r := 0; r < runs; r++ {
		row := make([]value.Value, len(test.Params))
		for i := range test.Params {
			row[i] = cols[i][r]
		}
		rows = append(rows, row)
	}
	return trialPlan{genErr: genErr, rows: rows, seeds: len(seeds)}, nil
}

// shrinkTrial minimizes the integer parameters of a failing trial one at a
// time, left to right. It returns the last failing trial it saw, which
// carries the minimized row.
func shrinkTrial(ctx context.Context, exec executor.Executor, test Test, failing Trial, opts Options, observer Observer, report *Report) (Trial, error) {
	row := append([]value.Value(nil), failing.Input...)
	best := failing
	shrunk := &Shrunk{
		Original: failing.Input,
		Index:    failing.Index,
	}

	for i, p := range test.Params {
		if p.Type.Kind != value.KindInt || row[i].Int == nil {
			continue
		}

		fixed := len(test.fixtures(p.Name)) > 0
		node := shrink.NewNode(row[i].Int, p.Type.Bits, p.Type.Signed, fixed)

		res, err := shrink.Search(ctx, node, func(ctx context.Context, n *big.Int) (bool, error) {
			candidate := append([]value.Value(nil), row...)
			candidate[i] = row[i].WithInt(n)

			t, err := RunTrial(ctx, exec, test.Name, failing.Index, candidate, opts)
			if err != nil {
				return false, err
			}
			if t.Outcome == Failed {
				best = t
				return true, nil
			}
			return false, nil
		})
		shrunk.Executions += res.Executions
		if err != nil {
			return failing, err
		}

		row[i] = row[i].WithInt(res.Value)
		observer.ShrinkFinished(test.Name, p, res)

		Logger().Debug("parameter shrunk",
			zap.String("test", test.Name),
			zap.String("param", p.Name),
			zap.String("from", failing.Input[i].Int.String()),
			zap.String("to", res.Value.String()),
			zap.Int("executions", res.Executions))
	}

	shrunk.Minimized = row
	report.Shrunk = shrunk

	if !sameRow(best.Input, row) {
		// The last failing probe belongs to an earlier axis; rerun the final row.
		t, err := RunTrial(ctx, exec, test.Name, failing.Index, row, opts)
		shrunk.Executions++
		if err != nil {
			return failing, err
		}
		if t.Outcome == Failed {
			best = t
		} else {
			shrunk.Minimized = best.Input
		}
	}
	return best, nil
}

func sameRow(a, b []value.Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
