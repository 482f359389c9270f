package runner

import (
	"context"
	"hash/fnv"
	"math/big"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/proptest/annotation"
	"github.com/wippyai/proptest/corpus"
	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/executor"
	"github.com/wippyai/proptest/fixture"
	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/manifest"
	"github.com/wippyai/proptest/report"
	"github.com/wippyai/proptest/schema"
	"github.com/wippyai/proptest/strategy"
)

// DefaultRuns is the number of fuzz trials of a suite test without @runs.
const DefaultRuns = 100

// Entry name prefixes.
const (
	TestPrefix = "test_"
	FuzzPrefix = "testFuzz_"
)

// ErrFuzzArguments is the message of a single-shot test with parameters.
const ErrFuzzArguments = "Only fuzz tests can have arguments."

// Lister is implemented by executors that know their entry points.
type Lister interface {
	Entries() []string
}

// Hooks receive suite progress. All fields are optional.
type Hooks struct {
	// Fuzz observes trials and shrinks of fuzz tests.
	Fuzz fuzz.Observer
	// TestStarted is called before a test runs with its trial count,
	// which is 1 for single-shot tests.
	TestStarted func(name string, runs int)
	// TestFinished is called with every test result, including pending
	// and todo tests.
	TestFinished func(t report.Test)
}

// Config configures a suite run.
type Config struct {
	Executor executor.Executor
	Manifest *manifest.Manifest
	// Corpus replays and stores counterexamples when set.
	Corpus *corpus.Store
	// Pattern selects tests by entry name; others are pending.
	Pattern *regexp.Regexp
	Hooks   Hooks
	// Module identifies the suite in the corpus and in reports.
	Module string
	// Seed of the suite; each test derives its own seed from it.
	Seed uint64
	// Runs replaces DefaultRuns for tests without @runs.
	Runs          int
	StopOnFailure bool
	NoShrink      bool
}

// Runner runs one suite.
type Runner struct {
	cfg      Config
	log      *zap.Logger
	defaults annotation.Annotations
	now      int64
}

// New validates cfg and returns a runner.
func New(cfg Config) (*Runner, error) {
	if cfg.Executor == nil {
		return nil, errors.InvalidInput(errors.PhaseExecute, "runner: executor is required")
	}
	if cfg.Manifest == nil {
		cfg.Manifest = &manifest.Manifest{}
	}
	if cfg.Seed == 0 {
		cfg.Seed = strategy.RandomSeed()
	}
	if cfg.Module == "" {
		cfg.Module = cfg.Manifest.Module
	}

	return &Runner{
		cfg:      cfg,
		log:      Logger().With(zap.String("module", cfg.Module)),
		defaults: cfg.Manifest.Defaults.Annotations(),
		now:      time.Now().Unix(),
	}, nil
}

// Entries returns the entry points of the suite: those the executor lists
// followed by manifest tests it does not list.
func (r *Runner) Entries() []string {
	var entries []string
	if l, ok := r.cfg.Executor.(Lister); ok {
		entries = append(entries, l.Entries()...)
	}
	for _, t := range r.cfg.Manifest.Tests {
		if !slices.Contains(entries, t.Name) {
			entries = append(entries, t.Name)
		}
	}
	return entries
}

// Run runs every test of the suite. The returned error is reserved for
// failures that prevent the suite from running at all, such as fixture
// extraction or a cancelled context; test failures are reported in the suite.
func (r *Runner) Run(ctx context.Context) (*report.Suite, error) {
	started := time.Now()
	suite := &report.Suite{
		ID:      uuid.NewString(),
		Module:  r.cfg.Module,
		Seed:    r.cfg.Seed,
		Started: started,
	}

	entries := r.Entries()
	fixtures, err := r.fixtures(ctx, entries)
	if err != nil {
		return nil, err
	}

	r.log.Info("suite started",
		zap.String("run_id", suite.ID),
		zap.Int("entries", len(entries)),
		zap.Uint64("seed", r.cfg.Seed))

	for _, entry := range entries {
		if !IsTest(entry) {
			continue
		}
		t, err := r.runTest(ctx, entry, fixtures)
		if err != nil {
			return nil, err
		}
		suite.Tests = append(suite.Tests, t)
		if r.cfg.Hooks.TestFinished != nil {
			r.cfg.Hooks.TestFinished(t)
		}
	}

	suite.Duration = time.Since(started)
	c := suite.Counts()
	r.log.Info("suite finished",
		zap.String("run_id", suite.ID),
		zap.Int("passed", c.Passed),
		zap.Int("failed", c.Failed),
		zap.Int("pending", c.Pending),
		zap.Int("todo", c.Todo),
		zap.Duration("duration", suite.Duration))
	return suite, nil
}

func (r *Runner) fixtures(ctx context.Context, entries []string) (fixture.Set, error) {
	set, err := fixture.Static(r.cfg.Manifest.Fixtures, r.cfg.Manifest.Types())
	if err != nil {
		return nil, err
	}
	extracted, err := fixture.Extract(ctx, r.cfg.Executor, fixture.Getters(entries), r.env(annotation.Annotations{}))
	if err != nil {
		return nil, err
	}
	return set.Merge(extracted), nil
}

// IsTest reports whether entry is a single-shot or fuzz test.
func IsTest(entry string) bool {
	return strings.HasPrefix(entry, TestPrefix) || strings.HasPrefix(entry, FuzzPrefix)
}

// IsFuzz reports whether entry is a fuzz test.
func IsFuzz(entry string) bool {
	return strings.HasPrefix(entry, FuzzPrefix)
}

// Title strips the test prefix and turns underscores into spaces.
func Title(entry string) string {
	name := strings.TrimPrefix(entry, FuzzPrefix)
	if name == entry {
		name = strings.TrimPrefix(entry, TestPrefix)
	}
	return strings.ReplaceAll(name, "_", " ")
}

func (r *Runner) env(a annotation.Annotations) executor.Environment {
	env := executor.Environment{UnixTime: r.now}
	if a.UnixTime != nil {
		env.UnixTime = *a.UnixTime
	}
	if a.Balance != nil {
		env.Balance = new(big.Int).Set(a.Balance)
	}
	if a.GasLimit != nil {
		env.GasLimit = *a.GasLimit
	}
	return env.WithDefaults()
}

// testSeed derives a per-test seed so that filtering tests does not change
// the rows of the remaining ones.
func (r *Runner) testSeed(entry string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(entry))
	seed := h.Sum64() ^ r.cfg.Seed
	if seed == 0 {
		seed = 1
	}
	return seed
}

func (r *Runner) runTest(ctx context.Context, entry string, fixtures fixture.Set) (report.Test, error) {
	decl, declared := r.cfg.Manifest.Test(entry)
	a := decl.Annotations().Merge(r.defaults)

	t := report.Test{
		Name:  entry,
		Title: Title(entry),
		Scope: a.Scope,
	}
	log := r.log.With(zap.String("test", entry))

	if a.Skip || (r.cfg.Pattern != nil && !r.cfg.Pattern.MatchString(entry)) {
		t.Status = report.StatusPending
		return t, nil
	}
	if a.Todo {
		t.Status = report.StatusTodo
		return t, nil
	}

	if l, ok := r.cfg.Executor.(Lister); ok && declared && !slices.Contains(l.Entries(), entry) {
		return failed(t, errors.NotFound(errors.PhaseLoad, "entry point", entry)), nil
	}

	params, err := decl.Parameters()
	if err != nil {
		return failed(t, err), nil
	}

	opts := fuzz.Options{
		Env:              r.env(a),
		ExpectedExitCode: a.ExitCodeOr(0),
		Observer:         r.cfg.Hooks.Fuzz,
		StopOnFailure:    r.cfg.StopOnFailure,
		Shrink:           !r.cfg.NoShrink,
		Seed:             r.testSeed(entry),
	}

	if !IsFuzz(entry) {
		if len(params) > 0 {
			t.Status = report.StatusFailed
			t.Message = ErrFuzzArguments
			return t, nil
		}
		r.started(entry, 1)

		trial, err := fuzz.RunOnce(ctx, r.cfg.Executor, entry, opts)
		if err != nil {
			return t, err
		}
		t.Duration = trial.Duration
		if trial.Outcome == fuzz.Failed {
			t.Status = report.StatusFailed
			t.Message = trial.Message()
			log.Debug("test failed", zap.String("message", trial.Summary()))
		} else {
			// An assumption that does not hold skips the only trial; the
			// test itself still passes.
			t.Status = report.StatusPassed
		}
		return t, nil
	}

	if a.FuzzTLB != "" {
		s, err := schema.Parse(a.FuzzTLB)
		if err != nil {
			return failed(t, err), nil
		}
		if params, err = s.RefineAll(params); err != nil {
			return failed(t, err), nil
		}
	}

	opts.Runs = a.RunsOr(r.defaultRuns())
	if opts.Runs <= 0 {
		t.Status = report.StatusPassed
		return t, nil
	}
	if r.cfg.Corpus != nil {
		if opts.Seeds, err = r.cfg.Corpus.Seeds(ctx, r.cfg.Module, entry); err != nil {
			log.Warn("corpus unavailable", zap.Error(err))
		}
	}
	r.started(entry, opts.Runs+len(opts.Seeds))

	rep, err := fuzz.Run(ctx, r.cfg.Executor, fuzz.Test{Name: entry, Params: params, Fixtures: fixtures}, opts)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return t, ctxErr
		}
		return failed(t, err), nil
	}

	t.Duration = rep.Duration
	t.Fuzz = report.Summarize(rep)
	if rep.OK() {
		t.Status = report.StatusPassed
		return t, nil
	}

	t.Status = report.StatusFailed
	t.Message = report.FuzzFailure(rep, report.Plain())
	r.store(ctx, entry, rep, log)
	return t, nil
}

func (r *Runner) defaultRuns() int {
	if r.cfg.Runs > 0 {
		return r.cfg.Runs
	}
	return DefaultRuns
}

func (r *Runner) started(entry string, runs int) {
	if r.cfg.Hooks.TestStarted != nil {
		r.cfg.Hooks.TestStarted(entry, runs)
	}
}

// store saves failing rows. Rows that failed only because fixtures could
// not be bound are not worth replaying.
func (r *Runner) store(ctx context.Context, entry string, rep *fuzz.Report, log *zap.Logger) {
	if r.cfg.Corpus == nil {
		return
	}
	for _, f := range rep.Failures {
		if f.Result == nil || len(f.Input) == 0 {
			continue
		}
		_, err := r.cfg.Corpus.Save(ctx, corpus.Entry{
			Module:  r.cfg.Module,
			Test:    entry,
			Input:   f.Input,
			Message: f.Summary(),
			Seed:    rep.Seed,
		})
		if err != nil {
			log.Warn("saving counterexample failed", zap.Error(err))
		}
	}
}

func failed(t report.Test, err error) report.Test {
	t.Status = report.StatusFailed
	t.Message = fuzz.FailureMessage(err)
	return t
}
