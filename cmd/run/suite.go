package main

import (
	"context"
	"io"
	"os"
	"regexp"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/wippyai/proptest/corpus"
	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/executor"
	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/manifest"
	"github.com/wippyai/proptest/metrics"
	"github.com/wippyai/proptest/report"
	"github.com/wippyai/proptest/runner"
)

// session holds what outlives a single run in watch mode.
type session struct {
	opts    *options
	out     io.Writer
	log     *zap.Logger
	pattern *regexp.Regexp
	store   *corpus.Store
	styles  report.Styles
}

func newSession(opts *options, out io.Writer, log *zap.Logger) (*session, error) {
	s := &session{
		opts:   opts,
		out:    out,
		log:    log,
		styles: report.Plain(),
	}

	if opts.pattern != "" {
		re, err := regexp.Compile(opts.pattern)
		if err != nil {
			return nil, errors.ParseFailed("test pattern", err)
		}
		s.pattern = re
	}
	if opts.jobs < 1 {
		opts.jobs = 1
	}
	if isTerminal(out) && !opts.noColor {
		s.styles = report.Color()
	}
	if opts.corpusPath != "" {
		store, err := corpus.Open(opts.corpusPath)
		if err != nil {
			return nil, err
		}
		s.store = store
	}
	return s, nil
}

func (s *session) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			s.log.Warn("closing corpus failed", zap.Error(err))
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// runOnce runs every manifest, prints the reports and writes the
// requested artifacts. It returns errTestsFailed when any test failed.
func (s *session) runOnce(ctx context.Context, paths []string) error {
	collector := metrics.New()

	var (
		suites []*report.Suite
		err    error
	)
	if s.opts.tui {
		suites, err = s.runWithProgress(ctx, paths, collector)
	} else {
		suites, err = s.runSuites(ctx, paths, func(string) runner.Hooks {
			return s.hooks(collector, nil)
		})
	}
	if err != nil {
		return err
	}

	for _, suite := range suites {
		if err := report.WriteSuite(s.out, suite, s.styles); err != nil {
			return err
		}
	}
	if len(suites) > 1 {
		var total report.Counts
		for _, suite := range suites {
			total = total.Add(suite.Counts())
		}
		if _, err := io.WriteString(s.out, "\n"+report.Summary(total, s.styles)+"\n"); err != nil {
			return err
		}
	}

	if s.opts.jsonPath != "" {
		if err := report.WriteJSON(s.opts.jsonPath, suites); err != nil {
			return err
		}
	}
	if s.opts.metricsPath != "" {
		if err := collector.WriteTextfile(s.opts.metricsPath); err != nil {
			return err
		}
	}

	for _, suite := range suites {
		if !suite.OK() {
			return errTestsFailed
		}
	}
	return nil
}

// hooks feeds test results into the collector and, when set, to extra.
func (s *session) hooks(collector *metrics.Collector, extra *runner.Hooks) runner.Hooks {
	h := runner.Hooks{
		Fuzz: collector,
		TestFinished: func(t report.Test) {
			collector.TestFinished(string(t.Status))
		},
	}
	if extra == nil {
		return h
	}
	h.Fuzz = fuzz.Observers{collector, extra.Fuzz}
	h.TestStarted = extra.TestStarted
	h.TestFinished = func(t report.Test) {
		collector.TestFinished(string(t.Status))
		extra.TestFinished(t)
	}
	return h
}

// runSuites runs the manifests with at most opts.jobs suites at a time.
// Suites are returned in argument order.
func (s *session) runSuites(ctx context.Context, paths []string, hooks func(path string) runner.Hooks) ([]*report.Suite, error) {
	suites := make([]*report.Suite, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.jobs)
	for i, path := range paths {
		g.Go(func() error {
			suite, err := s.runSuite(ctx, path, hooks(path))
			if err != nil {
				return err
			}
			suites[i] = suite
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return suites, nil
}

func (s *session) runSuite(ctx context.Context, path string, hooks runner.Hooks) (*report.Suite, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(m.ModulePath())
	if err != nil {
		return nil, errors.Load("read module "+m.ModulePath(), err)
	}

	exec, err := executor.NewWasm(ctx, data, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := exec.Close(context.Background()); err != nil {
			s.log.Warn("closing executor failed", zap.Error(err))
		}
	}()

	r, err := runner.New(runner.Config{
		Executor:      exec,
		Manifest:      m,
		Corpus:        s.store,
		Pattern:       s.pattern,
		Hooks:         hooks,
		Seed:          s.opts.seed,
		Runs:          s.opts.runs,
		StopOnFailure: s.opts.stopOnFailure,
		NoShrink:      s.opts.noShrink,
	})
	if err != nil {
		return nil, err
	}
	return r.Run(ctx)
}

// runWithProgress runs the suites behind the progress view.
func (s *session) runWithProgress(ctx context.Context, paths []string, collector *metrics.Collector) ([]*report.Suite, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(len(paths), cancel), tea.WithContext(ctx), tea.WithOutput(s.out))

	type outcome struct {
		err    error
		suites []*report.Suite
	}
	done := make(chan outcome, 1)
	go func() {
		suites, err := s.runSuites(ctx, paths, func(path string) runner.Hooks {
			feed := progressHooks(p, path)
			return s.hooks(collector, &feed)
		})
		p.Send(suitesDoneMsg{err: err})
		done <- outcome{suites: suites, err: err}
	}()

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		cancel()
		<-done
		return nil, err
	}
	res := <-done
	return res.suites, res.err
}
