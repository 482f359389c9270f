package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/proptest/corpus"
	"github.com/wippyai/proptest/executor"
	"github.com/wippyai/proptest/fixture"
	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/runner"
)

// errTestsFailed makes the process exit with status 1 without printing
// anything beyond the report.
var errTestsFailed = stderrors.New("tests failed")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		if !stderrors.Is(err, errTestsFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

type options struct {
	pattern       string
	jsonPath      string
	metricsPath   string
	corpusPath    string
	logLevel      string
	seed          uint64
	runs          int
	jobs          int
	watch         bool
	tui           bool
	noColor       bool
	stopOnFailure bool
	noShrink      bool
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "proptest",
		Short:         "Property-based testing for contract test modules",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(), newCorpusCmd())
	return root
}

func newRunCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "run <manifest.yaml>...",
		Short: "Run the test entry points of one or more modules",
		Long: `Runs every test_* entry point once and every testFuzz_* entry point
against generated inputs. Failing fuzz inputs are shrunk, printed and, with
--corpus, replayed first on the next run.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.pattern, "pattern", "t", "", "run only tests whose entry name matches this regexp")
	f.Uint64Var(&opts.seed, "seed", 0, "suite seed; 0 picks a random one")
	f.IntVar(&opts.runs, "runs", 0, "fuzz trials per test without @runs (default 100)")
	f.StringVar(&opts.jsonPath, "json", "", "write a JSON report to this file")
	f.StringVar(&opts.metricsPath, "metrics-file", "", "write Prometheus metrics to this file")
	f.StringVar(&opts.corpusPath, "corpus", "", "SQLite counterexample corpus")
	f.BoolVarP(&opts.watch, "watch", "w", false, "rerun when a manifest or module changes")
	f.BoolVar(&opts.tui, "tui", false, "show live progress in a terminal UI")
	f.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	f.IntVarP(&opts.jobs, "jobs", "j", 1, "number of modules tested concurrently")
	f.BoolVar(&opts.stopOnFailure, "stop-on-failure", false, "stop a fuzz test at its first failing trial")
	f.BoolVar(&opts.noShrink, "no-shrink", false, "report failing inputs without shrinking them")
	return cmd
}

func runRun(cmd *cobra.Command, opts *options, paths []string) error {
	log, err := newLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()
	installLogger(log)

	s, err := newSession(opts, cmd.OutOrStdout(), log)
	if err != nil {
		return err
	}
	defer s.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if opts.watch {
		files, err := watchedFiles(paths)
		if err != nil {
			return err
		}
		return watch(ctx, files, defaultDebounce, log, func(ctx context.Context) {
			if err := s.runOnce(ctx, paths); err != nil && !stderrors.Is(err, errTestsFailed) {
				log.Error("run failed", zap.Error(err))
			}
		})
	}
	return s.runOnce(ctx, paths)
}

// newLogger builds the process logger. Verbose levels use the development
// encoder so that debug output stays readable next to the report.
func newLogger(level string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return nil, fmt.Errorf("invalid log level %q", level)
	}

	var cfg zap.Config
	if lvl > zapcore.InfoLevel {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}

func installLogger(log *zap.Logger) {
	fuzz.SetLogger(log.Named("fuzz"))
	executor.SetLogger(log.Named("executor"))
	runner.SetLogger(log.Named("runner"))
	fixture.SetLogger(log.Named("fixture"))
	corpus.SetLogger(log.Named("corpus"))
}
