package fuzz

import (
	"github.com/wippyai/proptest/executor"
	"github.com/wippyai/proptest/shrink"
	"github.com/wippyai/proptest/strategy"
	"github.com/wippyai/proptest/value"
)

// DefaultRuns is the number of trials when none is configured.
const DefaultRuns = 10

// Options controls a fuzz run.
type Options struct {
	// Source overrides the random source built from Seed.
	Source strategy.Source
	// Observer is notified after every trial and shrink.
	Observer Observer
	// Env is the environment of every call.
	Env executor.Environment
	// Seeds are input rows replayed before generated ones, typically stored
	// counterexamples. Rows that do not match the parameters are ignored.
	Seeds [][]value.Value
	// Runs is the number of generated rows; DefaultRuns when zero.
	Runs int
	// Seed for the random source; a random seed is chosen when zero.
	Seed uint64
	// ExpectedExitCode is the exit code a passing trial ends with unless
	// the trial itself announces another one.
	ExpectedExitCode int32
	// StopOnFailure ends the run at the first failed trial.
	StopOnFailure bool
	// Shrink minimizes the first failing row.
	Shrink bool
}

// DefaultOptions runs DefaultRuns trials without stopping and with shrinking.
func DefaultOptions() Options {
	return Options{Runs: DefaultRuns, Shrink: true}
}

func (o Options) runs() int {
	if o.Runs <= 0 {
		return DefaultRuns
	}
	return o.Runs
}

// Observer receives progress of a run. Calls come from the goroutine
// running the test.
type Observer interface {
	TrialFinished(test string, t Trial)
	ShrinkFinished(test string, param value.Param, res shrink.Result)
}

// Observers fans out to several observers.
type Observers []Observer

func (obs Observers) TrialFinished(test string, t Trial) {
	for _, o := range obs {
		if o != nil {
			o.TrialFinished(test, t)
		}
	}
}

func (obs Observers) ShrinkFinished(test string, param value.Param, res shrink.Result) {
	for _, o := range obs {
		if o != nil {
			o.ShrinkFinished(test, param, res)
		}
	}
}

// FixtureSource provides fixture sequences by parameter name.
type FixtureSource interface {
	Lookup(param string) []value.Value
}
