package annotation

import (
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

// Annotations is the configuration found in one doc block. Nil pointers mean
// the annotation is absent.
type Annotations struct {
	Runs     *int
	GasLimit *int64
	ExitCode *int32
	UnixTime *int64
	Balance  *big.Int
	Scope    string
	FuzzTLB  string
	Skip     bool
	Todo     bool
}

var (
	runsRe     = regexp.MustCompile(`@runs\s+(-?\d+)`)
	scopeRe    = regexp.MustCompile(`@scope\s+(.+)`)
	gasLimitRe = regexp.MustCompile(`@gasLimit\s+(\d+)`)
	exitCodeRe = regexp.MustCompile(`@exitCode\s+(-?\d+)`)
	unixTimeRe = regexp.MustCompile(`@unixTime\s+(\d+)`)
	balanceRe  = regexp.MustCompile(`@balance\s+(\d+)`)
	fuzzTLBRe  = regexp.MustCompile(`@fuzzTlb\s+(.*)`)
	skipRe     = regexp.MustCompile(`@skip\b`)
	todoRe     = regexp.MustCompile(`@todo\b`)
	commentRe  = regexp.MustCompile(`^\s*(//+|;;+|\*+|/\*+)\s?`)
)

// Parse extracts annotations from a doc block. Malformed numbers are ignored
// the same way as unknown annotations.
func Parse(doc string) Annotations {
	var a Annotations
	lines := strings.Split(doc, "\n")

	for i := 0; i < len(lines); i++ {
		line := commentRe.ReplaceAllString(lines[i], "")

		if m := runsRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				a.Runs = &n
			}
		}
		if m := scopeRe.FindStringSubmatch(line); m != nil {
			a.Scope = strings.TrimSpace(m[1])
		}
		if m := gasLimitRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				a.GasLimit = &n
			}
		}
		if m := exitCodeRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.ParseInt(m[1], 10, 32); err == nil {
				code := int32(n)
				a.ExitCode = &code
			}
		}
		if m := unixTimeRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				a.UnixTime = &n
			}
		}
		if m := balanceRe.FindStringSubmatch(line); m != nil {
			if n, ok := new(big.Int).SetString(m[1], 10); ok {
				a.Balance = n
			}
		}
		if m := fuzzTLBRe.FindStringSubmatch(line); m != nil {
			tlb := strings.TrimSpace(m[1])
			// The schema may continue on following lines up to its ';'.
			for !strings.HasSuffix(tlb, ";") && i+1 < len(lines) {
				i++
				tlb += " " + strings.TrimSpace(commentRe.ReplaceAllString(lines[i], ""))
			}
			a.FuzzTLB = strings.TrimSpace(tlb)
		}
		if skipRe.MatchString(line) {
			a.Skip = true
		}
		if todoRe.MatchString(line) {
			a.Todo = true
		}
	}

	return a
}

// Merge fills the annotations absent from a with those of defaults.
// Skip and Todo are set when either side sets them.
func (a Annotations) Merge(defaults Annotations) Annotations {
	if a.Runs == nil {
		a.Runs = defaults.Runs
	}
	if a.GasLimit == nil {
		a.GasLimit = defaults.GasLimit
	}
	if a.ExitCode == nil {
		a.ExitCode = defaults.ExitCode
	}
	if a.UnixTime == nil {
		a.UnixTime = defaults.UnixTime
	}
	if a.Balance == nil {
		a.Balance = defaults.Balance
	}
	if a.Scope == "" {
		a.Scope = defaults.Scope
	}
	if a.FuzzTLB == "" {
		a.FuzzTLB = defaults.FuzzTLB
	}
	a.Skip = a.Skip || defaults.Skip
	a.Todo = a.Todo || defaults.Todo
	return a
}

// RunsOr returns the configured run count or def.
func (a Annotations) RunsOr(def int) int {
	if a.Runs != nil {
		return *a.Runs
	}
	return def
}

// ExitCodeOr returns the configured exit code or def.
func (a Annotations) ExitCodeOr(def int32) int32 {
	if a.ExitCode != nil {
		return *a.ExitCode
	}
	return def
}
