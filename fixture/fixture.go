package fixture

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/executor"
	"github.com/wippyai/proptest/value"
)

// Prefix marks fixture getters.
const Prefix = "fixture_"

// Set maps a parameter or getter name to its candidates.
type Set map[string][]value.Value

// Lookup returns the candidates for param, preferring the getter
// fixture_<param> over a literal list stored under the bare name.
func (s Set) Lookup(param string) []value.Value {
	if vs, ok := s[Prefix+param]; ok {
		return vs
	}
	return s[param]
}

// Merge copies the entries of o into s, overwriting existing names.
func (s Set) Merge(o Set) Set {
	if s == nil {
		s = make(Set, len(o))
	}
	maps.Copy(s, o)
	return s
}

// Names returns the stored names in sorted order.
func (s Set) Names() []string {
	return slices.Sorted(maps.Keys(s))
}

// IsGetter reports whether entry is a fixture getter.
func IsGetter(entry string) bool {
	return strings.HasPrefix(entry, Prefix) && len(entry) > len(Prefix)
}

// Getters filters fixture getters out of entries.
func Getters(entries []string) []string {
	var out []string
	for _, e := range entries {
		if IsGetter(e) {
			out = append(out, e)
		}
	}
	return out
}

// Static parses literal fixtures. Every name must have a declared type.
func Static(raw map[string][]string, types map[string]value.Type) (Set, error) {
	set := make(Set, len(raw))
	for _, name := range slices.Sorted(maps.Keys(raw)) {
		t, ok := types[name]
		if !ok {
			return nil, errors.NotFound(errors.PhaseParse, "fixture parameter", name)
		}
		literals := raw[name]
		vs := make([]value.Value, 0, len(literals))
		for i, lit := range literals {
			v, err := value.ParseLiteral(t, lit)
			if err != nil {
				return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
					Path(name, fmt.Sprint(i)).
					Cause(err).
					Detail("fixture %s[%d]", name, i).
					Build()
			}
			vs = append(vs, v)
		}
		if len(vs) > 0 {
			set[name] = vs
		}
	}
	return set, nil
}

// Extract runs every getter once and stores its result stack under the
// getter name. A getter that fails or exits with a non-zero code aborts
// the extraction.
func Extract(ctx context.Context, exec executor.Executor, getters []string, env executor.Environment) (Set, error) {
	set := make(Set, len(getters))
	for _, g := range getters {
		res, err := exec.Run(ctx, executor.Request{Entry: g, Env: env})
		if err != nil {
			return nil, errors.Wrap(errors.PhaseExecute, errors.KindExecution, err,
				fmt.Sprintf("Fixture getter %s failed: %v", g, err))
		}
		if !res.Success {
			return nil, errors.ExecutionFailure(g, fmt.Sprintf("fixture getter %s: %s", g, res.Error), nil)
		}
		if res.ExitCode != 0 {
			return nil, errors.ExitCode(g, res.ExitCode,
				fmt.Sprintf("Fixture getter %s failed: %d", g, res.ExitCode))
		}

		Logger().Debug("fixture extracted",
			zap.String("getter", g),
			zap.Int("values", len(res.Stack)))
		set[g] = res.Stack
	}
	return set, nil
}
