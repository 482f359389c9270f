package strategy

import (
	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/value"
)

// Draw produces one candidate for p.
func Draw(src Source, p value.Param, fixtures []value.Value) (value.Value, error) {
	switch p.Type.Kind {
	case value.KindInt:
		return Int(src, p, fixtures)
	case value.KindBool:
		return Bool(src, p, fixtures)
	case value.KindAddress:
		return Address(src, p, fixtures)
	case value.KindSlice:
		return Slice(src, p, fixtures)
	}
	return value.Value{}, errors.UnsupportedParameterType(p.Name, p.Type.String())
}

// CheckFixtures verifies that every fixture can be bound to p.
// Integers and booleans share the integer stack type, addresses and slices
// share the slice stack type.
func CheckFixtures(p value.Param, fixtures []value.Value) error {
	want := stackKind(p.Type.Kind)
	for _, f := range fixtures {
		if stackKind(f.Kind) != want {
			return errors.FixtureTypeMismatch(p.Name, want, stackKind(f.Kind))
		}
	}
	return nil
}

func stackKind(k value.Kind) string {
	switch k {
	case value.KindInt, value.KindBool:
		return "int"
	case value.KindAddress, value.KindSlice:
		return "slice"
	}
	return k.String()
}

func sample(src Source, p value.Param, fixtures []value.Value) (value.Value, error) {
	if err := CheckFixtures(p, fixtures); err != nil {
		return value.Value{}, err
	}
	return fixtures[src.IntN(len(fixtures))], nil
}

func wrapGenerate(p value.Param, detail string, err error) error {
	return errors.New(errors.PhaseGenerate, errors.KindInvalidData).
		Path(p.Name).
		Detail("%s", detail).
		Cause(err).
		Build()
}

func withParam(err error, p value.Param) error {
	var e *errors.Error
	if errors.As(err, &e) && len(e.Path) == 0 {
		out := *e
		out.Path = []string{p.Name}
		return &out
	}
	return err
}
