package strategy

import "github.com/wippyai/proptest/value"

// Bool draws a fair coin unless fixtures are present.
func Bool(src Source, p value.Param, fixtures []value.Value) (value.Value, error) {
	if len(fixtures) > 0 {
		return sample(src, p, fixtures)
	}
	return value.BoolValue(src.IntN(2) == 1), nil
}
