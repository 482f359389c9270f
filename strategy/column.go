package strategy

import "github.com/wippyai/proptest/value"

// Edges returns the edge candidates of p that a column seeds before random
// draws. Booleans and opaque slices have none.
func Edges(p value.Param) ([]value.Value, error) {
	var out []value.Value
	switch p.Type.Kind {
	case value.KindInt:
		for _, e := range value.EdgeCases(p.Type.Bits, p.Type.Signed) {
			out = append(out, value.IntValue(e))
		}
	case value.KindAddress:
		for _, a := range EdgeAddresses() {
			c, err := addressCell(p, a)
			if err != nil {
				return nil, err
			}
			out = append(out, value.AddressValue(c))
		}
	case value.KindSlice:
		if !p.Type.AddressLike {
			break
		}
		for _, a := range EdgeSliceAddresses() {
			c, err := addressCell(p, a)
			if err != nil {
				return nil, err
			}
			out = append(out, value.SliceValue(c))
		}
	}
	return out, nil
}

// Column generates runs candidates for p and shuffles them.
// With fixtures every entry is a fixture sample; otherwise the column starts
// with the edge set (truncated to runs) and is filled with draws.
func Column(src Source, p value.Param, fixtures []value.Value, runs int) ([]value.Value, error) {
	if err := p.Type.Validate(); err != nil {
		return nil, withParam(err, p)
	}
	if runs <= 0 {
		return nil, nil
	}

	col := make([]value.Value, 0, runs)
	if len(fixtures) == 0 {
		edges, err := Edges(p)
		if err != nil {
			return nil, err
		}
		if len(edges) > runs {
			edges = edges[:runs]
		}
		col = append(col, edges...)
	}

	for len(col) < runs {
		v, err := Draw(src, p, fixtures)
		if err != nil {
			return nil, err
		}
		col = append(col, v)
	}

	Shuffle(src, col)
	return col, nil
}

// Columns generates one column per parameter in declaration order.
// An unsupported parameter type fails before any column is built.
func Columns(src Source, params []value.Param, fixtures func(name string) []value.Value, runs int) ([][]value.Value, error) {
	for _, p := range params {
		if err := p.Type.Validate(); err != nil {
			return nil, withParam(err, p)
		}
	}

	cols := make([][]value.Value, len(params))
	for i, p := range params {
		var fx []value.Value
		if fixtures != nil {
			fx = fixtures(p.Name)
		}
		col, err := Column(src, p, fx, runs)
		if err != nil {
			return nil, err
		}
		cols[i] = col
	}
	return cols, nil
}
