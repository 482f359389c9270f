package schema

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/value"
)

// ArgsType is the type whose first constructor describes test parameters.
const ArgsType = "Args"

// Field is one named field of a constructor. Type is the field type with
// surrounding parentheses removed and whitespace collapsed.
type Field struct {
	Name string
	Type string
}

// Constructor is one declaration: name#tag fields... = Type;
type Constructor struct {
	Name   string
	Tag    string
	Type   string
	Fields []Field
}

// Schema holds the parsed constructors grouped by result type.
type Schema struct {
	types map[string][]Constructor
}

// Parse reads a TL-B text. Comments are stripped; declarations end with ';'.
func Parse(text string) (*Schema, error) {
	s := &Schema{types: make(map[string][]Constructor)}

	for _, decl := range strings.Split(stripComments(text), ";") {
		decl = strings.TrimSpace(decl)
		if decl == "" {
			continue
		}
		c, err := parseDeclaration(decl)
		if err != nil {
			return nil, err
		}
		s.types[c.Type] = append(s.types[c.Type], c)
	}

	return s, nil
}

func stripComments(text string) string {
	var b strings.Builder
	for len(text) > 0 {
		switch {
		case strings.HasPrefix(text, "//"):
			if i := strings.IndexByte(text, '\n'); i >= 0 {
				text = text[i:]
			} else {
				text = ""
			}
		case strings.HasPrefix(text, "/*"):
			if i := strings.Index(text[2:], "*/"); i >= 0 {
				text = text[i+4:]
			} else {
				text = ""
			}
			b.WriteByte(' ')
		default:
			b.WriteByte(text[0])
			text = text[1:]
		}
	}
	return b.String()
}

func parseDeclaration(decl string) (Constructor, error) {
	lhs, rhs, ok := cutResult(decl)
	if !ok {
		return Constructor{}, errors.ParseFailed("tl-b declaration",
			fmt.Errorf("missing '=' in %q", decl))
	}

	result := strings.Fields(rhs)
	if len(result) == 0 {
		return Constructor{}, errors.ParseFailed("tl-b declaration",
			fmt.Errorf("missing result type in %q", decl))
	}

	tokens, err := tokenize(lhs)
	if err != nil {
		return Constructor{}, err
	}
	if len(tokens) == 0 {
		return Constructor{}, errors.ParseFailed("tl-b declaration",
			fmt.Errorf("missing constructor in %q", decl))
	}

	c := Constructor{Type: result[0]}
	c.Name, c.Tag = splitTag(tokens[0])

	for i := 1; i < len(tokens); i++ {
		tok := tokens[i]
		// Implicit parameters and constraints are not fields.
		if strings.HasPrefix(tok, "{") {
			continue
		}
		name, typ, ok := strings.Cut(tok, ":")
		if !ok {
			c.Fields = append(c.Fields, Field{Type: normalize(tok)})
			continue
		}
		// "n:## 8" spells the width as a separate token.
		if (typ == "##" || typ == "#<" || typ == "#<=") && i+1 < len(tokens) {
			typ += " " + tokens[i+1]
			i++
		}
		c.Fields = append(c.Fields, Field{Name: name, Type: normalize(typ)})
	}

	return c, nil
}

// cutResult splits decl at the last '=' outside brackets. Fields such as
// (#<= 1000) contain '=' too, but the result type always follows the last one.
func cutResult(decl string) (lhs, rhs string, ok bool) {
	depth, at := 0, -1
	for i := 0; i < len(decl); i++ {
		switch decl[i] {
		case '(', '{', '[':
			depth++
		case ')', '}', ']':
			depth--
		case '=':
			if depth == 0 {
				at = i
			}
		}
	}
	if at < 0 {
		return decl, "", false
	}
	return decl[:at], decl[at+1:], true
}

func splitTag(tok string) (name, tag string) {
	if i := strings.IndexAny(tok, "#$"); i >= 0 {
		return tok[:i], tok[i:]
	}
	return tok, ""
}

// tokenize splits on whitespace while keeping (...) and {...} groups whole.
func tokenize(s string) ([]string, error) {
	var (
		tokens []string
		cur    strings.Builder
		depth  int
	)
	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range s {
		switch {
		case r == '(' || r == '{':
			depth++
			cur.WriteRune(r)
		case r == ')' || r == '}':
			depth--
			if depth < 0 {
				return nil, errors.ParseFailed("tl-b declaration",
					fmt.Errorf("unbalanced %q in %q", r, s))
			}
			cur.WriteRune(r)
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	if depth != 0 {
		return nil, errors.ParseFailed("tl-b declaration", fmt.Errorf("unbalanced brackets in %q", s))
	}
	flush()
	return tokens, nil
}

func normalize(typ string) string {
	typ = strings.TrimSpace(typ)
	for strings.HasPrefix(typ, "(") && strings.HasSuffix(typ, ")") {
		typ = strings.TrimSpace(typ[1 : len(typ)-1])
	}
	return strings.Join(strings.Fields(typ), " ")
}

// Constructors returns the constructors declared for a type.
func (s *Schema) Constructors(typ string) []Constructor {
	return s.types[typ]
}

// Args returns the first Args constructor.
func (s *Schema) Args() (Constructor, bool) {
	cs := s.types[ArgsType]
	if len(cs) == 0 {
		return Constructor{}, false
	}
	return cs[0], true
}

// Field looks up a named field of the Args constructor.
func (s *Schema) Field(name string) (Field, bool) {
	args, ok := s.Args()
	if !ok {
		return Field{}, false
	}
	for _, f := range args.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// IntField returns the integer type of a field.
//
//	intN, uintN, (int N), (uint N)   N bits
//	int, uint                        256 bits
//	## N                             N bits unsigned
//	#                                32 bits unsigned
//	#< N, #<= N                      unsigned, wide enough for the bound
//	Coins, Grams                     120 bits unsigned
func (s *Schema) IntField(name string) (value.Type, error) {
	f, ok := s.Field(name)
	if !ok {
		return value.Type{}, notInt(name)
	}

	t, ok := numberType(f.Type)
	if !ok {
		return value.Type{}, notInt(name)
	}
	if err := t.Validate(); err != nil {
		return value.Type{}, errors.UnsupportedParameterType(name, f.Type)
	}
	return t, nil
}

func notInt(name string) error {
	return errors.New(errors.PhaseParse, errors.KindUnsupportedType).
		Path(name).
		Detail("Field %s is not of type TLBNumberType", name).
		Build()
}

func numberType(typ string) (value.Type, bool) {
	switch strings.ToLower(typ) {
	case "coins", "grams":
		return value.Int(value.CoinsBits, false), true
	case "#":
		return value.Int(32, false), true
	case "int":
		return value.Int(value.MaxBits, true), true
	case "uint":
		return value.Int(value.MaxBits, false), true
	}

	parts := strings.Fields(typ)
	switch {
	case len(parts) == 2 && parts[0] == "##":
		n, err := strconv.Atoi(parts[1])
		return value.Int(n, false), err == nil
	case len(parts) == 2 && (parts[0] == "#<" || parts[0] == "#<="):
		bound, ok := new(big.Int).SetString(parts[1], 10)
		if !ok || bound.Sign() <= 0 {
			return value.Type{}, false
		}
		if parts[0] == "#<" {
			bound.Sub(bound, big.NewInt(1))
		}
		return value.Int(max(bound.BitLen(), 1), false), true
	case len(parts) == 2 && (parts[0] == "int" || parts[0] == "uint"):
		n, err := strconv.Atoi(parts[1])
		return value.Int(n, parts[0] == "int"), err == nil
	case len(parts) == 1 && strings.HasPrefix(typ, "uint"):
		n, err := strconv.Atoi(typ[4:])
		return value.Int(n, false), err == nil
	case len(parts) == 1 && strings.HasPrefix(typ, "int"):
		n, err := strconv.Atoi(typ[3:])
		return value.Int(n, true), err == nil
	}
	return value.Type{}, false
}

var addressTypes = map[string]bool{
	"address":       true,
	"msgaddress":    true,
	"msgaddressint": true,
}

// IsAddressField reports whether a field holds an address.
func (s *Schema) IsAddressField(name string) bool {
	f, ok := s.Field(name)
	return ok && addressTypes[strings.ToLower(f.Type)]
}

// Refine applies the Args constructor to a declared parameter. Integer
// parameters must have a numeric field; slice parameters become address-like
// when their field is an address. Other kinds are returned unchanged.
func (s *Schema) Refine(p value.Param) (value.Param, error) {
	switch p.Type.Kind {
	case value.KindInt:
		t, err := s.IntField(p.Name)
		if err != nil {
			return p, err
		}
		p.Type = t
	case value.KindSlice:
		p.Type.AddressLike = s.IsAddressField(p.Name)
	}
	return p, nil
}

// RefineAll refines every parameter in order.
func (s *Schema) RefineAll(params []value.Param) ([]value.Param, error) {
	out := make([]value.Param, len(params))
	for i, p := range params {
		r, err := s.Refine(p)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}
