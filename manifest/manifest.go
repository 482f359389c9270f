package manifest

import (
	"bytes"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/wippyai/proptest/annotation"
	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/value"
)

// Manifest describes one suite.
type Manifest struct {
	Fixtures map[string][]string `yaml:"fixtures"`
	Module   string              `yaml:"module"`
	Tests    []Test              `yaml:"tests"`
	Defaults Defaults            `yaml:"defaults"`

	path string
}

// Defaults apply to every test that does not override them in its doc block.
type Defaults struct {
	Runs     *int   `yaml:"runs"`
	GasLimit *int64 `yaml:"gas_limit"`
	UnixTime *int64 `yaml:"unix_time"`
	ExitCode *int32 `yaml:"exit_code"`
	Balance  string `yaml:"balance"`
	Scope    string `yaml:"scope"`
}

// Test declares one entry point.
type Test struct {
	Name   string  `yaml:"name"`
	Doc    string  `yaml:"doc"`
	TLB    string  `yaml:"tlb"`
	Params []Param `yaml:"params"`
}

// Param declares one parameter with its textual type, see value.ParseType.
type Param struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// Load reads and validates a manifest file.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Load("read manifest "+path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, err
	}
	m.path = path
	return m, nil
}

// Parse decodes a manifest. Unknown fields are rejected.
func Parse(data []byte) (*Manifest, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Manifest
	if err := dec.Decode(&m); err != nil {
		return nil, errors.ParseFailed("manifest", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks names, types and defaults.
func (m *Manifest) Validate() error {
	if strings.TrimSpace(m.Module) == "" {
		return errors.InvalidInput(errors.PhaseParse, "manifest: module is required")
	}

	if m.Defaults.Balance != "" {
		if _, ok := new(big.Int).SetString(m.Defaults.Balance, 10); !ok {
			return errors.InvalidInput(errors.PhaseParse,
				fmt.Sprintf("manifest: invalid default balance %q", m.Defaults.Balance))
		}
	}

	seen := make(map[string]bool, len(m.Tests))
	for i, t := range m.Tests {
		if t.Name == "" {
			return errors.InvalidInput(errors.PhaseParse, fmt.Sprintf("manifest: test #%d has no name", i))
		}
		if seen[t.Name] {
			return errors.InvalidInput(errors.PhaseParse, "manifest: duplicate test "+t.Name)
		}
		seen[t.Name] = true

		if _, err := t.Parameters(); err != nil {
			return err
		}
	}
	return nil
}

// Path is the file the manifest was loaded from, or "".
func (m *Manifest) Path() string {
	return m.path
}

// ModulePath resolves Module relative to the manifest file.
func (m *Manifest) ModulePath() string {
	if filepath.IsAbs(m.Module) || m.path == "" {
		return m.Module
	}
	return filepath.Join(filepath.Dir(m.path), m.Module)
}

// Test returns the declaration of an entry point.
func (m *Manifest) Test(name string) (Test, bool) {
	for _, t := range m.Tests {
		if t.Name == name {
			return t, true
		}
	}
	return Test{}, false
}

// Types collects the declared type of every parameter name across tests,
// for parsing literal fixtures. The first declaration of a name wins.
func (m *Manifest) Types() map[string]value.Type {
	types := make(map[string]value.Type)
	for _, t := range m.Tests {
		params, err := t.Parameters()
		if err != nil {
			continue
		}
		for _, p := range params {
			if _, ok := types[p.Name]; !ok {
				types[p.Name] = p.Type
			}
		}
	}
	return types
}

// Annotations returns the defaults as annotations.
func (d Defaults) Annotations() annotation.Annotations {
	a := annotation.Annotations{
		Runs:     d.Runs,
		GasLimit: d.GasLimit,
		UnixTime: d.UnixTime,
		ExitCode: d.ExitCode,
		Scope:    d.Scope,
	}
	if d.Balance != "" {
		a.Balance, _ = new(big.Int).SetString(d.Balance, 10)
	}
	return a
}

// Parameters parses the declared parameters.
func (t Test) Parameters() ([]value.Param, error) {
	params := make([]value.Param, 0, len(t.Params))
	for _, p := range t.Params {
		typ, err := value.ParseType(p.Type)
		if err != nil {
			return nil, errors.UnsupportedParameterType(p.Name, p.Type)
		}
		params = append(params, value.Param{Name: p.Name, Type: typ})
	}
	return params, nil
}

// Annotations parses the doc block. A tlb field is used when the doc block
// has no @fuzzTlb.
func (t Test) Annotations() annotation.Annotations {
	a := annotation.Parse(t.Doc)
	if a.FuzzTLB == "" {
		a.FuzzTLB = strings.TrimSpace(t.TLB)
	}
	return a
}
