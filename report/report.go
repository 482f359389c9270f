package report

import (
	"time"

	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/value"
)

// Status is the final state of a test.
type Status string

const (
	StatusPassed  Status = "passed"
	StatusFailed  Status = "failed"
	StatusPending Status = "pending"
	StatusTodo    Status = "todo"
)

// Test is the result of one entry point.
type Test struct {
	Fuzz     *Fuzz         `json:"fuzz,omitempty"`
	Name     string        `json:"name"`
	Title    string        `json:"title"`
	Scope    string        `json:"scope,omitempty"`
	Status   Status        `json:"status"`
	Message  string        `json:"message,omitempty"`
	Duration time.Duration `json:"duration_ns"`
}

// Fuzz summarizes a fuzz run of a test.
type Fuzz struct {
	Shrunk   *Shrunk   `json:"shrunk,omitempty"`
	Failures []Failure `json:"failures,omitempty"`
	Seed     uint64    `json:"seed"`
	Passed   int       `json:"passed"`
	Failed   int       `json:"failed"`
	Skipped  int       `json:"skipped"`
}

// Failure is one failing trial with its parameter bindings.
type Failure struct {
	Message  string    `json:"message"`
	Bindings []Binding `json:"bindings"`
	Run      int       `json:"run"`
}

// Binding is one parameter value rendered for humans. Raw keeps the
// portable encoding so the row can be replayed.
type Binding struct {
	Raw   value.Encoded `json:"raw"`
	Name  string        `json:"name"`
	Type  string        `json:"type"`
	Value string        `json:"value"`
}

// Shrunk records the minimization of the first failing row.
type Shrunk struct {
	Original   []Binding `json:"original"`
	Minimized  []Binding `json:"minimized"`
	Run        int       `json:"run"`
	Executions int       `json:"executions"`
}

// Suite is the result of one suite run.
type Suite struct {
	Started  time.Time     `json:"started"`
	ID       string        `json:"id"`
	Module   string        `json:"module"`
	Tests    []Test        `json:"tests"`
	Duration time.Duration `json:"duration_ns"`
	Seed     uint64        `json:"seed"`
}

// Counts tallies tests by status.
type Counts struct {
	Passed  int `json:"passed"`
	Failed  int `json:"failed"`
	Pending int `json:"pending"`
	Todo    int `json:"todo"`
}

// Total is the number of tests counted.
func (c Counts) Total() int {
	return c.Passed + c.Failed + c.Pending + c.Todo
}

// Add merges another tally.
func (c Counts) Add(o Counts) Counts {
	return Counts{
		Passed:  c.Passed + o.Passed,
		Failed:  c.Failed + o.Failed,
		Pending: c.Pending + o.Pending,
		Todo:    c.Todo + o.Todo,
	}
}

// Counts tallies the suite's tests.
func (s *Suite) Counts() Counts {
	var c Counts
	for _, t := range s.Tests {
		switch t.Status {
		case StatusPassed:
			c.Passed++
		case StatusFailed:
			c.Failed++
		case StatusPending:
			c.Pending++
		case StatusTodo:
			c.Todo++
		}
	}
	return c
}

// OK reports whether no test failed.
func (s *Suite) OK() bool {
	return s.Counts().Failed == 0
}

// Bind pairs a row with its parameters.
func Bind(params []value.Param, row []value.Value) []Binding {
	out := make([]Binding, 0, len(params))
	for i, p := range params {
		b := Binding{Name: p.Name, Type: p.Type.String(), Value: "null"}
		if i < len(row) {
			b.Value = row[i].Render(p.Type)
			b.Raw = row[i].Encode()
		}
		out = append(out, b)
	}
	return out
}

// Summarize converts a fuzz report into its record.
func Summarize(r *fuzz.Report) *Fuzz {
	f := &Fuzz{
		Seed:    r.Seed,
		Passed:  r.Passed,
		Failed:  r.Failed,
		Skipped: r.Skipped,
	}
	for _, t := range r.Failures {
		f.Failures = append(f.Failures, Failure{
			Run:      t.Index,
			Message:  t.Message(),
			Bindings: Bind(r.Params, t.Input),
		})
	}
	if r.Shrunk != nil {
		f.Shrunk = &Shrunk{
			Run:        r.Shrunk.Index,
			Executions: r.Shrunk.Executions,
			Original:   Bind(r.Params, r.Shrunk.Original),
			Minimized:  Bind(r.Params, r.Shrunk.Minimized),
		}
	}
	return f
}
