package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/proptest/fuzz"
)

// Styles decorates report text.
type Styles struct {
	Bold    lipgloss.Style
	Dim     lipgloss.Style
	Pass    lipgloss.Style
	Fail    lipgloss.Style
	Pending lipgloss.Style
	Todo    lipgloss.Style
	Title   lipgloss.Style

	plain bool
}

// Plain returns styles that leave text unchanged.
func Plain() Styles {
	s := lipgloss.NewStyle()
	return Styles{Bold: s, Dim: s, Pass: s, Fail: s, Pending: s, Todo: s, Title: s, plain: true}
}

// Color returns the terminal styles.
func Color() Styles {
	return Styles{
		Bold:    lipgloss.NewStyle().Bold(true),
		Dim:     lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
		Pass:    lipgloss.NewStyle().Foreground(lipgloss.Color("#90EE90")),
		Fail:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		Pending: lipgloss.NewStyle().Foreground(lipgloss.Color("#F0C674")),
		Todo:    lipgloss.NewStyle().Foreground(lipgloss.Color("#C397D8")),
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
	}
}

func (s Styles) render(st lipgloss.Style, text string) string {
	if s.plain {
		return text
	}
	return st.Render(text)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

// FuzzFailure renders the failure text of a fuzz run, or "" when no trial failed.
func FuzzFailure(r *fuzz.Report, st Styles) string {
	if r.OK() {
		return ""
	}
	return FormatFuzz(Summarize(r), st)
}

// FormatFuzz renders the failure text of a summarized fuzz run. Each run
// shows the first line of its message only.
func FormatFuzz(f *Fuzz, st Styles) string {
	return formatFuzz(f, st, false)
}

// formatFuzz renders f. With full set, the rest of each multi-line message
// follows the run's bindings.
func formatFuzz(f *Fuzz, st Styles, full bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Fuzz test failed (%d passed, %d failed, %d skipped).", f.Passed, f.Failed, f.Skipped)

	for _, fail := range f.Failures {
		b.WriteString("\n\n")
		b.WriteString(st.render(st.Bold, fmt.Sprintf("Run #%d", fail.Run)))
		b.WriteString(": ")
		b.WriteString(firstLine(fail.Message))
		for i, bind := range fail.Bindings {
			branch := "├"
			if i == len(fail.Bindings)-1 {
				branch = "└"
			}
			b.WriteString("\n")
			b.WriteString(branch)
			b.WriteString(" ")
			b.WriteString(st.render(st.Bold, bind.Name))
			b.WriteString(" = ")
			b.WriteString(bind.Value)
		}
		if !full {
			continue
		}
		if rest := restLines(fail.Message); rest != "" {
			b.WriteString("\n")
			for _, line := range strings.Split(rest, "\n") {
				b.WriteString("\n")
				if line != "" {
					b.WriteString("  ")
					b.WriteString(line)
				}
			}
		}
	}

	return b.String()
}

// restLines is s without its first line and surrounding blank lines.
func restLines(s string) string {
	i := strings.IndexByte(s, '\n')
	if i < 0 {
		return ""
	}
	return strings.Trim(s[i+1:], "\n")
}

// ShrinkNote describes where a minimized row came from, or "" when
// shrinking did not change it.
func ShrinkNote(s *Shrunk, st Styles) string {
	if s == nil || !changed(s) {
		return ""
	}
	var b strings.Builder
	b.WriteString(st.render(st.Dim, fmt.Sprintf("Run #%d shrunk in %d executions from:", s.Run, s.Executions)))
	for i, bind := range s.Original {
		branch := "├"
		if i == len(s.Original)-1 {
			branch = "└"
		}
		b.WriteString("\n")
		b.WriteString(st.render(st.Dim, branch+" "+bind.Name+" = "+bind.Value))
	}
	return b.String()
}

func changed(s *Shrunk) bool {
	for i := range s.Original {
		if i >= len(s.Minimized) || s.Original[i].Value != s.Minimized[i].Value {
			return true
		}
	}
	return false
}

var statusMarks = map[Status]string{
	StatusPassed:  "✓",
	StatusFailed:  "✕",
	StatusPending: "○",
	StatusTodo:    "✎",
}

func (s Styles) status(st Status) lipgloss.Style {
	switch st {
	case StatusPassed:
		return s.Pass
	case StatusFailed:
		return s.Fail
	case StatusPending:
		return s.Pending
	}
	return s.Todo
}

// WriteSuite prints one line per test grouped by scope, the failure
// messages and a summary line. Fuzz failures list every failing run with
// its complete message.
func WriteSuite(w io.Writer, suite *Suite, st Styles) error {
	var b strings.Builder

	b.WriteString(st.render(st.Title, "PROPTEST"))
	b.WriteString(" ")
	b.WriteString(suite.Module)
	b.WriteString("\n\n")

	scope := ""
	for _, t := range suite.Tests {
		indent := "  "
		if t.Scope != "" {
			if t.Scope != scope {
				b.WriteString("  ")
				b.WriteString(t.Scope)
				b.WriteString("\n")
				scope = t.Scope
			}
			indent = "    "
		}
		b.WriteString(indent)
		b.WriteString(st.render(st.status(t.Status), statusMarks[t.Status]))
		b.WriteString(" ")
		b.WriteString(t.Title)
		if t.Status == StatusPassed || t.Status == StatusFailed {
			b.WriteString(st.render(st.Dim, fmt.Sprintf(" (%s)", t.Duration.Round(time.Millisecond))))
		}
		if t.Status == StatusTodo {
			b.WriteString(st.render(st.Dim, " todo"))
		}
		b.WriteString("\n")
	}

	for _, t := range suite.Tests {
		if t.Status != StatusFailed {
			continue
		}
		b.WriteString("\n")
		b.WriteString(st.render(st.Fail, "● "+fullName(t)))
		b.WriteString("\n\n")
		msg := t.Message
		if t.Fuzz != nil {
			if len(t.Fuzz.Failures) > 0 {
				msg = formatFuzz(t.Fuzz, st, true)
			}
			if note := ShrinkNote(t.Fuzz.Shrunk, st); note != "" {
				msg += "\n\n" + note
			}
		}
		for _, line := range strings.Split(msg, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(Summary(suite.Counts(), st))
	b.WriteString("\n")
	if suite.Seed != 0 {
		b.WriteString(st.render(st.Dim, fmt.Sprintf("Seed:  %d", suite.Seed)))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func fullName(t Test) string {
	if t.Scope == "" {
		return t.Title
	}
	return t.Scope + " › " + t.Title
}

// Summary renders the tally line: "Tests: 1 failed, 2 passed, 3 total".
func Summary(c Counts, st Styles) string {
	var parts []string
	if c.Failed > 0 {
		parts = append(parts, st.render(st.Fail, fmt.Sprintf("%d failed", c.Failed)))
	}
	if c.Pending > 0 {
		parts = append(parts, st.render(st.Pending, fmt.Sprintf("%d skipped", c.Pending)))
	}
	if c.Todo > 0 {
		parts = append(parts, st.render(st.Todo, fmt.Sprintf("%d todo", c.Todo)))
	}
	if c.Passed > 0 {
		parts = append(parts, st.render(st.Pass, fmt.Sprintf("%d passed", c.Passed)))
	}
	parts = append(parts, fmt.Sprintf("%d total", c.Total()))
	return st.render(st.Bold, "Tests:") + " " + strings.Join(parts, ", ")
}
