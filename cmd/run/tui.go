package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/report"
	"github.com/wippyai/proptest/runner"
	"github.com/wippyai/proptest/shrink"
	"github.com/wippyai/proptest/value"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	testStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type testStartedMsg struct {
	key  string
	runs int
}

type trialMsg struct {
	key     string
	outcome fuzz.Outcome
}

type shrinkMsg struct {
	key        string
	executions int
}

type testFinishedMsg struct {
	key  string
	test report.Test
}

type suitesDoneMsg struct {
	err error
}

// testProgress is the live state of one running test.
type testProgress struct {
	key      string
	runs     int
	done     int
	failed   int
	shrinks  int
	finished bool
}

type progressModel struct {
	err      error
	cancel   context.CancelFunc
	tests    map[string]*testProgress
	spinner  spinner.Model
	progress progress.Model
	order    []string
	counts   report.Counts
	suites   int
}

func newProgressModel(suites int, cancel context.CancelFunc) *progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = testStyle

	return &progressModel{
		cancel:   cancel,
		tests:    make(map[string]*testProgress),
		spinner:  sp,
		progress: progress.New(progress.WithDefaultGradient()),
		suites:   suites,
	}
}

// progressHooks turns runner callbacks of the suite at path into messages.
func progressHooks(p *tea.Program, path string) runner.Hooks {
	prefix := filepath.Base(path) + " › "
	return runner.Hooks{
		Fuzz: progressObserver{p: p, prefix: prefix},
		TestStarted: func(name string, runs int) {
			p.Send(testStartedMsg{key: prefix + name, runs: runs})
		},
		TestFinished: func(t report.Test) {
			p.Send(testFinishedMsg{key: prefix + t.Name, test: t})
		},
	}
}

type progressObserver struct {
	p      *tea.Program
	prefix string
}

func (o progressObserver) TrialFinished(test string, t fuzz.Trial) {
	o.p.Send(trialMsg{key: o.prefix + test, outcome: t.Outcome})
}

func (o progressObserver) ShrinkFinished(test string, _ value.Param, res shrink.Result) {
	o.p.Send(shrinkMsg{key: o.prefix + test, executions: res.Executions})
}

func (m *progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *progressModel) test(key string) *testProgress {
	t, ok := m.tests[key]
	if !ok {
		t = &testProgress{key: key}
		m.tests[key] = t
		m.order = append(m.order, key)
	}
	return t
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancel()
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.progress.Width = max(msg.Width-4, 10)

	case testStartedMsg:
		m.test(msg.key).runs = msg.runs

	case trialMsg:
		t := m.test(msg.key)
		t.done++
		if msg.outcome == fuzz.Failed {
			t.failed++
		}

	case shrinkMsg:
		m.test(msg.key).shrinks += msg.executions

	case testFinishedMsg:
		t := m.test(msg.key)
		t.finished = true
		m.counts = m.counts.Add(countOf(msg.test.Status))

	case suitesDoneMsg:
		m.err = msg.err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func countOf(s report.Status) report.Counts {
	switch s {
	case report.StatusPassed:
		return report.Counts{Passed: 1}
	case report.StatusFailed:
		return report.Counts{Failed: 1}
	case report.StatusPending:
		return report.Counts{Pending: 1}
	}
	return report.Counts{Todo: 1}
}

// fraction is the share of announced trials that have finished.
func (m *progressModel) fraction() float64 {
	var runs, done int
	for _, t := range m.tests {
		if t.runs == 0 {
			continue
		}
		runs += t.runs
		if t.finished {
			done += t.runs
		} else {
			done += min(t.done, t.runs)
		}
	}
	if runs == 0 {
		return 0
	}
	return float64(done) / float64(runs)
}

func (m *progressModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("PROPTEST"))
	b.WriteString(fmt.Sprintf(" %d module(s)\n\n", m.suites))
	b.WriteString(m.progress.ViewAs(m.fraction()))
	b.WriteString("\n\n")

	active := make([]*testProgress, 0, len(m.tests))
	for _, key := range m.order {
		if t := m.tests[key]; !t.finished && t.runs > 0 {
			active = append(active, t)
		}
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].key < active[j].key })

	for _, t := range active {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(testStyle.Render(t.key))
		b.WriteString(fmt.Sprintf(" %d/%d", t.done, t.runs))
		if t.failed > 0 {
			b.WriteString(errorStyle.Render(fmt.Sprintf(" %d failed", t.failed)))
		}
		if t.shrinks > 0 {
			b.WriteString(helpStyle.Render(fmt.Sprintf(" shrinking (%d calls)", t.shrinks)))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	summary := report.Summary(m.counts, report.Plain())
	if m.counts.Failed > 0 {
		b.WriteString(errorStyle.Render(summary))
	} else {
		b.WriteString(resultStyle.Render(summary))
	}
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q: cancel"))
	b.WriteString("\n")
	return b.String()
}
