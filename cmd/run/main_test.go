package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/wippyai/proptest/corpus"
	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/internal/wasmgen"
	"github.com/wippyai/proptest/report"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var (
	i32    = []wasmgen.ValType{wasmgen.I32}
	ptrLen = []wasmgen.ValType{wasmgen.I32, wasmgen.I32}
)

func passingGuest() []byte {
	m := wasmgen.New()
	wasmgen.ImportHost(m)
	m.Memory(1)
	m.Func("test_pass", nil, i32, nil, wasmgen.I32Const(0))
	m.Func("testFuzz_ok", ptrLen, i32, nil, wasmgen.I32Const(0))
	return m.Encode()
}

// failingGuest exits with 7 whenever its int8 argument exceeds 100.
func failingGuest() []byte {
	m := wasmgen.New()
	wasmgen.ImportHost(m)
	m.Memory(1)
	m.Func("testFuzz_gt", ptrLen, i32, nil,
		wasmgen.LocalGet(0), wasmgen.I64Load(0),
		wasmgen.I64Const(100), wasmgen.I64GtS(),
		wasmgen.If(wasmgen.I32), wasmgen.I32Const(7), wasmgen.Else(), wasmgen.I32Const(0), wasmgen.End())
	return m.Encode()
}

const passingYAML = `
module: pass.wasm
tests:
  - name: testFuzz_ok
    doc: "@runs 5"
    params: [{name: x, type: int8}]
`

const failingYAML = `
module: fail.wasm
tests:
  - name: testFuzz_gt
    doc: "@runs 60"
    params: [{name: x, type: int8}]
`

func writeSuite(t *testing.T, dir, name, doc string, module []byte) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".wasm"), module, 0o644))
	path := filepath.Join(dir, name+".yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRun_PassingSuite(t *testing.T) {
	dir := t.TempDir()
	path := writeSuite(t, dir, "pass", passingYAML, passingGuest())
	jsonPath := filepath.Join(dir, "report.json")
	metricsPath := filepath.Join(dir, "metrics.prom")

	out, err := execute(t, "run", path, "--seed", "1", "--log-level", "error",
		"--json", jsonPath, "--metrics-file", metricsPath)
	require.NoError(t, err)
	require.Contains(t, out, "PROPTEST pass.wasm")
	require.Contains(t, out, "✓ ok")
	require.Contains(t, out, "Tests: 2 passed, 2 total")
	require.Contains(t, out, "Seed:  1")

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var doc struct {
		Suites []report.Suite `json:"suites"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Suites, 1)
	require.Len(t, doc.Suites[0].Tests, 2)

	metrics, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	require.Contains(t, string(metrics), `proptest_trials_total{outcome="passed",test="testFuzz_ok"} 5`)
	require.Contains(t, string(metrics), `proptest_tests_total{status="passed"} 2`)
}

func TestRun_FailingSuite(t *testing.T) {
	dir := t.TempDir()
	path := writeSuite(t, dir, "fail", failingYAML, failingGuest())
	db := filepath.Join(dir, "corpus.db")

	out, err := execute(t, "run", path, "--seed", "3", "--log-level", "error", "--corpus", db)
	require.ErrorIs(t, err, errTestsFailed)
	require.Contains(t, out, "✕ gt")
	require.Contains(t, out, "● gt")
	require.Contains(t, out, "Tests: 1 failed, 1 total")

	store, err := corpus.Open(db)
	require.NoError(t, err)
	entries, err := store.List(context.Background(), "fail.wasm")
	require.NoError(t, err)
	require.NoError(t, store.Close())
	require.NotEmpty(t, entries)

	listed, err := execute(t, "corpus", "list", "--corpus", db)
	require.NoError(t, err)
	require.Contains(t, listed, "testFuzz_gt")
	require.Contains(t, listed, entries[0].ID)

	shown, err := execute(t, "corpus", "show", entries[0].ID, "--corpus", db)
	require.NoError(t, err)
	require.Contains(t, shown, "fail.wasm › testFuzz_gt")

	_, err = execute(t, "corpus", "delete", entries[0].ID, "--corpus", db)
	require.NoError(t, err)
	_, err = execute(t, "corpus", "show", entries[0].ID, "--corpus", db)
	require.ErrorContains(t, err, entries[0].ID)
}

func TestRun_Jobs(t *testing.T) {
	dir := t.TempDir()
	fail := writeSuite(t, dir, "fail", failingYAML, failingGuest())
	pass := writeSuite(t, dir, "pass", passingYAML, passingGuest())

	out, err := execute(t, "run", fail, pass, "--seed", "9", "--jobs", "2", "--log-level", "error", "--no-shrink")
	require.ErrorIs(t, err, errTestsFailed)

	first := strings.Index(out, "PROPTEST fail.wasm")
	second := strings.Index(out, "PROPTEST pass.wasm")
	require.GreaterOrEqual(t, first, 0)
	require.Greater(t, second, first)
	require.Contains(t, out, "Tests: 1 failed, 2 passed, 3 total")
}

func TestRun_Pattern(t *testing.T) {
	dir := t.TempDir()
	path := writeSuite(t, dir, "pass", passingYAML, passingGuest())

	out, err := execute(t, "run", path, "--pattern", "^test_", "--log-level", "error")
	require.NoError(t, err)
	require.Contains(t, out, "Tests: 1 skipped, 1 passed, 2 total")

	_, err = execute(t, "run", path, "--pattern", "(", "--log-level", "error")
	require.Error(t, err)
}

func TestRun_Errors(t *testing.T) {
	_, err := execute(t, "run")
	require.Error(t, err)

	_, err = execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"), "--log-level", "error")
	require.Error(t, err)
	require.NotErrorIs(t, err, errTestsFailed)

	_, err = execute(t, "run", "x.yaml", "--log-level", "loud")
	require.ErrorContains(t, err, "invalid log level")
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "suite.yaml")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	ran := make(chan struct{}, 8)
	errc := make(chan error, 1)
	go func() {
		errc <- watch(ctx, []string{file}, 50*time.Millisecond, zap.NewNop(), func(context.Context) {
			calls.Add(1)
			ran <- struct{}{}
		})
	}()

	<-ran
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(file, []byte("c"), 0o644))

	select {
	case <-ran:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not rerun after a change")
	}

	cancel()
	require.NoError(t, <-errc)
	require.Equal(t, int32(2), calls.Load())
}

func TestProgressModel(t *testing.T) {
	cancelled := false
	m := newProgressModel(1, func() { cancelled = true })

	m.Update(testStartedMsg{key: "a › testFuzz_x", runs: 4})
	m.Update(trialMsg{key: "a › testFuzz_x", outcome: fuzz.Passed})
	m.Update(trialMsg{key: "a › testFuzz_x", outcome: fuzz.Failed})
	require.InDelta(t, 0.5, m.fraction(), 1e-9)

	view := m.View()
	require.Contains(t, view, "a › testFuzz_x 2/4")
	require.Contains(t, view, "1 failed")

	m.Update(testFinishedMsg{key: "a › testFuzz_x", test: report.Test{Status: report.StatusFailed}})
	require.InDelta(t, 1.0, m.fraction(), 1e-9)
	require.Equal(t, 1, m.counts.Failed)
	require.NotContains(t, m.View(), "2/4")

	_, cmd := m.Update(suitesDoneMsg{})
	require.NotNil(t, cmd)
	require.False(t, cancelled)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	require.True(t, cancelled)
}
