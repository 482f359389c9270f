package report

import (
	"bytes"
	"encoding/json"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/proptest/errors"
	"github.com/wippyai/proptest/fuzz"
	"github.com/wippyai/proptest/value"
)

func TestFuzzFailure(t *testing.T) {
	r := &fuzz.Report{
		Test: "testFuzz_add",
		Params: []value.Param{
			{Name: "a", Type: value.Int(32, true)},
			{Name: "ok", Type: value.Bool()},
		},
		Passed:  3,
		Failed:  2,
		Skipped: 1,
		Failures: []fuzz.Trial{
			{
				Index:   2,
				Outcome: fuzz.Failed,
				Input:   []value.Value{value.IntValue(big.NewInt(17)), value.IntValue(big.NewInt(1))},
				Failure: errors.ExitCode("testFuzz_add", 5, "Test case has failed with an error code 5.\n\n[...]\nexecute THROW 5"),
			},
			{
				Index:   4,
				Outcome: fuzz.Failed,
				Input:   []value.Value{value.IntValue(big.NewInt(-1)), value.BoolValue(false)},
				Failure: errors.NewAssertion("ASSERT_FAIL", "", "nope"),
			},
		},
	}

	want := "Fuzz test failed (3 passed, 2 failed, 1 skipped).\n" +
		"\n" +
		"Run #2: Test case has failed with an error code 5.\n" +
		"├ a = 17\n" +
		"└ ok = true\n" +
		"\n" +
		"Run #4: AssertError - nope\n" +
		"├ a = -1\n" +
		"└ ok = false"

	require.Equal(t, want, FuzzFailure(r, Plain()))
	require.Empty(t, FuzzFailure(&fuzz.Report{Passed: 5}, Plain()))
}

func TestSummarize_Shrunk(t *testing.T) {
	params := []value.Param{{Name: "x", Type: value.Int(8, false)}}
	r := &fuzz.Report{
		Params: params,
		Failed: 1,
		Seed:   42,
		Failures: []fuzz.Trial{{
			Index:   0,
			Input:   []value.Value{value.IntValue(big.NewInt(10))},
			Failure: errors.NewAssertion("ASSERT_FAIL", "", "x"),
		}},
		Shrunk: &fuzz.Shrunk{
			Index:      0,
			Executions: 9,
			Original:   []value.Value{value.IntValue(big.NewInt(200))},
			Minimized:  []value.Value{value.IntValue(big.NewInt(10))},
		},
	}

	f := Summarize(r)
	require.Equal(t, uint64(42), f.Seed)
	require.Equal(t, "10", f.Failures[0].Bindings[0].Value)
	require.Equal(t, "uint8", f.Failures[0].Bindings[0].Type)
	require.Equal(t, "200", f.Shrunk.Original[0].Value)

	note := ShrinkNote(f.Shrunk, Plain())
	require.Equal(t, "Run #0 shrunk in 9 executions from:\n└ x = 200", note)

	f.Shrunk.Original[0].Value = "10"
	require.Empty(t, ShrinkNote(f.Shrunk, Plain()))
}

func TestBind_ShortRow(t *testing.T) {
	got := Bind([]value.Param{{Name: "a", Type: value.Bool()}, {Name: "b", Type: value.Address()}}, nil)
	require.Len(t, got, 2)
	require.Equal(t, "null", got[1].Value)
}

func sampleSuite() *Suite {
	return &Suite{
		ID:     "run-1",
		Module: "counter.wasm",
		Seed:   7,
		Tests: []Test{
			{Name: "test_ok", Title: "ok", Status: StatusPassed, Duration: 3 * time.Millisecond},
			{Name: "test_skip", Title: "skip", Status: StatusPending},
			{Name: "test_later", Title: "later", Scope: "math", Status: StatusTodo},
			{Name: "testFuzz_add", Title: "add", Scope: "math", Status: StatusFailed, Message: "Fuzz test failed (0 passed, 1 failed, 0 skipped).\n\nRun #0: boom\n└ a = 1"},
		},
	}
}

func TestSuite_Counts(t *testing.T) {
	s := sampleSuite()
	c := s.Counts()
	require.Equal(t, Counts{Passed: 1, Failed: 1, Pending: 1, Todo: 1}, c)
	require.Equal(t, 4, c.Total())
	require.False(t, s.OK())
}

func TestWriteSuite(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSuite(&buf, sampleSuite(), Plain()))
	out := buf.String()

	for _, want := range []string{
		"PROPTEST counter.wasm",
		"  ✓ ok (3ms)",
		"  ○ skip",
		"  math\n    ✎ later todo\n    ✕ add",
		"● math › add",
		"    Run #0: boom",
		"Tests: 1 failed, 1 skipped, 1 todo, 1 passed, 4 total",
		"Seed:  7",
	} {
		require.Contains(t, out, want)
	}
}

func TestWriteSuite_FullFuzzMessages(t *testing.T) {
	f := &Fuzz{
		Failed: 2,
		Failures: []Failure{
			{
				Run:      1,
				Message:  "AssertError - Address does not equal expected one.\n\nExpected: \"EQA\"\nReceived: \"EQB\"\n",
				Bindings: []Binding{{Name: "to", Value: "EQB"}},
			},
			{
				Run:      4,
				Message:  "custom - unreachable branch",
				Bindings: []Binding{{Name: "to", Value: "EQC"}},
			},
		},
	}
	suite := &Suite{
		Module: "wallet.wasm",
		Tests: []Test{{
			Name:    "testFuzz_send",
			Title:   "send",
			Status:  StatusFailed,
			Fuzz:    f,
			Message: FormatFuzz(f, Plain()),
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSuite(&buf, suite, Plain()))
	out := buf.String()

	require.Contains(t, out, "    Run #1: AssertError - Address does not equal expected one.\n    └ to = EQB\n")
	require.Contains(t, out, "      Expected: \"EQA\"\n      Received: \"EQB\"\n")
	require.Contains(t, out, "    Run #4: custom - unreachable branch\n    └ to = EQC\n")
	require.Less(t, strings.Index(out, "Received"), strings.Index(out, "Run #4"))

	require.NotContains(t, suite.Tests[0].Message, "Expected:")
}

func TestSummary_Colorless(t *testing.T) {
	require.Equal(t, "Tests: 2 passed, 2 total", Summary(Counts{Passed: 2}, Plain()))
	require.True(t, strings.HasSuffix(Summary(Counts{}, Color()), "0 total"))
}

func TestWriteJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, WriteJSON(path, []*Suite{sampleSuite()}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc struct {
		Suites []Suite `json:"suites"`
		Counts Counts  `json:"counts"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	require.Len(t, doc.Suites, 1)
	require.Equal(t, 1, doc.Counts.Failed)
	require.Equal(t, StatusTodo, doc.Suites[0].Tests[2].Status)

	require.Error(t, WriteJSON(filepath.Join(t.TempDir(), "no", "dir", "r.json"), nil))
}
