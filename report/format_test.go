package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/pairing"
	"github.com/lexandro/snapmatch/similarity"
)

func testScores() []similarity.Score {
	return []similarity.Score{
		{
			Pair: pairing.FilePair{
				Identity: "a.py",
				A:        pairing.Member{Path: "/course/hw1/a-ref.py", Side: "ref"},
				B:        pairing.Member{Path: "/course/hw1/a-sub.py", Side: "sub"},
			},
			Ratio: 0.9876,
		},
		{
			Pair: pairing.FilePair{
				Identity: "b.py",
				A:        pairing.Member{Path: "/course/hw1/b-ref.py", Side: "ref"},
				B:        pairing.Member{Path: "/course/hw1/b-sub.py", Side: "sub"},
			},
			Ratio:   0,
			Warning: "binary content in b-sub.py",
		},
	}
}

func testFailures() []failure.Record {
	return []failure.Record{
		{Path: "/course/hw1/c-sub.py", Kind: failure.UnpairedSnapshot, Detail: "no counterpart for c.py (side sub)"},
		{Path: "/course/hw1/notes.txt", Kind: failure.InputKindMismatch, Detail: "extension .txt is not a snapshot extension"},
		{Path: "missing.py", Kind: failure.InputNotFound},
	}
}

func Test_New_RanksAndBands(t *testing.T) {
	r := New("suffix", testScores(), nil, Stats{Inputs: 1})

	if r.RunID == "" {
		t.Error("expected a run ID")
	}
	if len(r.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(r.Matches))
	}
	if r.Matches[0].Rank != 1 || r.Matches[0].Percent != 98.8 || r.Matches[0].Band != "near copy" {
		t.Errorf("unexpected first match %+v", r.Matches[0])
	}
	if r.Failures == nil {
		t.Error("expected failures to be an empty slice, not nil")
	}
	if r.Stats.Compared != 2 || r.Stats.Inputs != 1 {
		t.Errorf("unexpected stats %+v", r.Stats)
	}
}

func Test_Percent_OneDecimal(t *testing.T) {
	tests := []struct {
		ratio float64
		want  float64
	}{
		{1.0, 100.0},
		{0.0, 0.0},
		{0.12345, 12.3},
		{0.66666, 66.7},
	}

	for _, tt := range tests {
		if got := Percent(tt.ratio); got != tt.want {
			t.Errorf("Percent(%v) = %v, want %v", tt.ratio, got, tt.want)
		}
	}
}

func Test_FormatText_MatchesAndFailuresSeparated(t *testing.T) {
	r := New("suffix", testScores(), testFailures(), Stats{})
	out := FormatText(r, TextOptions{BaseDir: "/course"})

	for _, want := range []string{
		"── Matches (2) ──",
		"98.8%",
		"ref: hw1/a-ref.py",
		"warning: binary content in b-sub.py",
		"── Failed paths (3) ──",
		"not found (1):",
		"wrong kind (1):",
		"unpaired (1):",
		"hw1/c-sub.py  no counterpart",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}

	if strings.Index(out, "not found") > strings.Index(out, "unpaired") {
		t.Error("expected failures grouped in taxonomy order")
	}
}

func Test_FormatText_HeaderAndLanguage(t *testing.T) {
	stats := Stats{ByKind: map[failure.Kind]int{failure.UnpairedSnapshot: 1, failure.InputNotFound: 2}}
	r := New("suffix", testScores(), testFailures(), stats)
	r.RuleNote = "identity is <id>.<ext> from the file name, directories are ignored"
	out := FormatText(r, TextOptions{})

	for _, want := range []string{
		"Pairing: identity is <id>.<ext> from the file name, directories are ignored",
		"failed paths (2 not found, 1 unpaired)",
		"a.py (Python)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if r.Matches[0].Language != "Python" {
		t.Errorf("expected Python, got %s", r.Matches[0].Language)
	}
}

func Test_FormatText_Threshold(t *testing.T) {
	r := New("suffix", testScores(), nil, Stats{})
	out := FormatText(r, TextOptions{Threshold: 50})

	if strings.Contains(out, "b.py") {
		t.Errorf("expected b.py to be hidden below threshold\n%s", out)
	}
	if !strings.Contains(out, "a.py") {
		t.Errorf("expected a.py above threshold\n%s", out)
	}
}

func Test_FormatText_NoPairs(t *testing.T) {
	r := New("suffix", nil, testFailures(), Stats{})
	out := FormatText(r, TextOptions{})

	if !strings.Contains(out, "No pairs were compared.") {
		t.Errorf("expected no-pairs message\n%s", out)
	}
	if !strings.Contains(out, "Failed paths (3)") {
		t.Errorf("expected failures to still be listed\n%s", out)
	}
}

func Test_WriteJSON(t *testing.T) {
	r := New("directory", testScores(), testFailures(), Stats{})

	var buf bytes.Buffer
	if err := WriteJSON(&buf, r, 50); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Report
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded.Matches) != 1 || decoded.Matches[0].Identity != "a.py" {
		t.Errorf("expected only a.py after threshold, got %+v", decoded.Matches)
	}
	if len(decoded.Failures) != 3 {
		t.Errorf("expected 3 failures, got %d", len(decoded.Failures))
	}
	if decoded.Convention != "directory" || decoded.RunID != r.RunID {
		t.Errorf("unexpected header %s/%s", decoded.Convention, decoded.RunID)
	}
	if len(r.Matches) != 2 {
		t.Error("expected WriteJSON to leave the report unfiltered")
	}
}

func Test_displayPath(t *testing.T) {
	tests := []struct {
		path, base, want string
	}{
		{"/course/hw1/a.py", "/course", "hw1/a.py"},
		{"/other/a.py", "/course", "/other/a.py"},
		{"rel.py", "/course", "rel.py"},
		{"/course/a.py", "", "/course/a.py"},
	}

	for _, tt := range tests {
		if got := displayPath(tt.path, tt.base); got != tt.want {
			t.Errorf("displayPath(%s, %s) = %s, want %s", tt.path, tt.base, got, tt.want)
		}
	}
}
