package pairing

import (
	"testing"

	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/resolve"
)

func paths(names ...string) []resolve.ValidatedPath {
	out := make([]resolve.ValidatedPath, 0, len(names))
	for _, n := range names {
		out = append(out, resolve.ValidatedPath{Path: "/course/hw1/" + n, Input: n, Source: resolve.FromFile})
	}
	return out
}

func newSuffixPairer(t *testing.T) *Pairer {
	t.Helper()
	conv, err := NewConvention(SuffixConvention, "", nil)
	if err != nil {
		t.Fatalf("creating convention: %v", err)
	}
	return &Pairer{Convention: conv}
}

func Test_Pairer_ReferenceAndSubmission(t *testing.T) {
	result := newSuffixPairer(t).Pair(paths("a-ref.py", "a-sub.py"))

	if len(result.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(result.Pairs))
	}
	pair, ok := result.Pairs["a.py"]
	if !ok {
		t.Fatalf("expected identity a.py, got %v", result.Order)
	}
	if pair.A.Side != "ref" || pair.B.Side != "sub" {
		t.Errorf("expected ref/sub ordering, got %s/%s", pair.A.Side, pair.B.Side)
	}
	if pair.A.Path == pair.B.Path {
		t.Error("expected a pair of two distinct files")
	}
	if len(result.Failed) != 0 {
		t.Errorf("expected no failures, got %+v", result.Failed)
	}
}

func Test_Pairer_Symmetric(t *testing.T) {
	forward := newSuffixPairer(t).Pair(paths("a-ref.py", "a-sub.py"))
	reverse := newSuffixPairer(t).Pair(paths("a-sub.py", "a-ref.py"))

	if forward.Pairs["a.py"] != reverse.Pairs["a.py"] {
		t.Errorf("expected identical pairs, got %+v and %+v", forward.Pairs["a.py"], reverse.Pairs["a.py"])
	}
}

func Test_Pairer_OrphanIsUnpaired(t *testing.T) {
	result := newSuffixPairer(t).Pair(paths("b-sub.py"))

	if len(result.Pairs) != 0 {
		t.Errorf("expected no pairs, got %d", len(result.Pairs))
	}
	if len(result.Failed) != 1 || result.Failed[0].Kind != failure.UnpairedSnapshot {
		t.Fatalf("expected one UnpairedSnapshot, got %+v", result.Failed)
	}
	if result.Failed[0].Path != "/course/hw1/b-sub.py" {
		t.Errorf("expected failure for b-sub.py, got %s", result.Failed[0].Path)
	}
}

func Test_Pairer_NameOutsideConvention(t *testing.T) {
	result := newSuffixPairer(t).Pair(paths("main.py", "a-final.py"))

	if len(result.Failed) != 2 {
		t.Fatalf("expected 2 failures, got %+v", result.Failed)
	}
	for _, r := range result.Failed {
		if r.Kind != failure.UnpairedSnapshot {
			t.Errorf("expected UnpairedSnapshot for %s, got %s", r.Path, r.Kind)
		}
	}
}

func Test_Pairer_DuplicateSideThenCounterpart(t *testing.T) {
	result := newSuffixPairer(t).Pair([]resolve.ValidatedPath{
		{Path: "/x/a-sub.py"},
		{Path: "/y/a-sub.py"},
		{Path: "/x/a-ref.py"},
	})

	pair, ok := result.Pairs["a.py"]
	if !ok {
		t.Fatal("expected a.py to pair once the reference arrives")
	}
	if pair.B.Path != "/x/a-sub.py" {
		t.Errorf("expected the first submission to be kept, got %s", pair.B.Path)
	}
	if len(result.Failed) != 1 || result.Failed[0].Kind != failure.DuplicateSide {
		t.Fatalf("expected one DuplicateSide, got %+v", result.Failed)
	}
	if result.Failed[0].Path != "/y/a-sub.py" {
		t.Errorf("expected the second submission to be recorded, got %s", result.Failed[0].Path)
	}
}

func Test_Pairer_ExtraCopyAfterPair(t *testing.T) {
	result := newSuffixPairer(t).Pair([]resolve.ValidatedPath{
		{Path: "/x/a-ref.py"},
		{Path: "/x/a-sub.py"},
		{Path: "/y/a-sub.py"},
	})

	if len(result.Pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(result.Pairs))
	}
	if len(result.Failed) != 1 || result.Failed[0].Kind != failure.ExtraCopy {
		t.Fatalf("expected one ExtraCopy, got %+v", result.Failed)
	}
}

func Test_Pairer_EveryPathAccountedFor(t *testing.T) {
	input := paths("a-ref.py", "a-sub.py", "a-sub.py", "b-ref.py", "c.py", "d-sub.java", "d-ref.java")
	result := newSuffixPairer(t).Pair(input)

	if got := 2*len(result.Pairs) + len(result.Failed); got != len(input) {
		t.Errorf("expected %d paths accounted for, got %d", len(input), got)
	}
}

func Test_Pairer_OrderedFollowsCompletion(t *testing.T) {
	result := newSuffixPairer(t).Pair(paths("b-ref.py", "a-ref.py", "a-sub.py", "b-sub.py"))

	ordered := result.Ordered()
	if len(ordered) != 2 {
		t.Fatalf("expected 2 pairs, got %d", len(ordered))
	}
	if ordered[0].Identity != "a.py" || ordered[1].Identity != "b.py" {
		t.Errorf("expected completion order [a.py b.py], got [%s %s]", ordered[0].Identity, ordered[1].Identity)
	}
}

func Test_Pairer_DirectoryConvention(t *testing.T) {
	conv, err := NewConvention(DirectoryConvention, "", nil)
	if err != nil {
		t.Fatalf("creating convention: %v", err)
	}
	p := &Pairer{Convention: conv}
	result := p.Pair([]resolve.ValidatedPath{
		{Path: "/hw1/bob/solve.py"},
		{Path: "/hw1/alice/solve.py"},
	})

	pair, ok := result.Pairs["solve.py"]
	if !ok {
		t.Fatalf("expected solve.py pair, got %+v", result)
	}
	if pair.A.Side != "alice" || pair.B.Side != "bob" {
		t.Errorf("expected unranked sides to order lexically, got %s/%s", pair.A.Side, pair.B.Side)
	}
}
