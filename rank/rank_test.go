package rank

import (
	"reflect"
	"testing"

	"github.com/lexandro/snapmatch/pairing"
	"github.com/lexandro/snapmatch/similarity"
)

func newPair(id string) pairing.FilePair {
	return pairing.FilePair{
		Identity: pairing.Identity(id),
		A:        pairing.Member{Path: "/hw/" + id + "-ref", Side: "ref"},
		B:        pairing.Member{Path: "/hw/" + id + "-sub", Side: "sub"},
	}
}

func Test_Rank_DescendingWithIdentityTieBreak(t *testing.T) {
	scores := map[pairing.FilePair]float64{
		newPair("c.py"): 0.5,
		newPair("a.py"): 0.9,
		newPair("b.py"): 0.5,
		newPair("d.py"): 1.0,
	}

	ranked := Rank(scores)
	want := []pairing.Identity{"d.py", "a.py", "b.py", "c.py"}
	if len(ranked) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(ranked))
	}
	for i, e := range ranked {
		if e.Pair.Identity != want[i] {
			t.Errorf("entry %d = %s, want %s", i, e.Pair.Identity, want[i])
		}
	}
}

func Test_Rank_NonIncreasing(t *testing.T) {
	scores := make(map[pairing.FilePair]float64)
	for i, r := range []float64{0.1, 0.7, 0.3, 0.7, 0.0, 1.0, 0.45} {
		scores[newPair(string(rune('a'+i))+".py")] = r
	}

	ranked := Rank(scores)
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Ratio > ranked[i-1].Ratio {
			t.Fatalf("ratio increases at %d: %v > %v", i, ranked[i].Ratio, ranked[i-1].Ratio)
		}
	}
}

func Test_Rank_Deterministic(t *testing.T) {
	scores := make(map[pairing.FilePair]float64)
	for i := 0; i < 50; i++ {
		scores[newPair(string(rune('A'+i))+".py")] = float64(i%5) / 4
	}

	first := Rank(scores)
	for run := 0; run < 10; run++ {
		if !reflect.DeepEqual(first, Rank(scores)) {
			t.Fatal("expected identical ordering on every run")
		}
	}
}

func Test_Rank_Empty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Errorf("expected no entries, got %d", len(got))
	}
}

func Test_Scores_KeepsWarningsAndInputUntouched(t *testing.T) {
	input := []similarity.Score{
		{Pair: newPair("a.py"), Ratio: 0.0, Warning: "binary content in a-sub"},
		{Pair: newPair("b.py"), Ratio: 0.8},
	}

	ranked := Scores(input)
	if ranked[0].Pair.Identity != "b.py" || ranked[1].Warning == "" {
		t.Errorf("unexpected ranking %+v", ranked)
	}
	if input[0].Pair.Identity != "a.py" {
		t.Error("expected input slice to be left in place")
	}
}
