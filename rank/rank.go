// Package rank orders similarity results for reporting.
package rank

import (
	"cmp"
	"slices"

	"github.com/lexandro/snapmatch/pairing"
	"github.com/lexandro/snapmatch/similarity"
)

// Entry is one ranked pair.
type Entry struct {
	Pair  pairing.FilePair `json:"pair"`
	Ratio float64          `json:"ratio"`
}

// Compare orders by ratio descending, then by identity and paths ascending.
// It is a total order over distinct pairs.
func Compare(pairA pairing.FilePair, ratioA float64, pairB pairing.FilePair, ratioB float64) int {
	if c := cmp.Compare(ratioB, ratioA); c != 0 {
		return c
	}
	if c := cmp.Compare(pairA.Identity, pairB.Identity); c != 0 {
		return c
	}
	if c := cmp.Compare(pairA.A.Path, pairB.A.Path); c != 0 {
		return c
	}
	return cmp.Compare(pairA.B.Path, pairB.B.Path)
}

// Rank materializes scores into a sequence ordered by Compare. No filtering is applied.
func Rank(scores map[pairing.FilePair]float64) []Entry {
	entries := make([]Entry, 0, len(scores))
	for pair, ratio := range scores {
		entries = append(entries, Entry{Pair: pair, Ratio: ratio})
	}
	slices.SortFunc(entries, func(x, y Entry) int {
		return Compare(x.Pair, x.Ratio, y.Pair, y.Ratio)
	})
	return entries
}

// Scores returns a copy of scores ordered by Compare, keeping per-pair warnings.
func Scores(scores []similarity.Score) []similarity.Score {
	ranked := slices.Clone(scores)
	slices.SortFunc(ranked, func(x, y similarity.Score) int {
		return Compare(x.Pair, x.Ratio, y.Pair, y.Ratio)
	})
	return ranked
}
