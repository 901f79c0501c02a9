// Package pairing groups validated snapshot files into submission pairs keyed
// by an identity derived from an injectable naming convention.
package pairing

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/resolve"
)

// Member is one side of a pair.
type Member struct {
	Path string `json:"path"`
	Side string `json:"side"`
}

// FilePair is two versions of the same submission. A and B are different files
// ordered by the convention's side rank, so the pair does not depend on input order.
type FilePair struct {
	Identity Identity `json:"identity"`
	A        Member   `json:"a"`
	B        Member   `json:"b"`
}

// Result holds the outcome of pairing.
type Result struct {
	Pairs  map[Identity]FilePair
	Order  []Identity // identities in the order their pairs completed
	Failed []failure.Record
}

// Ordered returns the pairs in completion order.
func (r *Result) Ordered() []FilePair {
	pairs := make([]FilePair, 0, len(r.Order))
	for _, id := range r.Order {
		pairs = append(pairs, r.Pairs[id])
	}
	return pairs
}

// Pairer matches files under a Convention.
type Pairer struct {
	Convention Convention
	Logger     *slog.Logger
}

// Pair groups paths by identity. The first two files with different sides
// form the pair; every other file with a matched identity is recorded as a
// failure. Identities still waiting for a counterpart at the end of input
// are recorded as unpaired, in first-sighting order.
func (p *Pairer) Pair(paths []resolve.ValidatedPath) *Result {
	logger := p.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	result := &Result{Pairs: make(map[Identity]FilePair)}
	fail := func(path string, kind failure.Kind, detail string) {
		result.Failed = append(result.Failed, failure.Record{Path: path, Kind: kind, Detail: detail})
	}

	pending := make(map[Identity]Member)
	var pendingOrder []Identity

	for _, vp := range paths {
		id, side, ok := p.Convention.Identify(vp.Path)
		if !ok {
			fail(vp.Path, failure.UnpairedSnapshot, "does not match naming convention "+p.Convention.Name())
			continue
		}
		member := Member{Path: vp.Path, Side: side}

		if pair, done := result.Pairs[id]; done {
			fail(vp.Path, failure.ExtraCopy,
				fmt.Sprintf("identity %s already paired as %s and %s", id, pair.A.Path, pair.B.Path))
			continue
		}

		held, waiting := pending[id]
		if !waiting {
			pending[id] = member
			pendingOrder = append(pendingOrder, id)
			continue
		}
		if held.Side == side {
			fail(vp.Path, failure.DuplicateSide,
				fmt.Sprintf("side %s of %s already held by %s", side, id, held.Path))
			continue
		}

		pair := p.newPair(id, held, member)
		result.Pairs[id] = pair
		result.Order = append(result.Order, id)
		delete(pending, id)
		logger.Debug("paired snapshots", "identity", id, "a", pair.A.Path, "b", pair.B.Path)
	}

	for _, id := range pendingOrder {
		if held, waiting := pending[id]; waiting {
			fail(held.Path, failure.UnpairedSnapshot, fmt.Sprintf("no counterpart for %s (side %s)", id, held.Side))
		}
	}

	logger.Info("paired snapshots",
		"convention", p.Convention.Name(),
		"pairs", len(result.Pairs),
		"failed", len(result.Failed),
	)
	return result
}

func (p *Pairer) newPair(id Identity, first, second Member) FilePair {
	rankFirst, rankSecond := p.Convention.SideRank(first.Side), p.Convention.SideRank(second.Side)
	if rankSecond < rankFirst || (rankSecond == rankFirst && second.Side < first.Side) {
		first, second = second, first
	}
	return FilePair{Identity: id, A: first, B: second}
}
