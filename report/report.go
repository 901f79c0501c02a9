// Package report assembles a run's ranked matches and failures and renders
// them for a reviewer.
package report

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/language"
	"github.com/lexandro/snapmatch/pairing"
	"github.com/lexandro/snapmatch/similarity"
)

// Match is one ranked pair as presented.
type Match struct {
	Rank     int              `json:"rank"`
	Identity pairing.Identity `json:"identity"`
	Language string           `json:"language"`
	A        pairing.Member   `json:"a"`
	B        pairing.Member   `json:"b"`
	Ratio    float64          `json:"ratio"`
	Percent  float64          `json:"percent"`
	Band     string           `json:"band"`
	Warning  string           `json:"warning,omitempty"`
}

// Stats counts what each stage produced.
type Stats struct {
	Inputs   int `json:"inputs"`
	Scraped  int `json:"scraped"`
	Resolved int `json:"resolved"`
	Pairs    int `json:"pairs"`
	Compared int `json:"compared"`
	Failed   int `json:"failed"`

	ByKind map[failure.Kind]int `json:"by_kind,omitempty"`
}

// Report is the sole output of a run.
type Report struct {
	RunID       string           `json:"run_id"`
	GeneratedAt time.Time        `json:"generated_at"`
	Convention  string           `json:"convention"`
	RuleNote    string           `json:"convention_rule,omitempty"`
	Matches     []Match          `json:"matches"`
	Failures    []failure.Record `json:"failures"`
	Stats       Stats            `json:"stats"`
}

// New builds a report from scores already ordered by rank.Scores.
func New(convention string, ranked []similarity.Score, failures []failure.Record, stats Stats) *Report {
	matches := make([]Match, 0, len(ranked))
	for i, s := range ranked {
		pct := Percent(s.Ratio)
		matches = append(matches, Match{
			Rank:     i + 1,
			Identity: s.Pair.Identity,
			Language: language.DetectLanguage(s.Pair.A.Path),
			A:        s.Pair.A,
			B:        s.Pair.B,
			Ratio:    s.Ratio,
			Percent:  pct,
			Band:     Band(pct),
			Warning:  s.Warning,
		})
	}
	if failures == nil {
		failures = []failure.Record{}
	}
	stats.Compared = len(matches)
	stats.Failed = len(failures)
	return &Report{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now().UTC(),
		Convention:  convention,
		Matches:     matches,
		Failures:    failures,
		Stats:       stats,
	}
}

// Filtered returns the matches at or above threshold percent.
func (r *Report) Filtered(threshold float64) []Match {
	if threshold <= 0 {
		return r.Matches
	}
	out := make([]Match, 0, len(r.Matches))
	for _, m := range r.Matches {
		if m.Percent >= threshold {
			out = append(out, m)
		}
	}
	return out
}

// Percent converts a ratio to a percentage rounded to one decimal place.
func Percent(ratio float64) float64 {
	return math.Round(ratio*1000) / 10
}

// Band labels a percentage for triage.
func Band(percent float64) string {
	switch {
	case percent >= 90:
		return "near copy"
	case percent >= 70:
		return "high"
	case percent >= 50:
		return "moderate"
	default:
		return "low"
	}
}
