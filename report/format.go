package report

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/lexandro/snapmatch/failure"
)

// TextOptions controls the console rendering.
type TextOptions struct {
	Threshold float64 // hide matches below this percentage
	BaseDir   string  // paths under BaseDir are shown relative to it
}

// FormatText renders the report as human-readable text: ranked matches first,
// then failed paths grouped by kind.
func FormatText(r *Report, opts TextOptions) string {
	var builder strings.Builder
	matches := r.Filtered(opts.Threshold)

	builder.WriteString(fmt.Sprintf("Run %s (%s convention)\n", r.RunID, r.Convention))
	if r.RuleNote != "" {
		builder.WriteString(fmt.Sprintf("Pairing: %s\n", r.RuleNote))
	}
	builder.WriteString(fmt.Sprintf("%d pairs compared, %d failed paths%s\n\n",
		r.Stats.Compared, r.Stats.Failed, kindBreakdown(r.Stats.ByKind)))

	switch {
	case len(r.Matches) == 0:
		builder.WriteString("No pairs were compared.\n")
	case len(matches) == 0:
		builder.WriteString(fmt.Sprintf("No pairs at or above %.1f%%.\n", opts.Threshold))
	default:
		builder.WriteString(fmt.Sprintf("── Matches (%d) ──\n", len(matches)))
		width := len(fmt.Sprintf("%d", matches[len(matches)-1].Rank))
		for _, m := range matches {
			builder.WriteString(fmt.Sprintf("%*d. %5.1f%%  %-9s  %s (%s)\n",
				width, m.Rank, m.Percent, m.Band, m.Identity, m.Language))
			builder.WriteString(fmt.Sprintf("%*s   %s: %s\n", width, "", m.A.Side, displayPath(m.A.Path, opts.BaseDir)))
			builder.WriteString(fmt.Sprintf("%*s   %s: %s\n", width, "", m.B.Side, displayPath(m.B.Path, opts.BaseDir)))
			if m.Warning != "" {
				builder.WriteString(fmt.Sprintf("%*s   warning: %s\n", width, "", m.Warning))
			}
		}
	}

	if len(r.Failures) > 0 {
		builder.WriteString(fmt.Sprintf("\n── Failed paths (%d) ──\n", len(r.Failures)))
		builder.WriteString(formatFailures(r.Failures, opts.BaseDir))
	}

	return builder.String()
}

// formatFailures groups records by kind in taxonomy order, keeping record order within a kind.
func formatFailures(records []failure.Record, baseDir string) string {
	byKind := make(map[failure.Kind][]failure.Record)
	for _, rec := range records {
		byKind[rec.Kind] = append(byKind[rec.Kind], rec)
	}

	var builder strings.Builder
	for _, kind := range failure.AllKinds {
		group := byKind[kind]
		if len(group) == 0 {
			continue
		}
		builder.WriteString(fmt.Sprintf("%s (%d):\n", kind.Title(), len(group)))
		for _, rec := range group {
			if rec.Detail != "" {
				builder.WriteString(fmt.Sprintf("  %s  %s\n", displayPath(rec.Path, baseDir), rec.Detail))
			} else {
				builder.WriteString(fmt.Sprintf("  %s\n", displayPath(rec.Path, baseDir)))
			}
		}
	}
	return builder.String()
}

// kindBreakdown renders per-kind counts in taxonomy order, e.g. " (2 not found, 1 unpaired)".
func kindBreakdown(counts map[failure.Kind]int) string {
	var parts []string
	for _, kind := range failure.AllKinds {
		if n := counts[kind]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, kind.Title()))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}

// WriteJSON writes the report as indented JSON, applying the threshold to matches only.
func WriteJSON(w io.Writer, r *Report, threshold float64) error {
	out := *r
	out.Matches = r.Filtered(threshold)
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(&out); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

func displayPath(path, baseDir string) string {
	if baseDir == "" || !filepath.IsAbs(path) {
		return path
	}
	rel, err := filepath.Rel(baseDir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
