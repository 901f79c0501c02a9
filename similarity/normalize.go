package similarity

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Granularity selects the unit compared by the engine.
type Granularity string

const (
	Lines  Granularity = "lines"
	Tokens Granularity = "tokens"
)

// Normalizer turns file text into the unit sequence compared by Ratio.
//
// The policy always applies: CRLF and CR become LF, text is NFC-normalized and
// trailing whitespace is trimmed from every line. The fields switch on the
// optional rules.
type Normalizer struct {
	Granularity      Granularity
	IgnoreWhitespace bool // collapse every whitespace run inside a line to one space
	IgnoreCase       bool
	KeepBlankLines   bool
}

// Units splits text into comparison units.
func (n Normalizer) Units(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = norm.NFC.String(text)
	if n.IgnoreCase {
		text = strings.ToLower(text)
	}

	if n.Granularity == Tokens {
		return strings.Fields(text)
	}

	lines := strings.Split(text, "\n")
	units := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRightFunc(line, unicode.IsSpace)
		if n.IgnoreWhitespace {
			line = strings.Join(strings.Fields(line), " ")
		}
		if line == "" && !n.KeepBlankLines {
			continue
		}
		units = append(units, line)
	}
	// a trailing newline is not a blank line
	if n.KeepBlankLines && len(units) > 0 && units[len(units)-1] == "" && strings.HasSuffix(text, "\n") {
		units = units[:len(units)-1]
	}
	return units
}
