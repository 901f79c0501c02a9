// Package similarity scores how much of two snapshot files is shared.
package similarity

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lexandro/snapmatch/language"
	"github.com/lexandro/snapmatch/pairing"
)

// Score is the similarity of one pair.
type Score struct {
	Pair    pairing.FilePair `json:"pair"`
	Ratio   float64          `json:"ratio"`
	UnitsA  int              `json:"units_a"`
	UnitsB  int              `json:"units_b"`
	Warning string           `json:"warning,omitempty"`
}

// Engine compares the two files of a pair. It holds no mutable state, so one
// Engine may serve concurrent Compare calls.
type Engine struct {
	Normalizer  Normalizer
	MaxFileSize int64 // 0 means unlimited
	Logger      *slog.Logger
}

// Compare reads both files of pair in full and scores them. The returned error
// is always an IO failure for one of the files. Binary content is not an
// error: the pair scores 0.0 and the score carries a warning.
func (e *Engine) Compare(pair pairing.FilePair) (Score, error) {
	score := Score{Pair: pair}

	dataA, err := e.readFile(pair.A.Path)
	if err != nil {
		return score, err
	}
	dataB, err := e.readFile(pair.B.Path)
	if err != nil {
		return score, err
	}

	for _, side := range []struct {
		path string
		data []byte
	}{{pair.A.Path, dataA}, {pair.B.Path, dataB}} {
		if language.IsBinaryContent(side.data) {
			score.Warning = "binary content in " + filepath.Base(side.path)
			e.logger().Warn("binary snapshot scored as 0", "identity", pair.Identity, "path", side.path)
			return score, nil
		}
	}

	unitsA := e.Normalizer.Units(string(dataA))
	unitsB := e.Normalizer.Units(string(dataB))
	score.UnitsA, score.UnitsB = len(unitsA), len(unitsB)
	score.Ratio = Ratio(unitsA, unitsB)
	return score, nil
}

// RatioText scores two texts directly under the engine's normalization.
func (e *Engine) RatioText(textA, textB string) float64 {
	return Ratio(e.Normalizer.Units(textA), e.Normalizer.Units(textB))
}

// readFile reads the whole file, closing it on every path.
func (e *Engine) readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if e.MaxFileSize > 0 {
		r = io.LimitReader(f, e.MaxFileSize+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if e.MaxFileSize > 0 && int64(len(data)) > e.MaxFileSize {
		return nil, fmt.Errorf("reading %s: file exceeds %d bytes", path, e.MaxFileSize)
	}
	return data, nil
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return e.Logger
}
