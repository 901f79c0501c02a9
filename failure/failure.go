// Package failure holds the per-path failure taxonomy shared by every pipeline
// stage. Failures are ordinary values collected in order; only configuration
// misuse is reported through the error return of a stage.
package failure

import (
	"errors"
	"fmt"
)

// Kind classifies why a path did not contribute to a compared pair.
type Kind string

const (
	InputNotFound     Kind = "input_not_found"
	InputUnreadable   Kind = "input_unreadable"
	InputKindMismatch Kind = "input_kind_mismatch"
	UnpairedSnapshot  Kind = "unpaired_snapshot"
	DuplicateSide     Kind = "duplicate_side"
	ExtraCopy         Kind = "extra_copy"
	CompareFailed     Kind = "compare_failed"
	DownloadFailed    Kind = "download_failed"
	Excluded          Kind = "excluded"
)

// AllKinds lists every kind in report order.
var AllKinds = []Kind{
	InputNotFound,
	InputUnreadable,
	InputKindMismatch,
	Excluded,
	UnpairedSnapshot,
	DuplicateSide,
	ExtraCopy,
	CompareFailed,
	DownloadFailed,
}

// Title returns a human-readable heading for the kind.
func (k Kind) Title() string {
	switch k {
	case InputNotFound:
		return "not found"
	case InputUnreadable:
		return "unreadable"
	case InputKindMismatch:
		return "wrong kind"
	case Excluded:
		return "excluded"
	case UnpairedSnapshot:
		return "unpaired"
	case DuplicateSide:
		return "duplicate side"
	case ExtraCopy:
		return "extra copy"
	case CompareFailed:
		return "comparison failed"
	case DownloadFailed:
		return "download failed"
	default:
		return string(k)
	}
}

// Record is a single path that failed a stage. Records are never modified
// after they are appended to a Sink.
type Record struct {
	Path   string `json:"path"`
	Kind   Kind   `json:"kind"`
	Detail string `json:"detail,omitempty"`
}

func (r Record) String() string {
	if r.Detail == "" {
		return fmt.Sprintf("%s: %s", r.Path, r.Kind.Title())
	}
	return fmt.Sprintf("%s: %s (%s)", r.Path, r.Kind.Title(), r.Detail)
}

// Sink accumulates failure records in the order they are reported.
// It is owned by a single run and is not safe for concurrent use; parallel
// stages collect into their own slots and flush in a fixed order.
type Sink struct {
	records []Record
}

// NewSink creates an empty sink.
func NewSink() *Sink {
	return &Sink{}
}

// Add appends a record.
func (s *Sink) Add(path string, kind Kind, detail string) {
	s.records = append(s.records, Record{Path: path, Kind: kind, Detail: detail})
}

// Append appends already-built records, preserving their order.
func (s *Sink) Append(records ...Record) {
	s.records = append(s.records, records...)
}

// Records returns a copy of the accumulated records.
func (s *Sink) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Len returns the number of records.
func (s *Sink) Len() int {
	return len(s.records)
}

// CountByKind returns kind -> number of records.
func (s *Sink) CountByKind() map[Kind]int {
	counts := make(map[Kind]int)
	for _, r := range s.records {
		counts[r.Kind]++
	}
	return counts
}

// ConfigError reports caller misuse: no inputs, conflicting options or an
// invalid setting. A run that hits it is aborted before any path is processed.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Msg
}

// Configf builds a ConfigError from a format string.
func Configf(format string, args ...any) error {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is, or wraps, a ConfigError.
func IsConfigError(err error) bool {
	var cfgErr *ConfigError
	return errors.As(err, &cfgErr)
}
