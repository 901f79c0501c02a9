// Package resolve expands user-supplied locations into a flat, validated and
// deduplicated list of concrete files.
package resolve

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/ignore"
	"github.com/lexandro/snapmatch/validate"
)

// SourceKind records whether a path was named directly or found by expanding a directory.
type SourceKind string

const (
	FromFile      SourceKind = "file"
	FromDirectory SourceKind = "directory"
)

// ValidatedPath is an existing file accepted by the active validator.
type ValidatedPath struct {
	Path   string     // Absolute path as discovered
	Input  string     // The input argument that produced it
	Source SourceKind // Kind of the input argument before expansion
}

// Result holds the outcome of a resolution.
// Succeeded is in first-discovery order; Failed is in the order failures occurred.
type Result struct {
	Succeeded []ValidatedPath
	Failed    []failure.Record
}

// Resolver turns input locations into validated paths.
type Resolver struct {
	Validator validate.Validator
	Excludes  []string // doublestar globs applied while expanding directories
	Logger    *slog.Logger
}

// Resolve expands inputs. Bad individual inputs become failure records; the
// only error is a ConfigError when there is nothing to resolve.
func (r *Resolver) Resolve(inputs []string) (*Result, error) {
	if len(inputs) == 0 {
		return nil, failure.Configf("no input paths supplied")
	}
	if r.Validator == nil {
		return nil, failure.Configf("no validator configured")
	}
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	state := &resolution{
		resolver: r,
		logger:   logger,
		seen:     make(map[string]bool),
		result:   &Result{},
	}
	for _, input := range inputs {
		state.resolveInput(input)
	}

	logger.Info("resolved inputs",
		"mode", r.Validator.Mode(),
		"inputs", len(inputs),
		"succeeded", len(state.result.Succeeded),
		"failed", len(state.result.Failed),
	)
	return state.result, nil
}

type resolution struct {
	resolver *Resolver
	logger   *slog.Logger
	seen     map[string]bool // canonical absolute path
	result   *Result
}

func (s *resolution) fail(path string, kind failure.Kind, detail string) {
	s.result.Failed = append(s.result.Failed, failure.Record{Path: path, Kind: kind, Detail: detail})
}

func (s *resolution) resolveInput(input string) {
	if strings.TrimSpace(input) == "" {
		s.fail(input, failure.InputNotFound, "empty path")
		return
	}
	absPath, err := filepath.Abs(input)
	if err != nil {
		s.fail(input, failure.InputNotFound, err.Error())
		return
	}

	info, err := os.Stat(absPath)
	if err != nil {
		s.fail(input, classify(err), detailOf(err))
		return
	}
	if info.IsDir() {
		s.expandDirectory(input, absPath)
		return
	}
	s.candidate(input, absPath, FromFile)
}

// expandDirectory walks rootDir in lexical order. A symlinked root is
// followed; directory symlinks below it are recorded, not followed. Entries
// keep rootDir as their prefix.
func (s *resolution) expandDirectory(input, rootDir string) {
	realRoot, err := filepath.EvalSymlinks(rootDir)
	if err != nil {
		s.fail(input, classify(err), detailOf(err))
		return
	}
	matcher := ignore.NewMatcher(ignore.MatcherOptions{
		RootDir:        realRoot,
		CustomPatterns: s.resolver.Excludes,
	})

	filepath.WalkDir(realRoot, func(walked string, d fs.DirEntry, err error) error {
		path := rootDir
		if rel, relErr := filepath.Rel(realRoot, walked); relErr == nil && rel != "." {
			path = filepath.Join(rootDir, rel)
		}
		if err != nil {
			s.fail(path, classify(err), detailOf(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if walked == realRoot {
				return nil
			}
			if skipped, rule := matcher.Skip(walked, true); skipped {
				s.skip(path, rule)
				return filepath.SkipDir
			}
			return nil
		}
		if skipped, rule := matcher.Skip(walked, false); skipped {
			s.skip(path, rule)
			return nil
		}
		if d.Type()&fs.ModeSymlink != 0 {
			target, statErr := os.Stat(walked)
			if statErr != nil {
				s.fail(path, classify(statErr), "broken symlink")
				return nil
			}
			if target.IsDir() {
				s.fail(path, failure.InputKindMismatch, "directory symlink not followed")
				return nil
			}
		}
		s.candidate(input, path, FromDirectory)
		return nil
	})
}

// skip records an entry excluded by a user rule. Silent skips (empty rule)
// only log.
func (s *resolution) skip(path, rule string) {
	if rule == "" {
		s.logger.Debug("skipped", "path", path)
		return
	}
	s.fail(path, failure.Excluded, rule)
}

func (s *resolution) candidate(input, path string, source SourceKind) {
	ok, kind, detail := validate.Inspect(path, s.resolver.Validator)
	if !ok {
		s.fail(path, kind, detail)
		return
	}

	canonical := path
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		canonical = resolved
	}
	if s.seen[canonical] {
		s.logger.Debug("duplicate input path", "path", path, "canonical", canonical)
		return
	}
	s.seen[canonical] = true
	s.result.Succeeded = append(s.result.Succeeded, ValidatedPath{Path: path, Input: input, Source: source})
}

// classify maps an IO error to the failure taxonomy.
func classify(err error) failure.Kind {
	if errors.Is(err, fs.ErrNotExist) {
		return failure.InputNotFound
	}
	return failure.InputUnreadable
}

func detailOf(err error) string {
	if errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return err.Error()
}
