package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Matcher decides which entries of an input directory are skipped during expansion.
// It combines the default directory list, .gitignore and .snapignore rules found
// in the directory root, and user exclude globs (doublestar syntax).
// Files named explicitly on the command line are never passed through a Matcher.
type Matcher struct {
	rootDir        string
	gitIgnore      gitignore.GitIgnore
	snapIgnore     gitignore.GitIgnore
	customPatterns []string
}

// MatcherOptions configures the ignore matcher.
type MatcherOptions struct {
	RootDir        string
	CustomPatterns []string
}

// NewMatcher creates a matcher rooted at an input directory.
func NewMatcher(options MatcherOptions) *Matcher {
	patterns := make([]string, 0, len(options.CustomPatterns))
	for _, p := range options.CustomPatterns {
		patterns = append(patterns, filepath.ToSlash(p))
	}
	return &Matcher{
		rootDir:        options.RootDir,
		customPatterns: patterns,
		gitIgnore:      loadIgnoreFile(filepath.Join(options.RootDir, ".gitignore"), options.RootDir),
		snapIgnore:     loadIgnoreFile(filepath.Join(options.RootDir, ".snapignore"), options.RootDir),
	}
}

// Skip reports whether an entry found while expanding the root is left out, and
// which user rule excluded it. Tooling directories and control files are
// skipped with an empty rule: they never hold submissions.
func (m *Matcher) Skip(absolutePath string, isDir bool) (bool, string) {
	if isDir {
		if IsDefaultDir(absolutePath) {
			return true, ""
		}
	} else if IsControlFile(absolutePath) {
		return true, ""
	}
	if rule := m.rule(absolutePath, isDir); rule != "" {
		return true, rule
	}
	return false, ""
}

// rule returns the user rule matching the entry, or "".
func (m *Matcher) rule(absolutePath string, isDir bool) string {
	relativePath, err := filepath.Rel(m.rootDir, absolutePath)
	if err != nil {
		relativePath = absolutePath
	}
	relativePath = filepath.ToSlash(relativePath)

	// Relative() does not require the path to exist on disk
	for _, source := range []struct {
		name string
		gi   gitignore.GitIgnore
	}{{".gitignore", m.gitIgnore}, {".snapignore", m.snapIgnore}} {
		if source.gi == nil {
			continue
		}
		if match := source.gi.Relative(relativePath, isDir); match != nil && match.Ignore() {
			return "excluded by " + source.name
		}
	}

	if pattern := m.matchingPattern(relativePath); pattern != "" {
		return "excluded by pattern " + pattern
	}
	return ""
}

// matchingPattern checks the relative path and the basename against every exclude glob.
func (m *Matcher) matchingPattern(relativePath string) string {
	baseName := filepath.Base(relativePath)
	for _, pattern := range m.customPatterns {
		if matched, err := doublestar.Match(pattern, relativePath); err == nil && matched {
			return pattern
		}
		if matched, err := doublestar.Match(pattern, baseName); err == nil && matched {
			return pattern
		}
	}
	return ""
}

// IsDefaultDir reports whether path names a built-in tooling directory.
func IsDefaultDir(path string) bool {
	dirName := filepath.Base(path)
	for _, name := range DefaultIgnoreDirs {
		if dirName == name {
			return true
		}
	}
	return false
}

// ValidatePatterns returns the first exclude pattern that is not a valid glob, or "".
func ValidatePatterns(patterns []string) string {
	for _, p := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(p)) {
			return p
		}
	}
	return ""
}

// IsControlFile reports whether path names an ignore-rule file.
func IsControlFile(path string) bool {
	base := strings.ToLower(filepath.Base(path))
	for _, name := range ControlFiles {
		if base == name {
			return true
		}
	}
	return false
}

// loadIgnoreFile reads an ignore file and creates a GitIgnore matcher from it.
// Uses an io.Reader so the file handle is closed before returning.
func loadIgnoreFile(filePath string, baseDir string) gitignore.GitIgnore {
	f, err := os.Open(filePath)
	if err != nil {
		return nil
	}
	defer f.Close()

	return gitignore.New(f, baseDir, nil)
}
