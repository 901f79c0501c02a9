package pairing

import (
	"path/filepath"
	"regexp"
	"slices"

	"github.com/lexandro/snapmatch/failure"
)

// Identity names which assignment or submission a file is a version of,
// independent of the side it represents.
type Identity string

// Convention derives an identity and a side marker from a file path.
// Two files with the same identity and different sides are a pair.
type Convention interface {
	Name() string
	// Describe states how identities are formed, for report headers.
	Describe() string
	// Identify returns ok=false when path does not follow the convention.
	Identify(path string) (id Identity, side string, ok bool)
	// SideRank orders sides so that a pair's A side is stable; lower ranks come first.
	SideRank(side string) int
}

// Built-in convention names.
const (
	SuffixConvention    = "suffix"
	DirectoryConvention = "directory"
	RegexConventionName = "regex"
)

const (
	// <id>-<side>.<ext>; identity keeps the extension so a.py and a.java stay apart.
	suffixPattern = `(?:^|/)(?P<id>[^/]+)-(?P<side>[^/.-]+)(?P<ext>\.[^/.]+)$`
	// <side>/<id>: the parent directory names the submitter, the file name is the identity.
	directoryPattern = `(?:^|/)(?P<side>[^/]+)/(?P<id>[^/]+)$`
)

// RegexConvention matches a regular expression with named groups "id" and
// "side" (and an optional "ext" appended to the identity) against the
// forward-slash form of a path.
type RegexConvention struct {
	name    string
	re      *regexp.Regexp
	idIdx   int
	sideIdx int
	extIdx  int
	sides   []string
}

// NewRegexConvention compiles pattern. When sides is non-empty, only those
// side markers are accepted and they rank in the given order.
func NewRegexConvention(name, pattern string, sides []string) (*RegexConvention, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, failure.Configf("convention pattern %q: %v", pattern, err)
	}
	c := &RegexConvention{
		name:    name,
		re:      re,
		idIdx:   re.SubexpIndex("id"),
		sideIdx: re.SubexpIndex("side"),
		extIdx:  re.SubexpIndex("ext"),
		sides:   sides,
	}
	if c.idIdx < 0 || c.sideIdx < 0 {
		return nil, failure.Configf("convention pattern %q needs named groups (?P<id>...) and (?P<side>...)", pattern)
	}
	return c, nil
}

// NewConvention returns a built-in convention by name, or a regex convention
// built from pattern when name is "regex".
func NewConvention(name, pattern string, sides []string) (Convention, error) {
	switch name {
	case "", SuffixConvention:
		if len(sides) == 0 {
			sides = []string{"ref", "sub"}
		}
		return NewRegexConvention(SuffixConvention, suffixPattern, sides)
	case DirectoryConvention:
		return NewRegexConvention(DirectoryConvention, directoryPattern, sides)
	case RegexConventionName:
		if pattern == "" {
			return nil, failure.Configf("regex convention needs a pattern")
		}
		return NewRegexConvention(RegexConventionName, pattern, sides)
	default:
		return nil, failure.Configf("unknown convention %q (want suffix, directory or regex)", name)
	}
}

func (c *RegexConvention) Name() string { return c.name }

// Describe explains the identity rule. The built-in conventions say which
// parts of the path they ignore, since that decides what collides.
func (c *RegexConvention) Describe() string {
	switch c.name {
	case SuffixConvention:
		return "identity is <id>.<ext> from the file name, directories are ignored"
	case DirectoryConvention:
		return "identity is the file name, the parent directory is the side"
	default:
		return "identity and side from pattern " + c.re.String()
	}
}

// Identify applies the pattern to path.
func (c *RegexConvention) Identify(path string) (Identity, string, bool) {
	m := c.re.FindStringSubmatch(filepath.ToSlash(path))
	if m == nil {
		return "", "", false
	}
	id, side := m[c.idIdx], m[c.sideIdx]
	if id == "" || side == "" {
		return "", "", false
	}
	if len(c.sides) > 0 && !slices.Contains(c.sides, side) {
		return "", "", false
	}
	if c.extIdx >= 0 {
		id += m[c.extIdx]
	}
	return Identity(id), side, true
}

// SideRank returns the position of side in the configured list; unlisted sides rank last.
func (c *RegexConvention) SideRank(side string) int {
	if i := slices.Index(c.sides, side); i >= 0 {
		return i
	}
	return len(c.sides)
}
