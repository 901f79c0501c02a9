package language

import (
	"path/filepath"
	"sort"
	"strings"
)

// ExtensionToLanguage maps source extensions (without dot) to language names.
// Only languages students plausibly submit snapshots in are listed.
var ExtensionToLanguage = map[string]string{
	"py": "Python", "pyw": "Python", "ipynb": "Jupyter",
	"java": "Java", "kt": "Kotlin",
	"c": "C", "h": "C",
	"cpp": "C++", "cc": "C++", "cxx": "C++", "hpp": "C++",
	"cs": "C#",
	"go": "Go",
	"rs": "Rust",
	"js": "JavaScript", "jsx": "JavaScript", "mjs": "JavaScript",
	"ts": "TypeScript", "tsx": "TypeScript",
	"rb": "Ruby",
	"php": "PHP",
	"swift": "Swift",
	"scala": "Scala",
	"hs": "Haskell",
	"r": "R",
	"m": "MATLAB",
	"sql": "SQL",
	"sh": "Shell",
	"lua": "Lua",
	"pl": "Perl",
	"rkt": "Racket", "scm": "Scheme",
	"ml": "OCaml",
	"asm": "Assembly", "s": "Assembly",
}

// DefaultSnapshotExtensions is the extension set accepted in snapshot mode
// when no explicit list is configured.
func DefaultSnapshotExtensions() []string {
	exts := make([]string, 0, len(ExtensionToLanguage))
	for ext := range ExtensionToLanguage {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// HTMLExtensions are the page extensions accepted in scrape mode.
var HTMLExtensions = []string{"html", "htm"}

// Extension returns the lower-cased extension of a path without the dot.
func Extension(filePath string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filePath), "."))
}

// NormalizeExtensions lower-cases and strips leading dots, dropping empties.
func NormalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			out = append(out, ext)
		}
	}
	return out
}

// DetectLanguage returns the programming language for a file path based on its extension.
// Returns "Unknown" if the extension is not recognized.
func DetectLanguage(filePath string) string {
	if lang, ok := ExtensionToLanguage[Extension(filePath)]; ok {
		return lang
	}
	return "Unknown"
}
