// Package validate decides whether a concrete path is an acceptable input for
// the active mode: a source snapshot or a scrapeable LMS export page.
package validate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/lexandro/snapmatch/failure"
	"github.com/lexandro/snapmatch/language"
)

// Validator is the single capability swapped between modes.
// IsValid never panics and never returns an error; any unmet condition is false.
type Validator interface {
	Mode() string
	IsValid(path string) bool
}

// Explainer is implemented by validators that can say why a readable file was rejected.
type Explainer interface {
	Explain(path string) string
}

// DefaultMaxFileSize bounds the similarity engine's work per file.
const DefaultMaxFileSize int64 = 1024 * 1024

// SnapshotValidator accepts regular files with a recognized source extension
// that are no larger than MaxFileSize.
type SnapshotValidator struct {
	extensions  map[string]bool
	maxFileSize int64
}

// NewSnapshotValidator creates a snapshot validator. An empty extension list
// selects language.DefaultSnapshotExtensions; a non-positive size selects DefaultMaxFileSize.
func NewSnapshotValidator(extensions []string, maxFileSize int64) *SnapshotValidator {
	exts := language.NormalizeExtensions(extensions)
	if len(exts) == 0 {
		exts = language.DefaultSnapshotExtensions()
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		set[ext] = true
	}
	return &SnapshotValidator{extensions: set, maxFileSize: maxFileSize}
}

func (v *SnapshotValidator) Mode() string { return "snapshot" }

// IsValid reports whether path is a readable snapshot file.
func (v *SnapshotValidator) IsValid(path string) bool {
	info, ok := readableFile(path)
	if !ok {
		return false
	}
	return v.extensions[language.Extension(path)] && info.Size() <= v.maxFileSize
}

// Explain describes why a readable file fails IsValid.
func (v *SnapshotValidator) Explain(path string) string {
	ext := language.Extension(path)
	if !v.extensions[ext] {
		if ext == "" {
			return "no file extension"
		}
		return fmt.Sprintf("extension .%s is not a snapshot extension", ext)
	}
	if info, err := os.Stat(path); err == nil && info.Size() > v.maxFileSize {
		return fmt.Sprintf("file is %d bytes, limit is %d", info.Size(), v.maxFileSize)
	}
	return ""
}

// MaxFileSize returns the configured size limit.
func (v *SnapshotValidator) MaxFileSize() int64 {
	return v.maxFileSize
}

// HTMLValidator accepts readable .html and .htm files.
type HTMLValidator struct{}

func (HTMLValidator) Mode() string { return "html" }

// IsValid reports whether path is a readable HTML page.
func (HTMLValidator) IsValid(path string) bool {
	if _, ok := readableFile(path); !ok {
		return false
	}
	return isHTMLExtension(language.Extension(path))
}

// Explain describes why a readable file fails IsValid.
func (HTMLValidator) Explain(path string) string {
	ext := language.Extension(path)
	if isHTMLExtension(ext) {
		return ""
	}
	return "want a ." + strings.Join(language.HTMLExtensions, " or .") + " page"
}

func isHTMLExtension(ext string) bool {
	for _, htmlExt := range language.HTMLExtensions {
		if ext == htmlExt {
			return true
		}
	}
	return false
}

// Inspect classifies path for the resolver: it returns ok when the validator
// accepts the path, or the failure kind and detail that explain the rejection.
func Inspect(path string, v Validator) (ok bool, kind failure.Kind, detail string) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, failure.InputNotFound, ""
		}
		return false, failure.InputUnreadable, err.Error()
	}
	if !info.Mode().IsRegular() {
		return false, failure.InputKindMismatch, "not a regular file"
	}
	f, err := os.Open(path)
	if err != nil {
		return false, failure.InputUnreadable, err.Error()
	}
	f.Close()

	if v.IsValid(path) {
		return true, "", ""
	}
	if explainer, isExplainer := v.(Explainer); isExplainer {
		detail = explainer.Explain(path)
	}
	if detail == "" {
		detail = "rejected by " + v.Mode() + " validator"
	}
	return false, failure.InputKindMismatch, detail
}

// readableFile stats and opens path, closing it again immediately.
func readableFile(path string) (fs.FileInfo, bool) {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	f.Close()
	return info, true
}
