// Package crawl — note file rules.
// Decides which directory entries are notes and which are skipped.
package crawl

import (
	"path/filepath"
	"strings"
)

// noteExtensions are the file extensions treated as notes.
var noteExtensions = map[string]bool{
	".md": true, ".markdown": true, ".mdown": true,
}

// IsNoteFile reports whether name has a note extension (case-insensitive).
func IsNoteFile(name string) bool {
	return noteExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsHidden reports whether name is a dot-file or dot-directory.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// dirKey identifies a directory by its resolved absolute path so symlinked
// directories are only visited once.
func dirKey(path string) string {
	if resolved, err := filepath.EvalSymlinks(path); err == nil {
		path = resolved
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}
