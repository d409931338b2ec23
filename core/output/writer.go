// Package output handles file naming and writing for rendered notes.
// A single note gets a flat name derived from its location (e.g. groceries.html).
// Batch mode mirrors the source tree (e.g. work/plan.md → work/plan.html).
package output

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

const stdinName = "note"

// Writer writes rendered output to disk.
type Writer struct {
	OutputDir string
}

// New creates a Writer targeting the given output directory.
// If outputDir is empty, it defaults to the current working directory.
func New(outputDir string) (*Writer, error) {
	if outputDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		outputDir = wd
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	return &Writer{OutputDir: outputDir}, nil
}

// Write writes data for a single note under a name derived from location.
func (w *Writer) Write(location string, data []byte, ext string) (string, error) {
	path := filepath.Join(w.OutputDir, NameFor(location)+ext)

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", path, err)
	}
	return path, nil
}

// WriteTree writes data at relPath below the output directory, replacing
// the source extension with ext.
func (w *Writer) WriteTree(relPath string, data []byte, ext string) (string, error) {
	if !filepath.IsLocal(relPath) {
		return "", fmt.Errorf("path %s escapes the output directory", relPath)
	}
	fullPath := filepath.Join(w.OutputDir, strings.TrimSuffix(relPath, filepath.Ext(relPath))+ext)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating directory %s: %w", dir, err)
	}

	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing file %s: %w", fullPath, err)
	}
	return fullPath, nil
}

// NameFor converts a note location into a flat file name without extension.
//
//	notes/Plan 2024.md              → Plan_2024
//	https://example.com/docs/intro  → example_com_docs_intro
//	-                               → note
func NameFor(location string) string {
	if location == "" || location == "-" {
		return stdinName
	}

	if parsed, err := url.Parse(location); err == nil && parsed.Host != "" &&
		(parsed.Scheme == "http" || parsed.Scheme == "https") {
		parts := []string{sanitize(parsed.Host)}
		if p := strings.Trim(parsed.Path, "/"); p != "" {
			for _, seg := range strings.Split(p, "/") {
				parts = append(parts, sanitize(strings.TrimSuffix(seg, filepath.Ext(seg))))
			}
		}
		return strings.Join(parts, "_")
	}

	base := filepath.Base(location)
	name := sanitize(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		return stdinName
	}
	return name
}

// sanitize replaces characters other than letters, digits and '-' with underscores.
func sanitize(s string) string {
	var b strings.Builder
	for _, ch := range s {
		if (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9') || ch == '-' {
			b.WriteRune(ch)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}
