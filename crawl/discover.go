// Package crawl discovers notes for batch mode.
// It walks a notes directory breadth first, keeping discovery separate from
// the render pipeline.
package crawl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DiscoverAll returns the paths of all notes below root, relative to root,
// in breadth-first order, and the number of distinct directories reached.
// Within a directory, names are sorted. A positive maxNotes caps the result.
func DiscoverAll(ctx context.Context, root string, maxNotes int) ([]string, int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, 0, fmt.Errorf("reading notes directory: %w", err)
	}
	if !info.IsDir() {
		return nil, 0, fmt.Errorf("%s is not a directory", root)
	}

	queue := NewQueue()
	queue.Add(".", dirKey(root))

	var notes []string
	for queue.HasNext() {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		rel := queue.Next()

		entries, err := os.ReadDir(filepath.Join(root, rel))
		if err != nil {
			continue // Skip unreadable directories, don't abort the batch.
		}

		for _, entry := range entries {
			name := entry.Name()
			if IsHidden(name) {
				continue
			}
			childRel := filepath.Join(rel, name)
			full := filepath.Join(root, childRel)

			if isDir(entry, full) {
				queue.Add(childRel, dirKey(full))
				continue
			}
			if !IsNoteFile(name) {
				continue
			}
			notes = append(notes, childRel)
			if maxNotes > 0 && len(notes) >= maxNotes {
				return notes, queue.Seen(), nil
			}
		}
	}

	return notes, queue.Seen(), nil
}

// isDir follows symlinks, which DirEntry.IsDir does not.
func isDir(entry fs.DirEntry, full string) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}
