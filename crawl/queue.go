// Package crawl — BFS queue of directories.
// Directories are deduplicated by key, not by the relative path they were
// reached through.
package crawl

// Queue is a BFS queue of relative directory paths.
type Queue struct {
	dirs []string
	seen map[string]bool
	next int
}

// NewQueue creates an empty Queue.
func NewQueue() *Queue {
	return &Queue{seen: make(map[string]bool)}
}

// Add enqueues dir unless key was seen before. It reports whether dir was
// enqueued.
func (q *Queue) Add(dir, key string) bool {
	if q.seen[key] {
		return false
	}
	q.seen[key] = true
	q.dirs = append(q.dirs, dir)
	return true
}

// HasNext returns true if there are unvisited directories.
func (q *Queue) HasNext() bool {
	return q.next < len(q.dirs)
}

// Next returns the next unvisited directory and advances the pointer.
func (q *Queue) Next() string {
	dir := q.dirs[q.next]
	q.next++
	return dir
}

// Seen returns the number of distinct directories enqueued so far.
func (q *Queue) Seen() int {
	return len(q.seen)
}
