package heartbeat

import "sync"

// Position is the last known cursor location in a file.
type Position struct {
	Line      uint32
	CursorPos uint32
}

// FileCache remembers the last cursor position seen for each file path.
// It is a best-effort cache, not a source of truth: an absent entry means
// no edit has been observed for that file this session. Entries are never
// evicted; the set of open files is small.
type FileCache struct {
	mu      sync.RWMutex
	entries map[string]Position
}

func NewFileCache() *FileCache {
	return &FileCache{entries: make(map[string]Position)}
}

// Record inserts or overwrites the entry for path.
func (c *FileCache) Record(path string, pos Position) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = pos
}

// Lookup returns the current entry for path without removing it.
func (c *FileCache) Lookup(path string) (Position, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, ok := c.entries[path]
	return pos, ok
}

// Len returns the number of cached files.
func (c *FileCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
