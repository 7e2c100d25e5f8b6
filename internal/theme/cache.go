// Package theme derives an accent palette from artwork and publishes it as
// named style variables.
package theme

import (
	"sync"

	"github.com/jmylchreest/covertint/internal/colour"
)

// Entry is a cached extraction outcome: a colour, or NoColour when
// extraction was attempted and produced nothing usable.
type Entry struct {
	Colour colour.RGB
	Found  bool
}

// NoColour marks an artwork whose extraction failed. It is never retried.
var NoColour = Entry{}

// ColourFound wraps an extracted colour as a cache entry.
func ColourFound(c colour.RGB) Entry {
	return Entry{Colour: c, Found: true}
}

// ColourCache maps artwork identifiers to their raw extracted colour.
// Entries live for the lifetime of the process; there is no eviction.
type ColourCache struct {
	mu      sync.RWMutex
	entries map[string]Entry
}

// NewColourCache creates an empty cache.
func NewColourCache() *ColourCache {
	return &ColourCache{entries: make(map[string]Entry)}
}

// Get returns the cached entry for id. The bool is false when extraction
// has never been attempted.
func (c *ColourCache) Get(id string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[id]
	return e, ok
}

// Set stores an entry, replacing any existing one.
func (c *ColourCache) Set(id string, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[id] = e
}

// Len returns the number of cached entries.
func (c *ColourCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
