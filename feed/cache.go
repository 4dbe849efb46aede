package feed

import (
	"sync/atomic"

	"inkwell/domain"
)

// Cache is the process-wide single-slot cache for the rendered global
// feed. One entry at a time, no TTL; it empties only through Clear or
// a process restart. The slot is a single atomic pointer, so readers
// always see either the complete previous value or the complete next
// one, never a torn write.
type Cache struct {
	slot atomic.Pointer[[]byte]
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{}
}

var _ domain.FeedCache = &Cache{}

// Get returns the cached rendered bytes verbatim, and whether the slot
// was filled.
func (c *Cache) Get() ([]byte, bool) {
	p := c.slot.Load()
	if p == nil {
		return nil, false
	}
	return *p, true
}

// Set fills the slot in one atomic swap.
func (c *Cache) Set(rendered []byte) {
	c.slot.Store(&rendered)
}

// Clear empties the slot. Called exactly on post creation and
// deletion; group, comment and follow mutations never reach here.
func (c *Cache) Clear() {
	c.slot.Store(nil)
}
