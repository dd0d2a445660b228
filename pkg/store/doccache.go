package store

import (
	"sync"

	"github.com/storygraph/corpus/internal/schema"
)

// DocCache holds parsed documents in memory, keyed by doc id, so a batch
// run over many files never re-decodes or re-processes the same document
// twice. Version lets a caller skip documents that haven't changed since
// the last hydrate (graphctl's original equivalent tracked a Dexie/Nebula
// note's save version the same way).
type DocCache struct {
	mu   sync.RWMutex
	docs map[string]*CachedDoc
}

// CachedDoc pairs a parsed document with the version it was hydrated at.
type CachedDoc struct {
	Doc     *schema.ParseResponse
	Version int64
}

// NewDocCache creates an empty document cache.
func NewDocCache() *DocCache {
	return &DocCache{docs: make(map[string]*CachedDoc)}
}

// Hydrate bulk-loads docs into the cache, returning how many were added
// or updated (a doc whose version is unchanged from what's already cached
// is skipped).
func (c *DocCache) Hydrate(docs []*schema.ParseResponse, version int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, d := range docs {
		if existing, ok := c.docs[d.DocID]; ok && existing.Version == version {
			continue
		}
		c.docs[d.DocID] = &CachedDoc{Doc: d, Version: version}
		n++
	}
	return n
}

// Get retrieves a cached document by id, or nil if absent.
func (c *DocCache) Get(id string) *schema.ParseResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if cd, ok := c.docs[id]; ok {
		return cd.Doc
	}
	return nil
}

// Remove deletes a document from the cache.
func (c *DocCache) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, id)
}

// Count returns the number of cached documents.
func (c *DocCache) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.docs)
}

// AllIDs returns every cached document's id.
func (c *DocCache) AllIDs() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, 0, len(c.docs))
	for id := range c.docs {
		ids = append(ids, id)
	}
	return ids
}

// All returns every cached document.
func (c *DocCache) All() []*schema.ParseResponse {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*schema.ParseResponse, 0, len(c.docs))
	for _, cd := range c.docs {
		out = append(out, cd.Doc)
	}
	return out
}
