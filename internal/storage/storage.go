package storage

import "sync"

// DocCache holds exported document text keyed by remote document ID so the
// viewer doesn't re-export a Doc on every page render.
type DocCache struct {
	docs map[string]string
	mu   sync.RWMutex
}

func New() *DocCache {
	return &DocCache{
		docs: make(map[string]string),
	}
}

func (c *DocCache) Get(docID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	text, exists := c.docs[docID]
	return text, exists
}

func (c *DocCache) Set(docID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[docID] = text
}

func (c *DocCache) Delete(docID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.docs, docID)
}
