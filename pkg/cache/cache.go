package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ReplyCache is an LRU cache for judge replies keyed by scoring prompt.
// Scoring prompts are deterministic, so an identical prompt may reuse
// the previous reply instead of spending another judge call.
type ReplyCache struct {
	cache *lru.Cache[string, string]

	mu     sync.Mutex
	hits   int64
	misses int64
}

// DefaultSize bounds the cache when no size is configured.
const DefaultSize = 512

// New creates a reply cache holding up to size entries.
func New(size int) (*ReplyCache, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &ReplyCache{cache: c}, nil
}

// Get looks up the cached reply for a prompt.
func (c *ReplyCache) Get(prompt string) (string, bool) {
	reply, ok := c.cache.Get(Key(prompt))
	c.mu.Lock()
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	c.mu.Unlock()
	return reply, ok
}

// Set stores a reply for a prompt.
func (c *ReplyCache) Set(prompt, reply string) {
	c.cache.Add(Key(prompt), reply)
}

// Stats returns hit/miss counts and the current size.
func (c *ReplyCache) Stats() (hits, misses int64, size int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses, c.cache.Len()
}

// Key hashes a prompt into a fixed-length cache key.
func Key(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
