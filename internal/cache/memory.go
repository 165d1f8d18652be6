package cache

import (
	"container/list"
	"sync"
	"time"
)

// MemoryCache is an L1 in-memory cache with LRU eviction. Entry sizes come
// from the sizer, so the same cache holds raw bytes or decoded entities.
type MemoryCache[V any] struct {
	capacity int64 // Maximum size in bytes
	size     int64 // Current size in bytes
	sizeOf   func(V) int64

	// LRU implementation
	items    map[string]*list.Element
	eviction *list.List

	mu    sync.RWMutex
	stats Stats
}

type memoryEntry[V any] struct {
	key       string
	value     V
	size      int64
	timestamp time.Time
	hits      int64
}

// NewMemoryCache creates a memory cache holding up to capacity bytes as
// measured by sizeOf.
func NewMemoryCache[V any](capacity int64, sizeOf func(V) int64) *MemoryCache[V] {
	return &MemoryCache[V]{
		capacity: capacity,
		sizeOf:   sizeOf,
		items:    make(map[string]*list.Element),
		eviction: list.New(),
		stats:    Stats{Capacity: capacity},
	}
}

// NewByteCache creates a memory cache of raw bytes.
func NewByteCache(capacity int64) *MemoryCache[[]byte] {
	return NewMemoryCache(capacity, func(b []byte) int64 { return int64(len(b)) })
}

// Get retrieves a value from the cache.
func (c *MemoryCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.stats.Misses++
		var zero V
		return zero, false
	}

	c.eviction.MoveToFront(elem)
	entry := elem.Value.(*memoryEntry[V])
	entry.hits++

	c.stats.Hits++
	c.stats.LastAccess = time.Now()
	return entry.value, true
}

// Put stores a value in the cache.
func (c *MemoryCache[V]) Put(key string, value V) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	valueSize := c.sizeOf(value)
	if valueSize > c.capacity {
		return ErrItemTooLarge
	}

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}

	for c.size+valueSize > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}

	entry := &memoryEntry[V]{
		key:       key,
		value:     value,
		size:      valueSize,
		timestamp: time.Now(),
	}
	c.items[key] = c.eviction.PushFront(entry)
	c.size += valueSize

	c.stats.Size = c.size
	return nil
}

// Delete removes an entry from the cache.
func (c *MemoryCache[V]) Delete(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		c.removeElement(elem)
	}
	return nil
}

// Clear removes all entries from the cache.
func (c *MemoryCache[V]) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]*list.Element)
	c.eviction.Init()
	c.size = 0
	c.stats.Size = 0
	return nil
}

// Size returns the current cache size in bytes.
func (c *MemoryCache[V]) Size() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.size
}

// Contains checks if a key exists in the cache without updating LRU.
func (c *MemoryCache[V]) Contains(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, ok := c.items[key]
	return ok
}

// Stats returns cache statistics.
func (c *MemoryCache[V]) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = c.size
	stats.ItemCount = int64(len(c.items))
	stats.updateHitRate()
	return stats
}

// LRUEntries returns up to n entries, least recently used first.
func (c *MemoryCache[V]) LRUEntries(n int) []Metadata {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Metadata, 0, n)
	for elem := c.eviction.Back(); elem != nil && len(entries) < n; elem = elem.Prev() {
		entry := elem.Value.(*memoryEntry[V])
		entries = append(entries, Metadata{
			Key:       entry.key,
			Size:      entry.size,
			Timestamp: entry.timestamp,
			Hits:      entry.hits,
			Level:     LevelL1,
		})
	}
	return entries
}

// Resize changes the cache capacity, evicting as needed.
func (c *MemoryCache[V]) Resize(capacity int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.capacity = capacity
	c.stats.Capacity = capacity
	for c.size > c.capacity && c.eviction.Len() > 0 {
		c.evictOldest()
	}
}

// Prune removes entries older than maxAge and returns how many it removed.
func (c *MemoryCache[V]) Prune(maxAge time.Duration) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-maxAge)
	pruned := 0
	for elem := c.eviction.Back(); elem != nil; {
		prev := elem.Prev()
		if elem.Value.(*memoryEntry[V]).timestamp.Before(cutoff) {
			c.removeElement(elem)
			pruned++
		}
		elem = prev
	}
	return pruned
}

// Keys returns all keys in the cache.
func (c *MemoryCache[V]) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.items))
	for key := range c.items {
		keys = append(keys, key)
	}
	return keys
}

// evictOldest must be called with the lock held.
func (c *MemoryCache[V]) evictOldest() {
	if elem := c.eviction.Back(); elem != nil {
		c.removeElement(elem)
		c.stats.Evictions++
		c.stats.LastEvict = time.Now()
	}
}

// removeElement must be called with the lock held.
func (c *MemoryCache[V]) removeElement(elem *list.Element) {
	c.eviction.Remove(elem)
	entry := elem.Value.(*memoryEntry[V])
	delete(c.items, entry.key)
	c.size -= entry.size
}

var _ Cache = (*MemoryCache[[]byte])(nil)
