package cache

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/dpup/shapetools/internal/lib/geo"
	"github.com/dpup/shapetools/internal/lib/shapes"
)

// Observer is told about every lookup.
type Observer interface {
	CacheHit()
	CacheMiss()
}

// Cache memoizes generated shapes for features that repeat the same shape,
// origin and parameters. It is safe for concurrent use. Entries are stored
// serialized so callers never share ring storage with the cache.
type Cache struct {
	entries  map[string]*CacheEntry
	mutex    sync.RWMutex
	capacity int
	observer Observer

	seq    uint64
	hits   int
	misses int
}

// CacheEntry represents a cached shape with metadata
type CacheEntry struct {
	Key       string    `json:"key"`
	Data      []byte    `json:"data"`
	CreatedAt time.Time `json:"created_at"`
	Shape     string    `json:"shape"`

	seq uint64
}

// NewCache creates a cache holding at most capacity shapes. When full, the
// oldest entry is evicted. The observer may be nil.
func NewCache(capacity int, observer Observer) *Cache {
	return &Cache{
		entries:  make(map[string]*CacheEntry),
		capacity: capacity,
		observer: observer,
	}
}

// Key builds the lookup key for a shape generated at origin with the given
// evaluated parameters.
func Key(shape string, origin geo.Point, params map[string]float64) string {
	names := make([]string, 0, len(params))
	for n := range params {
		names = append(names, n)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(shape)
	b.WriteByte('@')
	b.WriteString(strconv.FormatFloat(origin.Latitude, 'g', -1, 64))
	b.WriteByte(',')
	b.WriteString(strconv.FormatFloat(origin.Longitude, 'g', -1, 64))
	for _, n := range names {
		b.WriteByte(';')
		b.WriteString(n)
		b.WriteByte('=')
		b.WriteString(strconv.FormatFloat(params[n], 'g', -1, 64))
	}
	return b.String()
}

// Set stores a shape under key
func (c *Cache) Set(key, shapeName string, s shapes.Shape) error {
	if c.capacity <= 0 {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "failed to marshal shape for cache")
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldest()
	}
	c.seq++
	c.entries[key] = &CacheEntry{
		Key:       key,
		Data:      data,
		CreatedAt: time.Now(),
		Shape:     shapeName,
		seq:       c.seq,
	}
	return nil
}

// Get retrieves a copy of the cached shape
func (c *Cache) Get(key string) (shapes.Shape, bool, error) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	c.record(exists)
	if !exists {
		return shapes.Shape{}, false, nil
	}

	var s shapes.Shape
	if err := json.Unmarshal(entry.Data, &s); err != nil {
		return shapes.Shape{}, false, errors.Wrap(err, "failed to unmarshal cached shape")
	}
	return s, true, nil
}

// GetOrBuild returns the cached shape for key or calls build and caches a
// successful result. Failures are not cached.
func (c *Cache) GetOrBuild(key, shapeName string, build func() (shapes.Shape, error)) (shapes.Shape, bool, error) {
	if s, ok, err := c.Get(key); err != nil || ok {
		return s, ok, err
	}
	s, err := build()
	if err != nil {
		return shapes.Shape{}, false, err
	}
	return s, false, c.Set(key, shapeName, s)
}

func (c *Cache) record(hit bool) {
	c.mutex.Lock()
	if hit {
		c.hits++
	} else {
		c.misses++
	}
	c.mutex.Unlock()

	if c.observer == nil {
		return
	}
	if hit {
		c.observer.CacheHit()
	} else {
		c.observer.CacheMiss()
	}
}

// evictOldest must be called with the write lock held.
func (c *Cache) evictOldest() {
	var oldest *CacheEntry
	for _, e := range c.entries {
		if oldest == nil || e.seq < oldest.seq {
			oldest = e
		}
	}
	if oldest != nil {
		delete(c.entries, oldest.Key)
	}
}

// Delete removes an entry from cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Clear removes all entries from cache
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*CacheEntry)
}

// Keys returns all cache keys
func (c *Cache) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	stats := CacheStats{
		TotalEntries: len(c.entries),
		Hits:         c.hits,
		Misses:       c.misses,
	}
	for _, entry := range c.entries {
		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}
	return stats
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	TotalEntries int
	Hits         int
	Misses       int
	OldestEntry  time.Time
	NewestEntry  time.Time
}
