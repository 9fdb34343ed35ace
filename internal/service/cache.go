package service

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// DefaultStaleAfter is the staleness window: entries older than this are
// served immediately but refreshed in the background on next access.
const DefaultStaleAfter = 5 * time.Minute

// Entry is a read-only view of one cache slot.
type Entry struct {
	Data      any
	FetchedAt time.Time
	Seq       uint64
	Stale     bool
}

type cacheEntry struct {
	data      any
	fetchedAt time.Time
	stale     bool
	seq       uint64
}

type subscriber struct {
	pattern string
	ch      chan string
}

// Cache is the process-wide keyed store behind the catalog and session
// services. Keys are composites of entity kind and scoping id (see
// cache_keys.go); two different scopes never share a slot. Nobody mutates
// cached data in place: writers always Set a freshly built value, which is
// what makes mutation snapshots restorable verbatim.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	subs    map[int]*subscriber
	nextSub int

	staleAfter time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewCache creates an empty cache. A staleAfter of zero selects
// DefaultStaleAfter.
func NewCache(staleAfter time.Duration, logger *slog.Logger) *Cache {
	if staleAfter <= 0 {
		staleAfter = DefaultStaleAfter
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		entries:    make(map[string]*cacheEntry),
		subs:       make(map[int]*subscriber),
		staleAfter: staleAfter,
		now:        time.Now,
		logger:     logger,
	}
}

// Get returns the entry for key, with staleness derived from the window.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return Entry{}, false
	}
	return Entry{
		Data:      e.data,
		FetchedAt: e.fetchedAt,
		Seq:       e.seq,
		Stale:     e.stale || c.now().Sub(e.fetchedAt) > c.staleAfter,
	}, true
}

// Peek returns the raw cached value without staleness bookkeeping. Mutation
// code uses it to capture snapshots.
func (c *Cache) Peek(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	return e.data, true
}

// Seq returns the write stamp for key, or zero when absent. A fetch records
// it before going to the network so a late completion can be discarded.
func (c *Cache) Seq(key string) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if e, ok := c.entries[key]; ok {
		return e.seq
	}
	return 0
}

// Set overwrites the value for key, marks it fresh, bumps the write stamp
// and notifies subscribers.
func (c *Cache) Set(key string, data any) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if !ok {
		e = &cacheEntry{}
		c.entries[key] = e
	}
	e.data = data
	e.fetchedAt = c.now()
	e.stale = false
	e.seq++
	c.notifyLocked(key)
	c.mu.Unlock()
}

// CompareAndSet stores data only if the write stamp still equals seq, i.e.
// nothing else wrote to the slot since the caller sampled it. Returns false
// when the completion is stale and was discarded. Late or cancelled fetch
// responses must never clobber a newer value.
func (c *Cache) CompareAndSet(key string, data any, seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		if seq != 0 {
			return false
		}
		e = &cacheEntry{}
		c.entries[key] = e
	} else if e.seq != seq {
		c.logger.Debug("discarding stale fetch completion", "key", key, "have", e.seq, "got", seq)
		return false
	}
	e.data = data
	e.fetchedAt = c.now()
	e.stale = false
	e.seq++
	c.notifyLocked(key)
	return true
}

// matchKey reports whether key falls under pattern: the exact key, or any
// key scoped beneath it by a ":" segment. "animes" covers "animes" and
// "animes:42"; "seasons:4" covers only itself, never "seasons:42".
func matchKey(key, pattern string) bool {
	return key == pattern || strings.HasPrefix(key, pattern+":")
}

// Invalidate marks every entry matching pattern as stale and notifies
// subscribers so watched entries get refetched; unwatched ones are
// refreshed lazily on next access. Returns the number of entries touched.
func (c *Cache) Invalidate(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, e := range c.entries {
		if matchKey(key, pattern) {
			e.stale = true
			c.notifyLocked(key)
			n++
		}
	}
	c.logger.Debug("invalidated cache entries", "pattern", pattern, "count", n)
	return n
}

// Remove deletes every entry matching pattern. Used after delete mutations
// so removed data can never be momentarily shown as present. Returns the
// number of entries removed.
func (c *Cache) Remove(pattern string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.entries {
		if matchKey(key, pattern) {
			delete(c.entries, key)
			c.notifyLocked(key)
			n++
		}
	}
	c.logger.Debug("removed cache entries", "pattern", pattern, "count", n)
	return n
}

// Clear wipes every entry. Used on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key := range c.entries {
		c.notifyLocked(key)
	}
	c.entries = make(map[string]*cacheEntry)
	c.logger.Info("cleared cache")
}

// MarkAllStale flags every entry for background refresh without dropping
// the data. Used after login so reads re-fetch under the new credential
// while the UI keeps showing what it has.
func (c *Cache) MarkAllStale() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, e := range c.entries {
		e.stale = true
		c.notifyLocked(key)
	}
	c.logger.Debug("marked all cache entries stale", "count", len(c.entries))
}

// Len returns the number of live entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Subscribe registers interest in every key under pattern (matchKey
// semantics; "" watches everything). The returned channel receives the
// affected key on set, invalidate and remove; slow consumers drop
// notifications rather than block writers. The second return value
// unsubscribes.
func (c *Cache) Subscribe(pattern string) (<-chan string, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := c.nextSub
	c.nextSub++
	sub := &subscriber{pattern: pattern, ch: make(chan string, 16)}
	c.subs[id] = sub

	return sub.ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

// notifyLocked fans a key event out to matching subscribers. Caller holds
// the write lock.
func (c *Cache) notifyLocked(key string) {
	for _, sub := range c.subs {
		if sub.pattern == "" || matchKey(key, sub.pattern) {
			select {
			case sub.ch <- key:
			default:
			}
		}
	}
}
