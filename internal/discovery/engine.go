package discovery

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash"
)

// Engine binds a dictionary to the discovery functions and memoizes results
// per letter multiset, so a reshuffled round reuses the previous discovery.
// It is safe for concurrent use.
type Engine struct {
	dict     Lookup
	capacity int

	mu      sync.Mutex
	entries map[uint64]cacheEntry
	hits    uint64
	misses  uint64
}

type cacheEntry struct {
	key   string
	words []string
}

// Stats reports cache usage.
type Stats struct {
	Entries int    `json:"entries"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
}

// NewEngine returns an engine over dict. capacity <= 0 disables caching; once
// the cache holds capacity entries it is emptied and refilled.
func NewEngine(dict Lookup, capacity int) *Engine {
	return &Engine{
		dict:     dict,
		capacity: capacity,
		entries:  make(map[uint64]cacheEntry),
	}
}

// Discover is Discover(letters, e's dictionary, minLength), cached by the
// multiset of letters. Callers own the returned slice.
func (e *Engine) Discover(letters []string, minLength int) []string {
	if e.capacity <= 0 {
		return Discover(letters, e.dict, minLength)
	}
	key := multisetKey(letters, minLength)
	sum := xxhash.Sum64String(key)

	e.mu.Lock()
	if ent, ok := e.entries[sum]; ok && ent.key == key {
		e.hits++
		e.mu.Unlock()
		return append([]string(nil), ent.words...)
	}
	e.misses++
	e.mu.Unlock()

	words := Discover(letters, e.dict, minLength)

	e.mu.Lock()
	if len(e.entries) >= e.capacity {
		e.entries = make(map[uint64]cacheEntry)
	}
	e.entries[sum] = cacheEntry{key: key, words: words}
	e.mu.Unlock()
	return append([]string(nil), words...)
}

// IsValid is IsValid(word, e's dictionary, minLength).
func (e *Engine) IsValid(word string, minLength int) bool {
	return IsValid(word, e.dict, minLength)
}

// Stats returns a snapshot of cache counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Stats{Entries: len(e.entries), Hits: e.hits, Misses: e.misses}
}

// multisetKey is independent of letter order.
func multisetKey(letters []string, minLength int) string {
	sorted := make([]string, len(letters))
	for i, l := range letters {
		sorted[i] = strings.ToLower(l)
	}
	sort.Strings(sorted)
	return strconv.Itoa(minLength) + "\x00" + strings.Join(sorted, "\x00")
}
