// Package store caches resolved stream URLs for the authenticated playback
// path, using an LRU for hits and a Bloom filter over known-unresolvable
// URIs so repeated misses skip the catalog round trip.
package store

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
	lru "github.com/hashicorp/golang-lru/v2"
)

type StreamCache struct {
	urls       *lru.Cache[string, string]
	unresolved map[string]struct{}
	bloom      *bloom.BloomFilter
	mutex      sync.RWMutex
	maxEntries int
	fpRate     float64
}

// NewStreamCache creates a cache holding up to maxEntries resolved URLs.
// fpRate is the Bloom filter's target false-positive rate; a false positive
// only costs one extra exact-set lookup.
func NewStreamCache(maxEntries int, fpRate float64) *StreamCache {
	if maxEntries <= 0 {
		maxEntries = 1
	}
	urls, _ := lru.New[string, string](maxEntries)

	return &StreamCache{
		urls:       urls,
		unresolved: make(map[string]struct{}),
		bloom:      bloom.NewWithEstimates(uint(maxEntries), fpRate),
		maxEntries: maxEntries,
		fpRate:     fpRate,
	}
}

// URL returns the cached stream URL for a track URI.
func (sc *StreamCache) URL(uri string) (string, bool) {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.urls.Get(uri)
}

// Put records a resolved stream URL.
func (sc *StreamCache) Put(uri, url string) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()
	sc.urls.Add(uri, url)
}

// MarkUnresolvable records that the catalog has no stream for this URI.
func (sc *StreamCache) MarkUnresolvable(uri string) {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	if len(sc.unresolved) >= sc.maxEntries {
		// Refusing new negative entries beats unbounded growth; the worst
		// case is one repeated catalog round trip per call.
		return
	}
	sc.unresolved[uri] = struct{}{}
	sc.bloom.AddString(uri)
}

// Unresolvable reports whether the URI previously failed to resolve. The
// Bloom filter screens out the common case before the exact check.
func (sc *StreamCache) Unresolvable(uri string) bool {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()

	if !sc.bloom.TestString(uri) {
		return false
	}
	_, exists := sc.unresolved[uri]
	return exists
}

// Len returns the number of cached stream URLs.
func (sc *StreamCache) Len() int {
	sc.mutex.RLock()
	defer sc.mutex.RUnlock()
	return sc.urls.Len()
}

// Purge drops all cached entries, positive and negative.
func (sc *StreamCache) Purge() {
	sc.mutex.Lock()
	defer sc.mutex.Unlock()

	sc.urls.Purge()
	sc.unresolved = make(map[string]struct{})
	sc.bloom = bloom.NewWithEstimates(uint(sc.maxEntries), sc.fpRate)
}
