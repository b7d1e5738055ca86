package suggest

import (
	"errors"
	"sync"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/tchap/go-patricia/v2/patricia"
)

var errCovered = errors.New("covered")

// CoverageCache remembers prefixes whose remote answer is fully known, either
// because the remote had nothing for them or because every suggestion it had
// was warmed into the local trie. Any query extending such a prefix can only
// produce a subset of those answers, so the remote lookup is skipped.
//
// Prefixes are kept in a patricia trie for prefix-of lookups and bounded by an
// LRU; evicted prefixes are removed from the trie as well.
type CoverageCache struct {
	mu     sync.Mutex
	trie   *patricia.Trie
	recent *lru.Cache[string, struct{}]
	hits   int64
}

// NewCoverageCache creates a cache holding at most maxPrefixes prefixes.
// A non-positive size returns nil, and a nil cache covers nothing.
func NewCoverageCache(maxPrefixes int) *CoverageCache {
	if maxPrefixes <= 0 {
		return nil
	}
	cc := &CoverageCache{trie: patricia.NewTrie()}
	recent, err := lru.NewWithEvict[string, struct{}](maxPrefixes, func(key string, _ struct{}) {
		cc.trie.Delete(patricia.Prefix(key))
		log.Debugf("Evicted covered prefix '%s'", key)
	})
	if err != nil {
		log.Errorf("Failed to create coverage cache: %v", err)
		return nil
	}
	cc.recent = recent
	return cc
}

// Add marks prefix as fully covered.
func (cc *CoverageCache) Add(prefix string) {
	if cc == nil || prefix == "" {
		return
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()

	cc.trie.Insert(patricia.Prefix(prefix), struct{}{})
	cc.recent.Add(prefix, struct{}{})
}

// Covers reports whether query, or any prefix of it, was marked as covered.
func (cc *CoverageCache) Covers(query string) bool {
	if cc == nil || query == "" {
		return false
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()

	var covering string
	err := cc.trie.VisitPrefixes(patricia.Prefix(query), func(p patricia.Prefix, _ patricia.Item) error {
		covering = string(p)
		return errCovered
	})
	if err != nil && !errors.Is(err, errCovered) {
		log.Errorf("Error visiting coverage prefixes: %v", err)
		return false
	}
	if covering == "" {
		return false
	}
	cc.recent.Get(covering)
	cc.hits++
	return true
}

// Stats returns cache statistics.
func (cc *CoverageCache) Stats() map[string]int {
	if cc == nil {
		return map[string]int{"coveredPrefixes": 0, "coverageHits": 0}
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()

	return map[string]int{
		"coveredPrefixes": cc.recent.Len(),
		"coverageHits":    int(cc.hits),
	}
}
