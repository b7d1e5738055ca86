package suggest

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/remote"
	"github.com/charmbracelet/log"
)

// Options tunes the Engine. Zero fields are replaced by DefaultOptions values,
// except FuzzyDistance where 0 keeps fuzzy matching to exact token matches.
type Options struct {
	// Limit is used when Complete is called with a non-positive limit.
	Limit int
	// MinPrefix is the shortest trimmed query, in runes, that triggers any lookup.
	MinPrefix int
	// FuzzyDistance is the summed per-token edit distance budget.
	FuzzyDistance int
	// FuzzyMaxWords disables fuzzy matching once the trie holds more words.
	FuzzyMaxWords int
	// FuzzyMaxQuery disables fuzzy matching for longer queries, in runes.
	FuzzyMaxQuery int
	// RemoteTimeout bounds a single remote lookup.
	RemoteTimeout time.Duration
	// CoverageSize is the number of fully answered prefixes remembered.
	CoverageSize int
	// Matcher overrides the fuzzy matcher.
	Matcher Matcher
}

// DefaultOptions returns the built-in engine settings.
func DefaultOptions() Options {
	return Options{
		Limit:         5,
		MinPrefix:     2,
		FuzzyDistance: 1,
		FuzzyMaxWords: 50000,
		FuzzyMaxQuery: 32,
		RemoteTimeout: 300 * time.Millisecond,
		CoverageSize:  4096,
		Matcher:       LevenshteinMatcher{},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Limit <= 0 {
		o.Limit = d.Limit
	}
	if o.MinPrefix <= 0 {
		o.MinPrefix = d.MinPrefix
	}
	if o.FuzzyDistance < 0 {
		o.FuzzyDistance = d.FuzzyDistance
	}
	if o.FuzzyMaxWords <= 0 {
		o.FuzzyMaxWords = d.FuzzyMaxWords
	}
	if o.FuzzyMaxQuery <= 0 {
		o.FuzzyMaxQuery = d.FuzzyMaxQuery
	}
	if o.RemoteTimeout <= 0 {
		o.RemoteTimeout = d.RemoteTimeout
	}
	if o.CoverageSize <= 0 {
		o.CoverageSize = d.CoverageSize
	}
	if o.Matcher == nil {
		o.Matcher = d.Matcher
	}
	return o
}

type engineStats struct {
	localHits     atomic.Int64
	fuzzyRuns     atomic.Int64
	remoteCalls   atomic.Int64
	remoteMisses  atomic.Int64
	remoteErrors  atomic.Int64
	warmups       atomic.Int64
	coverageSkips atomic.Int64
	discarded     atomic.Int64
}

// Engine answers autocomplete queries from a session-scoped PrefixTrie, falls
// back to fuzzy matching and then to a remote prefix index, and warms the trie
// with whatever the remote returns.
//
// Engine is safe for concurrent use: trie reads share a read lock and warm-ups
// take the write lock.
type Engine struct {
	mu       sync.RWMutex
	trie     *PrefixTrie
	remote   RemoteSource
	coverage *CoverageCache
	opts     Options
	stats    engineStats
}

// NewEngine creates an engine with an empty trie. src may be nil, in which
// case only local lookups are performed.
func NewEngine(src RemoteSource, opts Options) *Engine {
	opts = opts.withDefaults()
	return &Engine{
		trie:     NewPrefixTrie(),
		remote:   src,
		coverage: NewCoverageCache(opts.CoverageSize),
		opts:     opts,
	}
}

// AddWord inserts word into the local trie.
func (e *Engine) AddWord(word string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.trie.Insert(strings.TrimSpace(word))
}

// Has reports whether word is stored in the local trie.
func (e *Engine) Has(word string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.trie.Has(word)
}

// Complete returns at most limit suggestions for query. It never fails: remote
// errors, misses and cancellation all degrade to whatever was found locally.
// Queries shorter than Options.MinPrefix return an empty list without touching
// any index. If ctx is cancelled while the remote lookup is pending, its
// response is discarded and the trie is left untouched.
func (e *Engine) Complete(ctx context.Context, query string, limit int) []string {
	if limit <= 0 {
		limit = e.opts.Limit
	}
	prefix := utils.NormalizeQuery(query)
	if utf8.RuneCountInString(prefix) < e.opts.MinPrefix {
		return []string{}
	}

	e.mu.RLock()
	candidates := e.trie.SearchExact(prefix)
	if len(candidates) >= limit {
		e.mu.RUnlock()
		e.stats.localHits.Add(1)
		return Rank(candidates, limit)
	}
	var fuzzy []Candidate
	if e.fuzzyAllowed(prefix) {
		e.stats.fuzzyRuns.Add(1)
		fuzzy = e.opts.Matcher.FuzzySearch(e.trie, prefix, e.opts.FuzzyDistance)
		candidates = mergeCandidates(candidates, fuzzy)
	}
	e.mu.RUnlock()

	if len(candidates) >= limit {
		e.stats.localHits.Add(1)
		return Rank(candidates, limit)
	}
	if e.remote == nil {
		return Rank(candidates, limit)
	}
	if e.coverage.Covers(prefix) {
		e.stats.coverageSkips.Add(1)
		return Rank(candidates, limit)
	}

	res, ok := e.lookupRemote(ctx, prefix)
	if !ok {
		return Rank(candidates, limit)
	}
	if !e.warm(ctx, prefix, res) {
		return Rank(candidates, limit)
	}

	e.mu.RLock()
	warmed := e.trie.SearchExact(prefix)
	e.mu.RUnlock()
	return Rank(mergeCandidates(warmed, fuzzy), limit)
}

// fuzzyAllowed gates the full-trie traversal. Callers hold e.mu.
func (e *Engine) fuzzyAllowed(prefix string) bool {
	if e.trie.Len() == 0 || e.trie.Len() > e.opts.FuzzyMaxWords {
		return false
	}
	return utf8.RuneCountInString(prefix) <= e.opts.FuzzyMaxQuery
}

// lookupRemote queries the remote index with the configured timeout. ok is
// false when the lookup should degrade to local candidates.
func (e *Engine) lookupRemote(ctx context.Context, prefix string) (remote.Result, bool) {
	rctx, cancel := context.WithTimeout(ctx, e.opts.RemoteTimeout)
	defer cancel()

	e.stats.remoteCalls.Add(1)
	res, err := e.remote.Suggest(rctx, prefix)
	switch {
	case errors.Is(err, remote.ErrNoMatch):
		e.stats.remoteMisses.Add(1)
		if res.Complete && ctx.Err() == nil {
			e.coverage.Add(prefix)
		}
		log.Debugf("No remote suggestions for '%s'", prefix)
		return res, false
	case err != nil:
		e.stats.remoteErrors.Add(1)
		log.Debugf("Remote lookup for '%s' degraded: %v", prefix, err)
		return res, false
	}
	return res, true
}

// warm inserts remote suggestions into the trie unless ctx was cancelled in
// the meantime. The check happens under the write lock so a superseded query
// can never mutate the trie.
func (e *Engine) warm(ctx context.Context, prefix string, res remote.Result) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if ctx.Err() != nil {
		e.stats.discarded.Add(1)
		log.Debugf("Discarding remote suggestions for '%s': %v", prefix, ctx.Err())
		return false
	}
	for _, s := range res.Suggestions {
		e.trie.Insert(s)
	}
	if res.Complete {
		e.coverage.Add(prefix)
	}
	e.stats.warmups.Add(1)
	log.Debugf("Warmed %d remote suggestions for '%s'", len(res.Suggestions), prefix)
	return true
}

// mergeCandidates appends extra to base, skipping words already present.
func mergeCandidates(base, extra []Candidate) []Candidate {
	if len(extra) == 0 {
		return base
	}
	filter := utils.NewSuggestionFilter()
	merged := make([]Candidate, 0, len(base)+len(extra))
	for _, set := range [][]Candidate{base, extra} {
		for _, c := range set {
			if filter.ShouldInclude(c.Word) {
				merged = append(merged, c)
			}
		}
	}
	return merged
}

// Stats returns counters about the local trie and lookups.
func (e *Engine) Stats() map[string]int {
	e.mu.RLock()
	stats := map[string]int{
		"totalWords": e.trie.Len(),
		"totalNodes": e.trie.Nodes(),
	}
	e.mu.RUnlock()

	stats["localHits"] = int(e.stats.localHits.Load())
	stats["fuzzyRuns"] = int(e.stats.fuzzyRuns.Load())
	stats["remoteCalls"] = int(e.stats.remoteCalls.Load())
	stats["remoteMisses"] = int(e.stats.remoteMisses.Load())
	stats["remoteErrors"] = int(e.stats.remoteErrors.Load())
	stats["warmups"] = int(e.stats.warmups.Load())
	stats["coverageSkips"] = int(e.stats.coverageSkips.Load())
	stats["discarded"] = int(e.stats.discarded.Load())
	for k, v := range e.coverage.Stats() {
		stats[k] = v
	}
	return stats
}
