/*
Package dictionary builds the remote prefix index from a corpus of terms.

Every corpus entry is cleaned into a term, and each term is expanded into its
prefixes of 2..N runes plus the full term with the terminator marker:

	"Pizza Roma" -> "pi", "piz", ..., "pizza roma"[:N], "pizza roma*"

All members are written with the same score, so the index orders them
lexicographically and members sharing a prefix stay contiguous.
*/
package dictionary

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/bastiangx/typeahead/pkg/remote"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

// DefaultPrefixSize is the longest plain prefix emitted per term.
const DefaultPrefixSize = 10

// Builder expands corpus entries into prefix index members.
type Builder struct {
	prefixSize int
	marker     string
	batchSize  int
}

// BuildStats summarizes a Build run.
type BuildStats struct {
	Sources  int
	Entries  int
	Terms    int
	Members  int
	Duration time.Duration
}

// NewBuilder creates a builder. Non-positive prefixSize and empty marker use
// DefaultPrefixSize and remote.DefaultMarker.
func NewBuilder(prefixSize int, marker string) *Builder {
	if prefixSize <= 0 {
		prefixSize = DefaultPrefixSize
	}
	if marker == "" {
		marker = remote.DefaultMarker
	}
	return &Builder{
		prefixSize: prefixSize,
		marker:     marker,
		batchSize:  5000,
	}
}

// Terms cleans and deduplicates raw entries, keeping first-seen order.
func (b *Builder) Terms(entries []string) []string {
	seen := make(map[string]bool, len(entries))
	terms := make([]string, 0, len(entries))
	for _, e := range entries {
		term := CleanText(e)
		if !IsIndexable(term) || seen[term] {
			continue
		}
		seen[term] = true
		terms = append(terms, term)
	}
	return terms
}

// Expand turns terms into a sorted, deduplicated member list.
func (b *Builder) Expand(terms []string) []string {
	set := make(map[string]struct{}, len(terms)*b.prefixSize)
	for _, term := range terms {
		for _, m := range GeneratePrefixes(term, b.prefixSize, b.marker) {
			set[m] = struct{}{}
		}
	}
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	sort.Strings(members)
	return members
}

// Build loads every source concurrently, expands the combined corpus and
// writes the members to w in batches.
func (b *Builder) Build(ctx context.Context, w remote.Writer, sources ...Source) (BuildStats, error) {
	start := time.Now()
	stats := BuildStats{Sources: len(sources)}

	loaded := make([][]string, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		i, src := i, src
		g.Go(func() error {
			entries, err := src.Load(gctx)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Name(), err)
			}
			log.Debugf("Loaded %d entries from %s", len(entries), src.Name())
			loaded[i] = entries
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	var entries []string
	for _, l := range loaded {
		entries = append(entries, l...)
	}
	stats.Entries = len(entries)

	terms := b.Terms(entries)
	stats.Terms = len(terms)
	members := b.Expand(terms)
	stats.Members = len(members)

	for start := 0; start < len(members); start += b.batchSize {
		end := min(start+b.batchSize, len(members))
		if err := w.AddMembers(ctx, members[start:end]); err != nil {
			return stats, fmt.Errorf("write members %d-%d: %w", start, end, err)
		}
	}

	stats.Duration = time.Since(start)
	log.Infof("Indexed %d terms as %d members from %d entries in %v",
		stats.Terms, stats.Members, stats.Entries, stats.Duration)
	return stats, nil
}
