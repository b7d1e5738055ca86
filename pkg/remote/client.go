package remote

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
)

// Result is the outcome of a remote prefix lookup.
type Result struct {
	Suggestions []string
	// Complete is true when the scan saw every member sharing the prefix:
	// it stopped on a non-matching member, the window came back short, or the
	// prefix itself is absent from the index.
	Complete bool
}

// Client runs the rank-then-range lookup protocol against an Index.
type Client struct {
	index  Index
	window int64
	marker string
}

// NewClient wraps index. Non-positive window and empty marker fall back to
// DefaultWindow and DefaultMarker.
func NewClient(index Index, window int, marker string) *Client {
	if window <= 0 {
		window = DefaultWindow
	}
	if marker == "" {
		marker = DefaultMarker
	}
	return &Client{
		index:  index,
		window: int64(window),
		marker: marker,
	}
}

// Suggest returns the complete suggestions stored under prefix, which must
// already be normalized. When nothing matches it returns ErrNoMatch together
// with a Result whose Complete field is still meaningful, much like a short
// read from an io.Reader.
func (c *Client) Suggest(ctx context.Context, prefix string) (Result, error) {
	rank, ok, err := c.index.RankOf(ctx, prefix)
	if err != nil {
		return Result{}, fmt.Errorf("rank of %q: %w", prefix, err)
	}
	if !ok {
		return Result{Complete: true}, ErrNoMatch
	}

	members, err := c.index.RangeByRank(ctx, rank, rank+c.window)
	if err != nil {
		return Result{}, fmt.Errorf("range [%d, %d]: %w", rank, rank+c.window, err)
	}

	res := c.scan(prefix, members)
	if len(res.Suggestions) == 0 {
		return res, ErrNoMatch
	}
	return res, nil
}

// scan walks members in order while they still share prefix.
func (c *Client) scan(prefix string, members []string) Result {
	res := Result{
		Suggestions: []string{},
		Complete:    int64(len(members)) <= c.window,
	}
	for _, m := range members {
		if !strings.HasPrefix(m, prefix) {
			res.Complete = true
			break
		}
		word, terminal, err := c.parseEntry(m)
		if err != nil {
			log.Debugf("Skipping remote member %q: %v", m, err)
			continue
		}
		if terminal {
			res.Suggestions = append(res.Suggestions, word)
		}
	}
	return res
}

// parseEntry splits a member into its suggestion, if it is a terminated one.
func (c *Client) parseEntry(member string) (string, bool, error) {
	if !strings.HasSuffix(member, c.marker) {
		return "", false, nil
	}
	word := strings.TrimSuffix(member, c.marker)
	if strings.TrimSpace(word) == "" {
		return "", false, fmt.Errorf("%w: empty suggestion", ErrMalformedEntry)
	}
	if strings.Contains(word, c.marker) {
		return "", false, fmt.Errorf("%w: marker inside suggestion", ErrMalformedEntry)
	}
	return word, true, nil
}
