/*
Package remote implements the sorted prefix index that backs autocomplete
lookups when the local trie cannot satisfy a query.

The index is a lexicographically sorted set of members. A member is either a
plain prefix of some term ("pi", "piz", "pizz") or a full term followed by the
terminator marker ("pizza*"). Because members that share a prefix sort next to
each other, a lookup only needs the rank of the query and a short range after
it:

	rank := ZRANK suggestions "piz"
	ZRANGE suggestions rank rank+100

The scan keeps the terminated members, strips the marker and stops at the first
member that no longer starts with the query.

Two Index implementations are provided: RedisIndex, for a Redis sorted set, and
MemoryIndex, an in-process B-tree used for tests and local development.
*/
package remote

import (
	"context"
	"errors"
)

const (
	// DefaultMarker terminates members that are complete suggestions.
	DefaultMarker = "*"
	// DefaultWindow is how many members after the query's rank are scanned.
	DefaultWindow = 100
	// DefaultKey is the sorted set name used by RedisIndex.
	DefaultKey = "suggestions"
)

var (
	// ErrNoMatch is returned when the index holds no suggestion for a prefix.
	ErrNoMatch = errors.New("remote: no suggestions for prefix")
	// ErrMalformedEntry marks a member that could not be turned into a suggestion.
	ErrMalformedEntry = errors.New("remote: malformed entry")
)

// Index is a read-only view of a sorted prefix set.
type Index interface {
	// RankOf returns the zero-based rank of member. ok is false when the
	// member is absent; rank 0 is a valid, present rank.
	RankOf(ctx context.Context, member string) (rank int64, ok bool, err error)
	// RangeByRank returns members with ranks in [start, stop], ascending.
	RangeByRank(ctx context.Context, start, stop int64) ([]string, error)
}

// Writer is the write side used by the offline index builder.
type Writer interface {
	// AddMembers inserts members with equal scores so that they order
	// lexicographically.
	AddMembers(ctx context.Context, members []string) error
	// Clear removes every member.
	Clear(ctx context.Context) error
}
