// Package suggest is the core, providing the local prefix trie, fuzzy fallback,
// ranking and the hybrid engine that falls back to a remote prefix index.
package suggest

import (
	"context"

	"github.com/bastiangx/typeahead/pkg/remote"
)

// ICompleter defines the interface for completion engines
type ICompleter interface {
	// Complete returns ranked suggestions for a query with a limit
	Complete(ctx context.Context, query string, limit int) []string

	// AddWord records an observed word in the local index
	AddWord(word string)

	// Stats returns counters about the local index and lookups
	Stats() map[string]int
}

// RemoteSource answers prefix queries the local trie could not satisfy.
// *remote.Client implements it.
type RemoteSource interface {
	Suggest(ctx context.Context, prefix string) (remote.Result, error)
}
