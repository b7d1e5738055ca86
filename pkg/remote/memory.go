package remote

import (
	"context"
	"sync"

	"github.com/google/btree"
)

// MemoryIndex is an in-process sorted member set backed by a B-tree.
// It implements both Index and Writer and is safe for concurrent use.
type MemoryIndex struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[string]
}

// NewMemoryIndex returns an empty index holding members.
func NewMemoryIndex(members ...string) *MemoryIndex {
	mi := &MemoryIndex{tree: btree.NewOrderedG[string](32)}
	for _, m := range members {
		mi.tree.ReplaceOrInsert(m)
	}
	return mi
}

// RankOf implements Index. Ranks are computed by counting smaller members.
func (mi *MemoryIndex) RankOf(ctx context.Context, member string) (int64, bool, error) {
	if err := ctx.Err(); err != nil {
		return 0, false, err
	}
	mi.mu.RLock()
	defer mi.mu.RUnlock()

	if !mi.tree.Has(member) {
		return 0, false, nil
	}
	var rank int64
	mi.tree.AscendLessThan(member, func(string) bool {
		rank++
		return true
	})
	return rank, true, nil
}

// RangeByRank implements Index.
func (mi *MemoryIndex) RangeByRank(ctx context.Context, start, stop int64) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if start < 0 {
		start = 0
	}
	mi.mu.RLock()
	defer mi.mu.RUnlock()

	members := []string{}
	var i int64
	mi.tree.Ascend(func(m string) bool {
		if i > stop {
			return false
		}
		if i >= start {
			members = append(members, m)
		}
		i++
		return true
	})
	return members, nil
}

// AddMembers implements Writer.
func (mi *MemoryIndex) AddMembers(ctx context.Context, members []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mi.mu.Lock()
	defer mi.mu.Unlock()

	for _, m := range members {
		mi.tree.ReplaceOrInsert(m)
	}
	return nil
}

// Clear implements Writer.
func (mi *MemoryIndex) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mi.mu.Lock()
	defer mi.mu.Unlock()

	mi.tree.Clear(false)
	return nil
}

// Len returns the number of members.
func (mi *MemoryIndex) Len() int {
	mi.mu.RLock()
	defer mi.mu.RUnlock()
	return mi.tree.Len()
}
