package suggest

import (
	"context"
	"errors"
	"sync"
)

// ErrSuperseded is returned by Session.Suggest when a newer query replaced
// the one in flight. Nothing should be shown for a superseded query.
var ErrSuperseded = errors.New("suggest: query superseded")

// Session tracks the latest query of a single client, such as one editor or
// one input box, against a shared Engine. Starting a new query cancels the
// previous one, so a slow remote answer for "pi" can never overwrite the
// answer for "piz".
type Session struct {
	engine *Engine

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
}

// NewSession creates a session on engine.
func NewSession(engine *Engine) *Session {
	return &Session{engine: engine}
}

// Suggest supersedes any in-flight query and runs query on the engine.
// It returns ErrSuperseded if another query started before this one
// finished; in that case the result must be dropped.
func (s *Session) Suggest(ctx context.Context, query string, limit int) ([]string, error) {
	return s.Begin(ctx).Run(query, limit)
}

// Query is a claimed slot in a Session. Only the most recently begun Query
// may deliver its result.
type Query struct {
	session *Session
	ctx     context.Context
	cancel  context.CancelFunc
	gen     uint64
}

// Begin cancels the in-flight query and claims the next slot without running
// anything yet. Callers that dispatch queries to goroutines use it to fix
// the supersede order at arrival time.
func (s *Session) Begin(ctx context.Context) *Query {
	qctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
	s.gen++
	s.cancel = cancel
	return &Query{session: s, ctx: qctx, cancel: cancel, gen: s.gen}
}

// Run completes query on the session engine. It must be called at most once.
func (q *Query) Run(query string, limit int) ([]string, error) {
	defer q.cancel()
	s := q.session

	suggestions := s.engine.Complete(q.ctx, query, limit)

	s.mu.Lock()
	defer s.mu.Unlock()
	if q.gen != s.gen {
		return nil, ErrSuperseded
	}
	s.cancel = nil
	return suggestions, nil
}

// Cancel aborts the in-flight query, if any. Its Suggest call returns
// ErrSuperseded.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.gen++
}
