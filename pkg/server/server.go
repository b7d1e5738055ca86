package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/logger"
	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// Server handles the msgpack IPC for one client stream.
type Server struct {
	engine  *suggest.Engine
	session *suggest.Session
	config  *config.Config
	log     *log.Logger

	reader io.Reader
	writer io.Writer
	wmu    sync.Mutex
	enc    *msgpack.Encoder

	wg           sync.WaitGroup
	requestCount int
}

// NewServer creates an IPC server reading requests from r and writing
// responses to w. A nil cfg uses config.DefaultConfig.
func NewServer(engine *suggest.Engine, cfg *config.Config, r io.Reader, w io.Writer) *Server {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Server{
		engine:  engine,
		session: suggest.NewSession(engine),
		config:  cfg,
		log:     logger.New("ipc"),
		reader:  r,
		writer:  w,
		enc:     msgpack.NewEncoder(w),
	}
}

// Start processes requests until the input stream ends or ctx is cancelled.
// It waits for in-flight completions before returning.
func (s *Server) Start(ctx context.Context) error {
	s.log.Debug("Starting IPC server.")
	defer s.wg.Wait()

	dec := msgpack.NewDecoder(s.reader)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		var raw msgpack.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) || ctx.Err() != nil {
				s.log.Debug("Input closed, stopping IPC server.")
				return nil
			}
			return fmt.Errorf("failed to read request: %w", err)
		}
		s.requestCount++
		s.handleMessage(ctx, raw)
	}
}

func (s *Server) handleMessage(ctx context.Context, raw msgpack.RawMessage) {
	var req CompletionRequest
	if err := msgpack.Unmarshal(raw, &req); err != nil {
		s.log.Debugf("Invalid request #%d: %v", s.requestCount, err)
		s.sendError("", "invalid request", 400)
		return
	}

	switch req.Action {
	case "":
		s.handleComplete(ctx, req)
	case "health":
		s.send(StatusResponse{ID: req.ID, Status: "ok"})
	case "stats":
		s.send(StatusResponse{ID: req.ID, Status: "ok", Stats: s.engine.Stats()})
	default:
		s.sendError(req.ID, fmt.Sprintf("unknown action: %s", req.Action), 400)
	}
}

// handleComplete validates the request on the read loop, claims the session
// slot there so arrival order decides which query wins, and completes it in
// the background.
func (s *Server) handleComplete(ctx context.Context, req CompletionRequest) {
	n := utf8.RuneCountInString(req.Prefix)
	if n == 0 {
		s.sendError(req.ID, "missing prefix", 400)
		return
	}
	if maxPrefix := s.config.Server.MaxPrefix; maxPrefix > 0 && n > maxPrefix {
		s.sendError(req.ID, fmt.Sprintf("prefix exceeds maximum length of %d", maxPrefix), 400)
		return
	}

	limit := req.Limit
	if limit <= 0 {
		limit = s.config.Engine.Limit
	}
	if maxLimit := s.config.Server.MaxLimit; maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}

	query := s.session.Begin(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		start := time.Now()
		words, err := query.Run(req.Prefix, limit)
		if errors.Is(err, suggest.ErrSuperseded) {
			s.log.Debugf("Dropping superseded request %s", req.ID)
			return
		}
		s.send(buildResponse(req.ID, words, time.Since(start)))
	}()
}

func buildResponse(id string, words []string, elapsed time.Duration) CompletionResponse {
	ranks := utils.CreateRankList(len(words))
	suggestions := make([]CompletionSuggestion, len(words))
	for i, w := range words {
		suggestions[i] = CompletionSuggestion{Word: w, Rank: ranks[i]}
	}
	return CompletionResponse{
		ID:          id,
		Suggestions: suggestions,
		Count:       len(suggestions),
		TimeTaken:   elapsed.Microseconds(),
	}
}

// send writes one msgpack value. Writes are serialized so concurrent
// responses never interleave.
func (s *Server) send(v any) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		s.log.Errorf("Writing response: %v", err)
	}
}

func (s *Server) sendError(id, message string, code int) {
	s.send(CompletionError{ID: id, Error: message, Code: code})
}
