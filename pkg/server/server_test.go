package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bastiangx/typeahead/pkg/config"
	"github.com/bastiangx/typeahead/pkg/remote"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.ErrorLevel)
	os.Exit(m.Run())
}

// gatedSource blocks lookups for prefixes in hold until their context ends.
type gatedSource struct {
	index   *remote.Client
	hold    map[string]bool
	started chan string
}

func (g *gatedSource) Suggest(ctx context.Context, prefix string) (remote.Result, error) {
	g.started <- prefix
	if g.hold[prefix] {
		<-ctx.Done()
		return remote.Result{}, ctx.Err()
	}
	return g.index.Suggest(ctx, prefix)
}

func newGatedSource(hold ...string) *gatedSource {
	index := remote.NewMemoryIndex("pi", "piz", "pizz", "pizza", "pizza*", "pizze", "pizzeria*")
	g := &gatedSource{
		index:   remote.NewClient(index, 100, "*"),
		hold:    map[string]bool{},
		started: make(chan string, 16),
	}
	for _, p := range hold {
		g.hold[p] = true
	}
	return g
}

func newEngine(src suggest.RemoteSource) *suggest.Engine {
	opts := suggest.DefaultOptions()
	opts.RemoteTimeout = 5 * time.Second
	return suggest.NewEngine(src, opts)
}

type ipcHarness struct {
	in   *io.PipeWriter
	enc  *msgpack.Encoder
	dec  *msgpack.Decoder
	done chan error
}

func startIPC(t *testing.T, engine *suggest.Engine, cfg *config.Config) *ipcHarness {
	t.Helper()
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	srv := NewServer(engine, cfg, inR, outW)
	h := &ipcHarness{
		in:   inW,
		enc:  msgpack.NewEncoder(inW),
		dec:  msgpack.NewDecoder(outR),
		done: make(chan error, 1),
	}
	go func() {
		err := srv.Start(context.Background())
		outW.Close()
		h.done <- err
	}()
	t.Cleanup(func() {
		inW.Close()
		outR.Close()
	})
	return h
}

func (h *ipcHarness) send(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, h.enc.Encode(v))
}

func (h *ipcHarness) recv(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, h.dec.Decode(v))
}

func TestIPCCompletion(t *testing.T) {
	engine := newEngine(newGatedSource())
	h := startIPC(t, engine, nil)

	h.send(t, CompletionRequest{ID: "req_001", Prefix: "piz", Limit: 5})

	var resp CompletionResponse
	h.recv(t, &resp)
	assert.Equal(t, "req_001", resp.ID)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []CompletionSuggestion{{Word: "pizza", Rank: 1}, {Word: "pizzeria", Rank: 2}}, resp.Suggestions)
	assert.GreaterOrEqual(t, resp.TimeTaken, int64(0))
}

func TestIPCSupersededRequestGetsNoResponse(t *testing.T) {
	src := newGatedSource("pi")
	engine := newEngine(src)
	h := startIPC(t, engine, nil)

	h.send(t, CompletionRequest{ID: "1", Prefix: "pi"})
	require.Equal(t, "pi", <-src.started)
	h.send(t, CompletionRequest{ID: "2", Prefix: "piz"})

	var resp CompletionResponse
	h.recv(t, &resp)
	assert.Equal(t, "2", resp.ID)
	assert.Equal(t, 2, resp.Count)

	h.in.Close()
	require.NoError(t, <-h.done)

	var extra map[string]any
	assert.ErrorIs(t, h.dec.Decode(&extra), io.EOF, "the superseded request must not be answered")
}

func TestIPCControlActions(t *testing.T) {
	engine := newEngine(nil)
	engine.AddWord("pasta")
	h := startIPC(t, engine, nil)

	h.send(t, CompletionRequest{ID: "h", Action: "health"})
	var health StatusResponse
	h.recv(t, &health)
	assert.Equal(t, StatusResponse{ID: "h", Status: "ok"}, health)

	h.send(t, CompletionRequest{ID: "s", Action: "stats"})
	var stats StatusResponse
	h.recv(t, &stats)
	assert.Equal(t, "s", stats.ID)
	assert.Equal(t, 1, stats.Stats["totalWords"])

	h.send(t, CompletionRequest{ID: "x", Action: "reload"})
	var unknown CompletionError
	h.recv(t, &unknown)
	assert.Equal(t, "x", unknown.ID)
	assert.Equal(t, 400, unknown.Code)
}

func TestIPCRejectsInvalidRequests(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxPrefix = 5
	h := startIPC(t, newEngine(nil), cfg)

	h.send(t, "not a map")
	var bad CompletionError
	h.recv(t, &bad)
	assert.Equal(t, 400, bad.Code)

	h.send(t, CompletionRequest{ID: "empty"})
	var empty CompletionError
	h.recv(t, &empty)
	assert.Equal(t, "empty", empty.ID)
	assert.Equal(t, "missing prefix", empty.Error)

	h.send(t, CompletionRequest{ID: "long", Prefix: "pizzeria"})
	var long CompletionError
	h.recv(t, &long)
	assert.Equal(t, "long", long.ID)
	assert.Equal(t, 400, long.Code)
}

func TestIPCZeroMaxPrefixIsUnbounded(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxPrefix = 0
	h := startIPC(t, newEngine(newGatedSource()), cfg)

	h.send(t, CompletionRequest{ID: "any", Prefix: "piz"})
	var resp CompletionResponse
	h.recv(t, &resp)
	assert.Equal(t, "any", resp.ID)
	assert.Equal(t, 2, resp.Count)
}

func TestIPCShortPrefixAnswersEmpty(t *testing.T) {
	h := startIPC(t, newEngine(newGatedSource()), nil)

	h.send(t, CompletionRequest{ID: "p", Prefix: "p"})
	var resp CompletionResponse
	h.recv(t, &resp)
	assert.Equal(t, "p", resp.ID)
	assert.Equal(t, 0, resp.Count)
	assert.Empty(t, resp.Suggestions)
}

func getAutocomplete(t *testing.T, handler http.Handler, target string) (int, HTTPResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	var body HTTPResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHTTPAutocomplete(t *testing.T) {
	handler := NewHTTPHandler(newEngine(newGatedSource()), 64)

	code, body := getAutocomplete(t, handler, "/api/autocomplete?q=Piz&limit=1")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"pizza"}, body.Data)

	code, body = getAutocomplete(t, handler, "/api/autocomplete?q=piz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []string{"pizza", "pizzeria"}, body.Data)
}

func TestHTTPAutocompleteDegrades(t *testing.T) {
	handler := NewHTTPHandler(newEngine(nil), 0)

	for _, target := range []string{
		"/api/autocomplete",
		"/api/autocomplete?q=p",
		"/api/autocomplete?q=zz&limit=abc",
	} {
		code, body := getAutocomplete(t, handler, target)
		assert.Equal(t, http.StatusOK, code, target)
		assert.NotNil(t, body.Data, target)
		assert.Empty(t, body.Data, target)
	}
}

func TestHTTPRejectsOtherMethods(t *testing.T) {
	handler := NewHTTPHandler(newEngine(nil), 0)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/autocomplete?q=pi", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
