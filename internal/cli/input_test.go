package cli

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetLevel(log.FatalLevel)
	os.Exit(m.Run())
}

func run(t *testing.T, input string, noFilter bool) string {
	t.Helper()
	engine := suggest.NewEngine(nil, suggest.DefaultOptions())
	var out bytes.Buffer
	h := NewInputHandler(engine, 20, 5, noFilter, strings.NewReader(input), &out)
	require.NoError(t, h.Start(context.Background()))
	return out.String()
}

func TestInputHandlerAddAndComplete(t *testing.T) {
	out := run(t, "+pizza\n+pizzeria\n+pizza\npiz\n", false)

	assert.Contains(t, out, "added pizza")
	assert.Contains(t, out, "Found 2 suggestions for 'piz'")
	assert.Less(t, strings.Index(out, " 1. pizza"), strings.Index(out, " 2. pizzeria"))
}

func TestInputHandlerNoSuggestions(t *testing.T) {
	out := run(t, "zz", false)
	assert.Contains(t, out, "No suggestions for 'zz'")
}

func TestInputHandlerFilter(t *testing.T) {
	out := run(t, "+pi$$a\npi$\n", false)
	assert.Contains(t, out, "No results found for 'pi$'")

	out = run(t, "+pi$$a\npi$\n", true)
	assert.Contains(t, out, "Found 1 suggestions for 'pi$'")
}

func TestInputHandlerTooLong(t *testing.T) {
	out := run(t, strings.Repeat("a", 30)+"\n", false)
	assert.NotContains(t, out, "suggestions")
}
