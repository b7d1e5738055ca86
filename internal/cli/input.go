// Package cli handles cmd line input and suggestions for DBG and testing the engine
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bastiangx/typeahead/internal/utils"
	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

var (
	wordStyle  = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#286983", Dark: "#9ccfd8"})
	mutedStyle = lipgloss.NewStyle().Faint(true)
)

// InputHandler reads queries line by line and prints the engine's
// suggestions for each. Lines starting with '+' add a word to the local
// index instead.
type InputHandler struct {
	completer       suggest.ICompleter
	maxPrefixLength int
	suggestLimit    int
	noFilter        bool
	requestCount    int

	in  io.Reader
	out io.Writer
}

// NewInputHandler handles initialization of the InputHandler with basic parameters
func NewInputHandler(completer suggest.ICompleter, maxLength, limit int, noFilter bool, in io.Reader, out io.Writer) *InputHandler {
	return &InputHandler{
		completer:       completer,
		maxPrefixLength: maxLength,
		suggestLimit:    limit,
		noFilter:        noFilter,
		in:              in,
		out:             out,
	}
}

// Start runs the input loop until the input ends or ctx is cancelled.
func (h *InputHandler) Start(ctx context.Context) error {
	fmt.Fprintln(h.out, mutedStyle.Render("type a query and press Enter, '+word' to add a word (Ctrl+D to exit)"))
	reader := bufio.NewReader(h.in)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			h.handleInput(ctx, line)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (h *InputHandler) handleInput(ctx context.Context, line string) {
	h.requestCount++

	if word, ok := strings.CutPrefix(line, "+"); ok {
		h.completer.AddWord(word)
		fmt.Fprintf(h.out, "added %s\n", wordStyle.Render(strings.TrimSpace(word)))
		return
	}

	if h.maxPrefixLength > 0 && utf8.RuneCountInString(line) > h.maxPrefixLength {
		log.Errorf("Prefix too long: %s", line)
		return
	}
	if !h.noFilter && !utils.IsValidInput(line) {
		fmt.Fprintf(h.out, "No results found for '%s'\n", line)
		return
	}

	start := time.Now()
	suggestions := h.completer.Complete(ctx, line, h.suggestLimit)
	elapsed := time.Since(start)
	log.Debugf("Took [ %v ] for query '%s'", elapsed, line)

	if len(suggestions) == 0 {
		fmt.Fprintf(h.out, "No suggestions for '%s'\n", line)
		return
	}

	fmt.Fprintf(h.out, "Found %d suggestions for '%s' %s\n", len(suggestions), line, mutedStyle.Render(elapsed.String()))
	for i, s := range suggestions {
		fmt.Fprintf(h.out, "%2d. %s\n", i+1, wordStyle.Render(s))
	}
}
