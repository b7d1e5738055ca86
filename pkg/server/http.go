package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/bastiangx/typeahead/pkg/suggest"
	"github.com/charmbracelet/log"
)

// NewHTTPHandler serves GET /api/autocomplete?q=<query>&limit=<n>.
// maxLimit caps the requested limit when positive.
func NewHTTPHandler(completer suggest.ICompleter, maxLimit int) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/autocomplete", func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		query := r.URL.Query().Get("q")

		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit < 0 {
			limit = 0
		}
		if maxLimit > 0 && limit > maxLimit {
			limit = maxLimit
		}

		words := completer.Complete(r.Context(), query, limit)
		log.Debugf("GET autocomplete q='%s' -> %d results in %v", query, len(words), time.Since(start))

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(HTTPResponse{Data: words}); err != nil {
			log.Errorf("Writing HTTP response: %v", err)
		}
	})
	return mux
}
