/*
Package server exposes the completion engine to host applications.

Two transports are provided: a msgpack IPC stream, meant for editors and
other processes that spawn the binary, and a small HTTP handler.

# IPC

The IPC server reads a stream of msgpack maps from stdin and writes msgpack
maps to stdout. Each message carries an ID chosen by the client.

Completion requests look like this:

	{"id": "req_001", "p": "piz", "l": 5}

The server responds with ranked suggestions and the time taken in
microseconds:

	{"id": "req_001", "s": [{"w": "pizza", "r": 1}, {"w": "pizzeria", "r": 2}], "c": 2, "t": 145}

Requests are answered concurrently, but a completion request supersedes any
completion still in flight. Superseded requests get no response at all, so a
client only ever sees the answer for the last thing typed.

Control requests carry an action instead of a prefix:

	{"id": "ctl_001", "action": "health"}
	{"id": "ctl_002", "action": "stats"}

Malformed messages and invalid prefixes are answered with a CompletionError.

# HTTP

	GET /api/autocomplete?q=piz&limit=5

always answers 200 with {"data": [...]}; lookup problems degrade to fewer or
no suggestions.
*/
package server

// CompletionRequest - minimal completion request. Action is empty for
// completions.
type CompletionRequest struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`
	Prefix string `msgpack:"p"`
	Limit  int    `msgpack:"l,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word string `msgpack:"w"`
	Rank uint16 `msgpack:"r"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// StatusResponse answers control actions.
type StatusResponse struct {
	ID     string         `msgpack:"id"`
	Status string         `msgpack:"status"`
	Stats  map[string]int `msgpack:"stats,omitempty"`
}

// CompletionError holds basic error information for completion requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}

// HTTPResponse is the JSON body of the autocomplete endpoint.
type HTTPResponse struct {
	Data []string `json:"data"`
}
