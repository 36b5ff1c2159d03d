package transform

import "encoding/json"

// JSONResult is the outcome of ParseJSON: either Value or Message is
// meaningful, as reported by OK.
type JSONResult struct {
	Value   any
	Message string
	OK      bool
}

// ParseJSON strictly parses text. Failures are reported in Message rather
// than returned as an error.
func ParseJSON(text string) JSONResult {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		return JSONResult{Message: err.Error()}
	}
	return JSONResult{Value: v, OK: true}
}
