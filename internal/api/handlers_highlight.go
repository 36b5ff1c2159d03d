package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dgallion1/replout/internal/display"
	"github.com/dgallion1/replout/internal/transform"
	"github.com/dgallion1/replout/internal/value"
)

type highlightRequest struct {
	// Source is the JSON text of the evaluated value.
	Source string `json:"source"`
	// Type optionally forces a display strategy, e.g. "buffer".
	Type string `json:"type"`
	// Error is diagnostic text from a failed evaluation. When set, Source
	// is ignored.
	Error string `json:"error"`
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var req highlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	var tag value.Tag
	if req.Type != "" {
		t, ok := value.ParseTag(req.Type)
		if !ok {
			jsonError(w, fmt.Sprintf("unknown type %q", req.Type), http.StatusBadRequest)
			return
		}
		tag = t
	}

	start := time.Now()
	out := s.highlight(req, tag)
	if s.stats != nil {
		s.stats.Record(string(out.FormattedOutput.Kind()), time.Since(start))
	}
	noteRender(r.Context(), out.FormattedOutput.Kind(), out.Error)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.log.Error("encode highlight response", "error", err)
	}
}

func (s *Server) highlight(req highlightRequest, tag value.Tag) transform.Output {
	if req.Error != "" {
		return s.tr.Highlight(transform.None{}, req.Error)
	}

	parsed := transform.ParseJSON(req.Source)
	if !parsed.OK {
		return s.tr.Highlight(transform.None{}, "SyntaxError: "+parsed.Message)
	}
	if tag == "" {
		return s.tr.Highlight(transform.Some{Value: parsed.Value}, "")
	}

	n, ok := s.tr.DispatchAs(parsed.Value, tag)
	if !ok {
		s.log.Debug("type override did not apply", "type", tag)
		n = display.Raw{Value: parsed.Value}
	}
	return transform.Output{FormattedOutput: n}
}

func (s *Server) handleParseJSON(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		jsonError(w, "failed to read body: "+err.Error(), http.StatusRequestEntityTooLarge)
		return
	}

	res := transform.ParseJSON(string(body))
	w.Header().Set("Content-Type", "application/json")
	if !res.OK {
		json.NewEncoder(w).Encode(map[string]string{"error_message": res.Message})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{"parsed_value": res.Value})
}

func (s *Server) handleSource(w http.ResponseWriter, r *http.Request) {
	module := r.URL.Query().Get("module")
	if module == "" {
		jsonError(w, "module query parameter is required", http.StatusBadRequest)
		return
	}

	loc := s.tr.LocateSource(module, s.cfg.ModulePaths)
	noteRender(r.Context(), loc.Kind(), false)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(loc)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
