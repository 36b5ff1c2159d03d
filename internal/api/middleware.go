package api

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/replout/internal/display"
)

// AuthMiddleware accepts requests carrying the replout API key as a Bearer
// token.
func AuthMiddleware(apiKey string, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				jsonError(w, "missing authorization", http.StatusUnauthorized)
				return
			}
			if subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
				log.Warn("rejected api key", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
				jsonError(w, "invalid api key", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type renderNoteKey struct{}

// renderNote collects what a handler rendered so the request log can report
// it.
type renderNote struct {
	kind      display.Kind
	evalError bool
}

// noteRender records the node a handler produced. It is a no-op outside
// RequestLogger.
func noteRender(ctx context.Context, kind display.Kind, isError bool) {
	if n, ok := ctx.Value(renderNoteKey{}).(*renderNote); ok {
		n.kind, n.evalError = kind, isError
	}
}

// RequestLogger logs each request, including the kind of display node it
// rendered, if any.
func RequestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			note := &renderNote{}
			sw := &statusWriter{ResponseWriter: w, status: 200}
			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), renderNoteKey{}, note)))

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", sw.status,
				"request_id", middleware.GetReqID(r.Context()),
				"duration_us", time.Since(start).Microseconds(),
			}
			if note.kind != "" {
				attrs = append(attrs, "node_kind", string(note.kind), "eval_error", note.evalError)
			}
			log.Info("request", attrs...)
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
