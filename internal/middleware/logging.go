package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/tidyhouse/internal/auth"
)

// statusRecorder captures the response status and the innermost request
// context, so that values added by later middleware can be logged.
type statusRecorder struct {
	http.ResponseWriter
	status int
	ctx    context.Context
}

type recorderKey struct{}

func withRecorder(ctx context.Context, rec *statusRecorder) context.Context {
	return context.WithValue(ctx, recorderKey{}, rec)
}

// noteContext records ctx on the enclosing request logger, if any.
func noteContext(ctx context.Context) {
	if rec, ok := ctx.Value(recorderKey{}).(*statusRecorder); ok {
		rec.ctx = ctx
	}
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController and the websocket upgrade reach the
// underlying writer.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger logs one line per request. Server errors log at error level
// and client errors at warn.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK, ctx: r.Context()}

			next.ServeHTTP(rec, r.WithContext(withRecorder(r.Context(), rec)))

			duration := time.Since(start)
			attrs := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", duration),
				slog.String("remote", RealIP(r)),
			}
			if owner := auth.OwnerID(rec.ctx); owner != "" {
				attrs = append(attrs, slog.String("owner", owner))
			}

			switch {
			case rec.status >= 500:
				logger.LogAttrs(r.Context(), slog.LevelError, "request", attrs...)
			case rec.status >= 400:
				logger.LogAttrs(r.Context(), slog.LevelWarn, "request", attrs...)
			default:
				logger.LogAttrs(r.Context(), slog.LevelInfo, "request", attrs...)
			}
		})
	}
}
