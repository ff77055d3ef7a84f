package logging

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// ContextKey is a type for context keys
type ContextKey string

const (
	// LoggerContextKey is the key for the logger in the request context
	LoggerContextKey ContextKey = "logger"
	// fieldsContextKey holds attributes added by handlers further down the chain
	fieldsContextKey ContextKey = "log_fields"
)

// requestFields collects attributes learned while the request is served, such
// as the caller's user ID, so the completion line can carry them.
type requestFields struct {
	mu    sync.Mutex
	attrs []any
}

// RequestLogger logs one line when a request starts (debug) and one when it
// completes, at a level picked from the response status.
func RequestLogger(logger *Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			reqLogger := logger.WithFields(map[string]any{
				"request_id": middleware.GetReqID(r.Context()),
				"method":     r.Method,
				"path":       r.URL.Path,
				"remote_ip":  r.RemoteAddr,
			})
			reqLogger.Debug("request started")

			fields := &requestFields{}
			ctx := WithLogger(r.Context(), reqLogger)
			ctx = context.WithValue(ctx, fieldsContextKey, fields)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			fields.mu.Lock()
			args := append([]any{
				"status", status,
				"bytes", ww.BytesWritten(),
				"duration_ms", time.Since(start).Milliseconds(),
			}, fields.attrs...)
			fields.mu.Unlock()

			reqLogger.Log(r.Context(), level, "request completed", args...)
		})
	}
}

// AddRequestField attaches key=value to the completion line of the request
// ctx belongs to. It is a no-op outside RequestLogger.
func AddRequestField(ctx context.Context, key string, value any) {
	fields, ok := ctx.Value(fieldsContextKey).(*requestFields)
	if !ok {
		return
	}
	fields.mu.Lock()
	fields.attrs = append(fields.attrs, key, value)
	fields.mu.Unlock()
}

// WithLogger stores the logger in ctx
func WithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, LoggerContextKey, logger)
}

// GetLoggerFromContext retrieves the logger from the request context
func GetLoggerFromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(LoggerContextKey).(*Logger); ok {
		return logger
	}
	return &Logger{Logger: slog.Default()}
}
