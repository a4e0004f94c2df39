package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pocketbase/pocketbase/core"
	"go.uber.org/zap"
)

type contextKey string

const LoggerKey contextKey = "requestLogger"

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-Id"

// LoggerFrom extracts the request-scoped logger, falling back to base.
func LoggerFrom(r *http.Request, base *zap.Logger) *zap.Logger {
	if val, ok := r.Context().Value(LoggerKey).(*zap.Logger); ok {
		return val
	}
	return base
}

// RequestLoggerMiddleware tags each request with an id (reusing an incoming
// X-Request-Id), stores a logger carrying it in the request context and logs
// the outcome once the handler chain returns.
func RequestLoggerMiddleware(logger *zap.Logger) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		id := e.Request.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		e.Response.Header().Set(RequestIDHeader, id)

		reqLogger := logger.With(
			zap.String("request_id", id),
			zap.String("method", e.Request.Method),
			zap.String("path", e.Request.URL.Path),
		)
		ctx := context.WithValue(e.Request.Context(), LoggerKey, reqLogger)
		e.Request = e.Request.WithContext(ctx)

		start := time.Now()
		err := e.Next()
		reqLogger.Debug("request handled",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return err
	}
}
