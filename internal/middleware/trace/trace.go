// Package trace assigns request ids, logs every request and turns handler
// panics into 500 responses.
package trace

import (
	"context"
	"net/http"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"spendlog/internal/log"
)

// ContextKey type for context keys
type ContextKey string

const (
	// RequestIDKey is the context key for request ID
	RequestIDKey ContextKey = "request_id"

	// RequestIDHeader is echoed on every response.
	RequestIDHeader = "X-Request-ID"
)

// Middleware handles request tracing and logging
type Middleware struct {
	logger    *log.Logger
	extractIP func(*http.Request) string

	total    atomic.Int64
	failures atomic.Int64
	panics   atomic.Int64
}

// Metrics tracks request counts since start.
type Metrics struct {
	TotalRequests  int64
	ServerFailures int64
	Panics         int64
}

// NewMiddleware creates a new trace middleware
func NewMiddleware(logger *log.Logger, extractIP func(*http.Request) string) *Middleware {
	if logger == nil {
		logger = log.Default(log.ComponentTrace)
	}
	return &Middleware{
		logger:    logger.WithComponent(log.ComponentHTTP),
		extractIP: extractIP,
	}
}

// Handler wraps next with request id assignment, logging and recovery.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.total.Add(1)

		clientIP := ""
		if m.extractIP != nil {
			clientIP = m.extractIP(r)
		}

		requestID := requestIDFrom(r)
		w.Header().Set(RequestIDHeader, requestID)

		logger := m.logger.With(log.FieldRequestID, requestID)
		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
		ctx = log.NewContext(ctx, logger)
		r = r.WithContext(ctx)

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		defer func() {
			if rec := recover(); rec != nil {
				m.panics.Add(1)
				logger.ErrorContext(ctx, "Handler panicked",
					"panic", rec,
					"stack", string(debug.Stack()),
					log.FieldMethod, r.Method,
					log.FieldPath, r.URL.Path)
				if !rw.wroteHeader {
					http.Error(rw, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				} else {
					rw.statusCode = http.StatusInternalServerError
				}
			}

			duration := time.Since(start)
			if rw.statusCode >= 500 {
				m.failures.Add(1)
			}

			args := log.NewFields().
				WithHTTPResponse(rw.statusCode, duration.Milliseconds(), rw.statusCode < 400).
				ToSlice()
			args = append(args,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldQuery, r.URL.RawQuery,
				log.FieldClientIP, clientIP,
				log.FieldDurationHuman, duration.String())

			switch {
			case rw.statusCode >= 500:
				logger.ErrorContext(ctx, "HTTP request completed", args...)
			case rw.statusCode >= 400:
				logger.WarnContext(ctx, "HTTP request completed", args...)
			default:
				logger.InfoContext(ctx, "HTTP request completed", args...)
			}
		}()

		next.ServeHTTP(rw, r)
	})
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.wroteHeader {
		return
	}
	rw.statusCode = code
	rw.wroteHeader = true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.wroteHeader {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

// requestIDFrom reuses a well-formed incoming id, otherwise mints one.
func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get(RequestIDHeader); id != "" {
		if _, err := uuid.Parse(id); err == nil {
			return id
		}
	}
	return uuid.NewString()
}

// GetRequestID extracts the request ID from context
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// GetMetrics returns current metrics
func (m *Middleware) GetMetrics() Metrics {
	return Metrics{
		TotalRequests:  m.total.Load(),
		ServerFailures: m.failures.Load(),
		Panics:         m.panics.Load(),
	}
}
