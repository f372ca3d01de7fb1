package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"spendlog/internal/cache"
	"spendlog/internal/log"
	"spendlog/internal/middleware/ratelimit"
	"spendlog/internal/middleware/security"
	"spendlog/internal/middleware/trace"
	"spendlog/internal/services"
)

// Server exposes the ledger as a JSON API.
type Server struct {
	http.Server

	ledger     *services.Ledger
	chartCache cache.Cache[[]byte]
	limiter    *ratelimit.Limiter
	tracer     *trace.Middleware
	clientIP   *security.ClientIPResolver
	now        func() time.Time
	logger     *log.Logger
	started    time.Time

	shutdownOnce sync.Once
}

type Option func(*Server)

// WithChartCache caches rendered chart images.
func WithChartCache(c cache.Cache[[]byte]) Option {
	return func(s *Server) { s.chartCache = c }
}

// WithClock overrides the reference instant used for week and month filters.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l.WithComponent(log.ComponentHTTP) }
}

// WithRateLimit replaces the default write limiter.
func WithRateLimit(cfg ratelimit.Config) Option {
	return func(s *Server) { s.limiter = ratelimit.NewLimiter(cfg) }
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, ledger *services.Ledger, opts ...Option) *Server {
	s := &Server{
		ledger:   ledger,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		clientIP: security.NewClientIPResolver(),
		now:      time.Now,
		logger:   log.Default(log.ComponentHTTP),
		started:  time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tracer = trace.NewMiddleware(s.logger, s.clientIP.ClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /api/expenses", s.handleListExpenses)
	mux.HandleFunc("POST /api/expenses", s.handleCreateExpense)
	mux.HandleFunc("PUT /api/expenses/{id}", s.handleUpdateExpense)
	mux.HandleFunc("DELETE /api/expenses/{id}", s.handleDeleteExpense)
	mux.HandleFunc("GET /api/summary", s.handleSummary)
	mux.HandleFunc("GET /api/chart.png", s.handleChart)

	var handler http.Handler = mux
	handler = s.limiter.Middleware(s.clientIP.ClientIP, s.onRateLimited)(handler)
	handler = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(handler)
	handler = s.tracer.Handler(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       2 * time.Minute,
	}
	return s
}

// Limiter exposes the write limiter so its cleanup loop can be run.
func (s *Server) Limiter() *ratelimit.Limiter {
	return s.limiter
}

// Shutdown gracefully shuts down the server. Safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.clientIP.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later", trace.GetRequestID(r.Context())).Write(w)
}
