package http

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"farmhub/internal/cache"
	"farmhub/internal/core"
	"farmhub/internal/loader"
	"farmhub/internal/log"
	"farmhub/internal/middleware/ratelimit"
	"farmhub/internal/middleware/security"
	"farmhub/internal/middleware/trace"
	"farmhub/internal/services"
)

const resultCacheSize = 256

// Deps are the collaborators the server reads and writes through.
type Deps struct {
	Services *services.Services
	Loader   *loader.Loader
	// Logger defaults to an info-level text logger.
	Logger *log.Logger
}

type Options struct {
	RateLimitPerMinute int
	// CacheTTL bounds how long derived lists are reused; 0 disables caching.
	CacheTTL       time.Duration
	AllowedOrigins []string
	// Now overrides the clock used for overdue tasks and reporting periods.
	Now func() time.Time
}

type Server struct {
	http.Server
	svc    *services.Services
	loader *loader.Loader
	logger *log.Logger
	sl     *log.StructuredLogger
	now    func() time.Time

	// results memoizes derived lists until the next write. resultsGen
	// counts purges so a load that raced a write is not stored.
	resultsMu    sync.Mutex
	resultsGen   uint64
	results      *cache.LRUCache[any]
	cacheManager *cache.Manager

	rateLimiter *ratelimit.Limiter
	detector    *security.Detector
	trace       *trace.Middleware

	metrics      appMetrics
	shutdownOnce sync.Once
}

type appMetrics struct {
	started     time.Time
	mutations   atomic.Int64
	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Deps, opts Options) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		svc:          deps.Services,
		loader:       deps.Loader,
		logger:       logger,
		sl:           log.NewStructuredLogger(logger),
		now:          now,
		results:      cache.NewLRUCache[any](resultCacheSize, opts.CacheTTL),
		cacheManager: cache.NewManager(),
		rateLimiter:  ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: opts.RateLimitPerMinute}),
		detector:     security.NewDetector(),
	}
	s.metrics.started = time.Now()
	s.trace = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	if opts.CacheTTL > 0 {
		s.cacheManager.Register(s.results)
		s.cacheManager.StartCleanup(opts.CacheTTL)
	}

	mux := http.NewServeMux()
	s.routes(mux)

	headers := security.DefaultHeadersConfig()
	headers.AllowedOrigins = opts.AllowedOrigins

	var handler http.Handler = mux
	handler = s.withRateLimit(handler)
	handler = s.withProbeDetection(handler)
	handler = security.NewHeadersMiddleware(headers).Middleware(handler)
	handler = s.trace.Middleware(handler)

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

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	registerRecords[core.Farm, *core.Farm, core.FarmPatch](s, mux, "farms", s.svc.Farms, s.handleListFarms)
	registerRecords[core.Crop, *core.Crop, core.CropPatch](s, mux, "crops", s.svc.Crops, s.handleListCrops)
	registerRecords[core.Task, *core.Task, core.TaskPatch](s, mux, "tasks", s.svc.Tasks, s.handleListTasks)
	registerRecords[core.Transaction, *core.Transaction, core.TransactionPatch](s, mux, "transactions", s.svc.Transactions, s.handleListTransactions)
	mux.HandleFunc("POST /api/tasks/{id}/toggle", s.handleToggleTask)

	mux.HandleFunc("GET /api/weather", s.handleWeather)
	mux.HandleFunc("GET /api/weather/insights", s.handleWeatherInsights)
	mux.HandleFunc("GET /api/weather/{date}", s.handleWeatherDay)

	mux.HandleFunc("GET /api/finance/stats", s.handleFinanceStats)
	mux.HandleFunc("GET /api/finance/categories", s.handleFinanceCategories)
	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
}

// withRateLimit limits writes only; reads are served from cache.
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	limited := s.rateLimiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
		ErrorResponse(http.StatusTooManyRequests, "rate limit exceeded, try again later").Write(w)
	})(next)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			limited.ServeHTTP(w, r)
		}
	})
}

func (s *Server) withProbeDetection(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reason := s.detector.Suspicious(r); reason != "" {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(), "Suspicious request",
				"reason", reason, log.FieldClientIP, s.detector.ExtractClientIP(r), log.FieldPath, r.URL.Path)
		}
		next.ServeHTTP(w, r)
	})
}

// cached returns the memoized result for key, computing it with load on a miss.
func cached[T any](s *Server, key string, load func() (T, error)) (T, error) {
	s.resultsMu.Lock()
	gen := s.resultsGen
	v, ok := s.results.Get(key)
	s.resultsMu.Unlock()
	if ok {
		if hit, ok := v.(T); ok {
			s.metrics.cacheHits.Add(1)
			return hit, nil
		}
	}
	s.metrics.cacheMisses.Add(1)

	out, err := load()
	if err != nil {
		return out, err
	}
	s.resultsMu.Lock()
	if s.resultsGen == gen {
		s.results.Set(key, out)
	}
	s.resultsMu.Unlock()
	return out, nil
}

// invalidate drops every derived result after a write.
func (s *Server) invalidate() {
	s.resultsMu.Lock()
	s.resultsGen++
	s.results.Purge()
	s.resultsMu.Unlock()
	s.metrics.mutations.Add(1)
}

// Shutdown stops the background cleanup loops, then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		s.rateLimiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
