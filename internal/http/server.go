package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/middleware/ratelimit"
	"fintrack/internal/middleware/security"
	"fintrack/internal/middleware/trace"
	"fintrack/internal/services"
)

// UserIDHeader carries the caller's identity. Authentication happens
// upstream; the API only scopes data by this value.
const UserIDHeader = "X-User-ID"

type userKey struct{}

// UserID returns the caller identity stored by the identity middleware.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userKey{}).(string)
	return id
}

// Services groups the use cases the API exposes.
type Services struct {
	Categories   *services.CategoryService
	Wallets      *services.WalletService
	Transactions *services.TransactionService
	Budgets      *services.BudgetService
	Savings      *services.SavingsService
	Dues         *services.DueService
	Dashboard    *services.DashboardService
}

type Options struct {
	Addr               string
	RateLimitPerMinute int
	TrustedProxies     []string
	BlockSuspicious    bool
	// Checks are run by /readyz, keyed by dependency name.
	Checks map[string]func(context.Context) error
	// CacheStats reports the category cache for /metrics; optional.
	CacheStats func() cache.Stats
	Logger     *log.Logger
	// Now overrides the clock used for default periods, for tests.
	Now func() time.Time
}

type Server struct {
	http.Server

	svc        Services
	checks     map[string]func(context.Context) error
	cacheStats func() cache.Stats
	now        func() time.Time
	started    time.Time
	logger     *log.Logger

	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

// NewServer wires the middleware chain and routes, returning a ready-to-run
// http.Server. Call Shutdown to stop it and its background cleanup.
func NewServer(svc Services, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	base := logger
	logger = logger.WithComponent(log.ComponentHTTP)
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		svc:        svc,
		checks:     opts.Checks,
		cacheStats: opts.CacheStats,
		now:        now,
		started:    time.Now(),
		logger:     logger,
		detector:   security.NewDetector(),
		limiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: opts.RateLimitPerMinute,
		}),
	}
	for _, cidr := range opts.TrustedProxies {
		if err := s.detector.AddTrustedProxy(cidr); err != nil {
			logger.Warn("Ignoring invalid trusted proxy", "cidr", cidr, log.FieldError, err)
		}
	}
	s.tracer = trace.NewMiddleware(s.detector.ExtractClientIP, logger)

	api := http.NewServeMux()
	s.routes(api)

	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
			log.FieldClientIP, s.detector.ExtractClientIP(r),
			log.FieldPath, r.URL.Path)
		TooManyRequestsError().Write(w)
	})(requireUser(jsonFallback(api)))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)
	mux.Handle("/api/", limited)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		NotFoundError("route not found").Write(w)
	})

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var handler http.Handler = mux
	handler = s.detector.Middleware(opts.BlockSuspicious)(handler)
	handler = headers.Middleware(handler)
	handler = s.tracer.Middleware(handler)
	handler = log.Middleware(base)(handler)

	s.Server = http.Server{
		Addr:           opts.Addr,
		Handler:        handler,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 64 << 10,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /api/categories/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /api/wallets", s.handleListWallets)
	mux.HandleFunc("POST /api/wallets", s.handleCreateWallet)
	mux.HandleFunc("GET /api/wallets/{id}", s.handleGetWallet)
	mux.HandleFunc("PUT /api/wallets/{id}", s.handleUpdateWallet)
	mux.HandleFunc("DELETE /api/wallets/{id}", s.handleDeleteWallet)
	mux.HandleFunc("POST /api/wallets/{id}/reconcile", s.handleReconcileWallet)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transactions/type/{type}", s.handleTransactionsByType)
	mux.HandleFunc("GET /api/transactions/wallet/{id}", s.handleTransactionsByWallet)
	mux.HandleFunc("GET /api/transactions/category/{id}", s.handleTransactionsByCategory)
	mux.HandleFunc("GET /api/transactions/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/budgets", s.handleListBudgets)
	mux.HandleFunc("POST /api/budgets", s.handleCreateBudget)
	mux.HandleFunc("GET /api/budgets/{id}", s.handleGetBudget)
	mux.HandleFunc("PUT /api/budgets/{id}", s.handleUpdateBudget)
	mux.HandleFunc("DELETE /api/budgets/{id}", s.handleDeleteBudget)

	mux.HandleFunc("GET /api/savings", s.handleListSavings)
	mux.HandleFunc("POST /api/savings", s.handleCreateSavings)
	mux.HandleFunc("GET /api/savings/{id}", s.handleGetSavings)
	mux.HandleFunc("PUT /api/savings/{id}", s.handleUpdateSavings)
	mux.HandleFunc("DELETE /api/savings/{id}", s.handleDeleteSavings)
	mux.HandleFunc("POST /api/savings/{id}/transactions", s.handleAddSavingsTransaction)

	mux.HandleFunc("GET /api/dues", s.handleListDues)
	mux.HandleFunc("POST /api/dues", s.handleCreateDue)
	mux.HandleFunc("GET /api/dues/{id}", s.handleGetDue)
	mux.HandleFunc("PUT /api/dues/{id}", s.handleUpdateDue)
	mux.HandleFunc("DELETE /api/dues/{id}", s.handleDeleteDue)
	mux.HandleFunc("POST /api/dues/{id}/transactions", s.handleAddDueTransaction)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
}

var routeMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// jsonFallback serves matched requests through mux and answers the rest with
// the JSON envelope: 405 plus Allow when the path exists under another
// method, 404 otherwise.
func jsonFallback(mux *http.ServeMux) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, pattern := mux.Handler(r); pattern != "" {
			mux.ServeHTTP(w, r)
			return
		}
		var allowed []string
		for _, method := range routeMethods {
			alt := r.Clone(r.Context())
			alt.Method = method
			if _, pattern := mux.Handler(alt); pattern != "" {
				allowed = append(allowed, method)
			}
		}
		if len(allowed) == 0 {
			NotFoundError("route not found").Write(w)
			return
		}
		MethodNotAllowedError(allowed).Write(w)
	})
}

// requireUser rejects requests without an identity and stores it, along with
// a logger carrying it, in the request context.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" || len(userID) > 128 {
			UnauthorizedError("missing user identity").Write(w)
			return
		}
		ctx := context.WithValue(r.Context(), userKey{}, userID)
		ctx = log.WithLogger(ctx, log.FromContext(ctx).With(log.FieldUserID, userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Shutdown stops the rate limiter cleanup and the HTTP server. Only the
// first call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

// period reads ?month&year, defaulting to the current month.
func (s *Server) period(r *http.Request) (core.Period, error) {
	return ParseMonthParams(r.URL.Query(), s.now())
}
