package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	appmw "employee_roster/internal/middleware"
	"employee_roster/internal/utils/middleware"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/unrolled/secure"
	"go.uber.org/zap"
)

const readinessTimeout = 2 * time.Second

// Check reports whether a dependency is reachable.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type Options struct {
	Production     bool
	RequestTimeout time.Duration
	AllowedOrigins []string
}

type Deps struct {
	Logger   *zap.Logger
	Verifier middleware.TokenVerifier
	GraphQL  http.Handler
	// Idempotency is nil when no Redis is configured.
	Idempotency *appmw.RedisCache
	Checks      []Check
}

func NewRouter(opts Options, deps Deps) http.Handler {
	timeout := 30 * time.Second
	if opts.RequestTimeout > 0 {
		timeout = opts.RequestTimeout
	}

	r := chi.NewRouter()
	r.Use(
		chimw.RealIP,
		chimw.RequestID,
		appmw.Tracing(deps.Logger),
		chimw.Recoverer,
		chimw.Timeout(timeout),
		secureHeaders(opts.Production, deps.Logger),
		corsHandler(opts.AllowedOrigins).Handler,
	)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(deps.Checks, deps.Logger))

	r.Group(func(r chi.Router) {
		r.Use(middleware.IdentityMiddleware(deps.Verifier, deps.Logger))
		if deps.Idempotency != nil {
			r.Use(deps.Idempotency.Idempotency)
		}
		r.Method(http.MethodPost, "/graphql", deps.GraphQL)
	})

	return r
}

func secureHeaders(production bool, log *zap.Logger) func(http.Handler) http.Handler {
	sm := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
		SSLRedirect:        production,
		SSLProxyHeaders:    map[string]string{"X-Forwarded-Proto": "https"},
		IsDevelopment:      !production,
	})
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := sm.Process(w, r); err != nil {
				log.Warn("secure headers blocked request", zap.Error(err))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func corsHandler(origins []string) *cors.Cors {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", appmw.IdempotencyKeyHeader},
		ExposedHeaders: []string{appmw.IdempotentReplayedHeader, chimw.RequestIDHeader},
		MaxAge:         300,
	})
}

func readiness(checks []Check, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for _, c := range checks {
			if err := c.Ping(ctx); err != nil {
				log.Warn("readiness check failed", zap.String("check", c.Name), zap.Error(err))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable", "failed": c.Name})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
