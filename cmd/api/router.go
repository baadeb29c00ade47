package main

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/health"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/quote"
	"github.com/noah-isme/toko-pricing/internal/ratelimit"
	"github.com/noah-isme/toko-pricing/internal/security"
)

type routerDeps struct {
	cfg         *config.Config
	logger      zerolog.Logger
	quotes      *quote.Service
	limiter     ratelimit.Limiter
	httpMetrics *obs.HTTPMetrics
	gatherer    prometheus.Gatherer
	tracing     bool
}

func newRouter(d routerDeps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	if d.tracing {
		r.Use(obs.TracingMiddleware("toko-pricing"))
	}
	if d.httpMetrics != nil {
		r.Use(obs.HTTPObs{Metrics: d.httpMetrics}.Middleware)
	}
	r.Use(obs.RequestLogger{Logger: d.logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: d.cfg.AppEnv == "production"}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(d.cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		MaxAge:         300,
	}))

	if d.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.gatherer, promhttp.HandlerOpts{}))
	}

	healthHandler := health.Handler{Checker: d.quotes}
	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)

	quoteHandler := quote.NewHandler(d.quotes)
	limit := ratelimit.Handler{
		Limiter: d.limiter,
		Config: ratelimit.Config{
			Key:    ratelimit.ByClientIP("quotes"),
			Window: time.Minute,
			Max:    d.cfg.QuoteRateLimit,
		},
		OnError: func(err error) {
			d.logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}
	var quoteMW []func(http.Handler) http.Handler
	if d.cfg.QuoteRateLimit > 0 {
		quoteMW = append(quoteMW, limit.Middleware)
	}
	r.Route("/api/v1", func(v chi.Router) {
		v.Use(security.Headers{Enable: true, NoStore: true}.Middleware)
		quoteHandler.Routes(v, quoteMW...)
	})
	return r
}

func allowedOrigins(cfg *config.Config) []string {
	if len(cfg.CORSAllowedOrigins) == 0 {
		return []string{"*"}
	}
	return cfg.CORSAllowedOrigins
}
