package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/noah-isme/toko-pricing/internal/app"
	"github.com/noah-isme/toko-pricing/internal/cache"
	"github.com/noah-isme/toko-pricing/internal/config"
	"github.com/noah-isme/toko-pricing/internal/health"
	"github.com/noah-isme/toko-pricing/internal/obs"
	"github.com/noah-isme/toko-pricing/internal/quote"
	"github.com/noah-isme/toko-pricing/internal/resilience"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("env", cfg.AppEnv).Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := obs.InitTracer(ctx, obs.TracingConfig{
		Enabled:       cfg.TracingEnabled,
		ServiceName:   "toko-pricing",
		Endpoint:      cfg.OTLPEndpoint,
		SamplingRatio: cfg.TracingSampling,
		Environment:   cfg.AppEnv,
	})
	if err != nil {
		logger.Error().Err(err).Msg("initialise tracing")
		cfg.TracingEnabled = false
	} else {
		defer func() {
			if err := shutdownTracer(context.Background()); err != nil {
				logger.Error().Err(err).Msg("shutdown tracer")
			}
		}()
	}

	pricingData, err := app.LoadPricing(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("load pricing data")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	redisClient, err := app.ConnectRedis(connectCtx, cfg)
	cancel()
	if err != nil {
		logger.Fatal().Err(err).Msg("connect redis")
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error().Err(err).Msg("close redis")
			}
		}()
	} else {
		logger.Warn().Msg("REDIS_URL not set: quote cache disabled, rate limiting is per process")
	}

	var (
		registry    *prometheus.Registry
		httpMetrics *obs.HTTPMetrics
		pricingObs  *obs.PricingMetrics
		deps        = routerDeps{cfg: cfg, logger: logger, tracing: cfg.TracingEnabled}
	)
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		httpMetrics = obs.NewHTTPMetrics(cfg.MetricsNamespace, nil, registry)
		pricingObs = obs.NewPricingMetrics(cfg.MetricsNamespace, registry)
		deps.gatherer = registry
		deps.httpMetrics = httpMetrics
	}

	breaker := resilience.NewBreaker(5, 0.5, 30*time.Second).WithTarget("redis").WithLogger(logger)
	if registry != nil {
		breaker.WithMetrics(resilience.NewMetrics(cfg.MetricsNamespace, registry))
	}

	deps.quotes = &quote.Service{
		Engine:  pricingData.Engine,
		Catalog: pricingData.Catalog,
		Coupons: pricingData.Coupons,
		Cache:   cache.New(redisClient, cfg.QuoteCacheTTL, "pricing").WithBreaker(breaker),
		Metrics: pricingObs,
		Logger:  logger,
	}
	deps.limiter = app.NewLimiter(redisClient)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           newRouter(deps),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server starting")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("server exited unexpectedly")
		}
	case <-ctx.Done():
		health.SetReady(false)
		logger.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown failed")
		}
	}
}
