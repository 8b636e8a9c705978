package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"donorcheck/internal/eligibility/artifacts"
	"donorcheck/internal/eligibility/cache"
	eligibilityhandler "donorcheck/internal/eligibility/handler"
	eligibilitymetrics "donorcheck/internal/eligibility/metrics"
	"donorcheck/internal/eligibility/service"
	"donorcheck/internal/platform/config"
	"donorcheck/internal/platform/httpserver"
	"donorcheck/internal/platform/logger"
	"donorcheck/internal/platform/metrics"
	"donorcheck/internal/platform/redis"
	httptransport "donorcheck/internal/transport/http"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Inference logic lives in internal/eligibility.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	svc, cleanup := buildService(ctx, cfg, log, eligibilitymetrics.New(reg))
	defer cleanup()

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:   log,
		Metrics:  metrics.New(reg),
		Gatherer: reg,
	}, eligibilityhandler.New(svc, log))

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting donorcheck", "addr", cfg.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down")
	case err := <-errCh:
		log.Error("server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}

// buildService loads artifacts and the optional cache. Neither failure is
// fatal: missing artifacts leave the service degraded and a missing cache
// only costs recomputation.
func buildService(ctx context.Context, cfg config.Server, log *slog.Logger, m *eligibilitymetrics.Metrics) (*service.Service, func()) {
	opts := []service.Option{
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithConfig(service.Config{
			BatchWorkers:             cfg.Inference.BatchWorkers,
			MaxBatchSize:             cfg.Inference.MaxBatchSize,
			NormalizeBatchCategories: cfg.Inference.NormalizeBatchCategories,
		}),
	}
	if !cfg.Inference.NormalizeBatchCategories {
		log.Warn("batch category normalization disabled: batch records must use canonical category values")
	}

	bundle, err := artifacts.Load(ctx, cfg.ArtifactsDir)
	if err != nil {
		log.Error("failed to load model artifacts, serving in degraded mode",
			"dir", cfg.ArtifactsDir,
			"error", err,
		)
		opts = append(opts, service.WithLoadError(err))
	} else {
		log.Info("model artifacts loaded",
			"dir", cfg.ArtifactsDir,
			"version", bundle.Version(),
			"model_type", bundle.Model().Type(),
			"features", bundle.Schema().Len(),
		)
	}

	cleanup := func() {}
	client, err := redis.New(ctx, cfg.Redis)
	switch {
	case err != nil:
		log.Warn("prediction cache disabled", "error", err)
	case client != nil:
		opts = append(opts, service.WithCache(cache.NewRedis(client.Client, cfg.Inference.CacheTTL)))
		cleanup = func() { _ = client.Close() }
		log.Info("prediction cache enabled", "ttl", cfg.Inference.CacheTTL.String())
	}

	return service.New(bundle, opts...), cleanup
}
