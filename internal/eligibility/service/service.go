// Package service runs the inference pipeline for single donors and batches
// against a loaded artifact bundle.
package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"donorcheck/internal/eligibility"
	"donorcheck/internal/eligibility/artifacts"
	"donorcheck/internal/eligibility/features"
	"donorcheck/internal/eligibility/metrics"
	dErrors "donorcheck/pkg/domain-errors"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// ProbabilityCache stores raw classifier probabilities by key. Failures are
// logged and never fail a prediction.
type ProbabilityCache interface {
	Get(ctx context.Context, key string) (float64, bool, error)
	Set(ctx context.Context, key string, p float64) error
}

// Config tunes batch processing.
type Config struct {
	BatchWorkers             int
	MaxBatchSize             int
	NormalizeBatchCategories bool
}

// DefaultConfig processes batches sequentially with normalized categories.
func DefaultConfig() Config {
	return Config{
		BatchWorkers:             1,
		MaxBatchSize:             1000,
		NormalizeBatchCategories: true,
	}
}

// Service scores donor records. A Service with no bundle is degraded: health
// still answers and every prediction fails with model_unavailable.
type Service struct {
	bundle  *artifacts.Bundle
	loadErr error
	cache   ProbabilityCache
	metrics *metrics.Metrics
	logger  *slog.Logger
	config  Config
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithCache(c ProbabilityCache) Option {
	return func(s *Service) {
		s.cache = c
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithConfig(cfg Config) Option {
	return func(s *Service) {
		if cfg.BatchWorkers < 1 {
			cfg.BatchWorkers = 1
		}
		if cfg.MaxBatchSize < 1 {
			cfg.MaxBatchSize = DefaultConfig().MaxBatchSize
		}
		s.config = cfg
	}
}

// WithLoadError records why artifacts could not be loaded.
func WithLoadError(err error) Option {
	return func(s *Service) {
		s.loadErr = err
	}
}

// New constructs a Service. bundle may be nil.
func New(bundle *artifacts.Bundle, opts ...Option) *Service {
	s := &Service{
		bundle: bundle,
		config: DefaultConfig(),
		logger: slog.Default(),
		tracer: otel.Tracer("donorcheck/eligibility"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.metrics.SetModelLoaded(bundle != nil)
	return s
}

// Predict scores one donor. Categories are always normalized.
func (s *Service) Predict(ctx context.Context, record eligibility.DonorRecord) (*eligibility.PredictionResult, error) {
	ctx, span := s.tracer.Start(ctx, "eligibility.Predict")
	defer span.End()
	start := time.Now()
	defer func() {
		s.metrics.ObservePredictLatency(eligibility.ModeSingle.String(), time.Since(start))
	}()

	if err := s.ready(); err != nil {
		return nil, s.fail(span, eligibility.ModeSingle, err)
	}

	p, err := s.score(ctx, record, true)
	if err != nil {
		return nil, s.fail(span, eligibility.ModeSingle, err)
	}

	result := eligibility.Decide(p, eligibility.ModeSingle)
	s.metrics.IncrementOutcome(eligibility.ModeSingle.String(), result.Label)
	span.SetAttributes(
		attribute.Float64("eligibility.probability", result.Probability),
		attribute.Bool("eligibility.label", result.Label),
	)
	return &result, nil
}

// Health reports whether artifacts are loaded. It never fails.
func (s *Service) Health(_ context.Context) eligibility.Health {
	h := eligibility.Health{Status: "healthy"}
	if s.bundle != nil {
		h.ModelLoaded = true
		h.ModelVersion = s.bundle.Version()
	}
	return h
}

func (s *Service) ready() error {
	if s.bundle != nil {
		return nil
	}
	if s.loadErr != nil {
		return fmt.Errorf("%w: %v", eligibility.ErrArtifactsUnavailable, s.loadErr)
	}
	return eligibility.ErrArtifactsUnavailable
}

// score returns the full-precision probability for record.
func (s *Service) score(ctx context.Context, record eligibility.DonorRecord, normalize bool) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	scaled, err := s.bundle.Prepare(record, normalize)
	if err != nil {
		return 0, err
	}

	if s.cache == nil {
		return s.bundle.Score(scaled)
	}

	key := cacheKey(s.bundle.Fingerprint(), scaled)
	p, hit, err := s.cache.Get(ctx, key)
	switch {
	case err != nil:
		s.metrics.IncrementCacheLookup("error")
		s.logger.WarnContext(ctx, "probability cache lookup failed", "error", err)
	case hit:
		s.metrics.IncrementCacheLookup("hit")
		return p, nil
	default:
		s.metrics.IncrementCacheLookup("miss")
	}

	p, err = s.bundle.Score(scaled)
	if err != nil {
		return 0, err
	}
	if err := s.cache.Set(ctx, key, p); err != nil {
		s.logger.WarnContext(ctx, "probability cache store failed", "error", err)
	}
	return p, nil
}

// cacheKey identifies a scaled vector under one bundle fingerprint. The vector
// is hashed bit for bit so equal keys always mean identical classifier input
// to an identical model.
func cacheKey(fingerprint string, scaled features.Vector) string {
	h := sha256.New()
	var buf [8]byte
	for _, v := range scaled {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return fingerprint + ":" + hex.EncodeToString(h.Sum(nil))
}

func (s *Service) fail(span trace.Span, mode eligibility.Mode, err error) error {
	err = translate(err)
	code := dErrors.CodeInternal
	if de, ok := dErrors.As(err); ok {
		code = de.Code
	}
	s.metrics.IncrementError(mode.String(), string(code))
	span.RecordError(err)
	span.SetStatus(codes.Error, string(code))
	return err
}

// translate maps pipeline errors onto client-facing codes. The original
// error stays in the chain.
func translate(err error) error {
	if _, ok := dErrors.As(err); ok {
		return err
	}
	switch {
	case errors.Is(err, eligibility.ErrArtifactsUnavailable):
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "model artifacts are not loaded")
	case errors.Is(err, eligibility.ErrUnknownCategory):
		return dErrors.Wrap(err, dErrors.CodeUnknownCategory, err.Error())
	case errors.Is(err, eligibility.ErrInvalidInput):
		return dErrors.Wrap(err, dErrors.CodeValidation, err.Error())
	case errors.Is(err, eligibility.ErrUnknownFeature), errors.Is(err, eligibility.ErrSchemaMismatch):
		return dErrors.Wrap(err, dErrors.CodeSchemaMismatch, err.Error())
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "prediction failed")
	}
}
