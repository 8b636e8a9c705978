package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"

	"donorcheck/internal/eligibility"
)

// PredictBatch scores records in input order. Up to BatchWorkers records are
// scored at once; the first failure cancels the rest and fails the batch
// with the index of the offending record.
func (s *Service) PredictBatch(ctx context.Context, records []eligibility.DonorRecord) (*eligibility.BatchResult, error) {
	ctx, span := s.tracer.Start(ctx, "eligibility.PredictBatch")
	defer span.End()
	span.SetAttributes(
		attribute.Int("batch.size", len(records)),
		attribute.Int("batch.workers", s.config.BatchWorkers),
	)
	start := time.Now()
	defer func() {
		s.metrics.ObservePredictLatency(eligibility.ModeBatch.String(), time.Since(start))
	}()

	if err := s.ready(); err != nil {
		return nil, s.fail(span, eligibility.ModeBatch, err)
	}
	if len(records) > s.config.MaxBatchSize {
		err := fmt.Errorf("%w: batch of %d donors exceeds the limit of %d",
			eligibility.ErrInvalidInput, len(records), s.config.MaxBatchSize)
		return nil, s.fail(span, eligibility.ModeBatch, err)
	}
	s.metrics.ObserveBatchSize(len(records))

	predictions := make([]eligibility.PredictionResult, len(records))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.BatchWorkers)
	for i := range records {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			p, err := s.score(gctx, records[i], s.config.NormalizeBatchCategories)
			if err != nil {
				return fmt.Errorf("donor %d: %w", i, err)
			}
			predictions[i] = eligibility.Decide(p, eligibility.ModeBatch)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, s.fail(span, eligibility.ModeBatch, err)
	}
	// Cancellation before any work started leaves the group empty.
	if err := ctx.Err(); err != nil {
		return nil, s.fail(span, eligibility.ModeBatch, err)
	}

	result := eligibility.Summarize(predictions)
	for _, p := range result.Predictions {
		s.metrics.IncrementOutcome(eligibility.ModeBatch.String(), p.Label)
	}
	span.SetAttributes(attribute.Int("batch.eligible", result.EligibleCount))
	return &result, nil
}
