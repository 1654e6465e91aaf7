package usecase

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
	"github.com/nama-tools/compliance-audit/internal/core/ports"
	"github.com/nama-tools/compliance-audit/internal/observability/metrics"
)

const (
	defaultAnalysisBatchSize = 8
	defaultAnalysisWorkers   = 4
)

// BatchAnalyzer partitions extracted texts into fixed-size batches, dispatches
// classification calls over a bounded pool, and merges results as batches
// complete. The pool is deliberately smaller than extraction's: each call is
// an expensive remote request and the service rate-limits.
type BatchAnalyzer struct {
	classifier ports.BatchClassifier
	batchSize  int
	workers    int
	logger     *slog.Logger
	metrics    *metrics.AuditMetrics
}

func NewBatchAnalyzer(classifier ports.BatchClassifier, batchSize, workers int, logger *slog.Logger, m *metrics.AuditMetrics) *BatchAnalyzer {
	if batchSize <= 0 {
		batchSize = defaultAnalysisBatchSize
	}
	if workers <= 0 {
		workers = defaultAnalysisWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchAnalyzer{
		classifier: classifier,
		batchSize:  batchSize,
		workers:    workers,
		logger:     logger,
		metrics:    m,
	}
}

// Run classifies all texts and folds every batch result into builder.
// Results arrive in completion order; all merging happens on the calling
// goroutine, so the builder needs no locking. A failed batch degrades to an
// empty result and never aborts the run.
func (a *BatchAnalyzer) Run(ctx context.Context, builder *domain.ReportBuilder, texts []domain.ExtractedText) {
	batches := partition(texts, a.batchSize)
	if len(batches) == 0 {
		return
	}

	results := make(chan domain.AnalysisBatchResult)

	var group errgroup.Group
	group.SetLimit(a.workers)
	for idx, batch := range batches {
		idx, batch := idx, batch
		group.Go(func() error {
			start := time.Now()
			res, err := a.classifier.Analyze(ctx, batch)
			elapsed := time.Since(start)

			status := "success"
			if err != nil {
				// Classification failures are isolated to their batch.
				status = "error"
				res = domain.AnalysisBatchResult{}
				a.logger.Warn("analysis_batch_failed",
					"batch", idx,
					"documents", len(batch),
					"error", err,
				)
			} else if res.Empty() {
				status = "empty"
			}
			if a.metrics != nil {
				a.metrics.ObserveAnalysisBatch(status, elapsed)
			}

			results <- res
			return nil
		})
	}
	go func() {
		_ = group.Wait()
		close(results)
	}()

	for res := range results {
		builder.Merge(res)
	}
}

// partition splits texts into contiguous groups of size; the last group may
// be shorter.
func partition(texts []domain.ExtractedText, size int) [][]domain.ExtractedText {
	var batches [][]domain.ExtractedText
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, texts[start:end])
	}
	return batches
}
