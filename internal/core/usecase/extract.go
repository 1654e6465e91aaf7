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

const defaultExtractWorkers = 10

// BatchExtractor fans extractor calls out over all uploaded documents.
// Extraction is independent per document and never fails, so the pool only
// bounds concurrency; it does not short-circuit.
type BatchExtractor struct {
	extractor ports.TextExtractor
	workers   int
	logger    *slog.Logger
	metrics   *metrics.AuditMetrics
}

func NewBatchExtractor(extractor ports.TextExtractor, workers int, logger *slog.Logger, m *metrics.AuditMetrics) *BatchExtractor {
	if workers <= 0 {
		workers = defaultExtractWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BatchExtractor{
		extractor: extractor,
		workers:   workers,
		logger:    logger,
		metrics:   m,
	}
}

// ExtractAll extracts every document concurrently and returns one result per
// input in input order, regardless of completion order.
func (b *BatchExtractor) ExtractAll(ctx context.Context, docs []domain.UploadedDocument) []domain.ExtractedText {
	results := make([]domain.ExtractedText, len(docs))

	var group errgroup.Group
	group.SetLimit(b.workers)
	for i, doc := range docs {
		i, doc := i, doc
		group.Go(func() error {
			start := time.Now()
			results[i] = b.extractor.Extract(ctx, doc)
			elapsed := time.Since(start)

			if b.metrics != nil {
				b.metrics.ObserveExtraction(string(results[i].Method), elapsed)
			}
			b.logger.Debug("document_extracted",
				"filename", doc.Name,
				"method", string(results[i].Method),
				"chars", len(results[i].Content),
				"duration_ms", float64(elapsed.Microseconds())/1000.0,
			)
			return nil
		})
	}
	_ = group.Wait()

	return results
}
