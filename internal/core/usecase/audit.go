package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
	"github.com/nama-tools/compliance-audit/internal/core/ports"
	"github.com/nama-tools/compliance-audit/internal/observability/metrics"
)

// RunAuditUseCase drives one synchronous audit: fan-out extraction, batched
// classification, the single WRAS directory lookup, and report assembly.
// Results live only for the run; nothing is persisted.
type RunAuditUseCase struct {
	extractor *BatchExtractor
	analyzer  *BatchAnalyzer
	verifier  ports.RegistryVerifier
	logger    *slog.Logger
	metrics   *metrics.AuditMetrics
}

func NewRunAuditUseCase(
	extractor *BatchExtractor,
	analyzer *BatchAnalyzer,
	verifier ports.RegistryVerifier,
	logger *slog.Logger,
	m *metrics.AuditMetrics,
) *RunAuditUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &RunAuditUseCase{
		extractor: extractor,
		analyzer:  analyzer,
		verifier:  verifier,
		logger:    logger,
		metrics:   m,
	}
}

func (uc *RunAuditUseCase) RunAudit(ctx context.Context, docs []domain.UploadedDocument) (*domain.AuditReport, error) {
	if len(docs) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "run audit", errors.New("no documents uploaded"))
	}

	runID := uuid.NewString()
	logger := uc.logger.With("run_id", runID)
	start := time.Now()
	if uc.metrics != nil {
		uc.metrics.StartAudit()
	}

	logger.Info("audit_started", "documents", len(docs))

	texts := uc.extractor.ExtractAll(ctx, docs)

	builder := domain.NewReportBuilder(runID)
	uc.analyzer.Run(ctx, builder, texts)

	check := uc.verifier.Verify(ctx, builder.WRASID())
	if uc.metrics != nil {
		uc.metrics.ObserveRegistryCheck(string(check.Status))
	}

	report := builder.Finalize(check)
	report.Elapsed = time.Since(start)

	if uc.metrics != nil {
		uc.metrics.FinishAudit(report.Elapsed, len(docs))
	}
	logger.Info("audit_completed",
		"documents", len(docs),
		"missing", len(report.MissingDocuments),
		"score", report.Score,
		"wras_status", string(check.Status),
		"duration_ms", float64(report.Elapsed.Microseconds())/1000.0,
	)
	return report, nil
}
