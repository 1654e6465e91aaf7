package bootstrap

import (
	"log/slog"
	"time"

	"github.com/nama-tools/compliance-audit/internal/config"
	"github.com/nama-tools/compliance-audit/internal/core/ports"
	"github.com/nama-tools/compliance-audit/internal/core/usecase"
	"github.com/nama-tools/compliance-audit/internal/infrastructure/extractor/pdfsmart"
	"github.com/nama-tools/compliance-audit/internal/infrastructure/llm/gemini"
	"github.com/nama-tools/compliance-audit/internal/infrastructure/ocr/tesseract"
	"github.com/nama-tools/compliance-audit/internal/infrastructure/rasterize/poppler"
	"github.com/nama-tools/compliance-audit/internal/infrastructure/registry/wras"
	"github.com/nama-tools/compliance-audit/internal/infrastructure/resilience"
	"github.com/nama-tools/compliance-audit/internal/observability/metrics"
)

type App struct {
	Config  config.Config
	Logger  *slog.Logger
	Metrics *metrics.AuditMetrics

	AuditUC ports.AuditRunner
}

func New(cfg config.Config, logger *slog.Logger) *App {
	auditMetrics := metrics.NewAuditMetrics("compliance-audit")

	rasterizer := poppler.New(cfg.PdftoppmPath, cfg.RasterDPI)
	ocrEngine := tesseract.New(cfg.OCRLanguage, cfg.RasterDPI)
	extractor := pdfsmart.New(rasterizer, ocrEngine, pdfsmart.Options{
		PageLimit:     cfg.ExtractPageLimit,
		TextThreshold: cfg.ExtractTextThreshold,
		MaxChars:      cfg.ExtractMaxChars,
		OCRTimeout:    time.Duration(cfg.OCRTimeoutSeconds) * time.Second,
		Logger:        logger,
	})

	classifier := gemini.New(cfg.GeminiBaseURL, cfg.GeminiAPIKey, cfg.GeminiModel, gemini.Options{
		Timeout:           time.Duration(cfg.GeminiTimeoutSeconds) * time.Second,
		RequestsPerMinute: cfg.GeminiRequestsPerMin,
		Executor:          resilience.NewExecutor(resilience.DefaultConfig()),
	})

	verifier := wras.New(cfg.WRASBaseURL, time.Duration(cfg.WRASTimeoutSeconds)*time.Second, logger)

	batchExtractor := usecase.NewBatchExtractor(extractor, cfg.ExtractWorkers, logger, auditMetrics)
	batchAnalyzer := usecase.NewBatchAnalyzer(classifier, cfg.AnalysisBatchSize, cfg.AnalysisWorkers, logger, auditMetrics)
	auditUC := usecase.NewRunAuditUseCase(batchExtractor, batchAnalyzer, verifier, logger, auditMetrics)

	return &App{
		Config:  cfg,
		Logger:  logger,
		Metrics: auditMetrics,
		AuditUC: auditUC,
	}
}
