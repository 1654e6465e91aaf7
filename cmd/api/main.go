package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/nama-tools/compliance-audit/internal/adapters/http"
	"github.com/nama-tools/compliance-audit/internal/bootstrap"
	"github.com/nama-tools/compliance-audit/internal/config"
	"github.com/nama-tools/compliance-audit/internal/observability/logging"
	"github.com/nama-tools/compliance-audit/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger := logging.NewJSONLogger("compliance-audit", cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app := bootstrap.New(cfg, logger)

	httpMetrics := metrics.NewHTTPServerMetrics("compliance-audit")
	router := httpMetrics.Middleware("compliance-audit", httpadapter.NewRouter(app.AuditUC, cfg.MaxUploadBytes).Handler())

	server := &http.Server{
		Addr:        ":" + cfg.APIPort,
		Handler:     router,
		ReadTimeout: 60 * time.Second,
		// Audit runs complete inline; writes wait for extraction plus
		// classification of the whole upload.
		WriteTimeout: 15 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", app.Metrics.Handler())
	metricsMux.Handle("/metrics/http", httpMetrics.Handler())
	metricsServer := &http.Server{
		Addr:    ":" + cfg.MetricsPort,
		Handler: metricsMux,
	}

	go func() {
		log.Printf("metrics listening on :%s", cfg.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()

	go func() {
		log.Printf("api listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("api shutdown error: %v", err)
	}
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("metrics shutdown error: %v", err)
	}
}
