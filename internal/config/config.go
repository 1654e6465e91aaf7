package config

import (
	"os"
	"strconv"
)

type Config struct {
	APIPort     string
	MetricsPort string
	LogLevel    string

	GeminiBaseURL        string
	GeminiAPIKey         string
	GeminiModel          string
	GeminiTimeoutSeconds int
	GeminiRequestsPerMin int

	ExtractWorkers       int
	ExtractPageLimit     int
	ExtractTextThreshold int
	ExtractMaxChars      int

	RasterDPI         int
	PdftoppmPath      string
	OCRLanguage       string
	OCRTimeoutSeconds int

	AnalysisBatchSize int
	AnalysisWorkers   int

	WRASBaseURL        string
	WRASTimeoutSeconds int

	MaxUploadBytes int64
}

func Load() Config {
	return Config{
		APIPort:     mustEnv("API_PORT", "8080"),
		MetricsPort: mustEnv("METRICS_PORT", "9090"),
		LogLevel:    mustEnv("LOG_LEVEL", "info"),

		GeminiBaseURL:        mustEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
		GeminiAPIKey:         mustEnv("GEMINI_API_KEY", ""),
		GeminiModel:          mustEnv("GEMINI_MODEL", "gemini-2.5-pro"),
		GeminiTimeoutSeconds: mustEnvInt("GEMINI_TIMEOUT_SECONDS", 120),
		GeminiRequestsPerMin: mustEnvInt("GEMINI_REQUESTS_PER_MINUTE", 60),

		ExtractWorkers:       mustEnvInt("EXTRACT_WORKERS", 10),
		ExtractPageLimit:     mustEnvInt("EXTRACT_PAGE_LIMIT", 3),
		ExtractTextThreshold: mustEnvInt("EXTRACT_TEXT_THRESHOLD", 100),
		ExtractMaxChars:      mustEnvInt("EXTRACT_MAX_CHARS", 15000),

		RasterDPI:         mustEnvInt("RASTER_DPI", 150),
		PdftoppmPath:      mustEnv("PDFTOPPM_PATH", "pdftoppm"),
		OCRLanguage:       mustEnv("OCR_LANGUAGE", "eng"),
		OCRTimeoutSeconds: mustEnvInt("OCR_TIMEOUT_SECONDS", 120),

		AnalysisBatchSize: mustEnvInt("ANALYSIS_BATCH_SIZE", 8),
		AnalysisWorkers:   mustEnvInt("ANALYSIS_WORKERS", 4),

		WRASBaseURL:        mustEnv("WRAS_BASE_URL", "https://www.wrasapprovals.co.uk"),
		WRASTimeoutSeconds: mustEnvInt("WRAS_TIMEOUT_SECONDS", 5),

		MaxUploadBytes: int64(mustEnvInt("MAX_UPLOAD_BYTES", 64<<20)),
	}
}

func mustEnv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func mustEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
