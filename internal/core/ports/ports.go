package ports

import (
	"context"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
)

// TextExtractor turns one uploaded PDF into normalized text. It never fails:
// both extraction paths degrade to an error-text blob tagged MethodError.
type TextExtractor interface {
	Extract(ctx context.Context, doc domain.UploadedDocument) domain.ExtractedText
}

// BatchClassifier sends one batch of extracted texts to the external AI
// service and parses its structured findings.
type BatchClassifier interface {
	Analyze(ctx context.Context, batch []domain.ExtractedText) (domain.AnalysisBatchResult, error)
}

// RegistryVerifier checks an extracted WRAS identifier against the public
// approvals directory. Failures degrade to a status value, never an error.
type RegistryVerifier interface {
	Verify(ctx context.Context, id string) domain.RegistryCheckResult
}

// PageRasterizer renders the leading pages of a PDF to grayscale page images
// for the recognition fallback.
type PageRasterizer interface {
	Rasterize(ctx context.Context, content []byte, maxPages int) ([][]byte, error)
}

// RecognitionEngine runs optical character recognition over one page image.
type RecognitionEngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// AuditRunner is the inbound contract: one synchronous audit over a set of
// uploaded documents.
type AuditRunner interface {
	RunAudit(ctx context.Context, docs []domain.UploadedDocument) (*domain.AuditReport, error)
}
