package pdfsmart

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
	"github.com/nama-tools/compliance-audit/internal/core/ports"
)

const (
	defaultPageLimit     = 3
	defaultTextThreshold = 100
	defaultMaxChars      = 15000
	defaultOCRTimeout    = 120 * time.Second
)

// Extractor reads a PDF's embedded text layer first and falls back to
// rasterize-and-recognize only when the text layer is missing, too short, or
// unreadable. It never returns an error: a document that defeats both paths
// degrades to an error-text blob that flows through the rest of the pipeline.
type Extractor struct {
	rasterizer ports.PageRasterizer
	ocr        ports.RecognitionEngine

	pageLimit     int
	textThreshold int
	maxChars      int
	ocrTimeout    time.Duration
	logger        *slog.Logger

	// textLayer is swappable in tests; production uses readTextLayer.
	textLayer func(content []byte) (string, error)
}

type Options struct {
	PageLimit     int
	TextThreshold int
	MaxChars      int
	OCRTimeout    time.Duration
	Logger        *slog.Logger
}

func New(rasterizer ports.PageRasterizer, ocr ports.RecognitionEngine, opts Options) *Extractor {
	if opts.PageLimit <= 0 {
		opts.PageLimit = defaultPageLimit
	}
	if opts.TextThreshold <= 0 {
		opts.TextThreshold = defaultTextThreshold
	}
	if opts.MaxChars <= 0 {
		opts.MaxChars = defaultMaxChars
	}
	if opts.OCRTimeout <= 0 {
		opts.OCRTimeout = defaultOCRTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	e := &Extractor{
		rasterizer:    rasterizer,
		ocr:           ocr,
		pageLimit:     opts.PageLimit,
		textThreshold: opts.TextThreshold,
		maxChars:      opts.MaxChars,
		ocrTimeout:    opts.OCRTimeout,
		logger:        opts.Logger,
	}
	e.textLayer = e.readTextLayer
	return e
}

func (e *Extractor) Extract(ctx context.Context, doc domain.UploadedDocument) domain.ExtractedText {
	text, err := e.textLayer(doc.Content)
	if err == nil && len(strings.TrimSpace(text)) > e.textThreshold {
		return domain.ExtractedText{
			Filename: doc.Name,
			Method:   domain.MethodTextLayer,
			Content:  e.blob(doc.Name, "Text Layer", text),
		}
	}
	if err != nil {
		e.logger.Debug("text_layer_extraction_failed", "filename", doc.Name, "error", err)
	}

	ocrText, err := e.recognize(ctx, doc.Content)
	if err != nil {
		e.logger.Warn("extraction_degraded", "filename", doc.Name, "error", err)
		return domain.ExtractedText{
			Filename: doc.Name,
			Method:   domain.MethodError,
			Content:  fmt.Sprintf("Error reading %s: %v", doc.Name, err),
		}
	}
	return domain.ExtractedText{
		Filename: doc.Name,
		Method:   domain.MethodOCR,
		Content:  e.blob(doc.Name, "OCR", ocrText),
	}
}

// readTextLayer concatenates the embedded text of the leading pages. The pdf
// library panics on some malformed files; the recover converts that into an
// ordinary fallback trigger.
func (e *Extractor) readTextLayer(content []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = domain.WrapError(domain.ErrExtraction, "read text layer", fmt.Errorf("pdf reader panic: %v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", domain.WrapError(domain.ErrExtraction, "open pdf", err)
	}

	limit := reader.NumPage()
	if limit > e.pageLimit {
		limit = e.pageLimit
	}

	var builder strings.Builder
	for pageNum := 1; pageNum <= limit; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, pageErr := page.GetPlainText(nil)
		if pageErr != nil {
			return "", domain.WrapError(domain.ErrExtraction, fmt.Sprintf("extract page %d", pageNum), pageErr)
		}
		builder.WriteString(pageText)
	}
	return builder.String(), nil
}

func (e *Extractor) recognize(ctx context.Context, content []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, e.ocrTimeout)
	defer cancel()

	images, err := e.rasterizer.Rasterize(ctx, content, e.pageLimit)
	if err != nil {
		return "", domain.WrapError(domain.ErrRecognition, "rasterize pages", err)
	}

	var builder strings.Builder
	for pageNum, image := range images {
		pageText, err := e.ocr.Recognize(ctx, image)
		if err != nil {
			return "", domain.WrapError(domain.ErrRecognition, fmt.Sprintf("recognize page %d", pageNum+1), err)
		}
		builder.WriteString(pageText)
	}
	return builder.String(), nil
}

// blob caps the text and prepends the filename header and provenance line the
// classifier prompt relies on for per-document attribution.
func (e *Extractor) blob(name, via, text string) string {
	if len(text) > e.maxChars {
		text = text[:e.maxChars]
	}
	return fmt.Sprintf("FILE_NAME: %s\n(Extracted via %s)\n%s", name, via, text)
}
