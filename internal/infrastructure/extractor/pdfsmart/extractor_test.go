package pdfsmart

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
)

type rasterizerFake struct {
	pages [][]byte
	err   error
	calls int
}

func (f *rasterizerFake) Rasterize(_ context.Context, _ []byte, _ int) ([][]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.pages, nil
}

type recognizerFake struct {
	texts map[string]string
	err   error
	calls int
}

func (f *recognizerFake) Recognize(_ context.Context, image []byte) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.texts[string(image)], nil
}

func newTestExtractor(raster *rasterizerFake, ocr *recognizerFake, opts Options) *Extractor {
	return New(raster, ocr, opts)
}

func TestExtractPrefersTextLayer(t *testing.T) {
	raster := &rasterizerFake{}
	ocr := &recognizerFake{}
	extractor := newTestExtractor(raster, ocr, Options{TextThreshold: 10})
	extractor.textLayer = func([]byte) (string, error) {
		return "this text layer is comfortably above the threshold", nil
	}

	result := extractor.Extract(context.Background(), domain.UploadedDocument{Name: "report.pdf", Content: []byte("%PDF")})

	if result.Method != domain.MethodTextLayer {
		t.Fatalf("expected text layer method, got %s", result.Method)
	}
	if raster.calls != 0 || ocr.calls != 0 {
		t.Fatalf("recognition must not run when the text layer suffices (raster=%d ocr=%d)", raster.calls, ocr.calls)
	}
	if !strings.HasPrefix(result.Content, "FILE_NAME: report.pdf\n(Extracted via Text Layer)\n") {
		t.Fatalf("unexpected blob header: %q", result.Content)
	}
}

func TestExtractTextAtThresholdFallsBack(t *testing.T) {
	raster := &rasterizerFake{pages: [][]byte{[]byte("p1")}}
	ocr := &recognizerFake{texts: map[string]string{"p1": "scanned words\n"}}
	extractor := newTestExtractor(raster, ocr, Options{TextThreshold: 10})
	extractor.textLayer = func([]byte) (string, error) {
		// Exactly the threshold after trimming; the fast path needs strictly more.
		return "  1234567890  ", nil
	}

	result := extractor.Extract(context.Background(), domain.UploadedDocument{Name: "scan.pdf"})

	if result.Method != domain.MethodOCR {
		t.Fatalf("expected fallback to recognition, got %s", result.Method)
	}
	if raster.calls != 1 || ocr.calls != 1 {
		t.Fatalf("expected one rasterize and one recognize call, got %d/%d", raster.calls, ocr.calls)
	}
	if !strings.HasPrefix(result.Content, "FILE_NAME: scan.pdf\n(Extracted via OCR)\n") {
		t.Fatalf("unexpected blob header: %q", result.Content)
	}
	if !strings.Contains(result.Content, "scanned words") {
		t.Fatalf("blob must carry recognized text: %q", result.Content)
	}
}

func TestExtractConcatenatesRecognizedPages(t *testing.T) {
	raster := &rasterizerFake{pages: [][]byte{[]byte("p1"), []byte("p2"), []byte("p3")}}
	ocr := &recognizerFake{texts: map[string]string{"p1": "one\n", "p2": "two\n", "p3": "three\n"}}
	extractor := newTestExtractor(raster, ocr, Options{})
	extractor.textLayer = func([]byte) (string, error) {
		return "", errors.New("no text layer")
	}

	result := extractor.Extract(context.Background(), domain.UploadedDocument{Name: "scan.pdf"})

	if ocr.calls != 3 {
		t.Fatalf("expected one recognize call per page, got %d", ocr.calls)
	}
	if !strings.Contains(result.Content, "one\ntwo\nthree\n") {
		t.Fatalf("pages must concatenate in order: %q", result.Content)
	}
}

func TestExtractCapsBlobLength(t *testing.T) {
	extractor := newTestExtractor(&rasterizerFake{}, &recognizerFake{}, Options{MaxChars: 20})
	extractor.textLayer = func([]byte) (string, error) {
		return strings.Repeat("x", 500), nil
	}

	result := extractor.Extract(context.Background(), domain.UploadedDocument{Name: "big.pdf"})

	header := "FILE_NAME: big.pdf\n(Extracted via Text Layer)\n"
	if len(result.Content) != len(header)+20 {
		t.Fatalf("expected text capped at 20 chars, got blob length %d", len(result.Content))
	}
}

func TestExtractBothPathsFailedDegrades(t *testing.T) {
	raster := &rasterizerFake{err: errors.New("pdftoppm exited 1")}
	extractor := newTestExtractor(raster, &recognizerFake{}, Options{})
	extractor.textLayer = func([]byte) (string, error) {
		return "", errors.New("damaged xref table")
	}

	result := extractor.Extract(context.Background(), domain.UploadedDocument{Name: "broken.pdf"})

	if result.Method != domain.MethodError {
		t.Fatalf("expected error provenance, got %s", result.Method)
	}
	if !strings.HasPrefix(result.Content, "Error reading broken.pdf: ") {
		t.Fatalf("error blob must name the file: %q", result.Content)
	}
}

func TestReadTextLayerRejectsGarbage(t *testing.T) {
	extractor := newTestExtractor(&rasterizerFake{}, &recognizerFake{}, Options{})

	if _, err := extractor.readTextLayer([]byte("not a pdf at all")); !domain.IsKind(err, domain.ErrExtraction) {
		t.Fatalf("expected extraction error on garbage input, got %v", err)
	}
}
