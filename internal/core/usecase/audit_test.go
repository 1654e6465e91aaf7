package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
	"github.com/nama-tools/compliance-audit/internal/core/ports"
)

type echoExtractorFake struct{}

func (echoExtractorFake) Extract(_ context.Context, doc domain.UploadedDocument) domain.ExtractedText {
	return domain.ExtractedText{
		Filename: doc.Name,
		Method:   domain.MethodTextLayer,
		Content:  "FILE_NAME: " + doc.Name + "\n(Extracted via Text Layer)\n" + string(doc.Content),
	}
}

type failingExtractorFake struct{}

func (failingExtractorFake) Extract(_ context.Context, doc domain.UploadedDocument) domain.ExtractedText {
	return domain.ExtractedText{
		Filename: doc.Name,
		Method:   domain.MethodError,
		Content:  "Error reading " + doc.Name + ": both extraction paths failed",
	}
}

type verifierFake struct {
	mu     sync.Mutex
	calls  []string
	result domain.RegistryCheckResult
}

func (f *verifierFake) Verify(_ context.Context, id string) domain.RegistryCheckResult {
	f.mu.Lock()
	f.calls = append(f.calls, id)
	f.mu.Unlock()
	if id == "" {
		return domain.RegistryCheckResult{Status: domain.RegistrySkipped, URL: "#"}
	}
	return f.result
}

func newAuditUC(extractor ports.TextExtractor, classifier *classifierFake, verifier *verifierFake) *RunAuditUseCase {
	return NewRunAuditUseCase(
		NewBatchExtractor(extractor, 4, nil, nil),
		NewBatchAnalyzer(classifier, 8, 4, nil, nil),
		verifier,
		nil,
		nil,
	)
}

func TestRunAuditRejectsEmptyUpload(t *testing.T) {
	uc := newAuditUC(echoExtractorFake{}, &classifierFake{}, &verifierFake{})
	if _, err := uc.RunAudit(context.Background(), nil); !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input error, got %v", err)
	}
}

func TestRunAuditFullChecklistScoresHundred(t *testing.T) {
	descriptions := domain.ChecklistDescriptions()

	docs := make([]domain.UploadedDocument, len(descriptions))
	for i := range descriptions {
		docs[i] = domain.UploadedDocument{Name: descriptions[i] + ".pdf", Content: []byte("body")}
	}

	classifier := &classifierFake{analyze: func(batch []domain.ExtractedText) (domain.AnalysisBatchResult, error) {
		var found []domain.FoundDocument
		for _, text := range batch {
			category := strings.TrimSuffix(text.Filename, ".pdf")
			found = append(found, domain.FoundDocument{Filename: text.Filename, Category: category, Status: "Valid"})
		}
		return domain.AnalysisBatchResult{FoundDocuments: found}, nil
	}}
	verifier := &verifierFake{}

	uc := newAuditUC(echoExtractorFake{}, classifier, verifier)
	report, err := uc.RunAudit(context.Background(), docs)
	if err != nil {
		t.Fatalf("RunAudit() error = %v", err)
	}

	if len(report.MissingDocuments) != 0 {
		t.Fatalf("expected no missing documents, got %d", len(report.MissingDocuments))
	}
	if report.Score != 100 {
		t.Fatalf("expected score 100, got %v", report.Score)
	}
	if len(report.ISOAnalysis) != 0 {
		t.Fatalf("expected no iso findings, got %d", len(report.ISOAnalysis))
	}
	if report.OnlineCheck.Status != domain.RegistrySkipped {
		t.Fatalf("expected skipped registry check, got %s", report.OnlineCheck.Status)
	}

	verifier.mu.Lock()
	defer verifier.mu.Unlock()
	if len(verifier.calls) != 1 || verifier.calls[0] != "" {
		t.Fatalf("verifier must be called once with no identifier, got %v", verifier.calls)
	}
}

func TestRunAuditUnreadableDocumentDegrades(t *testing.T) {
	var captured []domain.ExtractedText
	var mu sync.Mutex
	classifier := &classifierFake{analyze: func(batch []domain.ExtractedText) (domain.AnalysisBatchResult, error) {
		mu.Lock()
		captured = append(captured, batch...)
		mu.Unlock()
		return domain.AnalysisBatchResult{}, nil
	}}

	uc := newAuditUC(failingExtractorFake{}, classifier, &verifierFake{})
	report, err := uc.RunAudit(context.Background(), []domain.UploadedDocument{{Name: "scan.pdf"}})
	if err != nil {
		t.Fatalf("RunAudit() error = %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(captured) != 1 {
		t.Fatalf("degraded text must still reach classification, got %d texts", len(captured))
	}
	if captured[0].Method != domain.MethodError {
		t.Fatalf("expected error provenance, got %s", captured[0].Method)
	}
	if !strings.Contains(captured[0].Content, "scan.pdf") || !strings.Contains(captured[0].Content, "Error reading") {
		t.Fatalf("error blob must name the document, got %q", captured[0].Content)
	}
	if len(report.MissingDocuments) != domain.ChecklistSize {
		t.Fatalf("expected full checklist missing, got %d", len(report.MissingDocuments))
	}
	if report.Score != 0 {
		t.Fatalf("expected score 0, got %v", report.Score)
	}
}

func TestRunAuditVerifiesExtractedIdentifier(t *testing.T) {
	classifier := &classifierFake{analyze: func([]domain.ExtractedText) (domain.AnalysisBatchResult, error) {
		return domain.AnalysisBatchResult{
			WRAS: domain.WRASFinding{Found: true, WRASID: "2406123"},
		}, nil
	}}
	verifier := &verifierFake{result: domain.RegistryCheckResult{
		Status: domain.RegistryActive,
		ID:     "2406123",
		URL:    "https://www.wrasapprovals.co.uk/approvals-directory/?search=2406123",
	}}

	uc := newAuditUC(echoExtractorFake{}, classifier, verifier)
	report, err := uc.RunAudit(context.Background(), []domain.UploadedDocument{{Name: "wras.pdf"}})
	if err != nil {
		t.Fatalf("RunAudit() error = %v", err)
	}

	verifier.mu.Lock()
	calls := append([]string(nil), verifier.calls...)
	verifier.mu.Unlock()
	if len(calls) != 1 || calls[0] != "2406123" {
		t.Fatalf("expected verification of extracted identifier, got %v", calls)
	}
	if report.OnlineCheck.Status != domain.RegistryActive {
		t.Fatalf("expected active registry status, got %s", report.OnlineCheck.Status)
	}
	if !report.WRAS.Found || report.WRAS.WRASID != "2406123" {
		t.Fatalf("unexpected wras finding: %+v", report.WRAS)
	}
}
