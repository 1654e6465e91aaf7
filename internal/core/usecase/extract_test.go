package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
)

type slowExtractorFake struct {
	// delay per document name; later submissions finish first when delays
	// descend.
	delays map[string]time.Duration

	mu          sync.Mutex
	completions []string
}

func (f *slowExtractorFake) Extract(_ context.Context, doc domain.UploadedDocument) domain.ExtractedText {
	if d, ok := f.delays[doc.Name]; ok {
		time.Sleep(d)
	}
	f.mu.Lock()
	f.completions = append(f.completions, doc.Name)
	f.mu.Unlock()
	return domain.ExtractedText{
		Filename: doc.Name,
		Method:   domain.MethodTextLayer,
		Content:  "text of " + doc.Name,
	}
}

func TestExtractAllPreservesInputOrder(t *testing.T) {
	docs := []domain.UploadedDocument{
		{Name: "a.pdf"}, {Name: "b.pdf"}, {Name: "c.pdf"}, {Name: "d.pdf"}, {Name: "e.pdf"},
	}
	fake := &slowExtractorFake{delays: map[string]time.Duration{
		"a.pdf": 50 * time.Millisecond,
		"b.pdf": 40 * time.Millisecond,
		"c.pdf": 30 * time.Millisecond,
		"d.pdf": 20 * time.Millisecond,
		"e.pdf": 10 * time.Millisecond,
	}}

	extractor := NewBatchExtractor(fake, 5, nil, nil)
	results := extractor.ExtractAll(context.Background(), docs)

	if len(results) != len(docs) {
		t.Fatalf("expected %d results, got %d", len(docs), len(results))
	}
	for i, doc := range docs {
		if results[i].Filename != doc.Name {
			t.Fatalf("position %d: expected %s, got %s", i, doc.Name, results[i].Filename)
		}
	}

	fake.mu.Lock()
	first := fake.completions[0]
	fake.mu.Unlock()
	if first == "a.pdf" {
		t.Fatalf("latencies were reversed; a.pdf must not complete first")
	}
}

func TestExtractAllBoundsConcurrency(t *testing.T) {
	var mu sync.Mutex
	inFlight, peak := 0, 0

	gate := &gatedExtractorFake{enter: func() {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()
		time.Sleep(10 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
	}}

	docs := make([]domain.UploadedDocument, 12)
	for i := range docs {
		docs[i] = domain.UploadedDocument{Name: "doc.pdf"}
	}

	extractor := NewBatchExtractor(gate, 3, nil, nil)
	extractor.ExtractAll(context.Background(), docs)

	mu.Lock()
	defer mu.Unlock()
	if peak > 3 {
		t.Fatalf("worker pool exceeded cap: peak %d", peak)
	}
}

type gatedExtractorFake struct {
	enter func()
}

func (f *gatedExtractorFake) Extract(_ context.Context, doc domain.UploadedDocument) domain.ExtractedText {
	f.enter()
	return domain.ExtractedText{Filename: doc.Name, Method: domain.MethodTextLayer}
}

func TestExtractAllEmptyInput(t *testing.T) {
	extractor := NewBatchExtractor(&slowExtractorFake{}, 0, nil, nil)
	results := extractor.ExtractAll(context.Background(), nil)
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
