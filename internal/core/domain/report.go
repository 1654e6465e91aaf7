package domain

import "math"

// ReportBuilder accumulates batch results for one audit run. It is owned by
// the analysis coordinator; merges must happen from a single goroutine (the
// aggregator loop). Finalize snapshots the accumulated state into an
// immutable AuditReport.
type ReportBuilder struct {
	runID string

	iso   []ISOFinding
	found []FoundDocument
	wras  WRASFinding
}

func NewReportBuilder(runID string) *ReportBuilder {
	return &ReportBuilder{runID: runID}
}

// Merge folds one batch result into the builder. ISO findings and found
// documents are append-only; a found WRAS identifier overwrites the previous
// one, so under concurrent batch completion the last merged finding wins.
// Merge is commutative with respect to the final report when at most one
// batch reports a WRAS identifier.
func (b *ReportBuilder) Merge(res AnalysisBatchResult) {
	b.iso = append(b.iso, res.ISOAnalysis...)
	b.found = append(b.found, res.FoundDocuments...)
	if res.WRAS.Found {
		b.wras = res.WRAS
	}
}

// WRASID returns the identifier accumulated so far, or "" if none was found.
func (b *ReportBuilder) WRASID() string {
	if !b.wras.Found {
		return ""
	}
	return b.wras.WRASID
}

// Finalize reconciles found documents against the checklist and produces the
// final report. Clearing a checklist item is idempotent: duplicate category
// matches remove it at most once, and an unmatched free-text category leaves
// the item missing.
func (b *ReportBuilder) Finalize(check RegistryCheckResult) *AuditReport {
	cleared := make(map[string]bool, len(b.found))
	for _, doc := range b.found {
		if item, ok := MatchChecklistItem(doc.Category); ok {
			cleared[item.ID] = true
		}
	}

	var missing []string
	for _, item := range requiredDocuments {
		if !cleared[item.ID] {
			missing = append(missing, item.Description)
		}
	}

	report := &AuditReport{
		RunID:            b.runID,
		ISOAnalysis:      append([]ISOFinding(nil), b.iso...),
		FoundDocuments:   append([]FoundDocument(nil), b.found...),
		MissingDocuments: missing,
		WRAS:             b.wras,
		OnlineCheck:      check,
		Score:            ComplianceScore(len(missing)),
	}
	return report
}

// ComplianceScore computes round(((14-missing)/14)*100, 2) for a missing-item
// count, clamped to [0, 100].
func ComplianceScore(missingCount int) float64 {
	if missingCount < 0 {
		missingCount = 0
	}
	if missingCount > ChecklistSize {
		missingCount = ChecklistSize
	}
	score := float64(ChecklistSize-missingCount) / float64(ChecklistSize) * 100
	return math.Round(score*100) / 100
}
