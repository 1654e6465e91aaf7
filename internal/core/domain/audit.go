package domain

import "time"

// UploadedDocument is one PDF handed in by the caller for a single audit run.
// It is read-only to the pipeline.
type UploadedDocument struct {
	Name    string
	Content []byte
}

type ExtractionMethod string

const (
	MethodTextLayer ExtractionMethod = "text-layer"
	MethodOCR       ExtractionMethod = "optical-recognition"
	MethodError     ExtractionMethod = "error"
)

// ExtractedText is the normalized text of one uploaded document, produced once
// by the extractor and immutable afterward. Content carries the FILE_NAME
// header and provenance line so the classifier can attribute findings.
type ExtractedText struct {
	Filename string           `json:"filename"`
	Method   ExtractionMethod `json:"method"`
	Content  string           `json:"content"`
}

// ISOFinding is one ISO certificate surfaced by the classifier.
type ISOFinding struct {
	Standard         string `json:"standard"`
	ExpiryDate       string `json:"expiry_date"`
	DaysRemaining    int    `json:"days_remaining"`
	ComplianceStatus string `json:"compliance_status"`
}

// FoundDocument is one uploaded file matched by the classifier against the
// checklist. Category is the classifier's free-text category string; it is
// resolved against the catalog only when the report is finalized.
type FoundDocument struct {
	Filename string `json:"filename"`
	Category string `json:"category"`
	Status   string `json:"status"`
}

// WRASFinding is the registry identifier the classifier extracted, if any.
type WRASFinding struct {
	Found  bool   `json:"found"`
	WRASID string `json:"wras_id,omitempty"`
}

// AnalysisBatchResult is the parsed output of one classification call. It is
// transient: merged into the accumulating report and discarded.
type AnalysisBatchResult struct {
	ISOAnalysis    []ISOFinding    `json:"iso_analysis"`
	FoundDocuments []FoundDocument `json:"found_documents"`
	WRAS           WRASFinding     `json:"wras_analysis"`
}

// Empty reports whether the batch produced no findings at all.
func (r AnalysisBatchResult) Empty() bool {
	return len(r.ISOAnalysis) == 0 && len(r.FoundDocuments) == 0 && !r.WRAS.Found
}

type RegistryStatus string

const (
	RegistrySkipped  RegistryStatus = "Skipped"
	RegistryActive   RegistryStatus = "Active"
	RegistryNotFound RegistryStatus = "Not Found"
	RegistryError    RegistryStatus = "Error"
)

// RegistryCheckResult is the outcome of the single WRAS directory lookup.
type RegistryCheckResult struct {
	Status RegistryStatus `json:"status"`
	ID     string         `json:"online_id,omitempty"`
	URL    string         `json:"url"`
}

// AuditReport is the final, read-only result of one audit run.
// MissingDocuments preserves catalog order for deterministic display.
type AuditReport struct {
	RunID            string              `json:"run_id"`
	ISOAnalysis      []ISOFinding        `json:"iso_analysis"`
	FoundDocuments   []FoundDocument     `json:"found_documents"`
	MissingDocuments []string            `json:"missing_documents"`
	WRAS             WRASFinding         `json:"wras_analysis"`
	OnlineCheck      RegistryCheckResult `json:"wras_online_check"`
	Score            float64             `json:"score"`
	Elapsed          time.Duration       `json:"elapsed_ns"`
}
