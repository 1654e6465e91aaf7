package gemini

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
)

// batchDelimiter separates concatenated document blobs inside one request so
// the model can attribute findings to files.
const batchDelimiter = "\n\n=== NEXT DOCUMENT ===\n"

func buildAuditPrompt(now time.Time) string {
	today := now.Format("2006-01-02")
	checklist, _ := json.Marshal(domain.ChecklistDescriptions())

	return fmt.Sprintf(`Today is %s. You are NAMA Document Analyzer.
Extract data from pdfs and translate it if it is not in english.
Classify each document using this list: %s

Compliance Rule: ISO certificates must be valid for >180 days from %s.

Return ONLY a JSON object with this EXACT structure:
{
    "iso_analysis": [
        {
            "standard": "ISO 9001",
            "expiry_date": "YYYY-MM-DD",
            "days_remaining": 0,
            "compliance_status": "Pass/Fail"
        }
    ],
    "found_documents": [
        {"filename": "name.pdf", "Category": "Category from list", "Status": "Valid"}
    ],
    "wras_analysis": {
            "found": true,
            "wras_id": "123456"
        }
}
`, today, checklist, today)
}

func joinBatch(batch []domain.ExtractedText) string {
	blobs := make([]string, len(batch))
	for i, text := range batch {
		blobs[i] = text.Content
	}
	return strings.Join(blobs, batchDelimiter)
}
