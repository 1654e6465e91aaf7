package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
)

const (
	summarySheet = "Summary"
	missingSheet = "Missing Documents"
	foundSheet   = "Found Documents"
	isoSheet     = "ISO Validation"
)

// WriteScorecard renders an audit report as an XLSX workbook for offline
// review and archiving.
func WriteScorecard(report *domain.AuditReport) ([]byte, error) {
	if report == nil {
		return nil, fmt.Errorf("report is nil")
	}

	f := excelize.NewFile()

	if err := writeSummary(f, report); err != nil {
		return nil, err
	}
	if err := writeMissing(f, report); err != nil {
		return nil, err
	}
	if err := writeFound(f, report); err != nil {
		return nil, err
	}
	if err := writeISO(f, report); err != nil {
		return nil, err
	}

	// excelize seeds the workbook with "Sheet1"; the summary replaces it.
	if index, err := f.GetSheetIndex(summarySheet); err == nil {
		f.SetActiveSheet(index)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(f *excelize.File, report *domain.AuditReport) error {
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	rows := [][]any{
		{"Audit Run", report.RunID},
		{"Score", fmt.Sprintf("%.2f%%", report.Score)},
		{"Missing Documents", len(report.MissingDocuments)},
		{"Documents Found", len(report.FoundDocuments)},
		{"WRAS Status", string(report.OnlineCheck.Status)},
		{"WRAS Lookup", report.OnlineCheck.URL},
	}
	return writeRows(f, summarySheet, rows, 1)
}

func writeMissing(f *excelize.File, report *domain.AuditReport) error {
	if _, err := f.NewSheet(missingSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", missingSheet, err)
	}
	rows := [][]any{{"Missing Required Document"}}
	for _, description := range report.MissingDocuments {
		rows = append(rows, []any{description})
	}
	return writeRows(f, missingSheet, rows, 1)
}

func writeFound(f *excelize.File, report *domain.AuditReport) error {
	if _, err := f.NewSheet(foundSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", foundSheet, err)
	}
	rows := [][]any{{"Filename", "Category", "Status"}}
	for _, doc := range report.FoundDocuments {
		rows = append(rows, []any{doc.Filename, doc.Category, doc.Status})
	}
	return writeRows(f, foundSheet, rows, 1)
}

func writeISO(f *excelize.File, report *domain.AuditReport) error {
	if _, err := f.NewSheet(isoSheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", isoSheet, err)
	}
	rows := [][]any{{"Standard", "Expiry Date", "Days Remaining", "Compliance Status"}}
	for _, finding := range report.ISOAnalysis {
		rows = append(rows, []any{finding.Standard, finding.ExpiryDate, finding.DaysRemaining, finding.ComplianceStatus})
	}
	return writeRows(f, isoSheet, rows, 1)
}

func writeRows(f *excelize.File, sheet string, rows [][]any, startRow int) error {
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, startRow+i)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
			}
		}
	}
	return nil
}
