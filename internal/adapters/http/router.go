package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/nama-tools/compliance-audit/internal/adapters/export/xlsx"
	"github.com/nama-tools/compliance-audit/internal/core/domain"
	"github.com/nama-tools/compliance-audit/internal/core/ports"
)

// Router exposes the audit pipeline over HTTP. One POST runs one complete
// audit synchronously; nothing is stored between requests.
type Router struct {
	auditUC        ports.AuditRunner
	maxUploadBytes int64
}

func NewRouter(auditUC ports.AuditRunner, maxUploadBytes int64) *Router {
	if maxUploadBytes <= 0 {
		maxUploadBytes = 64 << 20
	}
	return &Router{
		auditUC:        auditUC,
		maxUploadBytes: maxUploadBytes,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/audits", rt.runAudit)
	mux.HandleFunc("/v1/checklist", rt.checklist)
	return requestIDMiddleware(accessLogMiddleware(mux))
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) checklist(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}
	writeJSON(w, http.StatusOK, domain.Checklist())
}

func (rt *Router) runAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, rt.maxUploadBytes)
	if err := r.ParseMultipartForm(rt.maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "multipart form with 'files' is required"})
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	docs, err := readUploads(r.MultipartForm.File["files"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	report, err := rt.auditUC.RunAudit(r.Context(), docs)
	if err != nil {
		if domain.IsKind(err, domain.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	if r.URL.Query().Get("format") == "xlsx" {
		workbook, err := xlsx.WriteScorecard(report)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "audit-"+report.RunID+".xlsx"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(workbook)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

func readUploads(headers []*multipart.FileHeader) ([]domain.UploadedDocument, error) {
	if len(headers) == 0 {
		return nil, errors.New("multipart field 'files' is required")
	}

	docs := make([]domain.UploadedDocument, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("open upload %s: %w", header.Filename, err)
		}
		content, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			return nil, fmt.Errorf("read upload %s: %w", header.Filename, err)
		}
		docs = append(docs, domain.UploadedDocument{
			Name:    header.Filename,
			Content: content,
		})
	}
	return docs, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
