package wras

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
)

const (
	defaultBaseURL  = "https://www.wrasapprovals.co.uk"
	defaultTimeout  = 5 * time.Second
	noResultsMarker = "No results found"
	userAgent       = "Mozilla/5.0"

	// The directory serves large pages; the marker sits well within this cap.
	maxBodyBytes = 4 << 20
)

// Verifier performs the single WRAS approvals-directory lookup for an
// identifier extracted by classification. Every failure degrades to a status
// value; the lookup never aborts an audit.
type Verifier struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

func New(baseURL string, timeout time.Duration, logger *slog.Logger) *Verifier {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (v *Verifier) Verify(ctx context.Context, id string) domain.RegistryCheckResult {
	id = strings.TrimSpace(id)
	if id == "" || id == "N/A" {
		return domain.RegistryCheckResult{Status: domain.RegistrySkipped, URL: "#"}
	}

	lookupURL := fmt.Sprintf("%s/approvals-directory/?search=%s", v.baseURL, url.QueryEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return domain.RegistryCheckResult{Status: domain.RegistryError, URL: lookupURL}
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := v.httpClient.Do(req)
	if err != nil {
		v.logger.Warn("wras_lookup_failed", "wras_id", id, "error", err)
		return domain.RegistryCheckResult{Status: domain.RegistryError, URL: lookupURL}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.RegistryCheckResult{Status: domain.RegistryNotFound, URL: lookupURL}
	}

	noResults, err := pageContainsText(io.LimitReader(resp.Body, maxBodyBytes), noResultsMarker)
	if err != nil {
		v.logger.Warn("wras_response_unreadable", "wras_id", id, "error", err)
		return domain.RegistryCheckResult{Status: domain.RegistryError, URL: lookupURL}
	}
	if noResults {
		return domain.RegistryCheckResult{Status: domain.RegistryNotFound, URL: lookupURL}
	}
	return domain.RegistryCheckResult{Status: domain.RegistryActive, ID: id, URL: lookupURL}
}

// pageContainsText scans the rendered text nodes of an HTML page for marker,
// so markup around the message does not hide it.
func pageContainsText(body io.Reader, marker string) (bool, error) {
	tokenizer := html.NewTokenizer(body)
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			if err := tokenizer.Err(); err != io.EOF {
				return false, err
			}
			return false, nil
		case html.TextToken:
			if strings.Contains(string(tokenizer.Text()), marker) {
				return true, nil
			}
		}
	}
}
