package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/nama-tools/compliance-audit/internal/core/domain"
	"github.com/nama-tools/compliance-audit/internal/infrastructure/resilience"
)

const defaultTimeout = 120 * time.Second

// Client talks to the Gemini generateContent API. One Analyze call classifies
// one batch of extracted documents against the submission checklist.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	limiter    *rate.Limiter
	executor   *resilience.Executor
	now        func() time.Time
}

type Options struct {
	Timeout           time.Duration
	RequestsPerMinute int
	Executor          *resilience.Executor
	Now               func() time.Time
}

func New(baseURL, apiKey, model string, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	var limiter *rate.Limiter
	if opts.RequestsPerMinute > 0 {
		limiter = rate.NewLimiter(rate.Limit(float64(opts.RequestsPerMinute)/60.0), 1)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		executor:   opts.Executor,
		now:        now,
	}
}

// Analyze classifies one batch of extracted texts. Parse, transport, and
// rate-limit failures are returned to the caller; the analysis coordinator
// degrades a failed batch to an empty result.
func (c *Client) Analyze(ctx context.Context, batch []domain.ExtractedText) (domain.AnalysisBatchResult, error) {
	if len(batch) == 0 {
		return domain.AnalysisBatchResult{}, nil
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return domain.AnalysisBatchResult{}, domain.WrapError(domain.ErrClassification, "await rate limit", err)
		}
	}

	prompt := buildAuditPrompt(c.now())
	combined := joinBatch(batch)

	var raw string
	call := func(callCtx context.Context) error {
		var callErr error
		raw, callErr = c.generateJSON(callCtx, prompt, combined)
		return callErr
	}

	var err error
	if c.executor != nil {
		err = c.executor.Execute(ctx, "gemini.generate", call, classifyGeminiError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return domain.AnalysisBatchResult{}, domain.WrapError(domain.ErrClassification, "generate content", err)
	}

	result, err := parseBatchResult(raw)
	if err != nil {
		return domain.AnalysisBatchResult{}, err
	}
	return result, nil
}

func (c *Client) generateJSON(ctx context.Context, prompt, combined string) (string, error) {
	request := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}, {Text: combined}}},
		},
		GenerationConfig: generationConfig{
			ResponseMIMEType: "application/json",
		},
	}

	var response generateResponse
	path := fmt.Sprintf("/v1beta/models/%s:generateContent", c.model)
	if err := c.postJSON(ctx, path, request, &response, "generate"); err != nil {
		return "", err
	}

	text := response.text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini returned no candidate text")
	}
	return text, nil
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (r generateResponse) text() string {
	var builder strings.Builder
	for _, candidate := range r.Candidates {
		for _, p := range candidate.Content.Parts {
			builder.WriteString(p.Text)
		}
		break
	}
	return builder.String()
}
