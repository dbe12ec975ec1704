// Package ai implements the client for the external generative-AI review service.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codelens/internal/models"
	"codelens/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// GeminiClient calls Google's generativelanguage generateContent endpoint.
// One outbound call per invocation; no retries and no caching, callers
// surface failures directly.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option configures a GeminiClient.
type Option func(*GeminiClient)

// WithBaseURL overrides the service base URL. Intended for tests.
func WithBaseURL(url string) Option {
	return func(c *GeminiClient) { c.baseURL = strings.TrimRight(url, "/") }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *GeminiClient) { c.httpClient = hc }
}

// NewGeminiClient creates a client for the given API key and model.
func NewGeminiClient(apiKey, model string, opts ...Option) *GeminiClient {
	c := &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	SystemInstruction *generateContent  `json:"system_instruction,omitempty"`
	Contents          []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content generateContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// GenerateText sends the prompt to the model and returns the generated text
// verbatim. Network failures, timeouts, non-success statuses, and empty
// responses all map to an upstream error.
func (c *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	span, ctx := observability.NewSpan(ctx, "ai.GenerateText")
	span.AddAttributes(attribute.String("ai.model", c.model))
	defer span.End()

	start := time.Now()
	text, err := c.generate(ctx, prompt)
	observability.UpstreamLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		span.SetError(err)
		observability.ReviewRequests.WithLabelValues("error").Inc()
		return "", err
	}

	observability.ReviewRequests.WithLabelValues("ok").Inc()
	return text, nil
}

func (c *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		SystemInstruction: &generateContent{Parts: []generatePart{{Text: reviewSystemPrompt}}},
		Contents:          []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return "", models.NewInternalError(err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewUpstreamError(err)
	}
	defer resp.Body.Close()

	// Cap the response read; review responses are text and well under this.
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return "", models.NewUpstreamError(err)
	}

	var parsed generateResponse
	if jsonErr := json.Unmarshal(raw, &parsed); jsonErr != nil && resp.StatusCode < 300 {
		return "", models.NewUpstreamError(fmt.Errorf("malformed response: %w", jsonErr))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := http.StatusText(resp.StatusCode)
		if parsed.Error != nil && parsed.Error.Message != "" {
			msg = parsed.Error.Message
		}
		return "", models.NewUpstreamError(fmt.Errorf("generative AI service returned %d: %s", resp.StatusCode, msg))
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", models.NewUpstreamError(fmt.Errorf("generative AI service returned no candidates"))
	}

	var sb strings.Builder
	for _, part := range parsed.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
