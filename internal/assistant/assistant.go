// Package assistant is the storefront's conversational collaborator. It
// forwards shopper questions to a hosted generative model together with a
// catalog snapshot so answers stay grounded in what the store actually
// sells.
package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"storefront-gateway/internal/common/config"
	apperrors "storefront-gateway/internal/common/errors"
	"storefront-gateway/internal/common/logger"
	"storefront-gateway/internal/models"
)

const systemInstruction = `You are a friendly shopping assistant for a natural skincare and haircare store.
Answer questions about the products listed in the context. Be concise and warm.
If a question is outside the catalog, say so politely instead of guessing.`

type generateRequest struct {
	SystemInstruction *content  `json:"system_instruction,omitempty"`
	Contents          []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type Service struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	logger     logger.Logger
}

type Option func(*Service)

// WithHTTPClient replaces the underlying HTTP client, used by tests.
func WithHTTPClient(client *http.Client) Option {
	return func(s *Service) { s.httpClient = client }
}

// WithBaseURL points the service at a different API host, used by tests.
func WithBaseURL(url string) Option {
	return func(s *Service) { s.baseURL = url }
}

func New(cfg config.AssistantConfig, log logger.Logger, opts ...Option) *Service {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}

	s := &Service{
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		httpClient: &http.Client{Timeout: config.GetDuration(cfg.Timeout)},
		logger:     log.WithFields(map[string]interface{}{"component": "assistant"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Configured reports whether an API key is present. When false the chat
// surface is hidden and Ask returns a config error.
func (s *Service) Configured() bool {
	return s.apiKey != ""
}

// Ask sends one shopper question with the catalog as grounding context and
// returns the model's reply. One transient failure is retried before the
// error is surfaced.
func (s *Service) Ask(ctx context.Context, question string, products []models.Product) (string, error) {
	if !s.Configured() {
		return "", apperrors.NewConfigError("assistant api key missing")
	}

	prompt := question
	if catalogContext := describeCatalog(products); catalogContext != "" {
		prompt = "Catalog:\n" + catalogContext + "\n\nQuestion: " + question
	}

	reply, err := s.generate(ctx, prompt)
	if err != nil && apperrors.IsRetryable(err) {
		s.logger.WithError(err).Warn("assistant call failed, retrying once", nil)
		reply, err = s.generate(ctx, prompt)
	}
	return reply, err
}

func (s *Service) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: systemInstruction}}},
		Contents:          []content{{Role: "user", Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", s.baseURL, s.model, s.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", apperrors.NewTransientError("assistant request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperrors.NewTransientError("assistant response unreadable", err)
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return "", apperrors.NewTransientError(fmt.Sprintf("assistant returned status %d", resp.StatusCode), nil)
	}
	if resp.StatusCode != http.StatusOK {
		return "", apperrors.NewBusinessError(fmt.Sprintf("assistant rejected the request: status %d", resp.StatusCode))
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", apperrors.NewValidationError("assistant: " + err.Error())
	}
	if parsed.Error != nil {
		return "", apperrors.NewBusinessError(parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewValidationError("assistant: empty response")
	}

	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

// describeCatalog renders a compact plain-text catalog summary for the
// prompt. Long descriptions are truncated; the model needs the gist, not
// the copy.
func describeCatalog(products []models.Product) string {
	if len(products) == 0 {
		return ""
	}

	var b strings.Builder
	for _, p := range products {
		desc := p.Description
		if len(desc) > 120 {
			desc = desc[:120] + "..."
		}
		fmt.Fprintf(&b, "- %s (%s, Rs. %.0f): %s\n", p.Name, p.Category, p.Price, desc)
	}
	return b.String()
}
