// internal/app/assistant/responder/gemini.go
package responder

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini uses the Gemini API through the genai SDK.
type Gemini struct {
	client      *genai.Client
	model       string
	maxTokens   int32
	temperature float64
}

// NewGemini creates a Gemini completer.
func NewGemini(ctx context.Context, cfg Config) (*Gemini, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{
		client:      client,
		model:       model,
		maxTokens:   int32(cfg.MaxTokens),
		temperature: cfg.Temperature,
	}, nil
}

// Name implements Completer.
func (p *Gemini) Name() string { return "gemini" }

// Complete implements Completer.
func (p *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	var gc *genai.GenerateContentConfig
	if p.maxTokens > 0 || p.temperature > 0 {
		gc = &genai.GenerateContentConfig{MaxOutputTokens: p.maxTokens}
		if p.temperature > 0 {
			gc.Temperature = genai.Ptr(float32(p.temperature))
		}
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), gc)
	if err != nil {
		pe := &ProviderError{Provider: p.Name(), Message: err.Error()}
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			pe.StatusCode = apiErr.Code
		}
		return "", pe
	}
	return resp.Text(), nil
}
