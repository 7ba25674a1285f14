package ocr

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/ksdfg/bill-splitter/internal/config"
	"github.com/ksdfg/bill-splitter/internal/models"
)

const defaultGeminiModel = "gemini-2.5-flash"

// Gemini extracts bills with Google's Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini extractor. cfg.BaseURL overrides the API
// endpoint, for proxies and tests.
func NewGemini(ctx context.Context, cfg config.GeminiConfig) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: cfg.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &Gemini{client: client, model: model}, nil
}

// Name implements Extractor.
func (g *Gemini) Name() string { return config.ProviderGemini }

// ExtractBill implements Extractor.
func (g *Gemini) ExtractBill(ctx context.Context, image []byte, mimeType string) (*models.OCRBill, error) {
	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: billPrompt},
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: image}},
		},
	}}
	cfg := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   billResponseSchema,
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return nil, failed("gemini request: %v", err)
	}

	if len(resp.Candidates) == 0 {
		return nil, failed("no response from Gemini API")
	}
	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, failed("no content parts in Gemini API response")
	}
	text := candidate.Content.Parts[0].Text
	if text == "" {
		return nil, failed("no text content in Gemini API response")
	}

	return parseBill(text)
}
