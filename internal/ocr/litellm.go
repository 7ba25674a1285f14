package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ksdfg/bill-splitter/internal/config"
	"github.com/ksdfg/bill-splitter/internal/models"
)

// LiteLLM extracts bills through an OpenAI-compatible chat completions
// endpoint, such as a LiteLLM proxy in front of any vision model.
type LiteLLM struct {
	model   string
	apiBase string
	apiKey  string
	client  *http.Client
}

// NewLiteLLM creates a LiteLLM extractor.
func NewLiteLLM(cfg config.LiteLLMConfig) *LiteLLM {
	return &LiteLLM{
		model:   cfg.Model,
		apiBase: strings.TrimSuffix(cfg.APIBase, "/"),
		apiKey:  cfg.APIKey,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	ResponseFormat map[string]any `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []chatContent `json:"content"`
}

type chatContent struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL    string `json:"url"`
	Format string `json:"format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Name implements Extractor.
func (l *LiteLLM) Name() string { return config.ProviderLiteLLM }

// ExtractBill implements Extractor.
func (l *LiteLLM) ExtractBill(ctx context.Context, image []byte, mimeType string) (*models.OCRBill, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
	body, err := json.Marshal(chatRequest{
		Model: l.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []chatContent{
				{Type: "text", Text: billPrompt},
				{Type: "image_url", ImageURL: &chatImageURL{URL: dataURL, Format: mimeType}},
			},
		}},
		ResponseFormat: map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   "bill_ocr",
				"schema": billSchema,
			},
		},
	})
	if err != nil {
		return nil, failed("failed to encode chat request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.apiBase+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, failed("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if l.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+l.apiKey)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, failed("litellm request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, failed("failed to read litellm response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, failed("litellm returned status %d: %s", resp.StatusCode, truncate(respBody, 512))
	}

	var chat chatResponse
	if err := json.Unmarshal(respBody, &chat); err != nil {
		return nil, failed("failed to decode litellm response: %v", err)
	}
	if len(chat.Choices) == 0 {
		return nil, failed("no response from LiteLLM")
	}
	content := chat.Choices[0].Message.Content
	if content == nil || *content == "" {
		return nil, failed("no content in LiteLLM response")
	}

	return parseBill(*content)
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
