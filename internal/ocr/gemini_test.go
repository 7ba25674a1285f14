package ocr

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ksdfg/bill-splitter/internal/config"
)

// geminiCall is what the fake Gemini endpoint saw.
type geminiCall struct {
	path   string
	apiKey string
	body   map[string]any
}

// fakeGemini serves generateContent with a canned response body.
func fakeGemini(t *testing.T, response string) (*Gemini, *geminiCall) {
	t.Helper()
	call := &geminiCall{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call.path = r.URL.Path
		call.apiKey = r.Header.Get("x-goog-api-key")
		if call.apiKey == "" {
			call.apiKey = r.URL.Query().Get("key")
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &call.body); err != nil {
			t.Errorf("request body is not JSON: %v", err)
		}
		if !strings.Contains(string(body), "inlineData") {
			t.Errorf("request body has no inline image: %s", body)
		}

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, response)
	}))
	t.Cleanup(srv.Close)

	g, err := NewGemini(context.Background(), config.GeminiConfig{APIKey: "test-key", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewGemini failed: %v", err)
	}
	return g, call
}

func TestGemini_ExtractBill(t *testing.T) {
	text := `{"items":[{"name":"Coffee","price":3.5,"quantity":1}],"amount_paid":3.5,"tax_rate":0.0,"service_charge":0.0}`
	encoded, _ := json.Marshal(text)
	g, call := fakeGemini(t, `{"candidates":[{"content":{"role":"model","parts":[{"text":`+string(encoded)+`}]}}]}`)

	bill, err := g.ExtractBill(context.Background(), []byte("fake-image-bytes"), "image/png")
	if err != nil {
		t.Fatalf("ExtractBill failed: %v", err)
	}
	if len(bill.Items) != 1 || bill.Items[0].Name != "Coffee" || bill.AmountPaid != 3.5 {
		t.Errorf("unexpected bill: %+v", bill)
	}

	if !strings.Contains(call.path, "models/gemini-2.5-flash:generateContent") {
		t.Errorf("request path = %q, want the gemini-2.5-flash model", call.path)
	}
	if call.apiKey != "test-key" {
		t.Errorf("API key = %q, want test-key", call.apiKey)
	}
}

func TestGemini_SendsResponseSchema(t *testing.T) {
	encoded, _ := json.Marshal(`{"items":[{"name":"Tea","price":2,"quantity":1}]}`)
	g, call := fakeGemini(t, `{"candidates":[{"content":{"parts":[{"text":`+string(encoded)+`}]}}]}`)

	if _, err := g.ExtractBill(context.Background(), []byte("img"), "image/jpeg"); err != nil {
		t.Fatalf("ExtractBill failed: %v", err)
	}

	genCfg, ok := call.body["generationConfig"].(map[string]any)
	if !ok {
		t.Fatalf("request has no generationConfig: %v", call.body)
	}
	if got := genCfg["responseMimeType"]; got != "application/json" {
		t.Errorf("responseMimeType = %v, want application/json", got)
	}
	schema, ok := genCfg["responseSchema"].(map[string]any)
	if !ok {
		t.Fatalf("generationConfig has no responseSchema: %v", genCfg)
	}
	props, _ := schema["properties"].(map[string]any)
	for _, field := range []string{"items", "tax_rate", "service_charge", "amount_paid"} {
		if _, ok := props[field]; !ok {
			t.Errorf("responseSchema missing %q: %v", field, props)
		}
	}
	items, _ := props["items"].(map[string]any)
	itemProps, _ := items["items"].(map[string]any)["properties"].(map[string]any)
	for _, field := range []string{"name", "price", "quantity"} {
		if _, ok := itemProps[field]; !ok {
			t.Errorf("item schema missing %q: %v", field, items)
		}
	}
}

func TestGemini_Failures(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantMsg  string
	}{
		{name: "no candidates", response: `{"candidates":[]}`, wantMsg: "No response from Gemini API"},
		{name: "no parts", response: `{"candidates":[{"content":{"role":"model","parts":[]}}]}`, wantMsg: "No content parts in Gemini API response"},
		{name: "no text", response: `{"candidates":[{"content":{"role":"model","parts":[{}]}}]}`, wantMsg: "No text content in Gemini API response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _ := fakeGemini(t, tt.response)
			_, err := g.ExtractBill(context.Background(), []byte("fake"), "image/png")
			if !errors.Is(err, ErrExtractionFailed) {
				t.Fatalf("ExtractBill() error = %v, want ErrExtractionFailed", err)
			}
			if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(tt.wantMsg)) {
				t.Errorf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}

func TestGemini_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), config.GeminiConfig{APIKey: "k", BaseURL: srv.URL + "/"})
	if err != nil {
		t.Fatalf("NewGemini failed: %v", err)
	}
	if _, err := g.ExtractBill(context.Background(), []byte("img"), "image/png"); !errors.Is(err, ErrExtractionFailed) {
		t.Errorf("ExtractBill() error = %v, want ErrExtractionFailed", err)
	}
}
