package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/config"
	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/domain"
)

func newTestOpenAIService(endpoint string) *OpenAIService {
	svc := NewOpenAIService(config.Config{
		OpenAIAPIKey: "test-key",
		OpenAIModel:  "gpt-4o",
		MaxTokens:    4000,
	})
	svc.endpoint = endpoint
	return svc
}

func TestGenerateSendsSingleImage(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "  the summary  "}},
			},
		})
	}))
	defer server.Close()

	svc := newTestOpenAIService(server.URL)

	pages := []string{"Zmlyc3Q=", "c2Vjb25k", "dGhpcmQ="}
	out, err := svc.Generate(context.Background(), pages, domain.VariantClinical)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != "the summary" {
		t.Fatalf("expected trimmed completion, got %q", out)
	}

	if captured.MaxTokens != 4000 {
		t.Fatalf("expected configured token ceiling, got %d", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 {
		t.Fatalf("expected a single message, got %d", len(captured.Messages))
	}

	var images, texts int
	for _, part := range captured.Messages[0].Content {
		switch part.Type {
		case "image_url":
			images++
			if !strings.HasSuffix(part.ImageURL.URL, "Zmlyc3Q=") {
				t.Fatalf("expected first page image, got %q", part.ImageURL.URL)
			}
			if !strings.HasPrefix(part.ImageURL.URL, "data:image/jpeg;base64,") {
				t.Fatalf("expected data url, got %q", part.ImageURL.URL)
			}
		case "text":
			texts++
			if !strings.Contains(part.Text, "10 core components") {
				t.Fatalf("expected clinical instruction text, got %q", part.Text)
			}
		}
	}
	if images != 1 {
		t.Fatalf("request must carry exactly one image, got %d", images)
	}
	if texts != 1 {
		t.Fatalf("request must carry exactly one instruction text, got %d", texts)
	}
}

func TestGenerateLargeStreamedBody(t *testing.T) {
	// A realistic completion at max_tokens=4000 is far larger than the
	// transport's read-ahead, so the body must stay readable after Do
	// returns. The server flushes headers first, then drips the payload
	// in small chunks.
	content := strings.Repeat("Reason for Admission: chest pain with elevated troponin. ", 700)

	body, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatalf("response writer does not support flushing")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for offset := 0; offset < len(body); offset += 1024 {
			end := offset + 1024
			if end > len(body) {
				end = len(body)
			}
			if _, err := w.Write(body[offset:end]); err != nil {
				return
			}
			flusher.Flush()
		}
	}))
	defer server.Close()

	svc := newTestOpenAIService(server.URL)

	out, err := svc.Generate(context.Background(), []string{"cGFnZQ=="}, domain.VariantClinical)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if out != strings.TrimSpace(content) {
		t.Fatalf("expected full completion (%d bytes), got %d bytes", len(content), len(out))
	}
}

func TestGenerateNoPages(t *testing.T) {
	svc := newTestOpenAIService("http://unused.invalid")

	if _, err := svc.Generate(context.Background(), nil, domain.VariantClinical); !errors.Is(err, domain.ErrNoPages) {
		t.Fatalf("expected ErrNoPages, got %v", err)
	}
}

func TestGenerateMissingAPIKey(t *testing.T) {
	svc := NewOpenAIService(config.Config{OpenAIModel: "gpt-4o", MaxTokens: 4000})

	if _, err := svc.Generate(context.Background(), []string{"cGFnZQ=="}, domain.VariantClinical); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestGenerateAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limited", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	svc := newTestOpenAIService(server.URL)

	_, err := svc.Generate(context.Background(), []string{"cGFnZQ=="}, domain.VariantPatientFriendly)
	if err == nil {
		t.Fatalf("expected error for non-2xx response")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected api message surfaced, got %v", err)
	}
}

func TestGenerateNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	svc := newTestOpenAIService(server.URL)

	if _, err := svc.Generate(context.Background(), []string{"cGFnZQ=="}, domain.VariantClinical); err == nil {
		t.Fatalf("expected error for empty choices")
	}
}
