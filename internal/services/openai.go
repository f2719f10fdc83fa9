package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/config"
	"github.com/ksu-hmi/deanna.AI.discharge.summaries/internal/domain"
)

const (
	chatCompletionsEndpoint = "https://api.openai.com/v1/chat/completions"
	requestTimeout          = 5 * time.Minute
)

// OpenAIService sends a page image plus an instruction template to the
// vision-capable chat completions endpoint and returns the raw text
// completion. Only the first page of the sequence is ever attached.
type OpenAIService struct {
	apiKey     string
	model      string
	maxTokens  int64
	reqTimeout time.Duration
	endpoint   string
	httpClient *http.Client
}

func NewOpenAIService(cfg config.Config) *OpenAIService {
	return &OpenAIService{
		apiKey:     cfg.OpenAIAPIKey,
		model:      cfg.OpenAIModel,
		maxTokens:  cfg.MaxTokens,
		reqTimeout: requestTimeout,
		endpoint:   chatCompletionsEndpoint,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int64         `json:"max_tokens"`
}

// Generate requests a discharge summary draft for the uploaded document.
// The request carries the instruction text and exactly one image: the
// first page of the sequence.
func (s *OpenAIService) Generate(ctx context.Context, pages []string, variant domain.PromptVariant) (string, error) {
	if err := s.ensureAPIKey(); err != nil {
		return "", err
	}

	if len(pages) == 0 {
		return "", domain.ErrNoPages
	}

	prompt, err := PromptFor(variant)
	if err != nil {
		return "", err
	}

	payload := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt},
					{
						Type: "image_url",
						ImageURL: &imageURL{
							URL: "data:image/jpeg;base64," + pages[0],
						},
					},
				},
			},
		},
		MaxTokens: s.maxTokens,
	}

	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(payload); err != nil {
		return "", fmt.Errorf("encode completion payload: %w", err)
	}

	// The deadline must outlive Do: the body is decoded below, and
	// cancelling once headers arrive would abort that read.
	ctx, cancel := context.WithTimeout(ctx, s.reqTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, buf)
	if err != nil {
		return "", fmt.Errorf("create completion request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", s.decodeAPIError(resp)
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("decode completion response: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("no completion returned")
	}

	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}

func (s *OpenAIService) decodeAPIError(resp *http.Response) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    any    `json:"code"`
		} `json:"error"`
	}

	body, _ := io.ReadAll(resp.Body)

	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("openai api error: status %d type %s message %s", resp.StatusCode, apiErr.Error.Type, apiErr.Error.Message)
	}

	return fmt.Errorf("openai api error: status %d body %s", resp.StatusCode, string(body))
}

func (s *OpenAIService) ensureAPIKey() error {
	if strings.TrimSpace(s.apiKey) == "" {
		return errors.New("openai api key is not configured")
	}
	return nil
}
