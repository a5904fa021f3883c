// internal/pipeline/provider/http.go
package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mindline-backend/internal/common/config"
	"mindline-backend/internal/models"
	"mindline-backend/internal/pipeline/prompt"
)

// HTTPClient talks to one OpenAI-compatible chat-completions endpoint.
// Timeouts are imposed per attempt by the chain through ctx, not here.
type HTTPClient struct {
	id          string
	baseURL     string
	apiKey      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
}

func NewHTTPClient(cfg config.ProviderConfig) *HTTPClient {
	return &HTTPClient{
		id:          cfg.ID,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{},
	}
}

func (c *HTTPClient) ID() string {
	return c.id
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate sends the payload as a chat-completions request and returns
// the first choice. A 2xx with no usable text is ErrEmptyResponse.
func (c *HTTPClient) Generate(ctx context.Context, payload prompt.Payload) (string, error) {
	messages := make([]chatMessage, 0, len(payload.Turns)+2)
	messages = append(messages, chatMessage{Role: "system", Content: payload.System})
	for _, turn := range payload.Turns {
		role := "user"
		if turn.Role == models.RoleAssistant {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: payload.UserText})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider %s request: %w", c.id, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("provider %s returned status %d: %s", c.id, resp.StatusCode, string(snippet))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("provider %s decode response: %w", c.id, err)
	}

	if len(parsed.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
