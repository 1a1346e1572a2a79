// Package groq adapts the Groq chat completions API to the provider
// interface of the invocation layer. Groq speaks the OpenAI-compatible wire
// format, so the adapter talks to it directly over HTTP.
package groq

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

	"careercoach/internal/ai"
	"careercoach/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultModel   = "llama-3.3-70b-versatile"
	defaultBaseURL = "https://api.groq.com/openai/v1"
	requestTimeout = 90 * time.Second
)

// Client implements the groq fallback provider. Text and chat requests are
// supported; inline-image requests fail the attempt so the invoker rotates.
type Client struct {
	model   string
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient builds the groq provider. Empty model and base URL fall back to
// the defaults.
func NewClient(model, baseURL string, log *zap.Logger) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	if baseURL = strings.TrimSpace(baseURL); baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		model:   model,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: requestTimeout},
		logger:  logger.WithCommonFields(log, "groq", model),
	}
}

func (c *Client) Name() string { return "groq" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate runs one attempt with one credential and normalizes both the
// response and the error surface.
func (c *Client) Generate(ctx context.Context, credential string, req *ai.Request) (*ai.Result, error) {
	if len(req.ImageData) > 0 {
		return nil, c.wrapKind(ai.KindUnknown, errors.New("image input not supported"))
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, c.wrapKind(ai.KindUnknown, errors.New("prompt must not be empty"))
	}

	messages := make([]chatMessage, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := "user"
		if turn.Role == ai.RoleModel {
			role = "assistant"
		}
		messages = append(messages, chatMessage{Role: role, Content: turn.Text})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: 0.3,
		MaxTokens:   2048,
	})
	if err != nil {
		return nil, c.wrapKind(ai.KindUnknown, fmt.Errorf("encode request: %w", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, c.wrapKind(ai.KindUnknown, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+credential)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.wrapKind(ai.KindUnknown, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, c.wrapKind(ai.KindUnknown, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.wrapStatus(resp.StatusCode, payload)
	}

	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil {
		return nil, c.wrapKind(ai.KindUnknown, fmt.Errorf("decode response: %w", err))
	}
	if len(parsed.Choices) == 0 {
		return nil, c.wrapKind(ai.KindUnknown, errors.New("empty response"))
	}
	text := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if text == "" {
		return nil, c.wrapKind(ai.KindUnknown, errors.New("empty response"))
	}

	c.logger.Debug("response received",
		zap.String("preview", logger.TruncateForLog(text, 160)),
	)

	return &ai.Result{Text: text, Provider: c.Name(), Model: c.model}, nil
}

// wrapStatus classifies an HTTP error status into a rotation policy, using
// the same mapping the gemini adapter applies to its SDK errors.
func (c *Client) wrapStatus(status int, payload []byte) error {
	kind := ai.KindUnknown
	switch status {
	case http.StatusTooManyRequests:
		kind = ai.KindRateLimited
	case http.StatusForbidden, http.StatusInternalServerError, http.StatusServiceUnavailable:
		kind = ai.KindUnavailable
	}

	message := apiErrorMessage(payload)
	if message == "" {
		message = http.StatusText(status)
	}
	return c.wrapKind(kind, fmt.Errorf("status %d: %s", status, message))
}

func apiErrorMessage(payload []byte) string {
	var parsed chatResponse
	if err := json.Unmarshal(payload, &parsed); err != nil || parsed.Error == nil {
		return ""
	}
	return parsed.Error.Message
}

func (c *Client) wrapKind(kind ai.Kind, err error) error {
	return &ai.Error{Kind: kind, Provider: c.Name(), Err: err}
}
