// Package gemini adapts the Google GenAI SDK to the provider interface of
// the invocation layer. It is the primary provider: multi-turn chat and
// inline-image requests are both supported.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"careercoach/internal/ai"
	"careercoach/internal/logger"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// generator is the slice of the GenAI client the adapter needs. The SDK
// client is wrapped behind it so tests can script responses without network
// access.
type generator interface {
	generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type sdkGenerator struct {
	client *genai.Client
}

func (g *sdkGenerator) generate(ctx context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, cfg)
}

func newSDKGenerator(ctx context.Context, apiKey string) (generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}
	return &sdkGenerator{client: client}, nil
}

// Client implements the gemini provider. One GenAI client is built per
// credential and cached for the process lifetime; the SDK client is cheap to
// keep but not cheap to construct on every rotation attempt.
type Client struct {
	model  string
	logger *zap.Logger

	mu         sync.Mutex
	generators map[string]generator

	// newGenerator is swapped in tests.
	newGenerator func(ctx context.Context, apiKey string) (generator, error)
}

// NewClient builds the gemini provider. An empty model falls back to the
// default.
func NewClient(model string, log *zap.Logger) *Client {
	if model = strings.TrimSpace(model); model == "" {
		model = defaultModel
	}
	return &Client{
		model:        model,
		logger:       logger.WithCommonFields(log, "gemini", model),
		generators:   make(map[string]generator),
		newGenerator: newSDKGenerator,
	}
}

func (c *Client) Name() string { return "gemini" }

// Generate runs one attempt with one credential and normalizes both the
// response and the error surface.
func (c *Client) Generate(ctx context.Context, credential string, req *ai.Request) (*ai.Result, error) {
	gen, err := c.generatorFor(ctx, credential)
	if err != nil {
		return nil, c.wrap(err)
	}

	contents, err := buildContents(req)
	if err != nil {
		return nil, c.wrap(err)
	}

	resp, err := gen.generate(ctx, c.model, contents, generateConfig())
	if err != nil {
		return nil, c.wrap(err)
	}

	text := collectText(resp)
	if text == "" {
		return nil, c.wrap(errors.New("empty response"))
	}

	c.logger.Debug("response received",
		zap.String("preview", logger.TruncateForLog(text, 160)),
	)

	return &ai.Result{Text: text, Provider: c.Name(), Model: c.model}, nil
}

func (c *Client) generatorFor(ctx context.Context, credential string) (generator, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return nil, errors.New("credential is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if gen, ok := c.generators[credential]; ok {
		return gen, nil
	}
	gen, err := c.newGenerator(ctx, credential)
	if err != nil {
		return nil, err
	}
	c.generators[credential] = gen
	return gen, nil
}

// buildContents maps the normalized request onto the GenAI content list:
// history turns in order, then the prompt (with the optional inline image)
// as the newest user turn.
func buildContents(req *ai.Request) ([]*genai.Content, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("prompt must not be empty")
	}

	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, turn := range req.History {
		role := genai.RoleUser
		if turn.Role == ai.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}

	parts := []*genai.Part{{Text: prompt}}
	if len(req.ImageData) > 0 {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: req.ImageMIME,
				Data:     req.ImageData,
			},
		})
	}
	contents = append(contents, &genai.Content{Role: genai.RoleUser, Parts: parts})

	return contents, nil
}

// generateConfig disables the content filters. Resumes and interview
// transcripts routinely trip the default thresholds on harmless text, so
// filtering is left to the prompts.
func generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		SafetySettings: []*genai.SafetySetting{
			{Category: genai.HarmCategoryHarassment, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryHateSpeech, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategorySexuallyExplicit, Threshold: genai.HarmBlockThresholdBlockNone},
			{Category: genai.HarmCategoryDangerousContent, Threshold: genai.HarmBlockThresholdBlockNone},
		},
	}
}

func collectText(resp *genai.GenerateContentResponse) string {
	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}
	return strings.TrimSpace(builder.String())
}

// wrap classifies an SDK error into a rotation policy. Quota errors trigger
// the cool-down; permission and server-side errors rotate immediately;
// everything else is left unclassified.
func (c *Client) wrap(err error) error {
	kind := ai.KindUnknown

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusTooManyRequests:
			kind = ai.KindRateLimited
		case http.StatusForbidden, http.StatusInternalServerError, http.StatusServiceUnavailable:
			kind = ai.KindUnavailable
		}
	}

	return &ai.Error{Kind: kind, Provider: c.Name(), Err: err}
}
