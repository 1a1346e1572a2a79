package gemini

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"

	"careercoach/internal/ai"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type generateCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls []generateCall
	queue []fakeResponse
}

type fakeResponse struct {
	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeGenerator) enqueue(resp *genai.GenerateContentResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, fakeResponse{resp: resp, err: err})
}

func (f *fakeGenerator) generate(_ context.Context, model string, contents []*genai.Content, cfg *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, generateCall{model: model, contents: contents, config: cfg})
	if len(f.queue) == 0 {
		return nil, errors.New("unexpected call")
	}
	res := f.queue[0]
	f.queue = f.queue[1:]
	return res.resp, res.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestClient(gen *fakeGenerator) *Client {
	c := NewClient("gemini-2.5-flash", zap.NewNop())
	c.newGenerator = func(context.Context, string) (generator, error) { return gen, nil }
	return c
}

func TestGenerateReturnsNormalizedResult(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(textResponse("hello"), nil)

	c := newTestClient(gen)
	res, err := c.Generate(context.Background(), "key-1", &ai.Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if res.Text != "hello" || res.Provider != "gemini" || res.Model != "gemini-2.5-flash" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if len(gen.calls) != 1 {
		t.Fatalf("expected 1 call, got %d", len(gen.calls))
	}
	call := gen.calls[0]
	if len(call.contents) != 1 || call.contents[0].Parts[0].Text != "hi" {
		t.Fatalf("unexpected contents: %+v", call.contents)
	}
	if call.config == nil || len(call.config.SafetySettings) != 4 {
		t.Fatalf("expected safety settings on every call")
	}
}

func TestGenerateMapsHistoryRoles(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(textResponse("next"), nil)

	c := newTestClient(gen)
	req := &ai.Request{
		Prompt: "latest",
		History: []ai.Turn{
			{Role: ai.RoleUser, Text: "q1"},
			{Role: ai.RoleModel, Text: "a1"},
		},
	}
	if _, err := c.Generate(context.Background(), "key-1", req); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	contents := gen.calls[0].contents
	if len(contents) != 3 {
		t.Fatalf("expected 3 contents, got %d", len(contents))
	}
	if contents[0].Role != genai.RoleUser || contents[0].Parts[0].Text != "q1" {
		t.Fatalf("unexpected first turn: %+v", contents[0])
	}
	if contents[1].Role != genai.RoleModel || contents[1].Parts[0].Text != "a1" {
		t.Fatalf("unexpected second turn: %+v", contents[1])
	}
	if contents[2].Role != genai.RoleUser || contents[2].Parts[0].Text != "latest" {
		t.Fatalf("unexpected final turn: %+v", contents[2])
	}
}

func TestGenerateAttachesInlineImage(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(textResponse("described"), nil)

	c := newTestClient(gen)
	req := &ai.Request{
		Prompt:    "describe",
		ImageMIME: "image/png",
		ImageData: []byte{0x89, 0x50},
	}
	if _, err := c.Generate(context.Background(), "key-1", req); err != nil {
		t.Fatalf("expected success, got %v", err)
	}

	parts := gen.calls[0].contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected text and image parts, got %d", len(parts))
	}
	blob := parts[1].InlineData
	if blob == nil || blob.MIMEType != "image/png" || len(blob.Data) != 2 {
		t.Fatalf("unexpected inline data: %+v", blob)
	}
}

func TestGenerateClassifiesErrors(t *testing.T) {
	cases := []struct {
		name string
		code int
		want ai.Kind
	}{
		{"quota", http.StatusTooManyRequests, ai.KindRateLimited},
		{"forbidden", http.StatusForbidden, ai.KindUnavailable},
		{"internal", http.StatusInternalServerError, ai.KindUnavailable},
		{"overloaded", http.StatusServiceUnavailable, ai.KindUnavailable},
		{"bad request", http.StatusBadRequest, ai.KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gen := &fakeGenerator{}
			gen.enqueue(nil, genai.APIError{Code: tc.code, Status: "ERR"})

			c := newTestClient(gen)
			_, err := c.Generate(context.Background(), "key-1", &ai.Request{Prompt: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ai.KindOf(err); got != tc.want {
				t.Fatalf("expected kind %v, got %v", tc.want, got)
			}
		})
	}
}

func TestGenerateTreatsEmptyResponseAsUnclassified(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(&genai.GenerateContentResponse{}, nil)

	c := newTestClient(gen)
	_, err := c.Generate(context.Background(), "key-1", &ai.Request{Prompt: "hi"})
	if err == nil {
		t.Fatal("expected error on empty response")
	}
	if got := ai.KindOf(err); got != ai.KindUnknown {
		t.Fatalf("expected KindUnknown, got %v", got)
	}
}

func TestGeneratorCachedPerCredential(t *testing.T) {
	gen := &fakeGenerator{}
	gen.enqueue(textResponse("one"), nil)
	gen.enqueue(textResponse("two"), nil)

	built := 0
	c := NewClient("", zap.NewNop())
	c.newGenerator = func(context.Context, string) (generator, error) {
		built++
		return gen, nil
	}

	for range 2 {
		if _, err := c.Generate(context.Background(), "key-1", &ai.Request{Prompt: "hi"}); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
	}
	if built != 1 {
		t.Fatalf("expected a single client per credential, got %d", built)
	}
}
