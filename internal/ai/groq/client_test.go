package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"careercoach/internal/ai"

	"go.uber.org/zap"
)

func TestGenerateMapsRolesAndAuth(t *testing.T) {
	var captured chatRequest
	var auth string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"fallback answer"}}]}`))
	}))
	defer srv.Close()

	c := NewClient("llama-3.3-70b-versatile", srv.URL, zap.NewNop())
	req := &ai.Request{
		Prompt: "latest",
		History: []ai.Turn{
			{Role: ai.RoleUser, Text: "q1"},
			{Role: ai.RoleModel, Text: "a1"},
		},
	}

	res, err := c.Generate(context.Background(), "secret-key", req)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if res.Text != "fallback answer" || res.Provider != "groq" {
		t.Fatalf("unexpected result: %+v", res)
	}

	if auth != "Bearer secret-key" {
		t.Fatalf("unexpected auth header: %q", auth)
	}
	if captured.Model != "llama-3.3-70b-versatile" {
		t.Fatalf("unexpected model: %q", captured.Model)
	}
	wantRoles := []string{"user", "assistant", "user"}
	if len(captured.Messages) != len(wantRoles) {
		t.Fatalf("expected %d messages, got %d", len(wantRoles), len(captured.Messages))
	}
	for i, role := range wantRoles {
		if captured.Messages[i].Role != role {
			t.Fatalf("message %d: expected role %q, got %q", i, role, captured.Messages[i].Role)
		}
	}
	if captured.Messages[2].Content != "latest" {
		t.Fatalf("unexpected final message: %q", captured.Messages[2].Content)
	}
}

func TestGenerateClassifiesStatusCodes(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   ai.Kind
	}{
		{"quota", http.StatusTooManyRequests, ai.KindRateLimited},
		{"forbidden", http.StatusForbidden, ai.KindUnavailable},
		{"internal", http.StatusInternalServerError, ai.KindUnavailable},
		{"overloaded", http.StatusServiceUnavailable, ai.KindUnavailable},
		{"bad request", http.StatusBadRequest, ai.KindUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(`{"error":{"message":"nope","type":"test"}}`))
			}))
			defer srv.Close()

			c := NewClient("", srv.URL, zap.NewNop())
			_, err := c.Generate(context.Background(), "key", &ai.Request{Prompt: "hi"})
			if err == nil {
				t.Fatal("expected error")
			}
			if got := ai.KindOf(err); got != tc.want {
				t.Fatalf("expected kind %v, got %v", tc.want, got)
			}
		})
	}
}

func TestGenerateRejectsImageInput(t *testing.T) {
	c := NewClient("", "http://unused.invalid", zap.NewNop())

	_, err := c.Generate(context.Background(), "key", &ai.Request{
		Prompt:    "describe",
		ImageMIME: "image/png",
		ImageData: []byte{1},
	})
	if err == nil {
		t.Fatal("expected error for image input")
	}
	if got := ai.KindOf(err); got != ai.KindUnknown {
		t.Fatalf("expected KindUnknown, got %v", got)
	}
}

func TestGenerateEmptyChoicesIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := NewClient("", srv.URL, zap.NewNop())
	if _, err := c.Generate(context.Background(), "key", &ai.Request{Prompt: "hi"}); err == nil {
		t.Fatal("expected error on empty choices")
	}
}
