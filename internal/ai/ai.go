// Package ai implements the resilient multi-provider invocation layer: a
// credential pool with rotation, a per-provider circuit breaker, and a
// linear fallback chain. All call sites consume the normalized Result shape
// regardless of which provider ultimately answered.
package ai

import "context"

// Turn is one prior exchange in a multi-turn conversation.
type Turn struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// RoleUser and RoleModel are the two turn roles understood by all providers.
// Adapters translate RoleModel into their own assistant-side role name.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// Request describes one logical generation call. The mode is inferred from
// the populated fields: a non-empty History selects chat mode and a
// non-empty ImageData selects vision mode. Requests are built per call and
// never mutated by the invocation layer.
type Request struct {
	Prompt    string
	History   []Turn
	ImageMIME string
	ImageData []byte
}

// Result is the provider-agnostic response returned to every call site.
type Result struct {
	Text     string
	Provider string
	Model    string
}

// Provider executes a single generation attempt with one credential. The
// invoker configures the credential per attempt, so implementations must not
// assume a fixed key.
type Provider interface {
	Name() string
	Generate(ctx context.Context, credential string, req *Request) (*Result, error)
}
