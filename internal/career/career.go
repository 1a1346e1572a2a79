// Package career is the coaching layer: thin orchestration that turns
// domain requests into prompts, invokes the AI through the invocation
// chain, and parses the responses into typed results.
package career

import (
	"context"

	"careercoach/internal/ai"

	"go.uber.org/zap"
)

// Generator is the slice of the invocation chain the coaching layer needs.
// The concrete implementation is the provider invoker; tests script it.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
	GenerateChat(ctx context.Context, prompt string, history []ai.Turn) (string, error)
}

// Service bundles the coaching operations around one generator.
type Service struct {
	gen    Generator
	logger *zap.Logger
}

// NewService builds the coaching service.
func NewService(gen Generator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{gen: gen, logger: logger}
}
