package ai

import (
	"context"
	"fmt"
	"time"

	"careercoach/internal/logger"
	"careercoach/internal/utils"

	"go.uber.org/zap"
)

// DefaultRateLimitCooldown is the pause between attempts after a credential
// reports quota exhaustion. Quota windows are usually short-lived, so a
// brief wait materially raises the odds of the next attempt succeeding and
// keeps the rotation from looking like a retry storm to the provider.
const DefaultRateLimitCooldown = 5 * time.Second

// waitFor is swapped in tests to observe cool-down behavior.
var waitFor = utils.WaitFor

// Invoker executes generation requests against one provider with credential
// rotation, and hands the request to a configured fallback invoker once the
// provider is exhausted. It performs blocking calls and sleeps; running it
// off the request-serving path is the caller's responsibility. At most one
// credential is attempted at a time, never in parallel, because providers
// penalize concurrent use of the same credential and the rotation cursor
// depends on sequential attempts.
type Invoker struct {
	provider Provider
	pool     *Pool
	breaker  *Breaker
	fallback *Invoker
	cooldown time.Duration
	logger   *zap.Logger
}

// InvokerConfig assembles an invoker's dependencies.
type InvokerConfig struct {
	Provider Provider
	Pool     *Pool
	Breaker  *Breaker
	// Fallback receives the request when every credential of this
	// provider has failed. Nil means this invoker is the end of the
	// chain. Chains are linear but additional invokers can be nested.
	Fallback *Invoker
	Cooldown time.Duration
	Logger   *zap.Logger
}

// NewInvoker builds an invoker. A nil breaker gets the default timeout and
// a non-positive cooldown falls back to DefaultRateLimitCooldown.
func NewInvoker(cfg InvokerConfig) *Invoker {
	if cfg.Breaker == nil {
		cfg.Breaker = NewBreaker(DefaultBreakerTimeout)
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultRateLimitCooldown
	}
	return &Invoker{
		provider: cfg.Provider,
		pool:     cfg.Pool,
		breaker:  cfg.Breaker,
		fallback: cfg.Fallback,
		cooldown: cfg.Cooldown,
		logger:   logger.WithCommonFields(cfg.Logger, cfg.Provider.Name(), ""),
	}
}

// Invoke runs one logical generation request. It returns a normalized
// result from whichever provider in the chain answered first, or
// ErrUnavailable once the whole chain is exhausted. Context cancellation is
// the only other way out.
func (v *Invoker) Invoke(ctx context.Context, req *Request) (*Result, error) {
	if v == nil {
		return nil, ErrUnavailable
	}

	if v.pool.Empty() {
		v.logger.Warn("no credentials configured, skipping provider")
		return v.delegate(ctx, req)
	}

	ok, reset := v.breaker.Allow(time.Now())
	if !ok {
		v.logger.Warn("circuit open, skipping provider")
		return v.delegate(ctx, req)
	}
	if reset {
		v.logger.Info("circuit timeout elapsed, probing provider again")
	}

	start := v.pool.Cursor()
	for _, idx := range v.pool.OrderedFrom(start) {
		res, err := v.provider.Generate(ctx, v.pool.Key(idx), req)
		if err == nil {
			if idx != start {
				v.pool.MarkSuccess(idx)
				v.logger.Debug("rotation cursor advanced", zap.Int("credential", idx+1))
			}
			return res, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		switch KindOf(err) {
		case KindRateLimited:
			v.logger.Warn("credential rate limited, cooling down before rotation",
				zap.Int("credential", idx+1),
				zap.Duration("cooldown", v.cooldown),
				zap.Error(err),
			)
			if werr := waitFor(ctx, v.cooldown); werr != nil {
				return nil, fmt.Errorf("rate limit cool-down interrupted: %w", werr)
			}
		case KindUnavailable:
			v.logger.Warn("credential failed, rotating",
				zap.Int("credential", idx+1),
				zap.Error(err),
			)
		default:
			v.logger.Warn("unclassified provider error, rotating",
				zap.Int("credential", idx+1),
				zap.Error(err),
			)
		}
	}

	v.breaker.Trip(time.Now())
	v.logger.Error("all credentials exhausted, circuit opened",
		zap.Int("credentials", v.pool.Len()),
	)

	return v.delegate(ctx, req)
}

func (v *Invoker) delegate(ctx context.Context, req *Request) (*Result, error) {
	if v.fallback == nil {
		return nil, ErrUnavailable
	}
	v.logger.Info("delegating to fallback provider",
		zap.String("fallback", v.fallback.provider.Name()),
	)
	return v.fallback.Invoke(ctx, req)
}

// GenerateText runs a single-turn generation and returns the response text.
func (v *Invoker) GenerateText(ctx context.Context, prompt string) (string, error) {
	res, err := v.Invoke(ctx, &Request{Prompt: prompt})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateChat runs a multi-turn generation: the prior turns are passed to
// the provider in order, followed by the prompt as the newest user turn.
func (v *Invoker) GenerateChat(ctx context.Context, prompt string, history []Turn) (string, error) {
	res, err := v.Invoke(ctx, &Request{Prompt: prompt, History: history})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}

// GenerateVision runs a multimodal generation with an inline image. Support
// is provider-dependent; providers without it fail the attempt and rotation
// proceeds as usual.
func (v *Invoker) GenerateVision(ctx context.Context, prompt, mime string, image []byte) (string, error) {
	res, err := v.Invoke(ctx, &Request{Prompt: prompt, ImageMIME: mime, ImageData: image})
	if err != nil {
		return "", err
	}
	return res.Text, nil
}
