package ai

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"careercoach/internal/secrets"

	"go.uber.org/zap"
)

// Pool holds the ordered credentials for one provider together with the
// index of the credential most recently known to succeed. The key list is
// immutable after loading; only the cursor moves.
//
// The cursor is a best-effort optimization, not an invariant: concurrent
// invocations may race on it, and the only consequence is a suboptimal
// starting credential for the next call. Every invocation still tries each
// credential at most once regardless of the cursor value, so it is kept as
// a plain atomic rather than behind a lock.
type Pool struct {
	provider string
	keys     []string
	cursor   atomic.Int32
}

// PoolSources describes where the credentials for one provider are looked
// up, in priority order: an optional key file, a single comma-separated
// variable, then a numbered series with a legacy single-value name accepted
// in place of the first entry.
type PoolSources struct {
	KeyFile        string
	ListVar        string
	NumberedPrefix string
	LegacyVar      string
}

// NewPool builds a pool from an explicit key list. Used by tests and by
// callers that resolve credentials themselves.
func NewPool(provider string, keys []string) *Pool {
	return &Pool{provider: provider, keys: keys}
}

// LoadPool resolves the credentials for a provider from the configured
// sources. An empty result is a valid state, logged but not fatal: the
// invoker treats an empty pool as a hard unavailability signal and fails
// over instead of crashing the process.
func LoadPool(provider string, src PoolSources, lookup func(string) string, logger *zap.Logger) *Pool {
	if lookup == nil {
		lookup = os.Getenv
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	var keys []string
	seen := make(map[string]struct{})
	add := func(raw string) {
		for _, part := range strings.Split(raw, ",") {
			key := strings.TrimSpace(part)
			if key == "" {
				continue
			}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}

	if src.KeyFile != "" {
		content, err := secrets.Load(secrets.Source{
			Name: fmt.Sprintf("%s api keys", provider),
			File: src.KeyFile,
		})
		if err != nil {
			logger.Warn("skipping key file source", zap.String("provider", provider), zap.Error(err))
		} else {
			add(content)
		}
	}

	if src.ListVar != "" {
		add(lookup(src.ListVar))
	}

	if len(keys) == 0 && src.NumberedPrefix != "" {
		for i := 1; ; i++ {
			key := lookup(fmt.Sprintf("%s_%d", src.NumberedPrefix, i))
			if key == "" && i == 1 && src.LegacyVar != "" {
				key = lookup(src.LegacyVar)
			}
			if key == "" {
				break
			}
			add(key)
		}
	}

	if len(keys) == 0 {
		logger.Warn("no credentials configured, provider calls will fail over",
			zap.String("provider", provider),
		)
	} else {
		logger.Info("loaded provider credentials",
			zap.String("provider", provider),
			zap.Int("count", len(keys)),
		)
	}

	return NewPool(provider, keys)
}

// Len returns the number of credentials in the pool.
func (p *Pool) Len() int { return len(p.keys) }

// Empty reports whether no credentials were configured at all. This is
// distinct from "all credentials tried and failed", which trips the breaker.
func (p *Pool) Empty() bool { return len(p.keys) == 0 }

// Key returns the credential at the given index.
func (p *Pool) Key(i int) string { return p.keys[i] }

// Cursor returns the index of the last credential known to succeed.
func (p *Pool) Cursor() int {
	if p.Empty() {
		return 0
	}
	return int(p.cursor.Load()) % len(p.keys)
}

// OrderedFrom returns all credential indices starting at start and wrapping
// around, so rotation always begins at the last successful credential
// instead of index 0.
func (p *Pool) OrderedFrom(start int) []int {
	n := len(p.keys)
	if n == 0 {
		return nil
	}
	order := make([]int, n)
	for i := range order {
		order[i] = (start + i) % n
	}
	return order
}

// MarkSuccess records the credential that served the last successful call
// so the next invocation starts rotation there.
func (p *Pool) MarkSuccess(i int) {
	if i < 0 || i >= len(p.keys) {
		return
	}
	p.cursor.Store(int32(i))
}
