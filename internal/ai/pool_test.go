package ai

import (
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func lookupFrom(env map[string]string) func(string) string {
	return func(name string) string { return env[name] }
}

func TestLoadPoolPrefersListVariable(t *testing.T) {
	env := map[string]string{
		"GEMINI_API_KEYS":  "one, two ,three",
		"GEMINI_API_KEY_1": "numbered",
	}

	pool := LoadPool("gemini", PoolSources{
		ListVar:        "GEMINI_API_KEYS",
		NumberedPrefix: "GEMINI_API_KEY",
	}, lookupFrom(env), zap.NewNop())

	if pool.Len() != 3 {
		t.Fatalf("expected 3 keys, got %d", pool.Len())
	}
	for i, want := range []string{"one", "two", "three"} {
		if pool.Key(i) != want {
			t.Fatalf("key %d: expected %q, got %q", i, want, pool.Key(i))
		}
	}
}

func TestLoadPoolNumberedSeriesStopsAtGap(t *testing.T) {
	env := map[string]string{
		"GEMINI_API_KEY_1": "first",
		"GEMINI_API_KEY_2": "second",
		"GEMINI_API_KEY_4": "orphan",
	}

	pool := LoadPool("gemini", PoolSources{
		ListVar:        "GEMINI_API_KEYS",
		NumberedPrefix: "GEMINI_API_KEY",
	}, lookupFrom(env), zap.NewNop())

	if pool.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", pool.Len())
	}
	if pool.Key(0) != "first" || pool.Key(1) != "second" {
		t.Fatalf("unexpected keys: %q, %q", pool.Key(0), pool.Key(1))
	}
}

func TestLoadPoolLegacyNameStandsInForFirstNumbered(t *testing.T) {
	env := map[string]string{
		"GOOGLE_API_KEY":   "legacy",
		"GEMINI_API_KEY_2": "second",
	}

	pool := LoadPool("gemini", PoolSources{
		ListVar:        "GEMINI_API_KEYS",
		NumberedPrefix: "GEMINI_API_KEY",
		LegacyVar:      "GOOGLE_API_KEY",
	}, lookupFrom(env), zap.NewNop())

	if pool.Len() != 2 {
		t.Fatalf("expected 2 keys, got %d", pool.Len())
	}
	if pool.Key(0) != "legacy" || pool.Key(1) != "second" {
		t.Fatalf("unexpected keys: %q, %q", pool.Key(0), pool.Key(1))
	}
}

func TestLoadPoolKeyFileMergesAndDeduplicates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys")
	if err := os.WriteFile(path, []byte("filekey,shared\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	env := map[string]string{
		"GROQ_API_KEYS": "shared,envkey",
	}

	pool := LoadPool("groq", PoolSources{
		KeyFile:        path,
		ListVar:        "GROQ_API_KEYS",
		NumberedPrefix: "GROQ_API_KEY",
	}, lookupFrom(env), zap.NewNop())

	if pool.Len() != 3 {
		t.Fatalf("expected 3 keys after dedup, got %d: %v", pool.Len(), pool.keys)
	}
	for i, want := range []string{"filekey", "shared", "envkey"} {
		if pool.Key(i) != want {
			t.Fatalf("key %d: expected %q, got %q", i, want, pool.Key(i))
		}
	}
}

func TestLoadPoolEmptyIsValid(t *testing.T) {
	pool := LoadPool("groq", PoolSources{
		ListVar:        "GROQ_API_KEYS",
		NumberedPrefix: "GROQ_API_KEY",
	}, lookupFrom(nil), zap.NewNop())

	if !pool.Empty() {
		t.Fatalf("expected empty pool, got %d keys", pool.Len())
	}
	if pool.Cursor() != 0 {
		t.Fatalf("empty pool cursor should be 0, got %d", pool.Cursor())
	}
	if pool.OrderedFrom(0) != nil {
		t.Fatal("empty pool should have no rotation order")
	}
}

func TestOrderedFromWrapsAround(t *testing.T) {
	pool := NewPool("gemini", []string{"a", "b", "c", "d"})

	order := pool.OrderedFrom(2)
	want := []int{2, 3, 0, 1}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("position %d: expected %d, got %d", i, want[i], order[i])
		}
	}
}

func TestMarkSuccessIgnoresOutOfRange(t *testing.T) {
	pool := NewPool("gemini", []string{"a", "b"})
	pool.MarkSuccess(1)
	pool.MarkSuccess(7)
	pool.MarkSuccess(-1)

	if pool.Cursor() != 1 {
		t.Fatalf("expected cursor to stay at 1, got %d", pool.Cursor())
	}
}
