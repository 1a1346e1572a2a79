package ai

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

type scriptedResult struct {
	text string
	err  error
}

type fakeProvider struct {
	name string

	mu       sync.Mutex
	attempts []string
	requests []*Request
	results  map[string][]scriptedResult
}

func newFakeProvider(name string) *fakeProvider {
	return &fakeProvider{name: name, results: make(map[string][]scriptedResult)}
}

func (f *fakeProvider) enqueue(credential, text string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[credential] = append(f.results[credential], scriptedResult{text: text, err: err})
}

func (f *fakeProvider) Name() string { return f.name }

func (f *fakeProvider) Generate(_ context.Context, credential string, req *Request) (*Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.attempts = append(f.attempts, credential)
	f.requests = append(f.requests, req)

	queue := f.results[credential]
	if len(queue) == 0 {
		return nil, &Error{Kind: KindUnavailable, Provider: f.name, Err: errors.New("no scripted result")}
	}
	res := queue[0]
	f.results[credential] = queue[1:]

	if res.err != nil {
		return nil, res.err
	}
	return &Result{Text: res.text, Provider: f.name, Model: "fake-model"}, nil
}

func rateLimited(provider string) error {
	return &Error{Kind: KindRateLimited, Provider: provider, Err: errors.New("quota exceeded")}
}

func unavailable(provider string) error {
	return &Error{Kind: KindUnavailable, Provider: provider, Err: errors.New("internal error")}
}

func stubWait(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	original := waitFor
	waitFor = func(_ context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { waitFor = original })
	return &delays
}

func TestRotationStartsAtCursorAndTriesEachOnce(t *testing.T) {
	stubWait(t)

	provider := newFakeProvider("primary")
	pool := NewPool("primary", []string{"A", "B", "C"})
	pool.MarkSuccess(1)

	inv := NewInvoker(InvokerConfig{
		Provider: provider,
		Pool:     pool,
		Breaker:  NewBreaker(time.Hour),
		Logger:   zap.NewNop(),
	})

	_, err := inv.Invoke(context.Background(), &Request{Prompt: "hi"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	want := []string{"B", "C", "A"}
	if len(provider.attempts) != len(want) {
		t.Fatalf("expected %d attempts, got %d: %v", len(want), len(provider.attempts), provider.attempts)
	}
	for i, cred := range want {
		if provider.attempts[i] != cred {
			t.Fatalf("attempt %d: expected %s, got %s", i, cred, provider.attempts[i])
		}
	}

	if !inv.breaker.IsOpen() {
		t.Fatal("expected circuit to open after full exhaustion")
	}
}

func TestFirstSuccessWinsAndCursorAdvances(t *testing.T) {
	delays := stubWait(t)

	provider := newFakeProvider("primary")
	provider.enqueue("A", "", rateLimited("primary"))
	provider.enqueue("B", "", rateLimited("primary"))
	provider.enqueue("C", "answer", nil)

	pool := NewPool("primary", []string{"A", "B", "C"})
	inv := NewInvoker(InvokerConfig{
		Provider: provider,
		Pool:     pool,
		Cooldown: 5 * time.Second,
		Logger:   zap.NewNop(),
	})

	res, err := inv.Invoke(context.Background(), &Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if res.Text != "answer" {
		t.Fatalf("unexpected text: %q", res.Text)
	}

	if len(provider.attempts) != 3 {
		t.Fatalf("expected 3 attempts, got %d", len(provider.attempts))
	}
	if pool.Cursor() != 2 {
		t.Fatalf("expected cursor at 2, got %d", pool.Cursor())
	}
	if len(*delays) != 2 {
		t.Fatalf("expected 2 cool-downs, got %d", len(*delays))
	}
	for _, d := range *delays {
		if d != 5*time.Second {
			t.Fatalf("unexpected cool-down duration: %v", d)
		}
	}
	if inv.breaker.IsOpen() {
		t.Fatal("circuit must stay closed after a success")
	}
}

func TestServiceUnavailableRotatesWithoutDelay(t *testing.T) {
	delays := stubWait(t)

	provider := newFakeProvider("primary")
	provider.enqueue("A", "", unavailable("primary"))

	inv := NewInvoker(InvokerConfig{
		Provider: provider,
		Pool:     NewPool("primary", []string{"A"}),
		Logger:   zap.NewNop(),
	})

	_, err := inv.Invoke(context.Background(), &Request{Prompt: "hi"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if len(*delays) != 0 {
		t.Fatalf("expected no cool-down for service errors, got %d", len(*delays))
	}
	if !inv.breaker.IsOpen() {
		t.Fatal("expected circuit to open after single-credential exhaustion")
	}
}

func TestOpenCircuitSkipsStraightToFallback(t *testing.T) {
	stubWait(t)

	primary := newFakeProvider("primary")
	secondary := newFakeProvider("secondary")
	secondary.enqueue("S", "from fallback", nil)

	fallback := NewInvoker(InvokerConfig{
		Provider: secondary,
		Pool:     NewPool("secondary", []string{"S"}),
		Logger:   zap.NewNop(),
	})

	breaker := NewBreaker(time.Hour)
	breaker.Trip(time.Now().Add(-30 * time.Minute))

	inv := NewInvoker(InvokerConfig{
		Provider: primary,
		Pool:     NewPool("primary", []string{"A", "B"}),
		Breaker:  breaker,
		Fallback: fallback,
		Logger:   zap.NewNop(),
	})

	res, err := inv.Invoke(context.Background(), &Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}

	// The fallback result is indistinguishable in shape from a primary
	// success: same normalized fields, only the provider name differs.
	if res.Text != "from fallback" || res.Provider != "secondary" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if len(primary.attempts) != 0 {
		t.Fatalf("primary credentials must not be touched while circuit is open, got %v", primary.attempts)
	}
}

func TestCircuitResetsAfterTimeout(t *testing.T) {
	stubWait(t)

	primary := newFakeProvider("primary")
	primary.enqueue("A", "back online", nil)

	breaker := NewBreaker(time.Hour)
	breaker.Trip(time.Now().Add(-90 * time.Minute))

	inv := NewInvoker(InvokerConfig{
		Provider: primary,
		Pool:     NewPool("primary", []string{"A"}),
		Breaker:  breaker,
		Logger:   zap.NewNop(),
	})

	res, err := inv.Invoke(context.Background(), &Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("expected success after circuit reset, got %v", err)
	}
	if res.Text != "back online" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if len(primary.attempts) != 1 {
		t.Fatalf("expected a fresh primary attempt, got %d", len(primary.attempts))
	}
	if inv.breaker.IsOpen() {
		t.Fatal("expected circuit closed after reset")
	}
}

func TestExhaustionDelegatesToFallback(t *testing.T) {
	stubWait(t)

	primary := newFakeProvider("primary")
	primary.enqueue("A", "", unavailable("primary"))

	secondary := newFakeProvider("secondary")
	secondary.enqueue("S", "rescued", nil)

	fallback := NewInvoker(InvokerConfig{
		Provider: secondary,
		Pool:     NewPool("secondary", []string{"S"}),
		Logger:   zap.NewNop(),
	})

	inv := NewInvoker(InvokerConfig{
		Provider: primary,
		Pool:     NewPool("primary", []string{"A"}),
		Fallback: fallback,
		Logger:   zap.NewNop(),
	})

	res, err := inv.Invoke(context.Background(), &Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("expected fallback success, got %v", err)
	}
	if res.Text != "rescued" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if !inv.breaker.IsOpen() {
		t.Fatal("expected primary circuit to open before delegation")
	}
}

func TestNoCredentialsAnywhereIsTerminalNotFatal(t *testing.T) {
	stubWait(t)

	fallback := NewInvoker(InvokerConfig{
		Provider: newFakeProvider("secondary"),
		Pool:     NewPool("secondary", nil),
		Logger:   zap.NewNop(),
	})
	inv := NewInvoker(InvokerConfig{
		Provider: newFakeProvider("primary"),
		Pool:     NewPool("primary", nil),
		Fallback: fallback,
		Logger:   zap.NewNop(),
	})

	_, err := inv.Invoke(context.Background(), &Request{Prompt: "hi"})
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}

	// No credentials configured is a fail-fast state, not exhaustion.
	if inv.breaker.IsOpen() {
		t.Fatal("empty pool must not trip the circuit")
	}
}

func TestChatHistoryReachesProviderInOrder(t *testing.T) {
	stubWait(t)

	provider := newFakeProvider("primary")
	provider.enqueue("A", "next turn", nil)

	inv := NewInvoker(InvokerConfig{
		Provider: provider,
		Pool:     NewPool("primary", []string{"A"}),
		Logger:   zap.NewNop(),
	})

	history := []Turn{
		{Role: RoleUser, Text: "first"},
		{Role: RoleModel, Text: "second"},
		{Role: RoleUser, Text: "third"},
	}

	text, err := inv.GenerateChat(context.Background(), "newest", history)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if text != "next turn" {
		t.Fatalf("unexpected text: %q", text)
	}

	if len(provider.requests) != 1 {
		t.Fatalf("expected 1 request, got %d", len(provider.requests))
	}
	req := provider.requests[0]
	if req.Prompt != "newest" {
		t.Fatalf("unexpected prompt: %q", req.Prompt)
	}
	if len(req.History) != 3 {
		t.Fatalf("expected 3 history turns, got %d", len(req.History))
	}
	for i, turn := range history {
		if req.History[i] != turn {
			t.Fatalf("history turn %d reordered: %+v", i, req.History[i])
		}
	}
}

func TestVisionRequestCarriesImageThroughRotation(t *testing.T) {
	stubWait(t)

	provider := newFakeProvider("primary")
	provider.enqueue("A", "", &Error{Kind: KindUnknown, Provider: "primary", Err: errors.New("image input not supported")})
	provider.enqueue("B", "a pipeline diagram", nil)

	inv := NewInvoker(InvokerConfig{
		Provider: provider,
		Pool:     NewPool("primary", []string{"A", "B"}),
		Logger:   zap.NewNop(),
	})

	image := []byte{0x89, 'P', 'N', 'G'}
	text, err := inv.GenerateVision(context.Background(), "describe this", "image/png", image)
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if text != "a pipeline diagram" {
		t.Fatalf("unexpected text: %q", text)
	}

	// A provider that rejects image input fails the attempt like any
	// other error; the next credential still gets the full payload.
	if len(provider.requests) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(provider.requests))
	}
	for i, req := range provider.requests {
		if req.Prompt != "describe this" {
			t.Fatalf("attempt %d: unexpected prompt %q", i, req.Prompt)
		}
		if req.ImageMIME != "image/png" {
			t.Fatalf("attempt %d: unexpected image MIME %q", i, req.ImageMIME)
		}
		if !bytes.Equal(req.ImageData, image) {
			t.Fatalf("attempt %d: image payload altered: %v", i, req.ImageData)
		}
	}
}

func TestUnclassifiedErrorRotatesWithoutDelay(t *testing.T) {
	delays := stubWait(t)

	provider := newFakeProvider("primary")
	provider.enqueue("A", "", errors.New("connection reset"))
	provider.enqueue("B", "recovered", nil)

	inv := NewInvoker(InvokerConfig{
		Provider: provider,
		Pool:     NewPool("primary", []string{"A", "B"}),
		Logger:   zap.NewNop(),
	})

	res, err := inv.Invoke(context.Background(), &Request{Prompt: "hi"})
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if res.Text != "recovered" {
		t.Fatalf("unexpected text: %q", res.Text)
	}
	if len(*delays) != 0 {
		t.Fatalf("unclassified errors must not incur a cool-down, got %d", len(*delays))
	}
}
