package ai

import (
	"errors"
	"fmt"
)

// ErrUnavailable is the terminal failure returned once every credential of
// every provider in the chain has been exhausted. Callers branch on it with
// errors.Is and surface a generic "temporarily unavailable" message; no
// provider-specific error text leaks past the invocation layer.
var ErrUnavailable = errors.New("ai service unavailable: all providers exhausted")

// Kind classifies a provider failure into a rotation policy.
type Kind int

const (
	// KindUnknown covers any error the adapter could not classify.
	// Treated conservatively as rotate-and-continue.
	KindUnknown Kind = iota
	// KindRateLimited means the credential is valid but throttled.
	// Rotation continues after a deliberate cool-down.
	KindRateLimited
	// KindUnavailable means a provider-side outage or a permission
	// problem. Waiting does not help; rotation continues immediately.
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Error is the normalized failure shape providers return. Adapters map
// their SDK's error surface onto a Kind so the rotation policy stays a pure
// function of the classification, independent of any SDK type hierarchy.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s provider %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf extracts the classification from a provider error, defaulting to
// KindUnknown for anything that is not a normalized *Error.
func KindOf(err error) Kind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return KindUnknown
}
