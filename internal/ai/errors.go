package ai

import (
	"context"
	"errors"
	"net"
	"strings"
)

// Kind classifies a generation failure so callers can decide between
// trying the next candidate model and aborting outright.
type Kind int

const (
	// KindRateLimited: the provider throttled the call; the next candidate
	// model may still succeed.
	KindRateLimited Kind = iota + 1
	// KindUnavailable: the provider is temporarily down or overloaded.
	KindUnavailable
	// KindFatal: authentication, malformed request, or any other error that
	// will not go away by switching models.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindUnavailable:
		return "unavailable"
	case KindFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// GenerationError carries a machine-readable failure kind alongside the
// underlying provider error and the model that produced it.
type GenerationError struct {
	Model string
	Kind  Kind
	Err   error
}

func (e *GenerationError) Error() string {
	return "generate with " + e.Model + " (" + e.Kind.String() + "): " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Retryable reports whether the next candidate model should be tried.
func (e *GenerationError) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindUnavailable
}

// classify derives a failure kind from the provider error chain. Typed
// errors are preferred; message classes are the last resort since provider
// SDKs flatten HTTP failures into opaque strings.
func classify(err error) Kind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindUnavailable
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "rate_limit"),
		strings.Contains(msg, "quota"),
		strings.Contains(msg, "too many requests"):
		return KindRateLimited
	case strings.Contains(msg, "502"),
		strings.Contains(msg, "503"),
		strings.Contains(msg, "unavailable"),
		strings.Contains(msg, "overloaded"),
		strings.Contains(msg, "timeout"),
		strings.Contains(msg, "connection refused"):
		return KindUnavailable
	}
	return KindFatal
}
