package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownArchetype = errors.New("unknown scene archetype")
	ErrNoScenesSelected = errors.New("no scenes selected")
	ErrTooManyScenes    = errors.New("too many scenes selected")
	ErrInvalidProduct   = errors.New("invalid product descriptor")

	// ErrProviderAuth marks credential problems: the key is invalid or lacks
	// permission for the requested model.
	ErrProviderAuth = errors.New("provider authentication failed")
	// ErrProviderQuota marks rate-limit or quota exhaustion responses.
	ErrProviderQuota = errors.New("provider quota exhausted")
	// ErrProviderTransient marks generic retryable provider failures.
	ErrProviderTransient = errors.New("provider transient failure")
)

// FailureKind is the coarse classification surfaced to callers when a scene
// exhausts its full provider cascade.
type FailureKind string

const (
	FailureAuth  FailureKind = "auth"
	FailureQuota FailureKind = "quota"
	FailureOther FailureKind = "other"
)

// ClassifyProviderError buckets a provider failure. Structured sentinels win;
// message-substring matching remains only as a last-resort heuristic for
// errors that arrive without wrapping.
func ClassifyProviderError(err error) FailureKind {
	if err == nil {
		return FailureOther
	}
	switch {
	case errors.Is(err, ErrProviderAuth):
		return FailureAuth
	case errors.Is(err, ErrProviderQuota):
		return FailureQuota
	case errors.Is(err, ErrProviderTransient):
		return FailureOther
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key"),
		strings.Contains(msg, "unauthorized"),
		strings.Contains(msg, "permission"),
		strings.Contains(msg, "forbidden"):
		return FailureAuth
	case strings.Contains(msg, "quota"),
		strings.Contains(msg, "rate limit"),
		strings.Contains(msg, "resource exhausted"),
		strings.Contains(msg, "429"):
		return FailureQuota
	default:
		return FailureOther
	}
}

// ExhaustedError is terminal for a scene: every primary model variant and the
// fallback provider failed to produce an acceptable image. One instance fails
// the whole batch; no partial results are returned.
type ExhaustedError struct {
	Archetype   SceneArchetype
	SceneIndex  int
	PrimaryErr  error
	FallbackErr error
}

func (e *ExhaustedError) Error() string {
	kind := ClassifyProviderError(e.PrimaryErr)
	var b strings.Builder
	fmt.Fprintf(&b, "scene %d (%s): all providers exhausted", e.SceneIndex+1, e.Archetype)
	if e.PrimaryErr != nil {
		fmt.Fprintf(&b, "; primary (%s): %v", kind, e.PrimaryErr)
	}
	if e.FallbackErr != nil {
		fmt.Fprintf(&b, "; fallback: %v", e.FallbackErr)
	}
	return b.String()
}

func (e *ExhaustedError) Unwrap() error {
	return e.PrimaryErr
}

// Kind reports the classification of the primary-provider failure.
func (e *ExhaustedError) Kind() FailureKind {
	return ClassifyProviderError(e.PrimaryErr)
}
