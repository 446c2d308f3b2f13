// Package image defines the contract shared by all image generation backends
// and the adapters that implement it.
package image

import (
	"context"

	"scenegen/internal/domain"
)

// GenerateRequest describes one generation attempt, normalized so every
// backend consumes the same shape.
type GenerateRequest struct {
	Positive    string
	Negative    string
	Model       string
	ProductName string
	References  []domain.ReferenceImage
	RequestID   string
}

// Candidate is a single raw image payload returned by a backend. Scoring and
// acceptance are the orchestrator's concern, not the provider's.
type Candidate struct {
	Data  []byte
	MIME  string
	Model string
}

// Generator is the contract implemented by all image providers.
type Generator interface {
	Generate(ctx context.Context, req GenerateRequest) (*Candidate, error)
	Name() string
}
