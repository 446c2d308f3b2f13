package image

import (
	"context"
	"fmt"

	"scenegen/internal/providers/gemini"
)

// geminiImageClient is the slice of the Gemini client the adapter consumes.
type geminiImageClient interface {
	GenerateImage(ctx context.Context, req gemini.ImageRequest) (*gemini.ImageAsset, error)
	HasCredentials() bool
}

// GeminiGenerator adapts the Gemini HTTP client to the Generator contract.
// Model-variant selection stays with the caller via GenerateRequest.Model.
type GeminiGenerator struct {
	client geminiImageClient
}

// NewGeminiGenerator wires a Gemini client into the provider contract.
func NewGeminiGenerator(client geminiImageClient) *GeminiGenerator {
	return &GeminiGenerator{client: client}
}

// Generate fulfils the Generator interface.
func (g *GeminiGenerator) Generate(ctx context.Context, req GenerateRequest) (*Candidate, error) {
	if g == nil || g.client == nil {
		return nil, fmt.Errorf("gemini generator not configured")
	}
	refs := make([]gemini.Reference, 0, len(req.References))
	for _, ref := range req.References {
		refs = append(refs, gemini.Reference{MIME: ref.MIME, Data: ref.Data})
	}
	asset, err := g.client.GenerateImage(ctx, gemini.ImageRequest{
		Model:          req.Model,
		Prompt:         req.Positive,
		NegativePrompt: req.Negative,
		References:     refs,
		RequestID:      req.RequestID,
	})
	if err != nil {
		return nil, err
	}
	return &Candidate{Data: asset.Data, MIME: asset.MIME, Model: req.Model}, nil
}

// Name identifies the provider family in logs and provenance.
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

var _ Generator = (*GeminiGenerator)(nil)
