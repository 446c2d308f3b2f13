package image

import (
	"context"
	"fmt"
	"strings"
)

// pollinationsClient is the slice of the fallback client the adapter uses.
type pollinationsClient interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, string, error)
}

// PollinationsGenerator adapts the credential-free text-only backend. It
// cannot carry reference images, so it reconstructs a best-effort prompt from
// the product name and the compiled positive prompt.
type PollinationsGenerator struct {
	client pollinationsClient
}

// NewPollinationsGenerator wires the fallback client into the contract.
func NewPollinationsGenerator(client pollinationsClient) *PollinationsGenerator {
	return &PollinationsGenerator{client: client}
}

// Generate fulfils the Generator interface.
func (p *PollinationsGenerator) Generate(ctx context.Context, req GenerateRequest) (*Candidate, error) {
	if p == nil || p.client == nil {
		return nil, fmt.Errorf("pollinations generator not configured")
	}
	data, mime, err := p.client.GenerateImage(ctx, reconstructPrompt(req))
	if err != nil {
		return nil, err
	}
	return &Candidate{Data: data, MIME: mime, Model: "pollinations"}, nil
}

// Name identifies the provider family in logs and provenance.
func (p *PollinationsGenerator) Name() string {
	return "pollinations"
}

// reconstructPrompt folds the product name back into the compiled positive
// prompt so the text-only backend keeps as much product identity as a prompt
// alone can carry.
func reconstructPrompt(req GenerateRequest) string {
	var b strings.Builder
	if name := strings.TrimSpace(req.ProductName); name != "" {
		fmt.Fprintf(&b, "Photorealistic product photograph of %s. ", name)
	}
	b.WriteString(strings.TrimSpace(req.Positive))
	return b.String()
}

var _ Generator = (*PollinationsGenerator)(nil)
