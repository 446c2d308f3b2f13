// Package pipeline implements the scene generation pipeline: mood
// interpretation, conflict resolution, prompt compilation, cross-scene
// consistency, provider orchestration and quality validation.
package pipeline

import (
	"context"
	"fmt"

	"scenegen/internal/domain"
	"scenegen/internal/infra"
	"scenegen/internal/mood"
	"scenegen/internal/prompt"
	"scenegen/internal/providers/image"
)

// ProgressFunc is invoked synchronously before each scene's first attempt.
type ProgressFunc func(current, total int, archetype domain.SceneArchetype)

// Request is the logical input for one generation batch.
type Request struct {
	Product      domain.ProductDescriptor
	Scenes       []domain.SceneArchetype
	MoodText     string
	Business     *domain.BusinessContext
	BrandPalette []string
	RequestID    string
}

// Result carries the ordered scenes plus the batch interpretation so callers
// can surface override notes for transparency.
type Result struct {
	Scenes         []domain.GeneratedScene
	Interpretation domain.MoodInterpretation
}

// Options wires a pipeline instance.
type Options struct {
	Orchestrator *Orchestrator
	Logger       *infra.Logger
	Progress     ProgressFunc
}

// Pipeline is stateless between batches; one instance may serve concurrent
// callers as long as the wired generators are safe for concurrent use.
type Pipeline struct {
	orchestrator *Orchestrator
	logger       infra.Logger
	progress     ProgressFunc
}

// New constructs a pipeline.
func New(opts Options) (*Pipeline, error) {
	if opts.Orchestrator == nil {
		return nil, fmt.Errorf("pipeline: orchestrator is required")
	}
	var logger infra.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	progress := opts.Progress
	if progress == nil {
		progress = func(int, int, domain.SceneArchetype) {}
	}
	return &Pipeline{orchestrator: opts.Orchestrator, logger: logger, progress: progress}, nil
}

// Run executes one batch: scenes are generated strictly in request order,
// one at a time, and the first terminally-failed scene fails the whole batch
// with no partial results. The context is honored between scenes and inside
// every provider attempt.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := domain.ValidateSceneSelection(req.Scenes); err != nil {
		return nil, err
	}
	if err := req.Product.Validate(); err != nil {
		return nil, err
	}

	resolution := mood.Resolve(req.MoodText, req.Scenes)
	p.logger.Info().
		Str("request_id", req.RequestID).
		Int("scenes", len(req.Scenes)).
		Bool("overridden", resolution.Batch.WasOverridden).
		Msg("pipeline: mood resolved")

	pairs := make([]domain.PromptPair, len(req.Scenes))
	for i, scene := range req.Scenes {
		pairs[i] = prompt.Compile(scene, resolution.EffectiveFor(scene), req.Product.Name, req.Business, req.BrandPalette)
	}
	pairs = prompt.ApplyConsistency(pairs)

	references := req.Product.References()

	scenes := make([]domain.GeneratedScene, 0, len(req.Scenes))
	for i, archetype := range req.Scenes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p.progress(i, len(req.Scenes), archetype)

		generated, err := p.orchestrator.GenerateScene(ctx, i, archetype, image.GenerateRequest{
			Positive:    pairs[i].Positive,
			Negative:    pairs[i].Negative,
			ProductName: req.Product.Name,
			References:  references,
			RequestID:   req.RequestID,
		})
		if err != nil {
			// Whole-batch abort on the first exhausted scene; later scenes
			// are never attempted and nothing partial is returned.
			return nil, err
		}
		scenes = append(scenes, *generated)
	}

	return &Result{Scenes: scenes, Interpretation: resolution.Batch}, nil
}
