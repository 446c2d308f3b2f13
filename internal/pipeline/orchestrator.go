package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"scenegen/internal/domain"
	"scenegen/internal/infra"
	"scenegen/internal/providers/image"
)

// retriesPerModel is the fixed attempt ceiling for one model variant.
const retriesPerModel = 2

// errQualityReject never leaves the orchestrator; it only feeds the
// aggregated diagnostic when a cascade ends without a usable candidate.
var errQualityReject = errors.New("no candidate reached the usable quality floor")

// OrchestratorOptions wires the per-scene cascade.
type OrchestratorOptions struct {
	Primary  image.Generator
	Fallback image.Generator
	// Models lists primary model variants, best quality first.
	Models []string
	// AttemptsPerSecond paces outbound provider calls. Zero disables pacing.
	AttemptsPerSecond float64
	// RetryInterval seeds the wait between attempts on the same variant.
	RetryInterval time.Duration
	Logger        *infra.Logger
}

// Orchestrator runs the provider cascade for one scene at a time:
// every primary model variant with a small retry loop and quality scoring,
// then the credential-free fallback once the primary family is exhausted.
type Orchestrator struct {
	primary       image.Generator
	fallback      image.Generator
	models        []string
	limiter       *rate.Limiter
	retryInterval time.Duration
	logger        infra.Logger
}

// NewOrchestrator validates and wires the cascade options.
func NewOrchestrator(opts OrchestratorOptions) (*Orchestrator, error) {
	if opts.Primary == nil {
		return nil, errors.New("orchestrator: primary generator is required")
	}
	if len(opts.Models) == 0 {
		return nil, errors.New("orchestrator: at least one model variant is required")
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if opts.AttemptsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.AttemptsPerSecond), 1)
	}
	interval := opts.RetryInterval
	if interval <= 0 {
		interval = 2 * time.Second
	}
	var logger infra.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Orchestrator{
		primary:       opts.Primary,
		fallback:      opts.Fallback,
		models:        opts.Models,
		limiter:       limiter,
		retryInterval: interval,
		logger:        logger,
	}, nil
}

// scored pairs a candidate with its validator grade.
type scored struct {
	candidate *image.Candidate
	score     int
}

// GenerateScene runs the full cascade for one scene and returns the accepted
// result or a terminal *domain.ExhaustedError.
func (o *Orchestrator) GenerateScene(ctx context.Context, sceneIndex int, archetype domain.SceneArchetype, req image.GenerateRequest) (*domain.GeneratedScene, error) {
	best, primaryErr := o.runPrimaryCascade(ctx, archetype, req)
	if best != nil {
		return o.sceneFrom(archetype, req, best, domain.ProviderPrimary), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fallbackResult, fallbackErr := o.runFallback(ctx, archetype, req)
	if fallbackResult != nil {
		o.logger.Warn().
			Str("archetype", string(archetype)).
			Err(primaryErr).
			Msg("orchestrator: primary cascade exhausted, fallback accepted")
		return o.sceneFrom(archetype, req, fallbackResult, domain.ProviderFallback), nil
	}

	return nil, &domain.ExhaustedError{
		Archetype:   archetype,
		SceneIndex:  sceneIndex,
		PrimaryErr:  primaryErr,
		FallbackErr: fallbackErr,
	}
}

// runPrimaryCascade walks the model variants in order. A variant's retries
// end early on acceptance; its best candidate is kept when it clears the
// usable floor, otherwise the next variant is tried.
func (o *Orchestrator) runPrimaryCascade(ctx context.Context, archetype domain.SceneArchetype, req image.GenerateRequest) (*scored, error) {
	var lastErr error
	for _, model := range o.models {
		variantBest, err := o.tryVariant(ctx, archetype, req, model)
		if err != nil {
			lastErr = err
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			// A credential problem will not heal on another variant.
			if domain.ClassifyProviderError(err) == domain.FailureAuth {
				return nil, err
			}
			continue
		}
		if variantBest != nil && variantBest.score >= ScoreMinUsable {
			return variantBest, nil
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("%s: %w", o.primary.Name(), errQualityReject)
	}
	return nil, lastErr
}

// tryVariant runs the bounded retry loop for one model variant and returns
// the best-scoring candidate it saw, or the last provider error when every
// attempt failed outright.
func (o *Orchestrator) tryVariant(ctx context.Context, archetype domain.SceneArchetype, req image.GenerateRequest, model string) (*scored, error) {
	wait := backoff.NewExponentialBackOff()
	wait.InitialInterval = o.retryInterval
	wait.RandomizationFactor = 0

	attemptReq := req
	attemptReq.Model = model

	var best *scored
	var lastErr error
	for attempt := 0; attempt < retriesPerModel; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, wait.NextBackOff()); err != nil {
				return nil, err
			}
		}
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		candidate, err := o.primary.Generate(ctx, attemptReq)
		if err != nil {
			lastErr = err
			o.logger.Warn().
				Str("archetype", string(archetype)).
				Str("model", model).
				Int("attempt", attempt+1).
				Err(err).
				Msg("orchestrator: generation attempt failed")
			if domain.ClassifyProviderError(err) == domain.FailureAuth {
				return nil, err
			}
			continue
		}

		score := ScoreCandidate(candidate.Data)
		o.logger.Debug().
			Str("archetype", string(archetype)).
			Str("model", model).
			Int("attempt", attempt+1).
			Int("score", score).
			Int("bytes", len(candidate.Data)).
			Msg("orchestrator: scored candidate")
		if score >= ScoreAccept {
			return &scored{candidate: candidate, score: score}, nil
		}
		if best == nil || score > best.score {
			best = &scored{candidate: candidate, score: score}
		}
	}
	if best != nil {
		return best, nil
	}
	return nil, lastErr
}

// runFallback gives the secondary provider a single paced attempt. Its
// output only needs to be a real image; the acceptance threshold does not
// apply to a last-resort result.
func (o *Orchestrator) runFallback(ctx context.Context, archetype domain.SceneArchetype, req image.GenerateRequest) (*scored, error) {
	if o.fallback == nil {
		return nil, errors.New("no fallback provider configured")
	}
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	candidate, err := o.fallback.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	score := ScoreCandidate(candidate.Data)
	if score == 0 {
		return nil, fmt.Errorf("%s: fallback payload rejected by validator", o.fallback.Name())
	}
	return &scored{candidate: candidate, score: score}, nil
}

func (o *Orchestrator) sceneFrom(archetype domain.SceneArchetype, req image.GenerateRequest, result *scored, provider domain.GenerationProvider) *domain.GeneratedScene {
	return &domain.GeneratedScene{
		ID:           uuid.NewString(),
		Archetype:    archetype,
		ImageData:    result.candidate.Data,
		MIME:         result.candidate.MIME,
		PromptUsed:   req.Positive,
		GeneratedAt:  time.Now().UTC(),
		Provider:     provider,
		Model:        result.candidate.Model,
		QualityScore: result.score,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
