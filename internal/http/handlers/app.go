package handlers

import (
	"encoding/json"
	"net/http"

	"scenegen/internal/domain"
	"scenegen/internal/infra"
	"scenegen/internal/pipeline"
	"scenegen/internal/providers/gemini"
	"scenegen/internal/providers/image"
	"scenegen/internal/providers/pollinations"
	"scenegen/internal/refimg"
)

// PipelineFactory builds a pipeline bound to the given credential. The
// credential is resolved per request, so pipelines are constructed per batch
// rather than held on the App.
type PipelineFactory func(apiKey string, progress pipeline.ProgressFunc) (*pipeline.Pipeline, error)

// App is the handler container: configuration, logging, the reference image
// fetcher and the pipeline factory.
type App struct {
	Config      *infra.Config
	Logger      infra.Logger
	Fetcher     *refimg.Fetcher
	NewPipeline PipelineFactory
}

// NewApp wires the default production factory.
func NewApp(cfg *infra.Config, logger infra.Logger) *App {
	app := &App{
		Config:  cfg,
		Logger:  logger,
		Fetcher: refimg.NewFetcher(refimg.Options{}),
	}
	app.NewPipeline = app.buildPipeline
	return app
}

// buildPipeline assembles the provider cascade for one batch. Without a
// credential in a development environment the synthetic generator keeps the
// whole path exercisable; in production a missing key surfaces as an auth
// failure from the real provider.
func (a *App) buildPipeline(apiKey string, progress pipeline.ProgressFunc) (*pipeline.Pipeline, error) {
	var primary image.Generator
	if apiKey == "" && a.Config.AppEnv == "development" {
		primary = image.NewSynthetic()
	} else {
		client, err := gemini.NewClient(gemini.Options{
			APIKey:         apiKey,
			BaseURL:        a.Config.GeminiBaseURL,
			Logger:         &a.Logger,
			RequestTimeout: a.Config.ProviderTimeout,
		})
		if err != nil {
			return nil, err
		}
		primary = image.NewGeminiGenerator(client)
	}

	fallback := image.NewPollinationsGenerator(pollinations.NewClient(pollinations.Options{
		BaseURL:        a.Config.FallbackBaseURL,
		Logger:         &a.Logger,
		RequestTimeout: a.Config.ProviderTimeout,
	}))

	orchestrator, err := pipeline.NewOrchestrator(pipeline.OrchestratorOptions{
		Primary:           primary,
		Fallback:          fallback,
		Models:            a.Config.GeminiModels,
		AttemptsPerSecond: a.Config.AttemptsPerSecond,
		RetryInterval:     a.Config.RetryInterval,
		Logger:            &a.Logger,
	})
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Options{
		Orchestrator: orchestrator,
		Logger:       &a.Logger,
		Progress:     progress,
	})
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, message string) {
	a.json(w, code, map[string]string{"error": errCode, "message": message})
}

// failureStatus maps a terminal batch failure onto an HTTP status and code.
func failureStatus(kind domain.FailureKind) (int, string) {
	switch kind {
	case domain.FailureAuth:
		return http.StatusBadGateway, "provider_auth"
	case domain.FailureQuota:
		return http.StatusServiceUnavailable, "provider_quota"
	default:
		return http.StatusBadGateway, "generation_failed"
	}
}
