package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"scenegen/internal/domain"
	"scenegen/internal/infra"
	"scenegen/internal/pipeline"
	"scenegen/internal/providers/gemini"
	"scenegen/internal/providers/image"
	"scenegen/internal/providers/pollinations"
	"scenegen/internal/storage"
	"scenegen/pkg/zip"
)

func main() {
	_ = godotenv.Load()

	var (
		productFlag   string
		imageFlag     string
		scenesFlag    string
		moodFlag      string
		outFlag       string
		zipFlag       bool
		syntheticFlag bool
	)
	flag.StringVar(&productFlag, "product", "", "product name")
	flag.StringVar(&imageFlag, "image", "", "path to the primary product reference image")
	flag.StringVar(&scenesFlag, "scenes", "studio", "comma-separated scene archetypes (studio, lifestyle, editorial)")
	flag.StringVar(&moodFlag, "mood", "", "free-text mood description")
	flag.StringVar(&outFlag, "out", "./output", "directory for generated images")
	flag.BoolVar(&zipFlag, "zip", false, "also write a zip bundle of the batch")
	flag.BoolVar(&syntheticFlag, "synthetic", false, "use the offline synthetic provider instead of Gemini")
	flag.Parse()

	if productFlag == "" || imageFlag == "" {
		fmt.Fprintln(os.Stderr, "-product and -image are required")
		os.Exit(1)
	}

	cfg, err := infra.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := infra.NewLogger(cfg.AppEnv).With().Str("cmd", "genscene").Logger()

	scenes, err := parseScenes(scenesFlag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	imageData, err := os.ReadFile(imageFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read image: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pipe, err := buildPipeline(cfg, logger, syntheticFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup pipeline: %v\n", err)
		os.Exit(1)
	}

	result, err := pipe.Run(ctx, pipeline.Request{
		Product: domain.ProductDescriptor{
			Name:    productFlag,
			Primary: domain.ReferenceImage{Data: imageData, MIME: mimeForPath(imageFlag)},
		},
		Scenes:    scenes,
		MoodText:  moodFlag,
		RequestID: "genscene-cli",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("genscene: batch failed")
	}

	store, err := storage.NewFileStore(outFlag)
	if err != nil {
		logger.Fatal().Err(err).Msg("genscene: configure output directory")
	}
	for i, scene := range result.Scenes {
		key, err := store.WriteScene(ctx, "", i, scene)
		if err != nil {
			logger.Fatal().Err(err).Msg("genscene: write image")
		}
		logger.Info().
			Str("file", filepath.Join(store.BasePath(), key)).
			Str("provider", string(scene.Provider)).
			Int("score", scene.QualityScore).
			Msg("genscene: scene written")
	}
	if zipFlag {
		if _, err := store.Write(ctx, "scenes.zip", zip.ArchiveScenes(result.Scenes)); err != nil {
			logger.Fatal().Err(err).Msg("genscene: write zip bundle")
		}
	}
	for _, note := range result.Interpretation.OverrideNotes {
		logger.Info().Str("note", note).Msg("genscene: mood override")
	}
}

func buildPipeline(cfg *infra.Config, logger infra.Logger, synthetic bool) (*pipeline.Pipeline, error) {
	var primary image.Generator
	if synthetic || cfg.GeminiAPIKey == "" {
		primary = image.NewSynthetic()
	} else {
		client, err := gemini.NewClient(gemini.Options{
			APIKey:         cfg.GeminiAPIKey,
			BaseURL:        cfg.GeminiBaseURL,
			Logger:         &logger,
			RequestTimeout: cfg.ProviderTimeout,
		})
		if err != nil {
			return nil, err
		}
		primary = image.NewGeminiGenerator(client)
	}
	fallback := image.NewPollinationsGenerator(pollinations.NewClient(pollinations.Options{
		BaseURL:        cfg.FallbackBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.ProviderTimeout,
	}))
	orchestrator, err := pipeline.NewOrchestrator(pipeline.OrchestratorOptions{
		Primary:           primary,
		Fallback:          fallback,
		Models:            cfg.GeminiModels,
		AttemptsPerSecond: cfg.AttemptsPerSecond,
		RetryInterval:     cfg.RetryInterval,
		Logger:            &logger,
	})
	if err != nil {
		return nil, err
	}
	progress := func(current, total int, archetype domain.SceneArchetype) {
		fmt.Printf("generating scene %d/%d (%s)...\n", current+1, total, archetype)
	}
	return pipeline.New(pipeline.Options{Orchestrator: orchestrator, Logger: &logger, Progress: progress})
}

func parseScenes(raw string) ([]domain.SceneArchetype, error) {
	var scenes []domain.SceneArchetype
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item == "" {
			continue
		}
		archetype, err := domain.ParseSceneArchetype(item)
		if err != nil {
			return nil, err
		}
		scenes = append(scenes, archetype)
	}
	if err := domain.ValidateSceneSelection(scenes); err != nil {
		return nil, err
	}
	return scenes, nil
}

func mimeForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
