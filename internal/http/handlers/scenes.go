package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"scenegen/internal/domain"
	"scenegen/internal/infra"
	"scenegen/internal/middleware"
	"scenegen/internal/pipeline"
	"scenegen/pkg/zip"
)

type imagePayload struct {
	Data string `json:"data,omitempty"`
	MIME string `json:"mime,omitempty"`
	URL  string `json:"url,omitempty"`
}

type productPayload struct {
	Name             string         `json:"name"`
	PrimaryImage     imagePayload   `json:"primary_image"`
	AdditionalImages []imagePayload `json:"additional_images,omitempty"`
}

type businessContextPayload struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Tone        string `json:"tone"`
}

type generateScenesRequest struct {
	Product         productPayload          `json:"product"`
	Scenes          []string                `json:"scenes"`
	MoodText        string                  `json:"mood_text"`
	BusinessContext *businessContextPayload `json:"business_context,omitempty"`
	BrandPalette    []string                `json:"brand_palette,omitempty"`
}

type interpretationPayload struct {
	Temperature   string   `json:"temperature"`
	Energy        string   `json:"energy"`
	MaterialBias  string   `json:"material_bias"`
	LightQuality  string   `json:"light_quality"`
	WasOverridden bool     `json:"was_overridden"`
	OverrideNotes []string `json:"override_notes,omitempty"`
}

type generatedScenePayload struct {
	ID           string    `json:"id"`
	Archetype    string    `json:"archetype"`
	ImageBase64  string    `json:"image_base64"`
	MIME         string    `json:"mime"`
	PromptUsed   string    `json:"prompt_used"`
	Provider     string    `json:"provider"`
	Model        string    `json:"model"`
	QualityScore int       `json:"quality_score"`
	GeneratedAt  time.Time `json:"generated_at"`
}

type generateScenesResponse struct {
	RequestID      string                  `json:"request_id"`
	Scenes         []generatedScenePayload `json:"scenes"`
	Interpretation interpretationPayload   `json:"interpretation"`
}

// ScenesGenerate runs one generation batch synchronously and returns the
// ordered scenes, or a single descriptive error when the batch fails.
func (a *App) ScenesGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateScenesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	scenes := make([]domain.SceneArchetype, 0, len(req.Scenes))
	for _, raw := range req.Scenes {
		archetype, err := domain.ParseSceneArchetype(raw)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		scenes = append(scenes, archetype)
	}

	product, err := a.resolveProduct(r, req.Product)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	requestID := middleware.RequestIDFromContext(r.Context())
	apiKey := strings.TrimSpace(r.Header.Get("X-Api-Key"))
	if apiKey == "" {
		apiKey = a.Config.GeminiAPIKey
	}

	logger := a.Logger.With().Str("request_id", requestID).Logger()
	progress := func(current, total int, archetype domain.SceneArchetype) {
		logger.Info().
			Int("scene", current+1).
			Int("total", total).
			Str("archetype", string(archetype)).
			Msg("scenes: generation starting")
	}

	pipe, err := a.NewPipeline(apiKey, progress)
	if err != nil {
		logger.Error().Err(err).Msg("scenes: pipeline setup failed")
		a.error(w, http.StatusInternalServerError, "internal", "failed to configure generation pipeline")
		return
	}

	result, err := pipe.Run(r.Context(), pipeline.Request{
		Product:      product,
		Scenes:       scenes,
		MoodText:     req.MoodText,
		Business:     toBusinessContext(req.BusinessContext),
		BrandPalette: req.BrandPalette,
		RequestID:    requestID,
	})
	if err != nil {
		a.writeBatchError(w, logger, err)
		return
	}

	if strings.EqualFold(r.URL.Query().Get("format"), "zip") {
		a.writeZip(w, requestID, result.Scenes)
		return
	}
	a.json(w, http.StatusOK, toResponse(requestID, result))
}

// resolveProduct turns the wire payload into reference bytes. Inline base64
// images decode in place; URL-based ones are collected and prefetched in a
// single concurrent pass before the product is assembled.
func (a *App) resolveProduct(r *http.Request, payload productPayload) (domain.ProductDescriptor, error) {
	payloads := append([]imagePayload{payload.PrimaryImage}, payload.AdditionalImages...)
	resolved := make([]domain.ReferenceImage, len(payloads))
	var (
		urls     []string
		urlSlots []int
	)
	for i, img := range payloads {
		switch {
		case img.Data != "":
			ref, err := decodeInlineImage(img)
			if err != nil {
				return domain.ProductDescriptor{}, imageSlotError(i, err)
			}
			resolved[i] = ref
		case img.URL != "":
			urls = append(urls, img.URL)
			urlSlots = append(urlSlots, i)
		default:
			return domain.ProductDescriptor{}, imageSlotError(i, errors.New("either data or url is required"))
		}
	}
	if len(urls) > 0 {
		fetched, err := a.Fetcher.FetchAll(r.Context(), urls)
		if err != nil {
			return domain.ProductDescriptor{}, fmt.Errorf("fetch reference images: %w", err)
		}
		for j, slot := range urlSlots {
			resolved[slot] = fetched[j]
		}
	}
	product := domain.ProductDescriptor{
		Name:       strings.TrimSpace(payload.Name),
		Primary:    resolved[0],
		Additional: resolved[1:],
	}
	if err := product.Validate(); err != nil {
		return domain.ProductDescriptor{}, err
	}
	return product, nil
}

func decodeInlineImage(payload imagePayload) (domain.ReferenceImage, error) {
	data, err := base64.StdEncoding.DecodeString(payload.Data)
	if err != nil {
		return domain.ReferenceImage{}, fmt.Errorf("invalid base64 image data: %w", err)
	}
	mime := payload.MIME
	if mime == "" {
		mime = "image/jpeg"
	}
	return domain.ReferenceImage{Data: data, MIME: mime}, nil
}

func imageSlotError(slot int, err error) error {
	if slot == 0 {
		return fmt.Errorf("primary image: %w", err)
	}
	return fmt.Errorf("additional image %d: %w", slot, err)
}

func (a *App) writeBatchError(w http.ResponseWriter, logger infra.Logger, err error) {
	var exhausted *domain.ExhaustedError
	switch {
	case errors.As(err, &exhausted):
		status, code := failureStatus(exhausted.Kind())
		logger.Error().Err(err).Msg("scenes: batch failed")
		a.error(w, status, code, exhausted.Error())
	case errors.Is(err, domain.ErrInvalidProduct),
		errors.Is(err, domain.ErrUnknownArchetype),
		errors.Is(err, domain.ErrNoScenesSelected),
		errors.Is(err, domain.ErrTooManyScenes):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	default:
		logger.Error().Err(err).Msg("scenes: batch failed")
		a.error(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

func (a *App) writeZip(w http.ResponseWriter, requestID string, scenes []domain.GeneratedScene) {
	archive := zip.ArchiveScenes(scenes)
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "scenes-"+requestID+".zip"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
}

func toBusinessContext(payload *businessContextPayload) *domain.BusinessContext {
	if payload == nil {
		return nil
	}
	return &domain.BusinessContext{
		Name:        payload.Name,
		Description: payload.Description,
		Tone:        payload.Tone,
	}
}

func toResponse(requestID string, result *pipeline.Result) generateScenesResponse {
	scenes := make([]generatedScenePayload, 0, len(result.Scenes))
	for _, scene := range result.Scenes {
		scenes = append(scenes, generatedScenePayload{
			ID:           scene.ID,
			Archetype:    string(scene.Archetype),
			ImageBase64:  base64.StdEncoding.EncodeToString(scene.ImageData),
			MIME:         scene.MIME,
			PromptUsed:   scene.PromptUsed,
			Provider:     string(scene.Provider),
			Model:        scene.Model,
			QualityScore: scene.QualityScore,
			GeneratedAt:  scene.GeneratedAt,
		})
	}
	interp := result.Interpretation
	return generateScenesResponse{
		RequestID: requestID,
		Scenes:    scenes,
		Interpretation: interpretationPayload{
			Temperature:   string(interp.Temperature),
			Energy:        string(interp.Energy),
			MaterialBias:  string(interp.MaterialBias),
			LightQuality:  string(interp.LightQuality),
			WasOverridden: interp.WasOverridden,
			OverrideNotes: interp.OverrideNotes,
		},
	}
}
