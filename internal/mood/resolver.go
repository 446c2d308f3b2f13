package mood

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scenegen/internal/domain"
)

// Resolution is the resolver output: the single batch-level interpretation
// plus the per-scene effective values that compilation consumes. Archetype
// policy always wins over classified intent, and this type is the only place
// that precedence is enforced.
type Resolution struct {
	Batch    domain.MoodInterpretation
	PerScene map[domain.SceneArchetype]domain.MoodInterpretation
}

// EffectiveFor returns the interpretation a scene's prompt should use.
func (r Resolution) EffectiveFor(archetype domain.SceneArchetype) domain.MoodInterpretation {
	if interp, ok := r.PerScene[archetype]; ok {
		return interp
	}
	return r.Batch
}

var titleCaser = cases.Title(language.English)

// Resolve applies archetype policy over the classified mood. When the mood
// text carried no signal the classifier is bypassed entirely and scene-aware
// defaults are synthesized instead.
func Resolve(rawInput string, scenes []domain.SceneArchetype) Resolution {
	sanitized := Sanitize(rawInput)
	if TooShort(sanitized) {
		return resolveDefaults(rawInput, scenes)
	}
	return resolveClassified(rawInput, Classify(sanitized), scenes)
}

func resolveClassified(rawInput string, classified Classification, scenes []domain.SceneArchetype) Resolution {
	batch := domain.MoodInterpretation{
		Temperature:  classified.Temperature,
		Energy:       classified.Energy,
		MaterialBias: classified.MaterialBias,
		LightQuality: classified.LightQuality,
		RawInput:     rawInput,
	}

	var notes []string
	overridden := false

	// Batch-level policy. Studio rules only bind the whole batch when studio
	// is the sole selection; otherwise they clamp just the studio scene below.
	if onlyScene(scenes, domain.SceneStudio) {
		applyStudioClamp(&batch, &notes)
	}
	if selected(scenes, domain.SceneLifestyle) && batch.LightQuality == domain.LightDirectional {
		notes = append(notes, overrideNote(domain.SceneLifestyle, "light quality", string(domain.LightDirectional), string(domain.LightSoftDiffused)))
		batch.LightQuality = domain.LightSoftDiffused
	}
	if selected(scenes, domain.SceneEditorial) {
		// Preference and default fill, not conflicts; no note recorded.
		if batch.LightQuality == domain.LightBrightEven {
			batch.LightQuality = domain.LightDirectional
		}
		if batch.MaterialBias == domain.MaterialNone {
			batch.MaterialBias = domain.MaterialConcrete
		}
	}

	perScene := make(map[domain.SceneArchetype]domain.MoodInterpretation, len(scenes))
	for _, scene := range scenes {
		effective := batch
		switch scene {
		case domain.SceneStudio:
			applyStudioClamp(&effective, &notes)
		case domain.SceneLifestyle:
			if effective.LightQuality == domain.LightDirectional {
				notes = append(notes, overrideNote(scene, "light quality", string(domain.LightDirectional), string(domain.LightSoftDiffused)))
				effective.LightQuality = domain.LightSoftDiffused
			}
		case domain.SceneEditorial:
			if effective.LightQuality == domain.LightBrightEven {
				effective.LightQuality = domain.LightDirectional
			}
			if effective.MaterialBias == domain.MaterialNone {
				effective.MaterialBias = domain.MaterialConcrete
			}
		}
		perScene[scene] = effective
	}

	overridden = len(notes) > 0
	batch.WasOverridden = overridden
	batch.OverrideNotes = notes
	for scene, effective := range perScene {
		effective.WasOverridden = overridden
		effective.OverrideNotes = notes
		perScene[scene] = effective
	}
	return Resolution{Batch: batch, PerScene: perScene}
}

// applyStudioClamp forces the studio policy onto an interpretation, recording
// one note per value it actually changes.
func applyStudioClamp(interp *domain.MoodInterpretation, notes *[]string) {
	if interp.Temperature != domain.TemperatureNeutral {
		*notes = append(*notes, overrideNote(domain.SceneStudio, "temperature", string(interp.Temperature), string(domain.TemperatureNeutral)))
		interp.Temperature = domain.TemperatureNeutral
	}
	if interp.Energy == domain.EnergyVibrant {
		*notes = append(*notes, overrideNote(domain.SceneStudio, "energy", string(interp.Energy), string(domain.EnergyModerate)))
		interp.Energy = domain.EnergyModerate
	}
	if interp.MaterialBias != domain.MaterialNone {
		*notes = append(*notes, overrideNote(domain.SceneStudio, "material bias", string(interp.MaterialBias), string(domain.MaterialNone)))
		interp.MaterialBias = domain.MaterialNone
	}
	if interp.LightQuality != domain.LightSoftDiffused && interp.LightQuality != domain.LightBrightEven {
		*notes = append(*notes, overrideNote(domain.SceneStudio, "light quality", string(interp.LightQuality), string(domain.LightBrightEven)))
		interp.LightQuality = domain.LightBrightEven
	}
}

// resolveDefaults synthesizes an interpretation straight from the selection
// when no usable mood text was supplied. Nothing here counts as an override.
func resolveDefaults(rawInput string, scenes []domain.SceneArchetype) Resolution {
	base := domain.MoodInterpretation{
		Temperature:  domain.TemperatureNeutral,
		Energy:       domain.EnergyCalm,
		MaterialBias: domain.MaterialNone,
		LightQuality: domain.LightSoftDiffused,
		RawInput:     rawInput,
	}
	switch {
	case onlyScene(scenes, domain.SceneEditorial):
		base.MaterialBias = domain.MaterialConcrete
		base.LightQuality = domain.LightDirectional
	case onlyScene(scenes, domain.SceneStudio):
		base.LightQuality = domain.LightBrightEven
	}

	perScene := make(map[domain.SceneArchetype]domain.MoodInterpretation, len(scenes))
	for _, scene := range scenes {
		effective := base
		switch scene {
		case domain.SceneStudio:
			if effective.LightQuality != domain.LightSoftDiffused && effective.LightQuality != domain.LightBrightEven {
				effective.LightQuality = domain.LightBrightEven
			}
			effective.MaterialBias = domain.MaterialNone
		case domain.SceneEditorial:
			if effective.MaterialBias == domain.MaterialNone {
				effective.MaterialBias = domain.MaterialConcrete
			}
			if effective.LightQuality == domain.LightSoftDiffused {
				effective.LightQuality = domain.LightDirectional
			}
		}
		perScene[scene] = effective
	}
	return Resolution{Batch: base, PerScene: perScene}
}

func overrideNote(scene domain.SceneArchetype, dimension, from, to string) string {
	return fmt.Sprintf("%s: %s %q forced to %q by scene policy", titleCaser.String(string(scene)), dimension, from, to)
}

func selected(scenes []domain.SceneArchetype, target domain.SceneArchetype) bool {
	for _, scene := range scenes {
		if scene == target {
			return true
		}
	}
	return false
}

func onlyScene(scenes []domain.SceneArchetype, target domain.SceneArchetype) bool {
	if len(scenes) == 0 {
		return false
	}
	for _, scene := range scenes {
		if scene != target {
			return false
		}
	}
	return true
}
