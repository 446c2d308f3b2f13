// Package prompt compiles archetype policies and resolved moods into the
// positive/negative pair submitted to image providers.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"scenegen/internal/domain"
)

var titleCaser = cases.Title(language.English)

// Compile produces the prompt pair for one scene. The archetype template
// supplies nearly all of the content; the mood only reaches the output
// through the short modifier clauses and the material hint, so it can tint
// the image but never rearrange the scene. Compilation is pure: identical
// inputs always yield an identical pair.
func Compile(archetype domain.SceneArchetype, interp domain.MoodInterpretation, productName string, biz *domain.BusinessContext, palette []string) domain.PromptPair {
	policy := domain.PolicyFor(archetype)
	name := strings.TrimSpace(productName)

	var b strings.Builder
	fmt.Fprintf(&b, "Photorealistic %s product photograph of %s, exactly as shown in the reference image.", string(archetype), name)
	b.WriteString(" Background: " + policy.Background + ".")
	b.WriteString(" Lighting: " + policy.Lighting + ".")
	b.WriteString(" Composition: " + policy.Composition + ".")
	b.WriteString(" Preserve the product's exact shape, materials, colors and markings from the reference image.")

	if modifier := moodModifier(interp); modifier != "" {
		b.WriteString(" " + modifier)
	}
	if hint := materialHint(policy, interp.MaterialBias); hint != "" {
		b.WriteString(" " + hint)
	}
	if suffix := guidanceSuffix(biz, palette); suffix != "" {
		b.WriteString(" " + suffix)
	}

	return domain.PromptPair{
		Positive: b.String(),
		Negative: strings.Join(policy.Negatives, ", "),
	}
}

// moodModifier is the sole channel through which the user's mood shapes the
// output: at most one color-temperature clause and one tonal clause.
func moodModifier(interp domain.MoodInterpretation) string {
	var clauses []string
	switch interp.Temperature {
	case domain.TemperatureWarm:
		clauses = append(clauses, "Grade the color palette gently toward warm tones")
	case domain.TemperatureCool:
		clauses = append(clauses, "Grade the color palette gently toward cool tones")
	}
	switch interp.Energy {
	case domain.EnergyCalm:
		clauses = append(clauses, "keep the overall tonality restrained and serene")
	case domain.EnergyVibrant:
		clauses = append(clauses, "allow confident, saturated color accents")
	}
	if len(clauses) == 0 {
		return ""
	}
	joined := strings.Join(clauses, "; ") + "."
	return titleCaser.String(joined[:1]) + joined[1:]
}

// materialHint stages the product on the biased surface. Studio forbids
// props and surfaces by policy, so it never receives a hint.
func materialHint(policy domain.ArchetypePolicy, bias domain.MaterialBias) string {
	if !policy.AllowProps || bias == domain.MaterialNone {
		return ""
	}
	return fmt.Sprintf("Stage the product on a natural %s surface.", string(bias))
}

// guidanceSuffix carries brand context as advisory flavor only. The explicit
// instruction keeps downstream models from letting it rearrange the scene.
func guidanceSuffix(biz *domain.BusinessContext, palette []string) string {
	var parts []string
	if biz != nil {
		if name := strings.TrimSpace(biz.Name); name != "" {
			parts = append(parts, "brand "+name)
		}
		if desc := strings.TrimSpace(biz.Description); desc != "" {
			parts = append(parts, desc)
		}
		if tone := strings.TrimSpace(biz.Tone); tone != "" {
			parts = append(parts, "tone of voice: "+tone)
		}
	}
	if colors := cleanPalette(palette); len(colors) > 0 {
		parts = append(parts, "brand palette: "+strings.Join(colors, ", "))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Brand guidance, for flavor only and never overriding the composition above: " + strings.Join(parts, "; ") + "."
}

func cleanPalette(palette []string) []string {
	var colors []string
	for _, color := range palette {
		if color = strings.TrimSpace(color); color != "" {
			colors = append(colors, color)
		}
	}
	return colors
}
