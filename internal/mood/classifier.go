package mood

import (
	"strings"

	"scenegen/internal/domain"
)

// Keyword dictionaries for the four mood dimensions. They are loaded once and
// never mutated; classification is a pure scoring pass over these maps.

var temperatureKeywords = map[domain.Temperature][]string{
	domain.TemperatureWarm:    {"warm", "cozy", "sunset", "golden", "amber", "autumn", "toasty", "honey", "rustic", "candlelit"},
	domain.TemperatureCool:    {"cool", "cold", "icy", "winter", "blue", "crisp", "arctic", "frosty", "misty", "slate"},
	domain.TemperatureNeutral: {"neutral", "balanced", "clean", "minimal", "monochrome"},
}

var energyKeywords = map[domain.Energy][]string{
	domain.EnergyCalm:     {"calm", "serene", "peaceful", "quiet", "tranquil", "relaxed", "gentle", "soothing", "zen", "cozy"},
	domain.EnergyVibrant:  {"vibrant", "bold", "energetic", "dynamic", "lively", "punchy", "neon", "electric", "playful", "loud"},
	domain.EnergyModerate: {"moderate", "steady", "everyday", "casual"},
}

var materialKeywords = map[domain.MaterialBias][]string{
	domain.MaterialMarble:   {"marble", "stone", "granite"},
	domain.MaterialWood:     {"wood", "wooden", "oak", "walnut", "timber", "rustic"},
	domain.MaterialConcrete: {"concrete", "cement", "industrial", "brutalist"},
	domain.MaterialFabric:   {"fabric", "linen", "cotton", "textile", "velvet", "silk"},
	domain.MaterialMetal:    {"metal", "metallic", "steel", "chrome", "brass", "copper"},
	domain.MaterialCeramic:  {"ceramic", "porcelain", "clay", "terracotta"},
}

var lightKeywords = map[domain.LightQuality][]string{
	domain.LightSoftDiffused: {"soft", "diffused", "overcast", "cloudy", "hazy", "airy"},
	domain.LightGoldenHour:   {"golden", "sunset", "sunrise", "dusk", "dawn", "evening"},
	domain.LightDirectional:  {"dramatic", "shadow", "contrast", "moody", "spotlight", "noir", "chiaroscuro"},
	domain.LightBrightEven:   {"bright", "daylight", "sunny", "crisp", "studio", "fresh"},
}

// Classification is the raw, policy-free reading of the sanitized text.
type Classification struct {
	Temperature  domain.Temperature
	Energy       domain.Energy
	MaterialBias domain.MaterialBias
	LightQuality domain.LightQuality
}

// DefaultClassification holds the per-dimension fallbacks used for ties,
// zero scores, and empty input.
func DefaultClassification() Classification {
	return Classification{
		Temperature:  domain.TemperatureNeutral,
		Energy:       domain.EnergyModerate,
		MaterialBias: domain.MaterialNone,
		LightQuality: domain.LightSoftDiffused,
	}
}

// Classify scores the sanitized text against every keyword table and returns
// the winning category per dimension. It is pure; no state survives a call.
func Classify(sanitized string) Classification {
	tokens := tokenize(sanitized)
	result := DefaultClassification()
	if len(tokens) == 0 {
		return result
	}
	if winner, ok := bestCategory(tokens, temperatureKeywords); ok {
		result.Temperature = winner
	}
	if winner, ok := bestCategory(tokens, energyKeywords); ok {
		result.Energy = winner
	}
	if winner, ok := bestCategory(tokens, materialKeywords); ok {
		result.MaterialBias = winner
	}
	if winner, ok := bestCategory(tokens, lightKeywords); ok {
		result.LightQuality = winner
	}
	return result
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\t' || r == '\n'
	})
}

// bestCategory returns the top-scoring category, or ok=false on a tie or a
// zero score so the caller keeps the dimension default.
func bestCategory[C comparable](tokens []string, table map[C][]string) (C, bool) {
	var winner C
	best, tie := 0, false
	for category, keywords := range table {
		score := scoreCategory(tokens, keywords)
		switch {
		case score > best:
			winner, best, tie = category, score, false
		case score == best && score > 0:
			tie = true
		}
	}
	if best == 0 || tie {
		var zero C
		return zero, false
	}
	return winner, true
}

// scoreCategory counts tokens matching any keyword. Substring containment is
// checked in both directions to tolerate word-form variation ("shadowy"
// matches "shadow", "gold" matches "golden").
func scoreCategory(tokens, keywords []string) int {
	score := 0
	for _, token := range tokens {
		for _, keyword := range keywords {
			if strings.Contains(token, keyword) || strings.Contains(keyword, token) {
				score++
				break
			}
		}
	}
	return score
}
