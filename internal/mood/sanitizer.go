// Package mood turns free-text mood descriptions into the structured
// interpretation that drives prompt compilation.
package mood

import (
	"regexp"
	"strings"
)

// maxSanitizedLen caps the sanitized mood text length in runes.
const maxSanitizedLen = 200

var (
	urlPattern = regexp.MustCompile(`(?i)\bhttps?://\S+|\bwww\.\S+`)

	// Pictographs, symbols and variation selectors commonly pasted from chat
	// input. Anything outside these ranges rides through untouched.
	emojiPattern = regexp.MustCompile(`[\x{1F000}-\x{1FAFF}\x{2600}-\x{27BF}\x{2B00}-\x{2BFF}\x{2190}-\x{21FF}\x{FE00}-\x{FE0F}\x{200D}]`)

	whitespacePattern = regexp.MustCompile(`\s+`)
)

// brandTokens are stripped so third-party brand names never reach a prompt.
var brandTokens = []string{
	"nike", "adidas", "apple", "samsung", "ikea", "zara", "gucci", "chanel",
	"coca-cola", "starbucks", "sony", "dyson",
}

// cameraJargon strips technical photography vocabulary; the archetype policy
// owns the camera direction, not the mood text.
var cameraJargon = []string{
	"bokeh", "aperture", "f-stop", "iso", "dslr", "mirrorless", "85mm",
	"50mm", "35mm", "telephoto", "wide-angle", "shutter", "hdr", "raw",
}

// hypeWords strips superlative filler that carries no classifiable signal.
var hypeWords = []string{
	"insane", "epic", "ultimate", "amazing", "stunning", "gorgeous",
	"best", "perfect", "viral", "trendy", "next-level", "mind-blowing",
	"aesthetic", "vibes", "vibe",
}

// Sanitize normalizes raw mood text. It never fails; hostile or nonsensical
// input simply degrades to an empty string, which downstream treats as
// "no mood supplied".
func Sanitize(raw string) string {
	text := urlPattern.ReplaceAllString(raw, " ")
	text = emojiPattern.ReplaceAllString(text, " ")
	text = strings.ToLower(text)
	text = stripTokens(text, brandTokens)
	text = stripTokens(text, cameraJargon)
	text = stripTokens(text, hypeWords)
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if runes := []rune(text); len(runes) > maxSanitizedLen {
		text = strings.TrimSpace(string(runes[:maxSanitizedLen]))
	}
	return text
}

// TooShort reports whether sanitized text carries no classifiable signal.
func TooShort(sanitized string) bool {
	return len([]rune(sanitized)) <= 1
}

func stripTokens(text string, tokens []string) string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == ','
	})
	kept := fields[:0]
	for _, field := range fields {
		trimmed := strings.Trim(field, ".,;:!?\"'()")
		if containsToken(tokens, trimmed) {
			continue
		}
		kept = append(kept, field)
	}
	return strings.Join(kept, " ")
}

func containsToken(tokens []string, candidate string) bool {
	for _, token := range tokens {
		if candidate == token {
			return true
		}
	}
	return false
}
