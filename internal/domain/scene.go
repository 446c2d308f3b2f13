package domain

import (
	"fmt"
	"strings"
	"time"
)

// SceneArchetype enumerates the fixed, policy-governed photography styles.
type SceneArchetype string

const (
	SceneStudio    SceneArchetype = "studio"
	SceneLifestyle SceneArchetype = "lifestyle"
	SceneEditorial SceneArchetype = "editorial"
)

// MaxScenesPerBatch caps how many archetypes a single batch may request.
const MaxScenesPerBatch = 3

// ParseSceneArchetype normalizes free-form input into a known archetype.
func ParseSceneArchetype(value string) (SceneArchetype, error) {
	switch SceneArchetype(strings.ToLower(strings.TrimSpace(value))) {
	case SceneStudio:
		return SceneStudio, nil
	case SceneLifestyle:
		return SceneLifestyle, nil
	case SceneEditorial:
		return SceneEditorial, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownArchetype, value)
	}
}

// ValidateSceneSelection checks the batch-level archetype invariants.
func ValidateSceneSelection(scenes []SceneArchetype) error {
	if len(scenes) == 0 {
		return ErrNoScenesSelected
	}
	if len(scenes) > MaxScenesPerBatch {
		return fmt.Errorf("%w: %d requested, max %d", ErrTooManyScenes, len(scenes), MaxScenesPerBatch)
	}
	for _, scene := range scenes {
		if _, err := ParseSceneArchetype(string(scene)); err != nil {
			return err
		}
	}
	return nil
}

// ArchetypePolicy captures the immutable photography direction owned by one
// archetype. Policies are configuration constants; the resolver and the
// prompt compiler read them, nothing writes them.
type ArchetypePolicy struct {
	Background  string
	Lighting    string
	Composition string
	AllowProps  bool
	Negatives   []string
}

// sharedNegatives are excluded from every archetype regardless of policy.
var sharedNegatives = []string{
	"blurry", "out of focus", "low resolution", "jpeg artifacts", "noise",
	"overexposed", "underexposed", "washed out colors",
	"warped product", "distorted proportions", "melted surfaces", "duplicated product",
	"cartoon", "illustration", "painting", "3d render look", "anime", "oversaturated hdr",
	"people", "hands", "faces", "body parts", "mannequin",
	"text", "watermark", "logo overlay", "brand stickers", "signature", "caption",
}

var archetypePolicies = map[SceneArchetype]ArchetypePolicy{
	SceneStudio: {
		Background:  "seamless matte white cyclorama background with a gentle floor-to-wall curve",
		Lighting:    "even three-point softbox lighting with a subtle overhead fill and no harsh shadows",
		Composition: "product perfectly centered, shot at eye level with a slight 10 degree downward tilt, 85mm equivalent perspective, generous negative space",
		AllowProps:  false,
		Negatives: append([]string{
			"props", "decorative objects", "surfaces other than the seamless background",
			"colored background", "gradient background", "environment",
		}, sharedNegatives...),
	},
	SceneLifestyle: {
		Background:  "inviting real-world interior setting with softly blurred depth, tasteful styling and breathing room around the product",
		Lighting:    "natural window light with soft shadows and gentle ambient bounce",
		Composition: "product as the clear hero in the foreground, rule-of-thirds placement, shallow depth of field, 50mm equivalent perspective",
		AllowProps:  true,
		Negatives: append([]string{
			"cluttered scene", "competing products", "busy background stealing focus",
		}, sharedNegatives...),
	},
	SceneEditorial: {
		Background:  "bold minimalist set with strong geometric shapes and a sculptural, high-fashion magazine atmosphere",
		Lighting:    "dramatic directional key light carving pronounced shadows with high contrast",
		Composition: "daring off-center composition with strong diagonals, low-angle hero perspective, cinematic framing",
		AllowProps:  true,
		Negatives: append([]string{
			"flat catalog look", "plain white background", "timid centered framing",
		}, sharedNegatives...),
	},
}

// PolicyFor returns the immutable policy owned by an archetype.
func PolicyFor(archetype SceneArchetype) ArchetypePolicy {
	return archetypePolicies[archetype]
}

// GenerationProvider records which provider family produced a scene.
type GenerationProvider string

const (
	ProviderPrimary  GenerationProvider = "primary"
	ProviderFallback GenerationProvider = "fallback"
)

// PromptPair is the positive/negative description compiled for one scene.
type PromptPair struct {
	Positive string
	Negative string
}

// GeneratedScene is the immutable result of one successfully generated scene.
type GeneratedScene struct {
	ID           string
	Archetype    SceneArchetype
	ImageData    []byte
	MIME         string
	PromptUsed   string
	GeneratedAt  time.Time
	Provider     GenerationProvider
	Model        string
	QualityScore int
}

// Filename returns the canonical asset name for the scene at the given batch
// position, like "01-studio.png". Storage and archive writers share it so a
// batch lays out identically everywhere.
func (s GeneratedScene) Filename(index int) string {
	ext := ".png"
	switch strings.ToLower(s.MIME) {
	case "image/jpeg", "image/jpg":
		ext = ".jpg"
	case "image/webp":
		ext = ".webp"
	}
	return fmt.Sprintf("%02d-%s%s", index+1, s.Archetype, ext)
}
