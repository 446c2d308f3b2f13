package domain

// Temperature is the color-temperature dimension of a mood interpretation.
type Temperature string

const (
	TemperatureWarm    Temperature = "warm"
	TemperatureNeutral Temperature = "neutral"
	TemperatureCool    Temperature = "cool"
)

// Energy is the tonal-energy dimension.
type Energy string

const (
	EnergyCalm     Energy = "calm"
	EnergyModerate Energy = "moderate"
	EnergyVibrant  Energy = "vibrant"
)

// MaterialBias is the preferred staging surface, when the mood implies one.
type MaterialBias string

const (
	MaterialNone     MaterialBias = "none"
	MaterialMarble   MaterialBias = "marble"
	MaterialWood     MaterialBias = "wood"
	MaterialConcrete MaterialBias = "concrete"
	MaterialFabric   MaterialBias = "fabric"
	MaterialMetal    MaterialBias = "metal"
	MaterialCeramic  MaterialBias = "ceramic"
)

// LightQuality is the lighting character dimension.
type LightQuality string

const (
	LightSoftDiffused LightQuality = "soft-diffused"
	LightGoldenHour   LightQuality = "golden-hour"
	LightDirectional  LightQuality = "directional"
	LightBrightEven   LightQuality = "bright-even"
)

// MoodInterpretation is the four-dimensional structured reading of the
// caller's mood text after archetype policy has been applied. Exactly one
// exists per generation batch and it is immutable once the resolver returns.
type MoodInterpretation struct {
	Temperature   Temperature
	Energy        Energy
	MaterialBias  MaterialBias
	LightQuality  LightQuality
	RawInput      string
	WasOverridden bool
	OverrideNotes []string
}

// BusinessContext carries optional brand guidance supplied by the caller.
// It only ever feeds the clearly labeled guidance suffix of a prompt.
type BusinessContext struct {
	Name        string
	Description string
	Tone        string
}
