package mood

import (
	"strings"
	"testing"

	"scenegen/internal/domain"
)

func TestResolveStudioOnlyClampsMood(t *testing.T) {
	res := Resolve("warm marble dramatic shadows", []domain.SceneArchetype{domain.SceneStudio})

	batch := res.Batch
	if batch.Temperature != domain.TemperatureNeutral {
		t.Errorf("temperature = %q, want %q", batch.Temperature, domain.TemperatureNeutral)
	}
	if batch.MaterialBias != domain.MaterialNone {
		t.Errorf("material bias = %q, want %q", batch.MaterialBias, domain.MaterialNone)
	}
	if batch.LightQuality != domain.LightBrightEven {
		t.Errorf("light quality = %q, want %q", batch.LightQuality, domain.LightBrightEven)
	}
	if !batch.WasOverridden {
		t.Error("expected WasOverridden to be set")
	}
	if len(batch.OverrideNotes) == 0 {
		t.Fatal("expected override notes")
	}
	for _, note := range batch.OverrideNotes {
		if !strings.Contains(note, "forced to") {
			t.Errorf("note %q missing explanation", note)
		}
	}
}

func TestResolveMixedBatchKeepsWarmthOutsideStudio(t *testing.T) {
	scenes := []domain.SceneArchetype{domain.SceneStudio, domain.SceneLifestyle}
	res := Resolve("warm cozy", scenes)

	// The batch interpretation keeps the classified warmth; only the studio
	// scene is clamped to neutral.
	if res.Batch.Temperature != domain.TemperatureWarm {
		t.Errorf("batch temperature = %q, want %q", res.Batch.Temperature, domain.TemperatureWarm)
	}
	if got := res.EffectiveFor(domain.SceneStudio).Temperature; got != domain.TemperatureNeutral {
		t.Errorf("studio temperature = %q, want %q", got, domain.TemperatureNeutral)
	}
	if got := res.EffectiveFor(domain.SceneLifestyle).Temperature; got != domain.TemperatureWarm {
		t.Errorf("lifestyle temperature = %q, want %q", got, domain.TemperatureWarm)
	}
	if !res.Batch.WasOverridden {
		t.Error("expected the studio clamp to mark the batch as overridden")
	}
}

func TestResolveLifestyleSoftensDirectionalLight(t *testing.T) {
	res := Resolve("dramatic shadow contrast", []domain.SceneArchetype{domain.SceneLifestyle})

	if res.Batch.LightQuality != domain.LightSoftDiffused {
		t.Errorf("light quality = %q, want %q", res.Batch.LightQuality, domain.LightSoftDiffused)
	}
	if !res.Batch.WasOverridden {
		t.Error("expected WasOverridden to be set")
	}
}

func TestResolveEditorialFillsDefaults(t *testing.T) {
	res := Resolve("bright daylight", []domain.SceneArchetype{domain.SceneEditorial})

	// Editorial prefers directional light and a concrete backdrop. These are
	// fills, not conflicts, so no override is recorded.
	if res.Batch.LightQuality != domain.LightDirectional {
		t.Errorf("light quality = %q, want %q", res.Batch.LightQuality, domain.LightDirectional)
	}
	if res.Batch.MaterialBias != domain.MaterialConcrete {
		t.Errorf("material bias = %q, want %q", res.Batch.MaterialBias, domain.MaterialConcrete)
	}
	if res.Batch.WasOverridden {
		t.Error("editorial fills must not count as overrides")
	}
}

func TestResolveEmptyMoodUsesSceneDefaults(t *testing.T) {
	cases := []struct {
		name   string
		scenes []domain.SceneArchetype
		want   domain.MoodInterpretation
	}{
		{
			name:   "studio only",
			scenes: []domain.SceneArchetype{domain.SceneStudio},
			want: domain.MoodInterpretation{
				Temperature:  domain.TemperatureNeutral,
				Energy:       domain.EnergyCalm,
				MaterialBias: domain.MaterialNone,
				LightQuality: domain.LightBrightEven,
			},
		},
		{
			name:   "editorial only",
			scenes: []domain.SceneArchetype{domain.SceneEditorial},
			want: domain.MoodInterpretation{
				Temperature:  domain.TemperatureNeutral,
				Energy:       domain.EnergyCalm,
				MaterialBias: domain.MaterialConcrete,
				LightQuality: domain.LightDirectional,
			},
		},
		{
			name:   "mixed selection",
			scenes: []domain.SceneArchetype{domain.SceneStudio, domain.SceneLifestyle},
			want: domain.MoodInterpretation{
				Temperature:  domain.TemperatureNeutral,
				Energy:       domain.EnergyCalm,
				MaterialBias: domain.MaterialNone,
				LightQuality: domain.LightSoftDiffused,
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := Resolve("", tc.scenes)
			got := res.Batch
			if got.Temperature != tc.want.Temperature ||
				got.Energy != tc.want.Energy ||
				got.MaterialBias != tc.want.MaterialBias ||
				got.LightQuality != tc.want.LightQuality {
				t.Fatalf("batch = %+v, want %+v", got, tc.want)
			}
			if got.WasOverridden || len(got.OverrideNotes) != 0 {
				t.Fatal("defaults must never count as overrides")
			}
		})
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	scenes := []domain.SceneArchetype{domain.SceneStudio, domain.SceneLifestyle, domain.SceneEditorial}
	first := Resolve("warm rustic wood, calm morning", scenes)
	for i := 0; i < 5; i++ {
		again := Resolve("warm rustic wood, calm morning", scenes)
		if again.Batch.Temperature != first.Batch.Temperature ||
			again.Batch.MaterialBias != first.Batch.MaterialBias ||
			again.Batch.LightQuality != first.Batch.LightQuality ||
			len(again.Batch.OverrideNotes) != len(first.Batch.OverrideNotes) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again.Batch, first.Batch)
		}
	}
}
