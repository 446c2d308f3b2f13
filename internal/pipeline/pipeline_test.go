package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"scenegen/internal/domain"
	"scenegen/internal/prompt"
	"scenegen/internal/providers/image"
)

func testProduct() domain.ProductDescriptor {
	return domain.ProductDescriptor{
		Name:    "ceramic mug",
		Primary: domain.ReferenceImage{Data: []byte("fake-jpeg-bytes"), MIME: "image/jpeg"},
	}
}

func newTestPipeline(t *testing.T, o *Orchestrator, progress ProgressFunc) *Pipeline {
	t.Helper()
	p, err := New(Options{Orchestrator: o, Progress: progress})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return p
}

func TestRunGeneratesScenesInOrder(t *testing.T) {
	good := pngPayload(t, 50*1024)
	primary := &stubGenerator{name: "primary", results: []stubResult{
		{data: good}, {data: good},
	}}
	o := newTestOrchestrator(t, primary, nil, "model-a")

	var progressed []domain.SceneArchetype
	p := newTestPipeline(t, o, func(current, total int, archetype domain.SceneArchetype) {
		if total != 2 {
			t.Errorf("progress total = %d, want 2", total)
		}
		progressed = append(progressed, archetype)
	})

	scenes := []domain.SceneArchetype{domain.SceneStudio, domain.SceneLifestyle}
	result, err := p.Run(context.Background(), Request{
		Product:  testProduct(),
		Scenes:   scenes,
		MoodText: "warm cozy morning",
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(result.Scenes) != 2 {
		t.Fatalf("got %d scenes, want 2", len(result.Scenes))
	}
	for i, scene := range result.Scenes {
		if scene.Archetype != scenes[i] {
			t.Errorf("scene %d archetype = %q, want %q", i, scene.Archetype, scenes[i])
		}
		if !strings.Contains(scene.PromptUsed, "ceramic mug") {
			t.Errorf("scene %d prompt missing the product name:\n%s", i, scene.PromptUsed)
		}
		if !strings.Contains(scene.PromptUsed, prompt.ConsistencyDirective) {
			t.Errorf("scene %d prompt missing the consistency directive", i)
		}
	}
	if len(progressed) != 2 || progressed[0] != domain.SceneStudio || progressed[1] != domain.SceneLifestyle {
		t.Errorf("progress order = %v", progressed)
	}

	// "warm" survives for lifestyle but studio is clamped; the batch records it.
	if !result.Interpretation.WasOverridden {
		t.Error("expected the studio clamp to be recorded on the interpretation")
	}
	if result.Interpretation.Temperature != domain.TemperatureWarm {
		t.Errorf("batch temperature = %q, want warm", result.Interpretation.Temperature)
	}
}

func TestRunAbortsBatchOnFirstExhaustedScene(t *testing.T) {
	good := pngPayload(t, 50*1024)
	// Scene one succeeds; scene two exhausts both variants. Any further call
	// would trip the stub's unexpected-call guard.
	primary := &stubGenerator{name: "primary", results: []stubResult{
		{data: good},
		{err: domain.ErrProviderTransient},
		{err: domain.ErrProviderTransient},
		{err: domain.ErrProviderTransient},
		{err: domain.ErrProviderTransient},
	}}
	fallback := &stubGenerator{name: "fallback", results: []stubResult{
		{err: errors.New("fallback unreachable")},
	}}
	o := newTestOrchestrator(t, primary, fallback, "model-a", "model-b")

	var progressed int
	p := newTestPipeline(t, o, func(int, int, domain.SceneArchetype) { progressed++ })

	result, err := p.Run(context.Background(), Request{
		Product: testProduct(),
		Scenes:  []domain.SceneArchetype{domain.SceneStudio, domain.SceneLifestyle, domain.SceneEditorial},
	})
	if err == nil {
		t.Fatal("expected the batch to fail")
	}
	if result != nil {
		t.Fatal("a failed batch must not return partial results")
	}
	var exhausted *domain.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error type = %T, want *domain.ExhaustedError", err)
	}
	if exhausted.SceneIndex != 1 {
		t.Errorf("failed scene index = %d, want 1", exhausted.SceneIndex)
	}
	// The third scene is never attempted: two progress callbacks, and the
	// primary stub saw exactly one call for scene one plus four for scene two.
	if progressed != 2 {
		t.Errorf("progress callbacks = %d, want 2", progressed)
	}
	if len(primary.calls) != 5 {
		t.Errorf("primary calls = %d, want 5", len(primary.calls))
	}
}

func TestRunValidatesRequest(t *testing.T) {
	o := newTestOrchestrator(t, &stubGenerator{name: "primary"}, nil, "model-a")
	p := newTestPipeline(t, o, nil)

	cases := []struct {
		name string
		req  Request
		want error
	}{
		{
			name: "no scenes",
			req:  Request{Product: testProduct()},
			want: domain.ErrNoScenesSelected,
		},
		{
			name: "too many scenes",
			req: Request{
				Product: testProduct(),
				Scenes: []domain.SceneArchetype{
					domain.SceneStudio, domain.SceneStudio,
					domain.SceneStudio, domain.SceneStudio,
				},
			},
			want: domain.ErrTooManyScenes,
		},
		{
			name: "unknown archetype",
			req: Request{
				Product: testProduct(),
				Scenes:  []domain.SceneArchetype{"catalog"},
			},
			want: domain.ErrUnknownArchetype,
		},
		{
			name: "missing product image",
			req: Request{
				Product: domain.ProductDescriptor{Name: "mug"},
				Scenes:  []domain.SceneArchetype{domain.SceneStudio},
			},
			want: domain.ErrInvalidProduct,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.Run(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}
}

// cancellingGenerator cancels the batch context while producing scene one.
type cancellingGenerator struct {
	inner  *stubGenerator
	cancel context.CancelFunc
}

func (c *cancellingGenerator) Generate(ctx context.Context, req image.GenerateRequest) (*image.Candidate, error) {
	defer c.cancel()
	return c.inner.Generate(ctx, req)
}

func (c *cancellingGenerator) Name() string { return c.inner.Name() }

func TestRunHonorsContextBetweenScenes(t *testing.T) {
	good := pngPayload(t, 50*1024)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	inner := &stubGenerator{name: "primary", results: []stubResult{{data: good}}}
	o := newTestOrchestrator(t, &cancellingGenerator{inner: inner, cancel: cancel}, nil, "model-a")
	p := newTestPipeline(t, o, nil)

	result, err := p.Run(ctx, Request{
		Product: testProduct(),
		Scenes:  []domain.SceneArchetype{domain.SceneStudio, domain.SceneLifestyle},
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if result != nil {
		t.Fatal("a cancelled batch must not return partial results")
	}
	if len(inner.calls) != 1 {
		t.Fatalf("primary calls = %d, want 1; the second scene must never start", len(inner.calls))
	}
}
