package image

import (
	"bytes"
	"context"
	"image/png"
	"testing"
)

func TestSyntheticIsDeterministic(t *testing.T) {
	gen := NewSynthetic()
	req := GenerateRequest{RequestID: "req-1", Model: "m", Positive: "warm mug"}

	first, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	again, err := gen.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !bytes.Equal(first.Data, again.Data) {
		t.Error("identical requests must render identical payloads")
	}

	other, err := gen.Generate(context.Background(), GenerateRequest{RequestID: "req-2", Model: "m", Positive: "warm mug"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if bytes.Equal(first.Data, other.Data) {
		t.Error("different requests should render distinct payloads")
	}
}

func TestSyntheticRendersValidPNG(t *testing.T) {
	gen := NewSynthetic()
	candidate, err := gen.Generate(context.Background(), GenerateRequest{Positive: "p"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(candidate.Data))
	if err != nil {
		t.Fatalf("payload is not a png: %v", err)
	}
	if cfg.Width != 1024 || cfg.Height != 1024 {
		t.Errorf("canvas = %dx%d, want 1024x1024", cfg.Width, cfg.Height)
	}
	if len(candidate.Data) < 20*1024 {
		t.Errorf("payload = %d bytes, too small to clear quality validation", len(candidate.Data))
	}
}

func TestSyntheticHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSynthetic().Generate(ctx, GenerateRequest{Positive: "p"}); err == nil {
		t.Fatal("expected an error for a cancelled context")
	}
}
