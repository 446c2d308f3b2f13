package infra

import "testing"

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODELS", "")
	t.Setenv("PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want 8080", cfg.Port)
	}
	if len(cfg.GeminiModels) != 2 || cfg.GeminiModels[0] != "gemini-2.5-flash-image" {
		t.Fatalf("GeminiModels mismatch: %#v", cfg.GeminiModels)
	}
	if cfg.FallbackBaseURL != "https://image.pollinations.ai" {
		t.Fatalf("FallbackBaseURL mismatch: %q", cfg.FallbackBaseURL)
	}
	if cfg.AttemptsPerSecond != 1 {
		t.Fatalf("AttemptsPerSecond = %v, want 1", cfg.AttemptsPerSecond)
	}
}

func TestLoadConfigModelListOverride(t *testing.T) {
	t.Setenv("GEMINI_MODELS", " model-a , model-b ,, ")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if len(cfg.GeminiModels) != 2 {
		t.Fatalf("GeminiModels = %#v, want 2 entries", cfg.GeminiModels)
	}
	if cfg.GeminiModels[0] != "model-a" || cfg.GeminiModels[1] != "model-b" {
		t.Fatalf("GeminiModels mismatch: %#v", cfg.GeminiModels)
	}
}

func TestLoadConfigTimeoutOverride(t *testing.T) {
	t.Setenv("PROVIDER_TIMEOUT_SECONDS", "15")
	t.Setenv("RETRY_INTERVAL_SECONDS", "1")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.ProviderTimeout.Seconds() != 15 {
		t.Fatalf("ProviderTimeout = %v, want 15s", cfg.ProviderTimeout)
	}
	if cfg.RetryInterval.Seconds() != 1 {
		t.Fatalf("RetryInterval = %v, want 1s", cfg.RetryInterval)
	}
}
