package gemini

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"scenegen/internal/domain"
)

func imageResponse(t *testing.T, data []byte, mime string) string {
	t.Helper()
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]any{
					{"text": "here is your image"},
					{"inlineData": map[string]any{
						"mimeType": mime,
						"data":     base64.StdEncoding.EncodeToString(data),
					}},
				},
			},
		}},
	}
	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal response: %v", err)
	}
	return string(raw)
}

func TestGenerateImageSuccess(t *testing.T) {
	want := []byte("png-bytes")
	var gotPath, gotKey string
	var gotBody generateContentRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(imageResponse(t, want, "image/png")))
	}))
	defer srv.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	asset, err := client.GenerateImage(context.Background(), ImageRequest{
		Model:          "gemini-test-model",
		Prompt:         "a mug on a table",
		NegativePrompt: "blurry, text",
		References:     []Reference{{MIME: "image/jpeg", Data: []byte("ref-bytes")}},
	})
	if err != nil {
		t.Fatalf("GenerateImage: %v", err)
	}

	if string(asset.Data) != string(want) || asset.MIME != "image/png" {
		t.Errorf("asset = %d bytes / %q, want %d bytes / image/png", len(asset.Data), asset.MIME, len(want))
	}
	if gotPath != "/models/gemini-test-model:generateContent" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(gotBody.Contents) != 1 || len(gotBody.Contents[0].Parts) != 2 {
		t.Fatalf("request shape = %+v", gotBody)
	}
	text := gotBody.Contents[0].Parts[0].Text
	if !strings.Contains(text, "a mug on a table") || !strings.Contains(text, "Strictly avoid: blurry, text.") {
		t.Errorf("prompt text = %q", text)
	}
	if gotBody.Contents[0].Parts[1].InlineData == nil {
		t.Error("reference image missing from request")
	}
}

func TestGenerateImageStatusClassification(t *testing.T) {
	cases := []struct {
		name   string
		status int
		want   error
	}{
		{"unauthorized", http.StatusUnauthorized, domain.ErrProviderAuth},
		{"forbidden", http.StatusForbidden, domain.ErrProviderAuth},
		{"rate limited", http.StatusTooManyRequests, domain.ErrProviderQuota},
		{"server error", http.StatusInternalServerError, domain.ErrProviderTransient},
		{"unavailable", http.StatusServiceUnavailable, domain.ErrProviderTransient},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(`{"error":{"message":"upstream says no"}}`))
			}))
			defer srv.Close()

			client, err := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
			if err != nil {
				t.Fatalf("NewClient: %v", err)
			}
			_, err = client.GenerateImage(context.Background(), ImageRequest{Model: "m", Prompt: "p"})
			if !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
			if !strings.Contains(err.Error(), "upstream says no") {
				t.Errorf("err %q missing upstream detail", err)
			}
		})
	}
}

func TestGenerateImageMissingKey(t *testing.T) {
	client, err := NewClient(Options{})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if client.HasCredentials() {
		t.Fatal("expected no credentials")
	}
	_, err = client.GenerateImage(context.Background(), ImageRequest{Model: "m", Prompt: "p"})
	if !errors.Is(err, domain.ErrProviderAuth) {
		t.Fatalf("err = %v, want %v", err, domain.ErrProviderAuth)
	}
}

func TestGenerateImageNoImageContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry, only words"}]}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Options{APIKey: "test-key", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = client.GenerateImage(context.Background(), ImageRequest{Model: "m", Prompt: "p"})
	if !errors.Is(err, domain.ErrProviderTransient) {
		t.Fatalf("err = %v, want transient classification", err)
	}
}
