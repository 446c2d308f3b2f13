// Package gemini provides a lightweight HTTP client for the Gemini image
// generation API.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"scenegen/internal/domain"
	"scenegen/internal/infra"
)

// ErrMissingAPIKey indicates the client was configured without credentials.
var ErrMissingAPIKey = errors.New("gemini: api key is required")

// Options configures the Gemini client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the Gemini generateContent endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// Reference is one conditioning image attached to a generation request.
type Reference struct {
	MIME string
	Data []byte
}

// ImageRequest captures the inputs for a single generation attempt.
type ImageRequest struct {
	Model          string
	Prompt         string
	NegativePrompt string
	References     []Reference
	RequestID      string
}

// ImageAsset is the normalized result of one successful attempt.
type ImageAsset struct {
	Data []byte
	MIME string
}

type generateContentRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts,omitempty"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content      content `json:"content"`
		FinishReason string  `json:"finishReason,omitempty"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Status  string `json:"status,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// GenerateImage invokes the API once and returns a single image payload.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImageAsset, error) {
	if !c.HasCredentials() {
		return nil, fmt.Errorf("%w: %s", domain.ErrProviderAuth, ErrMissingAPIKey)
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("gemini: prompt is required")
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return nil, errors.New("gemini: model is required")
	}

	parts := make([]part, 0, 1+len(req.References))
	text := prompt
	if neg := strings.TrimSpace(req.NegativePrompt); neg != "" {
		text += "\n\nStrictly avoid: " + neg + "."
	}
	parts = append(parts, part{Text: text})
	for _, ref := range req.References {
		if len(ref.Data) == 0 {
			continue
		}
		mime := ref.MIME
		if mime == "" {
			mime = "image/png"
		}
		parts = append(parts, part{InlineData: &inlineData{
			MimeType: mime,
			Data:     base64.StdEncoding.EncodeToString(ref.Data),
		}})
	}

	payload := generateContentRequest{
		Contents:         []content{{Role: "user", Parts: parts}},
		GenerationConfig: &generationConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gemini: encode request: %w", err)
	}
	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gemini: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderTransient, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrProviderTransient, err)
	}
	if resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, raw)
	}

	var decoded generateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("gemini: decode response: %w", err)
	}
	asset := firstInlineImage(decoded)
	if asset == nil {
		return nil, fmt.Errorf("%w: gemini returned no image content", domain.ErrProviderTransient)
	}

	c.logger.Debug().
		Str("model", model).
		Str("request_id", req.RequestID).
		Int("bytes", len(asset.Data)).
		Msg("gemini: generated image asset")
	return asset, nil
}

// statusError maps HTTP status codes onto the structured provider error
// taxonomy so callers classify with errors.Is rather than message text.
func statusError(status int, raw []byte) error {
	detail := strings.TrimSpace(string(raw))
	var decoded errorResponse
	if err := json.Unmarshal(raw, &decoded); err == nil && decoded.Error.Message != "" {
		detail = decoded.Error.Message
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w: status %d: %s", domain.ErrProviderAuth, status, detail)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d: %s", domain.ErrProviderQuota, status, detail)
	case status >= 500:
		return fmt.Errorf("%w: status %d: %s", domain.ErrProviderTransient, status, detail)
	default:
		return fmt.Errorf("gemini: status %d: %s", status, detail)
	}
}

func firstInlineImage(resp generateContentResponse) *ImageAsset {
	for _, candidate := range resp.Candidates {
		for _, p := range candidate.Content.Parts {
			if p.InlineData == nil || p.InlineData.Data == "" {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil || len(data) == 0 {
				continue
			}
			mime := p.InlineData.MimeType
			if mime == "" {
				mime = "image/png"
			}
			return &ImageAsset{Data: data, MIME: mime}
		}
	}
	return nil
}
