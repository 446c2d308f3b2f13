// Package pollinations provides the credential-free fallback image backend.
// The service accepts only a text prompt, so product fidelity is weaker than
// the primary provider's reference-conditioned output; that trade-off is the
// price of a fallback that works without any key.
package pollinations

import (
	"context"
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

// maxPromptLen keeps the prompt inside a safe URL path length.
const maxPromptLen = 1500

// Options configures the Pollinations client.
type Options struct {
	BaseURL        string
	Width          int
	Height         int
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client fetches generated images from the Pollinations prompt endpoint.
type Client struct {
	baseURL    string
	width      int
	height     int
	httpClient *http.Client
	logger     *infra.Logger
}

// NewClient constructs a client with sane defaults.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 90 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://image.pollinations.ai"
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = 1024
	}
	if height <= 0 {
		height = 1024
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{baseURL: baseURL, width: width, height: height, httpClient: httpClient, logger: logger}
}

// GenerateImage requests one image for the given text prompt and returns the
// raw payload bytes.
func (c *Client) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, "", errors.New("pollinations: prompt is required")
	}
	if runes := []rune(prompt); len(runes) > maxPromptLen {
		prompt = string(runes[:maxPromptLen])
	}

	endpoint := fmt.Sprintf("%s/prompt/%s?width=%d&height=%d&nologo=true", c.baseURL, url.PathEscape(prompt), c.width, c.height)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, "", fmt.Errorf("pollinations: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", domain.ErrProviderTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, "", fmt.Errorf("%w: pollinations status %d", domain.ErrProviderQuota, resp.StatusCode)
		}
		return nil, "", fmt.Errorf("%w: pollinations status %d", domain.ErrProviderTransient, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: read image: %v", domain.ErrProviderTransient, err)
	}
	mime := resp.Header.Get("Content-Type")
	if mime == "" {
		mime = "image/jpeg"
	}

	c.logger.Debug().
		Int("bytes", len(data)).
		Str("mime", mime).
		Msg("pollinations: generated image asset")
	return data, mime, nil
}
