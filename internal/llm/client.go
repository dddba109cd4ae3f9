// Package llm wraps the external multimodal model APIs behind two narrow
// capability interfaces: analyze an image against an instruction
// (perception), and synthesize a new image from a prompt and a reference
// (generation). All calls share one process-wide rate limiter and a
// per-call timeout; failures are reported as typed ClientErrors so the
// pipeline can degrade per category or per attempt instead of aborting.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/kamilpajak/designlens/internal/ratelimit"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds client construction parameters.
type Config struct {
	APIKey      string
	BaseURL     string
	VisionModel string
	ImageModel  string
	CallTimeout time.Duration
	Limiter     *ratelimit.Limiter
}

// Client handles model API calls for both perception and generation.
type Client struct {
	apiKey      string
	baseURL     string
	visionModel string
	imageModel  string
	httpClient  *http.Client
	limiter     *ratelimit.Limiter
	timeout     time.Duration
}

// NewClient creates a model API client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("model API key required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	visionModel := cfg.VisionModel
	if visionModel == "" {
		visionModel = "gpt-4o"
	}
	imageModel := cfg.ImageModel
	if imageModel == "" {
		imageModel = "gpt-image-1"
	}
	timeout := cfg.CallTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	limiter := cfg.Limiter
	if limiter == nil {
		limiter = ratelimit.New(0, 0)
	}
	return &Client{
		apiKey:      cfg.APIKey,
		baseURL:     baseURL,
		visionModel: visionModel,
		imageModel:  imageModel,
		httpClient:  &http.Client{},
		limiter:     limiter,
		timeout:     timeout,
	}, nil
}

// post sends a request to the API with the shared limiter and per-call
// timeout applied, and maps transport and status failures onto the
// client error taxonomy.
func (c *Client) post(ctx context.Context, path, contentType string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if callCtx.Err() != nil && ctx.Err() == nil {
			return nil, &ClientError{Kind: KindTimeout, Message: fmt.Sprintf("call to %s exceeded %s", path, c.timeout), Err: err}
		}
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &ClientError{Kind: KindService, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ClientError{Kind: KindService, Message: "failed to read response", Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return data, nil
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, newClientError(KindRateLimited, "API returned 429: %s", apiErrorMessage(data))
	default:
		return nil, newClientError(KindService, "API error (%d): %s", resp.StatusCode, apiErrorMessage(data))
	}
}

// apiErrorMessage pulls the error message out of an API error body,
// falling back to a truncated raw body.
func apiErrorMessage(body []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
