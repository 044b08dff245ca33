// Package genai wraps the remote image-generation endpoint. The provider's
// response schema is volatile, so every wire detail stays behind this client:
// callers hand it a GenerationRequest and get image bytes or a classified
// error back.
package genai

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

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
	"github.com/theMaxscriptGuy/archviz-ai/internal/infra"
)

// Options controls how the client is configured. The API key is deliberately
// absent: it is supplied per call and never held by the client.
type Options struct {
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs one synchronous HTTP call per generation request against a
// Gemini-style generateContent endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *infra.Logger
}

// ImageAsset is the normalized result of one generation call.
type ImageAsset struct {
	Data []byte
	MIME string
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts,omitempty"`
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

type geminiGenerationConfig struct {
	ResponseModalities []string `json:"responseModalities,omitempty"`
}

type geminiGenerateContentRequest struct {
	Contents         []geminiContent         `json:"contents"`
	GenerationConfig *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiGenerateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiErrorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
		Status  string `json:"status,omitempty"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults. Callers may provide a nil
// HTTP client; a reusable one with a request timeout will be created.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 120 * time.Second
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
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// GenerateImage issues one generateContent call and extracts the generated
// image bytes. The API key is attached to this request only and never logged.
// Failures map onto the domain error kinds: domain.ErrAuthentication,
// domain.ErrQuota, domain.ErrNetwork and domain.ErrResponseFormat.
func (c *Client) GenerateImage(ctx context.Context, apiKey string, req domain.GenerationRequest) (*ImageAsset, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: api key is required", domain.ErrAuthentication)
	}
	model := strings.TrimSpace(req.Model)
	if model == "" {
		model = domain.DefaultModel
	}

	parts := make([]geminiPart, 0, 1+len(req.References))
	parts = append(parts, geminiPart{Text: req.Prompt})
	for _, ref := range req.References {
		parts = append(parts, geminiPart{InlineData: &geminiInlineData{
			MimeType: ref.MIME,
			Data:     base64.StdEncoding.EncodeToString(ref.Data),
		}})
	}
	payload := geminiGenerateContentRequest{
		Contents:         []geminiContent{{Role: "user", Parts: parts}},
		GenerationConfig: &geminiGenerationConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, url.PathEscape(model))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrNetwork, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, classifyHTTPError(resp.StatusCode, raw)
	}

	var decoded geminiGenerateContentResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrResponseFormat, err)
	}
	asset, err := firstImageAsset(decoded)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Str("model", model).
		Str("mime", asset.MIME).
		Int("bytes", len(asset.Data)).
		Msg("genai: generated image")
	return asset, nil
}

// classifyHTTPError maps a non-2xx response onto a domain error kind. The
// gRPC-style status in the error body is preferred over the HTTP code since
// some proxies rewrite the latter.
func classifyHTTPError(statusCode int, raw []byte) error {
	detail := fmt.Sprintf("status %d", statusCode)
	var apiErr geminiErrorResponse
	status := ""
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		detail = fmt.Sprintf("status %d: %s", statusCode, apiErr.Error.Message)
		status = apiErr.Error.Status
	}

	switch status {
	case "UNAUTHENTICATED", "PERMISSION_DENIED", "API_KEY_INVALID":
		return fmt.Errorf("%w: %s", domain.ErrAuthentication, detail)
	case "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%w: %s", domain.ErrQuota, detail)
	}
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrAuthentication, detail)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrQuota, detail)
	}
	if statusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: %s", domain.ErrNetwork, detail)
	}
	// Remaining 4xx responses mean the provider rejected the request shape,
	// which is schema drift from this client's point of view.
	return fmt.Errorf("%w: %s", domain.ErrResponseFormat, detail)
}

// firstImageAsset walks candidates and parts for the first inline image.
func firstImageAsset(resp geminiGenerateContentResponse) (*ImageAsset, error) {
	for _, candidate := range resp.Candidates {
		for _, part := range candidate.Content.Parts {
			inline := part.InlineData
			if inline == nil || inline.Data == "" {
				continue
			}
			if !strings.HasPrefix(inline.MimeType, "image/") {
				continue
			}
			data, err := base64.StdEncoding.DecodeString(inline.Data)
			if err != nil {
				return nil, fmt.Errorf("%w: decode inline image: %v", domain.ErrResponseFormat, err)
			}
			return &ImageAsset{Data: data, MIME: inline.MimeType}, nil
		}
	}
	return nil, fmt.Errorf("%w: no image in response", domain.ErrResponseFormat)
}
