package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/theMaxscriptGuy/archviz-ai/internal/domain"
)

func testRequest() domain.GenerationRequest {
	return domain.GenerationRequest{
		Model:  "gemini-2.5-flash-image-preview",
		Prompt: "render the front elevation",
		References: []domain.ReferenceImage{
			{MIME: "image/png", Data: []byte{0x89, 0x50, 0x4e, 0x47}},
		},
	}
}

func imageResponse(data []byte) geminiGenerateContentResponse {
	var resp geminiGenerateContentResponse
	resp.Candidates = []geminiCandidate{{
		Content: geminiContent{Parts: []geminiPart{
			{Text: "here is your render"},
			{InlineData: &geminiInlineData{MimeType: "image/png", Data: base64.StdEncoding.EncodeToString(data)}},
		}},
	}}
	return resp
}

func TestGenerateImageSuccess(t *testing.T) {
	imageBytes := []byte("fake-png-bytes")
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Fatalf("unexpected api key header: %q", got)
		}
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash-image-preview:generateContent") {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		var payload geminiGenerateContentRequest
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(payload.Contents) != 1 {
			t.Fatalf("unexpected contents length: %d", len(payload.Contents))
		}
		parts := payload.Contents[0].Parts
		if len(parts) != 2 {
			t.Fatalf("unexpected parts length: %d", len(parts))
		}
		if !strings.Contains(parts[0].Text, "front elevation") {
			t.Fatalf("prompt not forwarded: %q", parts[0].Text)
		}
		if parts[1].InlineData == nil || parts[1].InlineData.MimeType != "image/png" {
			t.Fatalf("reference image not attached: %+v", parts[1])
		}
		_ = json.NewEncoder(w).Encode(imageResponse(imageBytes))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	asset, err := client.GenerateImage(context.Background(), "test-key", testRequest())
	if err != nil {
		t.Fatalf("GenerateImage returned error: %v", err)
	}
	if string(asset.Data) != string(imageBytes) {
		t.Fatalf("image bytes mismatch: %q", asset.Data)
	}
	if asset.MIME != "image/png" {
		t.Fatalf("mime mismatch: %q", asset.MIME)
	}
}

func TestGenerateImageMissingKey(t *testing.T) {
	client := NewClient(Options{})
	_, err := client.GenerateImage(context.Background(), "  ", testRequest())
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
}

func TestGenerateImageUnreachableEndpoint(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	_, err := client.GenerateImage(context.Background(), "test-key", testRequest())
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestGenerateImageAuthFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"API key not valid","status":"PERMISSION_DENIED"}}`))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	_, err := client.GenerateImage(context.Background(), "bad-key", testRequest())
	if !errors.Is(err, domain.ErrAuthentication) {
		t.Fatalf("expected ErrAuthentication, got %v", err)
	}
	if !strings.Contains(err.Error(), "API key not valid") {
		t.Fatalf("provider message not surfaced: %v", err)
	}
}

func TestGenerateImageQuotaFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"Quota exceeded","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	_, err := client.GenerateImage(context.Background(), "test-key", testRequest())
	if !errors.Is(err, domain.ErrQuota) {
		t.Fatalf("expected ErrQuota, got %v", err)
	}
}

func TestGenerateImageNoImageInResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var resp geminiGenerateContentResponse
		resp.Candidates = []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: "cannot generate images"}}},
		}}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	_, err := client.GenerateImage(context.Background(), "test-key", testRequest())
	if !errors.Is(err, domain.ErrResponseFormat) {
		t.Fatalf("expected ErrResponseFormat, got %v", err)
	}
}

func TestGenerateImageMalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer ts.Close()

	client := NewClient(Options{BaseURL: ts.URL})
	_, err := client.GenerateImage(context.Background(), "test-key", testRequest())
	if !errors.Is(err, domain.ErrResponseFormat) {
		t.Fatalf("expected ErrResponseFormat, got %v", err)
	}
}
