package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	userAgent          = "captionsync/0.1.0"
)

// ErrBackendUnavailable wraps transport-level failures so callers can treat
// them as retryable.
var ErrBackendUnavailable = errors.New("translation backend unavailable")

// Backend translates a batch of items into the target language, returning a
// map from cue id to translated text.
type Backend interface {
	Translate(ctx context.Context, targetLang string, items []Item) (map[string]string, error)
}

// HTTPBackend calls a translation HTTP API.
type HTTPBackend struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option customizes the HTTP backend.
type Option func(*HTTPBackend)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(b *HTTPBackend) {
		if client != nil {
			b.httpClient = client
		}
	}
}

// NewHTTPBackend constructs a backend for the given API base URL.
func NewHTTPBackend(baseURL, apiKey string, opts ...Option) *HTTPBackend {
	backend := &HTTPBackend{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:     strings.TrimSpace(apiKey),
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(backend)
	}
	return backend
}

type translateRequest struct {
	TargetLang string `json:"target_lang"`
	Items      []Item `json:"items"`
}

type translateResponse struct {
	Translations map[string]string `json:"translations"`
}

// Translate posts the batch and decodes the id-to-text result map.
func (b *HTTPBackend) Translate(ctx context.Context, targetLang string, items []Item) (map[string]string, error) {
	if len(items) == 0 {
		return map[string]string{}, nil
	}
	if b.baseURL == "" {
		return nil, errors.New("translate: base url required")
	}
	endpoint, err := url.JoinPath(b.baseURL, "/translate")
	if err != nil {
		return nil, fmt.Errorf("translate: build url: %w", err)
	}
	encoded, err := json.Marshal(translateRequest{TargetLang: targetLang, Items: items})
	if err != nil {
		return nil, fmt.Errorf("translate: encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("translate: request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if b.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+b.apiKey)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("translate: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("%w: http %d: %s", ErrBackendUnavailable, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("translate: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded translateResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("translate: decode response: %w", err)
	}
	if decoded.Translations == nil {
		decoded.Translations = map[string]string{}
	}
	return decoded.Translations, nil
}
