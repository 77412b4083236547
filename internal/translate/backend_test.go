package translate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"captionsync/internal/logging"
	"captionsync/internal/testsupport"
)

func TestHTTPBackendTranslate(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("path = %q, want /translate", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		if req.TargetLang != "es" {
			t.Errorf("target_lang = %q, want es", req.TargetLang)
		}
		out := translateResponse{Translations: map[string]string{}}
		for _, item := range req.Items {
			out.Translations[item.ID] = "xlat:" + item.Text
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, "secret", WithHTTPClient(server.Client()))
	translations, err := backend.Translate(context.Background(), "es", []Item{{ID: "a", Text: "hello"}})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if translations["a"] != "xlat:hello" {
		t.Fatalf("translations = %v", translations)
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization header = %q", gotAuth)
	}
}

func TestHTTPBackendServerErrorIsRetryable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, "")
	_, err := backend.Translate(context.Background(), "es", []Item{{ID: "a", Text: "hello"}})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestHTTPBackendClientErrorIsTerminal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer server.Close()

	backend := NewHTTPBackend(server.URL, "")
	_, err := backend.Translate(context.Background(), "es", []Item{{ID: "a", Text: "hello"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrBackendUnavailable) {
		t.Fatal("4xx must not be marked retryable")
	}
}

func TestHTTPBackendEmptyBatch(t *testing.T) {
	backend := NewHTTPBackend("http://unused.invalid", "")
	translations, err := backend.Translate(context.Background(), "es", nil)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if len(translations) != 0 {
		t.Fatalf("translations = %v, want empty", translations)
	}
}

func TestDispatcherDrainsThroughHTTPBackend(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req translateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			return
		}
		out := translateResponse{Translations: map[string]string{}}
		for _, item := range req.Items {
			out.Translations[item.ID] = "xlat:" + item.Text
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithTranslator(server.URL))
	queue := NewQueue()
	queue.Enqueue("a", "hello")
	queue.Enqueue("b", "world")

	backend := NewHTTPBackend(cfg.Translator.BaseURL, cfg.Translator.APIKey)
	d := NewDispatcher(cfg.Translator, queue, backend, NewMemoryCache(16), logging.NewNop())

	total, err := d.Drain(context.Background())
	if err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if total != 2 {
		t.Fatalf("drained %d, want 2", total)
	}
	if got, _ := d.Result("b"); got != "xlat:world" {
		t.Fatalf("result for b = %q", got)
	}
}
