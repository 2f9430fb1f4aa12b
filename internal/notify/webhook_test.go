package notify

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/vietddude/poolwatch/internal/core/config"
	"github.com/vietddude/poolwatch/internal/core/domain"
)

func TestWebhook_PostsAlertPayload(t *testing.T) {
	var received []byte
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := NewWebhook(config.Notifications{
		WebhookEnabled: true,
		WebhookURL:     srv.URL,
		WebhookTimeout: 2 * time.Second,
	})

	alert := domain.Alert{
		ID:       "a-1",
		Type:     domain.AlertConnectionExhaustion,
		Severity: domain.SeverityCritical,
		Message:  "pool full",
	}
	w.Notify(alert)

	if contentType != "application/json" {
		t.Errorf("expected JSON content type, got %s", contentType)
	}

	var payload struct {
		Alert     domain.Alert `json:"alert"`
		Timestamp int64        `json:"timestamp"`
		Source    string       `json:"source"`
	}
	if err := json.Unmarshal(received, &payload); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if payload.Alert.ID != "a-1" {
		t.Errorf("expected alert a-1, got %s", payload.Alert.ID)
	}
	if payload.Source != "connection-pool-monitor" {
		t.Errorf("unexpected source %s", payload.Source)
	}
	if payload.Timestamp == 0 {
		t.Error("expected epoch-ms timestamp")
	}
}

func TestWebhook_DisabledIsNoop(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	w := NewWebhook(config.Notifications{
		WebhookEnabled: false,
		WebhookURL:     srv.URL,
	})
	w.Notify(domain.Alert{ID: "a-2"})

	if called {
		t.Error("disabled webhook must not call the sink")
	}
}

func TestWebhook_SwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := NewWebhook(config.Notifications{
		WebhookEnabled: true,
		WebhookURL:     srv.URL,
		WebhookTimeout: 2 * time.Second,
	})

	// Must not panic or propagate anything.
	w.Notify(domain.Alert{ID: "a-3"})
}

func TestWebhook_TimeoutIsBounded(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	w := NewWebhook(config.Notifications{
		WebhookEnabled: true,
		WebhookURL:     srv.URL,
		WebhookTimeout: 100 * time.Millisecond,
	})

	done := make(chan struct{})
	go func() {
		w.Notify(domain.Alert{ID: "a-4"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Notify did not respect the configured timeout")
	}
}
