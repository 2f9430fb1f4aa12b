// Package notify delivers alerts to an external webhook sink. Delivery
// is best-effort: one attempt with a timeout, failures logged and
// swallowed, never retried.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/vietddude/poolwatch/internal/core/config"
	"github.com/vietddude/poolwatch/internal/core/domain"
	"github.com/vietddude/poolwatch/internal/monitoring/metrics"
)

const source = "connection-pool-monitor"

// Webhook posts alerts as JSON to the configured URL.
type Webhook struct {
	mu         sync.RWMutex
	cfg        config.Notifications
	httpClient *http.Client
}

// NewWebhook creates a dispatcher from notification settings.
func NewWebhook(cfg config.Notifications) *Webhook {
	return &Webhook{
		cfg: cfg,
		httpClient: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 2,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// SetConfig swaps the notification settings.
func (w *Webhook) SetConfig(cfg config.Notifications) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg = cfg
}

// Notify issues one timeout-bounded POST. No-op when the webhook is
// disabled or no URL is configured; any failure is logged and swallowed.
func (w *Webhook) Notify(alert domain.Alert) {
	w.mu.RLock()
	cfg := w.cfg
	w.mu.RUnlock()

	if !cfg.WebhookEnabled || cfg.WebhookURL == "" {
		return
	}

	timeout := cfg.WebhookTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	body := struct {
		Alert     domain.Alert `json:"alert"`
		Timestamp int64        `json:"timestamp"`
		Source    string       `json:"source"`
	}{alert, time.Now().UnixMilli(), source}

	data, err := json.Marshal(body)
	if err != nil {
		slog.Warn("Failed to marshal webhook payload", "error", err, "alert", alert.ID)
		metrics.WebhookFailures.Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cfg.WebhookURL, bytes.NewReader(data))
	if err != nil {
		slog.Warn("Failed to build webhook request", "error", err, "alert", alert.ID)
		metrics.WebhookFailures.Inc()
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		slog.Warn("Webhook delivery failed", "error", err, "alert", alert.ID)
		metrics.WebhookFailures.Inc()
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		slog.Warn("Webhook returned non-success status",
			"status", resp.StatusCode,
			"alert", alert.ID,
		)
		metrics.WebhookFailures.Inc()
	}
}
