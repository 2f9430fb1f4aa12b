// Package alerting evaluates snapshots against configured thresholds and
// owns the alert store and lifecycle.
package alerting

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vietddude/poolwatch/internal/core/config"
	"github.com/vietddude/poolwatch/internal/core/domain"
	"github.com/vietddude/poolwatch/internal/monitoring/metrics"
)

// DefaultListLimit bounds All when the caller passes no limit.
const DefaultListLimit = 100

// Notifier delivers an alert to an external sink, best-effort.
type Notifier interface {
	Notify(alert domain.Alert)
}

// AuditSink durably records alerts about to be swept from memory.
type AuditSink interface {
	RecordResolved(alert domain.Alert)
}

// Engine owns the per-monitor alert map. Never a process-wide singleton:
// multiple monitors coexist without interference.
type Engine struct {
	mu     sync.RWMutex
	cfg    config.MonitorConfig
	alerts map[string]*domain.Alert

	// lastFired tracks per-type creation times for the optional
	// cooldown window.
	lastFired map[domain.AlertType]time.Time

	notifier Notifier
	audit    AuditSink
	now      func() time.Time
}

// NewEngine creates an alert engine. notifier and audit may be nil.
func NewEngine(cfg config.MonitorConfig, notifier Notifier, audit AuditSink) *Engine {
	return &Engine{
		cfg:       cfg,
		alerts:    make(map[string]*domain.Alert),
		lastFired: make(map[domain.AlertType]time.Time),
		notifier:  notifier,
		audit:     audit,
		now:       time.Now,
	}
}

// SetConfig swaps the engine's configuration.
func (e *Engine) SetConfig(cfg config.MonitorConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg
}

// Evaluate checks each threshold independently against the snapshot and
// raises an alert per breach. With a zero cooldown every breach on every
// tick creates a new alert; a positive cooldown suppresses repeats of
// the same type inside the window.
func (e *Engine) Evaluate(snap domain.MetricsSnapshot) {
	e.mu.RLock()
	th := e.cfg.Thresholds
	e.mu.RUnlock()

	if u := snap.ConnectionUtilization; u > th.Utilization {
		e.raise(domain.AlertConnectionExhaustion, domain.SeverityCritical,
			fmt.Sprintf("connection utilization %.2f exceeds threshold %.2f", u, th.Utilization),
			map[string]any{
				"utilization":       u,
				"threshold":         th.Utilization,
				"activeConnections": snap.ActiveConnections,
				"totalConnections":  snap.TotalConnections,
			})
	}

	if w := snap.LatestWaitTime(); w > th.WaitTimeMs {
		e.raise(domain.AlertHighWaitTime, domain.SeverityWarning,
			fmt.Sprintf("acquisition wait time %.0fms exceeds threshold %.0fms", w, th.WaitTimeMs),
			map[string]any{"waitTimeMs": w, "threshold": th.WaitTimeMs})
	}

	if r := snap.ErrorRate(); r > th.ErrorRate {
		e.raise(domain.AlertPerformanceDegradation, domain.SeverityError,
			fmt.Sprintf("query error rate %.3f exceeds threshold %.3f", r, th.ErrorRate),
			map[string]any{
				"errorRate":     r,
				"threshold":     th.ErrorRate,
				"failedQueries": snap.FailedQueries,
				"totalQueries":  snap.TotalQueries,
			})
	}

	if r := snap.HealthCheckFailureRate(); r > th.HealthFailureRate {
		e.raise(domain.AlertHealthCheckFailure, domain.SeverityCritical,
			fmt.Sprintf("health check failure rate %.3f exceeds threshold %.3f", r, th.HealthFailureRate),
			map[string]any{"failureRate": r, "threshold": th.HealthFailureRate})
	}

	if n := snap.ScalingEvents(); n > th.ScalingEvents {
		e.raise(domain.AlertScalingIssue, domain.SeverityWarning,
			fmt.Sprintf("%d scaling events exceed threshold %d", n, th.ScalingEvents),
			map[string]any{
				"scaleUpEvents":   snap.ScaleUpEvents,
				"scaleDownEvents": snap.ScaleDownEvents,
				"threshold":       th.ScalingEvents,
			})
	}
}

// raise applies the cooldown window before creating.
func (e *Engine) raise(t domain.AlertType, sev domain.AlertSeverity, msg string, details map[string]any) {
	e.mu.Lock()
	cooldown := e.cfg.AlertCooldown
	if cooldown > 0 {
		if last, ok := e.lastFired[t]; ok && e.now().Sub(last) < cooldown {
			e.mu.Unlock()
			return
		}
	}
	e.lastFired[t] = e.now()
	e.mu.Unlock()

	e.Create(t, sev, msg, details)
}

// Create stores a fresh alert, logs and dispatches it, then sweeps
// expired resolved alerts. Returns the new alert's id.
func (e *Engine) Create(t domain.AlertType, sev domain.AlertSeverity, msg string, details map[string]any) string {
	alert := domain.Alert{
		ID:        uuid.NewString(),
		Type:      t,
		Severity:  sev,
		Message:   msg,
		Details:   details,
		CreatedAt: e.now(),
	}

	e.mu.Lock()
	e.alerts[alert.ID] = &alert
	console := e.cfg.Notifications.ConsoleLogging
	e.mu.Unlock()

	metrics.AlertsCreated.WithLabelValues(string(t), string(sev)).Inc()

	if console {
		slog.Warn("Pool alert raised",
			"id", alert.ID,
			"type", alert.Type,
			"severity", alert.Severity,
			"message", alert.Message,
		)
	}

	if e.notifier != nil {
		// Fire-and-forget: a hung sink must not stall the sampling loop.
		go e.notifier.Notify(alert)
	}

	e.sweep()

	return alert.ID
}

// Acknowledge marks an alert acknowledged. Returns false on unknown id.
func (e *Engine) Acknowledge(id, by string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	alert, ok := e.alerts[id]
	if !ok {
		return false
	}
	alert.Acknowledged = true
	alert.AcknowledgedBy = by
	return true
}

// Resolve marks an alert resolved. Returns false on unknown id.
func (e *Engine) Resolve(id string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	alert, ok := e.alerts[id]
	if !ok {
		return false
	}
	if !alert.Resolved {
		now := e.now()
		alert.Resolved = true
		alert.ResolvedAt = &now
	}
	return true
}

// Active returns all unresolved alerts.
func (e *Engine) Active() []domain.Alert {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var out []domain.Alert
	for _, a := range e.alerts {
		if !a.Resolved {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// All returns alerts newest-first, truncated to limit
// (DefaultListLimit when limit <= 0).
func (e *Engine) All(limit int) []domain.Alert {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	e.mu.RLock()
	out := make([]domain.Alert, 0, len(e.alerts))
	for _, a := range e.alerts {
		out = append(out, *a)
	}
	e.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// sweep deletes alerts that are both resolved and older than the alert
// retention window, handing each to the audit sink first.
func (e *Engine) sweep() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.Retention.AlertHistory <= 0 {
		return
	}
	cutoff := e.now().Add(-e.cfg.Retention.AlertHistory)

	for id, a := range e.alerts {
		if a.Resolved && a.CreatedAt.Before(cutoff) {
			if e.audit != nil {
				e.audit.RecordResolved(*a)
			}
			delete(e.alerts, id)
		}
	}
}
