package control

import (
	"context"
	"testing"
	"time"

	"github.com/vietddude/poolwatch/internal/core/config"
	"github.com/vietddude/poolwatch/internal/core/domain"
)

type fakePool struct {
	metrics domain.BaseMetrics
	stats   domain.Statistics
}

func (f *fakePool) Metrics(ctx context.Context) (domain.BaseMetrics, error) {
	return f.metrics, nil
}

func (f *fakePool) Statistics(ctx context.Context) (domain.Statistics, error) {
	return f.stats, nil
}

func testMonitor(t *testing.T) *Monitor {
	t.Helper()

	monCfg := config.DefaultMonitor()
	monCfg.Enabled = false
	monCfg.Notifications.ConsoleLogging = false

	m, err := NewMonitor(Config{
		Monitor: monCfg,
		Pool: &fakePool{
			metrics: domain.BaseMetrics{
				TotalConnections:  10,
				ActiveConnections: 5,
				IdleConnections:   5,
				OverallHealth:     domain.TierHealthy,
			},
			stats: domain.Statistics{Uptime: time.Hour},
		},
	}, nil)
	if err != nil {
		t.Fatalf("NewMonitor failed: %v", err)
	}
	return m
}

func TestMonitor_RequiresPool(t *testing.T) {
	if _, err := NewMonitor(Config{}, nil); err == nil {
		t.Error("expected error without a pool collaborator")
	}
}

func TestMonitor_CollectReportExport(t *testing.T) {
	m := testMonitor(t)

	snap, err := m.Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect failed: %v", err)
	}
	if snap.ConnectionUtilization != 0.5 {
		t.Errorf("expected utilization 0.5, got %v", snap.ConnectionUtilization)
	}

	rep, err := m.Report(context.Background())
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if rep.Status != domain.StatusHealthy {
		t.Errorf("expected healthy report, got %s", rep.Status)
	}

	out, err := m.Export("csv", 0)
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if out == "" {
		t.Error("expected non-empty CSV export")
	}
}

func TestMonitor_AlertPassthrough(t *testing.T) {
	m := testMonitor(t)

	id := m.CreateAlert(domain.AlertScalingIssue, domain.SeverityInfo, "manual", nil)
	if len(m.ActiveAlerts()) != 1 {
		t.Fatal("expected one active alert")
	}
	if !m.Acknowledge(id, "ops") {
		t.Error("acknowledge failed")
	}
	if !m.Resolve(id) {
		t.Error("resolve failed")
	}
	if len(m.ActiveAlerts()) != 0 {
		t.Error("resolved alert still active")
	}
	if len(m.Alerts(10)) != 1 {
		t.Error("resolved alert missing from the full list")
	}
}

func TestMonitor_UpdateConfigRaisesConfigurationError(t *testing.T) {
	m := testMonitor(t)

	enabled := true
	m.UpdateConfig(config.MonitorOverrides{WebhookEnabled: &enabled})

	alerts := m.Alerts(10)
	if len(alerts) != 1 || alerts[0].Type != domain.AlertConfigurationError {
		t.Errorf("expected a configuration-error alert, got %v", alerts)
	}
}

func TestMonitor_UpdateConfigRebindsHistory(t *testing.T) {
	m := testMonitor(t)

	maxEntries := 2
	m.UpdateConfig(config.MonitorOverrides{MaxHistoryEntries: &maxEntries})

	for i := 0; i < 5; i++ {
		if _, err := m.Collect(context.Background()); err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
	}
	if got := m.history.Len(); got != 2 {
		t.Errorf("expected history capped at 2 after override, got %d", got)
	}
}

func TestMonitor_UpdateConfigTrimsExistingHistory(t *testing.T) {
	m := testMonitor(t)

	for i := 0; i < 5; i++ {
		if _, err := m.Collect(context.Background()); err != nil {
			t.Fatalf("Collect failed: %v", err)
		}
	}

	maxEntries := 3
	m.UpdateConfig(config.MonitorOverrides{MaxHistoryEntries: &maxEntries})

	if got := m.history.Len(); got != 3 {
		t.Errorf("expected history trimmed to 3 on override, got %d", got)
	}
}

func TestMonitor_UpdateConfigMergesPartially(t *testing.T) {
	m := testMonitor(t)

	interval := 5 * time.Second
	m.UpdateConfig(config.MonitorOverrides{SamplingInterval: &interval})

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cfg.SamplingInterval != interval {
		t.Errorf("expected interval override applied, got %v", m.cfg.SamplingInterval)
	}
	if m.cfg.Thresholds.Utilization != config.DefaultMonitor().Thresholds.Utilization {
		t.Error("unrelated fields must be untouched")
	}
}
