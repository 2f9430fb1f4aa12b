// Package control wires the monitoring components together and owns the
// sampling loop lifecycle.
package control

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/vietddude/poolwatch/internal/core/config"
	"github.com/vietddude/poolwatch/internal/core/domain"
	"github.com/vietddude/poolwatch/internal/infra/archive"
	"github.com/vietddude/poolwatch/internal/infra/pool"
	"github.com/vietddude/poolwatch/internal/monitoring"
	"github.com/vietddude/poolwatch/internal/monitoring/alerting"
	"github.com/vietddude/poolwatch/internal/monitoring/collector"
	"github.com/vietddude/poolwatch/internal/monitoring/export"
	"github.com/vietddude/poolwatch/internal/monitoring/report"
	"github.com/vietddude/poolwatch/internal/monitoring/trend"
)

// Config holds the application configuration.
type Config struct {
	Port          int
	Monitor       config.MonitorConfig
	Pool          pool.Pool
	Redis         archive.RedisConfig
	Database      archive.PostgresConfig
	MigrationsDir string
}

// Monitor is the main application struct managing the monitoring
// lifecycle. All mutable stores are owned here, never process-wide.
type Monitor struct {
	mu  sync.Mutex
	cfg config.MonitorConfig

	collector *collector.Collector
	history   *collector.History
	scores    *collector.ScoreHistory
	engine    *alerting.Engine
	reports   *report.Generator
	exporter  *export.Exporter
	webhook   configurableNotifier
	server    *monitoring.Server

	redisArchive *archive.SnapshotArchive
	audit        *archive.AlertAudit

	baseCtx    context.Context
	loopCancel context.CancelFunc
	wg         sync.WaitGroup
}

// configurableNotifier is what the monitor needs from the webhook
// dispatcher.
type configurableNotifier interface {
	Notify(alert domain.Alert)
	SetConfig(cfg config.Notifications)
}

// NewMonitor creates a Monitor with all dependencies initialized.
// notifier delivers alerts; pass nil to disable outbound notifications.
func NewMonitor(cfg Config, notifier configurableNotifier) (*Monitor, error) {
	if cfg.Pool == nil {
		return nil, errors.New("control: pool collaborator is required")
	}

	monCfg := cfg.Monitor
	m := &Monitor{cfg: monCfg, webhook: notifier}

	if cfg.Redis.URL != "" {
		ra, err := archive.NewSnapshotArchive(cfg.Redis)
		if err != nil {
			return nil, err
		}
		m.redisArchive = ra
		slog.Info("Snapshot archiving to Redis enabled")
	}

	var auditSink alerting.AuditSink
	if cfg.Database.URL != "" {
		dir := cfg.MigrationsDir
		if dir == "" {
			dir = "migrations"
		}
		audit, err := archive.NewAlertAudit(context.Background(), cfg.Database, dir)
		if err != nil {
			return nil, err
		}
		m.audit = audit
		auditSink = &asyncAudit{audit: audit}
		slog.Info("Alert audit to PostgreSQL enabled")
	}

	history := collector.NewHistory(monCfg.Retention.MetricsHistory, monCfg.Retention.MaxHistoryEntries)
	scores := collector.NewScoreHistory(monCfg.Retention.MetricsHistory)
	m.history = history
	m.scores = scores

	var alertNotifier alerting.Notifier
	if notifier != nil {
		alertNotifier = notifier
	}
	m.engine = alerting.NewEngine(monCfg, alertNotifier, auditSink)

	var archiver collector.Archiver
	if m.redisArchive != nil {
		archiver = m.redisArchive
	}
	m.collector = collector.New(cfg.Pool, history, m.engine, archiver)

	aggregator := trend.NewAggregator(history, scores)
	m.reports = report.NewGenerator(m.collector, aggregator, m.engine, scores)
	m.exporter = export.New(history, m.engine, scores)
	m.server = monitoring.NewServer(m.reports, m.exporter, cfg.Port)

	return m, nil
}

// Start launches the HTTP server and, when enabled, the sampling loop.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.baseCtx = ctx

	go func() {
		if err := m.server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Monitoring server failed", "error", err)
		}
	}()

	if m.cfg.Enabled {
		m.startLoopLocked()
	}
	return nil
}

// Stop cancels the sampling loop and shuts the server down. In-flight
// work completes but is not rescheduled.
func (m *Monitor) Stop(ctx context.Context) error {
	m.mu.Lock()
	if m.loopCancel != nil {
		m.loopCancel()
		m.loopCancel = nil
	}
	m.mu.Unlock()

	m.wg.Wait()

	var errs []error
	if err := m.server.Stop(ctx); err != nil {
		errs = append(errs, err)
	}
	if m.redisArchive != nil {
		if err := m.redisArchive.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if m.audit != nil {
		if err := m.audit.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// UpdateConfig merges the overrides onto the current configuration and
// starts or stops the sampling loop when the enabled flag flips.
func (m *Monitor) UpdateConfig(o config.MonitorOverrides) {
	m.mu.Lock()
	defer m.mu.Unlock()

	wasEnabled := m.cfg.Enabled
	oldInterval := m.cfg.SamplingInterval
	m.cfg = m.cfg.Apply(o)

	m.engine.SetConfig(m.cfg)
	m.history.SetBounds(m.cfg.Retention.MetricsHistory, m.cfg.Retention.MaxHistoryEntries)
	m.scores.SetRetention(m.cfg.Retention.MetricsHistory)
	if m.webhook != nil {
		m.webhook.SetConfig(m.cfg.Notifications)
	}

	if m.cfg.Notifications.WebhookEnabled && m.cfg.Notifications.WebhookURL == "" {
		m.engine.Create(
			domain.AlertConfigurationError,
			domain.SeverityWarning,
			"webhook notifications enabled without a webhook URL",
			nil,
		)
	}

	restart := m.cfg.Enabled != wasEnabled ||
		(m.cfg.Enabled && m.cfg.SamplingInterval != oldInterval)
	if !restart {
		return
	}

	if m.loopCancel != nil {
		m.loopCancel()
		m.loopCancel = nil
	}
	if m.cfg.Enabled && m.baseCtx != nil {
		m.startLoopLocked()
	}
}

func (m *Monitor) startLoopLocked() {
	ctx, cancel := context.WithCancel(m.baseCtx)
	m.loopCancel = cancel
	interval := m.cfg.SamplingInterval

	m.wg.Add(1)
	go m.run(ctx, interval)
}

// run is the sampling loop. Collection errors are a caller-level
// concern: logged here, never retried within a tick.
func (m *Monitor) run(ctx context.Context, interval time.Duration) {
	defer m.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.collector.CollectAndStore(ctx); err != nil {
				slog.Error("Failed to collect pool metrics", "error", err)
			}
		}
	}
}

// Collect runs one sampling tick outside the timer.
func (m *Monitor) Collect(ctx context.Context) (domain.MetricsSnapshot, error) {
	return m.collector.CollectAndStore(ctx)
}

// Report generates an on-demand health report.
func (m *Monitor) Report(ctx context.Context) (domain.HealthReport, error) {
	return m.reports.Generate(ctx)
}

// Export serializes stored state in the requested format.
func (m *Monitor) Export(format string, lookback time.Duration) (string, error) {
	return m.exporter.Export(format, lookback)
}

// CreateAlert raises a manual alert through the engine.
func (m *Monitor) CreateAlert(t domain.AlertType, sev domain.AlertSeverity, msg string, details map[string]any) string {
	return m.engine.Create(t, sev, msg, details)
}

// Acknowledge marks an alert acknowledged.
func (m *Monitor) Acknowledge(id, by string) bool {
	return m.engine.Acknowledge(id, by)
}

// Resolve marks an alert resolved.
func (m *Monitor) Resolve(id string) bool {
	return m.engine.Resolve(id)
}

// ActiveAlerts lists unresolved alerts.
func (m *Monitor) ActiveAlerts() []domain.Alert {
	return m.engine.Active()
}

// Alerts lists alerts newest-first up to limit.
func (m *Monitor) Alerts(limit int) []domain.Alert {
	return m.engine.All(limit)
}

// asyncAudit records resolved alerts off the sweep path so database
// latency never blocks alert creation.
type asyncAudit struct {
	audit *archive.AlertAudit
}

func (a *asyncAudit) RecordResolved(alert domain.Alert) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.audit.Record(ctx, alert); err != nil {
			slog.Warn("Failed to audit resolved alert", "error", err, "alert", alert.ID)
		}
	}()
}
