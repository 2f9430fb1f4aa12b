// Package export serializes stored monitoring state to the supported
// wire formats: json, csv, and prometheus exposition text.
package export

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/vietddude/poolwatch/internal/core/domain"
	"github.com/vietddude/poolwatch/internal/monitoring/alerting"
	"github.com/vietddude/poolwatch/internal/monitoring/collector"
	"github.com/vietddude/poolwatch/internal/monitoring/score"
)

// ErrUnsupportedFormat is returned for any format other than
// json, csv, or prometheus.
var ErrUnsupportedFormat = errors.New("unsupported export format")

var csvHeader = []string{
	"timestamp",
	"totalConnections",
	"activeConnections",
	"idleConnections",
	"connectionUtilization",
	"acquisitionWaitTime",
	"averageQueryTime",
	"totalQueries",
	"successfulQueries",
	"failedQueries",
	"healthScore",
}

// Exporter reads the stores independently of the live sampling cycle.
type Exporter struct {
	history *collector.History
	alerts  *alerting.Engine
	scores  *collector.ScoreHistory
	now     func() time.Time
}

// New creates an exporter over the given stores.
func New(history *collector.History, alerts *alerting.Engine, scores *collector.ScoreHistory) *Exporter {
	return &Exporter{
		history: history,
		alerts:  alerts,
		scores:  scores,
		now:     time.Now,
	}
}

// Export serializes state in the requested format. lookback <= 0 exports
// the entire retained history.
func (e *Exporter) Export(format string, lookback time.Duration) (string, error) {
	switch format {
	case "json":
		return e.exportJSON(lookback)
	case "csv":
		return e.exportCSV(lookback), nil
	case "prometheus":
		return e.exportPrometheus(), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func (e *Exporter) window(lookback time.Duration) []domain.MetricsSnapshot {
	if lookback <= 0 {
		return e.history.All()
	}
	return e.history.Since(e.now().Add(-lookback))
}

func (e *Exporter) exportJSON(lookback time.Duration) (string, error) {
	entries := e.window(lookback)
	if entries == nil {
		entries = []domain.MetricsSnapshot{}
	}
	alerts := e.alerts.All(0)
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	scores := e.scores.All()
	if scores == nil {
		scores = []domain.HealthScoreSample{}
	}

	payload := struct {
		Metrics     []domain.MetricsSnapshot   `json:"metrics"`
		Alerts      []domain.Alert             `json:"alerts"`
		HealthScore []domain.HealthScoreSample `json:"healthScore"`
	}{entries, alerts, scores}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal export payload: %w", err)
	}
	return string(data), nil
}

func (e *Exporter) exportCSV(lookback time.Duration) string {
	var buf strings.Builder
	w := csv.NewWriter(&buf)

	_ = w.Write(csvHeader)
	for _, snap := range e.window(lookback) {
		_ = w.Write([]string{
			snap.Timestamp.UTC().Format(time.RFC3339),
			strconv.Itoa(snap.TotalConnections),
			strconv.Itoa(snap.ActiveConnections),
			strconv.Itoa(snap.IdleConnections),
			formatFloat(snap.ConnectionUtilization),
			formatFloat(snap.LatestWaitTime()),
			formatFloat(snap.AverageQueryTime),
			strconv.FormatInt(snap.TotalQueries, 10),
			strconv.FormatInt(snap.SuccessfulQueries, 10),
			strconv.FormatInt(snap.FailedQueries, 10),
			strconv.Itoa(score.Score(snap)),
		})
	}
	w.Flush()

	return buf.String()
}

// exportPrometheus renders exposition text over the most recent entry.
// The metric order is part of the contract.
func (e *Exporter) exportPrometheus() string {
	snap, ok := e.history.Latest()
	if !ok {
		return ""
	}

	var b strings.Builder
	writeMetric(&b, "pool_connections_total", "gauge",
		"Total number of connections in the pool",
		strconv.Itoa(snap.TotalConnections))
	writeMetric(&b, "pool_connections_active", "gauge",
		"Number of connections currently in use",
		strconv.Itoa(snap.ActiveConnections))
	writeMetric(&b, "pool_connections_idle", "gauge",
		"Number of idle connections",
		strconv.Itoa(snap.IdleConnections))
	writeMetric(&b, "pool_utilization_ratio", "gauge",
		"Ratio of active to total connections",
		formatFloat(snap.ConnectionUtilization))
	writeMetric(&b, "pool_acquisition_wait_time_ms", "gauge",
		"Most recent connection acquisition wait in milliseconds",
		formatFloat(snap.LatestWaitTime()))
	writeMetric(&b, "pool_queries_total", "counter",
		"Total number of queries executed",
		strconv.FormatInt(snap.TotalQueries, 10))
	writeMetric(&b, "pool_query_duration_seconds", "gauge",
		"Average query duration in seconds",
		formatFloat(snap.AverageQueryTime/1000))
	writeMetric(&b, "pool_health_score", "gauge",
		"Computed pool health score (0-100)",
		strconv.Itoa(score.Score(snap)))
	return b.String()
}

func writeMetric(b *strings.Builder, name, typ, help, value string) {
	fmt.Fprintf(b, "# HELP %s %s\n", name, help)
	fmt.Fprintf(b, "# TYPE %s %s\n", name, typ)
	fmt.Fprintf(b, "%s %s\n", name, value)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
