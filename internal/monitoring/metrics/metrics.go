package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SamplesCollected tracks total sampling ticks
	SamplesCollected = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poolwatch_samples_collected_total",
			Help: "Total number of pool samples collected",
		},
	)

	// SampleFailures tracks failed sampling ticks
	SampleFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poolwatch_sample_failures_total",
			Help: "Total number of failed sampling attempts",
		},
	)

	// AlertsCreated tracks alerts raised by type and severity
	AlertsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poolwatch_alerts_created_total",
			Help: "Total number of alerts created",
		},
		[]string{"type", "severity"},
	)

	// WebhookFailures tracks best-effort notification failures
	WebhookFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "poolwatch_webhook_failures_total",
			Help: "Total number of failed webhook deliveries",
		},
	)

	// PoolUtilization tracks the latest sampled utilization ratio
	PoolUtilization = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolwatch_pool_utilization_ratio",
			Help: "Latest sampled pool utilization (active/total)",
		},
	)

	// PoolConnections tracks the latest sampled connection counts
	PoolConnections = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "poolwatch_pool_connections",
			Help: "Latest sampled pool connection counts",
		},
		[]string{"state"},
	)

	// HealthScore tracks the latest computed health score
	HealthScore = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "poolwatch_health_score",
			Help: "Latest computed pool health score (0-100)",
		},
	)
)
