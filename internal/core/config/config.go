package config

import (
	"time"

	"github.com/vietddude/poolwatch/internal/infra/archive"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server   ServerConfig           `yaml:"server"`
	Monitor  MonitorConfig          `yaml:"monitor"`
	Pool     PoolConfig             `yaml:"pool"`
	Redis    archive.RedisConfig    `yaml:"redis"`
	Database archive.PostgresConfig `yaml:"database"`
	Logging  LoggingConfig          `yaml:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// PoolConfig selects the pool being watched.
type PoolConfig struct {
	Driver   string `yaml:"driver"` // "pgx" or "sql"
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// MonitorConfig is immutable after construction; updates go through
// the merge-style Apply call on the owning monitor.
type MonitorConfig struct {
	Enabled          bool          `yaml:"enabled"`
	SamplingInterval time.Duration `yaml:"sampling_interval"`

	Thresholds    Thresholds    `yaml:"thresholds"`
	Retention     Retention     `yaml:"retention"`
	Notifications Notifications `yaml:"notifications"`

	// AlertCooldown suppresses repeat alerts of the same type fired
	// within the window. 0 disables suppression: every breach on every
	// sampling tick raises a new alert.
	AlertCooldown time.Duration `yaml:"alert_cooldown"`
}

// Thresholds holds the five alert trigger levels.
type Thresholds struct {
	Utilization       float64 `yaml:"utilization"`         // fraction of total connections
	WaitTimeMs        float64 `yaml:"wait_time_ms"`        // most recent acquisition wait
	ErrorRate         float64 `yaml:"error_rate"`          // failed/total queries
	HealthFailureRate float64 `yaml:"health_failure_rate"` // failed/total health checks
	ScalingEvents     int64   `yaml:"scaling_events"`      // scale-up + scale-down total
}

// Retention holds history bounds.
type Retention struct {
	MetricsHistory    time.Duration `yaml:"metrics_history"`
	AlertHistory      time.Duration `yaml:"alert_history"`
	MaxHistoryEntries int           `yaml:"max_history_entries"`
}

// Notifications holds alert delivery settings.
type Notifications struct {
	ConsoleLogging bool          `yaml:"console_logging"`
	WebhookEnabled bool          `yaml:"webhook_enabled"`
	WebhookURL     string        `yaml:"webhook_url"`
	WebhookTimeout time.Duration `yaml:"webhook_timeout"`
}

// DefaultMonitor returns the documented defaults; caller overrides are
// merged on top at construction time.
func DefaultMonitor() MonitorConfig {
	return MonitorConfig{
		Enabled:          true,
		SamplingInterval: 30 * time.Second,
		Thresholds: Thresholds{
			Utilization:       0.9,
			WaitTimeMs:        5000,
			ErrorRate:         0.05,
			HealthFailureRate: 0.1,
			ScalingEvents:     10,
		},
		Retention: Retention{
			MetricsHistory:    24 * time.Hour,
			AlertHistory:      7 * 24 * time.Hour,
			MaxHistoryEntries: 1000,
		},
		Notifications: Notifications{
			ConsoleLogging: true,
			WebhookTimeout: 5 * time.Second,
		},
	}
}
