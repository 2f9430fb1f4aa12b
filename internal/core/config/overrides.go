package config

import "time"

// MonitorOverrides is a partial MonitorConfig: only non-nil fields are
// applied, everything else is left untouched.
type MonitorOverrides struct {
	Enabled          *bool
	SamplingInterval *time.Duration

	UtilizationThreshold       *float64
	WaitTimeThresholdMs        *float64
	ErrorRateThreshold         *float64
	HealthFailureRateThreshold *float64
	ScalingEventsThreshold     *int64

	MetricsHistory    *time.Duration
	AlertHistory      *time.Duration
	MaxHistoryEntries *int

	ConsoleLogging *bool
	WebhookEnabled *bool
	WebhookURL     *string
	WebhookTimeout *time.Duration

	AlertCooldown *time.Duration
}

// Apply merges the overrides onto c and returns the result.
func (c MonitorConfig) Apply(o MonitorOverrides) MonitorConfig {
	if o.Enabled != nil {
		c.Enabled = *o.Enabled
	}
	if o.SamplingInterval != nil {
		c.SamplingInterval = *o.SamplingInterval
	}
	if o.UtilizationThreshold != nil {
		c.Thresholds.Utilization = *o.UtilizationThreshold
	}
	if o.WaitTimeThresholdMs != nil {
		c.Thresholds.WaitTimeMs = *o.WaitTimeThresholdMs
	}
	if o.ErrorRateThreshold != nil {
		c.Thresholds.ErrorRate = *o.ErrorRateThreshold
	}
	if o.HealthFailureRateThreshold != nil {
		c.Thresholds.HealthFailureRate = *o.HealthFailureRateThreshold
	}
	if o.ScalingEventsThreshold != nil {
		c.Thresholds.ScalingEvents = *o.ScalingEventsThreshold
	}
	if o.MetricsHistory != nil {
		c.Retention.MetricsHistory = *o.MetricsHistory
	}
	if o.AlertHistory != nil {
		c.Retention.AlertHistory = *o.AlertHistory
	}
	if o.MaxHistoryEntries != nil {
		c.Retention.MaxHistoryEntries = *o.MaxHistoryEntries
	}
	if o.ConsoleLogging != nil {
		c.Notifications.ConsoleLogging = *o.ConsoleLogging
	}
	if o.WebhookEnabled != nil {
		c.Notifications.WebhookEnabled = *o.WebhookEnabled
	}
	if o.WebhookURL != nil {
		c.Notifications.WebhookURL = *o.WebhookURL
	}
	if o.WebhookTimeout != nil {
		c.Notifications.WebhookTimeout = *o.WebhookTimeout
	}
	if o.AlertCooldown != nil {
		c.AlertCooldown = *o.AlertCooldown
	}
	return c
}
