package domain

import "time"

// AlertType is the closed set of detectable problem classes.
type AlertType string

const (
	AlertConnectionExhaustion   AlertType = "connection-exhaustion"
	AlertHighWaitTime           AlertType = "high-wait-time"
	AlertHealthCheckFailure     AlertType = "health-check-failure"
	AlertScalingIssue           AlertType = "scaling-issue"
	AlertPerformanceDegradation AlertType = "performance-degradation"
	AlertConfigurationError     AlertType = "configuration-error"
)

type AlertSeverity string

const (
	SeverityInfo     AlertSeverity = "info"
	SeverityWarning  AlertSeverity = "warning"
	SeverityError    AlertSeverity = "error"
	SeverityCritical AlertSeverity = "critical"
)

// Alert represents a detected threshold breach. The resolved and
// acknowledged flags only transition false to true, never back.
type Alert struct {
	ID             string         `json:"id"`
	Type           AlertType      `json:"type"`
	Severity       AlertSeverity  `json:"severity"`
	Message        string         `json:"message"`
	Details        map[string]any `json:"details,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
	Resolved       bool           `json:"resolved"`
	ResolvedAt     *time.Time     `json:"resolvedAt,omitempty"`
	Acknowledged   bool           `json:"acknowledged"`
	AcknowledgedBy string         `json:"acknowledgedBy,omitempty"`
}
