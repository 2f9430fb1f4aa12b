package domain

import "time"

// Status is the monitor's derived status tier from the 0-100 score.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
	StatusCritical  Status = "critical"
)

// HealthScoreSample is one (timestamp, score) point, appended per report.
type HealthScoreSample struct {
	Timestamp time.Time `json:"timestamp"`
	Score     int       `json:"score"`
}

// TrendPoint is a (timestamp, value) projection of a history entry.
type TrendPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// PerformancePoint carries the latest wait sample and the average query
// time of one history entry.
type PerformancePoint struct {
	Timestamp           time.Time `json:"timestamp"`
	AcquisitionWaitTime float64   `json:"acquisitionWaitTime"`
	AverageQueryTime    float64   `json:"averageQueryTime"`
}

// Trends groups the windowed series produced for reporting.
type Trends struct {
	Utilization []TrendPoint        `json:"utilization"`
	Performance []PerformancePoint  `json:"performance"`
	HealthScore []HealthScoreSample `json:"healthScore"`
}

// HealthReport is the combined on-demand report object.
type HealthReport struct {
	Timestamp       time.Time       `json:"timestamp"`
	Status          Status          `json:"status"`
	Score           int             `json:"score"`
	Snapshot        MetricsSnapshot `json:"snapshot"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
	Trends          Trends          `json:"trends"`
	ActiveAlerts    []Alert         `json:"activeAlerts"`
}
