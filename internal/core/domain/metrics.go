package domain

import "time"

// HealthTier is the coarse health classification reported by the pool
// itself, distinct from the monitor's derived 0-100 score.
type HealthTier string

const (
	TierHealthy   HealthTier = "healthy"
	TierDegraded  HealthTier = "degraded"
	TierUnhealthy HealthTier = "unhealthy"
)

// BaseMetrics is the raw counter set read from the pool collaborator.
type BaseMetrics struct {
	TotalConnections  int `json:"totalConnections"`
	ActiveConnections int `json:"activeConnections"`
	IdleConnections   int `json:"idleConnections"`

	// AcquisitionWaitTimes holds recent connection-acquisition waits in
	// milliseconds, most recent last.
	AcquisitionWaitTimes []float64 `json:"acquisitionWaitTimes"`
	AverageQueryTime     float64   `json:"averageQueryTime"` // ms
	TotalQueries         int64     `json:"totalQueries"`
	SuccessfulQueries    int64     `json:"successfulQueries"`
	FailedQueries        int64     `json:"failedQueries"`

	OverallHealth        HealthTier `json:"overallHealth"`
	ConsecutiveChecks    int        `json:"consecutiveChecks"`
	HealthCheckFailures  int64      `json:"healthCheckFailures"`
	HealthCheckSuccesses int64      `json:"healthCheckSuccesses"`
}

// Statistics is the lifetime/scaling counter set read from the pool.
type Statistics struct {
	ScaleUpEvents        int64         `json:"scaleUpEvents"`
	ScaleDownEvents      int64         `json:"scaleDownEvents"`
	AverageConnections   float64       `json:"averageConnections"`
	ConnectionsCreated   int64         `json:"connectionsCreated"`
	ConnectionsDestroyed int64         `json:"connectionsDestroyed"`
	Uptime               time.Duration `json:"uptime"`
}

// MetricsSnapshot is one sample in time. Immutable once appended to history.
type MetricsSnapshot struct {
	Timestamp time.Time `json:"timestamp"`

	TotalConnections  int `json:"totalConnections"`
	ActiveConnections int `json:"activeConnections"`
	IdleConnections   int `json:"idleConnections"`

	AcquisitionWaitTimes []float64 `json:"acquisitionWaitTimes"`
	AverageQueryTime     float64   `json:"averageQueryTime"`
	TotalQueries         int64     `json:"totalQueries"`
	SuccessfulQueries    int64     `json:"successfulQueries"`
	FailedQueries        int64     `json:"failedQueries"`

	OverallHealth        HealthTier `json:"overallHealth"`
	ConsecutiveChecks    int        `json:"consecutiveChecks"`
	HealthCheckFailures  int64      `json:"healthCheckFailures"`
	HealthCheckSuccesses int64      `json:"healthCheckSuccesses"`

	ScaleUpEvents   int64 `json:"scaleUpEvents"`
	ScaleDownEvents int64 `json:"scaleDownEvents"`

	// Derived efficiency fields.
	ConnectionUtilization float64 `json:"connectionUtilization"`
	PoolEfficiency        float64 `json:"poolEfficiency"`
	ScalingEfficiency     float64 `json:"scalingEfficiency"`

	// Derived lifecycle rates, per second of uptime.
	CreationRate    float64 `json:"creationRate"`
	DestructionRate float64 `json:"destructionRate"`
}

// NewSnapshot derives a snapshot from raw pool metrics and statistics.
//
// Division policy: event/time denominators are floored at 1, ratios over a
// zero connection count are 0.
func NewSnapshot(ts time.Time, m BaseMetrics, s Statistics) MetricsSnapshot {
	snap := MetricsSnapshot{
		Timestamp:            ts,
		TotalConnections:     m.TotalConnections,
		ActiveConnections:    m.ActiveConnections,
		IdleConnections:      m.IdleConnections,
		AcquisitionWaitTimes: m.AcquisitionWaitTimes,
		AverageQueryTime:     m.AverageQueryTime,
		TotalQueries:         m.TotalQueries,
		SuccessfulQueries:    m.SuccessfulQueries,
		FailedQueries:        m.FailedQueries,
		OverallHealth:        m.OverallHealth,
		ConsecutiveChecks:    m.ConsecutiveChecks,
		HealthCheckFailures:  m.HealthCheckFailures,
		HealthCheckSuccesses: m.HealthCheckSuccesses,
		ScaleUpEvents:        s.ScaleUpEvents,
		ScaleDownEvents:      s.ScaleDownEvents,
	}

	if m.TotalConnections > 0 {
		total := float64(m.TotalConnections)
		snap.ConnectionUtilization = float64(m.ActiveConnections) / total
		snap.PoolEfficiency = float64(m.IdleConnections) / total
		snap.ScalingEfficiency = min(1, s.AverageConnections/total)
	}

	uptimeSec := s.Uptime.Seconds()
	if uptimeSec < 1 {
		uptimeSec = 1
	}
	snap.CreationRate = float64(s.ConnectionsCreated) / uptimeSec
	snap.DestructionRate = float64(s.ConnectionsDestroyed) / uptimeSec

	return snap
}

// LatestWaitTime returns the most recent acquisition wait sample, 0 if none.
func (s MetricsSnapshot) LatestWaitTime() float64 {
	if len(s.AcquisitionWaitTimes) == 0 {
		return 0
	}
	return s.AcquisitionWaitTimes[len(s.AcquisitionWaitTimes)-1]
}

// AverageWaitTime returns the mean of the wait series, 0 when empty.
func (s MetricsSnapshot) AverageWaitTime() float64 {
	if len(s.AcquisitionWaitTimes) == 0 {
		return 0
	}
	var sum float64
	for _, w := range s.AcquisitionWaitTimes {
		sum += w
	}
	return sum / float64(len(s.AcquisitionWaitTimes))
}

// ErrorRate returns failed/total queries with the total floored at 1.
func (s MetricsSnapshot) ErrorRate() float64 {
	return float64(s.FailedQueries) / float64(max(s.TotalQueries, 1))
}

// HealthCheckFailureRate returns failures over all checks, floored at 1.
func (s MetricsSnapshot) HealthCheckFailureRate() float64 {
	total := s.HealthCheckFailures + s.HealthCheckSuccesses
	return float64(s.HealthCheckFailures) / float64(max(total, 1))
}

// ScalingEvents returns the combined scale-up/scale-down count.
func (s MetricsSnapshot) ScalingEvents() int64 {
	return s.ScaleUpEvents + s.ScaleDownEvents
}
