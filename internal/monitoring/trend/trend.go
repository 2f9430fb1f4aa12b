// Package trend projects the stored history into windowed time series
// for reporting. Read-only, no side effects.
package trend

import (
	"time"

	"github.com/vietddude/poolwatch/internal/core/domain"
	"github.com/vietddude/poolwatch/internal/monitoring/collector"
)

// DefaultLookback is used when the caller passes no window.
const DefaultLookback = time.Hour

// Aggregator reads the snapshot and score histories.
type Aggregator struct {
	history *collector.History
	scores  *collector.ScoreHistory
	now     func() time.Time
}

// NewAggregator creates a trend aggregator over the given stores.
func NewAggregator(history *collector.History, scores *collector.ScoreHistory) *Aggregator {
	return &Aggregator{
		history: history,
		scores:  scores,
		now:     time.Now,
	}
}

// Trends returns the series for all history entries newer than
// now-lookback (DefaultLookback when lookback <= 0).
func (a *Aggregator) Trends(lookback time.Duration) domain.Trends {
	if lookback <= 0 {
		lookback = DefaultLookback
	}
	cutoff := a.now().Add(-lookback)

	entries := a.history.Since(cutoff)
	trends := domain.Trends{
		Utilization: make([]domain.TrendPoint, 0, len(entries)),
		Performance: make([]domain.PerformancePoint, 0, len(entries)),
	}

	for _, e := range entries {
		trends.Utilization = append(trends.Utilization, domain.TrendPoint{
			Timestamp: e.Timestamp,
			Value:     e.ConnectionUtilization,
		})
		trends.Performance = append(trends.Performance, domain.PerformancePoint{
			Timestamp:           e.Timestamp,
			AcquisitionWaitTime: e.LatestWaitTime(),
			AverageQueryTime:    e.AverageQueryTime,
		})
	}

	trends.HealthScore = a.scores.All()
	return trends
}
