// Package report composes snapshots, scores, trends, and active alerts
// into the on-demand health report.
package report

import (
	"context"
	"time"

	"github.com/vietddude/poolwatch/internal/core/domain"
	"github.com/vietddude/poolwatch/internal/monitoring/alerting"
	"github.com/vietddude/poolwatch/internal/monitoring/collector"
	"github.com/vietddude/poolwatch/internal/monitoring/metrics"
	"github.com/vietddude/poolwatch/internal/monitoring/score"
	"github.com/vietddude/poolwatch/internal/monitoring/trend"
)

// Issue strings are fixed; recommendations map off them one-to-one.
const (
	issueHighPressure    = "connection pool under high pressure"
	issueHighWaitTimes   = "high wait times detected"
	issueHighErrorRate   = "high error rate detected"
	issueTierDegraded    = "pool reports degraded health"
	issueTierUnhealthy   = "pool reports unhealthy state"
	issueFrequentScaling = "frequent scaling activity"
	issueOverallDegraded = "overall health degraded"
)

var recommendations = map[string]string{
	issueHighPressure:    "increase the maximum pool size or reduce connection hold times",
	issueHighWaitTimes:   "raise pool capacity or investigate slow connection acquisition",
	issueHighErrorRate:   "investigate failing queries and connection stability",
	issueTierDegraded:    "check database availability and network conditions",
	issueTierUnhealthy:   "check database availability and network conditions",
	issueFrequentScaling: "tune scaling thresholds to reduce pool churn",
	issueOverallDegraded: "review pool configuration and recent workload changes",
}

// Generator builds health reports. Generating a report appends the score
// to the score history, so repeated calls grow the trend series.
type Generator struct {
	collector *collector.Collector
	trends    *trend.Aggregator
	alerts    *alerting.Engine
	scores    *collector.ScoreHistory
	now       func() time.Time
}

// NewGenerator creates a report generator.
func NewGenerator(
	c *collector.Collector,
	t *trend.Aggregator,
	a *alerting.Engine,
	scores *collector.ScoreHistory,
) *Generator {
	return &Generator{
		collector: c,
		trends:    t,
		alerts:    a,
		scores:    scores,
		now:       time.Now,
	}
}

// Generate takes a fresh sample, scores it, and assembles the report.
func (g *Generator) Generate(ctx context.Context) (domain.HealthReport, error) {
	snap, err := g.collector.Sample(ctx)
	if err != nil {
		return domain.HealthReport{}, err
	}

	s := score.Score(snap)
	issues := deriveIssues(snap, s)

	recs := make([]string, 0, len(issues))
	for _, issue := range issues {
		if r, ok := recommendations[issue]; ok {
			recs = append(recs, r)
		}
	}

	g.scores.Append(domain.HealthScoreSample{Timestamp: g.now(), Score: s})
	metrics.HealthScore.Set(float64(s))

	return domain.HealthReport{
		Timestamp:       g.now(),
		Status:          score.StatusFor(s),
		Score:           s,
		Snapshot:        snap,
		Issues:          issues,
		Recommendations: recs,
		Trends:          g.trends.Trends(0),
		ActiveAlerts:    g.alerts.Active(),
	}, nil
}

func deriveIssues(snap domain.MetricsSnapshot, s int) []string {
	var issues []string

	if snap.ConnectionUtilization > 0.9 {
		issues = append(issues, issueHighPressure)
	}

	for _, w := range snap.AcquisitionWaitTimes {
		if w > 5000 {
			issues = append(issues, issueHighWaitTimes)
			break
		}
	}

	if snap.ErrorRate() > 0.05 {
		issues = append(issues, issueHighErrorRate)
	}

	switch snap.OverallHealth {
	case domain.TierDegraded:
		issues = append(issues, issueTierDegraded)
	case domain.TierUnhealthy:
		issues = append(issues, issueTierUnhealthy)
	}

	if snap.ScalingEvents() > 5 {
		issues = append(issues, issueFrequentScaling)
	}

	if s < 70 {
		issues = append(issues, issueOverallDegraded)
	}

	return issues
}
