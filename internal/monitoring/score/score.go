// Package score converts a metrics snapshot into a 0-100 health score
// and maps scores onto status tiers. Both functions are pure.
package score

import (
	"math"

	"github.com/vietddude/poolwatch/internal/core/domain"
)

// Score rates a snapshot on a 0-100 scale. Starting from 100 it deducts:
//
//   - utilization above 0.8, at 200 points per unit over (40 at full
//     utilization)
//   - mean acquisition wait above 1000ms, (avg-1000)/100, capped at 30
//   - query error rate, rate*600, capped at 30
//   - pool-reported tier: 40 for unhealthy, 20 for degraded
//
// The result is clamped to [0,100] and rounded to the nearest integer.
func Score(snap domain.MetricsSnapshot) int {
	total := 100.0

	if u := snap.ConnectionUtilization; u > 0.8 {
		total -= (u - 0.8) * 200
	}

	if avg := snap.AverageWaitTime(); avg > 1000 {
		total -= math.Min(30, (avg-1000)/100)
	}

	if rate := snap.ErrorRate(); rate > 0 {
		total -= math.Min(30, rate*600)
	}

	switch snap.OverallHealth {
	case domain.TierUnhealthy:
		total -= 40
	case domain.TierDegraded:
		total -= 20
	}

	total = math.Max(0, math.Min(100, total))
	return int(math.Round(total))
}

// StatusFor maps a score to a status tier.
func StatusFor(score int) domain.Status {
	switch {
	case score >= 90:
		return domain.StatusHealthy
	case score >= 70:
		return domain.StatusDegraded
	case score >= 50:
		return domain.StatusUnhealthy
	default:
		return domain.StatusCritical
	}
}
