package domain

import (
	"testing"
	"time"
)

func TestNewSnapshot_DerivedFields(t *testing.T) {
	ts := time.Now()
	snap := NewSnapshot(ts, BaseMetrics{
		TotalConnections:  10,
		ActiveConnections: 7,
		IdleConnections:   3,
	}, Statistics{
		AverageConnections:   8,
		ConnectionsCreated:   120,
		ConnectionsDestroyed: 60,
		Uptime:               60 * time.Second,
	})

	if snap.ConnectionUtilization != 0.7 {
		t.Errorf("expected utilization 0.7, got %v", snap.ConnectionUtilization)
	}
	if snap.PoolEfficiency != 0.3 {
		t.Errorf("expected efficiency 0.3, got %v", snap.PoolEfficiency)
	}
	if snap.ScalingEfficiency != 0.8 {
		t.Errorf("expected scaling efficiency 0.8, got %v", snap.ScalingEfficiency)
	}
	if snap.CreationRate != 2 {
		t.Errorf("expected creation rate 2/s, got %v", snap.CreationRate)
	}
	if snap.DestructionRate != 1 {
		t.Errorf("expected destruction rate 1/s, got %v", snap.DestructionRate)
	}
}

func TestNewSnapshot_ZeroConnections(t *testing.T) {
	snap := NewSnapshot(time.Now(), BaseMetrics{}, Statistics{})

	if snap.ConnectionUtilization != 0 {
		t.Errorf("expected utilization 0 on empty pool, got %v", snap.ConnectionUtilization)
	}
	if snap.PoolEfficiency != 0 || snap.ScalingEfficiency != 0 {
		t.Errorf("expected zero efficiencies, got %v / %v", snap.PoolEfficiency, snap.ScalingEfficiency)
	}
}

func TestNewSnapshot_ZeroUptimeFlooredAtOneSecond(t *testing.T) {
	snap := NewSnapshot(time.Now(), BaseMetrics{}, Statistics{
		ConnectionsCreated: 5,
	})

	if snap.CreationRate != 5 {
		t.Errorf("expected creation rate 5 with floored uptime, got %v", snap.CreationRate)
	}
}

func TestNewSnapshot_ScalingEfficiencyCapped(t *testing.T) {
	snap := NewSnapshot(time.Now(), BaseMetrics{
		TotalConnections: 4,
	}, Statistics{
		AverageConnections: 12,
	})

	if snap.ScalingEfficiency != 1 {
		t.Errorf("expected scaling efficiency capped at 1, got %v", snap.ScalingEfficiency)
	}
}

func TestSnapshot_RatesWithFlooredDenominators(t *testing.T) {
	var snap MetricsSnapshot

	if snap.ErrorRate() != 0 {
		t.Errorf("expected 0 error rate on empty snapshot, got %v", snap.ErrorRate())
	}
	if snap.HealthCheckFailureRate() != 0 {
		t.Errorf("expected 0 failure rate, got %v", snap.HealthCheckFailureRate())
	}
	if snap.AverageWaitTime() != 0 || snap.LatestWaitTime() != 0 {
		t.Error("expected 0 wait times on empty series")
	}

	snap.FailedQueries = 10
	snap.TotalQueries = 100
	if snap.ErrorRate() != 0.1 {
		t.Errorf("expected error rate 0.1, got %v", snap.ErrorRate())
	}

	snap.AcquisitionWaitTimes = []float64{100, 300}
	if snap.AverageWaitTime() != 200 {
		t.Errorf("expected avg wait 200, got %v", snap.AverageWaitTime())
	}
	if snap.LatestWaitTime() != 300 {
		t.Errorf("expected latest wait 300, got %v", snap.LatestWaitTime())
	}
}
