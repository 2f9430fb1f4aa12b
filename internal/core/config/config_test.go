package config

import (
	"testing"
	"time"
)

func TestApply_PartialOverrides(t *testing.T) {
	base := DefaultMonitor()

	interval := 5 * time.Second
	util := 0.75
	disabled := false

	merged := base.Apply(MonitorOverrides{
		SamplingInterval:     &interval,
		UtilizationThreshold: &util,
		Enabled:              &disabled,
	})

	if merged.SamplingInterval != interval {
		t.Errorf("expected interval %v, got %v", interval, merged.SamplingInterval)
	}
	if merged.Thresholds.Utilization != util {
		t.Errorf("expected utilization threshold %v, got %v", util, merged.Thresholds.Utilization)
	}
	if merged.Enabled {
		t.Error("expected enabled=false after override")
	}

	// Everything not supplied stays at its previous value.
	if merged.Thresholds.WaitTimeMs != base.Thresholds.WaitTimeMs {
		t.Error("wait-time threshold must be untouched")
	}
	if merged.Retention != base.Retention {
		t.Error("retention must be untouched")
	}
	if merged.Notifications != base.Notifications {
		t.Error("notifications must be untouched")
	}
}

func TestApply_EmptyOverridesChangeNothing(t *testing.T) {
	base := DefaultMonitor()

	if merged := base.Apply(MonitorOverrides{}); merged != base {
		t.Error("empty overrides must return the config unchanged")
	}
}

func TestApply_DoesNotMutateReceiver(t *testing.T) {
	base := DefaultMonitor()
	util := 0.5

	_ = base.Apply(MonitorOverrides{UtilizationThreshold: &util})

	if base.Thresholds.Utilization != DefaultMonitor().Thresholds.Utilization {
		t.Error("Apply must not mutate the receiver")
	}
}
