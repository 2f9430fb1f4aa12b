package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/vietddude/poolwatch/internal/core/domain"
)

type fakePool struct {
	metrics domain.BaseMetrics
	stats   domain.Statistics
	err     error
}

func (f *fakePool) Metrics(ctx context.Context) (domain.BaseMetrics, error) {
	return f.metrics, f.err
}

func (f *fakePool) Statistics(ctx context.Context) (domain.Statistics, error) {
	return f.stats, f.err
}

type recordingEvaluator struct {
	seen []domain.MetricsSnapshot
}

func (r *recordingEvaluator) Evaluate(snap domain.MetricsSnapshot) {
	r.seen = append(r.seen, snap)
}

func TestCollector_Sample(t *testing.T) {
	p := &fakePool{
		metrics: domain.BaseMetrics{
			TotalConnections:  10,
			ActiveConnections: 4,
			IdleConnections:   6,
			OverallHealth:     domain.TierHealthy,
		},
		stats: domain.Statistics{Uptime: time.Minute},
	}
	c := New(p, NewHistory(time.Hour, 100), nil, nil)

	snap, err := c.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample failed: %v", err)
	}
	if snap.ConnectionUtilization != 0.4 {
		t.Errorf("expected utilization 0.4, got %v", snap.ConnectionUtilization)
	}
	if c.history.Len() != 0 {
		t.Error("Sample must not append to history")
	}
}

func TestCollector_SampleErrorPropagates(t *testing.T) {
	poolErr := errors.New("pool unavailable")
	c := New(&fakePool{err: poolErr}, NewHistory(time.Hour, 100), nil, nil)

	if _, err := c.CollectAndStore(context.Background()); !errors.Is(err, poolErr) {
		t.Errorf("expected pool error to propagate, got %v", err)
	}
	if c.history.Len() != 0 {
		t.Error("failed sample must not be stored")
	}
}

func TestCollector_CollectAndStoreTriggersEvaluation(t *testing.T) {
	eval := &recordingEvaluator{}
	c := New(&fakePool{
		metrics: domain.BaseMetrics{TotalConnections: 2, ActiveConnections: 2},
	}, NewHistory(time.Hour, 100), eval, nil)

	snap, err := c.CollectAndStore(context.Background())
	if err != nil {
		t.Fatalf("CollectAndStore failed: %v", err)
	}
	if len(eval.seen) != 1 {
		t.Fatalf("expected 1 evaluation, got %d", len(eval.seen))
	}
	if eval.seen[0].Timestamp != snap.Timestamp {
		t.Error("evaluator received a different snapshot")
	}
	if c.history.Len() != 1 {
		t.Errorf("expected 1 history entry, got %d", c.history.Len())
	}
}

func TestHistory_MaxEntriesBound(t *testing.T) {
	h := NewHistory(time.Hour, 3)
	now := time.Now()

	for i := 0; i < 10; i++ {
		h.Append(domain.MetricsSnapshot{
			Timestamp:        now.Add(time.Duration(i) * time.Second),
			TotalConnections: i,
		})
	}

	if h.Len() != 3 {
		t.Fatalf("expected history capped at 3, got %d", h.Len())
	}
	entries := h.All()
	if entries[0].TotalConnections != 7 {
		t.Errorf("expected oldest surviving entry to be #7, got #%d", entries[0].TotalConnections)
	}
}

func TestHistory_RetentionCutoff(t *testing.T) {
	h := NewHistory(10*time.Minute, 100)
	now := time.Now()

	h.Append(domain.MetricsSnapshot{Timestamp: now.Add(-time.Hour)})
	h.Append(domain.MetricsSnapshot{Timestamp: now.Add(-5 * time.Minute)})
	h.Append(domain.MetricsSnapshot{Timestamp: now})

	if h.Len() != 2 {
		t.Errorf("expected expired entry pruned, got %d entries", h.Len())
	}
}

func TestHistory_RetentionKeepsBoundaryEntry(t *testing.T) {
	h := NewHistory(10*time.Minute, 100)
	now := time.Now()

	h.Append(domain.MetricsSnapshot{Timestamp: now.Add(-10 * time.Minute), TotalConnections: 1})
	h.Append(domain.MetricsSnapshot{Timestamp: now, TotalConnections: 2})

	if h.Len() != 2 {
		t.Fatalf("entry exactly at the window edge must survive, got %d entries", h.Len())
	}
	if h.All()[0].TotalConnections != 1 {
		t.Error("boundary entry was evicted")
	}
}

func TestHistory_SetBounds(t *testing.T) {
	h := NewHistory(time.Hour, 10)
	now := time.Now()

	for i := 0; i < 6; i++ {
		h.Append(domain.MetricsSnapshot{Timestamp: now.Add(time.Duration(i) * time.Second)})
	}

	h.SetBounds(time.Hour, 4)
	if h.Len() != 4 {
		t.Fatalf("expected existing entries trimmed to the new cap, got %d", h.Len())
	}

	h.Append(domain.MetricsSnapshot{Timestamp: now.Add(10 * time.Second)})
	if h.Len() != 4 {
		t.Errorf("expected new cap enforced on append, got %d", h.Len())
	}
}

func TestHistory_Since(t *testing.T) {
	h := NewHistory(time.Hour, 100)
	now := time.Now()

	h.Append(domain.MetricsSnapshot{Timestamp: now.Add(-30 * time.Minute)})
	h.Append(domain.MetricsSnapshot{Timestamp: now.Add(-5 * time.Minute)})

	got := h.Since(now.Add(-10 * time.Minute))
	if len(got) != 1 {
		t.Fatalf("expected 1 entry in window, got %d", len(got))
	}
}

func TestScoreHistory_Retention(t *testing.T) {
	s := NewScoreHistory(10 * time.Minute)
	now := time.Now()

	s.Append(domain.HealthScoreSample{Timestamp: now.Add(-time.Hour), Score: 90})
	s.Append(domain.HealthScoreSample{Timestamp: now, Score: 80})

	got := s.All()
	if len(got) != 1 || got[0].Score != 80 {
		t.Errorf("expected only the fresh sample, got %v", got)
	}
}

func TestScoreHistory_SetRetention(t *testing.T) {
	s := NewScoreHistory(time.Hour)
	now := time.Now()

	s.Append(domain.HealthScoreSample{Timestamp: now.Add(-30 * time.Minute), Score: 90})
	s.SetRetention(10 * time.Minute)
	s.Append(domain.HealthScoreSample{Timestamp: now, Score: 80})

	got := s.All()
	if len(got) != 1 || got[0].Score != 80 {
		t.Errorf("expected the shrunk window to drop the stale sample, got %v", got)
	}
}
