// Package collector samples the watched pool, derives efficiency fields,
// and maintains the bounded metrics history.
package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/vietddude/poolwatch/internal/core/domain"
	"github.com/vietddude/poolwatch/internal/infra/pool"
	"github.com/vietddude/poolwatch/internal/monitoring/metrics"
)

// Evaluator is notified with every stored snapshot.
type Evaluator interface {
	Evaluate(snap domain.MetricsSnapshot)
}

// Archiver receives a best-effort copy of every stored snapshot.
type Archiver interface {
	Push(ctx context.Context, snap domain.MetricsSnapshot) error
}

// Collector samples the pool and owns the snapshot history.
type Collector struct {
	pool      pool.Pool
	history   *History
	evaluator Evaluator
	archiver  Archiver
	now       func() time.Time
}

// New creates a collector. evaluator and archiver may be nil.
func New(p pool.Pool, history *History, evaluator Evaluator, archiver Archiver) *Collector {
	return &Collector{
		pool:      p,
		history:   history,
		evaluator: evaluator,
		archiver:  archiver,
		now:       time.Now,
	}
}

// History exposes the snapshot store for trend/export consumers.
func (c *Collector) History() *History {
	return c.history
}

// Sample reads the pool's metrics and statistics and derives a snapshot.
// It has no side effects; collaborator errors propagate unmodified.
func (c *Collector) Sample(ctx context.Context) (domain.MetricsSnapshot, error) {
	base, err := c.pool.Metrics(ctx)
	if err != nil {
		return domain.MetricsSnapshot{}, err
	}

	stats, err := c.pool.Statistics(ctx)
	if err != nil {
		return domain.MetricsSnapshot{}, err
	}

	return domain.NewSnapshot(c.now(), base, stats), nil
}

// CollectAndStore samples, appends to the bounded history, and triggers
// alert evaluation on the new snapshot.
func (c *Collector) CollectAndStore(ctx context.Context) (domain.MetricsSnapshot, error) {
	snap, err := c.Sample(ctx)
	if err != nil {
		metrics.SampleFailures.Inc()
		return domain.MetricsSnapshot{}, err
	}

	c.history.Append(snap)

	metrics.SamplesCollected.Inc()
	metrics.PoolUtilization.Set(snap.ConnectionUtilization)
	metrics.PoolConnections.WithLabelValues("total").Set(float64(snap.TotalConnections))
	metrics.PoolConnections.WithLabelValues("active").Set(float64(snap.ActiveConnections))
	metrics.PoolConnections.WithLabelValues("idle").Set(float64(snap.IdleConnections))

	if c.evaluator != nil {
		c.evaluator.Evaluate(snap)
	}

	if c.archiver != nil {
		if err := c.archiver.Push(ctx, snap); err != nil {
			slog.Warn("Failed to archive snapshot", "error", err)
		}
	}

	return snap, nil
}
