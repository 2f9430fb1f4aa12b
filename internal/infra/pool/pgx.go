package pool

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vietddude/poolwatch/internal/core/domain"
)

// waitSeriesCap bounds the rolling acquisition-wait series kept per adapter.
const waitSeriesCap = 50

// PgxPool adapts a pgxpool.Pool to the Pool interface. Acquisition wait
// times are derived from the deltas of the pool's cumulative acquire
// counters between reads, and the health tier from ping results.
type PgxPool struct {
	pool    *pgxpool.Pool
	started time.Time

	mu            sync.Mutex
	lastAcquires  int64
	lastWaitTotal time.Duration
	waitTimes     []float64

	consecutiveChecks int
	healthFailures    int64
	healthSuccesses   int64
	tier              domain.HealthTier

	connSamples int64
	connTotal   int64
}

// NewPgxPool wraps an existing pgxpool.Pool.
func NewPgxPool(p *pgxpool.Pool) *PgxPool {
	return &PgxPool{
		pool:    p,
		started: time.Now(),
		tier:    domain.TierHealthy,
	}
}

// OpenPgxPool connects a new pgxpool and wraps it.
func OpenPgxPool(ctx context.Context, url string) (*PgxPool, error) {
	p, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, err
	}
	return NewPgxPool(p), nil
}

// Metrics reads pool counters and runs one health check.
func (p *PgxPool) Metrics(ctx context.Context) (domain.BaseMetrics, error) {
	stat := p.pool.Stat()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.checkHealth(ctx)
	p.recordWaitSample(stat.AcquireCount(), stat.AcquireDuration())

	p.connSamples++
	p.connTotal += int64(stat.TotalConns())

	return domain.BaseMetrics{
		TotalConnections:     int(stat.TotalConns()),
		ActiveConnections:    int(stat.AcquiredConns()),
		IdleConnections:      int(stat.IdleConns()),
		AcquisitionWaitTimes: append([]float64(nil), p.waitTimes...),
		OverallHealth:        p.tier,
		ConsecutiveChecks:    p.consecutiveChecks,
		HealthCheckFailures:  p.healthFailures,
		HealthCheckSuccesses: p.healthSuccesses,
	}, nil
}

// Statistics reads lifetime counters.
func (p *PgxPool) Statistics(ctx context.Context) (domain.Statistics, error) {
	stat := p.pool.Stat()

	p.mu.Lock()
	avg := 0.0
	if p.connSamples > 0 {
		avg = float64(p.connTotal) / float64(p.connSamples)
	}
	p.mu.Unlock()

	destroyed := stat.MaxLifetimeDestroyCount() + stat.MaxIdleDestroyCount()

	return domain.Statistics{
		AverageConnections:   avg,
		ConnectionsCreated:   stat.NewConnsCount(),
		ConnectionsDestroyed: destroyed,
		Uptime:               time.Since(p.started),
	}, nil
}

// Close releases the underlying pool.
func (p *PgxPool) Close() {
	p.pool.Close()
}

func (p *PgxPool) checkHealth(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.pool.Ping(pingCtx); err != nil {
		p.healthFailures++
		p.consecutiveChecks = 0
		if p.tier == domain.TierDegraded {
			p.tier = domain.TierUnhealthy
		} else if p.tier == domain.TierHealthy {
			p.tier = domain.TierDegraded
		}
		return
	}

	p.healthSuccesses++
	p.consecutiveChecks++
	p.tier = domain.TierHealthy
}

// recordWaitSample appends the mean acquisition wait (ms) observed since
// the previous read.
func (p *PgxPool) recordWaitSample(acquires int64, waitTotal time.Duration) {
	deltaCount := acquires - p.lastAcquires
	deltaWait := waitTotal - p.lastWaitTotal
	p.lastAcquires = acquires
	p.lastWaitTotal = waitTotal

	if deltaCount <= 0 {
		return
	}

	sample := float64(deltaWait.Milliseconds()) / float64(deltaCount)
	p.waitTimes = append(p.waitTimes, sample)
	if len(p.waitTimes) > waitSeriesCap {
		p.waitTimes = p.waitTimes[len(p.waitTimes)-waitSeriesCap:]
	}
}
