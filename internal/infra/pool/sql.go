package pool

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/vietddude/poolwatch/internal/core/domain"
)

// SQLPool adapts a database/sql pool (via sqlx) to the Pool interface.
type SQLPool struct {
	db      *sqlx.DB
	started time.Time

	mu            sync.Mutex
	lastWaits     int64
	lastWaitTotal time.Duration
	waitTimes     []float64

	consecutiveChecks int
	healthFailures    int64
	healthSuccesses   int64
	tier              domain.HealthTier

	connSamples int64
	connTotal   int64
}

// NewSQLPool wraps an existing sqlx.DB.
func NewSQLPool(db *sqlx.DB) *SQLPool {
	return &SQLPool{
		db:      db,
		started: time.Now(),
		tier:    domain.TierHealthy,
	}
}

// OpenSQLPool opens a postgres database/sql pool and wraps it.
func OpenSQLPool(ctx context.Context, url string, maxConns, minConns int) (*SQLPool, error) {
	db, err := sqlx.Open("postgres", url)
	if err != nil {
		return nil, err
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
	}
	if minConns > 0 {
		db.SetMaxIdleConns(minConns)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return NewSQLPool(db), nil
}

// Metrics reads pool counters and runs one health check.
func (p *SQLPool) Metrics(ctx context.Context) (domain.BaseMetrics, error) {
	stats := p.db.Stats()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.checkHealth(ctx)

	deltaWaits := stats.WaitCount - p.lastWaits
	deltaTotal := stats.WaitDuration - p.lastWaitTotal
	p.lastWaits = stats.WaitCount
	p.lastWaitTotal = stats.WaitDuration
	if deltaWaits > 0 {
		sample := float64(deltaTotal.Milliseconds()) / float64(deltaWaits)
		p.waitTimes = append(p.waitTimes, sample)
		if len(p.waitTimes) > waitSeriesCap {
			p.waitTimes = p.waitTimes[len(p.waitTimes)-waitSeriesCap:]
		}
	}

	p.connSamples++
	p.connTotal += int64(stats.OpenConnections)

	return domain.BaseMetrics{
		TotalConnections:     stats.OpenConnections,
		ActiveConnections:    stats.InUse,
		IdleConnections:      stats.Idle,
		AcquisitionWaitTimes: append([]float64(nil), p.waitTimes...),
		OverallHealth:        p.tier,
		ConsecutiveChecks:    p.consecutiveChecks,
		HealthCheckFailures:  p.healthFailures,
		HealthCheckSuccesses: p.healthSuccesses,
	}, nil
}

// Statistics reads lifetime counters.
func (p *SQLPool) Statistics(ctx context.Context) (domain.Statistics, error) {
	stats := p.db.Stats()

	p.mu.Lock()
	avg := 0.0
	if p.connSamples > 0 {
		avg = float64(p.connTotal) / float64(p.connSamples)
	}
	p.mu.Unlock()

	closed := stats.MaxIdleClosed + stats.MaxIdleTimeClosed + stats.MaxLifetimeClosed

	return domain.Statistics{
		AverageConnections:   avg,
		ConnectionsDestroyed: closed,
		Uptime:               time.Since(p.started),
	}, nil
}

// Close releases the underlying pool.
func (p *SQLPool) Close() error {
	return p.db.Close()
}

func (p *SQLPool) checkHealth(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := p.db.PingContext(pingCtx); err != nil {
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
