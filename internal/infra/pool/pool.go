// Package pool defines the collaborator interface for the pooled
// resource being watched, plus adapters for the two common Go pool
// implementations. The monitor only ever reads from a pool.
package pool

import (
	"context"

	"github.com/vietddude/poolwatch/internal/core/domain"
)

// Pool exposes the runtime state of a connection pool.
type Pool interface {
	// Metrics returns the current base counters of the pool.
	Metrics(ctx context.Context) (domain.BaseMetrics, error)

	// Statistics returns lifetime and scaling counters.
	Statistics(ctx context.Context) (domain.Statistics, error)
}
