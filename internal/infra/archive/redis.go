// Package archive holds the optional best-effort persistence backends:
// a capped Redis list of snapshots and a Postgres audit table for
// resolved alerts. Both are side channels; the monitor never reads
// them back and never fails on their errors.
package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/poolwatch/internal/core/domain"
)

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`

	// MaxEntries caps the snapshot list; older entries are trimmed away.
	MaxEntries int64 `yaml:"max_entries"`
}

// SnapshotArchive pushes collected snapshots into a capped Redis list.
type SnapshotArchive struct {
	rdb        *redis.Client
	maxEntries int64
}

const snapshotKey = "poolwatch:snapshots"

// NewSnapshotArchive connects to Redis and verifies the connection.
func NewSnapshotArchive(cfg RedisConfig) (*SnapshotArchive, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = 10000
	}

	return &SnapshotArchive{rdb: rdb, maxEntries: maxEntries}, nil
}

// Close closes the Redis connection.
func (a *SnapshotArchive) Close() error {
	return a.rdb.Close()
}

// Push appends a snapshot to the capped list, newest first.
func (a *SnapshotArchive) Push(ctx context.Context, snap domain.MetricsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	pipe := a.rdb.TxPipeline()
	pipe.LPush(ctx, snapshotKey, data)
	pipe.LTrim(ctx, snapshotKey, 0, a.maxEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("lpush snapshot: %w", err)
	}
	return nil
}
