package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/vietddude/poolwatch/internal/core/domain"
)

// PostgresConfig holds PostgreSQL connection configuration.
type PostgresConfig struct {
	URL      string `yaml:"url"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// AlertAudit is the durable record of alerts swept out of memory.
type AlertAudit struct {
	db *sqlx.DB
}

// NewAlertAudit opens the database, runs migrations, and verifies the
// connection.
func NewAlertAudit(ctx context.Context, cfg PostgresConfig, migrationsDir string) (*AlertAudit, error) {
	db, err := sqlx.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(10)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	} else {
		db.SetMaxIdleConns(2)
	}
	db.SetConnMaxLifetime(time.Hour)
	db.SetConnMaxIdleTime(30 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := goose.SetDialect("postgres"); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := goose.Up(db.DB, migrationsDir); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate db: %w", err)
	}

	return &AlertAudit{db: db}, nil
}

// Close closes the database connection.
func (a *AlertAudit) Close() error {
	return a.db.Close()
}

// Record writes one resolved alert into the audit table.
func (a *AlertAudit) Record(ctx context.Context, alert domain.Alert) error {
	details, err := json.Marshal(alert.Details)
	if err != nil {
		return fmt.Errorf("marshal alert details: %w", err)
	}

	query := `
		INSERT INTO alert_audit (alert_id, type, severity, message, details, created_at, resolved_at, acknowledged_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (alert_id) DO NOTHING
	`
	_, err = a.db.ExecContext(
		ctx,
		query,
		alert.ID,
		string(alert.Type),
		string(alert.Severity),
		alert.Message,
		details,
		alert.CreatedAt,
		alert.ResolvedAt,
		alert.AcknowledgedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to record alert audit: %w", err)
	}
	return nil
}

// Health checks if the database is reachable.
func (a *AlertAudit) Health(ctx context.Context) error {
	return a.db.PingContext(ctx)
}
