package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/vietddude/poolwatch/internal/core/config"
)

var alertsLimit int

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List recently audited alerts from the database",
	Run:   runAlerts,
}

func init() {
	alertsCmd.Flags().IntVar(&alertsLimit, "limit", 20, "maximum number of alerts to list")
	rootCmd.AddCommand(alertsCmd)
}

func runAlerts(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.Database.URL == "" {
		slog.Error("No database configured; alert audit is disabled")
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := sqlx.Open("postgres", cfg.Database.URL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = db.Close()
	}()

	rows, err := db.QueryContext(ctx, `
		SELECT alert_id, type, severity, message, created_at
		FROM alert_audit
		ORDER BY created_at DESC
		LIMIT $1
	`, alertsLimit)
	if err != nil {
		slog.Error("Failed to query alert audit", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = rows.Close()
	}()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.Debug)
	_, _ = fmt.Fprintln(w, "ID\tTYPE\tSEVERITY\tCREATED\tMESSAGE")

	for rows.Next() {
		var id, typ, sev, msg string
		var createdAt time.Time
		if err := rows.Scan(&id, &typ, &sev, &msg, &createdAt); err != nil {
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			id, typ, sev, createdAt.Format(time.RFC3339), msg)
	}
	_ = w.Flush()
}
