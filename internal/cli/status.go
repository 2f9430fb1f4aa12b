package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vietddude/poolwatch/internal/core/config"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current health of the watched pool",
	Run:   runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(fmt.Sprintf("http://localhost:%d/health", cfg.Server.Port))
	if err != nil {
		slog.Error("Failed to reach the monitor", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var health struct {
		Status string `json:"status"`
		Score  int    `json:"score"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		slog.Error("Failed to decode health response", "error", err)
		os.Exit(1)
	}

	fmt.Printf("status: %s\nscore:  %d\n", health.Status, health.Score)
	if resp.StatusCode != http.StatusOK {
		os.Exit(1)
	}
}
