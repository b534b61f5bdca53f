package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/harun/saku/internal/history"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent tool invocations",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("history is disabled in the configuration")
	}

	store, err := history.Open(cfg.History.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	invocations, err := store.Recent(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(invocations) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No invocations recorded.")
		return nil
	}

	for _, inv := range invocations {
		line := fmt.Sprintf("%s  %-12s %-12s %s",
			inv.At.Local().Format(time.RFC3339), inv.Tool, inv.Status,
			inv.Duration.Round(time.Millisecond))
		if inv.Error != "" {
			line += "  " + inv.Error
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}
