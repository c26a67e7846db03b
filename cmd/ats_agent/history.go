package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/observability"
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List stored analyses, or print one stored report",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

var (
	historyPath  string
	historyDBURL string
	historyLimit int
	historyJSON  bool
)

func init() {
	historyCmd.Flags().StringVar(&historyPath, "history", "", "SQLite history file")
	historyCmd.Flags().StringVar(&historyDBURL, "db-url", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print summaries as JSON")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", db.DefaultListLimit, "Maximum number of analyses to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess := newSession(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	defer sess.Close()

	path, dbURL := historyPath, historyDBURL
	if path == "" && dbURL == "" {
		path, dbURL = cfg.HistoryPath, cfg.DatabaseURL
	}
	store, err := sess.openStore(cmd.Context(), path, dbURL)
	if err != nil {
		return err
	}
	if store == nil {
		return fmt.Errorf("either --history or --db-url must be provided")
	}

	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid analysis ID %q: %w", args[0], err)
		}
		report, err := store.GetAnalysis(cmd.Context(), id)
		if err != nil {
			return err
		}
		return writeReportJSON(cmd.OutOrStdout(), report)
	}

	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be positive")
	}
	summaries, err := store.ListAnalyses(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list analyses: %w", err)
	}
	if historyJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintHistory(summaries)
	return nil
}
