package main

import (
	"github.com/spf13/cobra"

	"github.com/jonathan/ats-scorer/internal/logging"
	"github.com/jonathan/ats-scorer/internal/server"
)

var (
	servePort     int
	serveHistory  string
	serveDBURL    string
	serveNoModel  bool
	serveSemantic bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes POST /analyze and POST /analyze/upload.
When a history file or database is configured, stored analyses are served
from GET /analyses and GET /analyses/{id}.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, 8080)")
	serveCmd.Flags().StringVar(&serveHistory, "history", "", "SQLite history file")
	serveCmd.Flags().StringVar(&serveDBURL, "db-url", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	serveCmd.Flags().BoolVar(&serveNoModel, "no-model", false, "Skip the model assessment even when an API key is set")
	serveCmd.Flags().BoolVar(&serveSemantic, "semantic", false, "Enable embedding-based semantic matching")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = servePort
	}
	logger := newLoggerFormat(cfg, cmd.ErrOrStderr(), logging.FormatJSON)
	ctx := cmd.Context()

	sess := newSession(cfg, logger)
	defer sess.Close()

	path, dbURL := serveHistory, serveDBURL
	if path == "" && dbURL == "" {
		// the shared database wins over a local history file
		dbURL = cfg.DatabaseURL
		if dbURL == "" {
			path = cfg.HistoryPath
		}
	}
	store, err := sess.openStore(ctx, path, dbURL)
	if err != nil {
		return err
	}

	analyzer, err := sess.buildAnalyzer(ctx, analyzerOptions{
		NoModel:  serveNoModel,
		Semantic: serveSemantic,
		Store:    store,
	})
	if err != nil {
		return err
	}

	srv := server.New(server.Config{Port: cfg.Server.Port, Logger: logger}, analyzer, store)
	return srv.Start(ctx)
}
