package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-scorer/internal/analysis"
	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/observability"
	"github.com/jonathan/ats-scorer/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Score a résumé against a job description",
	Long: `Score a résumé (PDF, DOCX, HTML or plain text) against a job description
read from a file or fetched from a job posting URL. Prints a formatted report,
or the JSON report with --json.`,
	RunE: runAnalyze,
}

var (
	analyzeResume      string
	analyzeJD          string
	analyzeJDURL       string
	analyzeTitle       string
	analyzeCompany     string
	analyzeOut         string
	analyzeHistory     string
	analyzeJSON        bool
	analyzeSemantic    bool
	analyzeNoModel     bool
	analyzeUseBrowser  bool
	analyzeDatabaseURL string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeResume, "resume", "r", "", "Path to the résumé file (required)")
	analyzeCmd.Flags().StringVarP(&analyzeJD, "jd", "j", "", "Path to a job description text file")
	analyzeCmd.Flags().StringVarP(&analyzeJDURL, "jd-url", "u", "", "URL of a job posting to fetch")
	analyzeCmd.Flags().StringVar(&analyzeTitle, "title", "", "Job title")
	analyzeCmd.Flags().StringVar(&analyzeCompany, "company", "", "Company name")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Write the JSON report to this file")
	analyzeCmd.Flags().StringVar(&analyzeHistory, "history", "", "SQLite file to record the analysis in")
	analyzeCmd.Flags().StringVar(&analyzeDatabaseURL, "db-url", "", "PostgreSQL URL to record the analysis in (defaults to DATABASE_URL)")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the JSON report instead of the formatted one")
	analyzeCmd.Flags().BoolVar(&analyzeSemantic, "semantic", false, "Enable embedding-based semantic matching")
	analyzeCmd.Flags().BoolVar(&analyzeNoModel, "no-model", false, "Skip the model assessment even when an API key is set")
	analyzeCmd.Flags().BoolVar(&analyzeUseBrowser, "use-browser", false, "Render the job posting in a headless browser")

	_ = analyzeCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg, cmd.ErrOrStderr())
	ctx := cmd.Context()

	sess := newSession(cfg, logger)
	defer sess.Close()

	doc, err := ingestion.ExtractFile(analyzeResume)
	if err != nil {
		return fmt.Errorf("failed to read résumé: %w", err)
	}
	jd, err := sess.readJobDescription(ctx, analyzeJD, analyzeJDURL, analyzeUseBrowser)
	if err != nil {
		return err
	}

	dbURL := analyzeDatabaseURL
	if dbURL == "" && analyzeHistory == "" {
		dbURL = cfg.DatabaseURL
	}
	historyPath := analyzeHistory
	if historyPath == "" && dbURL == "" {
		historyPath = cfg.HistoryPath
	}
	store, err := sess.openStore(ctx, historyPath, dbURL)
	if err != nil {
		return err
	}

	analyzer, err := sess.buildAnalyzer(ctx, analyzerOptions{
		NoModel:  analyzeNoModel,
		Semantic: analyzeSemantic,
		Store:    store,
	})
	if err != nil {
		return err
	}

	flags := doc.Flags
	report, err := analyzer.Analyze(ctx, analysis.Request{
		ResumeText:     doc.Text,
		JobDescription: jd,
		JobTitle:       analyzeTitle,
		CompanyName:    analyzeCompany,
		Flags:          &flags,
	})
	if err != nil {
		return err
	}

	if analyzeOut != "" {
		if err := writeReportFile(analyzeOut, report); err != nil {
			return err
		}
		logger.Info().Str("path", analyzeOut).Msg("report written")
	}

	if analyzeJSON {
		return writeReportJSON(cmd.OutOrStdout(), report)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintReport(report)
	return nil
}

func writeReportJSON(w io.Writer, report *types.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

func writeReportFile(path string, report *types.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
