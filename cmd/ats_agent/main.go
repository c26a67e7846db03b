// Package main provides the ats_agent CLI for scoring résumés against job descriptions.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "ats_agent",
	Short: "Deterministic ATS résumé scorer",
	Long: `ats_agent scores a résumé against a job description the way an applicant
tracking system would, and explains the score with keyword coverage and
coaching notes. A Gemini API key enables the model assessment and semantic
matching; without one the scorer runs fully offline.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a JSON or YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
