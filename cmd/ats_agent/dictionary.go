package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-scorer/internal/keywords"
	"github.com/jonathan/ats-scorer/internal/observability"
)

var dictionaryCmd = &cobra.Command{
	Use:   "dictionary",
	Short: "Show the keyword dictionary built from a job description",
	RunE:  runDictionary,
}

var (
	dictionaryJD         string
	dictionaryJDURL      string
	dictionaryJSON       bool
	dictionaryUseBrowser bool
)

func init() {
	dictionaryCmd.Flags().StringVarP(&dictionaryJD, "jd", "j", "", "Path to a job description text file")
	dictionaryCmd.Flags().StringVarP(&dictionaryJDURL, "jd-url", "u", "", "URL of a job posting to fetch")
	dictionaryCmd.Flags().BoolVar(&dictionaryJSON, "json", false, "Print the dictionary as JSON")
	dictionaryCmd.Flags().BoolVar(&dictionaryUseBrowser, "use-browser", false, "Render the job posting in a headless browser")

	rootCmd.AddCommand(dictionaryCmd)
}

func runDictionary(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	sess := newSession(cfg, newLogger(cfg, cmd.ErrOrStderr()))
	defer sess.Close()

	jd, err := sess.readJobDescription(cmd.Context(), dictionaryJD, dictionaryJDURL, dictionaryUseBrowser)
	if err != nil {
		return err
	}

	dict := keywords.NewBuilder(keywords.DefaultTables(), cfg.ExtraKeywords).Build(jd)
	if dictionaryJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(dict); err != nil {
			return fmt.Errorf("failed to encode dictionary: %w", err)
		}
		return nil
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintDictionary(dict)
	return nil
}
