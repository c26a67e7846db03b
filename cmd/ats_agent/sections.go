package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/ats-scorer/internal/ingestion"
	"github.com/jonathan/ats-scorer/internal/observability"
	"github.com/jonathan/ats-scorer/internal/sections"
	"github.com/jonathan/ats-scorer/internal/skills"
	"github.com/jonathan/ats-scorer/internal/types"
)

var sectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Show the sections, excerpts and skills detected in a résumé",
	RunE:  runSections,
}

var sectionsResume string

func init() {
	sectionsCmd.Flags().StringVarP(&sectionsResume, "resume", "r", "", "Path to the résumé file (required)")
	_ = sectionsCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(sectionsCmd)
}

func runSections(cmd *cobra.Command, _ []string) error {
	doc, err := ingestion.ExtractFile(sectionsResume)
	if err != nil {
		return fmt.Errorf("failed to read résumé: %w", err)
	}

	excerpts := extractExcerpts(doc.Text)
	observability.NewPrinter(cmd.OutOrStdout()).
		PrintSections(doc.Flags, excerpts, skills.ExtractAtomic(excerpts.Skills))
	return nil
}

func extractExcerpts(text string) types.Excerpts {
	return types.Excerpts{
		Summary:    sections.Extract(text, sections.KindSummary),
		Skills:     sections.Extract(text, sections.KindSkills),
		Experience: sections.Extract(text, sections.KindExperience),
		Education:  sections.Extract(text, sections.KindEducation),
		Projects:   sections.Extract(text, sections.KindProjects),
	}
}
