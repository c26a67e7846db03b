// Package observability provides formatted output utilities for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/ats-scorer/internal/keywords"
	"github.com/jonathan/ats-scorer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 72
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// writeList appends a titled bullet list, showing at most limit items.
func writeList(sb *strings.Builder, title string, items []string, limit int) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s:\n", title)
	for _, item := range items[:min(len(items), limit)] {
		fmt.Fprintf(sb, "  • %s\n", item)
	}
	if len(items) > limit {
		fmt.Fprintf(sb, "  ... and %d more\n", len(items)-limit)
	}
	sb.WriteString("\n")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// PrintReport outputs the score summary, bucket breakdown, keywords and
// coaching lists of a report.
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil {
		return
	}
	p.PrintSummary(report)
	p.PrintBreakdown(report.Breakdown)
	p.PrintKeywords(report.Keywords)
	p.PrintCoaching(report.Analysis)
}

// PrintSummary outputs the top-line scores.
func (p *Printer) PrintSummary(report *types.Report) {
	var sb strings.Builder
	if report.JobTitle != "" || report.CompanyName != "" {
		fmt.Fprintf(&sb, "Role:        %s", report.JobTitle)
		if report.CompanyName != "" {
			fmt.Fprintf(&sb, " @ %s", report.CompanyName)
		}
		sb.WriteString("\n\n")
	}
	fmt.Fprintf(&sb, "ATS score:   %3d / 100\n", report.Scores.ATS)
	fmt.Fprintf(&sb, "Job fit:     %3d / 100\n", report.Scores.JobFit)
	fmt.Fprintf(&sb, "Overall:     %3d / 100\n", report.Scores.Overall)
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "Profession:  %s (résumé) / %s (job)\n", report.Meta.ProfessionResume, report.Meta.ProfessionJD)
	fmt.Fprintf(&sb, "Domain:      %s match\n", report.Meta.DomainMatch)
	fmt.Fprintf(&sb, "Model:       %s   Semantic: %s", yesNo(report.Meta.ModelUsed), yesNo(report.Meta.SemanticUsed))

	p.printBox("ATS ANALYSIS", sb.String())
}

// PrintBreakdown outputs one line per scoring bucket with its first reason.
func (p *Printer) PrintBreakdown(buckets []types.BucketScore) {
	if len(buckets) == 0 {
		return
	}

	var sb strings.Builder
	for i, b := range buckets {
		fmt.Fprintf(&sb, "%-11s %2d/%-2d", b.Label, b.Score, b.Max)
		if len(b.Reasons) > 0 {
			fmt.Fprintf(&sb, "  %s", b.Reasons[0])
		}
		for _, reason := range b.Reasons[min(1, len(b.Reasons)):] {
			fmt.Fprintf(&sb, "\n                   %s", reason)
		}
		if i < len(buckets)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("SCORE BREAKDOWN", sb.String())
}

// PrintKeywords outputs the matched, partial and missing JD keywords.
func (p *Printer) PrintKeywords(kw types.KeywordReport) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Coverage: %d%%\n\n", kw.Pct)

	matched := kw.DisplayMatched
	if len(matched) == 0 {
		matched = kw.Matched
	}
	missing := kw.DisplayMissing
	if len(missing) == 0 {
		missing = kw.Missing
	}
	writeList(&sb, fmt.Sprintf("Matched (%d)", len(matched)), matched, maxItemsToShow)
	writeList(&sb, fmt.Sprintf("Partial (%d)", len(kw.Partial)), kw.Partial, maxItemsToShow)
	writeList(&sb, fmt.Sprintf("Missing (%d)", len(missing)), missing, maxItemsToShow)

	p.printBox("KEYWORDS", strings.TrimRight(sb.String(), "\n"))
}

// PrintCoaching outputs strengths, improvements, gaps and recommendations.
func (p *Printer) PrintCoaching(lists types.AnalysisLists) {
	var sb strings.Builder
	if lists.OverallSummary != "" {
		sb.WriteString(lists.OverallSummary)
		sb.WriteString("\n\n")
	}
	writeList(&sb, "Strengths", lists.Strengths, maxItemsToShow)
	writeList(&sb, "Improvements", lists.Improvements, maxItemsToShow)
	writeList(&sb, "Gaps", lists.Gaps, maxItemsToShow)
	writeList(&sb, "Recommendations", lists.Recommendations, maxItemsToShow)

	content := strings.TrimRight(sb.String(), "\n")
	if content == "" {
		content = "No coaching notes."
	}
	p.printBox("COACHING", content)
}

// PrintDictionary outputs every dictionary token with the heuristic that produced it.
func (p *Printer) PrintDictionary(dict keywords.Dictionary) {
	if dict.Len() == 0 {
		p.printBox("JD DICTIONARY", "No keywords found.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tokens\n\n", dict.Len())
	for i, tok := range dict.Tokens {
		fmt.Fprintf(&sb, "%3d. %-40s [%s]", i+1, truncate(tok.Text, 40), tok.Source)
		if i < dict.Len()-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("JD DICTIONARY", sb.String())
}

// PrintSections outputs detected section flags, excerpts and atomic skills.
func (p *Printer) PrintSections(flags types.SectionFlags, excerpts types.Excerpts, skills []string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Summary: %-4s Skills: %-4s Experience: %-4s Education: %s\n",
		yesNo(flags.HasSummary), yesNo(flags.HasSkills), yesNo(flags.HasExperience), yesNo(flags.HasEducation))
	fmt.Fprintf(&sb, "Tools:   %-4s Projects: %-4s Contact: %-4s Bullets: %s",
		yesNo(flags.HasTools), yesNo(flags.HasProjects), yesNo(flags.HasContact), yesNo(flags.UsesBullets))
	p.printBox("SECTION FLAGS", sb.String())

	sb.Reset()
	excerptLines := []struct {
		label string
		text  string
	}{
		{"Summary", excerpts.Summary},
		{"Skills", excerpts.Skills},
		{"Experience", excerpts.Experience},
		{"Education", excerpts.Education},
		{"Projects", excerpts.Projects},
	}
	for i, e := range excerptLines {
		text := strings.Join(strings.Fields(e.text), " ")
		if text == "" {
			text = "(not found)"
		}
		fmt.Fprintf(&sb, "%-11s %s", e.label+":", text)
		if i < len(excerptLines)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("EXCERPTS", sb.String())

	sb.Reset()
	if len(skills) == 0 {
		sb.WriteString("No skill tokens found.")
	} else {
		fmt.Fprintf(&sb, "%d skills\n\n", len(skills))
		sb.WriteString(wrap(strings.Join(skills, ", "), boxWidth-4))
	}
	p.printBox("ATOMIC SKILLS", sb.String())
}

// PrintHistory outputs stored analysis summaries as a table.
func (p *Printer) PrintHistory(summaries []types.AnalysisSummary) {
	if len(summaries) == 0 {
		p.printBox("ANALYSIS HISTORY", "No stored analyses.")
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%-16s %-8s %3s %3s %3s  %s\n", "DATE", "ID", "ATS", "FIT", "ALL", "ROLE")
	for i, s := range summaries {
		role := s.JobTitle
		if s.CompanyName != "" {
			role += " @ " + s.CompanyName
		}
		fmt.Fprintf(&sb, "%-16s %-8s %3d %3d %3d  %s",
			s.CreatedAt.Local().Format("2006-01-02 15:04"), s.ID.String()[:8], s.ATS, s.JobFit, s.Overall, role)
		if i < len(summaries)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("ANALYSIS HISTORY", sb.String())
}

// wrap breaks text into lines of at most width runes at spaces.
func wrap(text string, width int) string {
	var (
		lines []string
		line  string
	)
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len([]rune(line))+1+len([]rune(word)) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
