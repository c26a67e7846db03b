package coaching

import (
	"fmt"
	"strings"

	"github.com/jonathan/ats-scorer/internal/textnorm"
	"github.com/jonathan/ats-scorer/internal/types"
)

// UniqNorm removes empty entries and entries whose normalized form was
// already seen, keeping the first original spelling.
func UniqNorm(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, s := range items {
		n := textnorm.Normalize(s)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, s)
	}
	return out
}

// FilterLists applies FilterDomainClaims to every list and to each line of
// the overall summary.
func FilterLists(lists types.AnalysisLists, resume, jd string) types.AnalysisLists {
	summary := FilterDomainClaims(strings.Split(lists.OverallSummary, "\n"), resume, jd)
	return types.AnalysisLists{
		Strengths:       FilterDomainClaims(lists.Strengths, resume, jd),
		Improvements:    FilterDomainClaims(lists.Improvements, resume, jd),
		Gaps:            FilterDomainClaims(lists.Gaps, resume, jd),
		Recommendations: FilterDomainClaims(lists.Recommendations, resume, jd),
		OverallSummary:  strings.TrimSpace(strings.Join(summary, "\n")),
	}
}

// Fallback returns generic coaching used when no model assessment is
// available. The summary quotes the deterministic ATS score.
func Fallback(jobTitle, company string, atsScore int) types.AnalysisLists {
	role := strings.TrimSpace(jobTitle)
	if role == "" {
		role = "target"
	}
	org := strings.TrimSpace(company)
	if org == "" {
		org = "the company"
	}

	return types.AnalysisLists{
		Strengths: []string{
			"Clear end-to-end delivery and stakeholder engagement.",
			"Relevant tooling is named explicitly in the résumé.",
		},
		Gaps: []string{
			"Advanced or predictive work is not strongly evidenced.",
			"Automation of recurring work could be made explicit.",
		},
		Improvements: []string{
			"Add 1-2 bullets quantifying outcomes (%, time saved, cost avoided).",
			"Call out any automation (ETL, scripts, scheduling) you built.",
			"Strengthen the narrative around business impact and decisions enabled.",
		},
		Recommendations: []string{
			"Tailor the summary with the job description's own keywords.",
			"Mirror job description phrasing where accurate to improve ATS retrieval.",
		},
		OverallSummary: fmt.Sprintf("Reviewed your résumé against the %s role at %s. Deterministic ATS score: %d/100. Model coaching was unavailable, so the advice below is generic.", role, org, atsScore),
	}
}
