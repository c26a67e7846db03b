package assessment

import (
	"strings"

	"github.com/jonathan/ats-scorer/internal/coaching"
	"github.com/jonathan/ats-scorer/internal/keywords"
	"github.com/jonathan/ats-scorer/internal/types"
)

// MaxKeySkills caps the model's key skills list.
const MaxKeySkills = 25

// Sanitize trims every string, drops empty entries, de-duplicates lists by
// normalized form, caps key skills and canonicalizes tool names. Scores are
// left for the reconciler.
func Sanitize(a *types.ModelAssessment) {
	if a == nil {
		return
	}

	a.Analysis = types.AnalysisLists{
		Strengths:       cleanList(a.Analysis.Strengths),
		Improvements:    cleanList(a.Analysis.Improvements),
		Gaps:            cleanList(a.Analysis.Gaps),
		Recommendations: cleanList(a.Analysis.Recommendations),
		OverallSummary:  strings.TrimSpace(a.Analysis.OverallSummary),
	}

	pack := &a.ResumePack
	pack.ProfessionalSummary = strings.TrimSpace(pack.ProfessionalSummary)
	pack.KeySkills = cleanList(pack.KeySkills)
	if len(pack.KeySkills) > MaxKeySkills {
		pack.KeySkills = pack.KeySkills[:MaxKeySkills]
	}
	tools := make([]string, len(pack.ToolsAndTechnologies))
	for i, t := range pack.ToolsAndTechnologies {
		tools[i] = keywords.MapToolName(t)
	}
	pack.ToolsAndTechnologies = cleanList(tools)

	experience := pack.ProfessionalExperience[:0]
	for _, e := range pack.ProfessionalExperience {
		e.Employer = strings.TrimSpace(e.Employer)
		e.Title = strings.TrimSpace(e.Title)
		e.Location = strings.TrimSpace(e.Location)
		e.Start = strings.TrimSpace(e.Start)
		e.End = strings.TrimSpace(e.End)
		e.Bullets = trimList(e.Bullets)
		if e.Employer != "" || e.Title != "" {
			experience = append(experience, e)
		}
	}
	pack.ProfessionalExperience = experience

	projects := pack.KeyProjects[:0]
	for _, p := range pack.KeyProjects {
		p.Name = strings.TrimSpace(p.Name)
		p.Context = strings.TrimSpace(p.Context)
		p.Tools = cleanList(p.Tools)
		p.Bullets = trimList(p.Bullets)
		if p.Name != "" {
			projects = append(projects, p)
		}
	}
	pack.KeyProjects = projects

	education := pack.Education[:0]
	for _, e := range pack.Education {
		e.Name = strings.TrimSpace(e.Name)
		e.Institution = strings.TrimSpace(e.Institution)
		e.Year = strings.TrimSpace(e.Year)
		if e.Name != "" {
			education = append(education, e)
		}
	}
	pack.Education = education

	a.Scores.ATS.Feedback = trimList(a.Scores.ATS.Feedback)
	a.Scores.Match.MatchedSkills = cleanList(a.Scores.Match.MatchedSkills)
	a.Scores.Match.MissingSkills = cleanList(a.Scores.Match.MissingSkills)
	a.Scores.Match.CriticalMissingSkills = cleanList(a.Scores.Match.CriticalMissingSkills)
}

// trimList trims entries and drops empty ones.
func trimList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// cleanList trims entries and de-duplicates them by normalized form.
func cleanList(items []string) []string {
	return coaching.UniqNorm(trimList(items))
}
