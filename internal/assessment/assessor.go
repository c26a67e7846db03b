// Package assessment asks an external model for an advisory résumé assessment.
// Its output is schema-checked and sanitized here, and its scores are later
// reconciled against the deterministic heuristic rather than trusted.
package assessment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jonathan/ats-scorer/internal/llm"
	"github.com/jonathan/ats-scorer/internal/prompts"
	"github.com/jonathan/ats-scorer/internal/schemas"
	"github.com/jonathan/ats-scorer/internal/sections"
	"github.com/jonathan/ats-scorer/internal/types"
)

const promptFile = "assessment.json"

// Assessor produces a model assessment of a résumé against a job description.
type Assessor interface {
	Assess(ctx context.Context, resume, jd string) (*types.ModelAssessment, error)
}

// LLMAssessor implements Assessor on top of an llm.Client.
type LLMAssessor struct {
	client llm.Client
	tier   llm.ModelTier
}

// NewLLMAssessor creates an assessor that uses the standard model tier.
func NewLLMAssessor(client llm.Client) *LLMAssessor {
	return &LLMAssessor{client: client, tier: llm.TierStandard}
}

// Assess builds the prompt, calls the model and returns the validated,
// sanitized assessment.
func (a *LLMAssessor) Assess(ctx context.Context, resume, jd string) (*types.ModelAssessment, error) {
	if a.client == nil {
		return nil, &CallError{Message: "no model client configured"}
	}

	prompt, err := BuildPrompt(resume, jd)
	if err != nil {
		return nil, fmt.Errorf("failed to build assessment prompt: %w", err)
	}

	raw, err := a.client.GenerateJSON(ctx, prompt, a.tier)
	if err != nil {
		return nil, &CallError{Message: "failed to generate assessment", Cause: err}
	}

	return Parse(raw)
}

// Parse validates a raw model response against the embedded schema and
// decodes it.
func Parse(raw string) (*types.ModelAssessment, error) {
	raw = llm.CleanJSONBlock(raw)
	if raw == "" {
		return nil, &ParseError{Message: "empty response"}
	}
	if err := schemas.Validate(schemas.ModelAssessment, []byte(raw)); err != nil {
		return nil, &ParseError{Message: "response does not match assessment schema", Cause: err}
	}

	var out types.ModelAssessment
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, &ParseError{Message: "failed to decode assessment", Cause: err}
	}
	Sanitize(&out)
	return &out, nil
}

// BuildPrompt renders the assessment prompt. The model only sees the
// structure flags and summary excerpt computed here, so its Structure and
// Summary claims are based on the same evidence as the heuristic.
func BuildPrompt(resume, jd string) (string, error) {
	system, err := prompts.Get(promptFile, "assessment-system")
	if err != nil {
		return "", err
	}
	schema, err := schemas.Schema(schemas.ModelAssessment)
	if err != nil {
		return "", err
	}
	user, err := prompts.Render(promptFile, "assess-resume", map[string]string{
		"Flags":          formatFlags(sections.DetectFlags(resume)),
		"Summary":        sections.Extract(resume, sections.KindSummary),
		"Resume":         resume,
		"JobDescription": jd,
		"Education":      sections.Extract(resume, sections.KindEducation),
		"Projects":       sections.Extract(resume, sections.KindProjects),
	})
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(system)
	sb.WriteString("\n\nSCHEMA:\n")
	sb.WriteString(schema)
	sb.WriteString("\n\n")
	sb.WriteString(user)
	return sb.String(), nil
}

func formatFlags(f types.SectionFlags) string {
	return fmt.Sprintf(
		"has_summary=%t\nhas_experience=%t\nhas_skills=%t\nhas_education=%t\nhas_tools=%t\nhas_projects=%t\nhas_contact=%t\nuses_bullets=%t",
		f.HasSummary, f.HasExperience, f.HasSkills, f.HasEducation, f.HasTools, f.HasProjects, f.HasContact, f.UsesBullets,
	)
}
