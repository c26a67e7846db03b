// Package coaching adds deterministic coaching advice to an analysis: keyword
// rules that fire when the job description asks for something the résumé never
// shows, clinical-role hints, profession guessing and domain guardrails.
package coaching

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/ats-scorer/internal/types"
)

// Destination lists a rule may write to.
const (
	SectionRecommendations = "recommendations"
	SectionImprovements    = "improvements"
)

// MaxRuleAdvice caps a list after rule advice has been appended.
const MaxRuleAdvice = 6

// Rule fires when the JD matches any JD pattern and the résumé matches none
// of the CV patterns.
type Rule struct {
	ID             string
	JD             []*regexp.Regexp
	CV             []*regexp.Regexp
	Recommendation string
	Section        string
}

// DefaultRules returns the built-in data/BI coaching rules.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID: "cicd",
			JD: mustCompileAll(
				`(?i)ci/?cd`,
				`(?i)continuous\s+integration`,
				`(?i)continuous\s+(?:delivery|deployment)`,
				`(?i)version\s+control`,
				`(?i)automation\s+of\s+test(?:\s+plans)?`,
				`(?i)test\s+plans?`,
			),
			CV: mustCompileAll(
				`(?i)ci/?cd`,
				`(?i)\bgit(hub|lab)?\b`,
				`(?i)bitbucket`,
				`(?i)azure\s+devops`,
				`(?i)jenkins|circleci|travis`,
				`(?i)pipelines?`,
				`(?i)\bya?ml\b`,
				`(?i)\bactions?\b`,
				`(?i)release\s+pipeline`,
				`(?i)unit\s*tests?`,
			),
			Recommendation: "If applicable, add a bullet on version control, CI/CD, and automated test plans for BI pipelines.",
			Section:        SectionRecommendations,
		},
		{
			ID:             "r_language",
			JD:             mustCompileAll(`\bR\b`, `(?i)python\s+and\s+R`, `(?i)R\s+for\s+stat`),
			CV:             mustCompileAll(`\bR\b`),
			Recommendation: "If you have R exposure, add a short proof (e.g., tidyverse, ggplot2, statistical tests).",
			Section:        SectionRecommendations,
		},
		{
			ID:             "paginated_reporting",
			JD:             mustCompileAll(`(?i)paginated\s+report`, `(?i)power\s*bi\s+report\s+builder`),
			CV:             mustCompileAll(`(?i)paginated\s+report`, `(?i)report\s+builder`, `(?i)\brdl\b`),
			Recommendation: "Mention any Paginated Reporting (Power BI Report Builder / RDL) experience, if applicable.",
			Section:        SectionRecommendations,
		},
		{
			ID: "dataops",
			JD: mustCompileAll(`(?i)data-?ops`, `(?i)reporting\s*&?\s*analytics\s+framework`),
			CV: mustCompileAll(
				`(?i)data-?ops`,
				`(?i)pipeline|orchestrat(e|ion)|schedule|refresh`,
				`(?i)airflow|databricks|azure\s+devops`,
			),
			Recommendation: "Add a line on DataOps: versioning, pipeline orchestration, or scheduled refreshes.",
			Section:        SectionRecommendations,
		},
		{
			ID:             "data_literacy",
			JD:             mustCompileAll(`(?i)data\s+literacy`, `(?i)enable.*learn.*read.*work\s+with\s+data`),
			CV:             mustCompileAll(`(?i)workshop|training|upskilling|data\s+literacy`),
			Recommendation: "Add a bullet on data literacy enablement (workshops, training, stakeholder upskilling).",
			Section:        SectionRecommendations,
		},
	}
}

func mustCompileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// RuleSpec is the serialized form of a Rule, loaded from config files or the
// RESUME_RULES_JSON environment variable. Patterns compile case-insensitively.
type RuleSpec struct {
	ID             string   `json:"id,omitempty" yaml:"id,omitempty"`
	JD             []string `json:"jd" yaml:"jd" validate:"required,min=1,dive,required"`
	CV             []string `json:"cv" yaml:"cv" validate:"dive,required"`
	Recommendation string   `json:"recommendation" yaml:"recommendation" validate:"required"`
	Section        string   `json:"section,omitempty" yaml:"section,omitempty" validate:"omitempty,oneof=recommendations improvements"`
}

// Validate validates the RuleSpec struct
func (s RuleSpec) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

// Compile validates the spec and compiles its patterns. A missing ID is
// replaced with a random one.
func (s RuleSpec) Compile() (Rule, error) {
	if err := s.Validate(); err != nil {
		return Rule{}, fmt.Errorf("invalid rule %q: %w", s.ID, err)
	}
	rule := Rule{
		ID:             s.ID,
		Recommendation: strings.TrimSpace(s.Recommendation),
		Section:        SectionRecommendations,
	}
	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	if s.Section == SectionImprovements {
		rule.Section = SectionImprovements
	}
	var err error
	if rule.JD, err = compileInsensitive(s.JD); err != nil {
		return Rule{}, fmt.Errorf("rule %s: jd pattern: %w", rule.ID, err)
	}
	if rule.CV, err = compileInsensitive(s.CV); err != nil {
		return Rule{}, fmt.Errorf("rule %s: cv pattern: %w", rule.ID, err)
	}
	return rule, nil
}

func compileInsensitive(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile("(?i)" + p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

// CompileSpecs compiles specs, skipping and logging any that fail.
func CompileSpecs(specs []RuleSpec, logger zerolog.Logger) []Rule {
	rules := make([]Rule, 0, len(specs))
	for _, s := range specs {
		rule, err := s.Compile()
		if err != nil {
			logger.Warn().Err(err).Msg("skipping coaching rule")
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

type ruleFile struct {
	Rules []RuleSpec `json:"rules" yaml:"rules"`
}

// ParseRulesJSON parses a {"rules":[...]} document.
func ParseRulesJSON(data []byte) ([]RuleSpec, error) {
	var f ruleFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse rules JSON: %w", err)
	}
	return f.Rules, nil
}

// LoadRulesFile reads rule specs from a JSON or YAML file, chosen by extension.
func LoadRulesFile(path string) ([]RuleSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var f ruleFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse rules YAML: %w", err)
		}
		return f.Rules, nil
	default:
		return ParseRulesJSON(data)
	}
}

func matchesAny(text string, patterns []*regexp.Regexp) bool {
	if text == "" {
		return false
	}
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// Apply adds clinical hints and rule advice to lists. The input lists are not
// modified.
func Apply(lists types.AnalysisLists, jd, cv string, rules []Rule) types.AnalysisLists {
	out := types.AnalysisLists{
		Strengths:       append([]string{}, lists.Strengths...),
		Improvements:    append([]string{}, lists.Improvements...),
		Gaps:            append([]string{}, lists.Gaps...),
		Recommendations: append([]string{}, lists.Recommendations...),
		OverallSummary:  lists.OverallSummary,
	}

	applyClinical(&out, jd, cv)

	for _, rule := range rules {
		if rule.Recommendation == "" || !matchesAny(jd, rule.JD) || matchesAny(cv, rule.CV) {
			continue
		}
		if rule.Section == SectionImprovements {
			out.Improvements = capped(UniqNorm(append(out.Improvements, rule.Recommendation)), MaxRuleAdvice)
		} else {
			out.Recommendations = capped(UniqNorm(append(out.Recommendations, rule.Recommendation)), MaxRuleAdvice)
		}
	}
	return out
}

func capped(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
