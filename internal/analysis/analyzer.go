// Package analysis runs one résumé/job-description analysis end to end:
// dictionary matching, the optional model assessment, reconciliation, job fit
// and coaching.
package analysis

import (
	"context"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-scorer/internal/assessment"
	"github.com/jonathan/ats-scorer/internal/coaching"
	"github.com/jonathan/ats-scorer/internal/keywords"
	"github.com/jonathan/ats-scorer/internal/matching"
	"github.com/jonathan/ats-scorer/internal/scoring"
	"github.com/jonathan/ats-scorer/internal/sections"
	"github.com/jonathan/ats-scorer/internal/skills"
	"github.com/jonathan/ats-scorer/internal/textnorm"
	"github.com/jonathan/ats-scorer/internal/types"
)

const (
	// MinJobDescriptionChars is the shortest job description accepted.
	MinJobDescriptionChars = 20
	// MinResumeWords is the shortest résumé accepted.
	MinResumeWords = 100
	// MaxDisplayMissing caps the missing keywords shown to the user.
	MaxDisplayMissing = 15
)

// Request is one analysis request.
type Request struct {
	ResumeText     string
	JobDescription string
	JobTitle       string
	CompanyName    string
	// Flags, when set, replaces section detection on ResumeText. Uploads
	// pass the flags computed during ingestion.
	Flags *types.SectionFlags
}

// Recorder persists finished reports. db.Store satisfies it.
type Recorder interface {
	SaveAnalysis(ctx context.Context, report *types.Report) (uuid.UUID, error)
}

// Options configures an Analyzer. The zero value runs fully offline with the
// default tables and rules.
type Options struct {
	Tables         *keywords.Tables
	ExtraKeywords  []string
	Rules          []coaching.Rule
	FuzzyThreshold float64
	// Embedder enables the semantic matching tier when non-nil.
	Embedder matching.Embedder
	Semantic matching.SemanticOptions
	// Assessor enables the model assessment when non-nil.
	Assessor assessment.Assessor
	Recorder Recorder
	Policy   scoring.TrustPolicy
	Logger   zerolog.Logger
	Now      func() time.Time
}

// Analyzer runs analyses. It is safe for concurrent use.
type Analyzer struct {
	tables     *keywords.Tables
	builder    *keywords.Builder
	matcher    matching.Matcher
	semantic   bool
	rules      []coaching.Rule
	assessor   assessment.Assessor
	recorder   Recorder
	reconciler *scoring.Reconciler
	logger     zerolog.Logger
	now        func() time.Time
}

// New creates an Analyzer from opts.
func New(opts Options) *Analyzer {
	tables := opts.Tables
	if tables == nil {
		tables = keywords.DefaultTables()
	}
	rules := opts.Rules
	if rules == nil {
		rules = coaching.DefaultRules()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	semOpts := opts.Semantic
	semOpts.Logger = opts.Logger

	return &Analyzer{
		tables:     tables,
		builder:    keywords.NewBuilder(tables, opts.ExtraKeywords),
		matcher:    matching.NewSemantic(matching.NewLiteral(opts.FuzzyThreshold), opts.Embedder, semOpts),
		semantic:   opts.Embedder != nil,
		rules:      rules,
		assessor:   opts.Assessor,
		recorder:   opts.Recorder,
		reconciler: scoring.NewReconciler(opts.Policy),
		logger:     opts.Logger,
		now:        now,
	}
}

// Validate checks that a request carries enough text to analyze.
func Validate(req Request) error {
	if utf8.RuneCountInString(strings.TrimSpace(req.JobDescription)) < MinJobDescriptionChars {
		return &InputError{Field: "job_description", Message: "job description must be at least 20 characters"}
	}
	if textnorm.WordCount(req.ResumeText) < MinResumeWords {
		return &InputError{Field: "resume_text", Message: "resume must contain at least 100 words"}
	}
	return nil
}

// Analyze scores req and returns the full report. Only input validation can
// fail; model, embedding and persistence failures are logged and the report
// degrades to the deterministic result.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (*types.Report, error) {
	if err := Validate(req); err != nil {
		return nil, err
	}
	resume := req.ResumeText
	jd := req.JobDescription

	flags := sections.DetectFlags(resume)
	if req.Flags != nil {
		flags = *req.Flags
	}
	summaryExcerpt := sections.Extract(resume, sections.KindSummary)
	skillsExcerpt := sections.Extract(resume, sections.KindSkills)
	experienceExcerpt := sections.Extract(resume, sections.KindExperience)

	var (
		dict  keywords.Dictionary
		match types.KeywordMatch
		model *types.ModelAssessment
	)
	// both branches fail open, so neither cancels the other
	var g errgroup.Group
	g.Go(func() error {
		dict = a.builder.Build(jd)
		match = matching.MatchDictionary(ctx, a.matcher, matching.NewResume(resume), dict, a.tables.ProgrammingLanguages)
		return nil
	})
	if a.assessor != nil {
		g.Go(func() error {
			m, err := a.assessor.Assess(ctx, resume, jd)
			if err != nil {
				a.logger.Warn().Err(err).Msg("model assessment unavailable, continuing heuristic-only")
				return nil
			}
			model = m
			return nil
		})
	}
	_ = g.Wait()

	heuristic := scoring.ComputeHeuristic(resume, flags)

	var external *types.ModelATS
	if model != nil {
		external = &model.Scores.ATS
	}
	reconciled := a.reconciler.Reconcile(scoring.Inputs{
		External:          external,
		Match:             match,
		Flags:             flags,
		SummaryExcerpt:    summaryExcerpt,
		SkillsExcerpt:     skillsExcerpt,
		ExperienceExcerpt: experienceExcerpt,
		ResumeText:        resume,
		JobDescription:    jd,
	})

	fit := match.Pct
	if model != nil && model.Scores.Match.Score != nil {
		fit = clamp100(*model.Scores.Match.Score)
	}

	lists := coaching.Fallback(req.JobTitle, req.CompanyName, reconciled.Score)
	if model != nil {
		lists = model.Analysis
	}
	lists = coaching.Apply(lists, jd, resume, a.rules)
	lists = coaching.FilterLists(lists, resume, jd)

	profResume := coaching.GuessProfession(resume)
	profJD := coaching.GuessProfession(jd)

	report := &types.Report{
		ID:          uuid.New(),
		JobTitle:    strings.TrimSpace(req.JobTitle),
		CompanyName: strings.TrimSpace(req.CompanyName),
		CreatedAt:   a.now().UTC(),
		Scores: types.ReportScores{
			ATS:     reconciled.Score,
			JobFit:  fit,
			Overall: OverallScore(fit, reconciled.Score),
		},
		Breakdown: reconciled.Buckets,
		Feedback:  reconciled.Feedback,
		Keywords: types.KeywordReport{
			KeywordMatch:   match,
			DisplayMatched: scoring.DisplayKeywords(append(append([]string{}, match.Matched...), match.Partial...)),
			DisplayMissing: capped(scoring.DisplayKeywords(match.Missing), MaxDisplayMissing),
		},
		Flags:    flags,
		Skills:   skills.ExtractAtomic(skillsExcerpt),
		Analysis: lists,
		Meta: types.Meta{
			ProfessionResume: profResume,
			ProfessionJD:     profJD,
			DomainMatch:      coaching.DomainMatch(profResume, profJD),
			ModelUsed:        model != nil,
			SemanticUsed:     a.semantic,
			DictionarySize:   dict.Len(),
			ResumeWords:      textnorm.WordCount(resume),
			HeuristicATS:     heuristic.Score,
		},
	}

	if a.recorder != nil {
		if _, err := a.recorder.SaveAnalysis(ctx, report); err != nil {
			a.logger.Warn().Err(err).Str("analysis_id", report.ID.String()).Msg("failed to save analysis")
		}
	}

	a.logger.Debug().
		Str("analysis_id", report.ID.String()).
		Int("ats", report.Scores.ATS).
		Int("job_fit", report.Scores.JobFit).
		Int("overall", report.Scores.Overall).
		Int("dictionary_size", report.Meta.DictionarySize).
		Bool("model_used", report.Meta.ModelUsed).
		Msg("analysis complete")

	return report, nil
}

// OverallScore blends job fit and ATS as 100 * fit^0.7 * ats^0.3 on unit
// scales, so fit dominates.
func OverallScore(fit, ats int) int {
	f := float64(clamp100(fit)) / 100
	s := float64(clamp100(ats)) / 100
	return int(math.Round(100 * math.Pow(f, 0.7) * math.Pow(s, 0.3)))
}

func clamp100(v int) int {
	return max(0, min(100, v))
}

func capped(list []string, n int) []string {
	if len(list) > n {
		return list[:n]
	}
	return list
}
