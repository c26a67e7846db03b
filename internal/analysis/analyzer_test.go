package analysis

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-scorer/internal/coaching"
	"github.com/jonathan/ats-scorer/internal/types"
)

const sampleResume = `Jane Doe
jane.doe@example.com | +61 400 000 000

Professional Summary
Data analyst with six years of experience building SQL and Power BI dashboards for finance and operations teams. Skilled in Python automation and stakeholder reporting.

Skills
Languages: SQL, Python
Tools: Power BI, Tableau, Excel

Experience
Senior Data Analyst, Acme Corp, 2019 - Present
- Built 40 Power BI dashboards used by 300 staff across five regions.
- Automated monthly reporting with Python, saving 20 hours per month.
- Led migration of legacy SQL Server reports to Azure, cutting refresh time by 35%.
Data Analyst, Beta Pty Ltd, 2016 - 2019
- Designed ETL jobs in SQL for sales forecasting.
- Delivered weekly KPI reports to the executive team.

Projects
Customer Churn Model
- Trained a churn classifier in Python that lifted retention by 5%.

Education
Bachelor of Science in Statistics, University of Sydney, 2015
`

const sampleJD = `Senior Data Analyst

We need strong SQL, Power BI and Python skills. Experience with Snowflake and dbt is a plus.
Experience with CI/CD and version control is essential.
Bachelor degree in Statistics or a related field.`

const cicdAdvice = "If applicable, add a bullet on version control, CI/CD, and automated test plans for BI pipelines."

var fixedNow = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

type fakeAssessor struct {
	result *types.ModelAssessment
	err    error
	calls  int
	mu     sync.Mutex
}

func (f *fakeAssessor) Assess(_ context.Context, _, _ string) (*types.ModelAssessment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.result, f.err
}

type fakeRecorder struct {
	saved []*types.Report
	err   error
}

func (f *fakeRecorder) SaveAnalysis(_ context.Context, report *types.Report) (uuid.UUID, error) {
	if f.err != nil {
		return uuid.Nil, f.err
	}
	f.saved = append(f.saved, report)
	return report.ID, nil
}

type constEmbedder struct{}

func (constEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (constEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{0, 1}
	}
	return out, nil
}

func intPtr(v int) *int { return &v }

func newTestAnalyzer(opts Options) *Analyzer {
	opts.Now = func() time.Time { return fixedNow }
	return New(opts)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		req       Request
		wantField string
	}{
		{name: "valid", req: Request{ResumeText: sampleResume, JobDescription: sampleJD}},
		{name: "short jd", req: Request{ResumeText: sampleResume, JobDescription: "SQL analyst"}, wantField: "job_description"},
		{name: "padded jd", req: Request{ResumeText: sampleResume, JobDescription: "   SQL analyst role        "}, wantField: "job_description"},
		{name: "short resume", req: Request{ResumeText: "Jane Doe, SQL analyst.", JobDescription: sampleJD}, wantField: "resume_text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.req)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.wantField, inputErr.Field)
		})
	}
}

func TestAnalyze_RejectsInvalidInput(t *testing.T) {
	assessor := &fakeAssessor{}
	a := newTestAnalyzer(Options{Assessor: assessor})

	report, err := a.Analyze(context.Background(), Request{ResumeText: "too short", JobDescription: sampleJD})
	require.Error(t, err)
	assert.Nil(t, report)
	assert.Equal(t, 0, assessor.calls)
}

func TestAnalyze_HeuristicOnly(t *testing.T) {
	a := newTestAnalyzer(Options{})
	report, err := a.Analyze(context.Background(), Request{
		ResumeText:     sampleResume,
		JobDescription: sampleJD,
		JobTitle:       " Senior Data Analyst ",
		CompanyName:    "Globex",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, fixedNow, report.CreatedAt)
	assert.Equal(t, "Senior Data Analyst", report.JobTitle)

	require.Len(t, report.Breakdown, len(types.BucketLabels))
	for i, b := range report.Breakdown {
		assert.Equal(t, types.BucketLabels[i], b.Label)
		assert.Equal(t, types.BucketMax[b.Label], b.Max)
		assert.GreaterOrEqual(t, b.Score, 0)
		assert.LessOrEqual(t, b.Score, b.Max)
	}
	assert.Len(t, report.Feedback, len(types.BucketLabels))

	assert.Equal(t, report.Keywords.Pct, report.Scores.JobFit)
	assert.Equal(t, OverallScore(report.Scores.JobFit, report.Scores.ATS), report.Scores.Overall)
	assert.LessOrEqual(t, len(report.Keywords.DisplayMissing), MaxDisplayMissing)
	assert.Positive(t, report.Meta.DictionarySize)

	assert.False(t, report.Meta.ModelUsed)
	assert.False(t, report.Meta.SemanticUsed)
	assert.Equal(t, coaching.ProfessionDataBI, report.Meta.ProfessionResume)
	assert.Equal(t, coaching.DomainHigh, report.Meta.DomainMatch)
	assert.Equal(t, 144, report.Meta.ResumeWords)
	assert.Positive(t, report.Meta.HeuristicATS)

	assert.True(t, report.Flags.HasSummary)
	assert.Contains(t, report.Skills, "Power BI")
	assert.Contains(t, report.Analysis.Recommendations, cicdAdvice)
	assert.Contains(t, report.Analysis.OverallSummary, "Senior Data Analyst role at Globex")
	assert.Contains(t, report.Analysis.OverallSummary, "Deterministic ATS score")
}

func TestAnalyze_IsDeterministic(t *testing.T) {
	a := newTestAnalyzer(Options{})
	req := Request{ResumeText: sampleResume, JobDescription: sampleJD}

	first, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)
	second, err := a.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.Scores, second.Scores)
	assert.Equal(t, first.Breakdown, second.Breakdown)
	assert.Equal(t, first.Keywords, second.Keywords)
	assert.Equal(t, first.Analysis, second.Analysis)
}

func TestAnalyze_WithModel(t *testing.T) {
	assessor := &fakeAssessor{result: &types.ModelAssessment{
		Analysis: types.AnalysisLists{
			Strengths:       []string{"Strong SQL and Power BI delivery", "Holds current AHPRA registration"},
			Improvements:    []string{"Quantify the churn model impact"},
			Gaps:            []string{"Snowflake"},
			Recommendations: []string{"Mention dbt exposure"},
			OverallSummary:  "Good fit for the analytics team.",
		},
		Scores: types.ModelScores{
			ATS: types.ModelATS{
				Score: intPtr(88),
				Breakdown: []types.BucketScore{
					{Label: types.LabelStructure, Score: 2, Max: 20},
					{Label: types.LabelSkills, Score: 9, Max: 10},
				},
			},
			Match: types.ModelMatch{Score: intPtr(150)},
		},
	}}
	a := newTestAnalyzer(Options{Assessor: assessor})

	report, err := a.Analyze(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJD})
	require.NoError(t, err)

	assert.Equal(t, 1, assessor.calls)
	assert.True(t, report.Meta.ModelUsed)
	assert.Equal(t, 88, report.Scores.ATS)
	assert.Equal(t, 100, report.Scores.JobFit)
	assert.Equal(t, OverallScore(100, 88), report.Scores.Overall)

	assert.Equal(t, 18, report.Breakdown[2].Score)
	assert.Greater(t, report.Breakdown[0].Score, 2)

	assert.Equal(t, []string{"Strong SQL and Power BI delivery"}, report.Analysis.Strengths)
	assert.Equal(t, "Good fit for the analytics team.", report.Analysis.OverallSummary)
	assert.Equal(t, []string{"Mention dbt exposure", cicdAdvice}, report.Analysis.Recommendations)
}

func TestAnalyze_AssessorFailureFallsBack(t *testing.T) {
	var buf bytes.Buffer
	a := newTestAnalyzer(Options{
		Assessor: &fakeAssessor{err: errors.New("quota exceeded")},
		Logger:   zerolog.New(&buf),
	})

	report, err := a.Analyze(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJD})
	require.NoError(t, err)

	assert.False(t, report.Meta.ModelUsed)
	assert.Equal(t, report.Keywords.Pct, report.Scores.JobFit)
	assert.Contains(t, report.Analysis.OverallSummary, "Model coaching was unavailable")
	assert.Contains(t, buf.String(), "model assessment unavailable")
	assert.Contains(t, buf.String(), "quota exceeded")
}

func TestAnalyze_SemanticTier(t *testing.T) {
	a := newTestAnalyzer(Options{Embedder: constEmbedder{}})
	report, err := a.Analyze(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJD})
	require.NoError(t, err)
	assert.True(t, report.Meta.SemanticUsed)
}

func TestAnalyze_RequestFlagsOverrideDetection(t *testing.T) {
	a := newTestAnalyzer(Options{})
	detected, err := a.Analyze(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJD})
	require.NoError(t, err)

	none := types.SectionFlags{}
	overridden, err := a.Analyze(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJD, Flags: &none})
	require.NoError(t, err)

	assert.Equal(t, none, overridden.Flags)
	assert.Less(t, overridden.Breakdown[0].Score, detected.Breakdown[0].Score)
}

func TestAnalyze_Recorder(t *testing.T) {
	t.Run("saves report", func(t *testing.T) {
		rec := &fakeRecorder{}
		a := newTestAnalyzer(Options{Recorder: rec})
		report, err := a.Analyze(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJD})
		require.NoError(t, err)
		require.Len(t, rec.saved, 1)
		assert.Same(t, report, rec.saved[0])
	})

	t.Run("save failure is not fatal", func(t *testing.T) {
		var buf bytes.Buffer
		a := newTestAnalyzer(Options{Recorder: &fakeRecorder{err: errors.New("db down")}, Logger: zerolog.New(&buf)})
		report, err := a.Analyze(context.Background(), Request{ResumeText: sampleResume, JobDescription: sampleJD})
		require.NoError(t, err)
		assert.NotNil(t, report)
		assert.True(t, strings.Contains(buf.String(), "failed to save analysis"))
	})
}

func TestOverallScore(t *testing.T) {
	tests := []struct {
		fit, ats int
		expected int
	}{
		{100, 100, 100},
		{0, 100, 0},
		{100, 0, 0},
		{50, 50, 50},
		{80, 60, 73},
		{150, -5, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, OverallScore(tt.fit, tt.ats), "fit=%d ats=%d", tt.fit, tt.ats)
	}
}

func TestInputError(t *testing.T) {
	assert.Equal(t, "invalid input in resume_text: too short", (&InputError{Field: "resume_text", Message: "too short"}).Error())
	assert.Equal(t, "invalid input: empty", (&InputError{Message: "empty"}).Error())
}
