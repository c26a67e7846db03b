package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/ats-scorer/internal/keywords"
	"github.com/jonathan/ats-scorer/internal/types"
)

func sampleReport() *types.Report {
	return &types.Report{
		JobTitle:    "Senior Data Analyst",
		CompanyName: "Acme Health",
		Scores:      types.ReportScores{ATS: 82, JobFit: 64, Overall: 69},
		Breakdown: []types.BucketScore{
			{Label: types.LabelStructure, Score: 18, Max: 20, Reasons: []string{"Clear headings found.", "Uses bullet points."}},
			{Label: types.LabelKeywords, Score: 4, Max: 10, Reasons: []string{"Missing: dbt, Snowflake"}},
		},
		Keywords: types.KeywordReport{
			KeywordMatch: types.KeywordMatch{
				Matched: []string{"sql", "power bi"},
				Partial: []string{"data modelling"},
				Missing: []string{"dbt", "snowflake"},
				Pct:     50,
			},
			DisplayMatched: []string{"SQL", "Power BI"},
			DisplayMissing: []string{"dbt", "Snowflake"},
		},
		Analysis: types.AnalysisLists{
			Strengths:       []string{"Strong SQL reporting"},
			Recommendations: []string{"Mention dbt exposure"},
		},
		Meta: types.Meta{ProfessionResume: "Data/BI", ProfessionJD: "Data/BI", DomainMatch: "High", ModelUsed: true},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(sampleReport())
	output := buf.String()

	for _, want := range []string{
		"ATS ANALYSIS", "Senior Data Analyst @ Acme Health",
		"ATS score:    82 / 100", "Overall:      69 / 100", "Domain:      High match",
		"SCORE BREAKDOWN", "Structure   18/20", "Uses bullet points.",
		"KEYWORDS", "Coverage: 50%", "Matched (2)", "Power BI", "Partial (1)", "Missing (2)", "Snowflake",
		"COACHING", "Strengths:", "Mention dbt exposure",
	} {
		assert.Contains(t, output, want)
	}
	assert.NotContains(t, output, "Gaps:")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(nil)
	assert.Empty(t, buf.String())
}

func TestPrintCoaching_Empty(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintCoaching(types.AnalysisLists{})
	assert.Contains(t, buf.String(), "No coaching notes.")
}

func TestPrintBox_LinesHaveEqualWidth(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.printBox("TITLE", "short\n"+strings.Repeat("é", 200))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	for _, line := range lines {
		assert.Equal(t, boxWidth, utf8.RuneCountInString(line), line)
	}
	assert.Contains(t, buf.String(), "...")
}

func TestPrintDictionary(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	p.PrintDictionary(keywords.Dictionary{Tokens: []keywords.Token{
		{Text: "Power BI", Source: keywords.SourceTriggered},
		{Text: "Snowflake", Source: keywords.SourceNounPhrase},
	}})
	output := buf.String()
	assert.Contains(t, output, "2 tokens")
	assert.Contains(t, output, "Power BI")
	assert.Contains(t, output, "[triggered]")
	assert.Contains(t, output, "[noun_phrase]")

	buf.Reset()
	p.PrintDictionary(keywords.Dictionary{})
	assert.Contains(t, buf.String(), "No keywords found.")
}

func TestPrintSections(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSections(
		types.SectionFlags{HasSkills: true, UsesBullets: true},
		types.Excerpts{Skills: "SQL,\n  Python"},
		[]string{"SQL", "Python"},
	)
	output := buf.String()

	assert.Contains(t, output, "SECTION FLAGS")
	assert.Contains(t, output, "Skills: yes")
	assert.Contains(t, output, "Summary: no")
	assert.Contains(t, output, "Skills:     SQL, Python")
	assert.Contains(t, output, "(not found)")
	assert.Contains(t, output, "2 skills")
}

func TestPrintSections_NoSkills(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintSections(types.SectionFlags{}, types.Excerpts{}, nil)
	assert.Contains(t, buf.String(), "No skill tokens found.")
}

func TestPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	id := uuid.MustParse("12345678-1234-1234-1234-123456789abc")
	p.PrintHistory([]types.AnalysisSummary{
		{ID: id, JobTitle: "BI Developer", CompanyName: "Acme", ATS: 70, JobFit: 55, Overall: 59, CreatedAt: time.Now()},
	})
	output := buf.String()
	assert.Contains(t, output, "12345678")
	assert.Contains(t, output, "BI Developer @ Acme")

	buf.Reset()
	p.PrintHistory(nil)
	assert.Contains(t, buf.String(), "No stored analyses.")
}

func TestWrap(t *testing.T) {
	assert.Equal(t, "aaa bbb\nccc", wrap("aaa bbb ccc", 7))
	assert.Equal(t, "", wrap("   ", 10))
	assert.Equal(t, "verylongword", wrap("verylongword", 4))
}
