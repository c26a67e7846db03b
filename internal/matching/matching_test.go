package matching

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-scorer/internal/keywords"
)

func dictionary(tokens ...string) keywords.Dictionary {
	var d keywords.Dictionary
	for _, t := range tokens {
		d.Tokens = append(d.Tokens, keywords.Token{Text: t, Source: keywords.SourceTriggered})
	}
	return d
}

func TestJaroWinkler(t *testing.T) {
	tests := []struct {
		a, b     string
		expected float64
	}{
		{"MARTHA", "MARHTA", 0.9611},
		{"DIXON", "DICKSONX", 0.8133},
		{"SQL", "sql", 1},
		{"abc", "xyz", 0},
		{"", "", 1},
		{"", "a", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			assert.InDelta(t, tt.expected, JaroWinkler(tt.a, tt.b), 0.001)
		})
	}
}

func TestFuzzyContains(t *testing.T) {
	assert.True(t, FuzzyContains("Built Tableu dashboards", "Tableau", DefaultFuzzyThreshold))
	assert.False(t, FuzzyContains("Managed budgets", "Snowflake", DefaultFuzzyThreshold))
	assert.False(t, FuzzyContains("", "Snowflake", DefaultFuzzyThreshold))
	assert.False(t, FuzzyContains("anything", "", DefaultFuzzyThreshold))

	score := JaroWinkler("tablo", "tableau")
	assert.Equal(t, score >= LenientFuzzyThreshold, FuzzyContains("tablo", "Tableau", 0))
}

func TestVariants(t *testing.T) {
	v := Variants("Post-Procedure")
	require.NotEmpty(t, v)
	assert.Equal(t, "post-procedure", v[0])
	assert.Contains(t, v, "post procedure")

	assert.Contains(t, Variants("dashboards"), "dashboard")
	assert.Contains(t, Variants("procedures"), "procedural")
	assert.Contains(t, Variants("recovery"), "recover")
	assert.Nil(t, Variants("   "))
}

func TestContainsToken(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		token    string
		expected bool
	}{
		{name: "canonical phrase inside longer name", text: "Administered Microsoft SQL Server 2019 databases", token: "SQL Server", expected: true},
		{name: "hyphen tolerant", text: "Provided post procedure care", token: "post-procedure", expected: true},
		{name: "stemmed plural", text: "Built a dashboard suite", token: "dashboards", expected: true},
		{name: "phrase swap", text: "Assisted with procedural sedation", token: "procedures", expected: true},
		{name: "symbols", text: "Wrote C++ services", token: "C++", expected: true},
		{name: "standalone R", text: "Skilled in R and Python", token: "R", expected: true},
		{name: "no partial word", text: "JavaScript developer", token: "Java", expected: false},
		{name: "R inside word", text: "React developer", token: "R", expected: false},
		{name: "empty text", text: "", token: "SQL", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ContainsToken(tt.text, tt.token))
		})
	}
}

func TestLiteral_Match(t *testing.T) {
	ctx := context.Background()
	m := NewLiteral(0)
	assert.Equal(t, DefaultFuzzyThreshold, m.FuzzyThreshold)

	resume := NewResume("Administered Microsoft SQL Server. Built Tableu dashboards in JavaScript.")
	assert.Equal(t, StatusMatched, m.Match(ctx, resume, keywords.DefaultTables().Canon(keywords.CleanToken("MS SQL"))))
	assert.Equal(t, StatusMatched, m.Match(ctx, resume, "Tableau"))
	assert.Equal(t, StatusMissing, m.Match(ctx, resume, "Java"))
	assert.Equal(t, StatusMissing, m.Match(ctx, resume, "Snowflake"))
}

func TestMatchDictionary_Partition(t *testing.T) {
	jd := "Experience with: SQL, Power BI, Python\nTools: Snowflake, dbt Cloud, Airflow\nFamiliarity with Looker"
	dict := keywords.NewBuilder(nil, nil).Build(jd)
	require.NotZero(t, dict.Len())

	resume := NewResume("Data analyst using SQL and Python daily. Built PowerBI reports. Scheduled Airflow DAGs.")
	result := MatchDictionary(context.Background(), NewLiteral(0), resume, dict, keywords.DefaultTables().ProgrammingLanguages)

	seen := make(map[string]int)
	for _, list := range [][]string{result.Matched, result.Partial, result.Missing} {
		for _, tok := range list {
			seen[tok]++
		}
	}
	for _, tok := range result.PresentInJD {
		assert.Equal(t, 1, seen[tok], "token %q must be in exactly one list", tok)
	}
	assert.Len(t, seen, len(result.PresentInJD))
	assert.Equal(t, dict.Texts(), result.PresentInJD)
	assert.Contains(t, result.Matched, "SQL")
	assert.Contains(t, result.Matched, "Python")
	assert.Contains(t, result.Missing, "Snowflake")
	assert.Empty(t, result.Partial)
	assert.Equal(t, Percent(len(result.Matched), 0, dict.Len()), result.Pct)
}

func TestMatchDictionary_ProgrammingLanguage(t *testing.T) {
	dict := keywords.NewBuilder(nil, nil).Build("Must have at least one programming language.")
	require.Contains(t, dict.Texts(), keywords.ProgrammingLanguageToken)
	languages := keywords.DefaultTables().ProgrammingLanguages

	result := MatchDictionary(context.Background(), NewLiteral(0), NewResume("Proficient in Python and Java"), dict, languages)
	assert.Contains(t, result.Matched, keywords.ProgrammingLanguageToken)

	result = MatchDictionary(context.Background(), NewLiteral(0), NewResume("I enjoy learning about programming language design"), dict, languages)
	assert.Contains(t, result.Missing, keywords.ProgrammingLanguageToken)
}

func TestMatchDictionary_Empty(t *testing.T) {
	result := MatchDictionary(context.Background(), NewLiteral(0), NewResume("anything at all"), keywords.Dictionary{}, nil)

	assert.Equal(t, 0, result.Pct)
	assert.Empty(t, result.Matched)
	assert.Empty(t, result.Missing)
	assert.NotNil(t, result.PresentInJD)
}

func TestPercent(t *testing.T) {
	tests := []struct {
		matched, partial, total, expected int
	}{
		{3, 2, 10, 40},
		{1, 0, 3, 33},
		{1, 1, 2, 75},
		{0, 0, 0, 0},
		{5, 0, 5, 100},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, Percent(tt.matched, tt.partial, tt.total))
	}
}

type fakeEmbedder struct {
	vectors    map[string][]float32
	err        error
	embeds     atomic.Int32
	batchCalls atomic.Int32
}

// vector returns the mapped vector for text, else fallback. Unmapped tokens
// and unmapped sentences use orthogonal fallbacks so they never match.
func (f *fakeEmbedder) vector(text string, fallback []float32) []float32 {
	if v, ok := f.vectors[text]; ok {
		return v
	}
	return fallback
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.embeds.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.vector(text, []float32{1, 0, 0}), nil
}

func (f *fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	f.batchCalls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vector(t, []float32{0, 0, 1})
	}
	return out, nil
}

func TestSemantic_UpgradesMissingToPartial(t *testing.T) {
	emb := &fakeEmbedder{vectors: map[string][]float32{
		"stakeholder engagement":                 {1, 0, 0},
		"Worked closely with business partners.": {0.9, 0.1, 0},
		"Kubernetes":                             {0, 1, 0},
	}}
	m := NewSemantic(NewLiteral(0), emb, SemanticOptions{})
	resume := NewResume("Worked closely with business partners. Delivered monthly reports.")

	assert.Equal(t, StatusPartial, m.Match(context.Background(), resume, "stakeholder engagement"))
	assert.Equal(t, StatusMissing, m.Match(context.Background(), resume, "Kubernetes"))
}

func TestSemantic_LeavesLiteralMatchesAlone(t *testing.T) {
	emb := &fakeEmbedder{}
	m := NewSemantic(NewLiteral(0), emb, SemanticOptions{})

	assert.Equal(t, StatusMatched, m.Match(context.Background(), NewResume("Python developer"), "Python"))
	assert.Equal(t, int32(0), emb.embeds.Load())
	assert.Equal(t, int32(0), emb.batchCalls.Load())
}

func TestSemantic_FailOpen(t *testing.T) {
	var buf bytes.Buffer
	emb := &fakeEmbedder{err: errors.New("quota exceeded")}
	m := NewSemantic(NewLiteral(0), emb, SemanticOptions{Logger: zerolog.New(&buf)})

	status := m.Match(context.Background(), NewResume("Worked with partners. Shipped things."), "stakeholder engagement")
	assert.Equal(t, StatusMissing, status)
	assert.Contains(t, buf.String(), "semantic match unavailable")
	assert.Contains(t, buf.String(), "quota exceeded")
}

func TestSemantic_EmbedsSentencesOnce(t *testing.T) {
	emb := &fakeEmbedder{}
	m := NewSemantic(NewLiteral(0), emb, SemanticOptions{})
	resume := NewResume("First sentence here. Second sentence there.")

	result := MatchDictionary(context.Background(), m, resume, dictionary("Kubernetes", "Terraform", "Ansible"), nil)
	assert.Len(t, result.Missing, 3)
	assert.Equal(t, int32(1), emb.batchCalls.Load())
	assert.Equal(t, int32(3), emb.embeds.Load())
}

func TestNewSemantic_NilEmbedder(t *testing.T) {
	inner := NewLiteral(0)
	assert.Equal(t, Matcher(inner), NewSemantic(inner, nil, SemanticOptions{}))
}

func TestSentences(t *testing.T) {
	assert.Equal(t,
		[]string{"Led a team.", "Built ETL!", "Why?", "Shipped v1.2 release"},
		Sentences("Led a team. Built ETL!  Why?\nShipped v1.2 release", 10))
	assert.Equal(t, []string{"A.", "B."}, Sentences("A. B. C.", 2))

	long := strings.Repeat("x", 400) + ". Short one."
	assert.Equal(t, []string{"Short one."}, Sentences(long, 10))
	assert.Empty(t, Sentences("", 10))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, Cosine([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-6)
	assert.InDelta(t, 0.0, Cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, 0.0, Cosine([]float32{0, 0}, []float32{1, 1}), 1e-9)
}
