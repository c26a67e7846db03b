package keywords

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanToken(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bullet and parenthetical", input: "• Power BI (desktop)", expected: "Power BI"},
		{name: "dash bullet", input: "- Tableau", expected: "Tableau"},
		{name: "highly regarded clause", input: "SQL is highly regarded", expected: "SQL"},
		{name: "required clause", input: "Python is required for this role", expected: "Python"},
		{name: "such as tail", input: "cloud platforms such as Azure", expected: "cloud platforms"},
		{name: "sentence cut", input: "Excel. Must be detail oriented", expected: "Excel"},
		{name: "include tail", input: "data tools include Tableau", expected: "data tools"},
		{name: "trailing punctuation", input: "Tableau;", expected: "Tableau"},
		{name: "and/or", input: "SQL and/or Python", expected: "SQL Python"},
		{name: "keeps dotted names", input: "Node.js.", expected: "Node.js"},
		{name: "empty", input: "   ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanToken(tt.input))
		})
	}
}

func TestCanon(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		input    string
		expected string
	}{
		{"pbi", "Power BI"},
		{"MSSQL", "SQL Server"},
		{"t-sql", "SQL Server"},
		{" gcp ", "GCP"},
		{"GitHub", "Git"},
		{"gitlab", "Git"},
		{"dotnet", ".NET"},
		{"Snowflake", "Snowflake"},
		{"snowflake", "snowflake"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, tables.Canon(tt.input))
		})
	}
}

func TestCanon_MSSQLScenario(t *testing.T) {
	assert.Equal(t, "SQL Server", DefaultTables().Canon(CleanToken("MS SQL")))
}

func TestCanon_InjectedTable(t *testing.T) {
	tables := NewTables()
	tables.Synonyms["k8s"] = "Kubernetes"

	assert.Equal(t, "Kubernetes", tables.Canon("K8s"))
	assert.Equal(t, "k8s", DefaultTables().Canon("k8s"), "default tables must be unaffected")
}

func TestIsLikelyKeyword(t *testing.T) {
	tables := DefaultTables()

	tests := []struct {
		tok      string
		expected bool
	}{
		{"R", true},
		{"x", false},
		{"", false},
		{"experience", false},
		{"Python", true},
		{"python", false},
		{"SQL", true},
		{"C#", true},
		{"ISO 27001", true},
		{"data modelling", true},
		{"preferred skills", false},
		{"good understanding of SQL", false},
		{"one two three four five six", false},
	}

	for _, tt := range tests {
		t.Run(tt.tok, func(t *testing.T) {
			assert.Equal(t, tt.expected, tables.IsLikelyKeyword(tt.tok))
		})
	}
}

func TestBuild_TriggeredList(t *testing.T) {
	dict := NewBuilder(nil, nil).Build("Experience with: SQL, Power BI, Python")

	texts := dict.Texts()
	assert.Contains(t, texts, "SQL")
	assert.Contains(t, texts, "Power BI")
	assert.Contains(t, texts, "Python")
	assert.Equal(t, SourceTriggered, dict.Tokens[0].Source)
}

func TestBuild_CanonicalizesSynonyms(t *testing.T) {
	dict := NewBuilder(nil, nil).Build("Proficiency in MS SQL and PBI dashboards")

	texts := dict.Texts()
	assert.Contains(t, texts, "SQL Server")
	assert.Contains(t, texts, "Power BI")
}

func TestBuild_DottedTechNames(t *testing.T) {
	dict := NewBuilder(nil, nil).Build("We use C++, C# and .NET alongside Node.js services.")

	texts := dict.Texts()
	assert.Contains(t, texts, "C++")
	assert.Contains(t, texts, "C#")
	assert.Contains(t, texts, ".NET")
	assert.Contains(t, texts, "Node.js")
}

func TestBuild_CaseInsensitiveDedup(t *testing.T) {
	dict := NewBuilder(nil, nil).Build("Experience with Python, PYTHON, Tableau\nTools: Tableau, python")

	seen := make(map[string]bool)
	for _, text := range dict.Texts() {
		key := strings.ToLower(text)
		assert.False(t, seen[key], "duplicate token %q", text)
		seen[key] = true
	}
	assert.True(t, seen["python"])
	assert.True(t, seen["tableau"])
}

func TestBuild_Cap(t *testing.T) {
	var parts []string
	for i := 0; i < 150; i++ {
		parts = append(parts, fmt.Sprintf("X%03d", i))
	}
	jd := "Tools: " + strings.Join(parts, ", ")

	dict := NewBuilder(nil, nil).Build(jd)
	assert.Len(t, dict.Tokens, MaxDictionarySize)
	assert.Equal(t, "X000", dict.Tokens[0].Text)
}

func TestBuild_FiltersGenericTerms(t *testing.T) {
	dict := NewBuilder(nil, nil).Build("Experience with Stakeholder Management, Reporting, Snowflake\nA related field is essential.")

	texts := dict.Texts()
	assert.Contains(t, texts, "Snowflake")
	assert.NotContains(t, texts, "Stakeholder Management")
	assert.NotContains(t, texts, "Reporting")
	for _, text := range texts {
		assert.NotContains(t, strings.ToLower(text), "related field")
	}
}

func TestBuild_ProgrammingLanguageConcept(t *testing.T) {
	dict := NewBuilder(nil, nil).Build("Tools: Tableau\nSkills required: at least one programming language")

	require.NotEmpty(t, dict.Tokens)
	last := dict.Tokens[len(dict.Tokens)-1]
	assert.Equal(t, ProgrammingLanguageToken, last.Text)
	assert.Equal(t, SourceSynthetic, last.Source)
	for _, text := range dict.Texts() {
		assert.NotContains(t, strings.ToLower(text), "at least one")
	}
}

func TestBuild_ProgrammingLanguageRespectsCap(t *testing.T) {
	var parts []string
	for i := 0; i < 80; i++ {
		parts = append(parts, fmt.Sprintf("Y%03d", i))
	}
	jd := "Tools: " + strings.Join(parts, ", ") + "\nAt least one programming language."

	dict := NewBuilder(nil, nil).Build(jd)
	assert.Len(t, dict.Tokens, MaxDictionarySize)
	assert.Equal(t, ProgrammingLanguageToken, dict.Tokens[MaxDictionarySize-1].Text)
}

func TestBuild_Extras(t *testing.T) {
	dict := NewBuilder(nil, []string{"ThoughtSpot", "Cognos", "thoughtspot"}).Build("Tools: Tableau")

	texts := dict.Texts()
	assert.Contains(t, texts, "ThoughtSpot")
	assert.Contains(t, texts, "Cognos")
	for _, tok := range dict.Tokens {
		if tok.Text == "Cognos" {
			assert.Equal(t, SourceExtra, tok.Source)
		}
	}
}

func TestBuild_FillerYieldsEmpty(t *testing.T) {
	dict := NewBuilder(nil, nil).Build("we are a friendly team and we value curiosity, kindness and growth.")
	assert.Equal(t, 0, dict.Len())
}

func TestExtractNounPhrases_DeniesGenericSingles(t *testing.T) {
	phrases := NewBuilder(nil, nil).ExtractNounPhrases("About us. Strong communicators welcome. Tableau Server experience.")

	assert.NotContains(t, phrases, "About")
	assert.Contains(t, phrases, "Tableau Server")
}

func TestMapToolName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ms sql server", "SQL Server"},
		{"PowerBI", "Power BI"},
		{"excel", "Microsoft Excel"},
		{"Power Query", "Power Query"},
		{"dax", "DAX"},
		{" Looker ", "Looker"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapToolName(tt.input))
		})
	}
}
