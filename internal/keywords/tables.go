// Package keywords cleans candidate requirement phrases, maps synonyms to a
// canonical spelling and builds the bounded job-description dictionary.
package keywords

import (
	"regexp"
	"strings"
)

// ProgrammingLanguageToken is the synthetic dictionary entry that stands for
// "at least one programming language" style requirements.
const ProgrammingLanguageToken = "Programming language"

// MaxDictionarySize bounds the number of dictionary tokens.
const MaxDictionarySize = 60

// Tables holds the read-only lookup data used by cleaning, canonicalization and
// filtering. A single default instance is shared; tests may build their own.
type Tables struct {
	// Synonyms maps a lower-cased surface form to its canonical spelling.
	Synonyms map[string]string
	// Stopwords are tokens that are never keywords on their own.
	Stopwords map[string]struct{}
	// BadSingletons are generic single words rejected after canonicalization.
	BadSingletons map[string]struct{}
	// TitleCaseDeny lists Title-Case words ignored when they stand alone.
	TitleCaseDeny map[string]struct{}
	// ProgrammingLanguages satisfy the synthetic ProgrammingLanguageToken.
	ProgrammingLanguages []string
	// Generic rejects dictionary tokens that name activities rather than skills.
	Generic *regexp.Regexp
	// Boilerplate rejects JD filler phrases.
	Boilerplate *regexp.Regexp
	// BadPhrases are removed from the dictionary wherever they appear.
	BadPhrases []*regexp.Regexp
}

var defaultCanon = map[string]string{
	"pbi":              "Power BI",
	"powerbi":          "Power BI",
	"power bi desktop": "Power BI",
	"ms sql":           "SQL Server",
	"mssql":            "SQL Server",
	"t-sql":            "SQL Server",
	"tsql":             "SQL Server",
	"gcp":              "GCP",
	"google bigquery":  "BigQuery",
	"red shift":        "Redshift",
	"dotnet":           ".NET",
	".net":             ".NET",
	"github":           "Git",
	"gitlab":           "Git",
	"azure devops":     "Azure DevOps",
}

var defaultStopwords = []string{
	"and", "or", "with", "of", "in", "to", "for", "on", "the", "a", "an",
	"including", "such as", "etc", "eg", "e.g.", "i.e.", "via", "using", "across",
	"other", "based", "program", "tools", "systems", "applications", "platforms",
	"solutions", "experience", "proficient", "knowledge", "understanding", "highly",
	"regarded", "preferred", "desirable", "required", "assist", "assisting", "ability",
	"abilities", "demonstrated", "strong", "well-developed", "previous", "key",
	"working", "registered", "experience with", "experience in",
}

var defaultBadSingletons = []string{
	"about", "our", "strong", "solid", "familiarity", "prior", "understanding",
	"experience", "proficiency", "qualification", "qualifications", "tertiary",
	"related", "field", "a", "an", "the",
}

var defaultTitleCaseDeny = []string{
	"About", "Our", "Strong", "Solid", "Familiarity", "Prior", "Understanding",
	"Experience", "Tertiary", "Related", "Field",
	"We", "You", "Your", "The", "This", "As", "If", "In", "It", "Join", "They",
}

var defaultLanguages = []string{
	"Python", "R", "Java", "C#", "C++", "JavaScript", "TypeScript", "Scala", "Go",
	"MATLAB", "SAS", "Julia", "Ruby", "PHP",
}

var (
	genericPattern     = regexp.MustCompile(`(?i)\b(reports?|reporting|analytics?|analysis|stakeholders?|process(?:es)?|framework|environment|ability|strong|demonstrated|well[-\s]?developed|previous\s+experience|registered|assist(?:ing)?)\b`)
	boilerplatePattern = regexp.MustCompile(`(?i)\b(highly regarded|preferably|preferred|required|desirable|essential|experience across|experience with|good understanding of)\b`)
	relatedFieldPhrase = regexp.MustCompile(`(?i)\ba\s+related\s+field\b`)
	// AnyLanguagePhrase detects the "at least one programming language" requirement.
	AnyLanguagePhrase = regexp.MustCompile(`(?i)\bat\s+least\s+one\s+programming\s+language\b`)
)

func set(words []string) map[string]struct{} {
	out := make(map[string]struct{}, len(words))
	for _, w := range words {
		out[w] = struct{}{}
	}
	return out
}

// NewTables builds a fresh copy of the default tables.
func NewTables() *Tables {
	canon := make(map[string]string, len(defaultCanon))
	for k, v := range defaultCanon {
		canon[k] = v
	}
	return &Tables{
		Synonyms:             canon,
		Stopwords:            set(defaultStopwords),
		BadSingletons:        set(defaultBadSingletons),
		TitleCaseDeny:        set(defaultTitleCaseDeny),
		ProgrammingLanguages: append([]string(nil), defaultLanguages...),
		Generic:              genericPattern,
		Boilerplate:          boilerplatePattern,
		BadPhrases:           []*regexp.Regexp{relatedFieldPhrase, AnyLanguagePhrase},
	}
}

var defaultTables = NewTables()

// DefaultTables returns the shared default tables. Callers must not mutate them.
func DefaultTables() *Tables {
	return defaultTables
}

// Canon returns the canonical spelling of token, or token unchanged (case
// preserved) when it is not in the synonym table.
func (t *Tables) Canon(token string) string {
	key := strings.ToLower(strings.TrimSpace(token))
	if canonical, ok := t.Synonyms[key]; ok {
		return canonical
	}
	return token
}
