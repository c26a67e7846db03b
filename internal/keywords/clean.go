package keywords

import (
	"regexp"
	"strings"
)

// cleanSteps are applied in order; each removes one kind of boilerplate.
var cleanSteps = []struct {
	re   *regexp.Regexp
	repl string
}{
	{regexp.MustCompile(`^[•\-\s]+`), ""},
	{regexp.MustCompile(`\(.*?\)`), ""},
	{regexp.MustCompile(`(?i)\band/or\b`), " "},
	{regexp.MustCompile(`(?i)\b(is\s+(?:highly\s+)?regarded|is\s+(?:required|preferred|desirable|essential))\b.*$`), ""},
	{regexp.MustCompile(`(?i)\b(such\s+as|including)\b.*$`), ""},
	{regexp.MustCompile(`\.(?:\s|$).*`), ""},
	{regexp.MustCompile(`(?i)\b(include|includes)\b.*$`), ""},
	{regexp.MustCompile(`[(){}\[\],;:]+$`), ""},
}

var (
	whitespace  = regexp.MustCompile(`\s+`)
	titleMixed  = regexp.MustCompile(`[A-Z][a-z]`)
	acronymLike = regexp.MustCompile(`^[A-Z0-9.+#-]{2,}$`)
	multiWord   = regexp.MustCompile(`[A-Za-z]+\s+[A-Za-z]+`)
	hasDigit    = regexp.MustCompile(`[0-9]`)
)

// CleanToken strips bullets, parenthetical asides and trailing qualifier
// clauses from a candidate keyword and collapses its whitespace.
func CleanToken(raw string) string {
	s := raw
	for _, step := range cleanSteps {
		s = step.re.ReplaceAllString(s, step.repl)
	}
	return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
}

// IsLikelyKeyword reports whether tok looks like a real requirement keyword:
// at most five words, not boilerplate, not a stop word, and shaped like a
// technology, proper noun, acronym, multi-word term or version string.
func (t *Tables) IsLikelyKeyword(tok string) bool {
	if tok == "" {
		return false
	}
	if len(strings.Fields(tok)) > 5 {
		return false
	}
	if t.Boilerplate.MatchString(tok) {
		return false
	}
	if _, stop := t.Stopwords[strings.ToLower(tok)]; stop {
		return false
	}
	if tok == "R" {
		return true
	}
	if len(tok) < 2 {
		return false
	}
	return titleMixed.MatchString(tok) ||
		acronymLike.MatchString(tok) ||
		multiWord.MatchString(tok) ||
		hasDigit.MatchString(tok)
}

// isBadPhrase reports whether tok is a known generic singleton or contains a
// rejected phrase.
func (t *Tables) isBadPhrase(tok string) bool {
	lc := strings.ToLower(strings.TrimSpace(tok))
	if _, bad := t.BadSingletons[lc]; bad {
		return true
	}
	for _, re := range t.BadPhrases {
		if re.MatchString(lc) {
			return true
		}
	}
	return false
}

var toolNames = []struct {
	re   *regexp.Regexp
	name string
}{
	{regexp.MustCompile(`(?i)^(ms\s*)?sql\s*server|^mssql$|^t-?sql$`), "SQL Server"},
	{regexp.MustCompile(`(?i)^power\s*bi|^pbi$`), "Power BI"},
	{regexp.MustCompile(`(?i)^power\s*query`), "Power Query"},
	{regexp.MustCompile(`(?i)^ssms$|sql\s+server\s+management\s+studio`), "SSMS"},
	{regexp.MustCompile(`(?i)^(ms\s*|microsoft\s+)?excel`), "Microsoft Excel"},
	{regexp.MustCompile(`(?i)^dax$`), "DAX"},
	{regexp.MustCompile(`(?i)^python`), "Python"},
	{regexp.MustCompile(`(?i)^mysql$`), "MySQL"},
	{regexp.MustCompile(`(?i)^tableau`), "Tableau"},
}

// MapToolName normalizes the spelling of common BI/data tools reported by the
// model collaborator. Unknown names are returned trimmed.
func MapToolName(name string) string {
	trimmed := strings.TrimSpace(name)
	for _, tn := range toolNames {
		if tn.re.MatchString(trimmed) {
			return tn.name
		}
	}
	return trimmed
}
