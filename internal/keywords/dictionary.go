package keywords

import (
	"regexp"
	"strings"
)

// Source records which extraction heuristic produced a dictionary token.
type Source string

const (
	// SourceTriggered tokens come from "experience with X, Y" style lists.
	SourceTriggered Source = "triggered"
	// SourceNounPhrase tokens come from Title-Case runs, acronyms or dotted tech names.
	SourceNounPhrase Source = "noun_phrase"
	// SourceExtra tokens were injected through configuration.
	SourceExtra Source = "extra"
	// SourceSynthetic marks the Programming language concept token.
	SourceSynthetic Source = "synthetic"
)

// Token is one dictionary entry.
type Token struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// Dictionary is the ordered, case-insensitively unique list of JD keywords.
type Dictionary struct {
	Tokens []Token `json:"tokens"`
}

// Texts returns the token texts in dictionary order.
func (d Dictionary) Texts() []string {
	out := make([]string, len(d.Tokens))
	for i, tok := range d.Tokens {
		out[i] = tok.Text
	}
	return out
}

// Len returns the number of tokens.
func (d Dictionary) Len() int {
	return len(d.Tokens)
}

var triggers = []*regexp.Regexp{
	regexp.MustCompile(`(?i)experience\s+(?:with|in|across)\s*[:-]?\s*(.+)`),
	regexp.MustCompile(`(?i)proficien(?:t|cy)\s+(?:in|with)\s*[:-]?\s*(.+)`),
	regexp.MustCompile(`(?i)skills?\s*(?:required|preferred)?\s*[:-]?\s*(.+)`),
	regexp.MustCompile(`(?i)tools?\s*(?:&?\s*technologies|and technologies)?\s*[:-]?\s*(.+)`),
	regexp.MustCompile(`(?i)including\s+(.+)`),
	regexp.MustCompile(`(?i)such\s+as\s+(.+)`),
	regexp.MustCompile(`(?i)familiarity\s+with\s+(.+)`),
	regexp.MustCompile(`(?i)collaborat(?:e|ing|ion)\s+with\s+(.+)`),
}

var (
	lineSplit      = regexp.MustCompile(`\n+`)
	andOr          = regexp.MustCompile(`(?i)\band/or\b`)
	sentenceEnd    = regexp.MustCompile(`[.?!]`)
	listDelimiters = regexp.MustCompile(`(?i)[,/|;]|\s+and\s+|\s+or\s+`)
	titleCaseRun   = regexp.MustCompile(`\b([A-Z][A-Za-z0-9+#/-]*(?:[ \t]+[A-Z0-9][A-Za-z0-9+#/-]*){0,3})\b`)
	acronym        = regexp.MustCompile(`\b([A-Z][A-Z0-9]{1,9})\b`)
)

// dottedTech names contain symbols that defeat \b, so they are located with an
// explicit alphanumeric boundary check instead.
var dottedTech = []string{"C++", "C#", ".NET", "Node.js", "React.js", "Vue.js"}

// Builder turns job-description text into a Dictionary.
type Builder struct {
	tables *Tables
	extras []string
}

// NewBuilder creates a Builder. A nil tables argument selects DefaultTables.
// extras are appended after the extracted candidates.
func NewBuilder(tables *Tables, extras []string) *Builder {
	if tables == nil {
		tables = DefaultTables()
	}
	return &Builder{tables: tables, extras: extras}
}

// Build extracts the dictionary: triggered lists, then noun phrases, then
// extras, canonicalized, filtered, de-duplicated and capped at
// MaxDictionarySize. When the JD asks for "at least one programming language",
// the synthetic ProgrammingLanguageToken is appended as the last entry.
func (b *Builder) Build(jd string) Dictionary {
	type candidate struct {
		text   string
		source Source
	}
	var raw []candidate
	for _, t := range ExtractTriggeredLists(jd) {
		raw = append(raw, candidate{t, SourceTriggered})
	}
	for _, t := range b.ExtractNounPhrases(jd) {
		raw = append(raw, candidate{t, SourceNounPhrase})
	}
	for _, t := range b.extras {
		raw = append(raw, candidate{t, SourceExtra})
	}

	wantsLanguage := AnyLanguagePhrase.MatchString(jd)

	seen := make(map[string]bool)
	var tokens []Token
	for _, c := range raw {
		tok := b.tables.Canon(CleanToken(c.text))
		if !b.tables.IsLikelyKeyword(tok) {
			continue
		}
		key := strings.ToLower(tok)
		if seen[key] {
			continue
		}
		seen[key] = true
		if b.tables.Generic.MatchString(tok) || b.tables.isBadPhrase(tok) {
			continue
		}
		tokens = append(tokens, Token{Text: tok, Source: c.source})
	}

	limit := MaxDictionarySize
	if wantsLanguage {
		limit--
	}
	if len(tokens) > limit {
		tokens = tokens[:limit]
	}

	if wantsLanguage {
		kept := tokens[:0]
		for _, tok := range tokens {
			if !strings.EqualFold(tok.Text, ProgrammingLanguageToken) {
				kept = append(kept, tok)
			}
		}
		tokens = append(kept, Token{Text: ProgrammingLanguageToken, Source: SourceSynthetic})
	}

	return Dictionary{Tokens: tokens}
}

// ExtractTriggeredLists scans jd line by line for trigger phrases and splits
// the captured tail into cleaned candidate phrases.
func ExtractTriggeredLists(jd string) []string {
	var out []string
	for _, line := range lineSplit.Split(jd, -1) {
		text := andOr.ReplaceAllString(strings.TrimSpace(line), " and ")
		if text == "" {
			continue
		}
		for _, re := range triggers {
			m := re.FindStringSubmatch(text)
			if len(m) < 2 || m[1] == "" {
				continue
			}
			seg := m[1]
			if loc := sentenceEnd.FindStringIndex(seg); loc != nil {
				seg = seg[:loc[0]]
			}
			for _, part := range listDelimiters.Split(seg, -1) {
				if tok := CleanToken(part); tok != "" {
					out = append(out, tok)
				}
			}
		}
	}
	return out
}

// ExtractNounPhrases finds Title-Case runs of up to four words, all-caps
// acronyms and a fixed set of symbol-bearing tech names anywhere in jd.
func (b *Builder) ExtractNounPhrases(jd string) []string {
	var out []string
	for _, m := range titleCaseRun.FindAllString(jd, -1) {
		if _, deny := b.tables.TitleCaseDeny[m]; deny {
			continue
		}
		out = append(out, m)
	}
	out = append(out, acronym.FindAllString(jd, -1)...)
	for _, name := range dottedTech {
		if containsBounded(jd, name) {
			out = append(out, name)
		}
	}

	cleaned := out[:0]
	for _, s := range out {
		if tok := CleanToken(s); tok != "" {
			cleaned = append(cleaned, tok)
		}
	}
	return cleaned
}

// containsBounded reports whether needle occurs in s with no ASCII letter or
// digit immediately before or after it.
func containsBounded(s, needle string) bool {
	from := 0
	for {
		idx := strings.Index(s[from:], needle)
		if idx < 0 {
			return false
		}
		start := from + idx
		end := start + len(needle)
		if (start == 0 || !isAlnum(s[start-1])) && (end == len(s) || !isAlnum(s[end])) {
			return true
		}
		from = start + 1
	}
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
