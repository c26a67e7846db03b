// Package skills splits a résumé skills excerpt into short atomic skill tokens.
package skills

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-scorer/internal/textnorm"
)

// MaxWords is the longest token accepted as a skill; longer fragments read as sentences.
const MaxWords = 5

// shortSkills survive the length filter.
var shortSkills = map[string]bool{"SQL": true, "R": true, "ETL": true, "DAX": true}

var (
	lineBreaks     = regexp.MustCompile(`\n+`)
	skillDelims    = regexp.MustCompile(`(?:,|;|\||/| — | – | - )+`)
	leadingBullets = regexp.MustCompile(`^[•\-–—]\s*`)
)

// ExtractAtomic tokenizes a skills excerpt. A line of the form "Header: a, b"
// yields the header and each item; other lines are split on the same
// delimiters. Tokens are de-duplicated case-insensitively in first-seen order.
func ExtractAtomic(excerpt string) []string {
	if strings.TrimSpace(excerpt) == "" {
		return []string{}
	}

	var raw []string
	for _, line := range lineBreaks.Split(textnorm.Block(excerpt), -1) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		header, rest, found := strings.Cut(line, ":")
		if found && strings.TrimSpace(header) != "" && strings.TrimSpace(rest) != "" {
			raw = append(raw, header)
			raw = append(raw, skillDelims.Split(rest, -1)...)
			continue
		}
		raw = append(raw, skillDelims.Split(strings.TrimSuffix(line, ":"), -1)...)
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, r := range raw {
		tok := accept(r)
		if tok == "" {
			continue
		}
		key := strings.ToLower(tok)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tok)
	}
	return out
}

// accept cleans one candidate and returns "" when it is not skill-shaped.
func accept(candidate string) string {
	tok := strings.TrimSpace(leadingBullets.ReplaceAllString(strings.TrimSpace(candidate), ""))
	if tok == "" {
		return ""
	}
	if utf8.RuneCountInString(tok) <= 2 && !shortSkills[strings.ToUpper(tok)] {
		return ""
	}
	if len(strings.Fields(tok)) > MaxWords {
		return ""
	}
	return tok
}
