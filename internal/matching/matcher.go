package matching

import (
	"context"
	"strings"
	"sync"

	"github.com/jonathan/ats-scorer/internal/textnorm"
)

// Status is the outcome of matching one keyword.
type Status string

const (
	StatusMatched Status = "matched"
	StatusPartial Status = "partial"
	StatusMissing Status = "missing"
)

// Resume is a résumé prepared once for repeated keyword lookups.
type Resume struct {
	Text  string
	loose string
	words []string

	// sentence embeddings are requested at most once per Resume
	vectorsOnce sync.Once
	sentences   []string
	vectors     [][]float32
	vectorsErr  error
}

// NewResume precomputes the normalized forms of text.
func NewResume(text string) *Resume {
	loose := textnorm.Loose(text)
	return &Resume{
		Text:  text,
		loose: loose,
		words: strings.Fields(loose),
	}
}

// Matcher decides whether a single keyword is present in a résumé.
type Matcher interface {
	Match(ctx context.Context, resume *Resume, token string) Status
}

// Literal is the synchronous matcher: variant containment first, then fuzzy
// n-gram similarity. It never reports StatusPartial.
type Literal struct {
	FuzzyThreshold float64
}

// NewLiteral creates a Literal matcher. A non-positive threshold selects
// DefaultFuzzyThreshold.
func NewLiteral(threshold float64) *Literal {
	if threshold <= 0 {
		threshold = DefaultFuzzyThreshold
	}
	return &Literal{FuzzyThreshold: threshold}
}

// Match implements Matcher.
func (l *Literal) Match(_ context.Context, resume *Resume, token string) Status {
	if containsLoose(resume.loose, token) {
		return StatusMatched
	}
	if fuzzyWords(resume.words, token, l.FuzzyThreshold) {
		return StatusMatched
	}
	return StatusMissing
}

// ContainsAnyLanguage reports whether the résumé names any of languages,
// using variant containment only.
func ContainsAnyLanguage(resume *Resume, languages []string) bool {
	for _, lang := range languages {
		if containsLoose(resume.loose, lang) {
			return true
		}
	}
	return false
}
