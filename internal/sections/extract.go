package sections

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/ats-scorer/internal/textnorm"
)

// DefaultMaxChars caps a heading slice.
const DefaultMaxChars = 12000

// Strategy extracts one section from a résumé, returning "" when it finds nothing.
type Strategy interface {
	Name() string
	Extract(text string, kind Kind) string
}

// HeadingSlice takes the text between the first heading of the requested kind
// and the nearest following heading of any kind.
type HeadingSlice struct {
	MaxChars int
}

// Name implements Strategy.
func (HeadingSlice) Name() string { return "heading_slice" }

// Extract implements Strategy.
func (h HeadingSlice) Extract(text string, kind Kind) string {
	start, ok := startHeadings[kind]
	if !ok || text == "" {
		return ""
	}
	src := textnorm.Block(text)
	loc := start.FindStringIndex(src)
	if loc == nil {
		return ""
	}
	body := src[loc[1]:]

	stop := len(body)
	for _, re := range stopHeadings {
		if m := re.FindStringIndex(body); m != nil && m[0] < stop {
			stop = m[0]
		}
	}

	maxChars := h.MaxChars
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return truncateRunes(textnorm.Block(body[:stop]), maxChars)
}

// legacyRule is a heading pattern plus either a stop pattern that ends a
// multi-line body, or, when stop is nil, a capture group holding one line.
type legacyRule struct {
	re   *regexp.Regexp
	stop *regexp.Regexp
}

func (r legacyRule) apply(text string) string {
	if r.stop == nil {
		m := r.re.FindStringSubmatch(text)
		if len(m) < 2 {
			return ""
		}
		return strings.TrimSpace(m[1])
	}
	loc := r.re.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	body := text[loc[1]:]
	if m := r.stop.FindStringIndex(body); m != nil {
		body = body[:m[0]]
	}
	return strings.TrimSpace(body)
}

const (
	legacySummary  = `professional summary|summary|profile|objective`
	legacySkills   = `skills|competencies|technical skills|key skills|tools|technologies`
	legacyProjects = `projects|selected projects|assignments|engagements|list of projects`
)

var (
	// a blank line, or a new line starting with two letters
	paragraphStop  = regexp.MustCompile(`\n\s*\n|\n[A-Za-z]{2}`)
	experienceStop = regexp.MustCompile(`(?i)\n\s*(?:education|skills|projects|tools|technologies|training|certifications?|licenses?|references?)|\n\s*$`)
	educationStop  = regexp.MustCompile(`(?i)\n\s*\n|\n(?:skills?|experience|projects?|tools?|technologies?)\b`)
)

var legacyRules = map[Kind][]legacyRule{
	KindSummary: {
		{re: regexp.MustCompile(`(?i)(?:` + legacySummary + `)[:\s]*\n`), stop: paragraphStop},
		{re: regexp.MustCompile(`(?i)(?:` + legacySummary + `)[:\s]*([^\n]+)`)},
	},
	KindSkills: {
		{re: regexp.MustCompile(`(?i)(?:` + legacySkills + `)[:\s]*\n`), stop: paragraphStop},
		{re: regexp.MustCompile(`(?i)(?:` + legacySkills + `)[:\s]*([^\n]+)`)},
	},
	KindExperience: {
		{re: regexp.MustCompile(`(?i)(?:^|\n)\s*(?:experience|work experience|employment|work history|professional experience|clinical experience)\s*:?\s*\n+`), stop: experienceStop},
		{re: regexp.MustCompile(`(?i)(?:^|\n)\s*(?:experience|work experience|employment|work history|professional experience|clinical experience)\s*:?\s*([^\n]+)`)},
	},
	KindEducation: {
		{re: regexp.MustCompile(`(?i)(?:^|\n)\s*(?:education|academic|qualifications?|certifications?|training)\s*[:\s]*\n`), stop: educationStop},
	},
	KindProjects: {
		{re: regexp.MustCompile(`(?i)(?:` + legacyProjects + `)[:\s]*\n`), stop: paragraphStop},
	},
}

// Legacy applies looser single-pattern extractors that stop at a blank line
// or an obvious next heading instead of a recognized section boundary.
type Legacy struct{}

// Name implements Strategy.
func (Legacy) Name() string { return "legacy" }

// Extract implements Strategy.
func (Legacy) Extract(text string, kind Kind) string {
	for _, rule := range legacyRules[kind] {
		if s := rule.apply(text); s != "" {
			return s
		}
	}
	return ""
}

// Chain tries strategies in order. The first result of at least MinLen(kind)
// characters wins; otherwise the first non-empty result is returned.
type Chain struct {
	Strategies []Strategy
	MinLen     func(Kind) int
}

// DefaultMinLen requires 40 characters for education and experience slices
// and accepts any non-empty slice for the other kinds.
func DefaultMinLen(kind Kind) int {
	switch kind {
	case KindEducation, KindExperience:
		return 40
	default:
		return 0
	}
}

// DefaultChain prefers heading slices and falls back to the legacy extractors.
func DefaultChain() *Chain {
	return &Chain{
		Strategies: []Strategy{HeadingSlice{MaxChars: DefaultMaxChars}, Legacy{}},
		MinLen:     DefaultMinLen,
	}
}

// Extract runs the chain for kind.
func (c *Chain) Extract(text string, kind Kind) string {
	minLen := 0
	if c.MinLen != nil {
		minLen = c.MinLen(kind)
	}
	fallback := ""
	for _, s := range c.Strategies {
		out := s.Extract(text, kind)
		if out == "" {
			continue
		}
		if utf8.RuneCountInString(out) >= minLen {
			return out
		}
		if fallback == "" {
			fallback = out
		}
	}
	return fallback
}

var defaultChain = DefaultChain()

// Extract returns the best-effort excerpt of kind from text using DefaultChain.
func Extract(text string, kind Kind) string {
	return defaultChain.Extract(text, kind)
}

// SummaryExcerpt returns the summary section, preferring the heading slice.
func SummaryExcerpt(text string) string {
	return Extract(text, KindSummary)
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
