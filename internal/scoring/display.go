package scoring

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-scorer/internal/textnorm"
)

var (
	tooGenericDisplay  = regexp.MustCompile(`(?i)\b(reports?|reporting|analytics?|analysis|stakeholders?|process(?:es)?|framework|environment|ability|strong|demonstrated|well[-\s]?developed|previous\s+experience|about|our|solid|familiarity|prior|tertiary|related\s+field|a\s+related\s+field|at\s+least\s+one\s+programming\s+language)\b`)
	programmingPhrase  = regexp.MustCompile(`\bprogramming language\b`)
	relatedFieldPhrase = regexp.MustCompile(`\b(a\s+related\s+field|related\s+field)\b`)
)

// IsDisplayKeyword reports whether t is specific enough to show the user:
// one to five words and free of generic JD vocabulary.
func IsDisplayKeyword(t string) bool {
	if strings.TrimSpace(t) == "" || tooGenericDisplay.MatchString(t) {
		return false
	}
	n := len(strings.Fields(t))
	return n >= 1 && n <= 5
}

// Prettify relabels concept tokens for display.
func Prettify(t string) string {
	lc := strings.ToLower(t)
	switch {
	case programmingPhrase.MatchString(lc):
		return "Programming language (e.g., Python/R)"
	case relatedFieldPhrase.MatchString(lc):
		return "Relevant degree/discipline"
	default:
		return t
	}
}

// DisplayKeywords de-duplicates tokens by normalized form, drops generic
// ones and prettifies the rest, preserving order.
func DisplayKeywords(tokens []string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, t := range tokens {
		key := textnorm.Normalize(t)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		if IsDisplayKeyword(t) {
			out = append(out, Prettify(t))
		}
	}
	return out
}
