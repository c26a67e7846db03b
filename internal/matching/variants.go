// Package matching decides whether job-description keywords are present in a
// résumé using literal variants, fuzzy n-grams and an optional embedding tier.
package matching

import (
	"regexp"
	"strings"

	"github.com/jonathan/ats-scorer/internal/keywords"
	"github.com/jonathan/ats-scorer/internal/textnorm"
)

var (
	spaceRun    = regexp.MustCompile(`\s+`)
	hyphenRun   = regexp.MustCompile(`[-\x{2010}-\x{2015}]`)
	suffixStrip = regexp.MustCompile(`(?i)\b(\w{3,})(ing|ed|es|s|al|ally|ation|ations|er|ers|ion|ions|ive|ives|ary|aries)\b`)
)

type swapPair struct {
	from *regexp.Regexp
	to   string
}

// phraseSwaps are applied in both directions; each entry has a mirror.
var phraseSwaps = []swapPair{
	{regexp.MustCompile(`(?i)\bpost\s*procedure\b`), "post-procedure"},
	{regexp.MustCompile(`(?i)\bpost-procedure\b`), "post procedure"},
	{regexp.MustCompile(`(?i)\bprocedures?\b`), "procedural"},
	{regexp.MustCompile(`(?i)\bprocedural\b`), "procedure"},
	{regexp.MustCompile(`(?i)\brecover\b`), "recovery"},
	{regexp.MustCompile(`(?i)\brecovery\b`), "recover"},
	{regexp.MustCompile(`(?i)\bobservation\b`), "observations"},
	{regexp.MustCompile(`(?i)\bobservations\b`), "observation"},
	{regexp.MustCompile(`(?i)\brecover(?:ing)?\s+patients?\s+post(?:\s|-)?procedure\b`), "post-procedure recovery"},
	{regexp.MustCompile(`(?i)\bpost-procedure\s+recovery\b`), "recovering patients post procedure"},
	{regexp.MustCompile(`(?i)\bmedical\s+history\s+assessment\b`), "history taking"},
	{regexp.MustCompile(`(?i)\bhistory\s+taking\b`), "medical history assessment"},
	{regexp.MustCompile(`(?i)\bgaining\s+informed\s+consent\b`), "informed consent"},
	{regexp.MustCompile(`(?i)\bmonitor(?:ing)?\s+baseline\s+observations?\b`), "baseline observations"},
	{regexp.MustCompile(`(?i)\bbaseline\s+observations?\b`), "monitoring baseline observations"},
}

type orderedSet struct {
	items []string
	seen  map[string]bool
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]bool)}
}

func (s *orderedSet) add(v string) {
	if v == "" || s.seen[v] {
		return
	}
	s.seen[v] = true
	s.items = append(s.items, v)
}

// Variants expands a token into loosely normalized surface forms: hyphen and
// space swaps, light suffix stemming and a small table of phrase equivalences.
// The first variant is always the cleaned token itself.
func Variants(token string) []string {
	base := keywords.CleanToken(token)
	if base == "" {
		return nil
	}

	forms := newOrderedSet()
	for _, hs := range []string{
		base,
		spaceRun.ReplaceAllString(base, "-"),
		hyphenRun.ReplaceAllString(base, " "),
	} {
		forms.add(hs)
		forms.add(suffixStrip.ReplaceAllString(hs, "$1"))
	}

	swapped := newOrderedSet()
	for _, v := range forms.items {
		current := []string{v}
		for _, sp := range phraseSwaps {
			var next []string
			for _, c := range current {
				next = append(next, c)
				if sp.from.MatchString(c) {
					next = append(next, sp.from.ReplaceAllString(c, sp.to))
				}
			}
			current = next
		}
		for _, c := range current {
			swapped.add(c)
		}
	}

	out := newOrderedSet()
	for _, v := range swapped.items {
		out.add(textnorm.Loose(v))
	}
	return out.items
}

// variantPattern builds a case-insensitive pattern for v guarded by
// non-alphanumeric boundaries, tolerating hyphens between words.
func variantPattern(v string) *regexp.Regexp {
	words := strings.Fields(v)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)(^|[^a-z0-9])` + strings.Join(words, `[\s-]+`) + `([^a-z0-9]|$)`)
}

// containsLoose reports whether any variant of token occurs in already
// loosely normalized text.
func containsLoose(loose, token string) bool {
	for _, v := range Variants(token) {
		if variantPattern(v).MatchString(loose) {
			return true
		}
	}
	return false
}

// ContainsToken reports whether token, or one of its variants, occurs in text
// as a whole word or phrase.
func ContainsToken(text, token string) bool {
	return containsLoose(textnorm.Loose(text), token)
}
