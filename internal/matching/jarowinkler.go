package matching

import (
	"strings"

	"github.com/jonathan/ats-scorer/internal/textnorm"
)

const (
	// DefaultFuzzyThreshold is the similarity required by the dictionary matcher.
	DefaultFuzzyThreshold = 0.90
	// LenientFuzzyThreshold is used by callers that tolerate looser matches.
	LenientFuzzyThreshold = 0.86

	maxGramWords = 5
	prefixBonus  = 0.1
	maxPrefix    = 4
)

// JaroWinkler returns the case-insensitive Jaro-Winkler similarity of a and b
// in [0,1], with a common-prefix bonus of up to four characters.
func JaroWinkler(a, b string) float64 {
	s1 := []rune(strings.ToLower(a))
	s2 := []rune(strings.ToLower(b))
	if string(s1) == string(s2) {
		return 1
	}

	window := max(len(s1), len(s2))/2 - 1
	matched1 := make([]bool, len(s1))
	matched2 := make([]bool, len(s2))
	matches := 0
	for i := range s1 {
		start := max(0, i-window)
		end := min(i+window+1, len(s2))
		for j := start; j < end; j++ {
			if !matched2[j] && s1[i] == s2[j] {
				matched1[i], matched2[j] = true, true
				matches++
				break
			}
		}
	}
	if matches == 0 {
		return 0
	}

	var m1, m2 []rune
	for i, ok := range matched1 {
		if ok {
			m1 = append(m1, s1[i])
		}
	}
	for j, ok := range matched2 {
		if ok {
			m2 = append(m2, s2[j])
		}
	}
	transpositions := 0
	for i := range m1 {
		if m1[i] != m2[i] {
			transpositions++
		}
	}

	m := float64(matches)
	t := float64(transpositions) / 2
	jaro := (m/float64(len(s1)) + m/float64(len(s2)) + (m-t)/m) / 3

	prefix := 0
	for prefix < maxPrefix && prefix < len(s1) && prefix < len(s2) && s1[prefix] == s2[prefix] {
		prefix++
	}
	return jaro + float64(prefix)*prefixBonus*(1-jaro)
}

// FuzzyContains slides windows of one to min(5, token words) words across the
// loosely normalized text and reports whether any window reaches threshold.
// A non-positive threshold selects LenientFuzzyThreshold.
func FuzzyContains(text, token string, threshold float64) bool {
	if threshold <= 0 {
		threshold = LenientFuzzyThreshold
	}
	return fuzzyWords(strings.Fields(textnorm.Loose(text)), token, threshold)
}

func fuzzyWords(words []string, token string, threshold float64) bool {
	t := textnorm.Loose(token)
	if t == "" {
		return false
	}
	n := min(maxGramWords, max(1, len(strings.Fields(t))))
	for k := 1; k <= n; k++ {
		for i := 0; i+k <= len(words); i++ {
			gram := strings.Join(words[i:i+k], " ")
			if JaroWinkler(gram, t) >= threshold {
				return true
			}
		}
	}
	return false
}
