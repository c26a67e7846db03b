// Package textnorm canonicalizes raw résumé and job-description strings for comparison.
//
// Three flavours are provided:
//   - Normalize: NFKC + case folding + whitespace collapse + edge punctuation trim.
//   - Loose: the matching variant, which also replaces bracket and list punctuation with spaces.
//   - Block: whitespace cleanup that keeps line structure, used before section slicing.
//
// None of the functions return errors; empty input yields empty output.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	wsRun          = regexp.MustCompile(`\s+`)
	looseBrackets  = regexp.MustCompile(`[(){}\[\],;:]+`)
	foldDisallowed = regexp.MustCompile(`[^\p{L}\p{N}+#.\-\s]`)
	trailingSpace  = regexp.MustCompile(`[ \t]+\n`)
	blankRun       = regexp.MustCompile(`\n{3,}`)
)

// leading runs never strip '.', '#' or '+' so ".NET", "#" tags and "C++" survive
const (
	leadingPunct  = ",;:!?\"'()[]{}•·*-–—|/\\"
	trailingPunct = ".,;:!?\"'()[]{}•·*-–—|/\\"
)

func nfkcLower(s string) string {
	s = norm.NFKC.String(s)
	s = strings.ToLower(s)
	// lower-casing can reintroduce non-NFKC sequences for a handful of runes
	return norm.NFKC.String(s)
}

func collapse(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	return strings.TrimSpace(wsRun.ReplaceAllString(s, " "))
}

// Normalize returns the canonical comparison form of s.
// Normalize(Normalize(s)) == Normalize(s) for every s.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out := collapse(nfkcLower(s))
	for {
		trimmed := strings.TrimRight(strings.TrimLeft(out, leadingPunct), trailingPunct)
		trimmed = strings.TrimSpace(trimmed)
		if trimmed == out {
			return out
		}
		out = trimmed
	}
}

// Loose is the matching-oriented normalization: like Normalize but bracket and
// list punctuation anywhere in the string is replaced by a space.
func Loose(s string) string {
	if s == "" {
		return ""
	}
	s = nfkcLower(s)
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = looseBrackets.ReplaceAllString(s, " ")
	return collapse(s)
}

// Fold reduces s to letters, digits and the few symbols that distinguish tech
// names (+ # . -). It is used as a de-duplication key.
func Fold(s string) string {
	s = Normalize(s)
	if s == "" {
		return ""
	}
	s = foldDisallowed.ReplaceAllString(s, " ")
	s = collapse(s)
	return strings.TrimSpace(strings.TrimRight(s, ".,;:"))
}

// Block cleans whitespace while keeping line structure: NBSP to space, CRLF to LF,
// trailing blanks removed and runs of 3+ newlines reduced to one blank line.
func Block(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = trailingSpace.ReplaceAllString(s, "\n")
	s = blankRun.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// WordCount counts whitespace-separated words.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
