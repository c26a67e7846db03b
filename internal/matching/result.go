package matching

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/ats-scorer/internal/keywords"
	"github.com/jonathan/ats-scorer/internal/types"
)

// maxConcurrentTokens bounds in-flight token matches, which matters once the
// semantic tier makes network calls.
const maxConcurrentTokens = 8

// MatchDictionary matches every dictionary token against the résumé and
// partitions the tokens, in dictionary order, into matched, partial and
// missing. The synthetic programming-language token is satisfied by any of
// languages and never reaches m.
func MatchDictionary(ctx context.Context, m Matcher, resume *Resume, dict keywords.Dictionary, languages []string) types.KeywordMatch {
	texts := dict.Texts()
	statuses := make([]Status, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTokens)
	for i, tok := range texts {
		g.Go(func() error {
			if tok == keywords.ProgrammingLanguageToken {
				if ContainsAnyLanguage(resume, languages) {
					statuses[i] = StatusMatched
				} else {
					statuses[i] = StatusMissing
				}
				return nil
			}
			statuses[i] = m.Match(gctx, resume, tok)
			return nil
		})
	}
	_ = g.Wait()

	result := types.KeywordMatch{
		Matched:     []string{},
		Partial:     []string{},
		Missing:     []string{},
		PresentInJD: texts,
	}
	if result.PresentInJD == nil {
		result.PresentInJD = []string{}
	}
	for i, tok := range texts {
		switch statuses[i] {
		case StatusMatched:
			result.Matched = append(result.Matched, tok)
		case StatusPartial:
			result.Partial = append(result.Partial, tok)
		default:
			result.Missing = append(result.Missing, tok)
		}
	}
	result.Pct = Percent(len(result.Matched), len(result.Partial), len(texts))
	return result
}

// Percent scores a match with partial hits at half weight. An empty
// dictionary scores 0.
func Percent(matched, partial, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * (float64(matched) + 0.5*float64(partial)) / float64(total)))
}
