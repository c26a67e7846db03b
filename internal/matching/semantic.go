package matching

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultSemanticThreshold is the cosine similarity that earns partial credit.
	DefaultSemanticThreshold = 0.78
	// DefaultMaxSentences bounds how many résumé sentences are embedded.
	DefaultMaxSentences = 200

	maxSentenceChars = 300
	cosineEpsilon    = 1e-9
)

// Embedder turns text into vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// SemanticOptions configures the embedding tier.
type SemanticOptions struct {
	Threshold    float64
	MaxSentences int
	Logger       zerolog.Logger
}

// Semantic decorates a Matcher with an embedding tier. Tokens the inner
// matcher reports missing may be upgraded to StatusPartial; no other result
// is changed. Embedding failures are logged and treated as missing.
type Semantic struct {
	inner        Matcher
	embedder     Embedder
	threshold    float64
	maxSentences int
	logger       zerolog.Logger
}

// NewSemantic wraps inner. A nil embedder yields inner unchanged.
func NewSemantic(inner Matcher, embedder Embedder, opts SemanticOptions) Matcher {
	if embedder == nil {
		return inner
	}
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultSemanticThreshold
	}
	if opts.MaxSentences <= 0 {
		opts.MaxSentences = DefaultMaxSentences
	}
	return &Semantic{
		inner:        inner,
		embedder:     embedder,
		threshold:    opts.Threshold,
		maxSentences: opts.MaxSentences,
		logger:       opts.Logger,
	}
}

// Match implements Matcher.
func (s *Semantic) Match(ctx context.Context, resume *Resume, token string) Status {
	status := s.inner.Match(ctx, resume, token)
	if status != StatusMissing {
		return status
	}
	t := strings.TrimSpace(token)
	if t == "" {
		return status
	}

	hit, err := s.semanticHit(ctx, resume, t)
	if err != nil {
		s.logger.Warn().Err(err).Str("token", t).Msg("semantic match unavailable, treating token as missing")
		return StatusMissing
	}
	if hit {
		return StatusPartial
	}
	return StatusMissing
}

func (s *Semantic) semanticHit(ctx context.Context, resume *Resume, token string) (bool, error) {
	var tokenVec []float32
	var g errgroup.Group
	g.Go(func() error {
		vec, err := s.embedder.Embed(ctx, token)
		if err != nil {
			return fmt.Errorf("embed token: %w", err)
		}
		tokenVec = vec
		return nil
	})
	g.Go(func() error {
		return s.sentenceVectors(ctx, resume)
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	for _, vec := range resume.vectors {
		if Cosine(tokenVec, vec) >= s.threshold {
			return true, nil
		}
	}
	return false, nil
}

// sentenceVectors embeds the résumé sentences once and records the outcome
// on the Resume; later callers share the result, including a failure.
func (s *Semantic) sentenceVectors(ctx context.Context, resume *Resume) error {
	resume.vectorsOnce.Do(func() {
		resume.sentences = Sentences(resume.Text, s.maxSentences)
		if len(resume.sentences) == 0 {
			return
		}
		vecs, err := s.embedder.EmbedBatch(ctx, resume.sentences)
		if err != nil {
			resume.vectorsErr = fmt.Errorf("embed sentences: %w", err)
			return
		}
		if len(vecs) != len(resume.sentences) {
			resume.vectorsErr = fmt.Errorf("embed sentences: got %d vectors for %d sentences", len(vecs), len(resume.sentences))
			return
		}
		resume.vectors = vecs
	})
	return resume.vectorsErr
}

// Sentences splits text after '.', '!' or '?' followed by whitespace and
// keeps up to limit sentences shorter than 300 characters.
func Sentences(text string, limit int) []string {
	var out []string
	keep := func(s string) {
		s = strings.TrimSpace(s)
		if s != "" && utf8.RuneCountInString(s) < maxSentenceChars && len(out) < limit {
			out = append(out, s)
		}
	}

	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && unicode.IsSpace(runes[i+1]) {
			keep(string(runes[start : i+1]))
			j := i + 1
			for j < len(runes) && unicode.IsSpace(runes[j]) {
				j++
			}
			start = j
			i = j - 1
		}
	}
	if start < len(runes) {
		keep(string(runes[start:]))
	}
	return out
}

// Cosine returns the cosine similarity of a and b. Vectors of different
// length are compared over their common prefix.
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	for _, v := range a {
		na += float64(v) * float64(v)
	}
	for _, v := range b {
		nb += float64(v) * float64(v)
	}
	return dot / (math.Sqrt(na)*math.Sqrt(nb) + cosineEpsilon)
}
