package cache

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/jonathan/ats-scorer/internal/matching"
)

// DefaultEmbeddingTTL is how long a cached vector lives.
const DefaultEmbeddingTTL = 30 * 24 * time.Hour

var _ matching.Embedder = (*EmbeddingCache)(nil)

// EmbeddingCache decorates an Embedder with a KV cache keyed by
// SHA-256(model, text).
type EmbeddingCache struct {
	inner  matching.Embedder
	kv     KV
	model  string
	ttl    time.Duration
	logger zerolog.Logger
}

// NewEmbeddingCache wraps inner. A non-positive ttl selects DefaultEmbeddingTTL.
func NewEmbeddingCache(inner matching.Embedder, kv KV, model string, ttl time.Duration, logger zerolog.Logger) *EmbeddingCache {
	if ttl <= 0 {
		ttl = DefaultEmbeddingTTL
	}
	return &EmbeddingCache{inner: inner, kv: kv, model: model, ttl: ttl, logger: logger}
}

// EmbeddingKey returns the cache key for text under model.
func EmbeddingKey(model, text string) string {
	return hashKey(embeddingPrefix, model, text)
}

// Embed implements matching.Embedder.
func (c *EmbeddingCache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := EmbeddingKey(c.model, text)
	raw, ok, err := c.kv.Get(ctx, key)
	if err != nil {
		c.logger.Warn().Err(err).Msg("embedding cache read failed")
	} else if ok {
		if vec, decErr := decodeVector(raw); decErr == nil {
			return vec, nil
		}
	}

	vec, err := c.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.kv.Set(ctx, key, encodeVector(vec), c.ttl); err != nil {
		c.logger.Warn().Err(err).Msg("embedding cache write failed")
	}
	return vec, nil
}

// EmbedBatch implements matching.Embedder. Only cache misses reach the inner
// embedder, in one batch.
func (c *EmbeddingCache) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	keys := make([]string, len(texts))
	for i, t := range texts {
		keys[i] = EmbeddingKey(c.model, t)
	}

	out := make([][]float32, len(texts))
	cached, err := c.kv.MGet(ctx, keys)
	if err != nil {
		c.logger.Warn().Err(err).Msg("embedding cache read failed")
		cached = nil
	}
	var missIdx []int
	for i := range texts {
		if i < len(cached) && cached[i] != nil {
			if vec, decErr := decodeVector(cached[i]); decErr == nil {
				out[i] = vec
				continue
			}
		}
		missIdx = append(missIdx, i)
	}
	if len(missIdx) == 0 {
		return out, nil
	}

	missTexts := make([]string, len(missIdx))
	for j, i := range missIdx {
		missTexts[j] = texts[i]
	}
	vecs, err := c.inner.EmbedBatch(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missTexts) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d texts", len(vecs), len(missTexts))
	}

	items := make(map[string][]byte, len(missIdx))
	for j, i := range missIdx {
		out[i] = vecs[j]
		items[keys[i]] = encodeVector(vecs[j])
	}
	if err := c.kv.SetMany(ctx, items, c.ttl); err != nil {
		c.logger.Warn().Err(err).Msg("embedding cache write failed")
	}
	return out, nil
}

// encodeVector packs v as little-endian float32s.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("corrupt vector: %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
