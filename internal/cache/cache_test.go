package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
	failSet bool
}

func newMemKV() *memKV {
	return &memKV{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

var errDown = errors.New("connection refused")

func (m *memKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, false, errDown
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) MGet(_ context.Context, keys []string) ([][]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errDown
	}
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.data[k]
	}
	return out, nil
}

func (m *memKV) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet {
		return errDown
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memKV) SetMany(ctx context.Context, items map[string][]byte, ttl time.Duration) error {
	for k, v := range items {
		if err := m.Set(ctx, k, v, ttl); err != nil {
			return err
		}
	}
	return nil
}

type countingEmbedder struct {
	calls   int
	texts   []string
	failErr error
}

func (e *countingEmbedder) vector(text string) []float32 {
	return []float32{float32(len(text)), 0.5, -1}
}

func (e *countingEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	e.calls++
	e.texts = append(e.texts, text)
	if e.failErr != nil {
		return nil, e.failErr
	}
	return e.vector(text), nil
}

func (e *countingEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	e.texts = append(e.texts, texts...)
	if e.failErr != nil {
		return nil, e.failErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = e.vector(t)
	}
	return out, nil
}

func TestEmbeddingKey(t *testing.T) {
	a := EmbeddingKey("text-embedding-004", "sql")
	assert.Equal(t, a, EmbeddingKey("text-embedding-004", "sql"))
	assert.NotEqual(t, a, EmbeddingKey("other-model", "sql"))
	assert.NotEqual(t, EmbeddingKey("ab", "c"), EmbeddingKey("a", "bc"))
	assert.Len(t, a, len(embeddingPrefix)+64)
}

func TestVectorRoundTrip(t *testing.T) {
	v := []float32{0, 1.5, -3.25, 1e-7}
	got, err := decodeVector(encodeVector(v))
	require.NoError(t, err)
	assert.Equal(t, v, got)

	_, err = decodeVector([]byte{1, 2, 3})
	assert.Error(t, err)
}

func TestEmbeddingCache_Embed(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	inner := &countingEmbedder{}
	c := NewEmbeddingCache(inner, kv, "m", 0, zerolog.Nop())

	first, err := c.Embed(ctx, "power bi")
	require.NoError(t, err)
	second, err := c.Embed(ctx, "power bi")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, DefaultEmbeddingTTL, kv.ttls[EmbeddingKey("m", "power bi")])
}

func TestEmbeddingCache_EmbedBatchOnlyMisses(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	inner := &countingEmbedder{}
	c := NewEmbeddingCache(inner, kv, "m", time.Hour, zerolog.Nop())

	_, err := c.Embed(ctx, "sql")
	require.NoError(t, err)
	inner.texts = nil

	vecs, err := c.EmbedBatch(ctx, []string{"sql", "tableau", "dbt"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []string{"tableau", "dbt"}, inner.texts)
	assert.Equal(t, []float32{3, 0.5, -1}, vecs[0])
	assert.Equal(t, []float32{7, 0.5, -1}, vecs[1])

	inner.texts = nil
	_, err = c.EmbedBatch(ctx, []string{"dbt", "sql"})
	require.NoError(t, err)
	assert.Empty(t, inner.texts)

	empty, err := c.EmbedBatch(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEmbeddingCache_FailsOpen(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	kv.failGet = true
	kv.failSet = true
	inner := &countingEmbedder{}
	c := NewEmbeddingCache(inner, kv, "m", 0, zerolog.Nop())

	vec, err := c.Embed(ctx, "sql")
	require.NoError(t, err)
	assert.Equal(t, []float32{3, 0.5, -1}, vec)

	vecs, err := c.EmbedBatch(ctx, []string{"a", "bb"})
	require.NoError(t, err)
	assert.Len(t, vecs, 2)
}

func TestEmbeddingCache_InnerErrorPropagates(t *testing.T) {
	inner := &countingEmbedder{failErr: errors.New("quota exceeded")}
	c := NewEmbeddingCache(inner, newMemKV(), "m", 0, zerolog.Nop())

	_, err := c.Embed(context.Background(), "sql")
	assert.ErrorContains(t, err, "quota exceeded")
	_, err = c.EmbedBatch(context.Background(), []string{"sql"})
	assert.ErrorContains(t, err, "quota exceeded")
}

func TestPageCache(t *testing.T) {
	ctx := context.Background()
	kv := newMemKV()
	pc := NewPageCache(kv, 0)

	_, ok, err := pc.GetPage(ctx, "https://example.com/job/1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, pc.SetPage(ctx, "https://example.com/job/1", "Senior Data Analyst"))
	text, ok, err := pc.GetPage(ctx, "https://example.com/job/1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Senior Data Analyst", text)
	assert.Equal(t, DefaultPageTTL, kv.ttls[hashKey(pagePrefix, "https://example.com/job/1")])

	kv.failGet = true
	_, ok, err = pc.GetPage(ctx, "https://example.com/job/1")
	assert.Error(t, err)
	assert.False(t, ok)
}

func TestNewRedis_Errors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err := NewRedis(ctx, "")
	assert.ErrorContains(t, err, "redis URL is required")

	_, err = NewRedis(ctx, "http://not-redis")
	assert.ErrorContains(t, err, "invalid redis URL")

	_, err = NewRedis(ctx, "redis://127.0.0.1:1/0")
	assert.ErrorContains(t, err, "failed to connect to redis")
}
