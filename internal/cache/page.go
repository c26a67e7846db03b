package cache

import (
	"context"
	"time"

	"github.com/jonathan/ats-scorer/internal/fetch"
)

// DefaultPageTTL is how long fetched job description text is kept.
const DefaultPageTTL = 7 * 24 * time.Hour

var _ fetch.PageCache = (*PageCache)(nil)

// PageCache stores extracted job description text by URL.
type PageCache struct {
	kv  KV
	ttl time.Duration
}

// NewPageCache creates a PageCache. A non-positive ttl selects DefaultPageTTL.
func NewPageCache(kv KV, ttl time.Duration) *PageCache {
	if ttl <= 0 {
		ttl = DefaultPageTTL
	}
	return &PageCache{kv: kv, ttl: ttl}
}

// GetPage implements fetch.PageCache.
func (p *PageCache) GetPage(ctx context.Context, url string) (string, bool, error) {
	raw, ok, err := p.kv.Get(ctx, hashKey(pagePrefix, url))
	if err != nil || !ok {
		return "", false, err
	}
	return string(raw), true, nil
}

// SetPage implements fetch.PageCache.
func (p *PageCache) SetPage(ctx context.Context, url, text string) error {
	return p.kv.Set(ctx, hashKey(pagePrefix, url), []byte(text), p.ttl)
}
