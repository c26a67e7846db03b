package fetch

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// PageCache stores extracted job description text by URL.
type PageCache interface {
	GetPage(ctx context.Context, url string) (string, bool, error)
	SetPage(ctx context.Context, url, text string) error
}

// CachedFetcher wraps JobDescription with a page cache. Cache errors are
// logged and never fail a fetch.
type CachedFetcher struct {
	cache   PageCache
	options *Options
	logger  zerolog.Logger
}

// CachedResult extends Result with cache metadata.
type CachedResult struct {
	*Result
	FromCache bool // Whether this result came from cache
}

// NewCachedFetcher creates a new cached fetcher. A nil cache fetches every time.
func NewCachedFetcher(cache PageCache, options *Options) *CachedFetcher {
	if options == nil {
		options = DefaultOptions()
	}
	return &CachedFetcher{cache: cache, options: options, logger: options.Logger}
}

// Fetch returns the cached text for urlStr or fetches and caches it.
func (f *CachedFetcher) Fetch(ctx context.Context, urlStr string) (*CachedResult, error) {
	if f.cache != nil {
		text, ok, err := f.cache.GetPage(ctx, urlStr)
		switch {
		case err != nil:
			f.logger.Warn().Err(err).Str("url", urlStr).Msg("page cache read failed")
		case ok && strings.TrimSpace(text) != "":
			return &CachedResult{
				Result:    &Result{URL: urlStr, Text: text, Platform: DetectPlatform(urlStr)},
				FromCache: true,
			}, nil
		}
	}

	result, err := JobDescription(ctx, urlStr, f.options)
	if err != nil {
		return nil, err
	}

	if f.cache != nil && strings.TrimSpace(result.Text) != "" {
		if err := f.cache.SetPage(ctx, urlStr, result.Text); err != nil {
			f.logger.Warn().Err(err).Str("url", urlStr).Msg("page cache write failed")
		}
	}

	return &CachedResult{Result: result}, nil
}
