package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jonathan/ats-scorer/internal/analysis"
	"github.com/jonathan/ats-scorer/internal/assessment"
	"github.com/jonathan/ats-scorer/internal/cache"
	"github.com/jonathan/ats-scorer/internal/config"
	"github.com/jonathan/ats-scorer/internal/db"
	"github.com/jonathan/ats-scorer/internal/fetch"
	"github.com/jonathan/ats-scorer/internal/llm"
	"github.com/jonathan/ats-scorer/internal/logging"
	"github.com/jonathan/ats-scorer/internal/matching"
)

// loadConfig reads --config when given, fills defaults, applies the
// environment and validates the result.
func loadConfig() (*config.Config, error) {
	cfg := config.Defaults()
	if configPath != "" {
		fileCfg, err := config.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg.MergeWithDefaults(cfg)
	}
	cfg.ApplyEnv()
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// newLogger writes human-readable logs to w so stdout stays free for reports.
func newLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	return newLoggerFormat(cfg, w, logging.FormatPretty)
}

func newLoggerFormat(cfg *config.Config, w io.Writer, format string) zerolog.Logger {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: format,
		Out:    w,
	})
}

// session holds the optional backends of one command invocation.
type session struct {
	cfg     *config.Config
	logger  zerolog.Logger
	redis   *cache.Redis
	closers []func() error
}

func newSession(cfg *config.Config, logger zerolog.Logger) *session {
	return &session{cfg: cfg, logger: logger}
}

// Close releases every backend opened through the session.
func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			s.logger.Debug().Err(err).Msg("close failed")
		}
	}
	s.closers = nil
}

// connectRedis connects once when REDIS_URL is set. A failed connection
// disables caching instead of failing the command.
func (s *session) connectRedis(ctx context.Context) *cache.Redis {
	if s.redis != nil || s.cfg.RedisURL == "" {
		return s.redis
	}
	r, err := cache.NewRedis(ctx, s.cfg.RedisURL)
	if err != nil {
		s.logger.Warn().Err(err).Msg("redis unavailable, caching disabled")
		return nil
	}
	s.redis = r
	s.closers = append(s.closers, r.Close)
	return r
}

// openStore opens the SQLite history at historyPath, else Postgres at
// databaseURL. It returns nil when neither is set.
func (s *session) openStore(ctx context.Context, historyPath, databaseURL string) (db.Store, error) {
	switch {
	case historyPath != "":
		lite, err := db.OpenSQLite(ctx, historyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open history: %w", err)
		}
		s.closers = append(s.closers, lite.Close)
		return lite, nil
	case databaseURL != "":
		p, err := db.Connect(ctx, databaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s.closers = append(s.closers, p.Close)
		if err := p.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("failed to prepare database schema: %w", err)
		}
		return p, nil
	}
	return nil, nil
}

// analyzerOptions selects the optional analysis tiers.
type analyzerOptions struct {
	NoModel  bool
	Semantic bool
	Store    db.Store
}

// buildAnalyzer wires the analyzer from configuration. Missing API keys or
// unreachable model backends downgrade to the offline analysis.
func (s *session) buildAnalyzer(ctx context.Context, opts analyzerOptions) (*analysis.Analyzer, error) {
	cfg := s.cfg
	rules, err := cfg.LoadRules(s.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}

	aopts := analysis.Options{
		ExtraKeywords:  cfg.ExtraKeywords,
		Rules:          rules,
		FuzzyThreshold: cfg.FuzzyThreshold,
		Semantic: matching.SemanticOptions{
			Threshold:    cfg.Semantic.Threshold,
			MaxSentences: cfg.Semantic.MaxSentences,
		},
		Logger: s.logger,
	}
	if opts.Store != nil {
		aopts.Recorder = opts.Store
	}

	apiKey := strings.TrimSpace(cfg.Model.APIKey)
	modelAllowed := apiKey != "" && !cfg.Model.Disabled && !opts.NoModel

	if modelAllowed {
		client, err := llm.NewClient(ctx, cfg.LLMConfig(), apiKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("model client unavailable, continuing heuristic-only")
		} else {
			s.closers = append(s.closers, client.Close)
			aopts.Assessor = assessment.NewLLMAssessor(client)
		}
	}

	if modelAllowed && (opts.Semantic || cfg.Semantic.Enabled) {
		embedder, err := llm.NewGeminiEmbedder(ctx, cfg.LLMConfig(), apiKey)
		if err != nil {
			s.logger.Warn().Err(err).Msg("embedder unavailable, semantic matching disabled")
		} else {
			s.closers = append(s.closers, embedder.Close)
			aopts.Embedder = embedder
			if r := s.connectRedis(ctx); r != nil {
				aopts.Embedder = cache.NewEmbeddingCache(embedder, r, embedder.Model(), cache.DefaultEmbeddingTTL, s.logger)
			}
		}
	}

	return analysis.New(aopts), nil
}

// readJobDescription returns the JD text from a file or a URL. URL fetches go
// through the page cache when Redis is configured.
func (s *session) readJobDescription(ctx context.Context, path, url string, useBrowser bool) (string, error) {
	switch {
	case path != "" && url != "":
		return "", fmt.Errorf("--jd and --jd-url are mutually exclusive; provide only one")
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read job description: %w", err)
		}
		return string(data), nil
	case url != "":
		opts := fetch.DefaultOptions()
		opts.UseBrowser = useBrowser || s.cfg.UseBrowser
		opts.Logger = s.logger

		var pages fetch.PageCache
		if r := s.connectRedis(ctx); r != nil {
			pages = cache.NewPageCache(r, cache.DefaultPageTTL)
		}
		result, err := fetch.NewCachedFetcher(pages, opts).Fetch(ctx, url)
		if err != nil {
			return "", fmt.Errorf("failed to fetch job description: %w", err)
		}
		s.logger.Debug().Str("url", url).Bool("from_cache", result.FromCache).Msg("job description fetched")
		return result.Text, nil
	}
	return "", fmt.Errorf("either --jd or --jd-url must be provided")
}
