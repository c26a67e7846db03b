// Package config provides configuration loading and validation for the CLI
// and the HTTP server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/ats-scorer/internal/coaching"
	"github.com/jonathan/ats-scorer/internal/llm"
	"github.com/jonathan/ats-scorer/internal/matching"
)

// Environment variables read by ApplyEnv.
const (
	EnvExtraKeywords  = "JD_KEYWORDS_EXTRA"
	EnvRulesJSON      = "RESUME_RULES_JSON"
	EnvSemanticMatch  = "ENABLE_SEMANTIC_MATCH"
	EnvGeminiAPIKey   = "GEMINI_API_KEY"
	EnvDatabaseURL    = "DATABASE_URL"
	EnvRedisURL       = "REDIS_URL"
	EnvLogLevel       = "LOG_LEVEL"
	DefaultServerPort = 8080
)

// SemanticConfig controls the embedding match tier.
type SemanticConfig struct {
	Enabled      bool    `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Threshold    float64 `json:"threshold,omitempty" yaml:"threshold,omitempty" validate:"omitempty,gt=0,lte=1"`
	MaxSentences int     `json:"max_sentences,omitempty" yaml:"max_sentences,omitempty" validate:"omitempty,min=1"`
}

// ModelConfig selects the assessment model.
type ModelConfig struct {
	Provider       string            `json:"provider,omitempty" yaml:"provider,omitempty" validate:"omitempty,oneof=gemini"`
	Tiers          map[string]string `json:"tiers,omitempty" yaml:"tiers,omitempty"`
	EmbeddingModel string            `json:"embedding_model,omitempty" yaml:"embedding_model,omitempty"`
	APIKey         string            `json:"api_key,omitempty" yaml:"api_key,omitempty"` // Gemini API key
	Disabled       bool              `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port int `json:"port,omitempty" yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
}

// Config represents the configuration loaded from a JSON or YAML file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Dictionary and coaching
	ExtraKeywords []string            `json:"extra_keywords,omitempty" yaml:"extra_keywords,omitempty"`
	RulesFile     string              `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`
	Rules         []coaching.RuleSpec `json:"rules,omitempty" yaml:"rules,omitempty"`

	// Matching
	Semantic       SemanticConfig `json:"semantic,omitempty" yaml:"semantic,omitempty"`
	FuzzyThreshold float64        `json:"fuzzy_threshold,omitempty" yaml:"fuzzy_threshold,omitempty" validate:"omitempty,gt=0,lte=1"`

	Model ModelConfig `json:"model,omitempty" yaml:"model,omitempty"`

	// Storage
	DatabaseURL string `json:"database_url,omitempty" yaml:"database_url,omitempty"` // PostgreSQL connection URL
	HistoryPath string `json:"history_path,omitempty" yaml:"history_path,omitempty"` // SQLite history file
	RedisURL    string `json:"redis_url,omitempty" yaml:"redis_url,omitempty"`       // Embedding cache

	Server     ServerConfig `json:"server,omitempty" yaml:"server,omitempty"`
	LogLevel   string       `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
	UseBrowser bool         `json:"use_browser,omitempty" yaml:"use_browser,omitempty"` // Use headless browser for JS-rendered job pages
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Semantic: SemanticConfig{
			Threshold:    matching.DefaultSemanticThreshold,
			MaxSentences: matching.DefaultMaxSentences,
		},
		FuzzyThreshold: matching.DefaultFuzzyThreshold,
		Model: ModelConfig{
			Provider:       string(llm.ProviderGemini),
			EmbeddingModel: llm.DefaultEmbeddingModel,
		},
		Server:   ServerConfig{Port: DefaultServerPort},
		LogLevel: "info",
	}
}

// LoadConfig loads configuration from a JSON or YAML file, chosen by extension.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	}

	return &cfg, nil
}

// ApplyEnv overrides fields from the environment. Malformed JSON in
// JD_KEYWORDS_EXTRA or RESUME_RULES_JSON is ignored.
func (c *Config) ApplyEnv() {
	if raw := strings.TrimSpace(os.Getenv(EnvExtraKeywords)); raw != "" {
		c.ExtraKeywords = append(c.ExtraKeywords, parseExtraKeywords(raw)...)
	}
	if raw := strings.TrimSpace(os.Getenv(EnvRulesJSON)); raw != "" {
		if specs, err := coaching.ParseRulesJSON([]byte(raw)); err == nil {
			c.Rules = append(c.Rules, specs...)
		}
	}
	if v, ok := os.LookupEnv(EnvSemanticMatch); ok {
		c.Semantic.Enabled = isTruthy(v)
	}
	if v := os.Getenv(EnvGeminiAPIKey); v != "" {
		c.Model.APIKey = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}

// parseExtraKeywords decodes a JSON array of strings, dropping blanks. Any
// other shape yields nil.
func parseExtraKeywords(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// Validate validates the Config struct
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	if c.RulesFile != "" {
		if _, err := os.Stat(c.RulesFile); os.IsNotExist(err) {
			return fmt.Errorf("config error: rules file not found: %s", c.RulesFile)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.RulesFile == "" {
		result.RulesFile = defaults.RulesFile
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.HistoryPath == "" {
		result.HistoryPath = defaults.HistoryPath
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.LogLevel == "" {
		result.LogLevel = defaults.LogLevel
	}
	if result.Model.Provider == "" {
		result.Model.Provider = defaults.Model.Provider
	}
	if result.Model.EmbeddingModel == "" {
		result.Model.EmbeddingModel = defaults.Model.EmbeddingModel
	}
	if result.Model.APIKey == "" {
		result.Model.APIKey = defaults.Model.APIKey
	}
	if len(result.Model.Tiers) == 0 {
		result.Model.Tiers = defaults.Model.Tiers
	}

	// Numeric fields: use default if zero
	if result.FuzzyThreshold == 0 {
		result.FuzzyThreshold = defaults.FuzzyThreshold
	}
	if result.Semantic.Threshold == 0 {
		result.Semantic.Threshold = defaults.Semantic.Threshold
	}
	if result.Semantic.MaxSentences == 0 {
		result.Semantic.MaxSentences = defaults.Semantic.MaxSentences
	}
	if result.Server.Port == 0 {
		result.Server.Port = defaults.Server.Port
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

// LLMConfig builds the model client configuration.
func (c *Config) LLMConfig() *llm.Config {
	cfg := llm.DefaultConfig().WithTiers(c.Model.Tiers)
	if c.Model.EmbeddingModel != "" {
		cfg.EmbeddingModel = c.Model.EmbeddingModel
	}
	return cfg
}

// LoadRules returns the default coaching rules followed by the rules file and
// inline rules. Invalid rules are skipped with a warning; an unreadable rules
// file is an error.
func (c *Config) LoadRules(logger zerolog.Logger) ([]coaching.Rule, error) {
	rules := coaching.DefaultRules()
	specs := append([]coaching.RuleSpec{}, c.Rules...)
	if c.RulesFile != "" {
		fromFile, err := coaching.LoadRulesFile(c.RulesFile)
		if err != nil {
			return nil, err
		}
		specs = append(fromFile, specs...)
	}
	return append(rules, coaching.CompileSpecs(specs, logger)...), nil
}
