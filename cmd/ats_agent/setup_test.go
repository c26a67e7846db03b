package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-scorer/internal/analysis"
	"github.com/jonathan/ats-scorer/internal/config"
	"github.com/jonathan/ats-scorer/internal/types"
)

// offlineEnv clears every variable that would reach a network backend.
func offlineEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		config.EnvGeminiAPIKey, config.EnvDatabaseURL, config.EnvRedisURL,
		config.EnvExtraKeywords, config.EnvRulesJSON, config.EnvSemanticMatch, config.EnvLogLevel,
	} {
		t.Setenv(key, "")
	}
}

func setFlag[T any](t *testing.T, p *T, v T) {
	t.Helper()
	old := *p
	*p = v
	t.Cleanup(func() { *p = old })
}

func readFixture(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return string(data)
}

func TestLoadConfig_Defaults(t *testing.T) {
	offlineEnv(t)
	setFlag(t, &configPath, "")
	setFlag(t, &logLevel, "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, config.Defaults().FuzzyThreshold, cfg.FuzzyThreshold)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.Model.APIKey)
}

func TestLoadConfig_FileAndOverrides(t *testing.T) {
	offlineEnv(t)
	t.Setenv(config.EnvExtraKeywords, `["looker"]`)

	path := filepath.Join(t.TempDir(), "ats.yaml")
	require.NoError(t, os.WriteFile(path, []byte("extra_keywords: [dbt]\nserver:\n  port: 9090\n"), 0o644))
	setFlag(t, &configPath, path)
	setFlag(t, &logLevel, "debug")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"dbt", "looker"}, cfg.ExtraKeywords)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, config.Defaults().Semantic.Threshold, cfg.Semantic.Threshold)
}

func TestLoadConfig_Errors(t *testing.T) {
	offlineEnv(t)

	tests := []struct {
		name    string
		content string
		level   string
	}{
		{name: "missing file"},
		{name: "invalid level", content: "{}", level: "loud"},
		{name: "invalid threshold", content: `{"fuzzy_threshold": 3}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ats.json")
			if tt.content != "" {
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}
			setFlag(t, &configPath, path)
			setFlag(t, &logLevel, tt.level)

			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

func TestReadJobDescription(t *testing.T) {
	cfg := config.Defaults()
	sess := newSession(&cfg, zerolog.Nop())
	defer sess.Close()
	ctx := context.Background()

	jdPath := filepath.Join("testdata", "jd.txt")

	text, err := sess.readJobDescription(ctx, jdPath, "", false)
	require.NoError(t, err)
	assert.Contains(t, text, "Power BI")

	_, err = sess.readJobDescription(ctx, jdPath, "https://example.com/job", false)
	assert.ErrorContains(t, err, "mutually exclusive")

	_, err = sess.readJobDescription(ctx, "", "", false)
	assert.ErrorContains(t, err, "either --jd or --jd-url")

	_, err = sess.readJobDescription(ctx, filepath.Join(t.TempDir(), "missing.txt"), "", false)
	assert.ErrorContains(t, err, "failed to read job description")
}

func TestOpenStore(t *testing.T) {
	cfg := config.Defaults()
	sess := newSession(&cfg, zerolog.Nop())
	defer sess.Close()
	ctx := context.Background()

	store, err := sess.openStore(ctx, "", "")
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = sess.openStore(ctx, filepath.Join(t.TempDir(), "nested", "history.db"), "postgres://ignored")
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.Len(t, sess.closers, 1)
}

func TestBuildAnalyzer_OfflineRecordsHistory(t *testing.T) {
	cfg := config.Defaults()
	cfg.Model.APIKey = "test-key"
	sess := newSession(&cfg, zerolog.Nop())
	defer sess.Close()
	ctx := context.Background()

	store, err := sess.openStore(ctx, filepath.Join(t.TempDir(), "history.db"), "")
	require.NoError(t, err)

	analyzer, err := sess.buildAnalyzer(ctx, analyzerOptions{NoModel: true, Semantic: true, Store: store})
	require.NoError(t, err)

	report, err := analyzer.Analyze(ctx, analysis.Request{
		ResumeText:     readFixture(t, "resume.txt"),
		JobDescription: readFixture(t, "jd.txt"),
		JobTitle:       "Senior Data Analyst",
	})
	require.NoError(t, err)
	assert.False(t, report.Meta.ModelUsed)
	assert.False(t, report.Meta.SemanticUsed)
	assert.NotEmpty(t, report.Keywords.Matched)

	summaries, err := store.ListAnalyses(ctx, 10)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, report.Scores.ATS, summaries[0].ATS)
}

func TestBuildAnalyzer_BadRulesFile(t *testing.T) {
	cfg := config.Defaults()
	cfg.RulesFile = filepath.Join(t.TempDir(), "missing.json")
	sess := newSession(&cfg, zerolog.Nop())
	defer sess.Close()

	_, err := sess.buildAnalyzer(context.Background(), analyzerOptions{NoModel: true})
	assert.ErrorContains(t, err, "failed to load rules")
}

func TestConnectRedis_Unavailable(t *testing.T) {
	cfg := config.Defaults()
	cfg.RedisURL = "redis://127.0.0.1:1/0"
	sess := newSession(&cfg, zerolog.Nop())
	defer sess.Close()

	assert.Nil(t, sess.connectRedis(context.Background()))
}

func TestExtractExcerpts(t *testing.T) {
	excerpts := extractExcerpts(readFixture(t, "resume.txt"))
	assert.Contains(t, excerpts.Skills, "Power BI")
	assert.Contains(t, excerpts.Education, "Statistics")
	assert.Contains(t, excerpts.Summary, "Data analyst")
}

func TestWriteReport(t *testing.T) {
	report := &types.Report{JobTitle: "BI Developer", Scores: types.ReportScores{ATS: 71}}

	var buf bytes.Buffer
	require.NoError(t, writeReportJSON(&buf, report))
	var decoded types.Report
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 71, decoded.Scores.ATS)

	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, writeReportFile(path, report))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"BI Developer"`)

	assert.Error(t, writeReportFile(filepath.Join(t.TempDir(), "missing", "report.json"), report))
}
