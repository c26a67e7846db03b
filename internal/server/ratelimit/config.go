package ratelimit

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig reads the rate limiting configuration from RATE_LIMIT_*
// environment variables.
func LoadConfig() *Config {
	if !getEnvBool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(os.Getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// The analysis endpoints may call the model, so they get the strictest limits.
func DefaultEndpointConfigs() []EndpointConfig {
	analyzeLimit := getEnvInt("RATE_LIMIT_ANALYZE_LIMIT", 30)
	analyzeWindow := getEnvDuration("RATE_LIMIT_ANALYZE_WINDOW", time.Minute)
	analyzeBurst := getEnvInt("RATE_LIMIT_ANALYZE_BURST", 5)

	return []EndpointConfig{
		{Path: "/analyze", Method: http.MethodPost, Limit: analyzeLimit, Window: analyzeWindow, Burst: analyzeBurst},
		{Path: "/analyze/upload", Method: http.MethodPost, Limit: analyzeLimit, Window: analyzeWindow, Burst: analyzeBurst},
		{Path: "/analyses", Method: http.MethodGet, Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/analyses/", Method: http.MethodGet, Limit: 300, Window: time.Minute, Burst: 30},
		// Health check is unlimited; everything else uses the default limit.
	}
}

// envValue parses the environment variable key, falling back to def when it
// is unset or malformed.
func envValue[T any](key string, def T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		return def
	}
	return v
}

func getEnvInt(key string, def int) int { return envValue(key, def, strconv.Atoi) }

func getEnvBool(key string, def bool) bool { return envValue(key, def, strconv.ParseBool) }

func getEnvDuration(key string, def time.Duration) time.Duration {
	return envValue(key, def, time.ParseDuration)
}

// parseIPList turns a comma-separated address list into a set.
func parseIPList(list string) map[string]bool {
	set := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			set[ip] = true
		}
	}
	return set
}
