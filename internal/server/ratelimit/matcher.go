package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for exempt endpoints.
var unlimited = EndpointConfig{}

// MatchEndpoint returns the configuration for a request, or nil when the
// default limit applies. An exact path match wins over a prefix entry, whose
// path ends in "/" (e.g. "/analyses/" matches "/analyses/{id}"). GET /health
// is never limited.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == http.MethodGet {
		exempt := unlimited
		return &exempt
	}

	var prefix *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if c.Method != method {
			continue
		}
		if c.Path == path {
			return c
		}
		if prefix == nil && strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			prefix = c
		}
	}
	return prefix
}
