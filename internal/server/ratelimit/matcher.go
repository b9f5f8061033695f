package ratelimit

import (
	"net/http"
	"strings"
)

// unlimited is returned for health probes and metric scrapes.
var unlimited = EndpointConfig{Limit: 0}

// MatchEndpoint picks the configuration for a request. An exact path wins
// over a "/"-suffixed prefix. It returns nil when nothing applies, in which
// case the default limit is used.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if method == http.MethodGet && (path == "/health" || path == "/metrics") {
		ec := unlimited
		return &ec
	}

	var prefix *EndpointConfig
	for i := range configs {
		ec := &configs[i]
		if ec.Method != method {
			continue
		}
		if ec.Path == path {
			return ec
		}
		if prefix == nil && strings.HasSuffix(ec.Path, "/") && strings.HasPrefix(path, ec.Path) {
			prefix = ec
		}
	}
	return prefix
}
