package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig limits one method on one path. A Path ending in "/" also
// covers every path below it. Burst defaults to Limit.
type EndpointConfig struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

const (
	perMinuteEmbedding = 60
	perMinuteWrites    = 120
	perMinuteText      = 600
)

// LoadConfig reads the RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	return ConfigFromEnv(os.Getenv)
}

// ConfigFromEnv builds a Config from getenv. Unparseable values keep their defaults.
func ConfigFromEnv(getenv func(string) string) *Config {
	env := envReader(getenv)
	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       clientSet(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       clientSet(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs limits routes that call the embedding provider hardest.
// /samples/{id}/features is the only POST under /samples/.
func DefaultEndpointConfigs() []EndpointConfig {
	perMinute := func(path, method string, limit, burst int) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Limit: limit, Window: time.Minute, Burst: burst}
	}

	return []EndpointConfig{
		perMinute("/features", "POST", perMinuteEmbedding, 10),
		perMinute("/samples/", "POST", perMinuteEmbedding, 10),
		perMinute("/samples", "POST", perMinuteWrites, 20),
		perMinute("/samples/", "DELETE", perMinuteWrites, 20),
		perMinute("/normalize", "POST", perMinuteText, 50),
		perMinute("/keywords", "POST", perMinuteText, 50),
		perMinute("/experience", "POST", perMinuteText, 50),
	}
}

type envReader func(string) string

func (env envReader) boolean(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(env(key)); err == nil {
		return b
	}
	return fallback
}

func (env envReader) integer(key string, fallback int) int {
	if n, err := strconv.Atoi(env(key)); err == nil {
		return n
	}
	return fallback
}

func (env envReader) duration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(env(key)); err == nil {
		return d
	}
	return fallback
}

// clientSet parses a comma-separated list of client IDs.
func clientSet(list string) map[string]bool {
	set := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			set[id] = true
		}
	}
	return set
}
