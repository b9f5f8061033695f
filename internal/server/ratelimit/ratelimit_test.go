package ratelimit

import (
	"sync"
	"testing"
	"time"
)

func testConfig(limit int, window time.Duration) *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  limit,
		DefaultWindow: window,
	}
}

func TestLimiter_Allow(t *testing.T) {
	limiter := NewLimiter(testConfig(10, time.Hour))
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		allowed, info := limiter.Allow("client1", "/keywords", "POST")
		if !allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
		if info.Limit != 10 {
			t.Errorf("expected limit 10, got %d", info.Limit)
		}
		if info.Remaining != 9-i {
			t.Errorf("request %d: expected remaining %d, got %d", i+1, 9-i, info.Remaining)
		}
	}

	allowed, info := limiter.Allow("client1", "/keywords", "POST")
	if allowed {
		t.Fatal("11th request should be denied")
	}
	if info.Remaining != 0 {
		t.Errorf("expected remaining 0, got %d", info.Remaining)
	}
	if info.RetryAfter <= 0 {
		t.Errorf("expected positive retry-after, got %v", info.RetryAfter)
	}
	if !info.ResetTime.After(time.Now()) {
		t.Error("reset time should be in the future")
	}

	// Other clients and endpoints have their own buckets.
	if allowed, _ := limiter.Allow("client2", "/keywords", "POST"); !allowed {
		t.Error("client2 should have its own bucket")
	}
	if allowed, _ := limiter.Allow("client1", "/normalize", "POST"); !allowed {
		t.Error("/normalize should have its own bucket")
	}
}

func TestLimiter_Refill(t *testing.T) {
	// 10 tokens per 100ms
	limiter := NewLimiter(testConfig(10, 100*time.Millisecond))
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		limiter.Allow("client1", "/keywords", "POST")
	}
	if allowed, _ := limiter.Allow("client1", "/keywords", "POST"); allowed {
		t.Fatal("bucket should be empty")
	}

	time.Sleep(50 * time.Millisecond)

	if allowed, _ := limiter.Allow("client1", "/keywords", "POST"); !allowed {
		t.Error("bucket should have refilled")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	config := testConfig(1, time.Hour)
	config.Whitelist = map[string]bool{"10.0.0.1": true}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 5; i++ {
		allowed, info := limiter.Allow("10.0.0.1", "/features", "POST")
		if !allowed || !info.Allowed {
			t.Fatalf("whitelisted request %d should be allowed", i+1)
		}
	}
	if limiter.Len() != 0 {
		t.Errorf("whitelisted clients should not create buckets, got %d", limiter.Len())
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	config := testConfig(100, time.Hour)
	config.Blacklist = map[string]bool{"10.0.0.2": true}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("10.0.0.2", "/keywords", "POST"); allowed {
		t.Error("blacklisted client should be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false, DefaultLimit: 1})
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		if allowed, _ := limiter.Allow("client1", "/features", "POST"); !allowed {
			t.Fatal("disabled limiter should allow everything")
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	config := testConfig(100, time.Hour)
	config.EndpointConfigs = []EndpointConfig{
		{Path: "/features", Method: "POST", Limit: 2, Window: time.Hour},
		{Path: "/samples/", Method: "POST", Limit: 1, Window: time.Hour},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 2; i++ {
		if allowed, _ := limiter.Allow("c", "/features", "POST"); !allowed {
			t.Fatalf("features request %d should be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow("c", "/features", "POST"); allowed {
		t.Error("third features request should be denied")
	}

	path := "/samples/5b8f1a3e-1111-4222-8333-444455556666/features"
	if allowed, info := limiter.Allow("c", path, "POST"); !allowed || info.Limit != 1 {
		t.Errorf("prefix config should apply, got allowed=%v limit=%d", allowed, info.Limit)
	}
	if allowed, _ := limiter.Allow("c", path, "POST"); allowed {
		t.Error("second prefix request should be denied")
	}

	// GET on the same path falls back to the default limit.
	if _, info := limiter.Allow("c", path, "GET"); info.Limit != 100 {
		t.Errorf("expected default limit 100, got %d", info.Limit)
	}
}

func TestLimiter_UnlimitedProbes(t *testing.T) {
	limiter := NewLimiter(testConfig(1, time.Hour))
	defer limiter.Stop()

	for _, path := range []string{"/health", "/metrics"} {
		for i := 0; i < 5; i++ {
			if allowed, _ := limiter.Allow("c", path, "GET"); !allowed {
				t.Fatalf("%s should never be limited", path)
			}
		}
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	limiter := NewLimiter(testConfig(100, time.Hour))
	defer limiter.Stop()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := limiter.Allow("client1", "/keywords", "POST"); ok {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if allowed != 100 {
		t.Errorf("expected exactly 100 allowed requests, got %d", allowed)
	}
}

func TestLimiter_Cleanup(t *testing.T) {
	limiter := NewLimiter(testConfig(10, time.Hour))
	defer limiter.Stop()

	limiter.Allow("old", "/keywords", "POST")
	cutoff := time.Now().Add(time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	limiter.Allow("fresh", "/keywords", "POST")

	limiter.cleanupBuckets(cutoff)

	if limiter.Len() != 1 {
		t.Fatalf("expected 1 bucket after cleanup, got %d", limiter.Len())
	}
	if _, ok := limiter.buckets["fresh:/keywords:POST"]; !ok {
		t.Error("fresh bucket should survive cleanup")
	}
}

func TestLimiter_Burst(t *testing.T) {
	config := testConfig(100, time.Hour)
	config.EndpointConfigs = []EndpointConfig{
		{Path: "/features", Method: "POST", Limit: 100, Window: time.Hour, Burst: 3},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if allowed, _ := limiter.Allow("c", "/features", "POST"); !allowed {
			t.Fatalf("burst request %d should be allowed", i+1)
		}
	}
	if allowed, _ := limiter.Allow("c", "/features", "POST"); allowed {
		t.Error("request beyond burst should be denied")
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	allowed, info := limiter.Allow("c", "/keywords", "POST")
	if !allowed {
		t.Error("default limiter should allow requests")
	}
	if info.Limit != 1000 {
		t.Errorf("expected default limit 1000, got %d", info.Limit)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: true, DefaultLimit: 1, DefaultWindow: time.Minute, CleanupInterval: time.Minute})
	limiter.Stop()
	limiter.Stop()
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	tests := []struct {
		path, method string
		wantLimit    int
		wantNil      bool
	}{
		{"/health", "GET", 0, false},
		{"/metrics", "GET", 0, false},
		{"/features", "POST", 60, false},
		{"/samples", "POST", 120, false},
		{"/samples/abc/features", "POST", 60, false},
		{"/samples/abc", "DELETE", 120, false},
		{"/keywords", "POST", 600, false},
		{"/samples", "GET", 0, true},
	}
	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		if tt.wantNil {
			if got != nil {
				t.Errorf("%s %s: expected no match, got %+v", tt.method, tt.path, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("%s %s: expected a match", tt.method, tt.path)
			continue
		}
		if got.Limit != tt.wantLimit {
			t.Errorf("%s %s: expected limit %d, got %d", tt.method, tt.path, tt.wantLimit, got.Limit)
		}
	}
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_DEFAULT_LIMIT", "42")
	t.Setenv("RATE_LIMIT_DEFAULT_WINDOW", "30s")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")

	config := LoadConfig()
	if config.DefaultLimit != 42 || config.DefaultWindow != 30*time.Second {
		t.Errorf("unexpected defaults: %d %v", config.DefaultLimit, config.DefaultWindow)
	}
	if !config.Whitelist["10.0.0.2"] {
		t.Error("expected 10.0.0.2 in whitelist")
	}

	t.Setenv("RATE_LIMIT_ENABLED", "false")
	if LoadConfig().Enabled {
		t.Error("expected limiter to be disabled")
	}
}

func TestMatchEndpoint_ExactBeatsEarlierPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/samples/", Method: "POST", Limit: 5},
		{Path: "/samples/export", Method: "POST", Limit: 7},
	}

	if got := MatchEndpoint("/samples/export", "POST", configs); got == nil || got.Limit != 7 {
		t.Errorf("expected exact match with limit 7, got %+v", got)
	}
	if got := MatchEndpoint("/samples/abc", "POST", configs); got == nil || got.Limit != 5 {
		t.Errorf("expected prefix match with limit 5, got %+v", got)
	}
	if got := MatchEndpoint("/samples/abc", "DELETE", configs); got != nil {
		t.Errorf("expected no match for another method, got %+v", got)
	}
}

func TestConfigFromEnv(t *testing.T) {
	env := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":    "not-a-number",
		"RATE_LIMIT_DEFAULT_WINDOW":   "2m",
		"RATE_LIMIT_CLEANUP_INTERVAL": "soon",
		"RATE_LIMIT_BLACKLIST":        " 1.2.3.4 ,, ",
	}
	config := ConfigFromEnv(func(key string) string { return env[key] })

	if !config.Enabled {
		t.Fatal("expected limiter enabled by default")
	}
	if config.DefaultLimit != 1000 {
		t.Errorf("expected invalid limit to fall back to 1000, got %d", config.DefaultLimit)
	}
	if config.DefaultWindow != 2*time.Minute {
		t.Errorf("expected window 2m, got %v", config.DefaultWindow)
	}
	if config.CleanupInterval != 5*time.Minute {
		t.Errorf("expected invalid cleanup interval to fall back to 5m, got %v", config.CleanupInterval)
	}
	if len(config.Blacklist) != 1 || !config.Blacklist["1.2.3.4"] {
		t.Errorf("unexpected blacklist %v", config.Blacklist)
	}
	if len(config.Whitelist) != 0 {
		t.Errorf("expected empty whitelist, got %v", config.Whitelist)
	}
	if len(config.EndpointConfigs) != len(DefaultEndpointConfigs()) {
		t.Errorf("expected default endpoint configs")
	}
}
