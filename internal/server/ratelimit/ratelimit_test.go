package ratelimit

import (
	"testing"
	"time"
)

func testConfig(limit, burst int) *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  limit,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{},
		EndpointConfigs: []EndpointConfig{
			{Path: "/chat", Method: "POST", Limit: limit, Window: time.Minute, Burst: burst},
		},
	}
}

func TestLimiter_AllowWithinBurst(t *testing.T) {
	limiter := NewLimiter(testConfig(10, 3))
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := limiter.Allow("1.2.3.4", "/chat", "POST")
		if !allowed {
			t.Fatalf("request %d within burst should be allowed", i+1)
		}
	}

	allowed, info := limiter.Allow("1.2.3.4", "/chat", "POST")
	if allowed {
		t.Fatal("request beyond burst should be rejected")
	}
	if info.RetryAfter <= 0 {
		t.Error("rejected request should carry a retry-after hint")
	}
	if info.Limit != 10 {
		t.Errorf("info.Limit = %d, want 10", info.Limit)
	}
}

func TestLimiter_ClientsIsolated(t *testing.T) {
	limiter := NewLimiter(testConfig(10, 1))
	defer limiter.Stop()

	if allowed, _ := limiter.Allow("1.1.1.1", "/chat", "POST"); !allowed {
		t.Fatal("first client's first request should pass")
	}
	if allowed, _ := limiter.Allow("1.1.1.1", "/chat", "POST"); allowed {
		t.Fatal("first client should now be throttled")
	}
	if allowed, _ := limiter.Allow("2.2.2.2", "/chat", "POST"); !allowed {
		t.Error("second client must have its own bucket")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	limiter := NewLimiter(&Config{Enabled: false})
	defer limiter.Stop()

	for i := 0; i < 100; i++ {
		if allowed, _ := limiter.Allow("x", "/chat", "POST"); !allowed {
			t.Fatal("disabled limiter must allow everything")
		}
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	cfg := testConfig(10, 1)
	cfg.Whitelist["9.9.9.9"] = true
	limiter := NewLimiter(cfg)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		if allowed, _ := limiter.Allow("9.9.9.9", "/chat", "POST"); !allowed {
			t.Fatal("whitelisted client must never be throttled")
		}
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/chat", Method: "POST", Limit: 20},
		{Path: "/runs/", Method: "GET", Limit: 50},
	}

	tests := []struct {
		path      string
		method    string
		wantLimit int
		wantNil   bool
	}{
		{"/chat", "POST", 20, false},
		{"/chat", "GET", 0, true},
		{"/runs/abc-123", "GET", 50, false},
		{"/health", "GET", 0, false}, // unlimited policy
		{"/unknown", "POST", 0, true},
	}

	for _, tt := range tests {
		got := MatchEndpoint(tt.path, tt.method, configs)
		if tt.wantNil {
			if got != nil {
				t.Errorf("MatchEndpoint(%s %s) = %+v, want nil", tt.method, tt.path, got)
			}
			continue
		}
		if got == nil {
			t.Errorf("MatchEndpoint(%s %s) = nil, want a config", tt.method, tt.path)
			continue
		}
		if got.Limit != tt.wantLimit {
			t.Errorf("MatchEndpoint(%s %s).Limit = %d, want %d", tt.method, tt.path, got.Limit, tt.wantLimit)
		}
	}
}

func TestTokenBucket_Refills(t *testing.T) {
	// 100 tokens/sec so the test does not need to sleep long
	bucket := newTokenBucket(1, 100)

	if !bucket.allow() {
		t.Fatal("fresh bucket should allow")
	}
	if bucket.allow() {
		t.Fatal("drained bucket should reject")
	}

	time.Sleep(20 * time.Millisecond)
	if !bucket.allow() {
		t.Error("bucket should refill over time")
	}
}
