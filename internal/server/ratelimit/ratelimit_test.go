package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBucket_Allow(t *testing.T) {
	// 10 tokens, refilling at 1 token per second
	b := newBucket(10, 10*time.Second, 10)
	now := time.Now()

	// Should allow 10 requests immediately (burst)
	for i := 0; i < 10; i++ {
		if allowed, _, _, _ := b.allow(now); !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
	}

	// 11th request should be denied (no tokens left)
	allowed, remaining, _, retryAfter := b.allow(now)
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if remaining != 0 {
		t.Errorf("Expected 0 remaining tokens, got %d", remaining)
	}
	if retryAfter <= 0 || retryAfter > time.Second {
		t.Errorf("Expected retry after in (0, 1s], got %v", retryAfter)
	}
}

func TestBucket_Refill(t *testing.T) {
	b := newBucket(10, 10*time.Second, 10) // 1 token per second
	now := time.Now()

	// Consume all tokens
	for i := 0; i < 10; i++ {
		b.allow(now)
	}

	// One token refills after a second
	later := now.Add(1100 * time.Millisecond)
	if allowed, _, _, _ := b.allow(later); !allowed {
		t.Error("Expected request to be allowed after refill")
	}

	// Should be denied again
	if allowed, _, _, _ := b.allow(later); allowed {
		t.Error("Expected request to be denied after consuming refilled token")
	}
}

func TestBucket_ResetTime(t *testing.T) {
	b := newBucket(10, 10*time.Second, 10)
	now := time.Now()

	// Consume 5 tokens
	var remaining int
	var resetTime time.Time
	for i := 0; i < 5; i++ {
		_, remaining, resetTime, _ = b.allow(now)
	}

	if remaining != 5 {
		t.Errorf("Expected 5 remaining tokens, got %d", remaining)
	}
	if !resetTime.After(now) {
		t.Error("Reset time should be in the future")
	}
}

func TestBucket_BurstDefaultsToLimit(t *testing.T) {
	b := newBucket(3, time.Minute, 0)
	if b.burst != 3 {
		t.Errorf("Expected burst 3, got %d", b.burst)
	}
}

func TestLimiter_Allow(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"
	endpoint := "/test"
	method := "GET"

	// Should allow requests up to limit
	for i := 0; i < 10; i++ {
		allowed, rateInfo := limiter.Allow(clientID, endpoint, method)
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 10 {
			t.Errorf("Expected limit 10, got %d", rateInfo.Limit)
		}
		if rateInfo.Remaining != 9-i {
			t.Errorf("Expected remaining %d, got %d", 9-i, rateInfo.Remaining)
		}
	}

	// 11th request should be denied
	allowed, rateInfo := limiter.Allow(clientID, endpoint, method)
	if allowed {
		t.Error("Expected 11th request to be denied")
	}
	if rateInfo.Remaining != 0 {
		t.Errorf("Expected remaining 0, got %d", rateInfo.Remaining)
	}
	if rateInfo.RetryAfter <= 0 {
		t.Error("Expected retry after to be positive")
	}
}

func TestLimiter_Whitelist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1,
		DefaultWindow: time.Minute,
		Whitelist:     map[string]bool{"127.0.0.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	// Whitelisted IP should always be allowed
	for i := 0; i < 100; i++ {
		allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
		if !allowed {
			t.Errorf("Expected whitelisted request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 0 {
			t.Errorf("Expected limit 0 for whitelisted, got %d", rateInfo.Limit)
		}
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		Blacklist:     map[string]bool{"192.168.1.1": true},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	// Blacklisted IP should always be denied
	allowed, _ := limiter.Allow("192.168.1.1", "/test", "GET")
	if allowed {
		t.Error("Expected blacklisted request to be denied")
	}
}

func TestLimiter_Disabled(t *testing.T) {
	config := &Config{
		Enabled: false,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	// When disabled, all requests should be allowed
	for i := 0; i < 100; i++ {
		allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
		if !allowed {
			t.Errorf("Expected request %d to be allowed when disabled", i+1)
		}
		if rateInfo.Limit != 0 {
			t.Errorf("Expected limit 0 when disabled, got %d", rateInfo.Limit)
		}
	}
}

func TestLimiter_EndpointSpecific(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  1000,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/api/resume/tailor", Method: "POST", Limit: 5, Window: time.Hour, Burst: 5},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"

	// Test endpoint-specific limit (burst allows 5 immediately)
	for i := 0; i < 5; i++ {
		allowed, rateInfo := limiter.Allow(clientID, "/api/resume/tailor", "POST")
		if !allowed {
			t.Errorf("Expected request %d to be allowed", i+1)
		}
		if rateInfo.Limit != 5 {
			t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
		}
	}

	// 6th request should be denied (limit reached)
	allowed, rateInfo := limiter.Allow(clientID, "/api/resume/tailor", "POST")
	if allowed {
		t.Error("Expected 6th request to be denied")
	}
	if rateInfo.Limit != 5 {
		t.Errorf("Expected limit 5, got %d", rateInfo.Limit)
	}

	// Different endpoint should use default limit
	allowed, rateInfo = limiter.Allow(clientID, "/other", "GET")
	if !allowed {
		t.Error("Expected different endpoint to be allowed")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}

func TestLimiter_Concurrent(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  100,
		DefaultWindow: time.Hour,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"
	endpoint := "/test"
	method := "GET"

	var wg sync.WaitGroup
	allowedCount := 0
	var mu sync.Mutex

	// Make 200 concurrent requests (should only allow 100)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed, _ := limiter.Allow(clientID, endpoint, method)
			if allowed {
				mu.Lock()
				allowedCount++
				mu.Unlock()
			}
		}()
	}

	wg.Wait()

	// Should have allowed exactly 100 requests
	if allowedCount != 100 {
		t.Errorf("Expected 100 allowed requests, got %d", allowedCount)
	}
}

func TestLimiter_CleanupBuckets(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	for i := 0; i < 10; i++ {
		clientID := fmt.Sprintf("127.0.0.%d", i+1)
		if allowed, _ := limiter.Allow(clientID, "/test", "GET"); !allowed {
			t.Errorf("Expected request from %s to be allowed", clientID)
		}
	}
	if limiter.Len() != 10 {
		t.Fatalf("Expected 10 buckets, got %d", limiter.Len())
	}

	// Nothing was accessed before an hour ago
	limiter.cleanupBuckets(time.Now().Add(-time.Hour))
	if limiter.Len() != 10 {
		t.Errorf("Expected recently used buckets to survive, got %d", limiter.Len())
	}

	limiter.cleanupBuckets(time.Now().Add(time.Second))
	if limiter.Len() != 0 {
		t.Errorf("Expected all buckets to be removed, got %d", limiter.Len())
	}

	// Removed buckets are recreated on demand
	if allowed, _ := limiter.Allow("127.0.0.1", "/test", "GET"); !allowed {
		t.Error("Expected request to be allowed after cleanup")
	}
}

func TestMatchEndpoint(t *testing.T) {
	configs := DefaultEndpointConfigs()

	if cfg := MatchEndpoint("/health", "GET", configs); cfg == nil || cfg.Limit != 0 {
		t.Error("Expected health check to be unlimited")
	}
	if cfg := MatchEndpoint("/api/linkedin/scrape-and-tailor", "POST", configs); cfg == nil || cfg.Limit != 10 {
		t.Error("Expected scrape-and-tailor to match the strictest tier")
	}
	if cfg := MatchEndpoint("/api/roles", "GET", configs); cfg != nil {
		t.Error("Expected roles listing to fall back to the default limit")
	}
	if cfg := MatchEndpoint("/api/resume/tailor", "OPTIONS", configs); cfg == nil || cfg.Limit != 0 {
		t.Error("Expected preflight requests to be unlimited")
	}
}

func TestMatchEndpoint_PrefixAndMethod(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/api/", Method: AnyMethod, Limit: 100},
		{Path: "/api/resume/", Method: "POST", Limit: 20},
		{Path: "/api/resume/pdf", Method: "POST", Limit: 5},
	}

	tests := []struct {
		path, method string
		want         int
	}{
		{"/api/resume/pdf", "POST", 5},
		{"/api/resume/tailor", "POST", 20},
		{"/api/resume/tailor", "GET", 100},
		{"/api/roles", "DELETE", 100},
	}
	for _, tt := range tests {
		cfg := MatchEndpoint(tt.path, tt.method, configs)
		if cfg == nil || cfg.Limit != tt.want {
			t.Errorf("MatchEndpoint(%s %s) = %+v, want limit %d", tt.method, tt.path, cfg, tt.want)
		}
	}
	if cfg := MatchEndpoint("/other", "GET", configs); cfg != nil {
		t.Errorf("Expected no match for /other, got %+v", cfg)
	}
}

func TestLimiter_StopTwice(t *testing.T) {
	limiter := NewLimiter(nil)
	limiter.Stop()
	limiter.Stop()
}

func TestLimiter_Burst(t *testing.T) {
	config := &Config{
		Enabled:       true,
		DefaultLimit:  10,
		DefaultWindow: time.Minute,
		EndpointConfigs: []EndpointConfig{
			{Path: "/burst", Method: "POST", Limit: 10, Window: time.Minute, Burst: 5},
		},
	}
	limiter := NewLimiter(config)
	defer limiter.Stop()

	clientID := "127.0.0.1"

	// Should allow burst of 5 requests immediately
	for i := 0; i < 5; i++ {
		allowed, _ := limiter.Allow(clientID, "/burst", "POST")
		if !allowed {
			t.Errorf("Expected burst request %d to be allowed", i+1)
		}
	}

	// 6th request should be denied (burst exhausted, no refill yet)
	allowed, _ := limiter.Allow(clientID, "/burst", "POST")
	if allowed {
		t.Error("Expected request after burst to be denied")
	}
}

func TestNewLimiter_NilConfig(t *testing.T) {
	limiter := NewLimiter(nil)
	defer limiter.Stop()

	if limiter == nil {
		t.Error("Expected limiter to be created with nil config")
	}

	// Should use defaults
	allowed, rateInfo := limiter.Allow("127.0.0.1", "/test", "GET")
	if !allowed {
		t.Error("Expected request to be allowed with default config")
	}
	if rateInfo.Limit != 1000 {
		t.Errorf("Expected default limit 1000, got %d", rateInfo.Limit)
	}
}


func TestLoadConfigFrom(t *testing.T) {
	vars := map[string]string{
		"RATE_LIMIT_DEFAULT_LIMIT":   "50",
		"RATE_LIMIT_DEFAULT_WINDOW":  "30s",
		"RATE_LIMIT_SCRAPE_PER_HOUR": "3",
		"RATE_LIMIT_WHITELIST":       "10.0.0.1, sub:ci-bot ,",
		"RATE_LIMIT_TAILOR_PER_HOUR": "not-a-number",
	}
	config := LoadConfigFrom(func(k string) string { return vars[k] })

	if !config.Enabled {
		t.Fatal("Expected rate limiting to be enabled by default")
	}
	if config.DefaultLimit != 50 || config.DefaultWindow != 30*time.Second {
		t.Errorf("Unexpected default limit %d/%v", config.DefaultLimit, config.DefaultWindow)
	}
	if config.CleanupInterval != 5*time.Minute {
		t.Errorf("Expected default cleanup interval, got %v", config.CleanupInterval)
	}
	if len(config.Whitelist) != 2 || !config.Whitelist["10.0.0.1"] || !config.Whitelist["sub:ci-bot"] {
		t.Errorf("Unexpected whitelist %v", config.Whitelist)
	}
	if cfg := MatchEndpoint(scrapeAndTailorPath, "POST", config.EndpointConfigs); cfg == nil || cfg.Limit != 3 {
		t.Errorf("Expected scrape tier override, got %+v", cfg)
	}
	if cfg := MatchEndpoint(tailorPath, "POST", config.EndpointConfigs); cfg == nil || cfg.Limit != 30 {
		t.Errorf("Expected invalid tailor override to keep the default, got %+v", cfg)
	}
}

func TestLoadConfigFrom_Disabled(t *testing.T) {
	config := LoadConfigFrom(func(k string) string {
		if k == "RATE_LIMIT_ENABLED" {
			return "false"
		}
		return ""
	})
	if config.Enabled {
		t.Error("Expected rate limiting to be disabled")
	}
	allowed, _ := NewLimiter(config).Allow("1.2.3.4", tailorPath, "POST")
	if !allowed {
		t.Error("Expected disabled limiter to allow every request")
	}
}
