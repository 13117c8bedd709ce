package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	scrapeAndTailorPath = "/api/linkedin/scrape-and-tailor"
	tailorPath          = "/api/resume/tailor"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from the process environment.
func LoadConfig() *Config {
	return LoadConfigFrom(os.Getenv)
}

// LoadConfigFrom builds the configuration from getenv. Unparseable values fall back to defaults.
//
// RATE_LIMIT_SCRAPE_PER_HOUR and RATE_LIMIT_TAILOR_PER_HOUR override the
// scrape-and-tailor and tailor tiers.
func LoadConfigFrom(getenv func(string) string) *Config {
	e := env(getenv)
	if !e.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	endpoints := DefaultEndpointConfigs()
	for i := range endpoints {
		switch endpoints[i].Path {
		case scrapeAndTailorPath:
			endpoints[i].Limit = e.integer("RATE_LIMIT_SCRAPE_PER_HOUR", endpoints[i].Limit)
		case tailorPath:
			endpoints[i].Limit = e.integer("RATE_LIMIT_TAILOR_PER_HOUR", endpoints[i].Limit)
		}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    e.integer("RATE_LIMIT_DEFAULT_LIMIT", 1000),
		DefaultWindow:   e.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: e.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseClientList(getenv("RATE_LIMIT_WHITELIST")),
		Blacklist:       parseClientList(getenv("RATE_LIMIT_BLACKLIST")),
		EndpointConfigs: endpoints,
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Tier 1: scrape plus LLM call (strictest limits)
		{Path: scrapeAndTailorPath, Method: "POST", Limit: 10, Window: time.Hour, Burst: 2},

		// Tier 2: LLM call or headless print
		{Path: tailorPath, Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
		{Path: "/api/resume/pdf", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},

		// Tier 3: read operations (more lenient) - handled by default limit
		// Tier 4: health check and preflights (unlimited) - exempted by the matcher
	}
}

// env reads typed values through a getenv function.
type env func(string) string

func (e env) integer(key string, fallback int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(e(key))); err == nil {
		return v
	}
	return fallback
}

func (e env) boolean(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(strings.TrimSpace(e(key))); err == nil {
		return v
	}
	return fallback
}

func (e env) duration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(strings.TrimSpace(e(key))); err == nil {
		return v
	}
	return fallback
}

// parseClientList parses a comma-separated list of client IDs (IPs or "sub:<subject>") into a set.
func parseClientList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			result[id] = true
		}
	}
	return result
}
