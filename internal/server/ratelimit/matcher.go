package ratelimit

import (
	"net/http"
	"strings"
)

// AnyMethod in EndpointConfig.Method matches every HTTP method.
const AnyMethod = "*"

// unlimited is returned for requests that never count against a bucket.
var unlimited = EndpointConfig{}

// exempt reports whether a request bypasses rate limiting: the health
// check and CORS preflights.
func exempt(path, method string) bool {
	return method == http.MethodOptions || (path == "/health" && method == http.MethodGet)
}

func methodMatches(configured, method string) bool {
	return configured == AnyMethod || configured == "" || configured == method
}

// MatchEndpoint returns the configuration governing path and method, or nil
// when the default limit applies. An exact path wins over a prefix entry
// (a Path ending in "/"), and among prefixes the longest wins.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	if exempt(path, method) {
		u := unlimited
		return &u
	}

	var best *EndpointConfig
	for i := range configs {
		c := &configs[i]
		if !methodMatches(c.Method, method) {
			continue
		}
		if c.Path == path {
			return c
		}
		if strings.HasSuffix(c.Path, "/") && strings.HasPrefix(path, c.Path) {
			if best == nil || len(c.Path) > len(best.Path) {
				best = c
			}
		}
	}
	return best
}
