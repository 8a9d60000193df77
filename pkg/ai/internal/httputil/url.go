// ABOUTME: Base URL normalization for OpenAI-compatible endpoints
// ABOUTME: Strips a sole trailing /v1 so providers can append versioned paths

package httputil

import (
	"net/url"
	"strings"
)

// NormalizeBaseURL strips a trailing "/v1" (and any trailing slash) from a
// base URL, preventing double-versioned paths like "/v1/v1/chat/completions"
// when the provider appends its own versioned path. Only a sole top-level
// "/v1" is stripped (http://host:8000/v1), not a nested one (http://host/api/v1).
func NormalizeBaseURL(baseURL string) string {
	if baseURL == "" {
		return ""
	}
	baseURL = strings.TrimRight(baseURL, "/")

	u, err := url.Parse(baseURL)
	if err != nil {
		return baseURL
	}

	if u.Path == "/v1" {
		u.Path = ""
		return strings.TrimRight(u.String(), "/")
	}
	return baseURL
}
