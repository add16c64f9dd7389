// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/yselmaoui/bac-harvester/pkg/types"
)

// DefaultUserAgent is the browser-like client identity sent with every
// request. The source sites serve stripped-down or blocked pages to agents
// that look like bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0 Safari/537.36"

// userAgentTransport injects the configured User-Agent into every request.
type userAgentTransport struct {
	agent string
	next  http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(clone)
}

// NewClient builds an HTTP client from the shared HTTP settings. Redirects
// are followed by default; each call is bounded by cfg.Timeout.
func NewClient(cfg types.HTTPConfig) *http.Client {
	agent := cfg.UserAgent
	if agent == "" {
		agent = DefaultUserAgent
	}
	return &http.Client{
		Timeout: cfg.Timeout,
		Transport: &userAgentTransport{
			agent: agent,
			next:  http.DefaultTransport,
		},
	}
}

// Get fetches url and returns the response. Non-200 statuses are errors;
// the body is closed before returning one.
func Get(ctx context.Context, client *http.Client, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}
	return resp, nil
}

// Exists performs a metadata-only HEAD probe against url and reports whether
// the resource answers 200 after redirects. No body is ever read. Transport
// errors report false; the probe is a cheap liveness check, not a fetch.
func Exists(ctx context.Context, client *http.Client, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
