// Package network provides pre-configured, optimized HTTP clients for embed host communication.
package network

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aniflux/aniflux/constant"
)

// Client is the singleton HTTP client shared across the application for efficient resource utilization.
// It is configured with increased concurrency limits and reasonable timeouts tailored for scraping workflows.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport with optimized pool and timeout parameters.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 100
	t.MaxIdleConnsPerHost = 100
	t.MaxConnsPerHost = 200
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	t.ExpectContinueTimeout = 30 * time.Second
	return t
}

// BrowserHeaders returns the standard desktop navigation header set expected by embed hosts.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      constant.UserAgent,
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"Sec-Fetch-Dest":  "document",
		"Sec-Fetch-Mode":  "navigate",
		"Sec-Fetch-Site":  "none",
	}
}

// RedirectPolicy validates every redirect hop before the client follows it.
// Embed hosts are attacker-controlled and may answer with a redirect to an
// address the original target could never have been; whatever policy admitted
// the first request must also see every subsequent location. A nil policy
// only enforces the hop limit.
type RedirectPolicy func(ctx context.Context, target string) error

const maxRedirects = 10

func checkRedirect(policy RedirectPolicy) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return errors.New("stopped after 10 redirects")
		}
		if policy == nil {
			return nil
		}
		return policy(req.Context(), req.URL.String())
	}
}

// Fetch performs an HTTP request against an embed host with browser-like headers.
// HTTPS targets go through the Chrome-fingerprint TLS transports (H2 first,
// HTTP/1.1 fallback); plain HTTP targets use the shared tuned transport. The
// caller's context bounds the whole exchange, and the redirect policy is
// re-applied to every hop.
func Fetch(ctx context.Context, method, rawURL string, headers map[string]string, body string, policy RedirectPolicy) (*http.Response, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, err
	}

	for k, v := range BrowserHeaders() {
		req.Header.Set(k, v)
	}
	// Apply custom headers (overrides defaults).
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	redirect := checkRedirect(policy)

	if req.URL.Scheme != "https" {
		plain := &http.Client{
			Timeout:       Client.Timeout,
			Transport:     Client.Transport,
			CheckRedirect: redirect,
		}
		return plain.Do(req)
	}

	h2 := &http.Client{Transport: getH2Transport(), CheckRedirect: redirect}
	resp, err := h2.Do(req)
	if err == nil {
		return resp, nil
	}

	// If H2 fails, fallback to the HTTP/1.1-only transport.
	if ctx.Err() != nil {
		return nil, err
	}

	if body != "" {
		reqBody = strings.NewReader(body)
	}
	retry, rerr := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if rerr != nil {
		return nil, err
	}
	retry.Header = req.Header

	h1 := &http.Client{Transport: h1Transport, CheckRedirect: redirect}
	return h1.Do(retry)
}
