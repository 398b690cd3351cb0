// Folio: A content-acquisition server for reading web-serialized novels.
// Copyright (C) 2025 The Folio Authors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package network

import (
	"compress/flate"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"

	"Folio/pkg/engine/logger"
	"Folio/pkg/errors"
)

const (
	// maxBodySize caps how much of a response we read. Novel pages are
	// text; anything past 5 MiB is not a chapter.
	maxBodySize = 5 << 20

	maxRedirects = 5

	defaultTimeout      = 15 * time.Second
	defaultProxyTimeout = 20 * time.Second
	defaultMaxRetries   = 3

	// DefaultFallbackProxy renders blocked pages through a text proxy
	// when the origin answers 403 or 429.
	DefaultFallbackProxy = "https://r.jina.ai/"

	backoffBase = 1 * time.Second
	backoffCap  = 10 * time.Second
)

// Rotating desktop browser identities. Picked at random per attempt so
// consecutive retries do not present the same fingerprint.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:109.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.1 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// RandomUserAgent returns one identity from the rotation pool.
func RandomUserAgent() string {
	return userAgents[rand.Intn(len(userAgents))]
}

// Result is a completed fetch. ViaProxy marks bodies that came through
// the fallback text proxy rather than the origin; extraction treats
// those more loosely since the proxy rewrites markup.
type Result struct {
	URL      string
	Status   int
	Body     []byte
	ViaProxy bool
}

// Options configures a Client.
type Options struct {
	Timeout       time.Duration
	ProxyTimeout  time.Duration
	MaxRetries    int
	ProxyURL      string // optional egress proxy for all requests
	FallbackProxy string // base URL of the blocked-page text proxy; "" disables it
}

// Client fetches pages with browser-like headers, bounded retries, and
// a fallback proxy for hosts that answer 403/429.
type Client struct {
	direct   *http.Client
	proxied  *http.Client
	opts     Options
	fallback string
	log      logger.Logger
}

// NewClient creates a fetch client. Zero-valued options fall back to
// the package defaults.
func NewClient(opts Options, log logger.Logger) (*Client, error) {
	if opts.Timeout == 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.ProxyTimeout == 0 {
		opts.ProxyTimeout = defaultProxyTimeout
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = defaultMaxRetries
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	// Bodies are decoded by hand so brotli can be advertised too.
	transport.DisableCompression = true
	if opts.ProxyURL != "" {
		proxyURL, err := url.Parse(opts.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxyURL)
	}

	redirectPolicy := func(req *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		return nil
	}

	return &Client{
		direct: &http.Client{
			Transport:     transport,
			Timeout:       opts.Timeout,
			CheckRedirect: redirectPolicy,
		},
		proxied: &http.Client{
			Transport:     transport,
			Timeout:       opts.ProxyTimeout,
			CheckRedirect: redirectPolicy,
		},
		opts:     opts,
		fallback: strings.TrimSuffix(opts.FallbackProxy, "/"),
		log:      log,
	}, nil
}

// Fetch retrieves rawURL with up to MaxRetries attempts. A 403 or 429
// triggers one fallback-proxy attempt before the backoff; success
// through the proxy is reported with ViaProxy set.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= c.opts.MaxRetries; attempt++ {
		attempts = attempt
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.log.Debug("[HTTP] Attempt %d/%d for %s", attempt, c.opts.MaxRetries, rawURL)

		res, err := c.Attempt(ctx, rawURL)
		if err == nil {
			return res, nil
		}
		lastErr = err
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		if (errors.Is(err, errors.ErrBlocked) || errors.Is(err, errors.ErrRateLimited)) && c.fallback != "" {
			c.log.Info("[HTTP] Blocked on %s, trying fallback proxy", rawURL)
			if res, perr := c.fetchViaFallback(ctx, rawURL); perr == nil {
				return res, nil
			} else {
				c.log.Warn("[HTTP] Fallback proxy failed for %s: %v", rawURL, perr)
			}
		}

		// 404s, other 4xx, and blocks that survived the proxy will not
		// improve with backoff
		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrBlocked) ||
			errors.Is(err, errors.ErrBadRequest) {
			break
		}

		if attempt < c.opts.MaxRetries {
			delay := Backoff(attempt)
			c.log.Debug("[HTTP] Waiting %s before retry", delay)
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, &errors.FetchError{
		URL:      rawURL,
		Attempts: attempts,
		Err:      lastErr,
	}
}

// Attempt performs a single request with no retries or fallback. The
// robust client drives its own retry loop through this.
func (c *Client) Attempt(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrBadRequest, err)
	}
	applyBrowserHeaders(req)

	resp, err := c.direct.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := classifyStatus(resp.StatusCode, rawURL); err != nil {
		return nil, err
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	c.log.Debug("[HTTP] Success: %d (%d bytes) for %s", resp.StatusCode, len(body), rawURL)
	return &Result{URL: rawURL, Status: resp.StatusCode, Body: body}, nil
}

func (c *Client) fetchViaFallback(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.fallback+"/"+rawURL, nil)
	if err != nil {
		return nil, err
	}
	applyBrowserHeaders(req)
	req.Header.Set("X-Return-Format", "html")
	req.Header.Set("X-No-Cache", "true")

	resp, err := c.proxied.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fallback proxy status %d", resp.StatusCode)
	}
	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	c.log.Info("[HTTP] Fallback proxy success: %d bytes for %s", len(body), rawURL)
	return &Result{URL: rawURL, Status: resp.StatusCode, Body: body, ViaProxy: true}, nil
}

// Backoff returns the delay before retrying after the given 1-based
// attempt: a linear ramp with a little jitter, capped at 10 s.
func Backoff(attempt int) time.Duration {
	d := backoffBase * time.Duration(attempt)
	d += time.Duration(50+rand.Intn(151)) * time.Millisecond
	if d > backoffCap {
		d = backoffCap
	}
	return d
}

func applyBrowserHeaders(req *http.Request) {
	req.Header.Set("User-Agent", RandomUserAgent())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")
	req.Header.Set("DNT", "1")
	req.Header.Set("Connection", "keep-alive")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
}

func classifyStatus(status int, rawURL string) error {
	switch {
	case status == http.StatusOK:
		return nil
	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", errors.ErrNotFound, rawURL)
	case status == http.StatusForbidden:
		return fmt.Errorf("%w: %s returned 403", errors.ErrBlocked, rawURL)
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s returned 429", errors.ErrRateLimited, rawURL)
	case status >= 500:
		return fmt.Errorf("%w: %s returned %d", errors.ErrServer, rawURL, status)
	case status >= 400:
		// Other client-class statuses will not improve on retry
		return fmt.Errorf("%w: %s returned %d", errors.ErrBadRequest, rawURL, status)
	default:
		return fmt.Errorf("unexpected status %d for %s", status, rawURL)
	}
}

// readBody decodes the response body according to Content-Encoding and
// enforces the size cap.
func readBody(resp *http.Response) ([]byte, error) {
	var reader io.Reader = resp.Body

	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	case "deflate":
		fl := flate.NewReader(resp.Body)
		defer fl.Close()
		reader = fl
	case "br":
		reader = brotli.NewReader(resp.Body)
	}

	body, err := io.ReadAll(io.LimitReader(reader, maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return nil, fmt.Errorf("response exceeds %d byte limit", maxBodySize)
	}
	return body, nil
}

// ExtractDomain returns the host part of a URL, or "" when unparsable.
func ExtractDomain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
