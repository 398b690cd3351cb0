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
	"context"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	minRequestSpacing = 1 * time.Second
	maxRequestSpacing = 3 * time.Second
)

// RateLimiter spaces requests per domain. Each request waits a random
// 1-3 s since the previous one to the same host, with an x/time/rate
// limiter underneath as a hard ceiling against bursts from concurrent
// callers.
type RateLimiter struct {
	domains map[string]*domainLimiter
	mu      sync.RWMutex
}

type domainLimiter struct {
	lastRequest time.Time
	limiter     *rate.Limiter
	mu          sync.Mutex
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{
		domains: make(map[string]*domainLimiter),
	}
}

// Wait blocks until a request to rawURL's domain is allowed, or the
// context is done.
func (r *RateLimiter) Wait(ctx context.Context, rawURL string) error {
	domain := ExtractDomain(rawURL)
	if domain == "" {
		return nil
	}
	return r.WaitForDomain(ctx, domain)
}

// WaitForDomain blocks until a request to domain is allowed.
func (r *RateLimiter) WaitForDomain(ctx context.Context, domain string) error {
	limiter := r.getLimiter(domain)
	return limiter.wait(ctx)
}

// Reset clears rate limiting for a domain.
func (r *RateLimiter) Reset(domain string) {
	r.mu.Lock()
	delete(r.domains, domain)
	r.mu.Unlock()
}

// ResetAll clears all rate limiting.
func (r *RateLimiter) ResetAll() {
	r.mu.Lock()
	r.domains = make(map[string]*domainLimiter)
	r.mu.Unlock()
}

// getLimiter returns or creates a limiter for a domain.
func (r *RateLimiter) getLimiter(domain string) *domainLimiter {
	r.mu.RLock()
	limiter, exists := r.domains[domain]
	r.mu.RUnlock()

	if exists {
		return limiter
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := r.domains[domain]; exists {
		return limiter
	}

	limiter = &domainLimiter{
		// Ceiling of one request per second regardless of jitter
		limiter: rate.NewLimiter(rate.Every(minRequestSpacing), 1),
	}
	r.domains[domain] = limiter
	return limiter
}

func (l *domainLimiter) wait(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	spacing := minRequestSpacing +
		time.Duration(rand.Int63n(int64(maxRequestSpacing-minRequestSpacing)))

	if elapsed := time.Since(l.lastRequest); elapsed < spacing {
		timer := time.NewTimer(spacing - elapsed)
		defer timer.Stop()

		select {
		case <-timer.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return err
	}

	l.lastRequest = time.Now()
	return nil
}
