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
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"Folio/pkg/engine/logger"
	"Folio/pkg/errors"
)

// RobustClient layers domain protection over the plain Client: a
// per-domain circuit breaker, randomized inter-request spacing, and
// single-flight coalescing so concurrent identical fetches hit the
// origin once.
type RobustClient struct {
	client  *Client
	breaker *CircuitBreaker
	limiter *RateLimiter
	group   singleflight.Group
	retries int
	log     logger.Logger
}

// NewRobustClient wraps client with a breaker and limiter.
func NewRobustClient(client *Client, breaker *CircuitBreaker, log logger.Logger) *RobustClient {
	return &RobustClient{
		client:  client,
		breaker: breaker,
		limiter: NewRateLimiter(),
		retries: client.opts.MaxRetries,
		log:     log,
	}
}

// Breaker exposes the circuit breaker for status and reset endpoints.
func (r *RobustClient) Breaker() *CircuitBreaker { return r.breaker }

// Fetch retrieves rawURL under breaker and limiter control. Concurrent
// calls for the same URL share a single origin request.
func (r *RobustClient) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	v, err, _ := r.group.Do(rawURL, func() (interface{}, error) {
		return r.fetch(ctx, rawURL)
	})
	if err != nil {
		// The flight ran under the first caller's context; drop it so a
		// cancelled caller does not poison later fetches of the same URL
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			r.group.Forget(rawURL)
		}
		return nil, err
	}
	return v.(*Result), nil
}

func (r *RobustClient) fetch(ctx context.Context, rawURL string) (*Result, error) {
	domain := ExtractDomain(rawURL)
	if domain == "" {
		return nil, fmt.Errorf("%w: unparsable url %q", errors.ErrBadRequest, rawURL)
	}

	var lastErr error
	for attempt := 1; attempt <= r.retries; attempt++ {
		if !r.breaker.Allow(domain) {
			return nil, fmt.Errorf("%w: %s", errors.ErrCircuitOpen, domain)
		}
		if err := r.limiter.WaitForDomain(ctx, domain); err != nil {
			return nil, err
		}

		res, err := r.client.Attempt(ctx, rawURL)
		if err == nil {
			r.breaker.RecordSuccess(domain)
			return res, nil
		}
		lastErr = err

		// An aborted request says nothing about the domain's health.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}

		r.breaker.RecordFailure(domain)
		r.log.Warn("[Robust] Attempt %d/%d failed for %s: %v", attempt, r.retries, rawURL, err)

		// Blocked hosts get one shot through the fallback text proxy
		if (errors.Is(err, errors.ErrBlocked) || errors.Is(err, errors.ErrRateLimited)) &&
			r.client.fallback != "" {
			if res, perr := r.client.fetchViaFallback(ctx, rawURL); perr == nil {
				r.breaker.RecordSuccess(domain)
				return res, nil
			}
		}

		if errors.Is(err, errors.ErrNotFound) || errors.Is(err, errors.ErrBlocked) ||
			errors.Is(err, errors.ErrBadRequest) {
			break
		}

		if attempt < r.retries {
			select {
			case <-time.After(Backoff(attempt)):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, &errors.FetchError{URL: rawURL, Attempts: r.retries, Err: lastErr}
}
