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
	"sync"
	"time"
)

const (
	defaultFailureThreshold = 5
	defaultResetTimeout     = 60 * time.Second
)

type breakerState struct {
	failureCount    int
	lastFailureTime time.Time
}

// BreakerStatus is a read-only view of one domain's breaker, exposed
// on the health endpoint.
type BreakerStatus struct {
	FailureCount    int       `json:"failureCount"`
	LastFailureTime time.Time `json:"lastFailureTime"`
	Open            bool      `json:"isOpen"`
}

// CircuitBreaker tracks consecutive failures per domain and refuses
// traffic to a domain once the threshold is crossed, until the reset
// timeout elapses. Reset is lazy: the state clears on the first Allow
// after the timeout, or immediately on any success.
type CircuitBreaker struct {
	mu        sync.Mutex
	domains   map[string]*breakerState
	threshold int
	reset     time.Duration
}

// NewCircuitBreaker creates a breaker. Non-positive arguments select
// the defaults (5 failures, 60 s reset).
func NewCircuitBreaker(threshold int, reset time.Duration) *CircuitBreaker {
	if threshold <= 0 {
		threshold = defaultFailureThreshold
	}
	if reset <= 0 {
		reset = defaultResetTimeout
	}
	return &CircuitBreaker{
		domains:   make(map[string]*breakerState),
		threshold: threshold,
		reset:     reset,
	}
}

// Allow reports whether a request to domain may proceed.
func (b *CircuitBreaker) Allow(domain string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.domains[domain]
	if !ok {
		return true
	}
	if time.Since(state.lastFailureTime) > b.reset {
		delete(b.domains, domain)
		return true
	}
	return state.failureCount < b.threshold
}

// RecordFailure counts one failure against domain.
func (b *CircuitBreaker) RecordFailure(domain string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state, ok := b.domains[domain]
	if !ok {
		state = &breakerState{}
		b.domains[domain] = state
	}
	state.failureCount++
	state.lastFailureTime = time.Now()
}

// RecordSuccess clears all failure state for domain.
func (b *CircuitBreaker) RecordSuccess(domain string) {
	b.mu.Lock()
	delete(b.domains, domain)
	b.mu.Unlock()
}

// Snapshot returns the current breaker state of every tracked domain.
func (b *CircuitBreaker) Snapshot() map[string]BreakerStatus {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make(map[string]BreakerStatus, len(b.domains))
	for domain, state := range b.domains {
		out[domain] = BreakerStatus{
			FailureCount:    state.failureCount,
			LastFailureTime: state.lastFailureTime,
			Open:            state.failureCount >= b.threshold,
		}
	}
	return out
}

// Reset clears the breaker for one domain.
func (b *CircuitBreaker) Reset(domain string) {
	b.mu.Lock()
	delete(b.domains, domain)
	b.mu.Unlock()
}

// ResetAll clears every breaker.
func (b *CircuitBreaker) ResetAll() {
	b.mu.Lock()
	b.domains = make(map[string]*breakerState)
	b.mu.Unlock()
}
