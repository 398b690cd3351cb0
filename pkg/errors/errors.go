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

package errors

import stderrors "errors"

var (
	As     = stderrors.As
	Is     = stderrors.Is
	New    = stderrors.New
	Unwrap = stderrors.Unwrap
)

var (
	ErrNotFound    = stderrors.New("resource not found")
	ErrBlocked     = stderrors.New("access blocked by target site")
	ErrRateLimited = stderrors.New("rate limit exceeded")
	ErrServer      = stderrors.New("target server error")
	ErrTimeout     = stderrors.New("operation timed out")
	ErrCircuitOpen = stderrors.New("circuit breaker open")
	ErrNoContent   = stderrors.New("no usable content extracted")
	ErrBadRequest  = stderrors.New("bad request")
)

func IsNotFound(err error) bool    { return Is(err, ErrNotFound) }
func IsBlocked(err error) bool     { return Is(err, ErrBlocked) }
func IsRateLimited(err error) bool { return Is(err, ErrRateLimited) }
func IsCircuitOpen(err error) bool { return Is(err, ErrCircuitOpen) }

// Retryable reports whether a caller could plausibly succeed by simply
// trying again later. Circuit-open failures are the canonical
// non-retryable case: the breaker already decided further attempts are
// pointless until the cooldown elapses.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if Is(err, ErrCircuitOpen) || Is(err, ErrNotFound) || Is(err, ErrBadRequest) {
		return false
	}
	return true
}
