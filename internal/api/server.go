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

// Package api exposes the read-only content API over HTTP JSON.
package api

import (
	"context"
	"net/http"
	"time"

	"Folio/pkg/engine"
)

// Server serves the HTTP API for one engine.
type Server struct {
	engine *engine.Engine
	http   *http.Server
}

// NewServer creates a server listening on addr.
func NewServer(e *engine.Engine, addr string) *Server {
	s := &Server{engine: e}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/search", s.handleSearch)
	mux.HandleFunc("GET /api/book/{source}", s.handleBook)
	mux.HandleFunc("GET /api/chapter/{source}", s.handleChapter)
	mux.HandleFunc("POST /api/cache/clear", s.handleCacheClear)
	mux.HandleFunc("POST /api/circuit-breakers/reset", s.handleBreakerReset)

	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.withLogging(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

// ListenAndServe runs the server until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.engine.Logger.Info("[API] Listening on %s", s.http.Addr)
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
