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

package api

import (
	"encoding/json"
	"net/http"
	"time"

	"Folio/pkg/engine/core"
	"Folio/pkg/errors"
)

type errorResponse struct {
	Error     string `json:"error"`
	Details   string `json:"details,omitempty"`
	Retryable bool   `json:"retryable"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message, Retryable: errors.Retryable(err)}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":          "OK",
		"timestamp":       time.Now().UTC().Format(time.RFC3339),
		"sources":         s.engine.Sources.Count(),
		"caches":          s.engine.Caches.Sizes(),
		"circuitBreakers": s.engine.Robust.Breaker().Snapshot(),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		writeError(w, http.StatusBadRequest, "Query parameter is required", nil)
		return
	}
	writeJSON(w, http.StatusOK, s.engine.SearchBooks(r.Context(), query))
}

func (s *Server) handleBook(w http.ResponseWriter, r *http.Request) {
	src := core.ParseSource(r.PathValue("source"))
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL parameter is required", nil)
		return
	}

	details, err := s.engine.BookDetails(r.Context(), src, url)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch book details", err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	src := core.ParseSource(r.PathValue("source"))
	url := r.URL.Query().Get("url")
	if url == "" {
		writeError(w, http.StatusBadRequest, "URL parameter is required", nil)
		return
	}

	content, err := s.engine.ChapterContent(r.Context(), src, url)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to fetch chapter content", err)
		return
	}
	writeJSON(w, http.StatusOK, content)
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Type string `json:"type"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	if !s.engine.Caches.ClearKind(body.Type) {
		writeError(w, http.StatusBadRequest,
			"Invalid cache type. Use: search, details, chapters, or all", nil)
		return
	}
	kind := body.Type
	if kind == "" {
		kind = "all"
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": kind + " cache cleared"})
}

func (s *Server) handleBreakerReset(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Domain string `json:"domain"`
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}

	breaker := s.engine.Robust.Breaker()
	if body.Domain != "" {
		breaker.Reset(body.Domain)
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Circuit breaker reset for " + body.Domain,
		})
		return
	}
	breaker.ResetAll()
	writeJSON(w, http.StatusOK, map[string]string{"message": "All circuit breakers reset"})
}
