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

// Package config loads server configuration from the environment,
// with .env support for local development.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full server configuration.
type Config struct {
	Port     string
	LogLevel string
	LogFile  string

	ProxyURL      string
	FallbackProxy string
	MaxRetries    int

	SearchTTL   time.Duration
	DetailsTTL  time.Duration
	ChaptersTTL time.Duration

	BreakerThreshold int
	BreakerReset     time.Duration

	GapProbe bool
	MaxPages int

	SearchConcurrency int
	SearchTimeout     time.Duration
}

// Load reads configuration from the environment. A .env file in the
// working directory is applied first when present; real environment
// variables win over it.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),

		ProxyURL:      getEnv("PROXY_URL", ""),
		FallbackProxy: getEnv("FALLBACK_PROXY", "https://r.jina.ai/"),
		MaxRetries:    getEnvInt("MAX_RETRIES", 3),

		SearchTTL:   getEnvDuration("SEARCH_CACHE_TTL", 10*time.Minute),
		DetailsTTL:  getEnvDuration("DETAILS_CACHE_TTL", 30*time.Minute),
		ChaptersTTL: getEnvDuration("CHAPTERS_CACHE_TTL", 60*time.Minute),

		BreakerThreshold: getEnvInt("BREAKER_THRESHOLD", 5),
		BreakerReset:     getEnvDuration("BREAKER_RESET", time.Minute),

		GapProbe: getEnvBool("GAP_PROBE", false),
		MaxPages: getEnvInt("MAX_CHAPTER_PAGES", 20),

		SearchConcurrency: getEnvInt("SEARCH_CONCURRENCY", 3),
		SearchTimeout:     getEnvDuration("SEARCH_TIMEOUT", 30*time.Second),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
