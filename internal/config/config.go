// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

// Package config loads service configuration in three layers: struct
// defaults, an optional YAML file, then environment variables.
//
// Environment variables are mapped explicitly (see envMappings); anything
// not in the table is ignored so unrelated variables never leak into the
// configuration.
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Invalid configuration")
//	}
package config

import "time"

// Config is the complete service configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Astrology AstrologyConfig `koanf:"astrology"`
	Geocoder  GeocoderConfig  `koanf:"geocoder"`
	Security  SecurityConfig  `koanf:"security"`
	Wheel     WheelConfig     `koanf:"wheel"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	// MaxBodyBytes caps JSON request bodies.
	MaxBodyBytes int64 `koanf:"max_body_bytes"`
	// Environment is development, staging or production.
	Environment string `koanf:"environment"`
}

// BreakerConfig tunes a gobreaker circuit breaker.
type BreakerConfig struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32 `koanf:"max_requests"`
	// Interval clears counts while closed. Zero never clears.
	Interval time.Duration `koanf:"interval"`
	// Timeout is how long the breaker stays open.
	Timeout time.Duration `koanf:"timeout"`
	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// AstrologyConfig configures the upstream astrology API.
//
// Environment Variables:
//   - ASTROLOGY_API_KEY: bearer token (required for chart routes)
//   - ASTROLOGY_API_URL: base URL (default: https://api.astrology-api.io)
//   - ASTROLOGY_TIMEOUT: per-request timeout (default: 30s)
type AstrologyConfig struct {
	APIKey       string        `koanf:"api_key"`
	BaseURL      string        `koanf:"base_url"`
	Timeout      time.Duration `koanf:"timeout"`
	HouseSystem  string        `koanf:"house_system"`
	ZodiacSystem string        `koanf:"zodiac_system"`
	SubjectName  string        `koanf:"subject_name"`
	RenderWidth  int           `koanf:"render_width"`
	RenderScale  float64       `koanf:"render_scale"`
	Breaker      BreakerConfig `koanf:"breaker"`
}

// GeocoderConfig configures the Nominatim-compatible geocoding service.
type GeocoderConfig struct {
	BaseURL   string        `koanf:"base_url"`
	UserAgent string        `koanf:"user_agent"`
	Language  string        `koanf:"language"`
	Timeout   time.Duration `koanf:"timeout"`
	Breaker   BreakerConfig `koanf:"breaker"`
}

// SecurityConfig holds CORS and rate limit settings.
type SecurityConfig struct {
	CORSOrigins []string `koanf:"cors_origins"`

	// Global per-IP limit applied to every API route (httprate).
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// Per-client token bucket on the geocode route.
	GeocodeRate   float64       `koanf:"geocode_rate"`
	GeocodeBurst  int           `koanf:"geocode_burst"`
	ClientIdleTTL time.Duration `koanf:"client_idle_ttl"`
	MaxClients    int           `koanf:"max_clients"`
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// WheelConfig controls natal wheel rendering defaults.
type WheelConfig struct {
	Size     float64 `koanf:"size"`
	Format   string  `koanf:"format"`
	PNGScale int     `koanf:"png_scale"`
}

// LoggingConfig mirrors logging.Config.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json or console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the HTTP listener.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}

// IsProduction reports whether the service runs in production mode.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// HasAPIKey reports whether chart routes can reach the astrology API.
func (a AstrologyConfig) HasAPIKey() bool {
	return a.APIKey != ""
}
