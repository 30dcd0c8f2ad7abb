// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/tomtom215/natalchart/internal/logging"
	"github.com/tomtom215/natalchart/internal/wheel"
)

// Validate checks ranges and formats. A missing astrology API key is not an
// error: the service starts and chart routes answer with a config error.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := validateHTTPURL(c.Astrology.BaseURL, "ASTROLOGY_API_URL"); err != nil {
		return err
	}
	if err := validateHTTPURL(c.Geocoder.BaseURL, "GEOCODER_URL"); err != nil {
		return err
	}
	if err := c.validateAstrology(); err != nil {
		return err
	}
	if err := c.validateGeocoder(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateWheel(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024, got %d", c.Server.MaxBodyBytes)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateAstrology() error {
	a := c.Astrology
	if err := validatePositiveDuration(a.Timeout, "ASTROLOGY_TIMEOUT"); err != nil {
		return err
	}
	if a.RenderWidth < 100 || a.RenderWidth > 4000 {
		return fmt.Errorf("ASTROLOGY_RENDER_WIDTH must be between 100 and 4000, got %d", a.RenderWidth)
	}
	if a.RenderScale <= 0 || a.RenderScale > 4 {
		return fmt.Errorf("ASTROLOGY_RENDER_SCALE must be in (0, 4], got %v", a.RenderScale)
	}
	if strings.TrimSpace(a.HouseSystem) == "" || strings.TrimSpace(a.ZodiacSystem) == "" {
		return fmt.Errorf("astrology house_system and zodiac_system are required")
	}
	return validateBreaker(a.Breaker, "astrology")
}

func (c *Config) validateGeocoder() error {
	if strings.TrimSpace(c.Geocoder.UserAgent) == "" {
		return fmt.Errorf("GEOCODER_USER_AGENT is required by the geocoding usage policy")
	}
	if err := validatePositiveDuration(c.Geocoder.Timeout, "GEOCODER_TIMEOUT"); err != nil {
		return err
	}
	return validateBreaker(c.Geocoder.Breaker, "geocoder")
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if len(s.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must list at least one origin")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 || s.RateLimitReqs > 100000 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be between 1 and 100000, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow < time.Second {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be at least 1s, got %v", s.RateLimitWindow)
		}
	}
	if s.GeocodeRate <= 0 {
		return fmt.Errorf("GEOCODE_RATE must be positive, got %v", s.GeocodeRate)
	}
	if s.GeocodeBurst < 1 {
		return fmt.Errorf("GEOCODE_BURST must be at least 1, got %d", s.GeocodeBurst)
	}
	if s.MaxClients < 1 {
		return fmt.Errorf("MAX_CLIENTS must be at least 1, got %d", s.MaxClients)
	}
	if err := validatePositiveDuration(s.ClientIdleTTL, "CLIENT_IDLE_TTL"); err != nil {
		return err
	}
	return validatePositiveDuration(s.SweepInterval, "security.sweep_interval")
}

func (c *Config) validateWheel() error {
	if c.Wheel.Size < 100 || c.Wheel.Size > 4000 {
		return fmt.Errorf("WHEEL_SIZE must be between 100 and 4000, got %v", c.Wheel.Size)
	}
	if _, err := wheel.ParseFormat(c.Wheel.Format); err != nil {
		return fmt.Errorf("WHEEL_FORMAT: %w", err)
	}
	if c.Wheel.PNGScale < wheel.MinPNGScale || c.Wheel.PNGScale > wheel.MaxPNGScale {
		return fmt.Errorf("WHEEL_PNG_SCALE must be between %d and %d, got %d",
			wheel.MinPNGScale, wheel.MaxPNGScale, c.Wheel.PNGScale)
	}
	if err := wheel.CheckRaster(c.Wheel.Size, c.Wheel.PNGScale); err != nil {
		return fmt.Errorf("WHEEL_SIZE x WHEEL_PNG_SCALE: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL %q is not a known level", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
		return nil
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
}

func validateBreaker(b BreakerConfig, name string) error {
	if b.FailureThreshold < 1 {
		return fmt.Errorf("%s breaker failure_threshold must be at least 1", name)
	}
	if b.MaxRequests < 1 {
		return fmt.Errorf("%s breaker max_requests must be at least 1", name)
	}
	return validatePositiveDuration(b.Timeout, name+" breaker timeout")
}

func validatePositiveDuration(d time.Duration, name string) error {
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %v", name, d)
	}
	return nil
}

// validateHTTPURL accepts http(s) base URLs with a host and no query.
func validateHTTPURL(rawURL, fieldName string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if u.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters", fieldName)
	}
	return nil
}
