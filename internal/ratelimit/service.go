// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

package ratelimit

import (
	"context"
	"time"

	"github.com/tomtom215/natalchart/internal/logging"
)

// Service sweeps a Limiter on an interval. It implements suture.Service.
type Service struct {
	limiter  *Limiter
	interval time.Duration
}

// NewService creates a sweeper. interval defaults to one minute.
func NewService(l *Limiter, interval time.Duration) *Service {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Service{limiter: l, interval: interval}
}

// Serve sweeps until ctx is canceled.
func (s *Service) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.limiter.Sweep(); n > 0 {
				logging.Debug().Str("limiter", s.limiter.Name()).Int("removed", n).Msg("Swept idle rate limit buckets")
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// String names the sweeper in supervisor events.
func (s *Service) String() string {
	return "ratelimit-sweeper-" + s.limiter.Name()
}
