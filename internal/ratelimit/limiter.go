// Natalchart - Birth Chart Rendering Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/natalchart

// Package ratelimit provides per-client token buckets with bounded memory.
//
// Buckets idle longer than IdleTTL are removed by Sweep, and the number of
// tracked clients never exceeds MaxEntries: inserting a new client when full
// evicts the least recently used one.
package ratelimit

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/simplelru"
	"golang.org/x/time/rate"

	"github.com/tomtom215/natalchart/internal/metrics"
)

// Config configures a Limiter.
type Config struct {
	// Name labels the limiter in metrics and logs.
	Name string
	// Rate is the sustained number of requests per second per client.
	Rate float64
	// Burst is the bucket size.
	Burst int
	// IdleTTL is how long an untouched bucket survives a sweep. Default 10m.
	IdleTTL time.Duration
	// MaxEntries caps tracked clients. Default 10000.
	MaxEntries int
}

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter hands out one token bucket per key.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	clients *simplelru.LRU
	now     func() time.Time
}

// New creates a Limiter.
func New(cfg Config) *Limiter {
	if cfg.Name == "" {
		cfg.Name = "default"
	}
	if cfg.Rate <= 0 {
		cfg.Rate = 1
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}
	// Only fails for a non-positive size.
	clients, _ := simplelru.NewLRU(cfg.MaxEntries, nil)
	return &Limiter{cfg: cfg, clients: clients, now: time.Now}
}

// Name returns the metrics label.
func (l *Limiter) Name() string {
	return l.cfg.Name
}

// Allow reports whether key may proceed now, consuming a token if so.
func (l *Limiter) Allow(key string) bool {
	ok, _ := l.Reserve(key)
	return ok
}

// Reserve is Allow that also returns how long a rejected caller should wait
// before the next token is available.
func (l *Limiter) Reserve(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := l.touch(key, now)
	r := e.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, 0
	}
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		metrics.RecordRateLimitRejection(l.cfg.Name)
		return false, delay
	}
	return true, 0
}

func (l *Limiter) touch(key string, now time.Time) *entry {
	if v, ok := l.clients.Get(key); ok {
		e := v.(*entry)
		e.lastSeen = now
		return e
	}
	e := &entry{
		limiter:  rate.NewLimiter(rate.Limit(l.cfg.Rate), l.cfg.Burst),
		lastSeen: now,
	}
	if evicted := l.clients.Add(key, e); evicted {
		metrics.RateLimitEvictions.WithLabelValues(l.cfg.Name, "capacity").Inc()
	}
	metrics.RateLimitTrackedClients.WithLabelValues(l.cfg.Name).Set(float64(l.clients.Len()))
	return e
}

// Sweep removes buckets idle for longer than IdleTTL and returns how many
// were removed.
func (l *Limiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.cfg.IdleTTL)
	removed := 0
	for {
		_, v, ok := l.clients.GetOldest()
		if !ok || !v.(*entry).lastSeen.Before(cutoff) {
			break
		}
		l.clients.RemoveOldest()
		removed++
	}
	if removed > 0 {
		metrics.RateLimitEvictions.WithLabelValues(l.cfg.Name, "idle").Add(float64(removed))
	}
	metrics.RateLimitTrackedClients.WithLabelValues(l.cfg.Name).Set(float64(l.clients.Len()))
	return removed
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.clients.Len()
}
