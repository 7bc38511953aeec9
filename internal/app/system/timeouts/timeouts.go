// Package timeouts provides centralized timeout values for assistant
// operations.
//
// Every data-store read and every completion call runs under one of these
// budgets so that a hung dependency fails one turn instead of blocking it
// forever. Values are set once at startup with Configure.
//
// Choosing a timeout:
//   - Ping: health checks and connectivity verification
//   - Lookup: single-document reads (campaign by name, phase day by id)
//   - Query: capped list reads for structured queries
//   - Join: a whole multi-hop context build or task listing
//   - Completion: one generative completion request
package timeouts

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing       = 2 * time.Second
	DefaultLookup     = 5 * time.Second
	DefaultQuery      = 10 * time.Second
	DefaultJoin       = 20 * time.Second
	DefaultCompletion = 60 * time.Second
)

var mu sync.RWMutex

var (
	ping       = DefaultPing
	lookup     = DefaultLookup
	query      = DefaultQuery
	join       = DefaultJoin
	completion = DefaultCompletion
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Lookup returns the timeout for single-document reads.
func Lookup() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return lookup
}

// Query returns the timeout for capped list reads.
func Query() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return query
}

// Join returns the timeout for a complete multi-collection read sequence.
func Join() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return join
}

// Completion returns the timeout for one generative completion request.
func Completion() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return completion
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping       time.Duration
	Lookup     time.Duration
	Query      time.Duration
	Join       time.Duration
	Completion time.Duration
}

// Configure sets custom timeout values. Zero values in the config are
// ignored, keeping the current values. Call during startup before handlers
// are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Lookup > 0 {
		lookup = cfg.Lookup
	}
	if cfg.Query > 0 {
		query = cfg.Query
	}
	if cfg.Join > 0 {
		join = cfg.Join
	}
	if cfg.Completion > 0 {
		completion = cfg.Completion
	}
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	lookup = DefaultLookup
	query = DefaultQuery
	join = DefaultJoin
	completion = DefaultCompletion
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{
		Ping:       ping,
		Lookup:     lookup,
		Query:      query,
		Join:       join,
		Completion: completion,
	}
}

// WithTimeout creates a context with timeout and returns a cancel function
// that logs a warning if the deadline was exceeded.
//
//	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Join(), log, "build campaign context")
//	defer cancel()
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if ctx.Err() == context.DeadlineExceeded && log != nil {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout),
			)
		}
		cancel()
	}
}
