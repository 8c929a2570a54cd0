// Package timeouts holds the process-wide deadlines handlers put on database
// and other I/O work.
//
// Tiers, shortest first:
//   - Ping: health checks
//   - Short: single-document reads and lookups
//   - Medium: list queries and ordinary writes
//   - Long: writes that span collections
//   - Batch: seed loads and background sweeps
package timeouts

import (
	"context"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultPing   = 2 * time.Second
	DefaultShort  = 5 * time.Second
	DefaultMedium = 10 * time.Second
	DefaultLong   = 30 * time.Second
	DefaultBatch  = 60 * time.Second
)

// Config is a full set of tier values. Zero fields mean "leave unchanged"
// when passed to Configure.
type Config struct {
	Ping   time.Duration
	Short  time.Duration
	Medium time.Duration
	Long   time.Duration
	Batch  time.Duration
}

func defaults() Config {
	return Config{
		Ping:   DefaultPing,
		Short:  DefaultShort,
		Medium: DefaultMedium,
		Long:   DefaultLong,
		Batch:  DefaultBatch,
	}
}

var (
	mu  sync.RWMutex
	cur = defaults()
)

func get(pick func(Config) time.Duration) time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return pick(cur)
}

func Ping() time.Duration   { return get(func(c Config) time.Duration { return c.Ping }) }
func Short() time.Duration  { return get(func(c Config) time.Duration { return c.Short }) }
func Medium() time.Duration { return get(func(c Config) time.Duration { return c.Medium }) }
func Long() time.Duration   { return get(func(c Config) time.Duration { return c.Long }) }
func Batch() time.Duration  { return get(func(c Config) time.Duration { return c.Batch }) }

// Configure overrides the tiers whose value in cfg is positive.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	merge(&cur.Ping, cfg.Ping)
	merge(&cur.Short, cfg.Short)
	merge(&cur.Medium, cfg.Medium)
	merge(&cur.Long, cfg.Long)
	merge(&cur.Batch, cfg.Batch)
}

func merge(dst *time.Duration, v time.Duration) bool {
	if v <= 0 {
		return false
	}
	*dst = v
	return true
}

// Reset restores the defaults. Tests use it in t.Cleanup.
func Reset() {
	mu.Lock()
	cur = defaults()
	mu.Unlock()
}

// ConfigureFromEnv reads PLACEMENTHUB_TIMEOUT_{PING,SHORT,MEDIUM,LONG,BATCH}
// as Go durations and reports how many were applied. Bad or non-positive
// values are skipped.
func ConfigureFromEnv() int {
	mu.Lock()
	defer mu.Unlock()
	targets := map[string]*time.Duration{
		"PLACEMENTHUB_TIMEOUT_PING":   &cur.Ping,
		"PLACEMENTHUB_TIMEOUT_SHORT":  &cur.Short,
		"PLACEMENTHUB_TIMEOUT_MEDIUM": &cur.Medium,
		"PLACEMENTHUB_TIMEOUT_LONG":   &cur.Long,
		"PLACEMENTHUB_TIMEOUT_BATCH":  &cur.Batch,
	}
	n := 0
	for name, dst := range targets {
		d, err := time.ParseDuration(os.Getenv(name))
		if err == nil && merge(dst, d) {
			n++
		}
	}
	return n
}

// Current returns a copy of the active tiers.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cur
}

// WithTimeout is context.WithTimeout whose cancel func logs a warning when
// the deadline was what ended the context.
func WithTimeout(parent context.Context, timeout time.Duration, log *zap.Logger, operation string) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, func() {
		if log != nil && ctx.Err() == context.DeadlineExceeded {
			log.Warn("operation timed out",
				zap.String("operation", operation),
				zap.Duration("timeout", timeout))
		}
		cancel()
	}
}
