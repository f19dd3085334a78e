// Package chaos wraps a dialer with seeded fault injection for soak
// testing the reconnection path against flaky networks.
package chaos

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"main/internal/realtime"

	"github.com/yanun0323/errors"
)

// Config controls fault injection behavior.
type Config struct {
	// Seed makes a run reproducible. Zero seeds from the clock.
	Seed int64
	// DialFailRate is the probability in [0, 1] that a dial attempt is
	// refused outright.
	DialFailRate float64
	// MaxDialDelay stretches successful dials by a random duration up to
	// this bound. Zero disables the delay.
	MaxDialDelay time.Duration
	// MaxConnLifetime cuts an established connection after a random
	// lifetime up to this bound. Zero keeps connections alive.
	MaxConnLifetime time.Duration
}

// Validate ensures the config is within supported ranges.
func (c Config) Validate() error {
	if c.DialFailRate < 0 || c.DialFailRate > 1 {
		return errors.New("dialFailRate must be between 0 and 1")
	}
	if c.MaxDialDelay < 0 {
		return errors.New("maxDialDelay must be >= 0")
	}
	if c.MaxConnLifetime < 0 {
		return errors.New("maxConnLifetime must be >= 0")
	}
	return nil
}

// Dialer injects faults around an inner dialer.
type Dialer struct {
	inner realtime.Dialer
	cfg   Config

	mu  sync.Mutex
	rng *rand.Rand
}

// NewDialer validates the config and wraps the inner dialer.
func NewDialer(inner realtime.Dialer, cfg Config) (*Dialer, error) {
	if inner == nil {
		return nil, errors.New("inner dialer is nil")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UTC().UnixNano()
	}
	return &Dialer{
		inner: inner,
		cfg:   cfg,
		rng:   rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// Dial implements realtime.Dialer.
func (d *Dialer) Dial(ctx context.Context, endpoint string) (realtime.Conn, error) {
	if d.roll() < d.cfg.DialFailRate {
		return nil, errors.New("chaos: dial refused")
	}

	if delay := d.randomDelay(d.cfg.MaxDialDelay); delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	conn, err := d.inner.Dial(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	if lifetime := d.randomDelay(d.cfg.MaxConnLifetime); lifetime > 0 {
		time.AfterFunc(lifetime, func() { _ = conn.Close() })
	}
	return conn, nil
}

func (d *Dialer) roll() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.rng.Float64()
}

func (d *Dialer) randomDelay(bound time.Duration) time.Duration {
	if bound <= 0 {
		return 0
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	return time.Duration(d.rng.Int63n(bound.Nanoseconds() + 1))
}
