package realtime

import "time"

// Policy defines reconnect behavior after a failed or closed connection.
type Policy struct {
	// BaseDelay is the delay before the first reconnect attempt.
	BaseDelay time.Duration
	// MaxDelay caps the escalated delay.
	MaxDelay time.Duration
	// MaxAttempts is the number of consecutive failures tolerated before
	// the client stops retrying. Zero disables reconnection entirely.
	MaxAttempts int
}

// DefaultPolicy returns the reconnect defaults the coordination service
// expects clients to follow.
func DefaultPolicy() Policy {
	return Policy{
		BaseDelay:   1 * time.Second,
		MaxDelay:    30 * time.Second,
		MaxAttempts: 5,
	}
}

func (p Policy) withDefaults() Policy {
	if p.BaseDelay <= 0 {
		p.BaseDelay = 1 * time.Second
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = 30 * time.Second
	}
	if p.MaxDelay < p.BaseDelay {
		p.MaxDelay = p.BaseDelay
	}
	return p
}

// DelayFor returns the delay scheduled before reconnect attempt k (1-based).
// The delay doubles each attempt starting from BaseDelay, capped at MaxDelay.
func (p Policy) DelayFor(attempt int) time.Duration {
	p = p.withDefaults()
	if attempt <= 1 {
		return p.BaseDelay
	}
	wait := p.BaseDelay
	for i := 1; i < attempt; i++ {
		next := wait * 2
		if next >= p.MaxDelay {
			return p.MaxDelay
		}
		wait = next
	}
	return wait
}
