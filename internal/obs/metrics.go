// Package obs collects lightweight in-memory counters over sync traffic.
// A Metrics value plugs into the client as an Observer and costs a map
// update per envelope; snapshots are for shutdown summaries and debugging.
package obs

import (
	"sync"
	"sync/atomic"
	"time"

	"main/internal/realtime"
)

// Metrics counts envelopes per event type and direction and tracks the
// delivery delay between an envelope's own timestamp and local receipt.
type Metrics struct {
	mu       sync.Mutex
	inbound  map[string]uint64
	outbound map[string]uint64

	deliveryDelay LatencyStats
}

// LatencyStats aggregates duration samples in nanoseconds.
type LatencyStats struct {
	count uint64
	sum   uint64
	min   uint64
	max   uint64
}

// LatencySnapshot is a point-in-time view of latency stats.
type LatencySnapshot struct {
	Count uint64
	Min   time.Duration
	Max   time.Duration
	Avg   time.Duration
}

// Snapshot captures the current metrics values.
type Snapshot struct {
	Inbound       map[string]uint64
	Outbound      map[string]uint64
	DeliveryDelay LatencySnapshot
}

// NewMetrics allocates a metrics container.
func NewMetrics() *Metrics {
	return &Metrics{
		inbound:  make(map[string]uint64),
		outbound: make(map[string]uint64),
	}
}

// ObserveInbound implements realtime.Observer.
func (m *Metrics) ObserveInbound(env realtime.Envelope) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.inbound[env.EventType]++
	m.mu.Unlock()

	if env.Timestamp == "" {
		return
	}
	// Delivery delay is best effort; skip envelopes whose timestamp does
	// not parse or sits ahead of the local clock.
	if ts, err := time.Parse(time.RFC3339, env.Timestamp); err == nil {
		if delta := time.Since(ts); delta >= 0 {
			m.deliveryDelay.Observe(delta)
		}
	}
}

// ObserveOutbound implements realtime.Observer.
func (m *Metrics) ObserveOutbound(env realtime.Envelope) {
	if m == nil {
		return
	}
	m.mu.Lock()
	m.outbound[env.EventType]++
	m.mu.Unlock()
}

// Snapshot returns a copy of the current metrics values.
func (m *Metrics) Snapshot() Snapshot {
	if m == nil {
		return Snapshot{}
	}
	m.mu.Lock()
	inbound := make(map[string]uint64, len(m.inbound))
	for k, v := range m.inbound {
		inbound[k] = v
	}
	outbound := make(map[string]uint64, len(m.outbound))
	for k, v := range m.outbound {
		outbound[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		Inbound:       inbound,
		Outbound:      outbound,
		DeliveryDelay: m.deliveryDelay.Snapshot(),
	}
}

// Observe records a duration sample.
func (l *LatencyStats) Observe(d time.Duration) {
	if d < 0 {
		return
	}
	nanos := uint64(d)
	atomic.AddUint64(&l.count, 1)
	atomic.AddUint64(&l.sum, nanos)

	for {
		min := atomic.LoadUint64(&l.min)
		if min != 0 && nanos >= min {
			break
		}
		if atomic.CompareAndSwapUint64(&l.min, min, nanos) {
			break
		}
	}

	for {
		max := atomic.LoadUint64(&l.max)
		if nanos <= max {
			break
		}
		if atomic.CompareAndSwapUint64(&l.max, max, nanos) {
			break
		}
	}
}

// Snapshot returns the aggregated latency stats.
func (l *LatencyStats) Snapshot() LatencySnapshot {
	count := atomic.LoadUint64(&l.count)
	if count == 0 {
		return LatencySnapshot{}
	}
	sum := atomic.LoadUint64(&l.sum)
	min := atomic.LoadUint64(&l.min)
	max := atomic.LoadUint64(&l.max)
	return LatencySnapshot{
		Count: count,
		Min:   time.Duration(min),
		Max:   time.Duration(max),
		Avg:   time.Duration(sum / count),
	}
}

// Fanout combines observers so traffic can feed the journal and the
// metrics at the same time. Nil observers are skipped.
func Fanout(observers ...realtime.Observer) realtime.Observer {
	filtered := make([]realtime.Observer, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	return fanout(filtered)
}

type fanout []realtime.Observer

func (f fanout) ObserveInbound(env realtime.Envelope) {
	for _, o := range f {
		o.ObserveInbound(env)
	}
}

func (f fanout) ObserveOutbound(env realtime.Envelope) {
	for _, o := range f {
		o.ObserveOutbound(env)
	}
}
