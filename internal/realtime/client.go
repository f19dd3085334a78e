// Package realtime owns the persistent connection to the coordination
// service: connection lifecycle, reconnect policy, inbound dispatch and
// the outbound send path. Everything else in the application talks to the
// service through a Client.
package realtime

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/yanun0323/logs"
)

// DefaultPlatform is used when Connect is called without a platform.
const DefaultPlatform = "web"

// Config controls client construction. Zero values fall back to defaults.
type Config struct {
	// BaseURL is the http(s) base address of the coordination service.
	BaseURL string
	// Policy is the reconnect policy. Zero value means DefaultPolicy.
	Policy Policy
	// PingInterval is the application heartbeat period. Zero disables it.
	PingInterval time.Duration
	// Dialer overrides the production WebSocket dialer. Used by tests.
	Dialer Dialer
	// Observer receives every inbound and outbound envelope, if set.
	Observer Observer
}

// Client owns at most one live connection to the coordination endpoint
// identified by (platform, userId). Transport failures are never returned
// to callers; they surface through the connection_change pseudo-event.
type Client struct {
	mu sync.Mutex

	cfg      Config
	dialer   Dialer
	registry *registry

	conn     Conn
	state    ConnectionState
	endpoint string
	userID   string
	platform string
	dialCtx  context.Context

	attempts       int
	delay          time.Duration
	reconnectTimer *time.Timer

	// gen invalidates callbacks of replaced connections. Bumped on every
	// dial, disconnect and transport failure.
	gen    uint64
	active bool
}

// New creates a client. The client holds no durable state of its own; it
// re-requests the authoritative state after every successful (re)connect.
func New(cfg Config) *Client {
	if cfg.Policy == (Policy{}) {
		cfg.Policy = DefaultPolicy()
	}
	cfg.Policy = cfg.Policy.withDefaults()
	dialer := cfg.Dialer
	if dialer == nil {
		dialer = NewDialer()
	}
	return &Client{
		cfg:      cfg,
		dialer:   dialer,
		registry: newRegistry(),
		delay:    cfg.Policy.BaseDelay,
	}
}

// Connect opens the connection for (userId, platform) and returns
// immediately; completion is observed through connection_change.
// Idempotent while already connected with the same identity.
func (c *Client) Connect(ctx context.Context, userID, platform string) error {
	if platform == "" {
		platform = DefaultPlatform
	}
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	if c.active && c.state.Connected && c.userID == userID && c.platform == platform {
		c.mu.Unlock()
		return nil
	}

	endpoint, err := Endpoint(c.cfg.BaseURL, platform, userID)
	if err != nil {
		c.mu.Unlock()
		return err
	}

	c.stopReconnectTimerLocked()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}

	c.endpoint = endpoint
	c.userID = userID
	c.platform = platform
	c.dialCtx = ctx
	c.state.Platform = platform
	c.active = true

	// An explicit connect restarts the retry budget.
	c.attempts = 0
	c.delay = c.cfg.Policy.BaseDelay

	c.gen++
	gen := c.gen
	c.mu.Unlock()

	go c.open(ctx, gen, endpoint)
	return nil
}

// Disconnect closes the connection, cancels any pending reconnect timer
// and suppresses all further automatic reconnection until Connect is
// called again.
func (c *Client) Disconnect() {
	c.mu.Lock()
	c.active = false
	c.gen++
	c.stopReconnectTimerLocked()
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state.Connected = false
	c.state.Error = ""
	state := c.state
	c.mu.Unlock()

	c.notifyConnectionChange(state)
}

// SendEvent transmits an envelope if the connection is currently open.
// While disconnected it drops the event with a warning; sends are never
// queued across disconnection.
func (c *Client) SendEvent(eventType string, data any) {
	c.mu.Lock()
	conn := c.conn
	connected := c.state.Connected
	c.mu.Unlock()

	if !connected || conn == nil {
		logs.Warnf("sync: drop outbound %q, reason: not connected", eventType)
		return
	}
	c.transmit(conn, eventType, data)
}

// OnEvent registers the single handler for an event type, replacing any
// previous one. The returned subscription unregisters it on Cancel.
func (c *Client) OnEvent(eventType string, handler Handler) *Subscription {
	return c.registry.set(eventType, handler)
}

// OffEvent removes the handler for an event type.
func (c *Client) OffEvent(eventType string) {
	c.registry.remove(eventType)
}

// ConnectionState returns a copy of the current connection state.
func (c *Client) ConnectionState() ConnectionState {
	c.mu.Lock()
	state := c.state
	c.mu.Unlock()
	return state
}

func (c *Client) open(ctx context.Context, gen uint64, endpoint string) {
	conn, err := c.dialer.Dial(ctx, endpoint)

	c.mu.Lock()
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		if conn != nil {
			_ = conn.Close()
		}
		return
	}

	if err != nil {
		logs.Warnf("sync: connect %s failed, err: %+v", endpoint, err)
		c.state.Connected = false
		c.state.Error = err.Error()
		state := c.state
		c.scheduleReconnectLocked()
		c.mu.Unlock()

		c.notifyConnectionChange(state)
		return
	}

	c.conn = conn
	c.attempts = 0
	c.delay = c.cfg.Policy.BaseDelay
	c.state.Connected = true
	c.state.Error = ""
	c.state.LastSyncTimestamp = nowTimestamp()
	state := c.state
	ping := c.cfg.PingInterval
	c.mu.Unlock()

	logs.Infof("sync: connected %s", endpoint)
	c.notifyConnectionChange(state)

	// The client is stateless across reconnects; ask the remote side for
	// the authoritative current state on every successful open.
	c.transmit(conn, EventSyncRequest, nil)

	go c.readLoop(gen, conn)
	if ping > 0 {
		go c.heartbeatLoop(gen, ping)
	}
}

func (c *Client) readLoop(gen uint64, conn Conn) {
	for {
		data, err := conn.Read()
		if err != nil {
			c.handleDisconnect(gen, err)
			return
		}
		c.dispatch(data)
	}
}

// dispatch routes one inbound message. Malformed messages are logged and
// swallowed; they never take down the read loop.
func (c *Client) dispatch(data []byte) {
	var msg inboundMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		logs.Errorf("sync: drop malformed message, err: %+v", err)
		return
	}

	var env Envelope
	switch msg.Type {
	case msgTypePong:
		return
	case EventStateUpdate:
		env = msg.envelope(EventStateUpdate)
	default:
		env = msg.envelope(msg.EventType)
	}

	if c.cfg.Observer != nil {
		c.cfg.Observer.ObserveInbound(env)
	}

	if handler, ok := c.registry.get(env.EventType); ok {
		handler(env)
	}

	c.mu.Lock()
	if env.Timestamp != "" {
		c.state.LastSyncTimestamp = env.Timestamp
	}
	state := c.state
	c.mu.Unlock()

	// lastSyncTimestamp is part of the reported state, so subscribers are
	// notified even though connectivity did not change.
	c.notifyConnectionChange(state)
}

func (c *Client) handleDisconnect(gen uint64, err error) {
	c.mu.Lock()
	if gen != c.gen || !c.active {
		c.mu.Unlock()
		return
	}

	logs.Warnf("sync: connection lost, err: %+v", err)
	c.gen++
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.state.Connected = false
	if err != nil {
		c.state.Error = err.Error()
	}
	state := c.state
	c.scheduleReconnectLocked()
	c.mu.Unlock()

	c.notifyConnectionChange(state)
}

func (c *Client) scheduleReconnectLocked() {
	if c.attempts >= c.cfg.Policy.MaxAttempts {
		logs.Warnf("sync: reconnect attempts exhausted (%d), giving up", c.attempts)
		return
	}

	wait := c.delay
	c.attempts++
	c.delay = c.delay * 2
	if c.delay > c.cfg.Policy.MaxDelay {
		c.delay = c.cfg.Policy.MaxDelay
	}

	logs.Infof("sync: reconnect attempt %d/%d in %s", c.attempts, c.cfg.Policy.MaxAttempts, wait)
	c.reconnectTimer = time.AfterFunc(wait, c.redial)
}

func (c *Client) redial() {
	c.mu.Lock()
	if !c.active || c.state.Connected {
		c.mu.Unlock()
		return
	}
	c.reconnectTimer = nil
	c.gen++
	gen := c.gen
	ctx := c.dialCtx
	endpoint := c.endpoint
	c.mu.Unlock()

	c.open(ctx, gen, endpoint)
}

func (c *Client) heartbeatLoop(gen uint64, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		stale := gen != c.gen
		conn := c.conn
		connected := c.state.Connected
		c.mu.Unlock()

		if stale {
			return
		}
		if connected && conn != nil {
			c.transmit(conn, EventPing, nil)
		}
	}
}

func (c *Client) transmit(conn Conn, eventType string, data any) {
	payload, err := json.Marshal(outboundMessage{EventType: eventType, Data: data})
	if err != nil {
		logs.Errorf("sync: marshal outbound %q, err: %+v", eventType, err)
		return
	}
	if err := conn.Write(payload); err != nil {
		logs.Warnf("sync: write outbound %q, err: %+v", eventType, err)
		return
	}

	if c.cfg.Observer != nil {
		raw, _ := json.Marshal(data)
		c.mu.Lock()
		platform, userID := c.platform, c.userID
		c.mu.Unlock()
		c.cfg.Observer.ObserveOutbound(Envelope{
			EventType: eventType,
			Platform:  platform,
			UserID:    userID,
			Data:      raw,
			Timestamp: nowTimestamp(),
			EventID:   newEventID(),
		})
	}
}

func (c *Client) notifyConnectionChange(state ConnectionState) {
	handler, ok := c.registry.get(EventConnectionChange)
	if !ok {
		return
	}

	data, err := json.Marshal(state)
	if err != nil {
		logs.Errorf("sync: marshal connection state, err: %+v", err)
		return
	}
	handler(Envelope{
		EventType: EventConnectionChange,
		Platform:  state.Platform,
		Data:      data,
		Timestamp: nowTimestamp(),
		EventID:   newEventID(),
	})
}

func (c *Client) stopReconnectTimerLocked() {
	if c.reconnectTimer != nil {
		c.reconnectTimer.Stop()
		c.reconnectTimer = nil
	}
}

func nowTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// newEventID keeps the timestamp prefix for log ordering and a UUID suffix
// for uniqueness.
func newEventID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + uuid.NewString()
}
