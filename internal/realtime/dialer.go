package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"main/pkg/exception"

	"github.com/gorilla/websocket"
)

const (
	defaultHandshakeTimeout = 10 * time.Second
	defaultWriteTimeout     = 10 * time.Second
)

// Dialer opens a connection to the coordination endpoint.
type Dialer interface {
	Dial(ctx context.Context, endpoint string) (Conn, error)
}

// Conn is a single live transport instance. Replaced, never mutated, on
// every reconnect.
type Conn interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Close() error
}

type wsDialer struct {
	handshakeTimeout time.Duration
	writeTimeout     time.Duration
	header           http.Header
}

// NewDialer returns the production WebSocket dialer.
func NewDialer() Dialer {
	return &wsDialer{
		handshakeTimeout: defaultHandshakeTimeout,
		writeTimeout:     defaultWriteTimeout,
	}
}

func (d *wsDialer) Dial(ctx context.Context, endpoint string) (Conn, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: d.handshakeTimeout,
	}
	conn, _, err := dialer.DialContext(ctx, endpoint, d.header)
	if err != nil {
		return nil, err
	}
	return &wsConn{conn: conn, writeTimeout: d.writeTimeout}, nil
}

type wsConn struct {
	writeMu      sync.Mutex
	conn         *websocket.Conn
	writeTimeout time.Duration
	closed       bool
}

func (c *wsConn) Read() ([]byte, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType != websocket.TextMessage && msgType != websocket.BinaryMessage {
			continue
		}
		return data, nil
	}
}

func (c *wsConn) Write(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return exception.ErrConnectionClose
	}
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return err
		}
	}
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

func (c *wsConn) Close() error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second),
	)
	return c.conn.Close()
}
