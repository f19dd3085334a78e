package realtime

import "encoding/json"

// Event type names understood by the coordination service.
const (
	EventStateUpdate  = "state_update"
	EventChatMessage  = "chat_message"
	EventModeSwitch   = "mode_switch"
	EventLimbicUpdate = "limbic_update"
	EventSyncRequest  = "sync_request"
	EventPing         = "ping"

	// EventConnectionChange is synthesized locally whenever the connection
	// state changes. It never originates from the remote side.
	EventConnectionChange = "connection_change"
)

const msgTypePong = "pong"

// Envelope is the unit of data exchanged over the connection.
// It is immutable once constructed.
type Envelope struct {
	EventType string          `json:"event_type"`
	Platform  string          `json:"platform,omitempty"`
	UserID    string          `json:"user_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
	EventID   string          `json:"event_id,omitempty"`
}

// ConnectionState reports the client connectivity as seen by subscribers.
// Connected == true implies Error is empty.
type ConnectionState struct {
	Connected         bool   `json:"connected"`
	Platform          string `json:"platform"`
	LastSyncTimestamp string `json:"last_sync_timestamp,omitempty"`
	Error             string `json:"error,omitempty"`
}

// Handler consumes envelopes dispatched for a single event type.
type Handler func(Envelope)

// Observer receives a copy of every envelope the client dispatches or
// transmits. Used for journaling; must not block.
type Observer interface {
	ObserveInbound(Envelope)
	ObserveOutbound(Envelope)
}

// outboundMessage is the wire shape for client-originated messages.
// The remote side stamps authoritative timestamp and event id.
type outboundMessage struct {
	EventType string `json:"event_type"`
	Data      any    `json:"data"`
}

// inboundMessage is the superset of wire shapes the client recognizes.
type inboundMessage struct {
	Type      string          `json:"type"`
	EventType string          `json:"event_type"`
	Platform  string          `json:"platform"`
	UserID    string          `json:"user_id"`
	Data      json.RawMessage `json:"data"`
	Timestamp string          `json:"timestamp"`
	EventID   string          `json:"event_id"`
}

func (m inboundMessage) envelope(eventType string) Envelope {
	return Envelope{
		EventType: eventType,
		Platform:  m.Platform,
		UserID:    m.UserID,
		Data:      m.Data,
		Timestamp: m.Timestamp,
		EventID:   m.EventID,
	}
}
