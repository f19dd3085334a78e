package schema

import "encoding/json"

// SharedState is the payload for state_update events: the authoritative
// application state pushed by the coordination service. Individual fields
// are application-defined key/value pairs.
type SharedState struct {
	Mode   string                     `json:"mode,omitempty"`
	Values map[string]json.RawMessage `json:"values,omitempty"`
}

// ChatMessage is the payload for chat_message events.
type ChatMessage struct {
	Text      string `json:"text"`
	Sender    string `json:"sender,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ModeSwitch is the payload for mode_switch events.
type ModeSwitch struct {
	Mode string `json:"mode"`
}

// LimbicUpdate is the payload for limbic_update events: named affect
// levels in the range [0, 1].
type LimbicUpdate struct {
	Levels map[string]float64 `json:"levels"`
}

// SyncRequest is the payload for sync_request events. The remote side
// resolves identity from the connection path, so the payload is empty.
type SyncRequest struct{}

// Opaque is the fallback payload for event types without a registered
// shape.
type Opaque struct {
	Raw json.RawMessage
}
