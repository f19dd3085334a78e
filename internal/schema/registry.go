package schema

import (
	"encoding/json"

	"github.com/yanun0323/errors"
)

// decoders maps each known event type to its payload decoder.
var decoders = map[string]func(raw json.RawMessage) (any, error){
	"state_update":  decodeInto[SharedState],
	"chat_message":  decodeInto[ChatMessage],
	"mode_switch":   decodeInto[ModeSwitch],
	"limbic_update": decodeInto[LimbicUpdate],
	"sync_request":  decodeInto[SyncRequest],
}

// Known reports whether the event type has a registered payload shape.
func Known(eventType string) bool {
	_, ok := decoders[eventType]
	return ok
}

// Decode parses a payload into its typed shape. Unknown event types
// return an Opaque payload rather than an error.
func Decode(eventType string, raw json.RawMessage) (any, error) {
	decode, ok := decoders[eventType]
	if !ok {
		return Opaque{Raw: raw}, nil
	}
	payload, err := decode(raw)
	if err != nil {
		return nil, errors.Wrap(err, "decode "+eventType+" payload")
	}
	return payload, nil
}

func decodeInto[T any](raw json.RawMessage) (any, error) {
	var payload T
	if len(raw) == 0 {
		return payload, nil
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, errors.Wrap(err, "unmarshal payload")
	}
	return payload, nil
}
