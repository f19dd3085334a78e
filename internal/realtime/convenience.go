package realtime

import "main/internal/schema"

// Convenience wrappers. Each one is a fixed mapping from a semantic
// operation to SendEvent with a canonical event type and a shaped payload;
// they carry no logic of their own.

// UpdateSharedState pushes a shared state change to the remote side.
func (c *Client) UpdateSharedState(state schema.SharedState) {
	c.SendEvent(EventStateUpdate, state)
}

// SendChatMessage sends one chat message.
func (c *Client) SendChatMessage(text string) {
	c.SendEvent(EventChatMessage, schema.ChatMessage{
		Text:      text,
		Timestamp: nowTimestamp(),
	})
}

// SwitchMode asks the remote side to switch the interaction mode.
func (c *Client) SwitchMode(mode string) {
	c.SendEvent(EventModeSwitch, schema.ModeSwitch{Mode: mode})
}

// UpdateLimbicState reports updated affect levels.
func (c *Client) UpdateLimbicState(levels map[string]float64) {
	c.SendEvent(EventLimbicUpdate, schema.LimbicUpdate{Levels: levels})
}
