package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKnown(t *testing.T) {
	assert.True(t, Known("state_update"))
	assert.True(t, Known("chat_message"))
	assert.True(t, Known("mode_switch"))
	assert.True(t, Known("limbic_update"))
	assert.True(t, Known("sync_request"))
	assert.False(t, Known("avatar_blink"))
	assert.False(t, Known(""))
}

func TestDecodeTypedPayloads(t *testing.T) {
	payload, err := Decode("chat_message", json.RawMessage(`{"text":"hi","sender":"desktop"}`))
	require.NoError(t, err)
	msg, ok := payload.(ChatMessage)
	require.True(t, ok)
	assert.Equal(t, "hi", msg.Text)
	assert.Equal(t, "desktop", msg.Sender)

	payload, err = Decode("limbic_update", json.RawMessage(`{"levels":{"joy":0.8,"calm":0.2}}`))
	require.NoError(t, err)
	limbic, ok := payload.(LimbicUpdate)
	require.True(t, ok)
	assert.Equal(t, 0.8, limbic.Levels["joy"])
	assert.Equal(t, 0.2, limbic.Levels["calm"])

	payload, err = Decode("mode_switch", json.RawMessage(`{"mode":"focus"}`))
	require.NoError(t, err)
	mode, ok := payload.(ModeSwitch)
	require.True(t, ok)
	assert.Equal(t, "focus", mode.Mode)
}

func TestDecodeSharedState(t *testing.T) {
	raw := json.RawMessage(`{"mode":"idle","values":{"volume":"0.5","theme":"\"dark\""}}`)

	payload, err := Decode("state_update", raw)
	require.NoError(t, err)

	state, ok := payload.(SharedState)
	require.True(t, ok)
	assert.Equal(t, "idle", state.Mode)
	assert.JSONEq(t, `"dark"`, string(state.Values["theme"]))
}

func TestDecodeUnknownTypeFallsBackToOpaque(t *testing.T) {
	raw := json.RawMessage(`{"anything":true}`)

	payload, err := Decode("avatar_blink", raw)
	require.NoError(t, err)

	opaque, ok := payload.(Opaque)
	require.True(t, ok)
	assert.JSONEq(t, `{"anything":true}`, string(opaque.Raw))
}

func TestDecodeEmptyPayload(t *testing.T) {
	payload, err := Decode("sync_request", nil)
	require.NoError(t, err)

	_, ok := payload.(SyncRequest)
	assert.True(t, ok)
}

func TestDecodeMalformedPayload(t *testing.T) {
	_, err := Decode("chat_message", json.RawMessage(`{"text":`))

	assert.Error(t, err)
}
