package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistrySingleHandlerPerType(t *testing.T) {
	reg := newRegistry()

	var got []string
	reg.set("limbic_update", func(env Envelope) {
		got = append(got, "first")
	})
	reg.set("limbic_update", func(env Envelope) {
		got = append(got, "second")
	})

	handler, ok := reg.get("limbic_update")
	require.True(t, ok)
	handler(Envelope{})

	assert.Equal(t, []string{"second"}, got)
}

func TestRegistryUnknownType(t *testing.T) {
	reg := newRegistry()

	_, ok := reg.get("nope")
	assert.False(t, ok)
}

func TestRegistryRemove(t *testing.T) {
	reg := newRegistry()
	reg.set("chat_message", func(env Envelope) {})

	reg.remove("chat_message")

	_, ok := reg.get("chat_message")
	assert.False(t, ok)
}

func TestSubscriptionCancel(t *testing.T) {
	reg := newRegistry()
	sub := reg.set("mode_switch", func(env Envelope) {})

	sub.Cancel()

	_, ok := reg.get("mode_switch")
	assert.False(t, ok)

	// Safe to cancel twice.
	sub.Cancel()
}

func TestStaleSubscriptionDoesNotCancelReplacement(t *testing.T) {
	reg := newRegistry()
	stale := reg.set("chat_message", func(env Envelope) {})
	reg.set("chat_message", func(env Envelope) {})

	stale.Cancel()

	_, ok := reg.get("chat_message")
	assert.True(t, ok)
}

func TestNilSubscriptionCancel(t *testing.T) {
	var sub *Subscription
	sub.Cancel()
}
