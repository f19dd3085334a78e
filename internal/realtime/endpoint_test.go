package realtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointSwapsScheme(t *testing.T) {
	endpoint, err := Endpoint("http://localhost:8787", "web", "user-1")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:8787/sync/ws/web/user-1", endpoint)

	endpoint, err = Endpoint("https://sync.example.com", "desktop", "user-2")
	require.NoError(t, err)
	assert.Equal(t, "wss://sync.example.com/sync/ws/desktop/user-2", endpoint)
}

func TestEndpointKeepsWsScheme(t *testing.T) {
	endpoint, err := Endpoint("wss://sync.example.com:9443", "web", "u")
	require.NoError(t, err)
	assert.Equal(t, "wss://sync.example.com:9443/sync/ws/web/u", endpoint)
}

func TestEndpointDropsBasePathAndQuery(t *testing.T) {
	endpoint, err := Endpoint("http://host:1234/api/v1?token=x", "web", "u")
	require.NoError(t, err)
	assert.Equal(t, "ws://host:1234/sync/ws/web/u", endpoint)
}

func TestEndpointEscapesSegments(t *testing.T) {
	endpoint, err := Endpoint("http://host", "web", "user/7")
	require.NoError(t, err)
	assert.Equal(t, "ws://host/sync/ws/web/user%2F7", endpoint)
}

func TestEndpointRejectsBadInput(t *testing.T) {
	_, err := Endpoint("", "web", "u")
	assert.Error(t, err)

	_, err = Endpoint("http://host", "", "u")
	assert.Error(t, err)

	_, err = Endpoint("http://host", "web", "")
	assert.Error(t, err)

	_, err = Endpoint("ftp://host", "web", "u")
	assert.Error(t, err)
}
