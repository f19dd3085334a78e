package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"main/internal/realtime"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `{
		"sync": {
			"baseUrl": "https://sync.example.com",
			"platform": "desktop",
			"baseDelayMs": 500,
			"maxDelayMs": 10000,
			"maxAttempts": 8,
			"pingIntervalSec": 15
		},
		"journal": {"enabled": true, "path": "/tmp/sync.db"}
	}`)

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://sync.example.com", loaded.BaseURL)
	assert.Equal(t, "desktop", loaded.Platform)
	assert.Equal(t, 500*time.Millisecond, loaded.Policy.BaseDelay)
	assert.Equal(t, 10*time.Second, loaded.Policy.MaxDelay)
	assert.Equal(t, 8, loaded.Policy.MaxAttempts)
	assert.Equal(t, 15*time.Second, loaded.PingInterval)
	assert.True(t, loaded.Journal.Enabled)
	assert.Equal(t, "/tmp/sync.db", loaded.Journal.Path)
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfig(t, `{"sync": {"baseUrl": "http://localhost:8787"}}`)

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, realtime.DefaultPlatform, loaded.Platform)
	assert.Equal(t, realtime.DefaultPolicy(), loaded.Policy)
	assert.Zero(t, loaded.PingInterval)
	assert.False(t, loaded.Journal.Enabled)
}

func TestLoadZeroMaxAttemptsDisablesReconnect(t *testing.T) {
	path := writeConfig(t, `{"sync": {"baseUrl": "http://localhost:8787", "maxAttempts": 0}}`)

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Zero(t, loaded.Policy.MaxAttempts)
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	for name, content := range map[string]string{
		"missing base url":      `{"sync": {}}`,
		"journal without path":  `{"sync": {"baseUrl": "http://h"}, "journal": {"enabled": true}}`,
		"max delay below base":  `{"sync": {"baseUrl": "http://h", "baseDelayMs": 5000, "maxDelayMs": 1000}}`,
		"negative max attempts": `{"sync": {"baseUrl": "http://h", "maxAttempts": -1}}`,
		"not json at all":       `{broken`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))

	assert.Error(t, err)
}
