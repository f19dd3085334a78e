// Package ops resolves runtime configuration from a JSON file.
package ops

import (
	"encoding/json"
	"os"
	"time"

	"main/internal/realtime"

	"github.com/yanun0323/errors"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Sync    SyncConfig    `json:"sync"`
	Journal JournalConfig `json:"journal"`
}

// SyncConfig defines the coordination endpoint and reconnect tuning.
type SyncConfig struct {
	BaseURL         string `json:"baseUrl"`
	Platform        string `json:"platform"`
	BaseDelayMs     int64  `json:"baseDelayMs"`
	MaxDelayMs      int64  `json:"maxDelayMs"`
	MaxAttempts     *int   `json:"maxAttempts"`
	PingIntervalSec int64  `json:"pingIntervalSec"`
}

// JournalConfig controls the local event journal.
type JournalConfig struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	BaseURL      string
	Platform     string
	Policy       realtime.Policy
	PingInterval time.Duration
	Journal      JournalConfig
}

// Load reads a JSON config file and resolves defaults.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, errors.Wrap(err, "read config")
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, errors.Wrap(err, "parse config")
	}
	return resolve(cfg)
}

func resolve(cfg FileConfig) (Loaded, error) {
	if cfg.Sync.BaseURL == "" {
		return Loaded{}, errors.New("sync baseUrl is empty")
	}
	if cfg.Journal.Enabled && cfg.Journal.Path == "" {
		return Loaded{}, errors.New("journal path is empty")
	}

	platform := cfg.Sync.Platform
	if platform == "" {
		platform = realtime.DefaultPlatform
	}

	policy := realtime.DefaultPolicy()
	if cfg.Sync.BaseDelayMs > 0 {
		policy.BaseDelay = time.Duration(cfg.Sync.BaseDelayMs) * time.Millisecond
	}
	if cfg.Sync.MaxDelayMs > 0 {
		policy.MaxDelay = time.Duration(cfg.Sync.MaxDelayMs) * time.Millisecond
	}
	if policy.MaxDelay < policy.BaseDelay {
		return Loaded{}, errors.New("maxDelayMs must be >= baseDelayMs")
	}
	if cfg.Sync.MaxAttempts != nil {
		if *cfg.Sync.MaxAttempts < 0 {
			return Loaded{}, errors.New("maxAttempts must be >= 0")
		}
		policy.MaxAttempts = *cfg.Sync.MaxAttempts
	}

	var ping time.Duration
	if cfg.Sync.PingIntervalSec > 0 {
		ping = time.Duration(cfg.Sync.PingIntervalSec) * time.Second
	}

	return Loaded{
		BaseURL:      cfg.Sync.BaseURL,
		Platform:     platform,
		Policy:       policy,
		PingInterval: ping,
		Journal:      cfg.Journal,
	}, nil
}
