package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds operational configuration for the clipvault process.
// Domain settings (retention, max items, exclusions) live in the database
// and are mutated through the command surface; this file covers only the
// knobs that shape how the process itself runs.
type Config struct {
	// PollIntervalMS is the clipboard poll cadence in milliseconds.
	PollIntervalMS int `json:"poll_interval_ms"`

	// JanitorIntervalMins is the retention sweep cadence in minutes.
	JanitorIntervalMins int `json:"janitor_interval_mins"`

	// EventBuffer is the capacity of the capture event channel between
	// the poller and the ingestion bridge.
	EventBuffer int `json:"event_buffer,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// The store pins this to 1 by default so every operation serializes
	// through a single connection.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		PollIntervalMS:      500,
		JanitorIntervalMins: 60,
		EventBuffer:         64,
		DBMaxOpenConns:      1,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of
// ~/.clipvault.
func Load(baseDir string) (*Config, error) {
	overlay, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), overlay), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and
// deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.PollIntervalMS = overlay.PollIntervalMS
	if result.PollIntervalMS == 0 {
		result.PollIntervalMS = base.PollIntervalMS
	}

	result.JanitorIntervalMins = overlay.JanitorIntervalMins
	if result.JanitorIntervalMins == 0 {
		result.JanitorIntervalMins = base.JanitorIntervalMins
	}

	result.EventBuffer = overlay.EventBuffer
	if result.EventBuffer == 0 {
		result.EventBuffer = base.EventBuffer
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes
// duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
