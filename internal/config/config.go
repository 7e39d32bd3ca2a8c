// Package config loads the tournament-engine's JSON runtime configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// EngineConfig holds the tunables a deployment may want to override without
// recompiling: tatami layout limits, default ruleset/draw tags and the
// auto-add target size. Load and Get only hold these values; no other
// package reads them.
type EngineConfig struct {
	MaxConcurrentGroups int   `json:"max_concurrent_groups"`
	MaxSequentialGroups int   `json:"max_sequential_groups"`
	DefaultRulesetTag   int   `json:"default_ruleset_tag"`
	DefaultDrawTag      int   `json:"default_draw_tag"`
	AutoAddTargetSize   int   `json:"auto_add_target_size"`
}

var (
	cfg      *EngineConfig
	loadOnce sync.Once
	loadErr  error
)

// defaults mirrors the values a category gets when no config file is loaded
// at all, so tests and cmd/participant (which never call Load) still see
// sane tags.
func defaults() EngineConfig {
	return EngineConfig{
		MaxConcurrentGroups: 8,
		MaxSequentialGroups: 4,
		DefaultRulesetTag:   0,
		DefaultDrawTag:      0,
		AutoAddTargetSize:   8,
	}
}

// Load reads the engine configuration from path. Subsequent calls are no-ops;
// use Get to retrieve the loaded value from any goroutine.
func Load(path string) error {
	loadOnce.Do(func() {
		d := defaults()
		cfg = &d

		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("config: failed to read %s: %w", path, err)
			return
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			loadErr = fmt.Errorf("config: failed to unmarshal %s: %w", path, err)
			return
		}
	})
	return loadErr
}

// Get returns the loaded configuration, or the built-in defaults if Load was
// never called.
func Get() EngineConfig {
	if cfg == nil {
		return defaults()
	}
	return *cfg
}
