// hot-reload.go: dynamic configuration with Argus integration.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package xanthus

import (
	"fmt"
	"sync"
	"time"

	"github.com/agilira/argus"
)

// ReloadableConfig is the subset of Config a running Cache can pick up
// without being reconstructed: MaxCapacity and the shard count are fixed
// for the life of the underlying segmented map.
type ReloadableConfig struct {
	TimeToLive         time.Duration
	TimeToIdle         time.Duration
	InvalidatorEnabled bool
}

// HotConfig watches a configuration file with Argus and applies
// ReloadableConfig changes to cache as they are detected, without ever
// reconstructing the cache.
type HotConfig[K comparable, V any] struct {
	cache   *Cache[K, V]
	watcher *argus.Watcher
	mu      sync.RWMutex
	config  ReloadableConfig
	logger  Logger

	// OnReload is called after a configuration change has been applied.
	// Must be fast and non-blocking.
	OnReload func(old, new ReloadableConfig)
}

// HotConfigOptions configures hot reload behavior.
type HotConfigOptions struct {
	// ConfigPath is the path to the configuration file to watch. Supports
	// JSON, YAML, TOML, HCL, INI and Properties formats (Argus auto-detects
	// the format from the file extension).
	ConfigPath string

	// PollInterval is how often to check for configuration changes.
	// Default: 1 second. Minimum: 100ms.
	PollInterval time.Duration

	// OnReload is called after configuration is successfully reloaded.
	OnReload func(old, new ReloadableConfig)

	// Logger for hot reload operations. Defaults to NoOpLogger.
	Logger Logger
}

// NewHotConfig builds a HotConfig for cache and starts watching
// opts.ConfigPath immediately.
//
// Example configuration file (YAML):
//
//	cache:
//	  ttl: "5m"
//	  tti: "1m"
//	  invalidator_enabled: true
//
// Supported configuration keys:
//   - cache.ttl (duration string): time-to-live, "0s" disables TTL
//   - cache.tti (duration string): time-to-idle, "0s" disables TTI
//   - cache.invalidator_enabled (bool): reserve the write-order deque for
//     InvalidateIf even when TTL is unset
//
// MaxCapacity is not accepted here: it is fixed at construction because
// changing it means resizing the segmented map and frequency sketch, which
// HotConfig deliberately does not attempt.
func NewHotConfig[K comparable, V any](cache *Cache[K, V], opts HotConfigOptions) (*HotConfig[K, V], error) {
	if opts.ConfigPath == "" {
		return nil, fmt.Errorf("config_path is required")
	}

	if opts.PollInterval == 0 {
		opts.PollInterval = time.Second
	} else if opts.PollInterval < 100*time.Millisecond {
		opts.PollInterval = 100 * time.Millisecond
	}

	if opts.Logger == nil {
		opts.Logger = NoOpLogger{}
	}

	hc := &HotConfig[K, V]{
		cache:  cache,
		logger: opts.Logger,
		config: ReloadableConfig{
			TimeToLive:         time.Duration(cache.s.ttlTicks.Load()),
			TimeToIdle:         time.Duration(cache.s.ttiTicks.Load()),
			InvalidatorEnabled: cache.s.invalidatorEnabled.Load(),
		},
		OnReload: opts.OnReload,
	}

	argusConfig := argus.Config{PollInterval: opts.PollInterval}

	watcher, err := argus.UniversalConfigWatcherWithConfig(opts.ConfigPath, hc.handleConfigChange, argusConfig)
	if err != nil {
		return nil, err
	}
	hc.watcher = watcher

	return hc, nil
}

// Start begins watching the configuration file for changes. A no-op if the
// watcher is already running.
func (hc *HotConfig[K, V]) Start() error {
	if hc.watcher.IsRunning() {
		return nil
	}
	return hc.watcher.Start()
}

// Stop stops watching the configuration file.
func (hc *HotConfig[K, V]) Stop() error {
	return hc.watcher.Stop()
}

// GetConfig returns the last applied ReloadableConfig.
func (hc *HotConfig[K, V]) GetConfig() ReloadableConfig {
	hc.mu.RLock()
	defer hc.mu.RUnlock()
	return hc.config
}

// handleConfigChange is Argus's callback, invoked whenever ConfigPath
// changes on disk.
func (hc *HotConfig[K, V]) handleConfigChange(data map[string]interface{}) {
	hc.mu.Lock()
	old := hc.config
	next := hc.parseConfig(data, old)
	hc.config = next
	hc.mu.Unlock()

	hc.applyChanges(old, next)

	if hc.OnReload != nil {
		hc.OnReload(old, next)
	}
}

func parseDuration(value interface{}) (time.Duration, bool) {
	str, ok := value.(string)
	if !ok {
		return 0, false
	}
	d, err := time.ParseDuration(str)
	if err != nil {
		return 0, false
	}
	return d, true
}

func parseBool(value interface{}) (bool, bool) {
	b, ok := value.(bool)
	return b, ok
}

// parseConfig extracts a ReloadableConfig from Argus config data, starting
// from fallback (typically the previously applied config) and overriding
// only the keys actually present and well-formed.
func (hc *HotConfig[K, V]) parseConfig(data map[string]interface{}, fallback ReloadableConfig) ReloadableConfig {
	next := fallback

	cacheSection, ok := data["cache"].(map[string]interface{})
	if !ok {
		if _, hasTTL := data["ttl"]; hasTTL {
			cacheSection = data
		} else {
			return next
		}
	}

	if ttl, ok := parseDuration(cacheSection["ttl"]); ok {
		next.TimeToLive = ttl
	}
	if tti, ok := parseDuration(cacheSection["tti"]); ok {
		next.TimeToIdle = tti
	}
	if enabled, ok := parseBool(cacheSection["invalidator_enabled"]); ok {
		next.InvalidatorEnabled = enabled
	}

	return next
}

// applyChanges pushes a ReloadableConfig onto the live store's atomics.
// MaxCapacity and shard count are untouched: HotConfig never resizes a
// running cache.
func (hc *HotConfig[K, V]) applyChanges(old, next ReloadableConfig) {
	s := hc.cache.s
	if next.TimeToLive != old.TimeToLive {
		s.setTTL(next.TimeToLive)
		hc.logger.Info("xanthus: reloaded TimeToLive", "old", old.TimeToLive, "new", next.TimeToLive)
	}
	if next.TimeToIdle != old.TimeToIdle {
		s.setTTI(next.TimeToIdle)
		hc.logger.Info("xanthus: reloaded TimeToIdle", "old", old.TimeToIdle, "new", next.TimeToIdle)
	}
	if next.InvalidatorEnabled != old.InvalidatorEnabled {
		s.setInvalidatorEnabled(next.InvalidatorEnabled)
		hc.logger.Info("xanthus: reloaded InvalidatorEnabled", "old", old.InvalidatorEnabled, "new", next.InvalidatorEnabled)
	}
}
