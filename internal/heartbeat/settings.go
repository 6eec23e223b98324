package heartbeat

import (
	"sync/atomic"
	"time"
)

// DefaultInterval is the gating window used when the client does not
// configure one.
const DefaultInterval = 2 * time.Minute

// Settings is the client-supplied configuration. Nil fields were not set by
// the client; defaults apply at the point of use. A Settings value is
// immutable once published.
type Settings struct {
	APIKey            *string
	APIURL            *string
	Metrics           *bool
	Debug             *bool
	HeartbeatInterval *int64 // seconds
}

// Interval returns the configured gating window, or DefaultInterval.
func (s *Settings) Interval() time.Duration {
	if s.HeartbeatInterval != nil {
		return time.Duration(*s.HeartbeatInterval) * time.Second
	}
	return DefaultInterval
}

// DebugEnabled reports whether verbose agent output was requested.
func (s *Settings) DebugEnabled() bool {
	return s.Debug != nil && *s.Debug
}

// MetricsEnabled reports whether agent metrics were requested.
func (s *Settings) MetricsEnabled() bool {
	return s.Metrics != nil && *s.Metrics
}

// SettingsStore publishes Settings snapshots by pointer swap. Readers get a
// fully-formed snapshot without taking a lock; writers replace the whole
// value, never merge.
type SettingsStore struct {
	v atomic.Pointer[Settings]
}

func NewSettingsStore() *SettingsStore {
	s := &SettingsStore{}
	s.v.Store(&Settings{})
	return s
}

// Load returns the current snapshot. The result must not be mutated.
func (s *SettingsStore) Load() *Settings {
	return s.v.Load()
}

// Replace publishes a new snapshot.
func (s *SettingsStore) Replace(settings *Settings) {
	s.v.Store(settings)
}

// ParseInitializationOptions reads the loosely-typed options bundle from the
// LSP initialize request. Recognized keys: api-url, api-key, metrics, debug,
// heartbeat-interval. Unknown keys are ignored; a bundle that is not a JSON
// object yields defaults and ok=false so the caller can log a warning
// instead of aborting.
func ParseInitializationOptions(options any) (*Settings, bool) {
	settings := &Settings{}
	if options == nil {
		return settings, true
	}

	m, ok := options.(map[string]any)
	if !ok {
		return settings, false
	}

	if v, ok := m["api-url"].(string); ok {
		settings.APIURL = &v
	}
	if v, ok := m["api-key"].(string); ok {
		settings.APIKey = &v
	}
	if v, ok := m["metrics"].(bool); ok {
		settings.Metrics = &v
	}
	if v, ok := m["debug"].(bool); ok {
		settings.Debug = &v
	}
	// JSON numbers decode as float64.
	if v, ok := m["heartbeat-interval"].(float64); ok {
		secs := int64(v)
		settings.HeartbeatInterval = &secs
	}

	return settings, true
}
