package heartbeat

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInitializationOptions(t *testing.T) {
	// the bundle arrives as a decoded JSON object
	options := map[string]any{
		"api-url":            "https://waka.example.com/api",
		"api-key":            "secret",
		"metrics":            true,
		"debug":              false,
		"heartbeat-interval": float64(30),
		"unknown-key":        "ignored",
	}

	settings, ok := ParseInitializationOptions(options)
	require.True(t, ok)
	require.NotNil(t, settings.APIURL)
	assert.Equal(t, "https://waka.example.com/api", *settings.APIURL)
	require.NotNil(t, settings.APIKey)
	assert.Equal(t, "secret", *settings.APIKey)
	assert.True(t, settings.MetricsEnabled())
	assert.False(t, settings.DebugEnabled())
	assert.Equal(t, 30*time.Second, settings.Interval())
}

func TestParseInitializationOptionsAbsent(t *testing.T) {
	settings, ok := ParseInitializationOptions(nil)
	require.True(t, ok)
	assert.Nil(t, settings.APIKey)
	assert.Nil(t, settings.APIURL)
	assert.False(t, settings.MetricsEnabled())
	assert.False(t, settings.DebugEnabled())
	assert.Equal(t, DefaultInterval, settings.Interval())
}

func TestParseInitializationOptionsMalformed(t *testing.T) {
	// not an object: defaults, flagged for a warning, never fatal
	settings, ok := ParseInitializationOptions("nonsense")
	assert.False(t, ok)
	assert.Equal(t, DefaultInterval, settings.Interval())

	// wrong value types are treated as unset
	settings, ok = ParseInitializationOptions(map[string]any{
		"api-key":            42,
		"metrics":            "yes",
		"heartbeat-interval": "60",
	})
	assert.True(t, ok)
	assert.Nil(t, settings.APIKey)
	assert.False(t, settings.MetricsEnabled())
	assert.Equal(t, DefaultInterval, settings.Interval())
}

func TestSettingsStoreReplace(t *testing.T) {
	store := NewSettingsStore()
	assert.Equal(t, DefaultInterval, store.Load().Interval())

	key := "secret"
	store.Replace(&Settings{APIKey: &key, HeartbeatInterval: int64Ptr(15)})

	snapshot := store.Load()
	require.NotNil(t, snapshot.APIKey)
	assert.Equal(t, "secret", *snapshot.APIKey)
	assert.Equal(t, 15*time.Second, snapshot.Interval())

	// replacement is wholesale, not a merge
	store.Replace(&Settings{HeartbeatInterval: int64Ptr(45)})
	assert.Nil(t, store.Load().APIKey)
	assert.Equal(t, 45*time.Second, store.Load().Interval())
}
