package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cinescintille/config"
)

func TestLoadCreatesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache", "settings.json")
	m := config.NewManager(path)

	settings, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, config.DefaultSettings(), settings)

	// The defaults were also written to disk.
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var onDisk config.Settings
	require.NoError(t, json.Unmarshal(data, &onDisk))
	require.Equal(t, settings, onDisk)
}

func TestLoadFillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"baseUrl":"http://localhost:5000"}}`), 0o644))

	settings, err := config.NewManager(path).Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:5000", settings.Server.BaseURL)
	require.Equal(t, 15, settings.Server.TimeoutSeconds)
	require.Equal(t, 350, settings.Search.DebounceMS)
	require.NotEmpty(t, settings.Images.PosterBaseURL)
}

func TestEnvOverridesBaseURL(t *testing.T) {
	t.Setenv("CINESCINTILLE_BASE_URL", "http://127.0.0.1:9000")

	path := filepath.Join(t.TempDir(), "settings.json")
	settings, err := config.NewManager(path).Load()
	require.NoError(t, err)
	require.Equal(t, "http://127.0.0.1:9000", settings.Server.BaseURL)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	m := config.NewManager(path)

	settings := config.DefaultSettings()
	settings.Server.BaseURL = "http://localhost:5000"
	settings.Search.DebounceMS = 200
	require.NoError(t, m.Save(settings))

	loaded, err := m.Load()
	require.NoError(t, err)
	require.Equal(t, settings, loaded)

	// No temp file left behind by the atomic rename.
	_, err = os.Stat(path + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))

	_, err := config.NewManager(path).Load()
	require.Error(t, err)
}

func TestDurationHelpers(t *testing.T) {
	var server config.ServerSettings
	require.Equal(t, 15*time.Second, server.Timeout())
	server.TimeoutSeconds = 30
	require.Equal(t, 30*time.Second, server.Timeout())

	var search config.SearchSettings
	require.Equal(t, 350*time.Millisecond, search.Debounce())
	search.DebounceMS = 200
	require.Equal(t, 200*time.Millisecond, search.Debounce())
}
