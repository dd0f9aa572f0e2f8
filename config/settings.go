package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Settings represents the client configuration persisted to disk.
type Settings struct {
	Server ServerSettings `json:"server"`
	Images ImageSettings  `json:"images"`
	Search SearchSettings `json:"search"`
	Log    LogConfig      `json:"log"`
}

// ServerSettings points the client at the CineScintille backend.
type ServerSettings struct {
	BaseURL        string `json:"baseUrl"`
	TimeoutSeconds int    `json:"timeoutSeconds"`
}

// ImageSettings describe where relative poster and avatar references
// resolve at render time.
type ImageSettings struct {
	PosterBaseURL string `json:"posterBaseUrl"`
	AvatarPath    string `json:"avatarPath"`
}

// SearchSettings tune the interactive search behavior.
type SearchSettings struct {
	DebounceMS int `json:"debounceMs"`
}

// LogConfig represents logging configuration.
type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

// Timeout returns the HTTP client timeout for backend calls.
func (s ServerSettings) Timeout() time.Duration {
	if s.TimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Debounce returns the quiet period the search orchestrator waits for
// before issuing a query.
func (s SearchSettings) Debounce() time.Duration {
	if s.DebounceMS <= 0 {
		return 350 * time.Millisecond
	}
	return time.Duration(s.DebounceMS) * time.Millisecond
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{
			BaseURL:        "https://cinescintille-backend.onrender.com",
			TimeoutSeconds: 15,
		},
		Images: ImageSettings{
			PosterBaseURL: "https://image.tmdb.org/t/p/w500",
			AvatarPath:    "/static/avatars",
		},
		Search: SearchSettings{DebounceMS: 350},
		Log: LogConfig{
			MaxSize:    20,
			MaxAge:     14,
			MaxBackups: 3,
			Compress:   true,
		},
	}
}

// Manager loads and saves the settings file.
type Manager struct {
	mu   sync.Mutex
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// Load reads settings from disk, creating the file with defaults when
// it does not exist. CINESCINTILLE_BASE_URL overrides the backend URL.
func (m *Manager) Load() (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}

	var settings Settings
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		settings = DefaultSettings()
		if err := m.saveLocked(settings); err != nil {
			return Settings{}, err
		}
	} else {
		f, err := os.Open(m.path)
		if err != nil {
			return Settings{}, err
		}
		defer f.Close()

		if err := json.NewDecoder(f).Decode(&settings); err != nil {
			return Settings{}, err
		}
	}

	applyDefaults(&settings)

	if base := strings.TrimSpace(os.Getenv("CINESCINTILLE_BASE_URL")); base != "" {
		settings.Server.BaseURL = base
	}

	return settings, nil
}

// Save persists settings atomically via a temp file rename.
func (m *Manager) Save(s Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saveLocked(s)
}

func (m *Manager) saveLocked(s Settings) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}

	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, m.path)
}

func applyDefaults(s *Settings) {
	defaults := DefaultSettings()
	if strings.TrimSpace(s.Server.BaseURL) == "" {
		s.Server.BaseURL = defaults.Server.BaseURL
	}
	if s.Server.TimeoutSeconds <= 0 {
		s.Server.TimeoutSeconds = defaults.Server.TimeoutSeconds
	}
	if strings.TrimSpace(s.Images.PosterBaseURL) == "" {
		s.Images.PosterBaseURL = defaults.Images.PosterBaseURL
	}
	if strings.TrimSpace(s.Images.AvatarPath) == "" {
		s.Images.AvatarPath = defaults.Images.AvatarPath
	}
	if s.Search.DebounceMS <= 0 {
		s.Search.DebounceMS = defaults.Search.DebounceMS
	}
}
