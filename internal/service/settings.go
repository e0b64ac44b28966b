package service

import (
	"fmt"
	"sync"

	"github.com/snapcal/backend/internal/storage"
)

const settingsStoreName = "settings-storage"

// Settings holds the small app preferences the client reads at startup.
type Settings struct {
	SavePhoto            bool `json:"savePhotoEnabled"`
	DontShowPhotoExample bool `json:"dontShowPhotoExample"`
	UseImperial          bool `json:"useImperial"`
}

// SettingsService persists the app preferences as one snapshot.
type SettingsService struct {
	mu       sync.Mutex
	settings Settings
	writer   *storage.Writer
}

// NewSettingsService loads the persisted settings and starts its writer.
func NewSettingsService(store *storage.Store) (*SettingsService, error) {
	s := &SettingsService{}
	if _, err := store.Load(settingsStoreName, &s.settings); err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	s.writer = storage.NewWriter(settingsStoreName, store, nil)
	return s, nil
}

// Settings returns the current preferences.
func (s *SettingsService) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// Update replaces the preferences wholesale.
func (s *SettingsService) Update(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	s.writer.Save(s.settings)
}

// SaveErr reports the most recent persistence failure, if any.
func (s *SettingsService) SaveErr() error {
	return s.writer.LastErr()
}

// Close flushes pending writes and stops the background writer.
func (s *SettingsService) Close() {
	s.writer.Close()
}
