package store

import (
	"fmt"
	"sync"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
)

// AppearancePrefs is the settings subset mirrored into the durable slot so
// it survives a restart without a server round trip.
type AppearancePrefs struct {
	Theme        string `json:"theme"`
	ReduceMotion bool   `json:"reduce_motion"`
}

// SettingsStore wraps the settings repository and keeps the appearance
// subset in the durable key/value slot.
type SettingsStore struct {
	repo repository.SettingsRepository
	kv   *FileKV

	mu       sync.RWMutex
	settings map[uint64]*models.UserSettings
}

// NewSettingsStore creates the store over a repository and a durable slot.
func NewSettingsStore(repo repository.SettingsRepository, kv *FileKV) *SettingsStore {
	return &SettingsStore{
		repo:     repo,
		kv:       kv,
		settings: map[uint64]*models.UserSettings{},
	}
}

func settingsKey(userID uint64) string {
	return fmt.Sprintf("settings:%d", userID)
}

// Load fetches settings, preferring the durable slot's appearance subset
// when present.
func (s *SettingsStore) Load(userID uint64) (*models.UserSettings, error) {
	settings, err := s.repo.FindByUser(userID)
	if err != nil {
		return nil, err
	}

	var prefs AppearancePrefs
	if ok, err := s.kv.Get(settingsKey(userID), &prefs); err == nil && ok {
		settings.Theme = prefs.Theme
		settings.ReduceMotion = prefs.ReduceMotion
	}

	s.mu.Lock()
	s.settings[userID] = settings
	s.mu.Unlock()
	return settings, nil
}

// Get returns the cached settings, loading on first access.
func (s *SettingsStore) Get(userID uint64) (*models.UserSettings, error) {
	s.mu.RLock()
	cached, ok := s.settings[userID]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}
	return s.Load(userID)
}

// Update persists settings and mirrors the appearance subset into the
// durable slot. The cache only changes after the repository succeeds.
func (s *SettingsStore) Update(userID uint64, settings *models.UserSettings) error {
	settings.UserID = userID
	if err := s.repo.Save(settings); err != nil {
		return err
	}

	if err := s.kv.Set(settingsKey(userID), AppearancePrefs{
		Theme:        settings.Theme,
		ReduceMotion: settings.ReduceMotion,
	}); err != nil {
		return err
	}

	s.mu.Lock()
	s.settings[userID] = settings
	s.mu.Unlock()
	return nil
}
