package store

import (
	"sync"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// MoodStore caches one user's mood entries. Derived views are recomputed on
// every call over the snapshot; cache sizes are small enough that
// memoization is not worth carrying.
type MoodStore struct {
	svc    *services.MoodService
	userID uint64

	mu      sync.RWMutex
	entries []models.MoodEntry
}

// NewMoodStore creates a store bound to one user.
func NewMoodStore(svc *services.MoodService, userID uint64) *MoodStore {
	return &MoodStore{svc: svc, userID: userID}
}

// Load replaces the cache wholesale, newest first.
func (s *MoodStore) Load() error {
	entries, err := s.svc.ListEntries(s.userID, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.entries = entries
	s.mu.Unlock()
	return nil
}

// Entries returns the current snapshot.
func (s *MoodStore) Entries() []models.MoodEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

// Create persists an entry then patches the cache in place.
func (s *MoodStore) Create(input services.CreateMoodInput) (*models.MoodEntry, error) {
	input.UserID = s.userID
	entry, err := s.svc.CreateEntry(input)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.entries = append([]models.MoodEntry{*entry}, s.entries...)
	s.mu.Unlock()
	return entry, nil
}

// Delete removes an entry, then the cache row.
func (s *MoodStore) Delete(entryID uint64) error {
	if err := s.svc.DeleteEntry(entryID, s.userID); err != nil {
		return err
	}

	s.mu.Lock()
	kept := s.entries[:0]
	for _, e := range s.entries {
		if e.ID != entryID {
			kept = append(kept, e)
		}
	}
	s.entries = kept
	s.mu.Unlock()
	return nil
}

// GetAverages returns the mean scores over entries within the last `days`
// days of the snapshot, or nil when the window is empty.
func (s *MoodStore) GetAverages(days int) *services.MoodAverages {
	cutoff := time.Now().AddDate(0, 0, -days)

	s.mu.RLock()
	defer s.mu.RUnlock()

	var window []models.MoodEntry
	for _, e := range s.entries {
		if !e.CreatedAt.Before(cutoff) {
			window = append(window, e)
		}
	}
	return services.ComputeAverages(window)
}

// GetRecentTrend compares the most recent three entries to the previous
// three.
func (s *MoodStore) GetRecentTrend() services.TrendDirection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return services.ComputeTrend(s.entries)
}
