package store

import (
	"sync"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/services"
)

// ReminderStore caches one user's reminders.
type ReminderStore struct {
	svc    *services.ReminderService
	userID uint64

	mu        sync.RWMutex
	reminders []models.Reminder
}

// NewReminderStore creates a store bound to one user.
func NewReminderStore(svc *services.ReminderService, userID uint64) *ReminderStore {
	return &ReminderStore{svc: svc, userID: userID}
}

// Load replaces the cache wholesale.
func (s *ReminderStore) Load() error {
	reminders, err := s.svc.ListReminders(s.userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.reminders = reminders
	s.mu.Unlock()
	return nil
}

// Reminders returns the current snapshot.
func (s *ReminderStore) Reminders() []models.Reminder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reminders
}

// Create persists a reminder then reloads.
func (s *ReminderStore) Create(input services.CreateReminderInput) (*models.Reminder, error) {
	input.UserID = s.userID
	reminder, err := s.svc.CreateReminder(input)
	if err != nil {
		return nil, err
	}
	return reminder, s.Load()
}

// Dismiss marks a reminder dismissed then reloads.
func (s *ReminderStore) Dismiss(reminderID uint64) error {
	if _, err := s.svc.Dismiss(reminderID, s.userID); err != nil {
		return err
	}
	return s.Load()
}

// Snooze dismisses the original and creates its successor, then reloads.
func (s *ReminderStore) Snooze(reminderID uint64, minutes int) (*models.Reminder, error) {
	successor, err := s.svc.Snooze(reminderID, s.userID, minutes)
	if err != nil {
		return nil, err
	}
	return successor, s.Load()
}

// GetActiveReminders filters the snapshot: not dismissed and already due.
func (s *ReminderStore) GetActiveReminders() []models.Reminder {
	now := time.Now()

	s.mu.RLock()
	defer s.mu.RUnlock()

	active := make([]models.Reminder, 0, len(s.reminders))
	for _, r := range s.reminders {
		if r.IsActive(now) {
			active = append(active, r)
		}
	}
	return active
}
