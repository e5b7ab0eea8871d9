package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrReminderNotFound  = errors.New("reminder not found")
	ErrNotReminderOwner  = errors.New("reminder belongs to a different user")
	ErrInvalidSnooze     = errors.New("snooze duration must be positive")
	ErrReminderDismissed = errors.New("reminder is already dismissed")
)

// ReminderService handles reminder business logic.
type ReminderService struct {
	reminderRepo repository.ReminderRepository
}

// NewReminderService creates a new ReminderService
func NewReminderService(reminderRepo repository.ReminderRepository) *ReminderService {
	return &ReminderService{reminderRepo: reminderRepo}
}

// CreateReminderInput represents input for creating a reminder
type CreateReminderInput struct {
	UserID      uint64
	Title       string
	Description string
	RemindAt    time.Time
}

func (s *ReminderService) CreateReminder(input CreateReminderInput) (*models.Reminder, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	reminder := &models.Reminder{
		UserID:      input.UserID,
		Title:       input.Title,
		Description: input.Description,
		RemindAt:    input.RemindAt,
	}
	if err := s.reminderRepo.Create(reminder); err != nil {
		return nil, fmt.Errorf("failed to create reminder: %w", err)
	}
	return reminder, nil
}

func (s *ReminderService) ListReminders(userID uint64) ([]models.Reminder, error) {
	reminders, err := s.reminderRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	return reminders, nil
}

// ActiveReminders returns reminders that are not dismissed and whose
// remind_at has passed.
func (s *ReminderService) ActiveReminders(userID uint64, now time.Time) ([]models.Reminder, error) {
	reminders, err := s.reminderRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reminders: %w", err)
	}
	active := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.IsActive(now) {
			active = append(active, r)
		}
	}
	return active, nil
}

func (s *ReminderService) Dismiss(reminderID, userID uint64) (*models.Reminder, error) {
	reminder, err := s.getOwned(reminderID, userID)
	if err != nil {
		return nil, err
	}

	reminder.IsDismissed = true
	if err := s.reminderRepo.Update(reminder); err != nil {
		return nil, fmt.Errorf("failed to dismiss reminder: %w", err)
	}
	return reminder, nil
}

// Snooze dismisses the original reminder and creates a successor row shifted
// by the snooze duration, pointing back at the original. Both steps run in
// one repository transaction.
func (s *ReminderService) Snooze(reminderID, userID uint64, minutes int) (*models.Reminder, error) {
	if minutes <= 0 {
		return nil, ErrInvalidSnooze
	}

	original, err := s.getOwned(reminderID, userID)
	if err != nil {
		return nil, err
	}
	if original.IsDismissed {
		return nil, ErrReminderDismissed
	}

	successor := &models.Reminder{
		UserID:             original.UserID,
		Title:              original.Title,
		Description:        original.Description,
		RemindAt:           time.Now().Add(time.Duration(minutes) * time.Minute),
		SnoozeMinutes:      &minutes,
		OriginalReminderID: &original.ID,
	}

	if err := s.reminderRepo.Snooze(original, successor); err != nil {
		return nil, fmt.Errorf("failed to snooze reminder: %w", err)
	}
	return successor, nil
}

func (s *ReminderService) DeleteReminder(reminderID, userID uint64) error {
	if _, err := s.getOwned(reminderID, userID); err != nil {
		return err
	}
	if err := s.reminderRepo.Delete(reminderID); err != nil {
		return fmt.Errorf("failed to delete reminder: %w", err)
	}
	return nil
}

func (s *ReminderService) getOwned(reminderID, userID uint64) (*models.Reminder, error) {
	reminder, err := s.reminderRepo.FindByID(reminderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReminderNotFound
		}
		return nil, fmt.Errorf("failed to find reminder: %w", err)
	}
	if reminder.UserID != userID {
		return nil, ErrNotReminderOwner
	}
	return reminder, nil
}
