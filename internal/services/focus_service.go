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
	ErrFocusSessionNotFound = errors.New("focus session not found")
	ErrNotFocusSessionOwner = errors.New("focus session belongs to a different user")
	ErrInvalidDuration      = errors.New("duration must be positive")
)

// FocusService handles focus session tracking.
type FocusService struct {
	focusRepo repository.FocusSessionRepository
}

// NewFocusService creates a new FocusService
func NewFocusService(focusRepo repository.FocusSessionRepository) *FocusService {
	return &FocusService{focusRepo: focusRepo}
}

// StartSessionInput represents input for starting a focus session
type StartSessionInput struct {
	UserID          uint64
	TaskID          *uint64
	DurationMinutes int
	Notes           string
}

func (s *FocusService) StartSession(input StartSessionInput) (*models.FocusSession, error) {
	if input.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	session := &models.FocusSession{
		UserID:          input.UserID,
		TaskID:          input.TaskID,
		StartedAt:       time.Now(),
		DurationMinutes: input.DurationMinutes,
		Notes:           input.Notes,
	}
	if err := s.focusRepo.Create(session); err != nil {
		return nil, fmt.Errorf("failed to start focus session: %w", err)
	}
	return session, nil
}

func (s *FocusService) ListSessions(userID uint64) ([]models.FocusSession, error) {
	sessions, err := s.focusRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list focus sessions: %w", err)
	}
	return sessions, nil
}

// CompleteSession marks a session finished.
func (s *FocusService) CompleteSession(sessionID, userID uint64) (*models.FocusSession, error) {
	session, err := s.focusRepo.FindByID(sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFocusSessionNotFound
		}
		return nil, fmt.Errorf("failed to find focus session: %w", err)
	}
	if session.UserID != userID {
		return nil, ErrNotFocusSessionOwner
	}

	session.Completed = true
	if err := s.focusRepo.Update(session); err != nil {
		return nil, fmt.Errorf("failed to complete focus session: %w", err)
	}
	return session, nil
}
