package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/constants"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrMoodEntryNotFound = errors.New("mood entry not found")
	ErrNotMoodOwner      = errors.New("mood entry belongs to a different user")
	ErrInvalidMoodScore  = errors.New("scores must be between 1 and 10")
)

// MoodService handles mood tracking business logic.
type MoodService struct {
	moodRepo repository.MoodRepository
}

// NewMoodService creates a new MoodService
func NewMoodService(moodRepo repository.MoodRepository) *MoodService {
	return &MoodService{moodRepo: moodRepo}
}

// MoodAverages is the arithmetic mean of each score over a window.
type MoodAverages struct {
	Mood    float64 `json:"mood"`
	Energy  float64 `json:"energy"`
	Focus   float64 `json:"focus"`
	Entries int     `json:"entries"`
}

// TrendDirection is computed by comparing the mean of the most recent three
// entries against the previous three.
type TrendDirection string

const (
	TrendImproving TrendDirection = "improving"
	TrendDeclining TrendDirection = "declining"
	TrendStable    TrendDirection = "stable"
)

// CreateMoodInput represents input for recording a mood entry
type CreateMoodInput struct {
	UserID      uint64
	MoodScore   int
	EnergyLevel int
	FocusLevel  int
	Notes       string
}

func (s *MoodService) CreateEntry(input CreateMoodInput) (*models.MoodEntry, error) {
	for _, score := range []int{input.MoodScore, input.EnergyLevel, input.FocusLevel} {
		if score < constants.MinMoodScore || score > constants.MaxMoodScore {
			return nil, ErrInvalidMoodScore
		}
	}

	entry := &models.MoodEntry{
		UserID:      input.UserID,
		MoodScore:   input.MoodScore,
		EnergyLevel: input.EnergyLevel,
		FocusLevel:  input.FocusLevel,
		Notes:       input.Notes,
	}
	if err := s.moodRepo.Create(entry); err != nil {
		return nil, fmt.Errorf("failed to create mood entry: %w", err)
	}
	return entry, nil
}

func (s *MoodService) ListEntries(userID uint64, since *time.Time) ([]models.MoodEntry, error) {
	entries, err := s.moodRepo.ListByUser(userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return entries, nil
}

// UpdateEntry applies an explicit update; entries are otherwise immutable.
func (s *MoodService) UpdateEntry(entryID, userID uint64, input CreateMoodInput) (*models.MoodEntry, error) {
	entry, err := s.getOwned(entryID, userID)
	if err != nil {
		return nil, err
	}

	for _, score := range []int{input.MoodScore, input.EnergyLevel, input.FocusLevel} {
		if score < constants.MinMoodScore || score > constants.MaxMoodScore {
			return nil, ErrInvalidMoodScore
		}
	}

	entry.MoodScore = input.MoodScore
	entry.EnergyLevel = input.EnergyLevel
	entry.FocusLevel = input.FocusLevel
	entry.Notes = input.Notes

	if err := s.moodRepo.Update(entry); err != nil {
		return nil, fmt.Errorf("failed to update mood entry: %w", err)
	}
	return entry, nil
}

func (s *MoodService) DeleteEntry(entryID, userID uint64) error {
	if _, err := s.getOwned(entryID, userID); err != nil {
		return err
	}
	if err := s.moodRepo.Delete(entryID); err != nil {
		return fmt.Errorf("failed to delete mood entry: %w", err)
	}
	return nil
}

// Averages returns the mean mood/energy/focus over entries created within
// the last `days` days, or nil when the window is empty.
func (s *MoodService) Averages(userID uint64, days int) (*MoodAverages, error) {
	since := time.Now().AddDate(0, 0, -days)
	entries, err := s.moodRepo.ListByUser(userID, &since)
	if err != nil {
		return nil, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return ComputeAverages(entries), nil
}

// ComputeAverages is the pure aggregation over a snapshot.
func ComputeAverages(entries []models.MoodEntry) *MoodAverages {
	if len(entries) == 0 {
		return nil
	}
	avg := &MoodAverages{Entries: len(entries)}
	for _, e := range entries {
		avg.Mood += float64(e.MoodScore)
		avg.Energy += float64(e.EnergyLevel)
		avg.Focus += float64(e.FocusLevel)
	}
	n := float64(len(entries))
	avg.Mood /= n
	avg.Energy /= n
	avg.Focus /= n
	return avg
}

// RecentTrend compares the mean mood of the most recent three entries to the
// previous three. Fewer than six entries reads as stable.
func (s *MoodService) RecentTrend(userID uint64) (TrendDirection, error) {
	entries, err := s.moodRepo.ListByUser(userID, nil)
	if err != nil {
		return TrendStable, fmt.Errorf("failed to list mood entries: %w", err)
	}
	return ComputeTrend(entries), nil
}

// ComputeTrend expects entries ordered newest first, matching the repository.
func ComputeTrend(entries []models.MoodEntry) TrendDirection {
	if len(entries) < 6 {
		return TrendStable
	}

	recent := meanMood(entries[0:3])
	previous := meanMood(entries[3:6])

	switch {
	case recent > previous:
		return TrendImproving
	case recent < previous:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func meanMood(entries []models.MoodEntry) float64 {
	sum := 0.0
	for _, e := range entries {
		sum += float64(e.MoodScore)
	}
	return sum / float64(len(entries))
}

func (s *MoodService) getOwned(entryID, userID uint64) (*models.MoodEntry, error) {
	entry, err := s.moodRepo.FindByID(entryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMoodEntryNotFound
		}
		return nil, fmt.Errorf("failed to find mood entry: %w", err)
	}
	if entry.UserID != userID {
		return nil, ErrNotMoodOwner
	}
	return entry, nil
}
