package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/mindmesh/mindmesh-api/internal/constants"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
)

var (
	ErrBrainDumpNotFound      = errors.New("brain dump not found")
	ErrNotBrainDumpOwner      = errors.New("brain dump belongs to a different user")
	ErrBatchTooLarge          = errors.New("too many entries in one batch")
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
)

var validate = validator.New()

// BrainDumpService handles capture, offline batch upload and AI
// classification of brain dumps.
type BrainDumpService struct {
	dumpRepo  repository.BrainDumpRepository
	aiService *AIService
}

// NewBrainDumpService creates a new BrainDumpService
func NewBrainDumpService(dumpRepo repository.BrainDumpRepository, aiService *AIService) *BrainDumpService {
	return &BrainDumpService{dumpRepo: dumpRepo, aiService: aiService}
}

// BatchEntry is one offline-captured entry being uploaded.
type BatchEntry struct {
	Content   string `json:"content" validate:"required"`
	Type      string `json:"type" validate:"omitempty,oneof=text voice"`
	CreatedAt string `json:"created_at" validate:"omitempty"`
}

// BatchResult reports an offline-capture upload.
type BatchResult struct {
	Synced int      `json:"synced"`
	Errors []string `json:"errors"`
}

func (s *BrainDumpService) Create(userID uint64, content string, dumpType models.BrainDumpType) (*models.BrainDump, error) {
	if content == "" {
		return nil, fmt.Errorf("content is required")
	}
	if dumpType == "" {
		dumpType = models.BrainDumpText
	}

	dump := &models.BrainDump{
		UserID:  userID,
		Content: content,
		Type:    dumpType,
	}
	if err := s.dumpRepo.Create(dump); err != nil {
		return nil, fmt.Errorf("failed to create brain dump: %w", err)
	}
	return dump, nil
}

func (s *BrainDumpService) List(userID uint64, unprocessedOnly bool) ([]models.BrainDump, error) {
	dumps, err := s.dumpRepo.ListByUser(userID, unprocessedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list brain dumps: %w", err)
	}
	return dumps, nil
}

// SyncBatch uploads offline-captured entries. Per-entry failures are
// collected and do not abort the remaining entries.
func (s *BrainDumpService) SyncBatch(userID uint64, entries []BatchEntry) (*BatchResult, error) {
	if len(entries) > constants.MaxBrainDumpBatch {
		return nil, ErrBatchTooLarge
	}

	result := &BatchResult{Errors: []string{}}
	for i, entry := range entries {
		if err := validate.Struct(entry); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}

		dumpType := models.BrainDumpType(entry.Type)
		if dumpType == "" {
			dumpType = models.BrainDumpText
		}

		dump := &models.BrainDump{
			UserID:  userID,
			Content: entry.Content,
			Type:    dumpType,
		}
		if entry.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, entry.CreatedAt); err == nil {
				dump.CreatedAt = t
			}
		}

		if err := s.dumpRepo.Create(dump); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		result.Synced++
	}

	return result, nil
}

// Process classifies a brain dump through the AI service and marks it
// processed.
func (s *BrainDumpService) Process(ctx context.Context, dumpID, userID uint64) (*BrainDumpResult, error) {
	if s.aiService == nil {
		return nil, ErrAIServiceNotConfigured
	}

	dump, err := s.getOwned(dumpID, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.aiService.ProcessBrainDump(ctx, dump.Content, dump.Type)
	if err != nil {
		return nil, fmt.Errorf("failed to process brain dump: %w", err)
	}

	dump.Processed = true
	dump.Category = result.Category
	dump.AISummary = result.Summary
	if err := s.dumpRepo.Update(dump); err != nil {
		return nil, fmt.Errorf("failed to mark brain dump processed: %w", err)
	}

	return result, nil
}

func (s *BrainDumpService) Delete(dumpID, userID uint64) error {
	if _, err := s.getOwned(dumpID, userID); err != nil {
		return err
	}
	if err := s.dumpRepo.Delete(dumpID); err != nil {
		return fmt.Errorf("failed to delete brain dump: %w", err)
	}
	return nil
}

func (s *BrainDumpService) getOwned(dumpID, userID uint64) (*models.BrainDump, error) {
	dump, err := s.dumpRepo.FindByID(dumpID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrainDumpNotFound
		}
		return nil, fmt.Errorf("failed to find brain dump: %w", err)
	}
	if dump.UserID != userID {
		return nil, ErrNotBrainDumpOwner
	}
	return dump, nil
}
