package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/constants"
	"github.com/mindmesh/mindmesh-api/internal/logger"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/providers"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"github.com/mindmesh/mindmesh-api/internal/utils"
	"gorm.io/gorm"
)

var ErrNoProviderForSystem = errors.New("no provider registered for external system")

// TokenRefresher renews an integration's credentials. IntegrationService
// implements it; a run skips the integration when the refresh fails so
// provider calls never go out with a token known to be expired.
type TokenRefresher interface {
	EnsureFreshToken(ctx context.Context, integration *models.Integration) error
}

// SyncService reconciles external calendar/workspace items with local tasks.
// Import is idempotent through the sync mapping table; export propagates
// recent local completions outward. There is no retry policy: every external
// call is attempted once per invocation.
type SyncService struct {
	taskRepo  repository.TaskRepository
	syncRepo  repository.SyncRepository
	tokens    TokenRefresher
	providers map[models.ExternalSystem]providers.SyncProvider
	log       logger.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(taskRepo repository.TaskRepository, syncRepo repository.SyncRepository, log logger.Logger, tokens TokenRefresher, provs ...providers.SyncProvider) *SyncService {
	m := make(map[models.ExternalSystem]providers.SyncProvider, len(provs))
	for _, p := range provs {
		m[p.System()] = p
	}
	return &SyncService{
		taskRepo:  taskRepo,
		syncRepo:  syncRepo,
		tokens:    tokens,
		providers: m,
		log:       log,
	}
}

// IntegrationResult reports one integration's share of a sync run.
type IntegrationResult struct {
	Imported int      `json:"imported"`
	Exported int      `json:"exported"`
	Errors   []string `json:"errors"`
}

// SyncResult aggregates a full reconciliation invocation.
type SyncResult struct {
	TotalImported int                          `json:"total_imported"`
	TotalExported int                          `json:"total_exported"`
	Integrations  map[string]IntegrationResult `json:"integrations"`
	Errors        []string                     `json:"errors"`
}

// SyncInput selects what to reconcile.
type SyncInput struct {
	UserID    uint64
	System    *models.ExternalSystem
	Direction *models.SyncDirection
}

// Run executes one reconciliation pass. Per-item failures are collected and
// never abort the remaining items; last_sync_at is stamped regardless of
// partial failures.
func (s *SyncService) Run(ctx context.Context, input SyncInput) (*SyncResult, error) {
	runID := utils.NewSyncRunID()

	integrations, err := s.syncRepo.ListActiveIntegrations(input.UserID, input.System)
	if err != nil {
		return nil, fmt.Errorf("failed to list integrations: %w", err)
	}

	result := &SyncResult{
		Integrations: make(map[string]IntegrationResult, len(integrations)),
		Errors:       []string{},
	}

	for i := range integrations {
		integration := &integrations[i]
		ir := s.syncIntegration(ctx, integration, input.Direction)

		result.Integrations[string(integration.IntegrationType)] = ir
		result.TotalImported += ir.Imported
		result.TotalExported += ir.Exported
		result.Errors = append(result.Errors, ir.Errors...)

		if err := s.syncRepo.StampLastSync(integration.ID, time.Now()); err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s: failed to stamp last sync: %v", integration.IntegrationType, err))
		}
	}

	s.log.Infof("sync run %s user=%d imported=%d exported=%d errors=%d",
		runID, input.UserID, result.TotalImported, result.TotalExported, len(result.Errors))
	return result, nil
}

func (s *SyncService) syncIntegration(ctx context.Context, integration *models.Integration, direction *models.SyncDirection) IntegrationResult {
	ir := IntegrationResult{Errors: []string{}}

	provider, ok := s.providers[integration.IntegrationType]
	if !ok {
		ir.Errors = append(ir.Errors, fmt.Sprintf("%s: %v", integration.IntegrationType, ErrNoProviderForSystem))
		return ir
	}

	if s.tokens != nil {
		if err := s.tokens.EnsureFreshToken(ctx, integration); err != nil {
			ir.Errors = append(ir.Errors, fmt.Sprintf("%s: refresh token: %v", integration.IntegrationType, err))
			return ir
		}
	}

	if wantsImport(integration, direction) {
		imported, errs := s.importPhase(ctx, provider, integration)
		ir.Imported = imported
		ir.Errors = append(ir.Errors, errs...)
	}

	if wantsExport(integration, direction) {
		exported, errs := s.exportPhase(ctx, provider, integration)
		ir.Exported = exported
		ir.Errors = append(ir.Errors, errs...)
	}

	return ir
}

func wantsImport(integration *models.Integration, direction *models.SyncDirection) bool {
	if direction != nil {
		return *direction == models.DirectionImport || *direction == models.DirectionBoth
	}
	return integration.SyncRules.ImportEnabled
}

func wantsExport(integration *models.Integration, direction *models.SyncDirection) bool {
	if direction != nil {
		return *direction == models.DirectionExport || *direction == models.DirectionBoth
	}
	return integration.SyncRules.ExportEnabled
}

// importPhase brings external items in exactly once. The mapping lookup is
// the idempotency guarantee: a mapped item is skipped, an unmapped item
// becomes a task plus a mapping row in one transaction.
func (s *SyncService) importPhase(ctx context.Context, provider providers.SyncProvider, integration *models.Integration) (int, []string) {
	var errs []string

	items, err := provider.ListItems(ctx, integration)
	if err != nil {
		return 0, []string{fmt.Sprintf("%s: list items: %v", integration.IntegrationType, err)}
	}

	imported := 0
	for _, item := range items {
		if item.ExternalID == "" || item.Title == "" {
			continue
		}

		_, err := s.syncRepo.FindMapping(integration.UserID, item.ExternalID, integration.IntegrationType)
		if err == nil {
			continue // already imported
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			errs = append(errs, fmt.Sprintf("%s: mapping lookup %s: %v", integration.IntegrationType, item.ExternalID, err))
			continue
		}

		task := &models.Task{
			UserID:      integration.UserID,
			Title:       item.Title,
			Description: item.Description,
			Status:      MapExternalStatus(item.Status),
			Priority:    models.TaskPriorityMedium,
			DueDate:     item.DueDate,
			Complexity:  3,
			Tags:        models.StringList{string(integration.IntegrationType)},
		}
		mapping := &models.SyncMapping{
			ExternalID:     item.ExternalID,
			ExternalSystem: integration.IntegrationType,
			SyncDirection:  models.DirectionImport,
		}

		if err := s.taskRepo.CreateWithMapping(task, mapping); err != nil {
			errs = append(errs, fmt.Sprintf("%s: import %s: %v", integration.IntegrationType, item.ExternalID, err))
			continue
		}
		imported++
	}

	return imported, errs
}

// exportPhase pushes completions from the last 24 hours back out. Failures
// are collected per item and remaining items still run.
func (s *SyncService) exportPhase(ctx context.Context, provider providers.SyncProvider, integration *models.Integration) (int, []string) {
	var errs []string

	since := time.Now().Add(-time.Duration(constants.ExportLookbackHours) * time.Hour)
	tasks, err := s.taskRepo.FindCompletedSince(integration.UserID, since, integration.IntegrationType)
	if err != nil {
		return 0, []string{fmt.Sprintf("%s: list completed tasks: %v", integration.IntegrationType, err)}
	}

	exported := 0
	for _, task := range tasks {
		mapping, err := s.syncRepo.FindMappingByTask(task.ID, integration.IntegrationType)
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: mapping for task %d: %v", integration.IntegrationType, task.ID, err))
			continue
		}

		if err := provider.MarkCompleted(ctx, integration, mapping.ExternalID); err != nil {
			errs = append(errs, fmt.Sprintf("%s: export task %d: %v", integration.IntegrationType, task.ID, err))
			continue
		}
		exported++
	}

	return exported, errs
}

// MapExternalStatus maps an external status string onto the local task
// status by simple substring match.
func MapExternalStatus(external string) models.TaskStatus {
	lower := strings.ToLower(external)
	switch {
	case strings.Contains(lower, "done"), strings.Contains(lower, "complete"):
		return models.TaskStatusCompleted
	case strings.Contains(lower, "progress"), strings.Contains(lower, "doing"):
		return models.TaskStatusInProgress
	default:
		return models.TaskStatusPending
	}
}
