package services

import (
	"context"
	"testing"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/logger"
	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/providers"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fakeProvider is an in-memory SyncProvider for reconciliation tests.
type fakeProvider struct {
	system    models.ExternalSystem
	items     []providers.Item
	listErr   error
	listCalls int
	completed []string
}

func (f *fakeProvider) System() models.ExternalSystem { return f.system }

func (f *fakeProvider) ListItems(ctx context.Context, integration *models.Integration) ([]providers.Item, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

// fakeRefresher records token refresh calls.
type fakeRefresher struct {
	calls int
	err   error
}

func (f *fakeRefresher) EnsureFreshToken(ctx context.Context, integration *models.Integration) error {
	f.calls++
	return f.err
}

func (f *fakeProvider) MarkCompleted(ctx context.Context, integration *models.Integration, externalID string) error {
	f.completed = append(f.completed, externalID)
	return nil
}

// SyncServiceTestSuite defines the test suite for SyncService
type SyncServiceTestSuite struct {
	suite.Suite
	db        *gorm.DB
	taskRepo  repository.TaskRepository
	syncRepo  repository.SyncRepository
	provider  *fakeProvider
	refresher *fakeRefresher
	service   *SyncService
	user      *models.User
}

// SetupTest runs before each test
func (suite *SyncServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.SyncMapping{},
		&models.Integration{},
	)
	suite.Require().NoError(err)

	suite.taskRepo = repository.NewTaskRepository(suite.db)
	suite.syncRepo = repository.NewSyncRepository(suite.db)

	suite.provider = &fakeProvider{system: models.SystemGoogleCalendar}
	suite.refresher = &fakeRefresher{}
	suite.service = NewSyncService(suite.taskRepo, suite.syncRepo, logger.Nop{}, suite.refresher, suite.provider)

	suite.user = &models.User{Email: "sync@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(suite.user)
}

// TearDownTest runs after each test
func (suite *SyncServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *SyncServiceTestSuite) createIntegration(rules models.SyncRules) *models.Integration {
	integration := &models.Integration{
		UserID:          suite.user.ID,
		IntegrationType: models.SystemGoogleCalendar,
		AccessToken:     "token",
		IsActive:        true,
		SyncRules:       rules,
	}
	suite.db.Create(integration)
	return integration
}

// Running the same import twice must leave exactly one task and one mapping.
func (suite *SyncServiceTestSuite) TestRun_ImportIsIdempotent() {
	suite.createIntegration(models.SyncRules{ImportEnabled: true})
	suite.provider.items = []providers.Item{
		{ExternalID: "evt-1", Title: "Dentist appointment", Status: "confirmed"},
	}

	first, err := suite.service.Run(context.Background(), SyncInput{UserID: suite.user.ID})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 1, first.TotalImported)

	second, err := suite.service.Run(context.Background(), SyncInput{UserID: suite.user.ID})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, second.TotalImported)

	var taskCount, mappingCount int64
	suite.db.Model(&models.Task{}).Count(&taskCount)
	suite.db.Model(&models.SyncMapping{}).Count(&mappingCount)
	assert.Equal(suite.T(), int64(1), taskCount)
	assert.Equal(suite.T(), int64(1), mappingCount)
}

func (suite *SyncServiceTestSuite) TestRun_ImportedTaskShape() {
	suite.createIntegration(models.SyncRules{ImportEnabled: true})
	due := time.Date(2025, 2, 14, 10, 0, 0, 0, time.UTC)
	suite.provider.items = []providers.Item{
		{ExternalID: "evt-2", Title: "Standup", Status: "In Progress", DueDate: &due},
	}

	_, err := suite.service.Run(context.Background(), SyncInput{UserID: suite.user.ID})
	suite.Require().NoError(err)

	var task models.Task
	suite.Require().NoError(suite.db.First(&task).Error)
	assert.Equal(suite.T(), models.TaskStatusInProgress, task.Status)
	assert.Equal(suite.T(), models.StringList{"google_calendar"}, task.Tags)
	assert.Equal(suite.T(), suite.user.ID, task.UserID)
}

func (suite *SyncServiceTestSuite) TestRun_SkipsItemsWithoutIdentity() {
	suite.createIntegration(models.SyncRules{ImportEnabled: true})
	suite.provider.items = []providers.Item{
		{ExternalID: "", Title: "No identity"},
		{ExternalID: "evt-3", Title: ""},
	}

	result, err := suite.service.Run(context.Background(), SyncInput{UserID: suite.user.ID})
	suite.Require().NoError(err)
	assert.Equal(suite.T(), 0, result.TotalImported)
	assert.Empty(suite.T(), result.Errors)
}

func (suite *SyncServiceTestSuite) TestRun_ExportsRecentCompletions() {
	suite.createIntegration(models.SyncRules{ExportEnabled: true})

	now := time.Now()
	task := &models.Task{
		UserID:      suite.user.ID,
		Title:       "Exported",
		Status:      models.TaskStatusCompleted,
		Priority:    models.TaskPriorityMedium,
		Complexity:  3,
		CompletedAt: &now,
	}
	mapping := &models.SyncMapping{
		ExternalID:     "evt-out",
		ExternalSystem: models.SystemGoogleCalendar,
		SyncDirection:  models.DirectionImport,
	}
	suite.Require().NoError(suite.taskRepo.CreateWithMapping(task, mapping))

	result, err := suite.service.Run(context.Background(), SyncInput{UserID: suite.user.ID})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), 1, result.TotalExported)
	assert.Equal(suite.T(), []string{"evt-out"}, suite.provider.completed)
}

func (suite *SyncServiceTestSuite) TestRun_DirectionOverride() {
	suite.createIntegration(models.SyncRules{ImportEnabled: true, ExportEnabled: true})
	suite.provider.items = []providers.Item{
		{ExternalID: "evt-4", Title: "Import me"},
	}

	direction := models.DirectionExport
	result, err := suite.service.Run(context.Background(), SyncInput{
		UserID:    suite.user.ID,
		Direction: &direction,
	})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), 0, result.TotalImported)
}

func (suite *SyncServiceTestSuite) TestRun_StampsLastSyncDespiteErrors() {
	integration := suite.createIntegration(models.SyncRules{ImportEnabled: true})
	suite.provider.listErr = assert.AnError

	result, err := suite.service.Run(context.Background(), SyncInput{UserID: suite.user.ID})
	suite.Require().NoError(err)
	assert.NotEmpty(suite.T(), result.Errors)

	var reloaded models.Integration
	suite.Require().NoError(suite.db.First(&reloaded, integration.ID).Error)
	assert.NotNil(suite.T(), reloaded.LastSyncAt)
}

// Every sync pass renews the integration's token before talking to the
// provider.
func (suite *SyncServiceTestSuite) TestRun_RefreshesTokenBeforeProviderCalls() {
	suite.createIntegration(models.SyncRules{ImportEnabled: true})
	suite.provider.items = []providers.Item{
		{ExternalID: "evt-5", Title: "Refresh first"},
	}

	result, err := suite.service.Run(context.Background(), SyncInput{UserID: suite.user.ID})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), 1, suite.refresher.calls)
	assert.Equal(suite.T(), 1, result.TotalImported)
}

func (suite *SyncServiceTestSuite) TestRun_RefreshFailureSkipsIntegration() {
	suite.createIntegration(models.SyncRules{ImportEnabled: true})
	suite.refresher.err = assert.AnError
	suite.provider.items = []providers.Item{
		{ExternalID: "evt-6", Title: "Never fetched"},
	}

	result, err := suite.service.Run(context.Background(), SyncInput{UserID: suite.user.ID})
	suite.Require().NoError(err)

	assert.Equal(suite.T(), 0, result.TotalImported)
	assert.NotEmpty(suite.T(), result.Errors)
	assert.Equal(suite.T(), 0, suite.provider.listCalls, "provider must not be called with a stale token")
}

// TestSyncServiceTestSuite runs the test suite
func TestSyncServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncServiceTestSuite))
}

func TestMapExternalStatus(t *testing.T) {
	cases := map[string]models.TaskStatus{
		"Done":        models.TaskStatusCompleted,
		"completed":   models.TaskStatusCompleted,
		"In Progress": models.TaskStatusInProgress,
		"Doing":       models.TaskStatusInProgress,
		"confirmed":   models.TaskStatusPending,
		"":            models.TaskStatusPending,
		"needsAction": models.TaskStatusPending,
	}
	for input, want := range cases {
		assert.Equal(t, want, MapExternalStatus(input), "input %q", input)
	}
}
