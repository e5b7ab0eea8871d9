package store

import (
	"testing"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"github.com/mindmesh/mindmesh-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// StoreTestSuite covers the per-user cached stores over a real database.
type StoreTestSuite struct {
	suite.Suite
	db   *gorm.DB
	user *models.User

	tasks     *TaskStore
	moods     *MoodStore
	reminders *ReminderStore
}

// SetupTest runs before each test
func (suite *StoreTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Task{},
		&models.SyncMapping{},
		&models.MoodEntry{},
		&models.Reminder{},
	)
	suite.Require().NoError(err)

	suite.user = &models.User{Email: "store@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(suite.user)

	suite.tasks = NewTaskStore(services.NewTaskService(repository.NewTaskRepository(suite.db)), suite.user.ID)
	suite.moods = NewMoodStore(services.NewMoodService(repository.NewMoodRepository(suite.db)), suite.user.ID)
	suite.reminders = NewReminderStore(services.NewReminderService(repository.NewReminderRepository(suite.db)), suite.user.ID)
}

// TearDownTest runs after each test
func (suite *StoreTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *StoreTestSuite) TestTaskStore_MutationsReloadForest() {
	parent, err := suite.tasks.Create(services.CreateTaskInput{Title: "Parent"})
	suite.Require().NoError(err)

	_, err = suite.tasks.Create(services.CreateTaskInput{Title: "Child", ParentTaskID: &parent.ID})
	suite.Require().NoError(err)

	forest := suite.tasks.Forest()
	suite.Require().Len(forest, 1)
	suite.Require().Len(forest[0].Children, 1)

	suite.Require().NoError(suite.tasks.Delete(forest[0].Children[0].Task.ID))
	forest = suite.tasks.Forest()
	suite.Require().Len(forest, 1)
	assert.Empty(suite.T(), forest[0].Children)
}

func (suite *StoreTestSuite) TestTaskStore_ToggleExpansionIsCacheOnly() {
	task, err := suite.tasks.Create(services.CreateTaskInput{Title: "Expandable"})
	suite.Require().NoError(err)

	assert.True(suite.T(), suite.tasks.ToggleExpansion(task.ID))
	assert.True(suite.T(), suite.tasks.Forest()[0].Expanded)

	// A reload resets the transient flag; nothing was persisted
	suite.Require().NoError(suite.tasks.Load(nil))
	assert.False(suite.T(), suite.tasks.Forest()[0].Expanded)

	assert.False(suite.T(), suite.tasks.ToggleExpansion(9999))
}

func (suite *StoreTestSuite) TestTaskStore_CompleteSpawnsSuccessorInForest() {
	due := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	daily := models.RecurrenceDaily
	task, err := suite.tasks.Create(services.CreateTaskInput{
		Title:             "Daily check",
		DueDate:           &due,
		RecurrencePattern: &daily,
	})
	suite.Require().NoError(err)

	_, successor, err := suite.tasks.Complete(task.ID)
	suite.Require().NoError(err)
	suite.Require().NotNil(successor)

	// Forest reloaded: completed original plus pending successor
	forest := suite.tasks.Forest()
	assert.Len(suite.T(), forest, 2)
}

func (suite *StoreTestSuite) TestMoodStore_DerivedViews() {
	suite.Require().NoError(suite.moods.Load())
	assert.Nil(suite.T(), suite.moods.GetAverages(7))

	_, err := suite.moods.Create(services.CreateMoodInput{MoodScore: 4, EnergyLevel: 6, FocusLevel: 8})
	suite.Require().NoError(err)
	_, err = suite.moods.Create(services.CreateMoodInput{MoodScore: 6, EnergyLevel: 4, FocusLevel: 2})
	suite.Require().NoError(err)

	averages := suite.moods.GetAverages(7)
	suite.Require().NotNil(averages)
	assert.Equal(suite.T(), 2, averages.Entries)
	assert.InDelta(suite.T(), 5.0, averages.Mood, 0.001)

	assert.Equal(suite.T(), services.TrendStable, suite.moods.GetRecentTrend())
}

func (suite *StoreTestSuite) TestReminderStore_ActiveAndSnooze() {
	suite.Require().NoError(suite.reminders.Load())

	due, err := suite.reminders.Create(services.CreateReminderInput{
		Title:    "Due",
		RemindAt: time.Now().Add(-time.Minute),
	})
	suite.Require().NoError(err)
	_, err = suite.reminders.Create(services.CreateReminderInput{
		Title:    "Future",
		RemindAt: time.Now().Add(time.Hour),
	})
	suite.Require().NoError(err)

	active := suite.reminders.GetActiveReminders()
	suite.Require().Len(active, 1)
	assert.Equal(suite.T(), due.ID, active[0].ID)

	successor, err := suite.reminders.Snooze(due.ID, 30)
	suite.Require().NoError(err)
	suite.Require().NotNil(successor.OriginalReminderID)

	// Original dismissed, successor not yet due
	assert.Empty(suite.T(), suite.reminders.GetActiveReminders())
	assert.Len(suite.T(), suite.reminders.Reminders(), 3)
}

// TestStoreTestSuite runs the test suite
func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}
