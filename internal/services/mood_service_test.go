package services

import (
	"testing"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// MoodServiceTestSuite defines the test suite for MoodService
type MoodServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *MoodService
	user    *models.User
}

// SetupTest runs before each test
func (suite *MoodServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.MoodEntry{})
	suite.Require().NoError(err)

	suite.service = NewMoodService(repository.NewMoodRepository(suite.db))

	suite.user = &models.User{Email: "mood@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(suite.user)
}

// TearDownTest runs after each test
func (suite *MoodServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *MoodServiceTestSuite) createEntry(mood, energy, focus int, age time.Duration) *models.MoodEntry {
	entry := &models.MoodEntry{
		UserID:      suite.user.ID,
		MoodScore:   mood,
		EnergyLevel: energy,
		FocusLevel:  focus,
	}
	suite.db.Create(entry)
	// Backdate after create so gorm doesn't overwrite the timestamp
	createdAt := time.Now().Add(-age)
	suite.db.Model(entry).Update("created_at", createdAt)
	return entry
}

func (suite *MoodServiceTestSuite) TestCreateEntry_ValidatesScores() {
	_, err := suite.service.CreateEntry(CreateMoodInput{
		UserID:      suite.user.ID,
		MoodScore:   11,
		EnergyLevel: 5,
		FocusLevel:  5,
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidMoodScore)

	_, err = suite.service.CreateEntry(CreateMoodInput{
		UserID:      suite.user.ID,
		MoodScore:   5,
		EnergyLevel: 0,
		FocusLevel:  5,
	})
	assert.ErrorIs(suite.T(), err, ErrInvalidMoodScore)
}

func (suite *MoodServiceTestSuite) TestAverages_EmptyWindowIsNil() {
	// One entry well outside the 7 day window
	suite.createEntry(8, 8, 8, 30*24*time.Hour)

	averages, err := suite.service.Averages(suite.user.ID, 7)
	suite.Require().NoError(err)
	assert.Nil(suite.T(), averages)
}

func (suite *MoodServiceTestSuite) TestAverages_ArithmeticMean() {
	suite.createEntry(4, 6, 8, time.Hour)
	suite.createEntry(6, 4, 2, 2*time.Hour)

	averages, err := suite.service.Averages(suite.user.ID, 7)
	suite.Require().NoError(err)

	suite.Require().NotNil(averages)
	assert.Equal(suite.T(), 2, averages.Entries)
	assert.InDelta(suite.T(), 5.0, averages.Mood, 0.001)
	assert.InDelta(suite.T(), 5.0, averages.Energy, 0.001)
	assert.InDelta(suite.T(), 5.0, averages.Focus, 0.001)
}

func (suite *MoodServiceTestSuite) TestUpdateEntry_OwnerCheck() {
	other := &models.User{Email: "other@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(other)

	entry := suite.createEntry(5, 5, 5, time.Hour)

	_, err := suite.service.UpdateEntry(entry.ID, other.ID, CreateMoodInput{
		MoodScore: 7, EnergyLevel: 7, FocusLevel: 7,
	})
	assert.ErrorIs(suite.T(), err, ErrNotMoodOwner)
}

// TestMoodServiceTestSuite runs the test suite
func TestMoodServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MoodServiceTestSuite))
}

func entriesWithMoods(moods ...int) []models.MoodEntry {
	entries := make([]models.MoodEntry, 0, len(moods))
	for _, m := range moods {
		entries = append(entries, models.MoodEntry{MoodScore: m})
	}
	return entries
}

func TestComputeTrend(t *testing.T) {
	// Entries are newest first
	assert.Equal(t, TrendStable, ComputeTrend(entriesWithMoods(8, 8, 8, 2, 2)))
	assert.Equal(t, TrendImproving, ComputeTrend(entriesWithMoods(8, 8, 8, 3, 3, 3)))
	assert.Equal(t, TrendDeclining, ComputeTrend(entriesWithMoods(2, 2, 2, 7, 7, 7)))
	assert.Equal(t, TrendStable, ComputeTrend(entriesWithMoods(5, 5, 5, 5, 5, 5)))
	assert.Equal(t, TrendStable, ComputeTrend(nil))
}

func TestComputeAverages_Empty(t *testing.T) {
	assert.Nil(t, ComputeAverages(nil))
	assert.Nil(t, ComputeAverages([]models.MoodEntry{}))
}
