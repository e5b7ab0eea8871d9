package store

import (
	"path/filepath"
	"testing"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SettingsStoreTestSuite defines the test suite for SettingsStore
type SettingsStoreTestSuite struct {
	suite.Suite
	db        *gorm.DB
	repo      repository.SettingsRepository
	statePath string
	user      *models.User
}

// SetupTest runs before each test
func (suite *SettingsStoreTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.UserSettings{})
	suite.Require().NoError(err)

	suite.repo = repository.NewSettingsRepository(suite.db)
	suite.statePath = filepath.Join(suite.T().TempDir(), "state.json")

	suite.user = &models.User{Email: "settings@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(suite.user)
}

// TearDownTest runs after each test
func (suite *SettingsStoreTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *SettingsStoreTestSuite) newStore() *SettingsStore {
	kv, err := NewFileKV(suite.statePath)
	suite.Require().NoError(err)
	return NewSettingsStore(suite.repo, kv)
}

func (suite *SettingsStoreTestSuite) TestGet_CreatesDefaults() {
	store := suite.newStore()

	settings, err := store.Get(suite.user.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "system", settings.Theme)
	assert.True(suite.T(), settings.NotificationsEnabled)
	assert.False(suite.T(), settings.ReduceMotion)
}

// Appearance preferences written through one store must be visible to a
// fresh store built over the same state file.
func (suite *SettingsStoreTestSuite) TestUpdate_AppearanceSurvivesRestart() {
	store := suite.newStore()

	settings, err := store.Get(suite.user.ID)
	suite.Require().NoError(err)

	settings.Theme = "dark"
	settings.ReduceMotion = true
	suite.Require().NoError(store.Update(suite.user.ID, settings))

	restarted := suite.newStore()
	reloaded, err := restarted.Get(suite.user.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), "dark", reloaded.Theme)
	assert.True(suite.T(), reloaded.ReduceMotion)
}

func (suite *SettingsStoreTestSuite) TestUpdate_PersistsToRepository() {
	store := suite.newStore()

	settings, err := store.Get(suite.user.ID)
	suite.Require().NoError(err)

	settings.TTSVoiceID = "custom-voice"
	suite.Require().NoError(store.Update(suite.user.ID, settings))

	var row models.UserSettings
	suite.Require().NoError(suite.db.Where("user_id = ?", suite.user.ID).First(&row).Error)
	assert.Equal(suite.T(), "custom-voice", row.TTSVoiceID)
}

// TestSettingsStoreTestSuite runs the test suite
func TestSettingsStoreTestSuite(t *testing.T) {
	suite.Run(t, new(SettingsStoreTestSuite))
}

func TestSubscriptionStore_OverrideSurvivesRestart(t *testing.T) {
	statePath := filepath.Join(t.TempDir(), "state.json")

	kv, err := NewFileKV(statePath)
	if err != nil {
		t.Fatal(err)
	}
	store := NewSubscriptionStore(kv)

	sub, err := store.SetDeveloperOverride(42, true)
	if err != nil {
		t.Fatal(err)
	}
	assert.True(t, sub.Active)
	assert.Equal(t, "premium", sub.Tier)

	reopened, err := NewFileKV(statePath)
	if err != nil {
		t.Fatal(err)
	}
	restarted := NewSubscriptionStore(reopened)

	sub = restarted.Get(42)
	assert.True(t, sub.DeveloperOverride)
	assert.True(t, sub.Active)
	assert.Equal(t, "premium", sub.Tier)
}

func TestSubscriptionStore_OverrideWinsOverBilling(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	store := NewSubscriptionStore(kv)

	_, err = store.SetDeveloperOverride(1, true)
	if err != nil {
		t.Fatal(err)
	}

	// A billing update must not clobber an active developer override
	store.SetActive(1, "free", false)

	sub := store.Get(1)
	assert.True(t, sub.DeveloperOverride)
	assert.Equal(t, "premium", sub.Tier)
}

func TestSubscriptionStore_DefaultsToFree(t *testing.T) {
	kv, err := NewFileKV(filepath.Join(t.TempDir(), "state.json"))
	if err != nil {
		t.Fatal(err)
	}
	store := NewSubscriptionStore(kv)

	sub := store.Get(7)
	assert.Equal(t, "free", sub.Tier)
	assert.False(t, sub.Active)
	assert.False(t, sub.DeveloperOverride)
}
