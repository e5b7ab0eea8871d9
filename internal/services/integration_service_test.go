package services

import (
	"context"
	"testing"
	"time"

	"github.com/mindmesh/mindmesh-api/internal/models"
	"github.com/mindmesh/mindmesh-api/internal/repository"
	"github.com/mindmesh/mindmesh-api/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// IntegrationServiceTestSuite defines the test suite for IntegrationService
type IntegrationServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	codec   *utils.OAuthStateCodec
	service *IntegrationService
	user    *models.User
}

// SetupTest runs before each test
func (suite *IntegrationServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.User{}, &models.Integration{})
	suite.Require().NoError(err)

	suite.codec = utils.NewOAuthStateCodec("test-secret")
	suite.service = NewIntegrationService(repository.NewSyncRepository(suite.db), nil, suite.codec)

	suite.user = &models.User{Email: "integrations@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(suite.user)
}

// TearDownTest runs after each test
func (suite *IntegrationServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

// List shows every connection, deactivated ones included, so the client can
// offer a reconnect.
func (suite *IntegrationServiceTestSuite) TestList_IncludesDeactivatedIntegrations() {
	suite.db.Create(&models.Integration{
		UserID:          suite.user.ID,
		IntegrationType: models.SystemGoogleCalendar,
		IsActive:        true,
	})
	suite.db.Create(&models.Integration{
		UserID:          suite.user.ID,
		IntegrationType: models.SystemNotion,
		IsActive:        false,
	})

	integrations, err := suite.service.List(suite.user.ID)
	suite.Require().NoError(err)
	assert.Len(suite.T(), integrations, 2)
}

func (suite *IntegrationServiceTestSuite) TestList_ScopedToOwner() {
	other := &models.User{Email: "other@example.com", PasswordHash: "hashedpassword"}
	suite.db.Create(other)
	suite.db.Create(&models.Integration{
		UserID:          other.ID,
		IntegrationType: models.SystemNotion,
		IsActive:        true,
	})

	integrations, err := suite.service.List(suite.user.ID)
	suite.Require().NoError(err)
	assert.Empty(suite.T(), integrations)
}

// A hand-assembled state with a victim's user ID must not pass callback
// verification.
func (suite *IntegrationServiceTestSuite) TestVerifyState_RejectsForgedState() {
	_, err := suite.service.VerifyState("7:attacker-made-this-up")
	assert.ErrorIs(suite.T(), err, utils.ErrInvalidOAuthState)
}

func (suite *IntegrationServiceTestSuite) TestVerifyState_AcceptsMintedState() {
	userID, err := suite.service.VerifyState(suite.codec.Mint(suite.user.ID))
	suite.Require().NoError(err)
	assert.Equal(suite.T(), suite.user.ID, userID)
}

func (suite *IntegrationServiceTestSuite) TestEnsureFreshToken_SkipsUnexpiredToken() {
	future := time.Now().Add(time.Hour)
	integration := &models.Integration{
		UserID:          suite.user.ID,
		IntegrationType: models.SystemGoogleCalendar,
		AccessToken:     "still-good",
		TokenExpiresAt:  &future,
		IsActive:        true,
	}
	suite.db.Create(integration)

	// the suite's exchanger is nil, so a refresh attempt would panic
	err := suite.service.EnsureFreshToken(context.Background(), integration)
	suite.Require().NoError(err)
	assert.Equal(suite.T(), "still-good", integration.AccessToken)
}

// TestIntegrationServiceTestSuite runs the test suite
func TestIntegrationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationServiceTestSuite))
}
