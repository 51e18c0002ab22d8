package services

import (
	"testing"
	"time"

	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/period"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// LifecycleServiceTestSuite defines the test suite for LifecycleService
type LifecycleServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *LifecycleService
	now     time.Time
}

// SetupTest runs before each test
func (suite *LifecycleServiceTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyMember{},
		&models.Initiative{},
		&models.Vote{},
		&models.Progress{},
	)
	suite.Require().NoError(err)

	initiativeRepo := repository.NewInitiativeRepository(suite.db)
	voteRepo := repository.NewVoteRepository(suite.db)

	suite.now = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)
	suite.service = NewLifecycleService(initiativeRepo, voteRepo)
	suite.service.clock = func() time.Time { return suite.now }
}

// TearDownTest runs after each test
func (suite *LifecycleServiceTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *LifecycleServiceTestSuite) createUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *LifecycleServiceTestSuite) createCompany(name string) *models.Company {
	company := &models.Company{
		Name:       name,
		InviteCode: name + "-CODE",
	}
	suite.db.Create(company)
	return company
}

func (suite *LifecycleServiceTestSuite) createInitiative(title string, creatorID, companyID uint64, month, year int, status models.InitiativeStatus, createdAt time.Time) *models.Initiative {
	initiative := &models.Initiative{
		Title:     title,
		Month:     month,
		Year:      year,
		Status:    status,
		CreatorID: creatorID,
		CompanyID: companyID,
		CreatedAt: createdAt,
	}
	suite.db.Create(initiative)
	return initiative
}

func (suite *LifecycleServiceTestSuite) castVote(userID, initiativeID uint64) {
	suite.db.Create(&models.Vote{UserID: userID, InitiativeID: initiativeID})
}

func (suite *LifecycleServiceTestSuite) reload(id uint64) models.Initiative {
	var initiative models.Initiative
	suite.Require().NoError(suite.db.First(&initiative, id).Error)
	return initiative
}

// TestAutoActivate_WinnerByVotes tests that the candidate with the most votes wins
func (suite *LifecycleServiceTestSuite) TestAutoActivate_WinnerByVotes() {
	creator := suite.createUser("creator")
	voter1 := suite.createUser("voter1")
	voter2 := suite.createUser("voter2")
	company := suite.createCompany("GreenCo")

	first := suite.createInitiative("Bike to work", creator.ID, company.ID, 7, 2025, models.InitiativeStatusPending, suite.now.Add(-2*time.Hour))
	second := suite.createInitiative("Meatless Mondays", creator.ID, company.ID, 7, 2025, models.InitiativeStatusPending, suite.now.Add(-1*time.Hour))

	suite.castVote(voter1.ID, second.ID)
	suite.castVote(voter2.ID, second.ID)
	suite.castVote(creator.ID, first.ID)

	winner, err := suite.service.AutoActivate(company.ID, period.Period{Month: 7, Year: 2025})
	suite.Require().NoError(err)
	suite.Require().NotNil(winner)

	assert.Equal(suite.T(), second.ID, winner.ID)
	assert.Equal(suite.T(), models.InitiativeStatusActive, winner.Status)
	assert.True(suite.T(), winner.IsLocked)
}

// TestAutoActivate_TieBrokenByEarliestSubmission tests the tie-break and the
// loser's scheduled deletion date
func (suite *LifecycleServiceTestSuite) TestAutoActivate_TieBrokenByEarliestSubmission() {
	creator := suite.createUser("creator")
	voter1 := suite.createUser("voter1")
	voter2 := suite.createUser("voter2")
	company := suite.createCompany("GreenCo")

	earlier := suite.createInitiative("Solar panels", creator.ID, company.ID, 7, 2025, models.InitiativeStatusPending, suite.now.Add(-2*time.Hour))
	later := suite.createInitiative("Recycling drive", creator.ID, company.ID, 7, 2025, models.InitiativeStatusPending, suite.now.Add(-1*time.Hour))

	suite.castVote(voter1.ID, earlier.ID)
	suite.castVote(voter2.ID, later.ID)

	winner, err := suite.service.AutoActivate(company.ID, period.Period{Month: 7, Year: 2025})
	suite.Require().NoError(err)
	suite.Require().NotNil(winner)

	assert.Equal(suite.T(), earlier.ID, winner.ID)
	assert.True(suite.T(), winner.IsLocked)

	loser := suite.reload(later.ID)
	assert.Equal(suite.T(), models.InitiativeStatusFailed, loser.Status)
	suite.Require().NotNil(loser.AutoDeleteDate)
	assert.True(suite.T(), loser.AutoDeleteDate.Equal(time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)))
}

// TestAutoActivate_DemotesCurrentActive tests that the previous active
// initiative is completed when a winner is promoted
func (suite *LifecycleServiceTestSuite) TestAutoActivate_DemotesCurrentActive() {
	creator := suite.createUser("creator")
	company := suite.createCompany("GreenCo")

	active := suite.createInitiative("Old initiative", creator.ID, company.ID, 6, 2025, models.InitiativeStatusActive, suite.now.Add(-48*time.Hour))
	candidate := suite.createInitiative("New initiative", creator.ID, company.ID, 7, 2025, models.InitiativeStatusPending, suite.now.Add(-1*time.Hour))

	winner, err := suite.service.AutoActivate(company.ID, period.Period{Month: 7, Year: 2025})
	suite.Require().NoError(err)
	suite.Require().NotNil(winner)
	assert.Equal(suite.T(), candidate.ID, winner.ID)

	demoted := suite.reload(active.ID)
	assert.Equal(suite.T(), models.InitiativeStatusCompleted, demoted.Status)

	var activeCount int64
	suite.db.Model(&models.Initiative{}).
		Where("company_id = ? AND status = ?", company.ID, models.InitiativeStatusActive).
		Count(&activeCount)
	assert.Equal(suite.T(), int64(1), activeCount)
}

// TestAutoActivate_NoCandidates tests that an empty period is a no-op
func (suite *LifecycleServiceTestSuite) TestAutoActivate_NoCandidates() {
	company := suite.createCompany("GreenCo")

	winner, err := suite.service.AutoActivate(company.ID, period.Period{Month: 7, Year: 2025})
	suite.Require().NoError(err)
	assert.Nil(suite.T(), winner)
}

// TestManualActivate_Success tests admin activation of a pending initiative
func (suite *LifecycleServiceTestSuite) TestManualActivate_Success() {
	creator := suite.createUser("creator")
	company := suite.createCompany("GreenCo")

	active := suite.createInitiative("Current", creator.ID, company.ID, 6, 2025, models.InitiativeStatusActive, suite.now.Add(-72*time.Hour))
	target := suite.createInitiative("Chosen", creator.ID, company.ID, 7, 2025, models.InitiativeStatusPending, suite.now.Add(-2*time.Hour))
	rival := suite.createInitiative("Rival", creator.ID, company.ID, 7, 2025, models.InitiativeStatusPending, suite.now.Add(-1*time.Hour))

	activated, err := suite.service.ManualActivate(target.ID, company.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.InitiativeStatusActive, activated.Status)
	assert.False(suite.T(), activated.IsLocked)
	// Manual activation takes effect in the current period.
	assert.Equal(suite.T(), 6, activated.Month)
	assert.Equal(suite.T(), 2025, activated.Year)

	assert.Equal(suite.T(), models.InitiativeStatusCompleted, suite.reload(active.ID).Status)
	assert.Equal(suite.T(), models.InitiativeStatusArchived, suite.reload(rival.ID).Status)
}

// TestManualActivate_NotPending tests that only pending initiatives can be
// manually activated
func (suite *LifecycleServiceTestSuite) TestManualActivate_NotPending() {
	creator := suite.createUser("creator")
	company := suite.createCompany("GreenCo")

	completed := suite.createInitiative("Done", creator.ID, company.ID, 5, 2025, models.InitiativeStatusCompleted, suite.now.Add(-time.Hour))

	_, err := suite.service.ManualActivate(completed.ID, company.ID)
	assert.ErrorIs(suite.T(), err, ErrInitiativeNotPending)
}

// TestManualActivate_CompanyMismatch tests cross-company activation rejection
func (suite *LifecycleServiceTestSuite) TestManualActivate_CompanyMismatch() {
	creator := suite.createUser("creator")
	company := suite.createCompany("GreenCo")
	other := suite.createCompany("OtherCo")

	target := suite.createInitiative("Chosen", creator.ID, company.ID, 7, 2025, models.InitiativeStatusPending, suite.now.Add(-time.Hour))

	_, err := suite.service.ManualActivate(target.ID, other.ID)
	assert.ErrorIs(suite.T(), err, ErrCompanyMismatch)
}

// TestManualActivate_SingleActiveInvariant tests that competing activations
// leave exactly one active initiative
func (suite *LifecycleServiceTestSuite) TestManualActivate_SingleActiveInvariant() {
	creator := suite.createUser("creator")
	company := suite.createCompany("GreenCo")

	first := suite.createInitiative("First", creator.ID, company.ID, 6, 2025, models.InitiativeStatusPending, suite.now.Add(-2*time.Hour))
	second := suite.createInitiative("Second", creator.ID, company.ID, 6, 2025, models.InitiativeStatusPending, suite.now.Add(-1*time.Hour))

	_, err := suite.service.ManualActivate(first.ID, company.ID)
	suite.Require().NoError(err)

	// The first activation archived the competitor, so the second request
	// finds it no longer pending.
	_, err = suite.service.ManualActivate(second.ID, company.ID)
	assert.ErrorIs(suite.T(), err, ErrInitiativeNotPending)

	var activeCount int64
	suite.db.Model(&models.Initiative{}).
		Where("company_id = ? AND status = ?", company.ID, models.InitiativeStatusActive).
		Count(&activeCount)
	assert.Equal(suite.T(), int64(1), activeCount)
}

// TestDeactivate_Success tests that deactivation completes the initiative and
// opens the voting window for its pending siblings
func (suite *LifecycleServiceTestSuite) TestDeactivate_Success() {
	creator := suite.createUser("creator")
	company := suite.createCompany("GreenCo")

	active := suite.createInitiative("Active", creator.ID, company.ID, 6, 2025, models.InitiativeStatusActive, suite.now.Add(-72*time.Hour))
	sibling := suite.createInitiative("Sibling", creator.ID, company.ID, 6, 2025, models.InitiativeStatusPending, suite.now.Add(-1*time.Hour))

	deactivated, err := suite.service.Deactivate(active.ID, company.ID)
	suite.Require().NoError(err)

	assert.Equal(suite.T(), models.InitiativeStatusCompleted, deactivated.Status)

	wantEnd := suite.now.Add(3 * 24 * time.Hour)
	suite.Require().NotNil(deactivated.VotingEndDate)
	assert.True(suite.T(), deactivated.VotingEndDate.Equal(wantEnd))

	reloaded := suite.reload(sibling.ID)
	suite.Require().NotNil(reloaded.VotingEndDate)
	assert.True(suite.T(), reloaded.VotingEndDate.UTC().Equal(wantEnd))
	assert.Equal(suite.T(), models.InitiativeStatusPending, reloaded.Status)
}

// TestDeactivate_Locked tests that vote-activated initiatives cannot be
// manually deactivated
func (suite *LifecycleServiceTestSuite) TestDeactivate_Locked() {
	creator := suite.createUser("creator")
	company := suite.createCompany("GreenCo")

	locked := &models.Initiative{
		Title:     "Locked",
		Month:     6,
		Year:      2025,
		Status:    models.InitiativeStatusActive,
		IsLocked:  true,
		CreatorID: creator.ID,
		CompanyID: company.ID,
	}
	suite.db.Create(locked)

	_, err := suite.service.Deactivate(locked.ID, company.ID)
	assert.ErrorIs(suite.T(), err, ErrInitiativeLocked)

	assert.Equal(suite.T(), models.InitiativeStatusActive, suite.reload(locked.ID).Status)
}

// TestDeactivate_NotActive tests deactivation of a non-active initiative
func (suite *LifecycleServiceTestSuite) TestDeactivate_NotActive() {
	creator := suite.createUser("creator")
	company := suite.createCompany("GreenCo")

	pending := suite.createInitiative("Pending", creator.ID, company.ID, 6, 2025, models.InitiativeStatusPending, suite.now.Add(-time.Hour))

	_, err := suite.service.Deactivate(pending.ID, company.ID)
	assert.ErrorIs(suite.T(), err, ErrInitiativeNotActive)
}

// TestDeactivate_NotFound tests deactivation of a missing initiative
func (suite *LifecycleServiceTestSuite) TestDeactivate_NotFound() {
	company := suite.createCompany("GreenCo")

	_, err := suite.service.Deactivate(9999, company.ID)
	assert.ErrorIs(suite.T(), err, ErrInitiativeNotFound)
}

func TestLifecycleServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LifecycleServiceTestSuite))
}
