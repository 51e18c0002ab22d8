package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/database"
	"github.com/greenpulse/sustainability-api/internal/dto"
	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/period"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"github.com/greenpulse/sustainability-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitiativeHandlerTestSuite defines the test suite for InitiativeHandler
type InitiativeHandlerTestSuite struct {
	suite.Suite
	db      *gorm.DB
	handler *InitiativeHandler
}

// SetupTest runs before each test
func (suite *InitiativeHandlerTestSuite) SetupTest() {
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

	database.SetDB(suite.db)

	initiativeRepo := repository.NewInitiativeRepository(suite.db)
	voteRepo := repository.NewVoteRepository(suite.db)
	companyRepo := repository.NewCompanyRepository(suite.db)

	initiativeService := services.NewInitiativeService(initiativeRepo, companyRepo)
	voteService := services.NewVoteService(voteRepo, initiativeRepo, companyRepo)
	lifecycleService := services.NewLifecycleService(initiativeRepo, voteRepo)

	// No AI service in tests
	suite.handler = NewInitiativeHandler(initiativeService, voteService, lifecycleService, nil)

	gin.SetMode(gin.TestMode)
}

// TearDownTest runs after each test
func (suite *InitiativeHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *InitiativeHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *InitiativeHandlerTestSuite) createTestCompany(name string) *models.Company {
	company := &models.Company{
		Name:       name,
		InviteCode: name + "-CODE",
	}
	suite.db.Create(company)
	return company
}

func (suite *InitiativeHandlerTestSuite) createTestMember(companyID, userID uint64, role models.CompanyRole) *models.CompanyMember {
	member := &models.CompanyMember{
		CompanyID: companyID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	suite.db.Create(member)
	return member
}

func (suite *InitiativeHandlerTestSuite) createTestInitiative(title string, creatorID, companyID uint64, month, year int, status models.InitiativeStatus) *models.Initiative {
	initiative := &models.Initiative{
		Title:     title,
		Month:     month,
		Year:      year,
		Status:    status,
		CreatorID: creatorID,
		CompanyID: companyID,
	}
	suite.db.Create(initiative)
	return initiative
}

// Helper function to create authenticated context
func (suite *InitiativeHandlerTestSuite) createAuthContext(method, url string, body []byte, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, url, bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set("user_id", userID)

	return c, w
}

// Helper functions to seed context the way the access middleware does
func (suite *InitiativeHandlerTestSuite) setInitiativeContext(c *gin.Context, initiative models.Initiative, member models.CompanyMember) {
	c.Set("initiative", initiative)
	c.Set("company_member", member)
}

// TestCreateInitiative_Success tests submission for the current period
func (suite *InitiativeHandlerTestSuite) TestCreateInitiative_Success() {
	admin := suite.createTestUser("boss")
	company := suite.createTestCompany("GreenCo")
	suite.createTestMember(company.ID, admin.ID, models.RoleAdmin)

	current := period.Resolve(time.Now()).Current
	requestBody := map[string]interface{}{
		"title":       "Bike to work",
		"description": "Cycle instead of driving",
		"month":       current.Month,
		"year":        current.Year,
		"company_id":  company.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/initiatives", body, admin.ID)

	suite.handler.CreateInitiative(c)

	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.InitiativeDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Bike to work", response.Title)
	assert.Equal(suite.T(), models.InitiativeStatusPending, response.Status)
	assert.Equal(suite.T(), admin.ID, response.CreatorID)
}

// TestCreateInitiative_Duplicate tests the one-submission-per-period rule
func (suite *InitiativeHandlerTestSuite) TestCreateInitiative_Duplicate() {
	admin := suite.createTestUser("boss")
	company := suite.createTestCompany("GreenCo")
	suite.createTestMember(company.ID, admin.ID, models.RoleAdmin)

	current := period.Resolve(time.Now()).Current
	suite.createTestInitiative("Existing", admin.ID, company.ID, current.Month, current.Year, models.InitiativeStatusPending)

	requestBody := map[string]interface{}{
		"title":      "Another one",
		"month":      current.Month,
		"year":       current.Year,
		"company_id": company.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/initiatives", body, admin.ID)

	suite.handler.CreateInitiative(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestCreateInitiative_NotMember tests submission by an outsider
func (suite *InitiativeHandlerTestSuite) TestCreateInitiative_NotMember() {
	outsider := suite.createTestUser("outsider")
	company := suite.createTestCompany("GreenCo")

	current := period.Resolve(time.Now()).Current
	requestBody := map[string]interface{}{
		"title":      "Sneaky",
		"month":      current.Month,
		"year":       current.Year,
		"company_id": company.ID,
	}
	body, _ := json.Marshal(requestBody)

	c, w := suite.createAuthContext("POST", "/api/initiatives", body, outsider.ID)

	suite.handler.CreateInitiative(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestListInitiatives_Success tests company-scoped listing with vote counts
func (suite *InitiativeHandlerTestSuite) TestListInitiatives_Success() {
	user := suite.createTestUser("employee")
	company := suite.createTestCompany("GreenCo")
	suite.createTestMember(company.ID, user.ID, models.RoleMember)

	initiative := suite.createTestInitiative("Visible", user.ID, company.ID, 6, 2025, models.InitiativeStatusPending)
	suite.db.Create(&models.Vote{UserID: user.ID, InitiativeID: initiative.ID})

	c, w := suite.createAuthContext("GET", "/api/initiatives", nil, user.ID)
	c.Request.URL.RawQuery = fmt.Sprintf("company_id=%d", company.ID)

	suite.handler.ListInitiatives(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.InitiativeListResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	suite.Require().Len(response.Initiatives, 1)
	assert.Equal(suite.T(), "Visible", response.Initiatives[0].Title)
	assert.Equal(suite.T(), int64(1), response.Initiatives[0].VoteCount)
}

// TestListInitiatives_NotMember tests listing a foreign company
func (suite *InitiativeHandlerTestSuite) TestListInitiatives_NotMember() {
	user := suite.createTestUser("employee")
	company := suite.createTestCompany("GreenCo")

	c, w := suite.createAuthContext("GET", "/api/initiatives", nil, user.ID)
	c.Request.URL.RawQuery = fmt.Sprintf("company_id=%d", company.ID)

	suite.handler.ListInitiatives(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestCastVote_Success tests voting through the endpoint
func (suite *InitiativeHandlerTestSuite) TestCastVote_Success() {
	user := suite.createTestUser("voter")
	company := suite.createTestCompany("GreenCo")
	member := suite.createTestMember(company.ID, user.ID, models.RoleMember)
	initiative := suite.createTestInitiative("Candidate", user.ID, company.ID, 6, 2025, models.InitiativeStatusPending)

	c, w := suite.createAuthContext("POST", "/api/initiatives/1/vote", nil, user.ID)
	suite.setInitiativeContext(c, *initiative, *member)

	suite.handler.CastVote(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), float64(1), response["vote_count"])
}

// TestCastVote_NotPending tests voting on a non-pending initiative
func (suite *InitiativeHandlerTestSuite) TestCastVote_NotPending() {
	user := suite.createTestUser("voter")
	company := suite.createTestCompany("GreenCo")
	member := suite.createTestMember(company.ID, user.ID, models.RoleMember)
	initiative := suite.createTestInitiative("Running", user.ID, company.ID, 6, 2025, models.InitiativeStatusActive)

	c, w := suite.createAuthContext("POST", "/api/initiatives/1/vote", nil, user.ID)
	suite.setInitiativeContext(c, *initiative, *member)

	suite.handler.CastVote(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestActivateInitiative_AdminOnly tests the role gate on manual activation
func (suite *InitiativeHandlerTestSuite) TestActivateInitiative_AdminOnly() {
	user := suite.createTestUser("employee")
	company := suite.createTestCompany("GreenCo")
	member := suite.createTestMember(company.ID, user.ID, models.RoleMember)
	initiative := suite.createTestInitiative("Candidate", user.ID, company.ID, 6, 2025, models.InitiativeStatusPending)

	c, w := suite.createAuthContext("POST", "/api/initiatives/1/activate", nil, user.ID)
	suite.setInitiativeContext(c, *initiative, *member)

	suite.handler.ActivateInitiative(c)

	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

// TestActivateInitiative_Success tests admin activation end to end
func (suite *InitiativeHandlerTestSuite) TestActivateInitiative_Success() {
	admin := suite.createTestUser("boss")
	company := suite.createTestCompany("GreenCo")
	member := suite.createTestMember(company.ID, admin.ID, models.RoleAdmin)
	initiative := suite.createTestInitiative("Chosen", admin.ID, company.ID, 6, 2025, models.InitiativeStatusPending)

	c, w := suite.createAuthContext("POST", "/api/initiatives/1/activate", nil, admin.ID)
	suite.setInitiativeContext(c, *initiative, *member)

	suite.handler.ActivateInitiative(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.InitiativeDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InitiativeStatusActive, response.Status)
	assert.False(suite.T(), response.IsLocked)
}

// TestDeactivateInitiative_Locked tests that locked initiatives refuse
// deactivation through the endpoint
func (suite *InitiativeHandlerTestSuite) TestDeactivateInitiative_Locked() {
	admin := suite.createTestUser("boss")
	company := suite.createTestCompany("GreenCo")
	member := suite.createTestMember(company.ID, admin.ID, models.RoleAdmin)

	locked := &models.Initiative{
		Title:     "Locked",
		Month:     6,
		Year:      2025,
		Status:    models.InitiativeStatusActive,
		IsLocked:  true,
		CreatorID: admin.ID,
		CompanyID: company.ID,
	}
	suite.db.Create(locked)

	c, w := suite.createAuthContext("PUT", "/api/initiatives/1/deactivate", nil, admin.ID)
	suite.setInitiativeContext(c, *locked, *member)

	suite.handler.DeactivateInitiative(c)

	assert.Equal(suite.T(), http.StatusConflict, w.Code)
}

// TestDeactivateInitiative_Success tests the happy deactivation path
func (suite *InitiativeHandlerTestSuite) TestDeactivateInitiative_Success() {
	admin := suite.createTestUser("boss")
	company := suite.createTestCompany("GreenCo")
	member := suite.createTestMember(company.ID, admin.ID, models.RoleAdmin)
	active := suite.createTestInitiative("Active", admin.ID, company.ID, 6, 2025, models.InitiativeStatusActive)

	c, w := suite.createAuthContext("PUT", "/api/initiatives/1/deactivate", nil, admin.ID)
	suite.setInitiativeContext(c, *active, *member)

	suite.handler.DeactivateInitiative(c)

	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.InitiativeDTO
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.InitiativeStatusCompleted, response.Status)
	assert.NotNil(suite.T(), response.VotingEndDate)
}

func TestInitiativeHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(InitiativeHandlerTestSuite))
}
