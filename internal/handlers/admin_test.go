package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/constants"
	"github.com/greenpulse/sustainability-api/internal/database"
	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/repository"
	"github.com/greenpulse/sustainability-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type adminTestEnv struct {
	db      *gorm.DB
	handler *AdminHandler
}

func setupAdminTestEnv(t *testing.T) adminTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.CompanyMember{},
		&models.Initiative{},
		&models.Vote{},
		&models.Progress{},
	)
	require.NoError(t, err)

	database.SetDB(db)

	initiativeRepo := repository.NewInitiativeRepository(db)
	voteRepo := repository.NewVoteRepository(db)
	companyRepo := repository.NewCompanyRepository(db)

	lifecycleService := services.NewLifecycleService(initiativeRepo, voteRepo)
	maintenanceService := services.NewMaintenanceService(initiativeRepo, companyRepo, lifecycleService)
	handler := NewAdminHandler(maintenanceService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return adminTestEnv{
		db:      db,
		handler: handler,
	}
}

func adminTestContext(method, url string, userID uint64) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, nil)

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(constants.ContextKeyUserID, userID)

	return c, w
}

func createAdminTestMember(t *testing.T, db *gorm.DB, username string, role models.CompanyRole) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashed",
	}
	require.NoError(t, db.Create(user).Error)

	company := &models.Company{
		Name:       username + "'s company",
		InviteCode: username + "-CODE",
	}
	require.NoError(t, db.Create(company).Error)

	member := &models.CompanyMember{
		CompanyID: company.ID,
		UserID:    user.ID,
		Role:      role,
		JoinedAt:  time.Now(),
	}
	require.NoError(t, db.Create(member).Error)

	return user
}

func TestAdminHandler_RunScheduledTasks(t *testing.T) {
	env := setupAdminTestEnv(t)

	admin := createAdminTestMember(t, env.db, "boss", models.RoleAdmin)

	c, w := adminTestContext(http.MethodPost, "/api/admin/run-scheduled-tasks", admin.ID)

	env.handler.RunScheduledTasks(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestAdminHandler_RunScheduledTasks_MemberForbidden(t *testing.T) {
	env := setupAdminTestEnv(t)

	member := createAdminTestMember(t, env.db, "employee", models.RoleMember)

	c, w := adminTestContext(http.MethodPost, "/api/admin/run-scheduled-tasks", member.ID)

	env.handler.RunScheduledTasks(c)

	require.Equal(t, http.StatusForbidden, w.Code)
}
