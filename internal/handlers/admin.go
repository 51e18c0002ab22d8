package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/database"
	apierrors "github.com/greenpulse/sustainability-api/internal/errors"
	"github.com/greenpulse/sustainability-api/internal/middleware"
	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/services"
)

// AdminHandler exposes operational endpoints, primarily a manual trigger for
// the scheduled maintenance sweeps.
type AdminHandler struct {
	maintenanceService *services.MaintenanceService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(maintenanceService *services.MaintenanceService) *AdminHandler {
	return &AdminHandler{
		maintenanceService: maintenanceService,
	}
}

// RunScheduledTasks runs the maintenance sweeps on demand: expired voting
// windows, first-of-month activations and failed-initiative cleanup. The
// sweeps are idempotent, so triggering them alongside the scheduler is safe.
// Restricted to users holding an admin role in at least one company.
func (h *AdminHandler) RunScheduledTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	var member models.CompanyMember
	if err := database.GetDB().
		Where("user_id = ? AND role = ?", userID, models.RoleAdmin).
		First(&member).Error; err != nil {
		apierrors.Forbidden(c, "Only company admins can run scheduled tasks")
		return
	}

	report, err := h.maintenanceService.Run()
	if err != nil {
		apierrors.InternalError(c, "Failed to run scheduled tasks")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Scheduled tasks completed",
		"report":  report,
	})
}
