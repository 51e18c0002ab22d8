package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/dto"
	apierrors "github.com/greenpulse/sustainability-api/internal/errors"
	"github.com/greenpulse/sustainability-api/internal/middleware"
	"github.com/greenpulse/sustainability-api/internal/services"
)

// ProgressHandler coordinates progress-tracking HTTP handlers.
type ProgressHandler struct {
	progressService *services.ProgressService
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
	}
}

// SaveProgress records the user's progress on an active initiative. The row
// is upserted, so posting again overwrites the previous values.
func (h *ProgressHandler) SaveProgress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SaveProgressRequest struct {
		InitiativeID uint64 `json:"initiative_id" binding:"required"`
		Percentage   *int   `json:"percentage" binding:"required"`
		Completed    bool   `json:"completed"`
		Detail       string `json:"detail"`
	}

	var req SaveProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	progress, err := h.progressService.Upsert(services.UpsertInput{
		UserID:       userID,
		InitiativeID: req.InitiativeID,
		Percentage:   *req.Percentage,
		Completed:    req.Completed,
		Detail:       req.Detail,
	})
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProgressDTO(*progress))
}

// GetProgress returns the user's own progress on an initiative, or everyone's
// when all=true is passed.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	initiativeID, err := strconv.ParseUint(c.Query("initiative_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid initiative_id")
		return
	}

	if c.Query("all") == "true" {
		rows, err := h.progressService.ListByInitiative(initiativeID)
		if err != nil {
			respondProgressError(c, err)
			return
		}

		progressDTOs := make([]dto.ProgressDTO, len(rows))
		for i, row := range rows {
			progressDTOs[i] = dto.ToProgressDTO(row)
		}

		c.JSON(http.StatusOK, gin.H{
			"progress": progressDTOs,
		})
		return
	}

	progress, err := h.progressService.Get(userID, initiativeID)
	if err != nil {
		respondProgressError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProgressDTO(*progress))
}

func respondProgressError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidPercentage):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInitiativeNotFound),
		errors.Is(err, services.ErrProgressNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCompanyMismatch):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInitiativeNotActive):
		apierrors.InvalidState(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
