package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/database"
	"github.com/greenpulse/sustainability-api/internal/dto"
	apierrors "github.com/greenpulse/sustainability-api/internal/errors"
	"github.com/greenpulse/sustainability-api/internal/middleware"
	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/services"
	"github.com/greenpulse/sustainability-api/internal/utils"
)

// InitiativeHandler coordinates initiative-related HTTP handlers: submission,
// listing, voting and the lifecycle transitions.
type InitiativeHandler struct {
	initiativeService *services.InitiativeService
	voteService       *services.VoteService
	lifecycleService  *services.LifecycleService
	aiService         *services.AIService
}

// NewInitiativeHandler creates a new InitiativeHandler.
func NewInitiativeHandler(
	initiativeService *services.InitiativeService,
	voteService *services.VoteService,
	lifecycleService *services.LifecycleService,
	aiService *services.AIService,
) *InitiativeHandler {
	return &InitiativeHandler{
		initiativeService: initiativeService,
		voteService:       voteService,
		lifecycleService:  lifecycleService,
		aiService:         aiService,
	}
}

// requireMembership verifies the user belongs to the company given as a query
// parameter and returns the membership.
func requireMembership(c *gin.Context, userID uint64) (*models.CompanyMember, bool) {
	companyID, err := strconv.ParseUint(c.Query("company_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid company_id")
		return nil, false
	}

	var member models.CompanyMember
	if err := database.GetDB().
		Where("company_id = ? AND user_id = ?", companyID, userID).
		First(&member).Error; err != nil {
		apierrors.Forbidden(c, "You are not a member of this company")
		return nil, false
	}

	return &member, true
}

// ListInitiatives returns a company's initiatives. Archived ones are excluded
// unless include_archived=true is passed.
func (h *InitiativeHandler) ListInitiatives(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	member, ok := requireMembership(c, userID)
	if !ok {
		return
	}

	input := services.ListInput{
		CompanyID:       member.CompanyID,
		IncludeArchived: c.Query("include_archived") == "true",
	}

	if statusStr := c.Query("status"); statusStr != "" {
		status := models.InitiativeStatus(statusStr)
		input.Status = &status
	}
	if monthStr := c.Query("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			apierrors.BadRequest(c, "Invalid month")
			return
		}
		input.Month = &month
	}
	if yearStr := c.Query("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			apierrors.BadRequest(c, "Invalid year")
			return
		}
		input.Year = &year
	}

	params := utils.GetPaginationParams(c)
	input.Page = params.Page
	input.PageSize = params.Limit

	initiatives, total, err := h.initiativeService.List(input)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch initiatives")
		return
	}

	ids := make([]uint64, len(initiatives))
	for i, initiative := range initiatives {
		ids[i] = initiative.ID
	}

	voteCounts, err := h.voteService.CountByInitiatives(ids)
	if err != nil {
		apierrors.InternalError(c, "Failed to count votes")
		return
	}

	c.JSON(http.StatusOK, dto.ToInitiativeListResponse(initiatives, voteCounts, params.Page, params.Limit, total))
}

// CreateInitiative submits a new initiative for a period
func (h *InitiativeHandler) CreateInitiative(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateInitiativeRequest struct {
		Title       string `json:"title" binding:"required"`
		Description string `json:"description"`
		Month       int    `json:"month" binding:"required,min=1,max=12"`
		Year        int    `json:"year" binding:"required"`
		CompanyID   uint64 `json:"company_id" binding:"required"`
	}

	var req CreateInitiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	initiative, err := h.initiativeService.Submit(services.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
		CompanyID:   req.CompanyID,
		CreatorID:   userID,
	})
	if err != nil {
		respondInitiativeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInitiativeDTO(*initiative, 0))
}

// CanSuggest reports whether the user may submit right now and for which
// periods.
func (h *InitiativeHandler) CanSuggest(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	companyID, err := strconv.ParseUint(c.Query("company_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid company_id")
		return
	}

	window, err := h.initiativeService.CanSuggest(companyID, userID)
	if err != nil {
		respondInitiativeError(c, err)
		return
	}

	c.JSON(http.StatusOK, window)
}

// SuggestInitiatives generates initiative ideas from a theme using AI
func (h *InitiativeHandler) SuggestInitiatives(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type SuggestRequest struct {
		Theme     string `json:"theme" binding:"required"`
		CompanyID uint64 `json:"company_id" binding:"required"`
	}

	var req SuggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	var member models.CompanyMember
	if err := database.GetDB().
		Where("company_id = ? AND user_id = ?", req.CompanyID, userID).
		First(&member).Error; err != nil {
		apierrors.Forbidden(c, "You are not a member of this company")
		return
	}

	if h.aiService == nil {
		apierrors.ServiceUnavailable(c, "AI suggestions are not configured. Please set OPENAI_API_KEY environment variable.")
		return
	}

	ideas, err := h.aiService.GenerateInitiativeIdeas(context.Background(), req.Theme)
	if err != nil {
		apierrors.InternalError(c, fmt.Sprintf("Failed to generate suggestions: %v", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": ideas,
	})
}

// VotingResults returns the pending candidates of a period with their vote
// counts, ranked the way the selection runs.
func (h *InitiativeHandler) VotingResults(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	member, ok := requireMembership(c, userID)
	if !ok {
		return
	}

	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		apierrors.BadRequest(c, "Invalid month")
		return
	}
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid year")
		return
	}

	results, err := h.voteService.Results(member.CompanyID, month, year)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch voting results")
		return
	}

	resultDTOs := make([]dto.VotingResultDTO, len(results))
	for i, r := range results {
		resultDTOs[i] = dto.VotingResultDTO{
			Initiative: dto.ToInitiativeListItemDTO(r.Initiative, r.VoteCount),
			VoteCount:  r.VoteCount,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"results": resultDTOs,
	})
}

// GetInitiative returns an initiative with its vote count
// Initiative is already loaded by RequireInitiativeAccess middleware
func (h *InitiativeHandler) GetInitiative(c *gin.Context) {
	initiativeInterface, exists := c.Get("initiative")
	if !exists {
		apierrors.InternalError(c, "Initiative not found in context")
		return
	}

	initiative, ok := initiativeInterface.(models.Initiative)
	if !ok {
		apierrors.InternalError(c, "Invalid initiative data")
		return
	}

	voteCount, err := h.voteService.Count(initiative.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count votes")
		return
	}

	c.JSON(http.StatusOK, dto.ToInitiativeDTO(initiative, voteCount))
}

// UpdateInitiative edits an initiative's content
func (h *InitiativeHandler) UpdateInitiative(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	initiativeInterface, _ := c.Get("initiative")
	initiative, ok := initiativeInterface.(models.Initiative)
	if !ok {
		apierrors.InternalError(c, "Invalid initiative data")
		return
	}

	type UpdateInitiativeRequest struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Month       *int    `json:"month" binding:"omitempty,min=1,max=12"`
		Year        *int    `json:"year"`
	}

	var req UpdateInitiativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.initiativeService.Update(initiative.ID, userID, services.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Month:       req.Month,
		Year:        req.Year,
	})
	if err != nil {
		respondInitiativeError(c, err)
		return
	}

	voteCount, err := h.voteService.Count(updated.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count votes")
		return
	}

	c.JSON(http.StatusOK, dto.ToInitiativeDTO(*updated, voteCount))
}

// DeleteInitiative removes an initiative together with its votes and progress
func (h *InitiativeHandler) DeleteInitiative(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	initiativeInterface, _ := c.Get("initiative")
	initiative, ok := initiativeInterface.(models.Initiative)
	if !ok {
		apierrors.InternalError(c, "Invalid initiative data")
		return
	}

	if err := h.initiativeService.Delete(initiative.ID, userID); err != nil {
		respondInitiativeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Initiative deleted successfully",
	})
}

// CastVote records the user's vote on a pending initiative. Casting twice is
// a no-op that succeeds.
func (h *InitiativeHandler) CastVote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	initiativeInterface, _ := c.Get("initiative")
	initiative, ok := initiativeInterface.(models.Initiative)
	if !ok {
		apierrors.InternalError(c, "Invalid initiative data")
		return
	}

	vote, err := h.voteService.Cast(userID, initiative.ID)
	if err != nil {
		respondInitiativeError(c, err)
		return
	}

	voteCount, err := h.voteService.Count(initiative.ID)
	if err != nil {
		apierrors.InternalError(c, "Failed to count votes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"vote":       vote,
		"vote_count": voteCount,
	})
}

// RetractVote removes the user's vote from a pending initiative
func (h *InitiativeHandler) RetractVote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	initiativeInterface, _ := c.Get("initiative")
	initiative, ok := initiativeInterface.(models.Initiative)
	if !ok {
		apierrors.InternalError(c, "Invalid initiative data")
		return
	}

	if err := h.voteService.Retract(userID, initiative.ID); err != nil {
		respondInitiativeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vote retracted successfully",
	})
}

// ListVotes returns the votes on an initiative with the voters
func (h *InitiativeHandler) ListVotes(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	initiativeInterface, _ := c.Get("initiative")
	initiative, ok := initiativeInterface.(models.Initiative)
	if !ok {
		apierrors.InternalError(c, "Invalid initiative data")
		return
	}

	votes, err := h.voteService.ListVoters(userID, initiative.ID)
	if err != nil {
		respondInitiativeError(c, err)
		return
	}

	voters := make([]dto.UserDTO, len(votes))
	for i, vote := range votes {
		voters[i] = dto.ToUserDTO(vote.User)
	}

	c.JSON(http.StatusOK, gin.H{
		"voters":     voters,
		"vote_count": int64(len(votes)),
	})
}

// ActivateInitiative promotes a pending initiative by admin choice
func (h *InitiativeHandler) ActivateInitiative(c *gin.Context) {
	initiativeInterface, _ := c.Get("initiative")
	initiative, ok := initiativeInterface.(models.Initiative)
	if !ok {
		apierrors.InternalError(c, "Invalid initiative data")
		return
	}

	memberInterface, _ := c.Get("company_member")
	member, ok := memberInterface.(models.CompanyMember)
	if !ok {
		apierrors.InternalError(c, "Invalid company member data")
		return
	}

	if !member.IsAdmin() {
		apierrors.Forbidden(c, "Only company admins can activate initiatives")
		return
	}

	activated, err := h.lifecycleService.ManualActivate(initiative.ID, member.CompanyID)
	if err != nil {
		respondInitiativeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInitiativeDTO(*activated, 0))
}

// DeactivateInitiative completes an active, unlocked initiative and reopens
// voting on its pending siblings
func (h *InitiativeHandler) DeactivateInitiative(c *gin.Context) {
	initiativeInterface, _ := c.Get("initiative")
	initiative, ok := initiativeInterface.(models.Initiative)
	if !ok {
		apierrors.InternalError(c, "Invalid initiative data")
		return
	}

	memberInterface, _ := c.Get("company_member")
	member, ok := memberInterface.(models.CompanyMember)
	if !ok {
		apierrors.InternalError(c, "Invalid company member data")
		return
	}

	if !member.IsAdmin() {
		apierrors.Forbidden(c, "Only company admins can deactivate initiatives")
		return
	}

	deactivated, err := h.lifecycleService.Deactivate(initiative.ID, member.CompanyID)
	if err != nil {
		respondInitiativeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInitiativeDTO(*deactivated, 0))
}

func respondInitiativeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInitiativeNotFound),
		errors.Is(err, services.ErrVoteNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCompanyMismatch),
		errors.Is(err, services.ErrNotCompanyMember),
		errors.Is(err, services.ErrNotInitiativeCreator):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrInitiativeNotPending),
		errors.Is(err, services.ErrInitiativeNotActive),
		errors.Is(err, services.ErrInitiativeLocked):
		apierrors.InvalidState(c, err.Error())
	case errors.Is(err, services.ErrAlreadySubmitted):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrInvalidMonth),
		errors.Is(err, services.ErrWrongPeriod),
		errors.Is(err, services.ErrSubmissionClosed):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
