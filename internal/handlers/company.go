package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/dto"
	apierrors "github.com/greenpulse/sustainability-api/internal/errors"
	"github.com/greenpulse/sustainability-api/internal/middleware"
	"github.com/greenpulse/sustainability-api/internal/models"
	"github.com/greenpulse/sustainability-api/internal/services"
)

// CompanyHandler coordinates company-related HTTP handlers.
type CompanyHandler struct {
	companyService *services.CompanyService
}

// NewCompanyHandler creates a new CompanyHandler.
func NewCompanyHandler(companyService *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{
		companyService: companyService,
	}
}

// CreateCompany creates a new company with the caller as admin
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateCompanyRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	company, err := h.companyService.CreateCompany(services.CreateCompanyInput{
		Name:    req.Name,
		AdminID: userID,
	})
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToCompanyDTO(*company, true))
}

// ListCompanies returns all companies the user is a member of
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	memberships, err := h.companyService.ListCompaniesForUser(userID)
	if err != nil {
		apierrors.InternalError(c, "Failed to fetch companies")
		return
	}

	companies := make([]dto.CompanyWithRoleDTO, len(memberships))
	for i, m := range memberships {
		companies[i] = dto.ToCompanyWithRoleDTO(m)
	}

	c.JSON(http.StatusOK, gin.H{
		"companies": companies,
	})
}

// GetCompany returns company details with its member list
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	// Company and membership are loaded by RequireCompanyAccess middleware
	companyInterface, _ := c.Get("company")
	company := companyInterface.(models.Company)

	memberInterface, _ := c.Get("company_member")
	member := memberInterface.(models.CompanyMember)

	_, members, err := h.companyService.GetCompanyWithMembers(company.ID)
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyDetailDTO(company, members, member.Role))
}

// UpdateCompany updates the company name
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	companyInterface, _ := c.Get("company")
	company := companyInterface.(models.Company)

	type UpdateCompanyRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	updated, err := h.companyService.UpdateCompanyName(company.ID, req.Name)
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyDTO(*updated, true))
}

// DeleteCompany deletes a company and everything scoped under it
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	companyInterface, _ := c.Get("company")
	company := companyInterface.(models.Company)

	if err := h.companyService.DeleteCompany(company.ID); err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Company deleted successfully",
	})
}

// JoinCompany allows a user to join via invite code
func (h *CompanyHandler) JoinCompany(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type JoinRequest struct {
		InviteCode string `json:"invite_code" binding:"required"`
	}

	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	company, err := h.companyService.JoinCompanyByInvite(userID, req.InviteCode)
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Successfully joined company",
		"company": dto.ToCompanyDTO(*company, false),
	})
}

// RegenerateInviteCode replaces the company invite code
func (h *CompanyHandler) RegenerateInviteCode(c *gin.Context) {
	companyInterface, _ := c.Get("company")
	company := companyInterface.(models.Company)

	updated, err := h.companyService.RegenerateInviteCode(company.ID)
	if err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToCompanyDTO(*updated, true))
}

// RemoveMember removes a member from the company
func (h *CompanyHandler) RemoveMember(c *gin.Context) {
	companyInterface, _ := c.Get("company")
	company := companyInterface.(models.Company)

	actorID, _ := middleware.GetUserID(c)

	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	if err := h.companyService.RemoveMember(company.ID, actorID, targetID); err != nil {
		respondCompanyError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Member removed successfully",
	})
}

func respondCompanyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidCompanyName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrInvalidInviteCode):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrCompanyNotFound),
		errors.Is(err, services.ErrCompanyMemberNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrAlreadyCompanyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrCannotRemoveYourself):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}
