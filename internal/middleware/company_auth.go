package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/database"
	"github.com/greenpulse/sustainability-api/internal/models"
)

// RequireCompanyAccess checks if the user is a member of the company
func RequireCompanyAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		companyIDStr := c.Param("id")
		companyID, err := strconv.ParseUint(companyIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid company ID",
			})
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		var company models.Company
		if err := database.GetDB().First(&company, companyID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Company not found",
			})
			c.Abort()
			return
		}

		var member models.CompanyMember
		err = database.GetDB().Where("company_id = ? AND user_id = ?", companyID, userID).First(&member).Error
		if err != nil {
			// Return 404 instead of 403 to avoid leaking company existence
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Company not found",
			})
			c.Abort()
			return
		}

		c.Set("company", company)
		c.Set("company_member", member)
		c.Next()
	}
}

// RequireCompanyAdmin checks if the user is an admin of the company
func RequireCompanyAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		memberInterface, exists := c.Get("company_member")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Company access required",
			})
			c.Abort()
			return
		}

		member, ok := memberInterface.(models.CompanyMember)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Invalid company member data",
			})
			c.Abort()
			return
		}

		if member.Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Only company admins can perform this action",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
