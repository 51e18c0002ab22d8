package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/greenpulse/sustainability-api/internal/database"
	"github.com/greenpulse/sustainability-api/internal/models"
)

// RequireInitiativeAccess loads the initiative and checks that the user
// belongs to the company that owns it
func RequireInitiativeAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		initiativeIDStr := c.Param("id")
		initiativeID, err := strconv.ParseUint(initiativeIDStr, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid initiative ID",
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

		var initiative models.Initiative
		if err := database.GetDB().Preload("Creator").First(&initiative, initiativeID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Initiative not found",
			})
			c.Abort()
			return
		}

		var member models.CompanyMember
		err = database.GetDB().Where("company_id = ? AND user_id = ?", initiative.CompanyID, userID).First(&member).Error
		if err != nil {
			// Hide initiatives from non-members entirely
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Initiative not found",
			})
			c.Abort()
			return
		}

		c.Set("initiative", initiative)
		c.Set("company_member", member)
		c.Next()
	}
}
