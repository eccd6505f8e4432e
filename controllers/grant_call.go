package controllers

import (
	"net/http"

	"grant-workflow-api/config"
	"grant-workflow-api/models"

	"github.com/gin-gonic/gin"
)

// GetGrantCalls returns all active grant calls
func GetGrantCalls(c *gin.Context) {
	var calls []models.GrantCall
	query := config.DB.Where("delete_at IS NULL")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	} else {
		query = query.Where("status = 'active'")
	}

	if err := query.Order("year DESC").Find(&calls).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch grant calls"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"grant_calls": calls,
	})
}
