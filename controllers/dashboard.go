package controllers

import (
	"net/http"

	"grant-workflow-api/config"
	"grant-workflow-api/models"
	"grant-workflow-api/services"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns status counts and per-application derived views
func GetDashboardStats(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	query := config.DB.Model(&models.GrantApplication{}).Where("delete_at IS NULL")
	if roleID.(int) == models.RoleIDApplicant {
		query = query.Where("applicant_id = ?", userID)
	}

	type statusCount struct {
		Status models.ApplicationStatus `json:"status"`
		Count  int64                    `json:"count"`
	}
	var counts []statusCount
	if err := query.Select("status, COUNT(*) as count").Group("status").Scan(&counts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stats"})
		return
	}

	var applications []models.GrantApplication
	listQuery := config.DB.Preload("SignOffApprovals").Where("delete_at IS NULL")
	if roleID.(int) == models.RoleIDApplicant {
		listQuery = listQuery.Where("applicant_id = ?", userID)
	}
	if err := listQuery.Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	type applicationView struct {
		ApplicationID     int                      `json:"application_id"`
		ProjectTitle      string                   `json:"project_title"`
		Status            models.ApplicationStatus `json:"status"`
		CompletionPercent int                      `json:"completion_percent"`
		Priority          string                   `json:"priority"`
		SignOffSummary    services.SignOffSummary  `json:"signoff_summary"`
	}
	views := make([]applicationView, 0, len(applications))
	active := 0
	for i := range applications {
		app := &applications[i]
		if services.IsActive(app) {
			active++
		}
		views = append(views, applicationView{
			ApplicationID:     app.ApplicationID,
			ProjectTitle:      app.ProjectTitle,
			Status:            app.Status,
			CompletionPercent: services.CompletionPercent(app),
			Priority:          services.Priority(app),
			SignOffSummary:    services.SummarizeSignOff(app),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"status_counts": counts,
		"active_count":  active,
		"applications":  views,
	})
}
