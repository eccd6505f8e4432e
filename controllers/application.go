package controllers

import (
	"net/http"
	"strconv"
	"time"

	"grant-workflow-api/config"
	"grant-workflow-api/middleware"
	"grant-workflow-api/models"
	"grant-workflow-api/services"
	"grant-workflow-api/utils"

	"github.com/gin-gonic/gin"
)

// GetApplications returns list of applications
func GetApplications(c *gin.Context) {
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	var applications []models.GrantApplication
	query := config.DB.Preload("Applicant").Preload("GrantCall").
		Where("grant_applications.delete_at IS NULL")

	// Applicants only see their own applications
	if roleID.(int) == models.RoleIDApplicant {
		query = query.Where("applicant_id = ?", userID)
	}

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if call := c.Query("grant_call_id"); call != "" {
		query = query.Where("grant_call_id = ?", call)
	}

	if err := query.Order("submission_date DESC").Find(&applications).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applications": applications,
		"total":        len(applications),
	})
}

// GetApplication returns single application by ID with its full history
func GetApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}
	userID, _ := c.Get("userID")
	roleID, _ := c.Get("roleID")

	app, err := services.FindApplication(config.DB, id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	if roleID.(int) == models.RoleIDApplicant && app.ApplicantID != userID.(int) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application":        app,
		"signoff_summary":    services.SummarizeSignOff(app),
		"completion_percent": services.CompletionPercent(app),
		"priority":           services.Priority(app),
		"can_withdraw":       services.CanWithdraw(app),
		"can_update":         services.CanUpdate(app),
		"can_resubmit":       services.CanResubmit(app),
		"is_active":          services.IsActive(app),
		"is_final":           services.IsFinal(app),
	})
}

// CreateApplication submits a new grant application
func CreateApplication(c *gin.Context) {
	type CreateApplicationRequest struct {
		GrantCallID        int    `json:"grant_call_id" binding:"required"`
		ProjectTitle       string `json:"project_title" binding:"required"`
		ProjectDescription string `json:"project_description" binding:"required"`
		ProposalFileName   string `json:"proposal_file_name"`
	}

	var req CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	var call models.GrantCall
	if err := config.DB.Where("call_id = ? AND status = 'active' AND delete_at IS NULL", req.GrantCallID).
		First(&call).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid grant call"})
		return
	}

	now := time.Now()
	application := models.GrantApplication{
		ApplicantID:        userID.(int),
		GrantCallID:        req.GrantCallID,
		ProjectTitle:       utils.SanitizeInput(req.ProjectTitle),
		ProjectDescription: utils.SanitizeInput(req.ProjectDescription),
		Status:             models.StatusSubmitted,
		SubmissionDate:     now,
		Deadline:           call.Deadline,
		CreateAt:           &now,
		UpdateAt:           &now,
	}
	if req.ProposalFileName != "" {
		application.ProposalFileName = &req.ProposalFileName
	}

	if err := config.DB.Create(&application).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create application"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Application submitted successfully",
		"application": application,
	})
}

// UpdateApplicationStatus performs a lifecycle transition (admin/reviewer)
func UpdateApplicationStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	type StatusRequest struct {
		Status models.ApplicationStatus `json:"status" binding:"required"`
		Reason *string                  `json:"reason"`
	}

	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := services.ApplyTransition(config.DB, id, req.Status, middleware.ActorRole(c), req.Reason)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Status updated",
		"application": app,
	})
}

// WithdrawApplication lets the applicant withdraw a submitted application
func WithdrawApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}
	userID, _ := c.Get("userID")

	app, err := services.FindApplication(config.DB, id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	if app.ApplicantID != userID.(int) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}
	if !services.CanWithdraw(app) {
		c.JSON(http.StatusConflict, gin.H{"error": "Application can no longer be withdrawn"})
		return
	}

	updated, err := services.ApplyTransition(config.DB, id, models.StatusWithdrawn, services.ActorApplicant, nil)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application withdrawn",
		"application": updated,
	})
}

// ReviseApplication amends and resubmits a returned application
func ReviseApplication(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}
	userID, _ := c.Get("userID")

	var req services.RevisionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := services.FindApplication(config.DB, id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}
	if app.ApplicantID != userID.(int) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
		return
	}

	updated, err := services.ReviseAndResubmit(config.DB, id, req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Application resubmitted",
		"application": updated,
	})
}

// GetStatusHistory returns the transition audit trail for an application
func GetStatusHistory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	var history []models.ApplicationStatusHistory
	if err := config.DB.Where("application_id = ?", id).
		Order("created_at ASC").Find(&history).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch status history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"history": history,
		"total":   len(history),
	})
}
