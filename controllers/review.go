package controllers

import (
	"net/http"
	"strconv"

	"grant-workflow-api/config"
	"grant-workflow-api/models"
	"grant-workflow-api/services"

	"github.com/gin-gonic/gin"
)

// AssignReviewers fans an application out to external reviewers (admin only)
func AssignReviewers(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	type AssignRequest struct {
		ReviewerEmails []string `json:"reviewer_emails" binding:"required"`
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := services.AssignReviewers(config.DB, id, req.ReviewerEmails)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if app, err := services.FindApplication(config.DB, id); err == nil {
		services.EmailReviewRequests(app, tokens)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Reviewers assigned",
		"tokens":  tokens,
	})
}

// GetReviewAssignment resolves a review token for the anonymous reviewer
func GetReviewAssignment(c *gin.Context) {
	app, existing, err := services.ResolveReviewAssignment(config.DB, c.Param("token"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"application": gin.H{
			"project_title":       app.ProjectTitle,
			"project_description": app.ProjectDescription,
			"proposal_file_name":  app.ProposalFileName,
			"revision_notes":      app.RevisionNotes,
		},
		"already_submitted": existing != nil,
		"feedback":          existing,
	})
}

// SubmitReviewFeedback records the reviewer's verdict through their token
func SubmitReviewFeedback(c *gin.Context) {
	var req services.FeedbackInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feedback, err := services.SubmitReviewFeedback(config.DB, c.Param("token"), req)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if app, err := services.FindApplication(config.DB, feedback.ApplicationID); err == nil {
		appID := uint(app.ApplicationID)
		_ = services.NotifyUser(config.DB, uint(app.ApplicantID), "Review feedback received",
			"A reviewer submitted feedback on "+app.ProjectTitle, "info", &appID)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback recorded",
		"feedback": feedback,
	})
}

// GetReviewerFeedback lists all feedback for an application (staff only)
func GetReviewerFeedback(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	var feedback []models.ReviewerFeedback
	if err := config.DB.Where("application_id = ?", id).
		Order("submitted_at ASC").Find(&feedback).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch feedback"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": feedback,
		"total":    len(feedback),
	})
}
