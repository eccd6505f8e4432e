package controllers

import (
	"net/http"
	"strconv"

	"grant-workflow-api/config"
	"grant-workflow-api/models"
	"grant-workflow-api/services"

	"github.com/gin-gonic/gin"
)

// InitiateSignOff starts the institutional approval chain (admin only)
func InitiateSignOff(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	type InitiateRequest struct {
		AwardAmount float64                  `json:"award_amount" binding:"required,gt=0"`
		Approvers   []services.ApproverInput `json:"approvers" binding:"required"`
	}

	var req InitiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tokens, err := services.InitiateSignOff(config.DB, id, req.AwardAmount, req.Approvers)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	if app, err := services.FindApplication(config.DB, id); err == nil {
		services.EmailSignOffRequests(app, tokens)
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Sign-off chain initiated",
		"tokens":  tokens,
	})
}

// GetSignOffSeat resolves a sign-off token for the anonymous approver
func GetSignOffSeat(c *gin.Context) {
	seat, app, err := services.ResolveSignOffSeat(config.DB, c.Param("token"))
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"seat": seat,
		"application": gin.H{
			"project_title":       app.ProjectTitle,
			"project_description": app.ProjectDescription,
			"award_amount":        app.AwardAmount,
			"status":              app.Status,
		},
		"already_decided": seat.Status != models.SignOffPending,
		"summary":         services.SummarizeSignOff(app),
	})
}

// SubmitSignOffDecision records one approver's decision through their token
func SubmitSignOffDecision(c *gin.Context) {
	type DecisionRequest struct {
		Decision     models.SignOffStatus `json:"decision" binding:"required"`
		Comments     string               `json:"comments"`
		ApproverName *string              `json:"approver_name"`
	}

	var req DecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	seat, err := services.SubmitSignOffDecision(config.DB, c.Param("token"), req.Decision, req.Comments, req.ApproverName)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	app, err := services.FindApplication(config.DB, seat.ApplicationID)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	// Tell the applicant once the chain concludes either way.
	if app.Status == models.StatusSignOffApproved || app.Status == models.StatusRejected {
		appID := uint(app.ApplicationID)
		notifType := "success"
		message := "All institutional approvals are complete for " + app.ProjectTitle
		if app.Status == models.StatusRejected {
			notifType = "error"
			message = "The sign-off chain rejected " + app.ProjectTitle
		}
		_ = services.NotifyUser(config.DB, uint(app.ApplicantID), "Sign-off decision", message, notifType, &appID)
	}

	c.JSON(http.StatusOK, gin.H{
		"message":            "Decision recorded",
		"seat":               seat,
		"application_status": app.Status,
		"summary":            services.SummarizeSignOff(app),
	})
}

// GetSignOffSummary returns the chain progress for an application
func GetSignOffSummary(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid application id"})
		return
	}

	app, err := services.FindApplication(config.DB, id)
	if err != nil {
		respondWorkflowError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"summary":   services.SummarizeSignOff(app),
		"approvals": app.SignOffApprovals,
	})
}
