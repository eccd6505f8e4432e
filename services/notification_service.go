package services

import (
	"fmt"
	"log"
	"os"

	"grant-workflow-api/config"
	"grant-workflow-api/models"

	"gorm.io/gorm"
)

// NotifyUser writes an in-app notification.
func NotifyUser(db *gorm.DB, userID uint, title, message, notifType string, applicationID *uint) error {
	notification := models.Notification{
		UserID:               userID,
		Title:                title,
		Message:              message,
		Type:                 notifType,
		RelatedApplicationID: applicationID,
		IsRead:               false,
		CreateAt:             timeNow(),
	}
	return db.Create(&notification).Error
}

func frontendURL() string {
	url := os.Getenv("FRONTEND_URL")
	if url == "" {
		url = "http://localhost:3000"
	}
	return url
}

// EmailReviewRequests delivers review token links to the assigned reviewers.
// Delivery is best effort: a failed send is logged, never rolled back, since
// tokens can be re-sent manually.
func EmailReviewRequests(app *models.GrantApplication, tokens []ReviewToken) {
	for _, t := range tokens {
		link := fmt.Sprintf("%s/review/%s", frontendURL(), t.Token)
		subject := fmt.Sprintf("Review request: %s", app.ProjectTitle)
		body := fmt.Sprintf(
			"<p>You have been asked to review the grant application <b>%s</b>.</p>"+
				"<p><a href=\"%s\">Open the review form</a></p>"+
				"<p>This link is personal and single-use.</p>",
			app.ProjectTitle, link)
		if err := config.SendMail([]string{t.Email}, subject, body); err != nil {
			log.Printf("Warning: failed to email review link to %s: %v", t.Email, err)
		}
	}
}

// EmailSignOffRequests delivers sign-off token links to the chain approvers.
func EmailSignOffRequests(app *models.GrantApplication, tokens []SignOffToken) {
	for _, t := range tokens {
		link := fmt.Sprintf("%s/signoff/%s", frontendURL(), t.Token)
		subject := fmt.Sprintf("Sign-off requested: %s", app.ProjectTitle)
		body := fmt.Sprintf(
			"<p>Your approval as <b>%s</b> is requested for the grant application <b>%s</b>.</p>"+
				"<p><a href=\"%s\">Open the sign-off form</a></p>"+
				"<p>This link is personal and single-use.</p>",
			models.SignOffRoleLabel(t.Role), app.ProjectTitle, link)
		if err := config.SendMail([]string{t.Email}, subject, body); err != nil {
			log.Printf("Warning: failed to email sign-off link to %s: %v", t.Email, err)
		}
	}
}
