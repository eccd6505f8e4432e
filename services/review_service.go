package services

import (
	"errors"

	"grant-workflow-api/models"
	"grant-workflow-api/utils"

	"gorm.io/gorm"
)

// ReviewToken pairs a minted review token with its reviewer.
type ReviewToken struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// FeedbackInput is one reviewer's verdict submitted through their token.
type FeedbackInput struct {
	ReviewerEmail     string                `json:"reviewer_email"`
	ReviewerName      *string               `json:"reviewer_name,omitempty"`
	Comments          string                `json:"comments"`
	Decision          models.ReviewDecision `json:"decision"`
	AnnotatedFileName *string               `json:"annotated_file_name,omitempty"`
}

// AssignReviewers fans an application out to the given reviewers, minting
// one token per email. Reviewers act independently; there is no quorum and
// assignment does not change the application status.
func AssignReviewers(db *gorm.DB, applicationID int, reviewerEmails []string) ([]ReviewToken, error) {
	if len(reviewerEmails) == 0 {
		return nil, workflowErr(ErrValidation, "at least one reviewer email required")
	}
	for _, email := range reviewerEmails {
		if !utils.ValidateEmail(email) {
			return nil, workflowErr(ErrValidation, "invalid reviewer email '%s'", email)
		}
	}

	var tokens []ReviewToken
	err := db.Transaction(func(tx *gorm.DB) error {
		var app models.GrantApplication
		if err := lockApplication(tx, applicationID, &app); err != nil {
			return err
		}
		for _, email := range reviewerEmails {
			reviewer := email
			token, err := MintToken(tx, app.ApplicationID, models.PurposeReview, nil, &reviewer)
			if err != nil {
				return err
			}
			tokens = append(tokens, ReviewToken{Email: email, Token: token.Token})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// ResolveReviewAssignment returns the application a review token points at,
// plus any feedback already submitted with it.
func ResolveReviewAssignment(db *gorm.DB, token string) (*models.GrantApplication, *models.ReviewerFeedback, error) {
	record, err := ResolveToken(db, token, models.PurposeReview)
	if err != nil {
		return nil, nil, err
	}
	app, err := FindApplication(db, record.ApplicationID)
	if err != nil {
		return nil, nil, err
	}
	var existing models.ReviewerFeedback
	err = db.Where("token = ?", record.Token).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return app, nil, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return app, &existing, nil
}

// SubmitReviewFeedback appends one immutable feedback record for the token's
// application. Each token carries at most one decision; a second submission
// fails with ErrAlreadyDecided. Feedback never changes the application
// status — that is a separate administrative decision.
func SubmitReviewFeedback(db *gorm.DB, token string, input FeedbackInput) (*models.ReviewerFeedback, error) {
	switch input.Decision {
	case models.DecisionApprove, models.DecisionReject, models.DecisionRequestChanges:
	default:
		return nil, workflowErr(ErrValidation, "unknown decision '%s'", input.Decision)
	}
	if input.ReviewerEmail != "" && !utils.ValidateEmail(input.ReviewerEmail) {
		return nil, workflowErr(ErrValidation, "invalid reviewer email '%s'", input.ReviewerEmail)
	}
	record, err := ResolveToken(db, token, models.PurposeReview)
	if err != nil {
		return nil, err
	}

	var feedback models.ReviewerFeedback
	err = db.Transaction(func(tx *gorm.DB) error {
		var app models.GrantApplication
		if err := lockApplication(tx, record.ApplicationID, &app); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.ReviewerFeedback{}).Where("token = ?", record.Token).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return workflowErr(ErrAlreadyDecided, "feedback for this token was already submitted")
		}
		email := input.ReviewerEmail
		if email == "" && record.ReviewerEmail != nil {
			email = *record.ReviewerEmail
		}
		feedback = models.ReviewerFeedback{
			ApplicationID:     app.ApplicationID,
			ReviewerEmail:     email,
			ReviewerName:      input.ReviewerName,
			Comments:          input.Comments,
			Decision:          input.Decision,
			AnnotatedFileName: input.AnnotatedFileName,
			Token:             record.Token,
			SubmittedAt:       timeNow(),
		}
		return tx.Create(&feedback).Error
	})
	if err != nil {
		return nil, err
	}
	return &feedback, nil
}
