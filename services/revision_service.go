package services

import (
	"grant-workflow-api/models"

	"gorm.io/gorm"
)

// RevisionInput carries the applicant's amendments for a resubmission.
type RevisionInput struct {
	ProjectTitle     string  `json:"project_title"`
	ProposalFileName *string `json:"proposal_file_name,omitempty"`
	Notes            string  `json:"notes"`
}

// ReviseAndResubmit amends a returned application and resubmits it: appends
// the next numbered revision note, bumps the revision count, replaces the
// title (and file reference if given) and moves the application back to
// submitted. The whole step is one transaction with the application row
// locked, so two concurrent resubmissions cannot mint the same revision
// number.
func ReviseAndResubmit(db *gorm.DB, applicationID int, input RevisionInput) (*models.GrantApplication, error) {
	if input.ProjectTitle == "" {
		return nil, workflowErr(ErrValidation, "project title is required")
	}
	if input.Notes == "" {
		return nil, workflowErr(ErrValidation, "revision notes are required")
	}

	var app models.GrantApplication
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockApplication(tx, applicationID, &app); err != nil {
			return err
		}
		if !CanUpdate(&app) {
			return workflowErr(ErrInvalidTransition, "application in status '%s' cannot be revised", app.Status)
		}

		oldStatus := app.Status
		if err := Transition(&app, models.StatusSubmitted, ActorApplicant); err != nil {
			return err
		}
		now := timeNow()
		note := models.RevisionNote{
			ApplicationID:  app.ApplicationID,
			RevisionNumber: app.RevisionCount + 1,
			Notes:          input.Notes,
			SubmittedAt:    now,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		app.RevisionCount++
		app.ProjectTitle = input.ProjectTitle
		if input.ProposalFileName != nil {
			app.ProposalFileName = input.ProposalFileName
		}
		app.UpdateAt = &now
		if err := tx.Save(&app).Error; err != nil {
			return err
		}

		history := models.ApplicationStatusHistory{
			ApplicationID: app.ApplicationID,
			OldStatus:     &oldStatus,
			NewStatus:     app.Status,
			ChangedBy:     string(ActorApplicant),
			CreatedAt:     now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}
