package services

import (
	"time"

	"grant-workflow-api/models"

	"gorm.io/gorm"
)

// timeNow is swapped out in tests.
var timeNow = time.Now

// ActorRole is the class of actor requesting a transition, supplied by the
// authentication layer. ActorSystem is used for aggregate-driven transitions
// applied by the workflow engine itself (e.g. sign-off recompute).
type ActorRole string

const (
	ActorApplicant ActorRole = "applicant"
	ActorReviewer  ActorRole = "reviewer"
	ActorAdmin     ActorRole = "admin"
	ActorSystem    ActorRole = "system"
)

// statusTransitions is the authoritative table of legal status transitions.
var statusTransitions = map[models.ApplicationStatus][]models.ApplicationStatus{
	models.StatusSubmitted:        {models.StatusUnderReview, models.StatusWithdrawn, models.StatusEditable},
	models.StatusUnderReview:      {models.StatusManagerApproved, models.StatusRejected, models.StatusNeedsRevision},
	models.StatusManagerApproved:  {models.StatusAwaitingSignOff, models.StatusRejected},
	models.StatusRejected:         {models.StatusEditable},
	models.StatusWithdrawn:        {models.StatusEditable},
	models.StatusEditable:         {models.StatusSubmitted},
	models.StatusNeedsRevision:    {models.StatusSubmitted, models.StatusEditable},
	models.StatusAwaitingSignOff:  {models.StatusSignOffApproved, models.StatusRejected},
	models.StatusSignOffApproved:  {models.StatusContractPending},
	models.StatusContractPending:  {models.StatusContractReceived},
	models.StatusContractReceived: {},
}

// statusPermission declares which actor classes may move an application INTO
// a status. Any one set class suffices.
type statusPermission struct {
	Admin     bool
	Reviewer  bool
	Applicant bool
}

var statusPermissions = map[models.ApplicationStatus]statusPermission{
	models.StatusSubmitted:        {Applicant: true},
	models.StatusUnderReview:      {Admin: true, Reviewer: true},
	models.StatusManagerApproved:  {Admin: true, Reviewer: true},
	models.StatusRejected:         {Admin: true, Reviewer: true},
	models.StatusWithdrawn:        {Applicant: true},
	models.StatusEditable:         {Admin: true},
	models.StatusNeedsRevision:    {Admin: true, Reviewer: true},
	models.StatusAwaitingSignOff:  {Admin: true},
	models.StatusSignOffApproved:  {Admin: true},
	models.StatusContractPending:  {Admin: true},
	models.StatusContractReceived: {Admin: true},
}

// ValidStatus reports whether s is a known application status.
func ValidStatus(s models.ApplicationStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransition reports whether target is reachable from current.
func CanTransition(current, target models.ApplicationStatus) bool {
	for _, allowed := range statusTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

func actorPermitted(target models.ApplicationStatus, actor ActorRole) bool {
	if actor == ActorSystem {
		return true
	}
	perm, ok := statusPermissions[target]
	if !ok {
		return false
	}
	switch actor {
	case ActorAdmin:
		return perm.Admin
	case ActorReviewer:
		return perm.Reviewer
	case ActorApplicant:
		return perm.Applicant
	}
	return false
}

// Transition moves the application to target if the move is legal for the
// given actor. On failure the application is left unchanged. SubmissionDate
// is refreshed only when the target is submitted.
func Transition(app *models.GrantApplication, target models.ApplicationStatus, actor ActorRole) error {
	if !ValidStatus(target) {
		return workflowErr(ErrInvalidTransition, "unknown status '%s'", target)
	}
	if !CanTransition(app.Status, target) {
		return workflowErr(ErrInvalidTransition, "cannot move from '%s' to '%s'", app.Status, target)
	}
	if !actorPermitted(target, actor) {
		return workflowErr(ErrForbidden, "role '%s' may not set status '%s'", actor, target)
	}

	app.Status = target
	app.IsEditable = target == models.StatusEditable || target == models.StatusNeedsRevision
	if target == models.StatusSubmitted {
		now := timeNow()
		if app.OriginalSubmissionDate == nil {
			prior := app.SubmissionDate
			app.OriginalSubmissionDate = &prior
		}
		app.SubmissionDate = now
	}
	return nil
}

// CanWithdraw reports whether the applicant may still withdraw: only while
// submitted and before the deadline, if one is set.
func CanWithdraw(app *models.GrantApplication) bool {
	if app.Status != models.StatusSubmitted {
		return false
	}
	return app.Deadline == nil || !timeNow().After(*app.Deadline)
}

// CanUpdate reports whether the applicant may amend the application.
func CanUpdate(app *models.GrantApplication) bool {
	return app.Status == models.StatusNeedsRevision || app.Status == models.StatusEditable
}

// CanResubmit reports whether the application may be resubmitted.
func CanResubmit(app *models.GrantApplication) bool {
	switch app.Status {
	case models.StatusEditable, models.StatusNeedsRevision, models.StatusRejected, models.StatusWithdrawn:
		return true
	}
	return false
}

// IsFinal reports whether the application has reached a terminal status.
func IsFinal(app *models.GrantApplication) bool {
	switch app.Status {
	case models.StatusContractReceived, models.StatusRejected, models.StatusWithdrawn:
		return true
	}
	return false
}

// IsActive reports whether the application is still in play. A submitted
// application past its deadline counts as inactive.
func IsActive(app *models.GrantApplication) bool {
	if IsFinal(app) {
		return false
	}
	if app.Status == models.StatusSubmitted && app.Deadline != nil && timeNow().After(*app.Deadline) {
		return false
	}
	return true
}

// ApplyTransition loads the application, performs the transition and persists
// the new status together with a history entry in one transaction.
func ApplyTransition(db *gorm.DB, applicationID int, target models.ApplicationStatus, actor ActorRole, reason *string) (*models.GrantApplication, error) {
	var app models.GrantApplication
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := lockApplication(tx, applicationID, &app); err != nil {
			return err
		}
		oldStatus := app.Status
		if err := Transition(&app, target, actor); err != nil {
			return err
		}
		now := timeNow()
		app.UpdateAt = &now
		if err := tx.Save(&app).Error; err != nil {
			return err
		}
		history := models.ApplicationStatusHistory{
			ApplicationID: app.ApplicationID,
			OldStatus:     &oldStatus,
			NewStatus:     target,
			ChangedBy:     string(actor),
			Reason:        reason,
			CreatedAt:     now,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}
