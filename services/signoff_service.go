package services

import (
	"errors"
	"fmt"

	"grant-workflow-api/models"
	"grant-workflow-api/utils"

	"gorm.io/gorm"
)

// ApproverInput names one approver for a seat in the sign-off chain.
type ApproverInput struct {
	Role  models.SignOffRole `json:"role" binding:"required"`
	Email string             `json:"email" binding:"required"`
	Name  *string            `json:"name,omitempty"`
}

// SignOffToken pairs a minted token with the seat it unlocks, for
// out-of-band delivery to the approver.
type SignOffToken struct {
	Role  models.SignOffRole `json:"role"`
	Email string             `json:"email"`
	Token string             `json:"token"`
}

// InitiateSignOff starts the three-role approval chain on a
// manager-approved application: stores the award amount, moves the
// application to awaiting_signoff and creates one pending seat plus one
// access token per role, all in a single transaction.
func InitiateSignOff(db *gorm.DB, applicationID int, awardAmount float64, approvers []ApproverInput) ([]SignOffToken, error) {
	if len(approvers) != len(models.SignOffRoleOrder) {
		return nil, workflowErr(ErrValidation, "exactly %d approvers required, got %d", len(models.SignOffRoleOrder), len(approvers))
	}
	byRole := make(map[models.SignOffRole]ApproverInput, len(approvers))
	for _, a := range approvers {
		if !utils.ValidateEmail(a.Email) {
			return nil, workflowErr(ErrValidation, "invalid approver email '%s'", a.Email)
		}
		if _, dup := byRole[a.Role]; dup {
			return nil, workflowErr(ErrValidation, "duplicate approver role '%s'", a.Role)
		}
		byRole[a.Role] = a
	}
	for _, role := range models.SignOffRoleOrder {
		if _, ok := byRole[role]; !ok {
			return nil, workflowErr(ErrValidation, "missing approver for role '%s'", role)
		}
	}
	if awardAmount <= 0 {
		return nil, workflowErr(ErrValidation, "award amount must be positive")
	}

	var tokens []SignOffToken
	err := db.Transaction(func(tx *gorm.DB) error {
		var app models.GrantApplication
		if err := lockApplication(tx, applicationID, &app); err != nil {
			return err
		}
		if app.Status != models.StatusManagerApproved {
			return workflowErr(ErrInvalidTransition, "sign-off requires status '%s', application is '%s'", models.StatusManagerApproved, app.Status)
		}
		oldStatus := app.Status
		if err := Transition(&app, models.StatusAwaitingSignOff, ActorAdmin); err != nil {
			return err
		}
		now := timeNow()
		app.AwardAmount = &awardAmount
		app.UpdateAt = &now
		if err := tx.Save(&app).Error; err != nil {
			return err
		}
		history := models.ApplicationStatusHistory{
			ApplicationID: app.ApplicationID,
			OldStatus:     &oldStatus,
			NewStatus:     app.Status,
			ChangedBy:     string(ActorAdmin),
			CreatedAt:     now,
		}
		if err := tx.Create(&history).Error; err != nil {
			return err
		}

		// All three seats are created together; the chain never grows or
		// shrinks afterwards.
		for _, role := range models.SignOffRoleOrder {
			approver := byRole[role]
			seatRole := role
			token, err := MintToken(tx, app.ApplicationID, models.PurposeSignOff, &seatRole, nil)
			if err != nil {
				return err
			}
			seat := models.SignOffApproval{
				ApplicationID: app.ApplicationID,
				Role:          role,
				ApproverEmail: approver.Email,
				ApproverName:  approver.Name,
				Status:        models.SignOffPending,
				Token:         token.Token,
				CreateAt:      now,
			}
			if err := tx.Create(&seat).Error; err != nil {
				return err
			}
			tokens = append(tokens, SignOffToken{Role: role, Email: approver.Email, Token: token.Token})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return tokens, nil
}

// ResolveSignOffSeat returns the seat and application a sign-off token
// points at, without consuming anything. A decided seat still resolves so
// the caller can show "already completed".
func ResolveSignOffSeat(db *gorm.DB, token string) (*models.SignOffApproval, *models.GrantApplication, error) {
	record, err := ResolveToken(db, token, models.PurposeSignOff)
	if err != nil {
		return nil, nil, err
	}
	var seat models.SignOffApproval
	if err := db.Where("token = ?", record.Token).First(&seat).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, workflowErr(ErrTokenInvalid, "token is not bound to a sign-off seat")
		}
		return nil, nil, err
	}
	app, err := FindApplication(db, seat.ApplicationID)
	if err != nil {
		return nil, nil, err
	}
	return &seat, app, nil
}

// SubmitSignOffDecision records one approver's decision and recomputes the
// aggregate chain outcome. The seat is decided at most once: a replayed
// token fails with ErrAlreadyDecided and the recorded decision is preserved.
func SubmitSignOffDecision(db *gorm.DB, token string, decision models.SignOffStatus, comments string, approverName *string) (*models.SignOffApproval, error) {
	if decision != models.SignOffApproved && decision != models.SignOffRejected {
		return nil, workflowErr(ErrValidation, "decision must be '%s' or '%s'", models.SignOffApproved, models.SignOffRejected)
	}
	record, err := ResolveToken(db, token, models.PurposeSignOff)
	if err != nil {
		return nil, err
	}

	var seat models.SignOffApproval
	err = db.Transaction(func(tx *gorm.DB) error {
		// Lock the application first so concurrent seat decisions serialize
		// and the recompute below reads authoritative seat states.
		var app models.GrantApplication
		if err := lockApplication(tx, record.ApplicationID, &app); err != nil {
			return err
		}
		if err := tx.Where("token = ?", record.Token).First(&seat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return workflowErr(ErrTokenInvalid, "token is not bound to a sign-off seat")
			}
			return err
		}
		if seat.Status != models.SignOffPending {
			return workflowErr(ErrAlreadyDecided, "seat '%s' was already %s", seat.Role, seat.Status)
		}
		if app.Status != models.StatusAwaitingSignOff {
			return workflowErr(ErrInvalidTransition, "application is no longer awaiting sign-off (status '%s')", app.Status)
		}

		now := timeNow()
		updates := map[string]interface{}{
			"status":      decision,
			"comments":    comments,
			"approved_at": now,
		}
		if seat.ApproverName == nil && approverName != nil && *approverName != "" {
			updates["approver_name"] = *approverName
		}
		// Compare-and-set on the pending status guards against a duplicate
		// submission racing past the read above.
		res := tx.Model(&models.SignOffApproval{}).
			Where("approval_id = ? AND status = ?", seat.ApprovalID, models.SignOffPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return workflowErr(ErrAlreadyDecided, "seat '%s' was already decided", seat.Role)
		}
		if err := tx.Where("approval_id = ?", seat.ApprovalID).First(&seat).Error; err != nil {
			return err
		}
		return recomputeSignOff(tx, &app)
	})
	if err != nil {
		return nil, err
	}
	return &seat, nil
}

// recomputeSignOff derives the aggregate outcome from the current seat
// states: any rejection rejects the application immediately, leaving the
// remaining seats pending and undecidable; three approvals complete the
// chain. Must run with the application row locked.
func recomputeSignOff(tx *gorm.DB, app *models.GrantApplication) error {
	var seats []models.SignOffApproval
	if err := tx.Where("application_id = ?", app.ApplicationID).Find(&seats).Error; err != nil {
		return err
	}

	approved := 0
	var rejectedBy *models.SignOffRole
	for i := range seats {
		switch seats[i].Status {
		case models.SignOffApproved:
			approved++
		case models.SignOffRejected:
			if rejectedBy == nil {
				rejectedBy = &seats[i].Role
			}
		}
	}

	var target models.ApplicationStatus
	var reason *string
	switch {
	case rejectedBy != nil:
		target = models.StatusRejected
		r := fmt.Sprintf("rejected by %s", models.SignOffRoleLabel(*rejectedBy))
		reason = &r
	case approved == len(seats) && len(seats) > 0:
		target = models.StatusSignOffApproved
	default:
		return nil // still awaiting the remaining seats
	}

	oldStatus := app.Status
	if err := Transition(app, target, ActorSystem); err != nil {
		return err
	}
	now := timeNow()
	app.UpdateAt = &now
	if err := tx.Save(app).Error; err != nil {
		return err
	}
	history := models.ApplicationStatusHistory{
		ApplicationID: app.ApplicationID,
		OldStatus:     &oldStatus,
		NewStatus:     target,
		ChangedBy:     string(ActorSystem),
		Reason:        reason,
		CreatedAt:     now,
	}
	return tx.Create(&history).Error
}
