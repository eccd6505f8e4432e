package services

import (
	"errors"
	"testing"
	"time"

	"grant-workflow-api/models"
)

var allStatuses = []models.ApplicationStatus{
	models.StatusSubmitted,
	models.StatusUnderReview,
	models.StatusManagerApproved,
	models.StatusRejected,
	models.StatusWithdrawn,
	models.StatusEditable,
	models.StatusNeedsRevision,
	models.StatusAwaitingSignOff,
	models.StatusSignOffApproved,
	models.StatusContractPending,
	models.StatusContractReceived,
}

// actorFor picks an actor class allowed to set the target status.
func actorFor(target models.ApplicationStatus) ActorRole {
	switch target {
	case models.StatusSubmitted, models.StatusWithdrawn:
		return ActorApplicant
	}
	return ActorAdmin
}

func TestTransitionClosure(t *testing.T) {
	legal := map[models.ApplicationStatus][]models.ApplicationStatus{
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

	for _, from := range allStatuses {
		allowed := make(map[models.ApplicationStatus]bool)
		for _, to := range legal[from] {
			allowed[to] = true
		}
		for _, to := range allStatuses {
			app := models.GrantApplication{Status: from, SubmissionDate: time.Now()}
			err := Transition(&app, to, actorFor(to))
			if allowed[to] {
				if err != nil {
					t.Errorf("%s -> %s: unexpected error %v", from, to, err)
				}
				if app.Status != to {
					t.Errorf("%s -> %s: status not applied, got %s", from, to, app.Status)
				}
			} else {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("%s -> %s: want ErrInvalidTransition, got %v", from, to, err)
				}
				if app.Status != from {
					t.Errorf("%s -> %s: record mutated on failure", from, to)
				}
			}
		}
	}
}

func TestTransitionForbiddenLeavesRecordUnchanged(t *testing.T) {
	app := models.GrantApplication{Status: models.StatusSubmitted}
	err := Transition(&app, models.StatusEditable, ActorApplicant) // editable is admin-only
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden, got %v", err)
	}
	if app.Status != models.StatusSubmitted {
		t.Fatalf("record mutated on forbidden transition")
	}

	// Reviewers may not withdraw on the applicant's behalf.
	err = Transition(&app, models.StatusWithdrawn, ActorReviewer)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("want ErrForbidden for reviewer withdrawal, got %v", err)
	}
}

func TestTransitionRefreshesSubmissionDateOnlyForSubmitted(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	prior := fixed.Add(-48 * time.Hour)
	app := models.GrantApplication{Status: models.StatusNeedsRevision, SubmissionDate: prior}

	if err := Transition(&app, models.StatusSubmitted, ActorApplicant); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if !app.SubmissionDate.Equal(fixed) {
		t.Fatalf("submission date not refreshed: %v", app.SubmissionDate)
	}
	if app.OriginalSubmissionDate == nil || !app.OriginalSubmissionDate.Equal(prior) {
		t.Fatalf("original submission date not backfilled: %v", app.OriginalSubmissionDate)
	}

	// A later non-submit transition must not touch either date.
	if err := Transition(&app, models.StatusUnderReview, ActorAdmin); err != nil {
		t.Fatalf("transition: %v", err)
	}
	if !app.SubmissionDate.Equal(fixed) || !app.OriginalSubmissionDate.Equal(prior) {
		t.Fatalf("dates changed on non-submit transition")
	}
}

func TestContractReceivedIsTerminal(t *testing.T) {
	for _, to := range allStatuses {
		app := models.GrantApplication{Status: models.StatusContractReceived}
		err := Transition(&app, to, ActorAdmin)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("contract_received -> %s: want ErrInvalidTransition, got %v", to, err)
		}
		if app.Status != models.StatusContractReceived {
			t.Errorf("terminal record mutated")
		}
	}
}

func TestEligibilityPredicates(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	past := fixed.Add(-time.Hour)
	future := fixed.Add(time.Hour)

	tests := []struct {
		name     string
		app      models.GrantApplication
		withdraw bool
		update   bool
		resubmit bool
		active   bool
		final    bool
	}{
		{"submitted no deadline", models.GrantApplication{Status: models.StatusSubmitted}, true, false, false, true, false},
		{"submitted before deadline", models.GrantApplication{Status: models.StatusSubmitted, Deadline: &future}, true, false, false, true, false},
		{"submitted past deadline", models.GrantApplication{Status: models.StatusSubmitted, Deadline: &past}, false, false, false, false, false},
		{"needs revision", models.GrantApplication{Status: models.StatusNeedsRevision}, false, true, true, true, false},
		{"editable", models.GrantApplication{Status: models.StatusEditable}, false, true, true, true, false},
		{"rejected", models.GrantApplication{Status: models.StatusRejected}, false, false, true, false, true},
		{"withdrawn", models.GrantApplication{Status: models.StatusWithdrawn}, false, false, true, false, true},
		{"contract received", models.GrantApplication{Status: models.StatusContractReceived}, false, false, false, false, true},
		{"under review", models.GrantApplication{Status: models.StatusUnderReview}, false, false, false, true, false},
	}

	for _, tt := range tests {
		app := tt.app
		if got := CanWithdraw(&app); got != tt.withdraw {
			t.Errorf("%s: CanWithdraw = %v, want %v", tt.name, got, tt.withdraw)
		}
		if got := CanUpdate(&app); got != tt.update {
			t.Errorf("%s: CanUpdate = %v, want %v", tt.name, got, tt.update)
		}
		if got := CanResubmit(&app); got != tt.resubmit {
			t.Errorf("%s: CanResubmit = %v, want %v", tt.name, got, tt.resubmit)
		}
		if got := IsActive(&app); got != tt.active {
			t.Errorf("%s: IsActive = %v, want %v", tt.name, got, tt.active)
		}
		if got := IsFinal(&app); got != tt.final {
			t.Errorf("%s: IsFinal = %v, want %v", tt.name, got, tt.final)
		}
	}
}

func TestApplyTransitionPersistsStatusAndHistory(t *testing.T) {
	db := newTestDB(t)
	app := createTestApplication(t, db, models.StatusSubmitted)

	updated, err := ApplyTransition(db, app.ApplicationID, models.StatusUnderReview, ActorAdmin, nil)
	if err != nil {
		t.Fatalf("apply transition: %v", err)
	}
	if updated.Status != models.StatusUnderReview {
		t.Fatalf("status = %s, want %s", updated.Status, models.StatusUnderReview)
	}

	var history []models.ApplicationStatusHistory
	if err := db.Where("application_id = ?", app.ApplicationID).Find(&history).Error; err != nil {
		t.Fatalf("load history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("history entries = %d, want 1", len(history))
	}
	if history[0].OldStatus == nil || *history[0].OldStatus != models.StatusSubmitted {
		t.Fatalf("history old status wrong: %v", history[0].OldStatus)
	}
	if history[0].NewStatus != models.StatusUnderReview {
		t.Fatalf("history new status wrong: %s", history[0].NewStatus)
	}
}

func TestApplyTransitionRejectsIllegalMoveWithoutPersisting(t *testing.T) {
	db := newTestDB(t)
	app := createTestApplication(t, db, models.StatusSubmitted)

	_, err := ApplyTransition(db, app.ApplicationID, models.StatusContractPending, ActorAdmin, nil)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("want ErrInvalidTransition, got %v", err)
	}

	stored := reloadApp(t, db, app.ApplicationID)
	if stored.Status != models.StatusSubmitted {
		t.Fatalf("status changed on failed transition: %s", stored.Status)
	}
	var count int64
	db.Model(&models.ApplicationStatusHistory{}).Where("application_id = ?", app.ApplicationID).Count(&count)
	if count != 0 {
		t.Fatalf("history written on failed transition")
	}
}

func TestApplyTransitionUnknownApplication(t *testing.T) {
	db := newTestDB(t)
	_, err := ApplyTransition(db, 9999, models.StatusUnderReview, ActorAdmin, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
