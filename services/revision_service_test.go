package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"grant-workflow-api/models"
)

func TestReviseAndResubmit(t *testing.T) {
	db := newTestDB(t)
	app := createTestApplication(t, db, models.StatusNeedsRevision)
	priorSubmission := app.SubmissionDate

	fixed := time.Date(2026, 6, 2, 8, 30, 0, 0, time.UTC)
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = time.Now }()

	updated, err := ReviseAndResubmit(db, app.ApplicationID, RevisionInput{
		ProjectTitle: "Coral Reef Restoration Study (revised)",
		Notes:        "fixed budget",
	})
	if err != nil {
		t.Fatalf("revise and resubmit: %v", err)
	}
	if updated.Status != models.StatusSubmitted {
		t.Fatalf("status = %s, want submitted", updated.Status)
	}
	if updated.RevisionCount != 1 {
		t.Fatalf("revision count = %d, want 1", updated.RevisionCount)
	}
	if !updated.SubmissionDate.Equal(fixed) {
		t.Fatalf("submission date not refreshed")
	}
	if updated.OriginalSubmissionDate == nil || !updated.OriginalSubmissionDate.Equal(priorSubmission) {
		t.Fatalf("original submission date not preserved")
	}

	stored := reloadApp(t, db, app.ApplicationID)
	if len(stored.RevisionNotes) != 1 {
		t.Fatalf("revision notes = %d, want 1", len(stored.RevisionNotes))
	}
	if stored.RevisionNotes[0].RevisionNumber != 1 {
		t.Fatalf("revision number = %d, want 1", stored.RevisionNotes[0].RevisionNumber)
	}
	if stored.RevisionNotes[0].Notes != "fixed budget" {
		t.Fatalf("notes = %q", stored.RevisionNotes[0].Notes)
	}
	if stored.ProjectTitle != "Coral Reef Restoration Study (revised)" {
		t.Fatalf("title not replaced: %q", stored.ProjectTitle)
	}
}

func TestRevisionLedgerIsAppendOnlyAndMonotonic(t *testing.T) {
	db := newTestDB(t)
	app := createTestApplication(t, db, models.StatusNeedsRevision)

	const rounds = 4
	for i := 1; i <= rounds; i++ {
		if i > 1 {
			// Each round the reviewers send the application back.
			setStatus(t, db, app.ApplicationID, models.StatusNeedsRevision)
		}
		if _, err := ReviseAndResubmit(db, app.ApplicationID, RevisionInput{
			ProjectTitle: fmt.Sprintf("Title v%d", i),
			Notes:        fmt.Sprintf("revision %d", i),
		}); err != nil {
			t.Fatalf("round %d: %v", i, err)
		}
	}

	stored := reloadApp(t, db, app.ApplicationID)
	if stored.RevisionCount != rounds {
		t.Fatalf("revision count = %d, want %d", stored.RevisionCount, rounds)
	}
	if len(stored.RevisionNotes) != rounds {
		t.Fatalf("revision notes = %d, want %d", len(stored.RevisionNotes), rounds)
	}
	for i, note := range stored.RevisionNotes {
		if note.RevisionNumber != i+1 {
			t.Fatalf("note %d has revision number %d", i, note.RevisionNumber)
		}
		if note.Notes != fmt.Sprintf("revision %d", i+1) {
			t.Fatalf("note %d mutated: %q", i, note.Notes)
		}
	}
}

func TestReviseAndResubmitPreconditions(t *testing.T) {
	db := newTestDB(t)

	for _, status := range []models.ApplicationStatus{
		models.StatusSubmitted,
		models.StatusUnderReview,
		models.StatusRejected,
		models.StatusContractReceived,
	} {
		app := createTestApplication(t, db, status)
		_, err := ReviseAndResubmit(db, app.ApplicationID, RevisionInput{
			ProjectTitle: "New Title",
			Notes:        "notes",
		})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("status %s: want ErrInvalidTransition, got %v", status, err)
		}
		stored := reloadApp(t, db, app.ApplicationID)
		if stored.Status != status || stored.RevisionCount != 0 {
			t.Errorf("status %s: record mutated on failed resubmit", status)
		}
	}

	app := createTestApplication(t, db, models.StatusEditable)
	if _, err := ReviseAndResubmit(db, app.ApplicationID, RevisionInput{Notes: "n"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing title: want ErrValidation, got %v", err)
	}
	if _, err := ReviseAndResubmit(db, app.ApplicationID, RevisionInput{ProjectTitle: "t"}); !errors.Is(err, ErrValidation) {
		t.Errorf("missing notes: want ErrValidation, got %v", err)
	}
	if _, err := ReviseAndResubmit(db, 9999, RevisionInput{ProjectTitle: "t", Notes: "n"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown application: want ErrNotFound, got %v", err)
	}
}

func TestReviseAndResubmitReplacesFileRefOnlyWhenGiven(t *testing.T) {
	db := newTestDB(t)
	app := createTestApplication(t, db, models.StatusEditable)
	original := "proposal-v1.pdf"
	db.Model(app).Update("proposal_file_name", original)

	if _, err := ReviseAndResubmit(db, app.ApplicationID, RevisionInput{
		ProjectTitle: "Same file",
		Notes:        "text changes only",
	}); err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	stored := reloadApp(t, db, app.ApplicationID)
	if stored.ProposalFileName == nil || *stored.ProposalFileName != original {
		t.Fatalf("file ref changed without replacement: %v", stored.ProposalFileName)
	}

	setStatus(t, db, app.ApplicationID, models.StatusNeedsRevision)
	replacement := "proposal-v2.pdf"
	if _, err := ReviseAndResubmit(db, app.ApplicationID, RevisionInput{
		ProjectTitle:     "New file",
		ProposalFileName: &replacement,
		Notes:            "uploaded new proposal",
	}); err != nil {
		t.Fatalf("resubmit with file: %v", err)
	}
	stored = reloadApp(t, db, app.ApplicationID)
	if stored.ProposalFileName == nil || *stored.ProposalFileName != replacement {
		t.Fatalf("file ref not replaced: %v", stored.ProposalFileName)
	}
}
