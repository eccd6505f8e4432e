package models

import "time"

// RevisionNote is one append-only ledger entry written by the applicant on
// resubmission. Ordering by RevisionNumber is the canonical history order.
type RevisionNote struct {
	NoteID         int       `gorm:"primaryKey;column:note_id" json:"note_id"`
	ApplicationID  int       `gorm:"column:application_id;index" json:"application_id"`
	RevisionNumber int       `gorm:"column:revision_number" json:"revision_number"`
	Notes          string    `gorm:"column:notes" json:"notes"`
	SubmittedAt    time.Time `gorm:"column:submitted_at" json:"submitted_at"`
}

// TableName specifies the table name for RevisionNote.
func (RevisionNote) TableName() string {
	return "revision_notes"
}
