package models

import "time"

// ApplicationStatus is the lifecycle state of a grant application.
type ApplicationStatus string

const (
	StatusSubmitted        ApplicationStatus = "submitted"
	StatusUnderReview      ApplicationStatus = "under_review"
	StatusManagerApproved  ApplicationStatus = "manager_approved"
	StatusRejected         ApplicationStatus = "rejected"
	StatusWithdrawn        ApplicationStatus = "withdrawn"
	StatusEditable         ApplicationStatus = "editable"
	StatusNeedsRevision    ApplicationStatus = "needs_revision"
	StatusAwaitingSignOff  ApplicationStatus = "awaiting_signoff"
	StatusSignOffApproved  ApplicationStatus = "signoff_approved"
	StatusContractPending  ApplicationStatus = "contract_pending"
	StatusContractReceived ApplicationStatus = "contract_received"
)

// GrantApplication is the central aggregate: one proposal and its full
// lifecycle record, including reviewer feedback, revision notes and the
// institutional sign-off chain.
type GrantApplication struct {
	ApplicationID          int               `gorm:"primaryKey;column:application_id" json:"application_id"`
	ApplicantID            int               `gorm:"column:applicant_id" json:"applicant_id"`
	GrantCallID            int               `gorm:"column:grant_call_id" json:"grant_call_id"`
	ProjectTitle           string            `gorm:"column:project_title" json:"project_title"`
	ProjectDescription     string            `gorm:"column:project_description" json:"project_description"`
	ProposalFileName       *string           `gorm:"column:proposal_file_name" json:"proposal_file_name,omitempty"`
	Status                 ApplicationStatus `gorm:"column:status" json:"status"`
	IsEditable             bool              `gorm:"column:is_editable" json:"is_editable"`
	RevisionCount          int               `gorm:"column:revision_count" json:"revision_count"`
	OriginalSubmissionDate *time.Time        `gorm:"column:original_submission_date" json:"original_submission_date,omitempty"`
	SubmissionDate         time.Time         `gorm:"column:submission_date" json:"submission_date"`
	AwardAmount            *float64          `gorm:"column:award_amount" json:"award_amount,omitempty"`
	ContractFileName       *string           `gorm:"column:contract_file_name" json:"contract_file_name,omitempty"`
	AwardLetterGenerated   bool              `gorm:"column:award_letter_generated" json:"award_letter_generated"`
	Deadline               *time.Time        `gorm:"column:deadline" json:"deadline,omitempty"`
	CreateAt               *time.Time        `gorm:"column:create_at" json:"create_at"`
	UpdateAt               *time.Time        `gorm:"column:update_at" json:"update_at"`
	DeleteAt               *time.Time        `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Applicant        *User              `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`
	GrantCall        *GrantCall         `gorm:"foreignKey:GrantCallID" json:"grant_call,omitempty"`
	ReviewerFeedback []ReviewerFeedback `gorm:"foreignKey:ApplicationID" json:"reviewer_feedback,omitempty"`
	RevisionNotes    []RevisionNote     `gorm:"foreignKey:ApplicationID" json:"revision_notes,omitempty"`
	SignOffApprovals []SignOffApproval  `gorm:"foreignKey:ApplicationID" json:"signoff_approvals,omitempty"`
}

// TableName specifies the table name for GrantApplication.
func (GrantApplication) TableName() string {
	return "grant_applications"
}
