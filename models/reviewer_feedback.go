package models

import "time"

// ReviewDecision is a reviewer's verdict on an application.
type ReviewDecision string

const (
	DecisionApprove        ReviewDecision = "approve"
	DecisionReject         ReviewDecision = "reject"
	DecisionRequestChanges ReviewDecision = "request_changes"
)

// ReviewerFeedback records one reviewer's decision and comments. Created
// exactly once per token redemption and immutable thereafter.
type ReviewerFeedback struct {
	FeedbackID        int            `gorm:"primaryKey;column:feedback_id" json:"feedback_id"`
	ApplicationID     int            `gorm:"column:application_id;index" json:"application_id"`
	ReviewerEmail     string         `gorm:"column:reviewer_email" json:"reviewer_email"`
	ReviewerName      *string        `gorm:"column:reviewer_name" json:"reviewer_name,omitempty"`
	Comments          string         `gorm:"column:comments" json:"comments"`
	Decision          ReviewDecision `gorm:"column:decision" json:"decision"`
	AnnotatedFileName *string        `gorm:"column:annotated_file_name" json:"annotated_file_name,omitempty"`
	Token             string         `gorm:"column:token;index" json:"-"`
	SubmittedAt       time.Time      `gorm:"column:submitted_at" json:"submitted_at"`
}

// TableName specifies the table name for ReviewerFeedback.
func (ReviewerFeedback) TableName() string {
	return "reviewer_feedback"
}
