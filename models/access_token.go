package models

import "time"

// TokenPurpose scopes an access token to one workflow.
type TokenPurpose string

const (
	PurposeReview  TokenPurpose = "review"
	PurposeSignOff TokenPurpose = "signoff"
)

// AccessToken binds an opaque random string to exactly one application and
// seat. Tokens are never deleted; one-time semantics are enforced on the
// bound record, so a used token still resolves to show "already completed".
type AccessToken struct {
	TokenID       int          `gorm:"primaryKey;column:token_id" json:"token_id"`
	Token         string       `gorm:"column:token;uniqueIndex" json:"token"`
	ApplicationID int          `gorm:"column:application_id;index" json:"application_id"`
	Purpose       TokenPurpose `gorm:"column:purpose" json:"purpose"`
	SeatRole      *SignOffRole `gorm:"column:seat_role" json:"seat_role,omitempty"`
	ReviewerEmail *string      `gorm:"column:reviewer_email" json:"reviewer_email,omitempty"`
	CreateAt      time.Time    `gorm:"column:create_at" json:"create_at"`
}

// TableName specifies the table name for AccessToken.
func (AccessToken) TableName() string {
	return "access_tokens"
}
