package models

import "time"

// SignOffRole identifies one seat in the fixed institutional approval chain.
type SignOffRole string

const (
	RoleResearchOffice SignOffRole = "research_office"
	RoleDeputy         SignOffRole = "deputy"
	RoleHead           SignOffRole = "head"
)

// SignOffRoleOrder lists the chain roles in their declared order. The order
// is used for display labels only; seats may be decided in any order.
var SignOffRoleOrder = []SignOffRole{RoleResearchOffice, RoleDeputy, RoleHead}

// SignOffRoleLabel returns the human-readable name of a chain role.
func SignOffRoleLabel(role SignOffRole) string {
	switch role {
	case RoleResearchOffice:
		return "Research Office"
	case RoleDeputy:
		return "Deputy Head"
	case RoleHead:
		return "Head of Institution"
	}
	return string(role)
}

// SignOffStatus is the state of one approval seat.
type SignOffStatus string

const (
	SignOffPending  SignOffStatus = "pending"
	SignOffApproved SignOffStatus = "approved"
	SignOffRejected SignOffStatus = "rejected"
)

// SignOffApproval is one approver's seat in the three-step chain. All three
// seats are created together when the chain is initiated; each is decided at
// most once via its own token and never reverts.
type SignOffApproval struct {
	ApprovalID    int           `gorm:"primaryKey;column:approval_id" json:"approval_id"`
	ApplicationID int           `gorm:"column:application_id;index" json:"application_id"`
	Role          SignOffRole   `gorm:"column:role" json:"role"`
	ApproverEmail string        `gorm:"column:approver_email" json:"approver_email"`
	ApproverName  *string       `gorm:"column:approver_name" json:"approver_name,omitempty"`
	Status        SignOffStatus `gorm:"column:status" json:"status"`
	Comments      *string       `gorm:"column:comments" json:"comments,omitempty"`
	ApprovedAt    *time.Time    `gorm:"column:approved_at" json:"approved_at,omitempty"`
	Token         string        `gorm:"column:token;index" json:"-"`
	CreateAt      time.Time     `gorm:"column:create_at" json:"create_at"`
}

// TableName specifies the table name for SignOffApproval.
func (SignOffApproval) TableName() string {
	return "signoff_approvals"
}
