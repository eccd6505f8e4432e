package models

import "time"

// GrantCall is a funding round applications are submitted against.
type GrantCall struct {
	CallID   int        `gorm:"primaryKey;column:call_id" json:"call_id"`
	Title    string     `gorm:"column:title" json:"title"`
	Year     string     `gorm:"column:year" json:"year"`
	Deadline *time.Time `gorm:"column:deadline" json:"deadline,omitempty"`
	Status   string     `gorm:"column:status" json:"status"` // active|closed
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName specifies the table name for GrantCall.
func (GrantCall) TableName() string {
	return "grant_calls"
}
