package models

import "time"

// ApplicationStatusHistory tracks historical status changes for applications.
type ApplicationStatusHistory struct {
	HistoryID     int                `gorm:"primaryKey;column:history_id" json:"history_id"`
	ApplicationID int                `gorm:"column:application_id;index" json:"application_id"`
	OldStatus     *ApplicationStatus `gorm:"column:old_status" json:"old_status,omitempty"`
	NewStatus     ApplicationStatus  `gorm:"column:new_status" json:"new_status"`
	ChangedBy     string             `gorm:"column:changed_by" json:"changed_by"`
	Reason        *string            `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt     time.Time          `gorm:"column:created_at" json:"created_at"`
}

// TableName specifies the table for ApplicationStatusHistory.
func (ApplicationStatusHistory) TableName() string {
	return "application_status_history"
}
