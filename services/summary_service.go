package services

import (
	"fmt"
	"time"

	"grant-workflow-api/models"
)

// SignOffSummary is a read-only view of the approval chain's progress.
type SignOffSummary struct {
	CurrentLabel   string `json:"current_label"`
	CompletedCount int    `json:"completed_count"`
	TotalCount     int    `json:"total_count"`
}

// SummarizeSignOff derives the current approval step from the seats on the
// application. The "first pending" ordering follows the declared role order
// for display only; it does not gate decisioning.
func SummarizeSignOff(app *models.GrantApplication) SignOffSummary {
	seats := app.SignOffApprovals
	summary := SignOffSummary{TotalCount: len(seats)}
	if len(seats) == 0 {
		summary.CurrentLabel = "Not initiated"
		return summary
	}

	byRole := make(map[models.SignOffRole]models.SignOffApproval, len(seats))
	for _, seat := range seats {
		if seat.Status != models.SignOffPending {
			summary.CompletedCount++
		}
		byRole[seat.Role] = seat
	}

	for _, role := range models.SignOffRoleOrder {
		if seat, ok := byRole[role]; ok && seat.Status == models.SignOffRejected {
			summary.CurrentLabel = fmt.Sprintf("Rejected by %s", models.SignOffRoleLabel(role))
			return summary
		}
	}
	if summary.CompletedCount == len(seats) {
		summary.CurrentLabel = "All approvals complete"
		return summary
	}
	for _, role := range models.SignOffRoleOrder {
		if seat, ok := byRole[role]; ok && seat.Status == models.SignOffPending {
			summary.CurrentLabel = fmt.Sprintf("Awaiting %s approval", models.SignOffRoleLabel(role))
			return summary
		}
	}
	summary.CurrentLabel = "All approvals complete"
	return summary
}

// statusWeights maps each status to a rough lifecycle completion percentage.
var statusWeights = map[models.ApplicationStatus]int{
	models.StatusEditable:         5,
	models.StatusNeedsRevision:    10,
	models.StatusSubmitted:        20,
	models.StatusUnderReview:      35,
	models.StatusManagerApproved:  50,
	models.StatusAwaitingSignOff:  65,
	models.StatusSignOffApproved:  80,
	models.StatusContractPending:  90,
	models.StatusContractReceived: 100,
	models.StatusRejected:         100,
	models.StatusWithdrawn:        100,
}

// CompletionPercent returns how far along the lifecycle the application is.
func CompletionPercent(app *models.GrantApplication) int {
	return statusWeights[app.Status]
}

// Priority buckets an application by deadline proximity. Applications with
// no deadline, or already final, are low priority.
func Priority(app *models.GrantApplication) string {
	if IsFinal(app) || app.Deadline == nil {
		return "low"
	}
	remaining := app.Deadline.Sub(timeNow())
	switch {
	case remaining <= 72*time.Hour:
		return "high"
	case remaining <= 14*24*time.Hour:
		return "medium"
	}
	return "low"
}
