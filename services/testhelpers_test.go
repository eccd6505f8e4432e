package services

import (
	"testing"
	"time"

	"grant-workflow-api/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// A single connection keeps every session on the same in-memory database.
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.GrantCall{},
		&models.GrantApplication{},
		&models.ReviewerFeedback{},
		&models.SignOffApproval{},
		&models.RevisionNote{},
		&models.AccessToken{},
		&models.ApplicationStatusHistory{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// createTestApplication inserts an application in the given status.
func createTestApplication(t *testing.T, db *gorm.DB, status models.ApplicationStatus) *models.GrantApplication {
	t.Helper()
	now := time.Now()
	app := models.GrantApplication{
		ApplicantID:        1,
		GrantCallID:        1,
		ProjectTitle:       "Coral Reef Restoration Study",
		ProjectDescription: "Three-year restoration trial",
		Status:             status,
		SubmissionDate:     now.Add(-24 * time.Hour),
		CreateAt:           &now,
		UpdateAt:           &now,
	}
	if err := db.Create(&app).Error; err != nil {
		t.Fatalf("create application: %v", err)
	}
	return &app
}

// setStatus simulates a staff decision applied outside the call under test.
func setStatus(t *testing.T, db *gorm.DB, applicationID int, status models.ApplicationStatus) {
	t.Helper()
	if err := db.Model(&models.GrantApplication{}).
		Where("application_id = ?", applicationID).
		Update("status", status).Error; err != nil {
		t.Fatalf("set status: %v", err)
	}
}

func testApprovers() []ApproverInput {
	name := "Dana Whitfield"
	return []ApproverInput{
		{Role: models.RoleResearchOffice, Email: "research.office@uni.example"},
		{Role: models.RoleDeputy, Email: "deputy@uni.example", Name: &name},
		{Role: models.RoleHead, Email: "head@uni.example"},
	}
}

// reloadApp fetches the current application row.
func reloadApp(t *testing.T, db *gorm.DB, id int) *models.GrantApplication {
	t.Helper()
	app, err := FindApplication(db, id)
	if err != nil {
		t.Fatalf("reload application: %v", err)
	}
	return app
}
