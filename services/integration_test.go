package services

import (
	"fmt"
	"os"
	"testing"

	"github.com/waslhq/wasl-api/model"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens the integration test database. These tests require:
// 1. RUN_INTEGRATION_TESTS=true
// 2. TEST_DATABASE_DSN pointing at a throwaway postgres database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	if os.Getenv("RUN_INTEGRATION_TESTS") != "true" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=true to run")
	}

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&model.Campus{}, &model.Program{}, &model.Trade{}, &model.OEP{},
		&model.Candidate{}, &model.Batch{}, &model.Complaint{},
		&model.VisaProcessing{}, &model.UserNotification{},
	); err != nil {
		t.Fatalf("Failed to migrate test schema: %v", err)
	}

	// Each test starts from an empty pipeline.
	db.Exec(`TRUNCATE candidates, batches, complaints, visa_processings,
		campuses, programs, trades, oeps, user_notifications
		RESTART IDENTITY CASCADE`)

	return db
}

// seedAllocationKey creates one (campus, program, trade) key and returns its IDs.
func seedAllocationKey(t *testing.T, db *gorm.DB) (uint, uint, uint) {
	t.Helper()

	campus := model.Campus{Name: "Islamabad Campus", Code: "ISB"}
	if err := db.Create(&campus).Error; err != nil {
		t.Fatalf("Failed to seed campus: %v", err)
	}
	program := model.Program{Name: "Technical", Code: "TEC"}
	if err := db.Create(&program).Error; err != nil {
		t.Fatalf("Failed to seed program: %v", err)
	}
	trade := model.Trade{Name: "Welding", Code: "WLD"}
	if err := db.Create(&trade).Error; err != nil {
		t.Fatalf("Failed to seed trade: %v", err)
	}
	return campus.ID, program.ID, trade.ID
}

// seedCandidate creates a candidate at the given status with a unique CNIC.
func seedCandidate(t *testing.T, db *gorm.DB, n int, status model.CandidateStatus) *model.Candidate {
	t.Helper()

	candidate := &model.Candidate{
		Name:   fmt.Sprintf("Candidate %d", n),
		CNIC:   fmt.Sprintf("61101-%07d-%d", n, n%10),
		Status: status,
	}
	if err := db.Create(candidate).Error; err != nil {
		t.Fatalf("Failed to seed candidate %d: %v", n, err)
	}
	return candidate
}
