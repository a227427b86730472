package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/waslhq/wasl-api/config"
	"github.com/waslhq/wasl-api/model"
)

// Allocating 25 candidates into a key with batch size 20 must produce exactly
// two batches: the first full at 20, the second open with 5. No batch ever
// holds more than its capacity, and allocation numbers run sequentially
// across batches.
func TestAllocationFillsBatchesWithoutOvershoot(t *testing.T) {
	db := setupTestDB(t)
	campusID, programID, tradeID := seedAllocationKey(t, db)

	cfg := config.DefaultPipelineConfig() // batch size 20
	svc := NewAllocationService(db, cfg)
	ctx := context.Background()

	const total = 25
	for i := 1; i <= total; i++ {
		candidate := seedCandidate(t, db, i, model.StatusRegistered)
		result, err := svc.AssignOrCreateBatch(ctx, candidate.ID, campusID, programID, tradeID)
		if err != nil {
			t.Fatalf("allocation %d failed: %v", i, err)
		}

		wantNumber := fmt.Sprintf("ISB-TEC-WLD-%04d", i)
		if result.AllocatedNumber != wantNumber {
			t.Errorf("allocation %d: number = %q, want %q", i, result.AllocatedNumber, wantNumber)
		}
	}

	var batches []model.Batch
	if err := db.Where("campus_id = ?", campusID).Order("number ASC").Find(&batches).Error; err != nil {
		t.Fatalf("failed to load batches: %v", err)
	}

	// ceil(25/20) = 2 batches for the key.
	if len(batches) != 2 {
		t.Fatalf("got %d batches, want 2", len(batches))
	}

	first, second := batches[0], batches[1]
	if first.CurrentSize != 20 || first.Status != model.BatchStatusFull {
		t.Errorf("first batch: size=%d status=%s, want 20/full", first.CurrentSize, first.Status)
	}
	if second.CurrentSize != 5 || second.Status != model.BatchStatusOpen {
		t.Errorf("second batch: size=%d status=%s, want 5/open", second.CurrentSize, second.Status)
	}
	if first.Code != "ISB-TEC-WLD-B01" || second.Code != "ISB-TEC-WLD-B02" {
		t.Errorf("batch codes = %q, %q", first.Code, second.Code)
	}
	for _, b := range batches {
		if b.CurrentSize > b.MaxSize {
			t.Errorf("batch %s overshoots capacity: %d/%d", b.Code, b.CurrentSize, b.MaxSize)
		}
	}

	// Every candidate landed in exactly one of the two batches.
	var assigned int64
	db.Model(&model.Candidate{}).Where("batch_id IS NOT NULL").Count(&assigned)
	if assigned != total {
		t.Errorf("%d candidates assigned, want %d", assigned, total)
	}
}

func TestAllocationIsOneShotPerCandidate(t *testing.T) {
	db := setupTestDB(t)
	campusID, programID, tradeID := seedAllocationKey(t, db)

	svc := NewAllocationService(db, config.DefaultPipelineConfig())
	ctx := context.Background()

	candidate := seedCandidate(t, db, 1, model.StatusRegistered)
	if _, err := svc.AssignOrCreateBatch(ctx, candidate.ID, campusID, programID, tradeID); err != nil {
		t.Fatalf("first allocation failed: %v", err)
	}

	_, err := svc.AssignOrCreateBatch(ctx, candidate.ID, campusID, programID, tradeID)
	if !errors.Is(err, ErrAlreadyAllocated) {
		t.Errorf("second allocation = %v, want ErrAlreadyAllocated", err)
	}

	var batch model.Batch
	if err := db.Where("campus_id = ?", campusID).First(&batch).Error; err != nil {
		t.Fatalf("failed to load batch: %v", err)
	}
	if batch.CurrentSize != 1 {
		t.Errorf("batch size after rejected re-allocation = %d, want 1", batch.CurrentSize)
	}
}

func TestAllocationRejectsDisallowedBatchSize(t *testing.T) {
	db := setupTestDB(t)
	campusID, programID, tradeID := seedAllocationKey(t, db)

	svc := NewAllocationService(db, config.DefaultPipelineConfig())
	candidate := seedCandidate(t, db, 1, model.StatusRegistered)

	if _, err := svc.AssignWithBatchSize(context.Background(), candidate.ID, campusID, programID, tradeID, 17); err == nil {
		t.Error("batch size outside the allowed set should be rejected")
	}
}
