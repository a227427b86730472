package services

import (
	"context"
	"fmt"

	"github.com/waslhq/wasl-api/config"
	"github.com/waslhq/wasl-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AllocationService assigns candidates to capacity-bounded batches keyed by
// (campus, program, trade), creating new batches as existing ones fill up.
type AllocationService struct {
	db  *gorm.DB
	cfg config.PipelineConfig
}

// NewAllocationService creates a new allocation service
func NewAllocationService(db *gorm.DB, cfg config.PipelineConfig) *AllocationService {
	return &AllocationService{db: db, cfg: cfg}
}

// AllocationResult is returned after a successful assignment.
type AllocationResult struct {
	Batch           *model.Batch `json:"batch"`
	AllocatedNumber string       `json:"allocated_number"`
	BatchCreated    bool         `json:"batch_created"`
}

// AssignOrCreateBatch assigns the candidate to an open batch for the key,
// creating a new batch when every existing one is full. The whole
// check-then-act sequence runs inside one transaction holding FOR UPDATE
// locks on the key's batch rows, so capacity never overshoots under
// concurrent registrations.
func (s *AllocationService) AssignOrCreateBatch(ctx context.Context, candidateID, campusID, programID, tradeID uint) (*AllocationResult, error) {
	return s.assign(ctx, candidateID, campusID, programID, tradeID, s.cfg.BatchSize)
}

// AssignWithBatchSize is AssignOrCreateBatch with an explicit capacity for
// any batch it has to create. The size must be one of the configured allowed
// sizes.
func (s *AllocationService) AssignWithBatchSize(ctx context.Context, candidateID, campusID, programID, tradeID uint, batchSize int) (*AllocationResult, error) {
	if !s.cfg.IsAllowedBatchSize(batchSize) {
		return nil, fmt.Errorf("batch size %d is not one of the allowed sizes %v", batchSize, s.cfg.AllowedBatchSizes)
	}
	return s.assign(ctx, candidateID, campusID, programID, tradeID, batchSize)
}

func (s *AllocationService) assign(ctx context.Context, candidateID, campusID, programID, tradeID uint, batchSize int) (*AllocationResult, error) {
	var result *AllocationResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate model.Candidate
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&candidate, candidateID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCandidateNotFound
			}
			return fmt.Errorf("failed to lock candidate: %w", err)
		}
		if model.IsTerminalStatus(candidate.Status) {
			return &InvalidTransitionError{From: candidate.Status, To: candidate.Status}
		}
		if candidate.BatchID != nil {
			return ErrAlreadyAllocated
		}

		var campus model.Campus
		if err := tx.First(&campus, campusID).Error; err != nil {
			return fmt.Errorf("campus not found: %w", err)
		}
		var program model.Program
		if err := tx.First(&program, programID).Error; err != nil {
			return fmt.Errorf("program not found: %w", err)
		}
		var trade model.Trade
		if err := tx.First(&trade, tradeID).Error; err != nil {
			return fmt.Errorf("trade not found: %w", err)
		}

		// Lock every batch row for the key. Concurrent allocations for the
		// same key serialize here; allocations for other keys do not contend.
		var batches []model.Batch
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("campus_id = ? AND program_id = ? AND trade_id = ?", campusID, programID, tradeID).
			Order("number ASC").
			Find(&batches).Error; err != nil {
			return fmt.Errorf("failed to lock batches: %w", err)
		}

		allocated := 0
		maxNumber := 0
		var target *model.Batch
		for i := range batches {
			allocated += batches[i].CurrentSize
			if batches[i].Number > maxNumber {
				maxNumber = batches[i].Number
			}
			if target == nil && batches[i].Status == model.BatchStatusOpen && batches[i].HasCapacity() {
				target = &batches[i]
			}
		}

		created := false
		if target == nil {
			target = &model.Batch{
				CampusID:    campusID,
				ProgramID:   programID,
				TradeID:     tradeID,
				Number:      maxNumber + 1,
				Code:        model.BatchCode(campus.Code, program.Code, trade.Code, maxNumber+1),
				MaxSize:     batchSize,
				CurrentSize: 0,
				Status:      model.BatchStatusOpen,
			}
			if err := tx.Create(target).Error; err != nil {
				return fmt.Errorf("failed to create batch: %w", err)
			}
			created = true
		}

		target.CurrentSize++
		updates := map[string]interface{}{"current_size": target.CurrentSize}
		if target.CurrentSize >= target.MaxSize {
			target.Status = model.BatchStatusFull
			updates["status"] = model.BatchStatusFull
		}
		if err := tx.Model(target).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update batch size: %w", err)
		}

		// Allocation codes run sequentially per key, across batches.
		allocationNumber := model.AllocationNumber(campus.Code, program.Code, trade.Code, allocated+1)
		candidateUpdates := map[string]interface{}{
			"campus_id":        campusID,
			"program_id":       programID,
			"trade_id":         tradeID,
			"batch_id":         target.ID,
			"allocated_number": allocationNumber,
		}
		if err := tx.Model(&candidate).Updates(candidateUpdates).Error; err != nil {
			return fmt.Errorf("failed to assign candidate: %w", err)
		}

		result = &AllocationResult{Batch: target, AllocatedNumber: allocationNumber, BatchCreated: created}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetBatch loads a batch with its key entities.
func (s *AllocationService) GetBatch(ctx context.Context, id uint) (*model.Batch, error) {
	var batch model.Batch
	err := s.db.WithContext(ctx).
		Preload("Campus").Preload("Program").Preload("Trade").
		First(&batch, id).Error
	if err != nil {
		return nil, fmt.Errorf("batch not found: %w", err)
	}
	return &batch, nil
}

// ListBatches returns batches, optionally filtered by key components.
func (s *AllocationService) ListBatches(ctx context.Context, campusID, programID, tradeID *uint) ([]model.Batch, error) {
	query := s.db.WithContext(ctx).Model(&model.Batch{})
	if campusID != nil {
		query = query.Where("campus_id = ?", *campusID)
	}
	if programID != nil {
		query = query.Where("program_id = ?", *programID)
	}
	if tradeID != nil {
		query = query.Where("trade_id = ?", *tradeID)
	}

	var batches []model.Batch
	if err := query.Order("created_at DESC").Find(&batches).Error; err != nil {
		return nil, fmt.Errorf("failed to list batches: %w", err)
	}
	return batches, nil
}
