package services

import (
	"context"
	"fmt"
	"time"

	"github.com/waslhq/wasl-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VisaService runs the visa processing sub-state-machine: fixed stage order,
// terminal rejection on stage failure, and hold/resume driven by the
// complaint gate.
type VisaService struct {
	db *gorm.DB
}

// NewVisaService creates a new visa service
func NewVisaService(db *gorm.DB) *VisaService {
	return &VisaService{db: db}
}

// StageUpdate carries the fields recorded when a stage is reached.
type StageUpdate struct {
	Status    string     `json:"status" validate:"required"`
	Reference string     `json:"reference"`
	Date      *time.Time `json:"date"`
}

// AdvanceStage moves the process to newStage, which must be the immediate
// successor of the current stage. A failing stage outcome makes the process
// rejected, terminally; reaching the completed stage makes it completed.
func (s *VisaService) AdvanceStage(ctx context.Context, candidateID uint, newStage model.VisaStage, update StageUpdate) (*model.VisaProcessing, error) {
	var process *model.VisaProcessing

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var visa model.VisaProcessing
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("candidate_id = ?", candidateID).First(&visa).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("no visa processing for candidate %d", candidateID)
			}
			return fmt.Errorf("failed to lock visa processing: %w", err)
		}

		if visa.IsTerminal() {
			return ErrVisaProcessTerminal
		}
		if visa.OverallStatus == model.VisaOnHold {
			return ErrVisaProcessOnHold
		}

		expected, ok := model.NextVisaStage(visa.CurrentStage)
		if !ok || newStage != expected {
			return &OutOfOrderStageError{Current: visa.CurrentStage, Requested: newStage}
		}

		updates := stageColumns(newStage, update)
		updates["current_stage"] = newStage

		if model.StageOutcomeFailed(newStage, update.Status) {
			updates["overall_status"] = model.VisaRejected
		} else if newStage == model.VisaStageCompleted {
			now := time.Now()
			updates["overall_status"] = model.VisaCompleted
			updates["completed_at"] = now
		}

		if err := tx.Model(&visa).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to advance visa stage: %w", err)
		}
		if err := tx.Where("candidate_id = ?", candidateID).First(&visa).Error; err != nil {
			return fmt.Errorf("failed to reload visa processing: %w", err)
		}
		process = &visa
		return nil
	})
	if err != nil {
		return nil, err
	}
	return process, nil
}

// stageColumns maps a stage update onto that stage's own columns. Each stage
// keeps its fields independently of the others.
func stageColumns(stage model.VisaStage, update StageUpdate) map[string]interface{} {
	cols := map[string]interface{}{}
	switch stage {
	case model.VisaStageInterview:
		cols["interview_status"] = update.Status
		if update.Date != nil {
			cols["interview_date"] = *update.Date
		}
	case model.VisaStageTakamol:
		cols["takamol_status"] = update.Status
		if update.Reference != "" {
			cols["takamol_ref"] = update.Reference
		}
	case model.VisaStageMedical:
		cols["medical_status"] = update.Status
		if update.Date != nil {
			cols["medical_date"] = *update.Date
		}
	case model.VisaStageBiometric:
		cols["biometric_status"] = update.Status
		if update.Date != nil {
			cols["biometric_date"] = *update.Date
		}
	case model.VisaStageENumber:
		cols["enumber_status"] = update.Status
		if update.Reference != "" {
			cols["enumber"] = update.Reference
		}
	case model.VisaStageVisa:
		cols["visa_status"] = update.Status
		if update.Reference != "" {
			cols["visa_number"] = update.Reference
		}
	case model.VisaStagePTN:
		cols["ptn_status"] = update.Status
		if update.Reference != "" {
			cols["ptn_number"] = update.Reference
		}
	case model.VisaStageCompleted:
		// terminal marker only; every per-stage field was recorded at its
		// own stage and must not be touched here
	}
	return cols
}

// PlaceOnHold sets the process on hold without changing its current stage.
// Idempotent: holding an already-held process leaves it on hold.
func (s *VisaService) PlaceOnHold(ctx context.Context, candidateID uint, reason string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var visa model.VisaProcessing
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("candidate_id = ?", candidateID).First(&visa).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("no visa processing for candidate %d", candidateID)
			}
			return fmt.Errorf("failed to lock visa processing: %w", err)
		}

		if visa.IsTerminal() {
			return ErrVisaProcessTerminal
		}
		if visa.OverallStatus == model.VisaOnHold {
			return nil
		}

		return tx.Model(&visa).Updates(map[string]interface{}{
			"overall_status": model.VisaOnHold,
			"hold_reason":    reason,
		}).Error
	})
}

// Resume returns a held process to in_progress. The blocking condition is
// independently re-verified: while any active critical complaint remains the
// resume is refused.
func (s *VisaService) Resume(ctx context.Context, candidateID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var visa model.VisaProcessing
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("candidate_id = ?", candidateID).First(&visa).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("no visa processing for candidate %d", candidateID)
			}
			return fmt.Errorf("failed to lock visa processing: %w", err)
		}

		if visa.OverallStatus != model.VisaOnHold {
			return ErrVisaProcessNotOnHold
		}

		var blocking int64
		err := tx.Model(&model.Complaint{}).
			Where("candidate_id = ? AND priority = ? AND status IN ?",
				candidateID, model.PriorityCritical, model.ActiveComplaintStatuses).
			Count(&blocking).Error
		if err != nil {
			return fmt.Errorf("failed to re-verify hold condition: %w", err)
		}
		if blocking > 0 {
			return ErrHoldConditionActive
		}

		return tx.Model(&visa).Updates(map[string]interface{}{
			"overall_status": model.VisaInProgress,
			"hold_reason":    "",
		}).Error
	})
}

// GetByCandidate loads the candidate's visa process.
func (s *VisaService) GetByCandidate(ctx context.Context, candidateID uint) (*model.VisaProcessing, error) {
	var visa model.VisaProcessing
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&visa).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("no visa processing for candidate %d", candidateID)
		}
		return nil, fmt.Errorf("failed to load visa processing: %w", err)
	}
	return &visa, nil
}
