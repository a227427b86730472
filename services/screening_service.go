package services

import (
	"context"
	"fmt"
	"time"

	"github.com/waslhq/wasl-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ScreeningService records screening evaluations and drives the automatic
// rejection of ineligible candidates.
type ScreeningService struct {
	db         *gorm.DB
	candidates *CandidateService
}

// NewScreeningService creates a new screening service
func NewScreeningService(db *gorm.DB, candidates *CandidateService) *ScreeningService {
	return &ScreeningService{db: db, candidates: candidates}
}

// RecordScreeningRequest carries a screening evaluation.
type RecordScreeningRequest struct {
	CandidateID uint                   `json:"candidate_id" validate:"required"`
	Outcome     model.ScreeningOutcome `json:"outcome" validate:"required,oneof=eligible ineligible"`
	Remarks     string                 `json:"remarks"`
	ScreenedBy  uint                   `json:"-"`
}

// RecordScreening stores one completed screening evaluation. It fails with
// ErrDuplicateScreening while an unresolved (pending) attempt exists; once
// every earlier attempt is completed a new evaluation is allowed and the
// latest completed one becomes authoritative. An ineligible outcome
// auto-transitions the candidate to rejected.
func (s *ScreeningService) RecordScreening(ctx context.Context, req RecordScreeningRequest) (*model.Screening, error) {
	var screening *model.Screening

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate model.Candidate
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&candidate, req.CandidateID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCandidateNotFound
			}
			return fmt.Errorf("failed to lock candidate: %w", err)
		}

		// Screenings only exist for candidates at the screening stage.
		if candidate.Status != model.StatusScreening {
			return &InvalidTransitionError{From: candidate.Status, To: model.StatusScreening}
		}

		var pending int64
		err := tx.Model(&model.Screening{}).
			Where("candidate_id = ? AND status = ?", req.CandidateID, model.ScreeningPending).
			Count(&pending).Error
		if err != nil {
			return fmt.Errorf("failed to check pending screenings: %w", err)
		}
		if pending > 0 {
			return ErrDuplicateScreening
		}

		now := time.Now()
		screening = &model.Screening{
			CandidateID: req.CandidateID,
			Outcome:     req.Outcome,
			Status:      model.ScreeningCompleted,
			Remarks:     req.Remarks,
			ScreenedBy:  req.ScreenedBy,
			ScreenedAt:  &now,
		}
		if err := tx.Create(screening).Error; err != nil {
			return fmt.Errorf("failed to record screening: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// An ineligible outcome rejects the candidate immediately. Done through
	// the orchestrator so the audit trail stays uniform.
	if req.Outcome == model.OutcomeIneligible {
		_, err := s.candidates.Transition(ctx, req.CandidateID, model.StatusRejected,
			req.ScreenedBy, "screening outcome ineligible")
		if err != nil {
			return nil, fmt.Errorf("failed to reject ineligible candidate: %w", err)
		}
	}

	return screening, nil
}

// OpenScreening creates a pending screening attempt for a candidate, marking
// that an evaluation is underway.
func (s *ScreeningService) OpenScreening(ctx context.Context, candidateID, screenerID uint) (*model.Screening, error) {
	candidate, err := s.candidates.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Status != model.StatusScreening {
		return nil, &InvalidTransitionError{From: candidate.Status, To: model.StatusScreening}
	}

	var pending int64
	err = s.db.WithContext(ctx).Model(&model.Screening{}).
		Where("candidate_id = ? AND status = ?", candidateID, model.ScreeningPending).
		Count(&pending).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check pending screenings: %w", err)
	}
	if pending > 0 {
		return nil, ErrDuplicateScreening
	}

	screening := &model.Screening{
		CandidateID: candidateID,
		Status:      model.ScreeningPending,
		ScreenedBy:  screenerID,
	}
	if err := s.db.WithContext(ctx).Create(screening).Error; err != nil {
		return nil, fmt.Errorf("failed to open screening: %w", err)
	}
	return screening, nil
}

// LatestCompleted returns the candidate's latest completed screening, or nil.
func (s *ScreeningService) LatestCompleted(ctx context.Context, candidateID uint) (*model.Screening, error) {
	var screening model.Screening
	err := s.db.WithContext(ctx).
		Where("candidate_id = ? AND status = ?", candidateID, model.ScreeningCompleted).
		Order("created_at DESC").First(&screening).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load screening: %w", err)
	}
	return &screening, nil
}

// ListByCandidate returns all screening attempts for a candidate.
func (s *ScreeningService) ListByCandidate(ctx context.Context, candidateID uint) ([]model.Screening, error) {
	var screenings []model.Screening
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).
		Order("created_at DESC").Find(&screenings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list screenings: %w", err)
	}
	return screenings, nil
}
