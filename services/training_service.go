package services

import (
	"context"
	"fmt"
	"time"

	"github.com/waslhq/wasl-api/model"
	"gorm.io/gorm"
)

// TrainingService records assessments and attendance, and evaluates the
// training completion rule.
type TrainingService struct {
	db *gorm.DB
}

// NewTrainingService creates a new training service
func NewTrainingService(db *gorm.DB) *TrainingService {
	return &TrainingService{db: db}
}

// RecordAssessmentRequest carries one interim or final assessment.
type RecordAssessmentRequest struct {
	CandidateID uint                   `json:"candidate_id" validate:"required"`
	Type        model.AssessmentType   `json:"type" validate:"required,oneof=interim final"`
	Result      model.AssessmentResult `json:"result" validate:"required,oneof=pass fail"`
	Score       float64                `json:"score"`
	Remarks     string                 `json:"remarks"`
	AssessorID  uint                   `json:"-"`
}

// RecordAssessment stores an assessment tied to the candidate's current
// batch. When both a passing interim and final exist for that batch, the
// training record flips to completed.
func (s *TrainingService) RecordAssessment(ctx context.Context, req RecordAssessmentRequest) (*model.TrainingAssessment, error) {
	var assessment *model.TrainingAssessment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate model.Candidate
		if err := tx.First(&candidate, req.CandidateID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCandidateNotFound
			}
			return fmt.Errorf("failed to load candidate: %w", err)
		}
		if candidate.Status != model.StatusTraining {
			return &InvalidTransitionError{From: candidate.Status, To: model.StatusTraining}
		}
		if candidate.BatchID == nil {
			return fmt.Errorf("candidate %d has no batch", candidate.ID)
		}

		assessment = &model.TrainingAssessment{
			CandidateID: req.CandidateID,
			BatchID:     *candidate.BatchID,
			Type:        req.Type,
			Result:      req.Result,
			Score:       req.Score,
			Remarks:     req.Remarks,
			AssessorID:  req.AssessorID,
			AssessedAt:  time.Now(),
		}
		if err := tx.Create(assessment).Error; err != nil {
			return fmt.Errorf("failed to record assessment: %w", err)
		}

		var assessments []model.TrainingAssessment
		if err := tx.Where("candidate_id = ?", req.CandidateID).Find(&assessments).Error; err != nil {
			return fmt.Errorf("failed to load assessments: %w", err)
		}
		if model.IsTrainingComplete(assessments, *candidate.BatchID) {
			now := time.Now()
			err := tx.Model(&model.Training{}).
				Where("candidate_id = ? AND status = ?", req.CandidateID, model.TrainingInProgress).
				Updates(map[string]interface{}{
					"status":       model.TrainingCompleted,
					"completed_at": now,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to complete training: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return assessment, nil
}

// IsTrainingComplete reports whether the candidate's assessments satisfy the
// completion rule for their current batch.
func (s *TrainingService) IsTrainingComplete(ctx context.Context, candidateID uint) (bool, error) {
	var candidate model.Candidate
	if err := s.db.WithContext(ctx).First(&candidate, candidateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, ErrCandidateNotFound
		}
		return false, fmt.Errorf("failed to load candidate: %w", err)
	}
	if candidate.BatchID == nil {
		return false, nil
	}

	var assessments []model.TrainingAssessment
	if err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Find(&assessments).Error; err != nil {
		return false, fmt.Errorf("failed to load assessments: %w", err)
	}
	return model.IsTrainingComplete(assessments, *candidate.BatchID), nil
}

// UpdateAttendance records the attendance percentage on the training record.
func (s *TrainingService) UpdateAttendance(ctx context.Context, candidateID uint, percent float64) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("attendance must be between 0 and 100, got %v", percent)
	}
	result := s.db.WithContext(ctx).Model(&model.Training{}).
		Where("candidate_id = ?", candidateID).
		Update("attendance_percent", percent)
	if result.Error != nil {
		return fmt.Errorf("failed to update attendance: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no training record for candidate %d", candidateID)
	}
	return nil
}

// GetTraining loads the candidate's training record with assessments.
func (s *TrainingService) GetTraining(ctx context.Context, candidateID uint) (*model.Training, []model.TrainingAssessment, error) {
	var training model.Training
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&training).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("no training record for candidate %d", candidateID)
		}
		return nil, nil, fmt.Errorf("failed to load training: %w", err)
	}

	var assessments []model.TrainingAssessment
	err = s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).
		Order("assessed_at ASC").Find(&assessments).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load assessments: %w", err)
	}
	return &training, assessments, nil
}
