package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/waslhq/wasl-api/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ComplaintService files, escalates and resolves complaints, and enforces the
// visa-process hold that active critical complaints impose.
type ComplaintService struct {
	db       *gorm.DB
	visas    *VisaService
	notifier *NotificationService
}

// NewComplaintService creates a new complaint service
func NewComplaintService(db *gorm.DB, visas *VisaService, notifier *NotificationService) *ComplaintService {
	return &ComplaintService{db: db, visas: visas, notifier: notifier}
}

// FileComplaintRequest carries a new complaint.
type FileComplaintRequest struct {
	CandidateID uint                    `json:"candidate_id" validate:"required"`
	Subject     string                  `json:"subject" validate:"required"`
	Description string                  `json:"description"`
	Priority    model.ComplaintPriority `json:"priority" validate:"omitempty,oneof=low medium high critical"`
	SLADays     int                     `json:"sla_days" validate:"omitempty,gt=0"`
}

// FileComplaint records a complaint. Filing a critical complaint immediately
// enforces the visa-process hold.
func (s *ComplaintService) FileComplaint(ctx context.Context, req FileComplaintRequest) (*model.Complaint, error) {
	if req.Priority == "" {
		req.Priority = model.PriorityMedium
	}
	if req.SLADays <= 0 {
		req.SLADays = model.DefaultSLADays
	}

	var candidate model.Candidate
	if err := s.db.WithContext(ctx).First(&candidate, req.CandidateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}

	complaint := &model.Complaint{
		CandidateID: req.CandidateID,
		Subject:     req.Subject,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      model.ComplaintOpen,
		SLADays:     req.SLADays,
		ReportedAt:  time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(complaint).Error; err != nil {
		return nil, fmt.Errorf("failed to file complaint: %w", err)
	}

	if complaint.IsBlocking() {
		if err := s.EnforceHold(ctx, req.CandidateID); err != nil {
			log.Printf("Failed to enforce visa hold for candidate %d: %v", req.CandidateID, err)
		}
	}
	return complaint, nil
}

// ActiveCriticalComplaintCount counts the candidate's unresolved critical
// complaints.
func (s *ComplaintService) ActiveCriticalComplaintCount(ctx context.Context, candidateID uint) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("candidate_id = ? AND priority = ? AND status IN ?",
			candidateID, model.PriorityCritical, model.ActiveComplaintStatuses).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count complaints: %w", err)
	}
	return count, nil
}

// EnforceHold places the candidate's in-progress visa process on hold when at
// least one active critical complaint exists. Idempotent; candidates without
// a visa process are left alone.
func (s *ComplaintService) EnforceHold(ctx context.Context, candidateID uint) error {
	count, err := s.ActiveCriticalComplaintCount(ctx, candidateID)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	var exists int64
	err = s.db.WithContext(ctx).Model(&model.VisaProcessing{}).
		Where("candidate_id = ? AND overall_status IN ?",
			candidateID, []model.VisaOverallStatus{model.VisaInProgress, model.VisaOnHold}).
		Count(&exists).Error
	if err != nil {
		return fmt.Errorf("failed to check visa processing: %w", err)
	}
	if exists == 0 {
		return nil
	}

	reason := fmt.Sprintf("%d active critical complaint(s)", count)
	return s.visas.PlaceOnHold(ctx, candidateID, reason)
}

// Escalate raises the complaint's escalation level by exactly one, capped at
// the maximum.
func (s *ComplaintService) Escalate(ctx context.Context, complaintID uint) (*model.Complaint, error) {
	var complaint model.Complaint

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&complaint, complaintID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return fmt.Errorf("complaint not found")
			}
			return fmt.Errorf("failed to lock complaint: %w", err)
		}

		if !complaint.CanEscalate() {
			return ErrMaxEscalationReached
		}

		complaint.EscalationLevel++
		return tx.Model(&complaint).Update("escalation_level", complaint.EscalationLevel).Error
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		var candidate model.Candidate
		if err := s.db.WithContext(ctx).First(&candidate, complaint.CandidateID).Error; err == nil {
			if err := s.notifier.NotifyEscalation(ctx, &candidate, &complaint); err != nil {
				log.Printf("Failed to record escalation notification for complaint %d: %v", complaint.ID, err)
			}
		}
	}
	return &complaint, nil
}

// Resolve closes out a complaint. Resolving the last blocking complaint is
// necessary but not sufficient for the visa process to resume; resume runs
// its own re-verification.
func (s *ComplaintService) Resolve(ctx context.Context, complaintID uint, resolution string) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := s.db.WithContext(ctx).First(&complaint, complaintID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("complaint not found")
		}
		return nil, fmt.Errorf("failed to load complaint: %w", err)
	}
	if !complaint.IsActive() {
		return nil, fmt.Errorf("complaint is already %s", complaint.Status)
	}

	now := time.Now()
	err := s.db.WithContext(ctx).Model(&complaint).Updates(map[string]interface{}{
		"status":      model.ComplaintResolved,
		"resolved_at": now,
		"resolution":  resolution,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to resolve complaint: %w", err)
	}

	complaint.Status = model.ComplaintResolved
	complaint.ResolvedAt = &now
	complaint.Resolution = resolution
	return &complaint, nil
}

// Assign puts a complaint into the assigned state with a handler.
func (s *ComplaintService) Assign(ctx context.Context, complaintID, assigneeID uint) error {
	result := s.db.WithContext(ctx).Model(&model.Complaint{}).
		Where("id = ? AND status IN ?", complaintID, model.ActiveComplaintStatuses).
		Updates(map[string]interface{}{
			"status":         model.ComplaintAssigned,
			"assigned_to_id": assigneeID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to assign complaint: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no active complaint with id %d", complaintID)
	}
	return nil
}

// SweepSLABreaches materializes the derived breach flag for active complaints
// past their due date and records breach alerts. Called by the scheduler.
func (s *ComplaintService) SweepSLABreaches(ctx context.Context) (int, error) {
	var complaints []model.Complaint
	err := s.db.WithContext(ctx).
		Where("status IN ? AND sla_breached = ?", model.ActiveComplaintStatuses, false).
		Find(&complaints).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load active complaints: %w", err)
	}

	now := time.Now()
	breached := 0
	for i := range complaints {
		if !complaints[i].IsSLABreached(now) {
			continue
		}
		if err := s.db.WithContext(ctx).Model(&complaints[i]).Update("sla_breached", true).Error; err != nil {
			log.Printf("Failed to flag SLA breach on complaint %d: %v", complaints[i].ID, err)
			continue
		}
		breached++

		if s.notifier != nil {
			var candidate model.Candidate
			if err := s.db.WithContext(ctx).First(&candidate, complaints[i].CandidateID).Error; err == nil {
				if err := s.notifier.NotifySLABreach(ctx, &candidate, &complaints[i]); err != nil {
					log.Printf("Failed to record SLA breach notification for complaint %d: %v", complaints[i].ID, err)
				}
			}
		}
	}
	return breached, nil
}

// GetComplaint fetches a single complaint by ID.
func (s *ComplaintService) GetComplaint(ctx context.Context, id uint) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := s.db.WithContext(ctx).First(&complaint, id).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch complaint %d: %w", id, err)
	}
	return &complaint, nil
}

// ListByCandidate returns a candidate's complaints.
func (s *ComplaintService) ListByCandidate(ctx context.Context, candidateID uint) ([]model.Complaint, error) {
	var complaints []model.Complaint
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).
		Order("created_at DESC").Find(&complaints).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}
	return complaints, nil
}
