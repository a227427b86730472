package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/waslhq/wasl-api/config"
	"github.com/waslhq/wasl-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CandidateService is the status machine orchestrator. It is the only writer
// of candidates.status; every other component only reports gate satisfaction.
type CandidateService struct {
	db       *gorm.DB
	cfg      config.PipelineConfig
	notifier *NotificationService
	journeys *JourneyService // nil-safe; used to invalidate cached projections
}

// NewCandidateService creates the orchestrator.
func NewCandidateService(db *gorm.DB, cfg config.PipelineConfig, notifier *NotificationService) *CandidateService {
	return &CandidateService{db: db, cfg: cfg, notifier: notifier}
}

// SetJourneyService attaches the projection service for cache invalidation.
// Wired separately because the journey service also reads through this one.
func (s *CandidateService) SetJourneyService(j *JourneyService) {
	s.journeys = j
}

// CreateCandidateRequest carries candidate intake data.
type CreateCandidateRequest struct {
	Name        string     `json:"name" validate:"required"`
	FatherName  string     `json:"father_name"`
	CNIC        string     `json:"cnic" validate:"required"`
	Phone       string     `json:"phone"`
	Email       string     `json:"email" validate:"omitempty,email"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	CampusID    *uint      `json:"campus_id"`
	OEPID       *uint      `json:"oep_id"`
}

// CreateCandidate performs intake: a new candidate always starts at status new.
func (s *CandidateService) CreateCandidate(ctx context.Context, req CreateCandidateRequest) (*model.Candidate, error) {
	candidate := &model.Candidate{
		Name:        req.Name,
		FatherName:  req.FatherName,
		CNIC:        req.CNIC,
		Phone:       req.Phone,
		Email:       req.Email,
		DateOfBirth: req.DateOfBirth,
		Status:      model.StatusNew,
		CampusID:    req.CampusID,
		OEPID:       req.OEPID,
	}
	if err := s.db.WithContext(ctx).Create(candidate).Error; err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return candidate, nil
}

// GetCandidate loads a candidate by ID.
func (s *CandidateService) GetCandidate(ctx context.Context, id uint) (*model.Candidate, error) {
	var candidate model.Candidate
	if err := s.db.WithContext(ctx).First(&candidate, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	return &candidate, nil
}

// TransitionResult is the previous/next pair returned for audit logging.
type TransitionResult struct {
	CandidateID uint                  `json:"candidate_id"`
	From        model.CandidateStatus `json:"from"`
	To          model.CandidateStatus `json:"to"`
}

// Transition moves a candidate to target. It fails with InvalidTransitionError
// when target is not a direct successor or escape state, and with
// GateNotSatisfiedError when the component gate for target reports unmet
// conditions. The read-modify-write runs inside one transaction holding a row
// lock on the candidate, so concurrent transitions cannot lose updates.
func (s *CandidateService) Transition(ctx context.Context, candidateID uint, target model.CandidateStatus, actorID uint, remarks string) (*TransitionResult, error) {
	var result *TransitionResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidate model.Candidate
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&candidate, candidateID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrCandidateNotFound
			}
			return fmt.Errorf("failed to lock candidate: %w", err)
		}

		if !model.CanTransition(candidate.Status, target) {
			return &InvalidTransitionError{From: candidate.Status, To: target}
		}

		gate, err := s.evaluateGate(tx, &candidate, target)
		if err != nil {
			return err
		}
		if !gate.Satisfied {
			return &GateNotSatisfiedError{Target: target, Reasons: gate.Reasons}
		}

		from := candidate.Status
		if err := tx.Model(&candidate).Update("status", target).Error; err != nil {
			return fmt.Errorf("failed to update status: %w", err)
		}

		if err := s.afterTransition(tx, &candidate, target); err != nil {
			return err
		}

		logEntry := model.StatusTransitionLog{
			CandidateID: candidate.ID,
			FromStatus:  from,
			ToStatus:    target,
			ActorID:     actorID,
			Remarks:     remarks,
		}
		if meta, err := json.Marshal(gate); err == nil {
			logEntry.Metadata = datatypes.JSON(meta)
		}
		if err := tx.Create(&logEntry).Error; err != nil {
			return fmt.Errorf("failed to write transition log: %w", err)
		}

		result = &TransitionResult{CandidateID: candidate.ID, From: from, To: target}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.journeys != nil {
		s.journeys.Invalidate(ctx, candidateID)
	}
	if s.notifier != nil {
		if candidate, err := s.GetCandidate(ctx, candidateID); err == nil {
			if err := s.notifier.NotifyStatusChange(ctx, candidate, result.From, result.To); err != nil {
				log.Printf("Failed to record status-change notification for candidate %d: %v", candidateID, err)
			}
		}
	}

	return result, nil
}

// EvaluateGate reports whether the gate for target is currently satisfied,
// without transitioning. Used by the blockers projection.
func (s *CandidateService) EvaluateGate(ctx context.Context, candidateID uint, target model.CandidateStatus) (*GateResult, error) {
	candidate, err := s.GetCandidate(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	return s.evaluateGate(s.db.WithContext(ctx), candidate, target)
}

// evaluateGate dispatches to the per-stage gate. Escape states and the first
// pipeline step carry no gate.
func (s *CandidateService) evaluateGate(tx *gorm.DB, c *model.Candidate, target model.CandidateStatus) (*GateResult, error) {
	gate := &GateResult{Satisfied: true}
	now := time.Now()

	switch target {
	case model.StatusRegistered:
		var screening model.Screening
		err := tx.Where("candidate_id = ? AND status = ?", c.ID, model.ScreeningCompleted).
			Order("created_at DESC").First(&screening).Error
		if err == gorm.ErrRecordNotFound {
			gate.addReason("no completed screening on record")
		} else if err != nil {
			return nil, fmt.Errorf("failed to load screening: %w", err)
		} else if screening.Outcome != model.OutcomeEligible {
			gate.addReason("latest screening outcome is %s", screening.Outcome)
		}

	case model.StatusTraining:
		var reg model.Registration
		err := tx.Where("candidate_id = ?", c.ID).First(&reg).Error
		if err == gorm.ErrRecordNotFound {
			gate.addReason("no registration on record")
		} else if err != nil {
			return nil, fmt.Errorf("failed to load registration: %w", err)
		} else if !reg.DocumentsVerified {
			gate.addReason("registration documents not verified")
		}
		if err := s.addDocumentReasons(tx, c.ID, model.StatusTraining, now, gate); err != nil {
			return nil, err
		}
		if c.BatchID == nil {
			gate.addReason("candidate not allocated to a batch")
		}

	case model.StatusVisaProcess:
		var training model.Training
		err := tx.Where("candidate_id = ?", c.ID).First(&training).Error
		if err == gorm.ErrRecordNotFound {
			gate.addReason("no training on record")
		} else if err != nil {
			return nil, fmt.Errorf("failed to load training: %w", err)
		} else {
			if training.Status != model.TrainingCompleted {
				gate.addReason("training status is %s", training.Status)
			}
			var assessments []model.TrainingAssessment
			if err := tx.Where("candidate_id = ?", c.ID).Find(&assessments).Error; err != nil {
				return nil, fmt.Errorf("failed to load assessments: %w", err)
			}
			if !model.IsTrainingComplete(assessments, training.BatchID) {
				gate.addReason("missing passing interim and final assessments in current batch")
			}
		}

	case model.StatusReady:
		if err := s.addVisaCompletedReasons(tx, c.ID, gate); err != nil {
			return nil, err
		}
		if err := s.addComplaintReasons(tx, c.ID, gate); err != nil {
			return nil, err
		}

	case model.StatusDeparted:
		var departure model.Departure
		err := tx.Where("candidate_id = ?", c.ID).First(&departure).Error
		if err == gorm.ErrRecordNotFound {
			gate.addReason("no departure record")
		} else if err != nil {
			return nil, fmt.Errorf("failed to load departure: %w", err)
		} else if !departure.HasClearance() {
			gate.addReason("departure clearance incomplete (ticket, protector, PTN)")
		}
		if err := s.addExpiryWindowReasons(tx, c.ID, now, gate); err != nil {
			return nil, err
		}

	case model.StatusCompleted:
		var departure model.Departure
		err := tx.Where("candidate_id = ?", c.ID).First(&departure).Error
		if err == gorm.ErrRecordNotFound {
			gate.addReason("no departure record")
		} else if err != nil {
			return nil, fmt.Errorf("failed to load departure: %w", err)
		} else {
			if departure.Status != model.DepartureDeparted {
				gate.addReason("departure not confirmed")
			}
			if !departure.ArrivalConfirmed {
				gate.addReason("arrival not confirmed")
			}
		}
		var count int64
		if err := tx.Model(&model.PostDeparture{}).Where("candidate_id = ?", c.ID).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to check post-departure record: %w", err)
		}
		if count == 0 {
			gate.addReason("post-departure details not recorded")
		}
	}

	return gate, nil
}

func (s *CandidateService) addDocumentReasons(tx *gorm.DB, candidateID uint, stage model.CandidateStatus, now time.Time, gate *GateResult) error {
	var docs []model.Document
	if err := tx.Where("candidate_id = ?", candidateID).Find(&docs).Error; err != nil {
		return fmt.Errorf("failed to load documents: %w", err)
	}
	check := CheckMandatoryDocuments(docs, stage, now)
	for _, m := range check.Missing {
		gate.addReason("mandatory document missing: %s", m)
	}
	for _, e := range check.Expired {
		gate.addReason("mandatory document expired: %s", e)
	}
	return nil
}

func (s *CandidateService) addVisaCompletedReasons(tx *gorm.DB, candidateID uint, gate *GateResult) error {
	var visa model.VisaProcessing
	err := tx.Where("candidate_id = ?", candidateID).First(&visa).Error
	if err == gorm.ErrRecordNotFound {
		gate.addReason("no visa processing on record")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load visa processing: %w", err)
	}
	if visa.OverallStatus != model.VisaCompleted {
		gate.addReason("visa processing is %s", visa.OverallStatus)
	}
	return nil
}

func (s *CandidateService) addComplaintReasons(tx *gorm.DB, candidateID uint, gate *GateResult) error {
	var count int64
	err := tx.Model(&model.Complaint{}).
		Where("candidate_id = ? AND priority = ? AND status IN ?",
			candidateID, model.PriorityCritical, model.ActiveComplaintStatuses).
		Count(&count).Error
	if err != nil {
		return fmt.Errorf("failed to count complaints: %w", err)
	}
	if count > 0 {
		gate.addReason("%d active critical complaint(s)", count)
	}
	return nil
}

func (s *CandidateService) addExpiryWindowReasons(tx *gorm.DB, candidateID uint, now time.Time, gate *GateResult) error {
	var docs []model.Document
	err := tx.Where("candidate_id = ? AND type IN ? AND expiry_date IS NOT NULL AND expiry_date < ?",
		candidateID, model.CriticalDocumentTypes, now.AddDate(0, 0, s.cfg.DepartureRiskWindowDays)).
		Find(&docs).Error
	if err != nil {
		return fmt.Errorf("failed to query expiring documents: %w", err)
	}
	for _, d := range docs {
		gate.addReason("%s expires on %s (within %d-day risk window)",
			d.Type, d.ExpiryDate.Format("2006-01-02"), s.cfg.DepartureRiskWindowDays)
	}
	return nil
}

// afterTransition creates dependent records that come into existence with the
// new status. Runs inside the transition's transaction.
func (s *CandidateService) afterTransition(tx *gorm.DB, c *model.Candidate, target model.CandidateStatus) error {
	switch target {
	case model.StatusRegistered:
		var count int64
		if err := tx.Model(&model.Registration{}).Where("candidate_id = ?", c.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check registration: %w", err)
		}
		if count == 0 {
			reg := model.Registration{CandidateID: c.ID, RegisteredAt: time.Now()}
			if err := tx.Create(&reg).Error; err != nil {
				return fmt.Errorf("failed to create registration: %w", err)
			}
		}
	case model.StatusTraining:
		var count int64
		if err := tx.Model(&model.Training{}).Where("candidate_id = ?", c.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check training: %w", err)
		}
		if count == 0 && c.BatchID != nil {
			training := model.Training{CandidateID: c.ID, BatchID: *c.BatchID, StartedAt: time.Now()}
			if err := tx.Create(&training).Error; err != nil {
				return fmt.Errorf("failed to create training: %w", err)
			}
		}
	case model.StatusVisaProcess:
		var count int64
		if err := tx.Model(&model.VisaProcessing{}).Where("candidate_id = ?", c.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check visa processing: %w", err)
		}
		if count == 0 {
			visa := model.VisaProcessing{
				CandidateID:   c.ID,
				CurrentStage:  model.VisaStageInterview,
				OverallStatus: model.VisaInProgress,
			}
			if err := tx.Create(&visa).Error; err != nil {
				return fmt.Errorf("failed to create visa processing: %w", err)
			}
		}
	}
	return nil
}

// ListCandidatesOptions filters candidate listings.
type ListCandidatesOptions struct {
	Status   model.CandidateStatus
	CampusID *uint
	OEPID    *uint
	BatchID  *uint
	Limit    int
	Offset   int
}

// ListCandidates returns candidates matching the options plus a total count.
func (s *CandidateService) ListCandidates(ctx context.Context, opts ListCandidatesOptions) ([]model.Candidate, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Candidate{})
	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.CampusID != nil {
		query = query.Where("campus_id = ?", *opts.CampusID)
	}
	if opts.OEPID != nil {
		query = query.Where("oep_id = ?", *opts.OEPID)
	}
	if opts.BatchID != nil {
		query = query.Where("batch_id = ?", *opts.BatchID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count candidates: %w", err)
	}

	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	var candidates []model.Candidate
	err := query.Order("created_at DESC").Limit(opts.Limit).Offset(opts.Offset).Find(&candidates).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list candidates: %w", err)
	}
	return candidates, total, nil
}
