package services

import (
	"context"
	"fmt"
	"time"

	"github.com/waslhq/wasl-api/config"
	"github.com/waslhq/wasl-api/model"
	"gorm.io/gorm"
)

// DepartureService handles departure scheduling, the pre-departure gate, and
// post-departure detail capture.
type DepartureService struct {
	db         *gorm.DB
	cfg        config.PipelineConfig
	candidates *CandidateService
	documents  *DocumentService
	complaints *ComplaintService
}

// NewDepartureService creates a new departure service
func NewDepartureService(db *gorm.DB, cfg config.PipelineConfig, candidates *CandidateService, documents *DocumentService, complaints *ComplaintService) *DepartureService {
	return &DepartureService{db: db, cfg: cfg, candidates: candidates, documents: documents, complaints: complaints}
}

// DepartureCheck is the structured result of the pre-departure gate.
type DepartureCheck struct {
	Allowed bool     `json:"allowed"`
	Reasons []string `json:"reasons,omitempty"`
}

// CanDepart combines the departure preconditions: completed visa processing,
// no critical document expiring within the risk window, and no active
// critical complaint.
func (s *DepartureService) CanDepart(ctx context.Context, candidateID uint) (*DepartureCheck, error) {
	check := &DepartureCheck{Allowed: true}

	var visa model.VisaProcessing
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&visa).Error
	switch {
	case err == gorm.ErrRecordNotFound:
		check.Allowed = false
		check.Reasons = append(check.Reasons, "no visa processing on record")
	case err != nil:
		return nil, fmt.Errorf("failed to load visa processing: %w", err)
	case visa.OverallStatus != model.VisaCompleted:
		check.Allowed = false
		check.Reasons = append(check.Reasons, fmt.Sprintf("visa processing is %s", visa.OverallStatus))
	}

	expiring, err := s.documents.ExpiringWithin(ctx, candidateID, s.cfg.DepartureRiskWindowDays)
	if err != nil {
		return nil, err
	}
	for _, d := range expiring {
		check.Allowed = false
		check.Reasons = append(check.Reasons,
			fmt.Sprintf("%s expires on %s (within %d-day risk window)",
				d.Type, d.ExpiryDate.Format("2006-01-02"), s.cfg.DepartureRiskWindowDays))
	}

	critical, err := s.complaints.ActiveCriticalComplaintCount(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if critical > 0 {
		check.Allowed = false
		check.Reasons = append(check.Reasons, fmt.Sprintf("%d active critical complaint(s)", critical))
	}

	return check, nil
}

// ScheduleDepartureRequest carries departure scheduling and clearance fields.
type ScheduleDepartureRequest struct {
	CandidateID     uint       `json:"candidate_id" validate:"required"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	FlightNumber    string     `json:"flight_number"`
	TicketNumber    string     `json:"ticket_number"`
	ProtectorNumber string     `json:"protector_number"`
	ProtectorDate   *time.Time `json:"protector_date"`
	PTNNumber       string     `json:"ptn_number"`
	Destination     string     `json:"destination"`
}

// ScheduleDeparture creates or updates the candidate's departure record.
// Only candidates at ready may be scheduled.
func (s *DepartureService) ScheduleDeparture(ctx context.Context, req ScheduleDepartureRequest) (*model.Departure, error) {
	candidate, err := s.candidates.GetCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Status != model.StatusReady {
		return nil, &InvalidTransitionError{From: candidate.Status, To: model.StatusDeparted}
	}

	var departure model.Departure
	err = s.db.WithContext(ctx).Where("candidate_id = ?", req.CandidateID).First(&departure).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to load departure: %w", err)
	}

	departure.CandidateID = req.CandidateID
	departure.Status = model.DepartureScheduled
	departure.ScheduledAt = req.ScheduledAt
	departure.FlightNumber = req.FlightNumber
	departure.TicketNumber = req.TicketNumber
	departure.ProtectorNumber = req.ProtectorNumber
	departure.ProtectorDate = req.ProtectorDate
	departure.PTNNumber = req.PTNNumber
	departure.Destination = req.Destination

	if err := s.db.WithContext(ctx).Save(&departure).Error; err != nil {
		return nil, fmt.Errorf("failed to schedule departure: %w", err)
	}
	return &departure, nil
}

// RecordDeparture confirms the actual departure. The gate re-runs via the
// orchestrator's departed transition, then the departure record is stamped.
func (s *DepartureService) RecordDeparture(ctx context.Context, candidateID uint, departedAt time.Time, actorID uint) (*model.Departure, error) {
	check, err := s.CanDepart(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	if !check.Allowed {
		return nil, &GateNotSatisfiedError{Target: model.StatusDeparted, Reasons: check.Reasons}
	}

	if _, err := s.candidates.Transition(ctx, candidateID, model.StatusDeparted, actorID, "departure confirmed"); err != nil {
		return nil, err
	}

	var departure model.Departure
	if err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&departure).Error; err != nil {
		return nil, fmt.Errorf("failed to load departure: %w", err)
	}
	err = s.db.WithContext(ctx).Model(&departure).Updates(map[string]interface{}{
		"status":      model.DepartureDeparted,
		"departed_at": departedAt,
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to record departure: %w", err)
	}

	departure.Status = model.DepartureDeparted
	departure.DepartedAt = &departedAt
	return &departure, nil
}

// ConfirmArrival marks the candidate as arrived in the destination country.
func (s *DepartureService) ConfirmArrival(ctx context.Context, candidateID uint, arrivedAt time.Time) error {
	result := s.db.WithContext(ctx).Model(&model.Departure{}).
		Where("candidate_id = ? AND status = ?", candidateID, model.DepartureDeparted).
		Updates(map[string]interface{}{
			"arrival_confirmed": true,
			"arrived_at":        arrivedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to confirm arrival: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("no departed record for candidate %d", candidateID)
	}
	return nil
}

// PostDepartureRequest carries post-arrival employment/residency details.
type PostDepartureRequest struct {
	CandidateID     uint    `json:"candidate_id" validate:"required"`
	EmployerName    string  `json:"employer_name" validate:"required"`
	JobTitle        string  `json:"job_title"`
	MonthlySalary   float64 `json:"monthly_salary"`
	IqamaNumber     string  `json:"iqama_number"`
	ResidencyStatus string  `json:"residency_status"`
	ContactNumber   string  `json:"contact_number"`
}

// RecordPostDeparture captures post-arrival details and, once arrival is
// confirmed, moves the candidate to completed through the orchestrator.
func (s *DepartureService) RecordPostDeparture(ctx context.Context, req PostDepartureRequest, actorID uint) (*model.PostDeparture, error) {
	candidate, err := s.candidates.GetCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Status != model.StatusDeparted {
		return nil, &InvalidTransitionError{From: candidate.Status, To: model.StatusCompleted}
	}

	record := &model.PostDeparture{
		CandidateID:     req.CandidateID,
		EmployerName:    req.EmployerName,
		JobTitle:        req.JobTitle,
		MonthlySalary:   req.MonthlySalary,
		IqamaNumber:     req.IqamaNumber,
		ResidencyStatus: req.ResidencyStatus,
		ContactNumber:   req.ContactNumber,
		RecordedAt:      time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to record post-departure details: %w", err)
	}

	if _, err := s.candidates.Transition(ctx, req.CandidateID, model.StatusCompleted, actorID, "post-departure details recorded"); err != nil {
		// The completed gate also requires arrival confirmation; leave the
		// candidate at departed until it is confirmed.
		if _, ok := err.(*GateNotSatisfiedError); !ok {
			return nil, err
		}
	}
	return record, nil
}

// RecordRemittanceRequest captures a money transfer for a departed candidate.
type RecordRemittanceRequest struct {
	CandidateID uint       `json:"candidate_id" validate:"required"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	Currency    string     `json:"currency"`
	Channel     string     `json:"channel"`
	Reference   string     `json:"reference" validate:"required"`
	SentAt      *time.Time `json:"sent_at"`
	ReceivedBy  string     `json:"received_by"`
}

// RecordRemittance records a remittance. Only candidates who have departed
// (or completed) can have remittances.
func (s *DepartureService) RecordRemittance(ctx context.Context, req RecordRemittanceRequest) (*model.Remittance, error) {
	candidate, err := s.candidates.GetCandidate(ctx, req.CandidateID)
	if err != nil {
		return nil, err
	}
	if candidate.Status != model.StatusDeparted && candidate.Status != model.StatusCompleted {
		return nil, fmt.Errorf("cannot record remittance: candidate %d has not departed", req.CandidateID)
	}

	sentAt := time.Now()
	if req.SentAt != nil {
		sentAt = *req.SentAt
	}
	currency := req.Currency
	if currency == "" {
		currency = "PKR"
	}

	remittance := &model.Remittance{
		CandidateID: req.CandidateID,
		Amount:      req.Amount,
		Currency:    currency,
		Channel:     req.Channel,
		Reference:   req.Reference,
		SentAt:      sentAt,
		ReceivedBy:  req.ReceivedBy,
	}
	if err := s.db.WithContext(ctx).Create(remittance).Error; err != nil {
		return nil, fmt.Errorf("failed to record remittance: %w", err)
	}
	return remittance, nil
}

// ListRemittances returns a candidate's remittances, newest first.
func (s *DepartureService) ListRemittances(ctx context.Context, candidateID uint) ([]model.Remittance, float64, error) {
	var remittances []model.Remittance
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).
		Order("sent_at DESC").Find(&remittances).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list remittances: %w", err)
	}
	var total float64
	for i := range remittances {
		total += remittances[i].Amount
	}
	return remittances, total, nil
}

// GetDeparture loads the candidate's departure and post-departure records.
func (s *DepartureService) GetDeparture(ctx context.Context, candidateID uint) (*model.Departure, *model.PostDeparture, error) {
	var departure model.Departure
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&departure).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, fmt.Errorf("no departure record for candidate %d", candidateID)
		}
		return nil, nil, fmt.Errorf("failed to load departure: %w", err)
	}

	var post model.PostDeparture
	err = s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&post).Error
	if err == gorm.ErrRecordNotFound {
		return &departure, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load post-departure record: %w", err)
	}
	return &departure, &post, nil
}
