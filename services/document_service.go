package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/waslhq/wasl-api/model"
	"github.com/waslhq/wasl-api/services/storage"
	"github.com/waslhq/wasl-api/utils/pdfvalidation"
	"gorm.io/gorm"
)

// DocumentService is the document registry: uploads, mandatory-document gate
// checks and expiry queries.
type DocumentService struct {
	db     *gorm.DB
	spaces *storage.SpacesClient // nil when object storage is not configured
}

// NewDocumentService creates a new document service
func NewDocumentService(db *gorm.DB, spaces *storage.SpacesClient) *DocumentService {
	return &DocumentService{db: db, spaces: spaces}
}

// DocumentCheck is the structured result of a mandatory-document gate check.
type DocumentCheck struct {
	Satisfied bool                 `json:"satisfied"`
	Missing   []model.DocumentType `json:"missing,omitempty"`
	Expired   []model.DocumentType `json:"expired,omitempty"`
}

// CheckMandatoryDocuments evaluates the mandatory set for stage over the
// given documents. A document past its expiry date counts as expired even if
// its stored status flag still says active; the flag can lag behind the sweep.
func CheckMandatoryDocuments(docs []model.Document, stage model.CandidateStatus, now time.Time) DocumentCheck {
	check := DocumentCheck{Satisfied: true}

	byType := make(map[model.DocumentType][]model.Document)
	for _, d := range docs {
		byType[d.Type] = append(byType[d.Type], d)
	}

	for _, required := range model.MandatoryDocuments(stage) {
		candidates, ok := byType[required]
		if !ok {
			check.Satisfied = false
			check.Missing = append(check.Missing, required)
			continue
		}
		valid := false
		for i := range candidates {
			if !candidates[i].IsExpired(now) {
				valid = true
				break
			}
		}
		if !valid {
			check.Satisfied = false
			check.Expired = append(check.Expired, required)
		}
	}

	return check
}

// GetDocument fetches a single document by ID.
func (s *DocumentService) GetDocument(ctx context.Context, id uint) (*model.Document, error) {
	var doc model.Document
	if err := s.db.WithContext(ctx).First(&doc, id).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch document %d: %w", id, err)
	}
	return &doc, nil
}

// HasAllMandatoryDocuments runs the gate check against the candidate's
// registry for the given stage.
func (s *DocumentService) HasAllMandatoryDocuments(ctx context.Context, candidateID uint, stage model.CandidateStatus) (*DocumentCheck, error) {
	var docs []model.Document
	if err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).Find(&docs).Error; err != nil {
		return nil, fmt.Errorf("failed to load documents: %w", err)
	}
	check := CheckMandatoryDocuments(docs, stage, time.Now())
	return &check, nil
}

// ExpiringWithin returns the candidate's critical documents that expire
// within the next `days` days. Used by the departure gate and the renewal
// notice sweep.
func (s *DocumentService) ExpiringWithin(ctx context.Context, candidateID uint, days int) ([]model.Document, error) {
	var docs []model.Document
	err := s.db.WithContext(ctx).
		Where("candidate_id = ? AND type IN ? AND expiry_date IS NOT NULL AND expiry_date < ?",
			candidateID, model.CriticalDocumentTypes, time.Now().AddDate(0, 0, days)).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query expiring documents: %w", err)
	}
	return docs, nil
}

// UploadDocumentRequest carries a document upload.
type UploadDocumentRequest struct {
	CandidateID uint
	Category    model.DocumentCategory
	Type        model.DocumentType
	Number      string
	IssueDate   *time.Time
	ExpiryDate  *time.Time
	Filename    string
	Content     []byte
	UploadedBy  uint
}

// UploadDocument validates the file, stores it in object storage and records
// the registry row. Only the storage key/URL is persisted here.
func (s *DocumentService) UploadDocument(ctx context.Context, req UploadDocumentRequest) (*model.Document, error) {
	var candidate model.Candidate
	if err := s.db.WithContext(ctx).First(&candidate, req.CandidateID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCandidateNotFound
		}
		return nil, fmt.Errorf("failed to load candidate: %w", err)
	}
	if model.IsTerminalStatus(candidate.Status) && candidate.Status != model.StatusCompleted {
		return nil, &InvalidTransitionError{From: candidate.Status, To: candidate.Status}
	}

	pageCount := 0
	if filepath.Ext(req.Filename) == ".pdf" {
		validation := pdfvalidation.ValidatePDF(req.Content)
		if !validation.Valid {
			return nil, fmt.Errorf("invalid PDF upload: %s", validation.Reason)
		}
		pageCount = validation.PageCount
	}

	doc := &model.Document{
		CandidateID:  req.CandidateID,
		Category:     req.Category,
		Type:         req.Type,
		Number:       req.Number,
		IssueDate:    req.IssueDate,
		ExpiryDate:   req.ExpiryDate,
		Status:       model.DocumentStatusActive,
		Filename:     req.Filename,
		FileSize:     int64(len(req.Content)),
		PageCount:    pageCount,
		UploadedByID: req.UploadedBy,
	}

	if s.spaces != nil {
		key := fmt.Sprintf("candidates/%d/documents/%s-%s%s",
			req.CandidateID, req.Type, uuid.New().String(), filepath.Ext(req.Filename))
		url, err := s.spaces.Upload(ctx, key, req.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to store document: %w", err)
		}
		doc.StorageKey = key
		doc.StorageURL = url
	}

	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to record document: %w", err)
	}
	return doc, nil
}

// RenewDocument pushes a document's expiry forward, re-activating it.
func (s *DocumentService) RenewDocument(ctx context.Context, documentID uint, newExpiry time.Time) (*model.Document, error) {
	var doc model.Document
	if err := s.db.WithContext(ctx).First(&doc, documentID).Error; err != nil {
		return nil, fmt.Errorf("document not found: %w", err)
	}

	updates := map[string]interface{}{
		"expiry_date": newExpiry,
		"status":      model.DocumentStatusExpired,
	}
	if newExpiry.After(time.Now()) {
		updates["status"] = model.DocumentStatusActive
	}
	if err := s.db.WithContext(ctx).Model(&doc).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to renew document: %w", err)
	}
	return &doc, nil
}

// ListByCandidate returns the candidate's document registry.
func (s *DocumentService) ListByCandidate(ctx context.Context, candidateID uint) ([]model.Document, error) {
	var docs []model.Document
	err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).
		Order("created_at DESC").Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return docs, nil
}

// VerifyRegistrationDocuments marks the candidate's registration as
// documents-verified, which is only possible while no mandatory document for
// the training stage is missing or expired.
func (s *DocumentService) VerifyRegistrationDocuments(ctx context.Context, candidateID, verifierID uint) (*model.Registration, error) {
	check, err := s.HasAllMandatoryDocuments(ctx, candidateID, model.StatusTraining)
	if err != nil {
		return nil, err
	}
	if !check.Satisfied {
		gate := GateResult{}
		for _, m := range check.Missing {
			gate.addReason("mandatory document missing: %s", m)
		}
		for _, e := range check.Expired {
			gate.addReason("mandatory document expired: %s", e)
		}
		return nil, &GateNotSatisfiedError{Target: model.StatusTraining, Reasons: gate.Reasons}
	}

	var reg model.Registration
	if err := s.db.WithContext(ctx).Where("candidate_id = ?", candidateID).First(&reg).Error; err != nil {
		return nil, fmt.Errorf("registration not found: %w", err)
	}

	now := time.Now()
	updates := map[string]interface{}{
		"documents_verified": true,
		"verified_at":        now,
		"verified_by":        verifierID,
	}
	if err := s.db.WithContext(ctx).Model(&reg).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to verify registration documents: %w", err)
	}
	return &reg, nil
}
