package model

import (
	"time"

	"gorm.io/gorm"
)

// DocumentType represents the type of document held by a candidate
type DocumentType string

const (
	DocumentTypePassport       DocumentType = "passport"
	DocumentTypeCNIC           DocumentType = "cnic"
	DocumentTypeMedical        DocumentType = "medical_certificate"
	DocumentTypePoliceClear    DocumentType = "police_clearance"
	DocumentTypeEducation      DocumentType = "education_certificate"
	DocumentTypeDomicile       DocumentType = "domicile"
	DocumentTypePhotograph     DocumentType = "photograph"
	DocumentTypeExperienceCert DocumentType = "experience_certificate"
)

// DocumentCategory groups document types for listings
type DocumentCategory string

const (
	DocumentCategoryIdentity  DocumentCategory = "identity"
	DocumentCategoryMedical   DocumentCategory = "medical"
	DocumentCategoryClearance DocumentCategory = "clearance"
	DocumentCategoryEducation DocumentCategory = "education"
)

// DocumentStatus is the stored validity flag. Expiry dates are authoritative:
// a document past its expiry date blocks gates even while the flag still says
// active (the flag is synced by a background sweep, so it can lag).
type DocumentStatus string

const (
	DocumentStatusActive  DocumentStatus = "active"
	DocumentStatusExpired DocumentStatus = "expired"
)

// mandatoryByStage lists the document types that must be present and
// non-expired before a candidate may enter the given status.
var mandatoryByStage = map[CandidateStatus][]DocumentType{
	StatusRegistered:  {DocumentTypePassport, DocumentTypeCNIC},
	StatusTraining:    {DocumentTypePassport, DocumentTypeCNIC, DocumentTypeMedical, DocumentTypePoliceClear},
	StatusVisaProcess: {DocumentTypePassport, DocumentTypeCNIC, DocumentTypeMedical, DocumentTypePoliceClear, DocumentTypeEducation},
}

// CriticalDocumentTypes are the documents whose imminent expiry blocks
// departure within the configured risk window.
var CriticalDocumentTypes = []DocumentType{
	DocumentTypePassport,
	DocumentTypeMedical,
}

// MandatoryDocuments returns the mandatory document types for entering stage,
// or nil when the stage has no document requirement.
func MandatoryDocuments(stage CandidateStatus) []DocumentType {
	return mandatoryByStage[stage]
}

// Document is an uploaded document in a candidate's registry. Only the
// storage key/URL is kept here; the file itself lives in object storage.
type Document struct {
	ID           uint             `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
	DeletedAt    gorm.DeletedAt   `gorm:"index" json:"-"`
	CandidateID  uint             `gorm:"not null;index" json:"candidate_id"`
	Category     DocumentCategory `gorm:"type:varchar(20)" json:"category"`
	Type         DocumentType     `gorm:"type:varchar(30);not null;index" json:"type"`
	Number       string           `gorm:"type:varchar(50)" json:"number"` // passport no, certificate no, ...
	IssueDate    *time.Time       `json:"issue_date,omitempty"`
	ExpiryDate   *time.Time       `json:"expiry_date,omitempty"`
	Status       DocumentStatus   `gorm:"type:varchar(10);default:'active'" json:"status"`
	Filename     string           `gorm:"not null" json:"filename"`
	StorageKey   string           `gorm:"type:varchar(500)" json:"storage_key"`
	StorageURL   string           `gorm:"type:text" json:"storage_url"`
	FileSize     int64            `gorm:"default:0" json:"file_size"`
	PageCount    int              `gorm:"default:0" json:"page_count"`
	UploadedByID uint             `gorm:"index" json:"uploaded_by_id"`

	// Relationships
	Candidate  Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	UploadedBy User      `gorm:"foreignKey:UploadedByID;constraint:OnDelete:SET NULL" json:"uploaded_by,omitempty"`
}

// IsExpired reports whether the document's expiry date has passed, regardless
// of the stored status flag.
func (d *Document) IsExpired(now time.Time) bool {
	if d.ExpiryDate == nil {
		return d.Status == DocumentStatusExpired
	}
	return d.ExpiryDate.Before(now)
}

// ExpiresWithin reports whether the document expires inside the next `days`
// days. Documents with no expiry date never expire.
func (d *Document) ExpiresWithin(now time.Time, days int) bool {
	if d.ExpiryDate == nil {
		return false
	}
	return d.ExpiryDate.Before(now.AddDate(0, 0, days))
}

// TableName specifies the table name for Document
func (Document) TableName() string {
	return "documents"
}
