package model

import (
	"time"

	"gorm.io/gorm"
)

// ScreeningOutcome is the eligibility verdict of a screening evaluation
type ScreeningOutcome string

const (
	OutcomeEligible   ScreeningOutcome = "eligible"
	OutcomeIneligible ScreeningOutcome = "ineligible"
)

// ScreeningStatus tracks whether an evaluation has been finalized
type ScreeningStatus string

const (
	ScreeningPending   ScreeningStatus = "pending"
	ScreeningCompleted ScreeningStatus = "completed"
)

// Screening is one screening evaluation of a candidate. A candidate cannot
// reach registered without a completed screening with an eligible outcome;
// the latest completed screening is authoritative.
type Screening struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	CandidateID uint             `gorm:"not null;index" json:"candidate_id"`
	Outcome     ScreeningOutcome `gorm:"type:varchar(20)" json:"outcome"`
	Status      ScreeningStatus  `gorm:"type:varchar(20);default:'pending'" json:"status"`
	Remarks     string           `gorm:"type:text" json:"remarks"`
	ScreenedBy  uint             `gorm:"index" json:"screened_by"`
	ScreenedAt  *time.Time       `json:"screened_at,omitempty"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	Screener  User      `gorm:"foreignKey:ScreenedBy;constraint:OnDelete:SET NULL" json:"screener,omitempty"`
}

// IsEligiblePass reports whether this screening satisfies the registration gate.
func (s *Screening) IsEligiblePass() bool {
	return s.Status == ScreeningCompleted && s.Outcome == OutcomeEligible
}

// TableName specifies the table name for Screening
func (Screening) TableName() string {
	return "screenings"
}

// Registration is the one-to-one registration record created once a candidate
// passes screening. DocumentsVerified may only be set while no mandatory
// document is missing or expired.
type Registration struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	CandidateID       uint           `gorm:"uniqueIndex;not null" json:"candidate_id"`
	DocumentsVerified bool           `gorm:"default:false" json:"documents_verified"`
	VerifiedAt        *time.Time     `json:"verified_at,omitempty"`
	VerifiedBy        *uint          `json:"verified_by,omitempty"`
	RegisteredAt      time.Time      `json:"registered_at"`
	Remarks           string         `gorm:"type:text" json:"remarks"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Registration
func (Registration) TableName() string {
	return "registrations"
}
