package model

import (
	"time"

	"gorm.io/gorm"
)

// Remittance is a money transfer recorded for a departed candidate.
type Remittance struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CandidateID uint           `gorm:"not null;index" json:"candidate_id"`
	Amount      float64        `gorm:"not null" json:"amount"`
	Currency    string         `gorm:"type:varchar(3);default:'PKR'" json:"currency"`
	Channel     string         `gorm:"type:varchar(50)" json:"channel"` // bank, exchange house, ...
	Reference   string         `gorm:"type:varchar(64);uniqueIndex;not null" json:"reference"`
	SentAt      time.Time      `json:"sent_at"`
	ReceivedBy  string         `gorm:"type:varchar(255)" json:"received_by"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Remittance
func (Remittance) TableName() string {
	return "remittances"
}
