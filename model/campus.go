package model

import (
	"time"

	"gorm.io/gorm"
)

// Campus represents a training campus (e.g., ISB for Islamabad)
type Campus struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Code      string         `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"` // e.g., "ISB", "LHR"
	City      string         `gorm:"type:varchar(100)" json:"city"`
	Address   string         `gorm:"type:text" json:"address"`

	// Relationships
	Batches    []Batch     `gorm:"foreignKey:CampusID;constraint:OnDelete:CASCADE" json:"batches,omitempty"`
	Candidates []Candidate `gorm:"foreignKey:CampusID" json:"-"`
}

// Program represents an employment program (e.g., TEC for technical workers)
type Program struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	Name        string         `gorm:"not null" json:"name"`
	Code        string         `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"` // e.g., "TEC", "DOM"
	Description string         `gorm:"type:text" json:"description"`
	Country     string         `gorm:"type:varchar(100)" json:"country"` // destination country

	// Relationships
	Batches []Batch `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"batches,omitempty"`
}

// Trade represents a vocational trade within a program (e.g., WLD for welder)
type Trade struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null" json:"name"`
	Code      string         `gorm:"type:varchar(10);uniqueIndex;not null" json:"code"` // e.g., "WLD", "ELC"

	// Relationships
	Batches []Batch `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE" json:"batches,omitempty"`
}

// OEP represents a licensed Overseas Employment Promoter handling visa
// processing and placement for its assigned candidates.
type OEP struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"not null" json:"name"`
	LicenseNumber string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"license_number"`
	ContactPerson string         `gorm:"type:varchar(255)" json:"contact_person"`
	Phone         string         `gorm:"type:varchar(20)" json:"phone"`
	Email         string         `gorm:"type:varchar(255)" json:"email"`

	// Relationships
	Candidates []Candidate `gorm:"foreignKey:OEPID" json:"-"`
}
