package model

import (
	"time"

	"gorm.io/gorm"
)

// DepartureStatus represents the state of a departure record
type DepartureStatus string

const (
	DepartureScheduled DepartureStatus = "scheduled"
	DepartureDeparted  DepartureStatus = "departed"
)

// Departure is the one-to-one departure record: scheduling, clearance and the
// actual departure/arrival confirmation.
type Departure struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"-"`
	CandidateID      uint            `gorm:"uniqueIndex;not null" json:"candidate_id"`
	Status           DepartureStatus `gorm:"type:varchar(20);default:'scheduled'" json:"status"`
	ScheduledAt      *time.Time      `json:"scheduled_at,omitempty"`
	FlightNumber     string          `gorm:"type:varchar(20)" json:"flight_number"`
	TicketNumber     string          `gorm:"type:varchar(50)" json:"ticket_number"`
	ProtectorNumber  string          `gorm:"type:varchar(50)" json:"protector_number"` // protectorate of emigrants clearance
	ProtectorDate    *time.Time      `json:"protector_date,omitempty"`
	PTNNumber        string          `gorm:"type:varchar(50)" json:"ptn_number"`
	Destination      string          `gorm:"type:varchar(100)" json:"destination"`
	DepartedAt       *time.Time      `json:"departed_at,omitempty"`
	ArrivalConfirmed bool            `gorm:"default:false" json:"arrival_confirmed"`
	ArrivedAt        *time.Time      `json:"arrived_at,omitempty"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasClearance reports whether the clearance fields required before the
// departed transition are all set.
func (d *Departure) HasClearance() bool {
	return d.TicketNumber != "" && d.ProtectorNumber != "" && d.PTNNumber != ""
}

// TableName specifies the table name for Departure
func (Departure) TableName() string {
	return "departures"
}

// PostDeparture captures employment and residency details after arrival in
// the destination country.
type PostDeparture struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	CandidateID     uint           `gorm:"uniqueIndex;not null" json:"candidate_id"`
	EmployerName    string         `gorm:"type:varchar(255)" json:"employer_name"`
	JobTitle        string         `gorm:"type:varchar(100)" json:"job_title"`
	MonthlySalary   float64        `gorm:"default:0" json:"monthly_salary"`
	IqamaNumber     string         `gorm:"type:varchar(50)" json:"iqama_number"`
	ResidencyStatus string         `gorm:"type:varchar(50)" json:"residency_status"`
	ContactNumber   string         `gorm:"type:varchar(20)" json:"contact_number"`
	RecordedAt      time.Time      `json:"recorded_at"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for PostDeparture
func (PostDeparture) TableName() string {
	return "post_departures"
}
