package model

import (
	"time"

	"gorm.io/gorm"
)

// CandidateStatus represents where a candidate currently sits in the pipeline
type CandidateStatus string

const (
	StatusNew         CandidateStatus = "new"
	StatusScreening   CandidateStatus = "screening"
	StatusRegistered  CandidateStatus = "registered"
	StatusTraining    CandidateStatus = "training"
	StatusVisaProcess CandidateStatus = "visa_process"
	StatusReady       CandidateStatus = "ready"
	StatusDeparted    CandidateStatus = "departed"
	StatusCompleted   CandidateStatus = "completed"
	StatusRejected    CandidateStatus = "rejected"
	StatusDropped     CandidateStatus = "dropped"
)

// PipelinePath is the forward path through the pipeline, in order.
// Rejected/dropped are escape states and are not part of the path.
var PipelinePath = []CandidateStatus{
	StatusNew,
	StatusScreening,
	StatusRegistered,
	StatusTraining,
	StatusVisaProcess,
	StatusReady,
	StatusDeparted,
	StatusCompleted,
}

// statusTransitions maps each status to its direct successors. Escape states
// (rejected, dropped) are handled separately since they are reachable from
// every non-terminal status.
var statusTransitions = map[CandidateStatus][]CandidateStatus{
	StatusNew:         {StatusScreening},
	StatusScreening:   {StatusRegistered},
	StatusRegistered:  {StatusTraining},
	StatusTraining:    {StatusVisaProcess},
	StatusVisaProcess: {StatusReady},
	StatusReady:       {StatusDeparted},
	StatusDeparted:    {StatusCompleted},
	StatusCompleted:   {},
	StatusRejected:    {},
	StatusDropped:     {},
}

// IsValidStatus reports whether s is one of the defined pipeline statuses.
func IsValidStatus(s CandidateStatus) bool {
	_, ok := statusTransitions[s]
	return ok
}

// IsTerminalStatus reports whether no further transition is possible from s.
func IsTerminalStatus(s CandidateStatus) bool {
	return s == StatusCompleted || s == StatusRejected || s == StatusDropped
}

// IsEscapeStatus reports whether s is a universal escape state.
func IsEscapeStatus(s CandidateStatus) bool {
	return s == StatusRejected || s == StatusDropped
}

// CanTransition reports whether target is reachable from current in a single
// step: either a direct successor, or an escape state from any non-terminal
// status.
func CanTransition(current, target CandidateStatus) bool {
	if !IsValidStatus(current) || !IsValidStatus(target) {
		return false
	}
	if IsEscapeStatus(target) {
		return !IsTerminalStatus(current)
	}
	for _, next := range statusTransitions[current] {
		if next == target {
			return true
		}
	}
	return false
}

// StatusIndex returns the position of s on the forward path, or -1 for the
// escape states.
func StatusIndex(s CandidateStatus) int {
	for i, st := range PipelinePath {
		if st == s {
			return i
		}
	}
	return -1
}

// Candidate represents a migrant-worker candidate moving through the
// overseas-employment pipeline. The status column is written exclusively by
// the candidate service's Transition; everything else only reads it.
type Candidate struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `gorm:"index" json:"-"`
	Name            string          `gorm:"not null" json:"name"`
	FatherName      string          `gorm:"type:varchar(255)" json:"father_name"`
	CNIC            string          `gorm:"type:varchar(15);uniqueIndex;not null" json:"cnic"`
	PassportNumber  string          `gorm:"type:varchar(20)" json:"passport_number"`
	Phone           string          `gorm:"type:varchar(20)" json:"phone"`
	Email           string          `gorm:"type:varchar(255)" json:"email"`
	DateOfBirth     *time.Time      `json:"date_of_birth,omitempty"`
	Status          CandidateStatus `gorm:"type:varchar(20);default:'new';index" json:"status"`
	CampusID        *uint           `gorm:"index" json:"campus_id,omitempty"`
	ProgramID       *uint           `gorm:"index" json:"program_id,omitempty"`
	TradeID         *uint           `gorm:"index" json:"trade_id,omitempty"`
	BatchID         *uint           `gorm:"index" json:"batch_id,omitempty"` // set only once allocated
	OEPID           *uint           `gorm:"index" json:"oep_id,omitempty"`
	AllocatedNumber string          `gorm:"type:varchar(30)" json:"allocated_number,omitempty"`

	// Relationships
	Campus         *Campus               `gorm:"foreignKey:CampusID;constraint:OnDelete:SET NULL" json:"campus,omitempty"`
	Program        *Program              `gorm:"foreignKey:ProgramID;constraint:OnDelete:SET NULL" json:"program,omitempty"`
	Trade          *Trade                `gorm:"foreignKey:TradeID;constraint:OnDelete:SET NULL" json:"trade,omitempty"`
	Batch          *Batch                `gorm:"foreignKey:BatchID;constraint:OnDelete:SET NULL" json:"batch,omitempty"`
	OEP            *OEP                  `gorm:"foreignKey:OEPID;constraint:OnDelete:SET NULL" json:"oep,omitempty"`
	Screenings     []Screening           `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"screenings,omitempty"`
	Registration   *Registration         `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"registration,omitempty"`
	Documents      []Document            `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"documents,omitempty"`
	Training       *Training             `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"training,omitempty"`
	Assessments    []TrainingAssessment  `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"assessments,omitempty"`
	VisaProcessing *VisaProcessing       `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"visa_processing,omitempty"`
	Departure      *Departure            `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"departure,omitempty"`
	PostDeparture  *PostDeparture        `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"post_departure,omitempty"`
	Complaints     []Complaint           `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"complaints,omitempty"`
	Remittances    []Remittance          `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"remittances,omitempty"`
	TransitionLogs []StatusTransitionLog `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Candidate
func (Candidate) TableName() string {
	return "candidates"
}
