package model

import (
	"time"

	"gorm.io/gorm"
)

// VisaStage is one step of the visa processing sub-pipeline
type VisaStage string

const (
	VisaStageInterview VisaStage = "interview"
	VisaStageTakamol   VisaStage = "takamol"
	VisaStageMedical   VisaStage = "medical"
	VisaStageBiometric VisaStage = "biometric"
	VisaStageENumber   VisaStage = "enumber"
	VisaStageVisa      VisaStage = "visa"
	VisaStagePTN       VisaStage = "ptn"
	VisaStageCompleted VisaStage = "completed"
)

// VisaStageOrder is the fixed order of visa processing stages. Stages only
// ever advance forward, one at a time.
var VisaStageOrder = []VisaStage{
	VisaStageInterview,
	VisaStageTakamol,
	VisaStageMedical,
	VisaStageBiometric,
	VisaStageENumber,
	VisaStageVisa,
	VisaStagePTN,
	VisaStageCompleted,
}

// VisaStageIndex returns the position of stage in the fixed order, or -1 for
// an unknown stage.
func VisaStageIndex(stage VisaStage) int {
	for i, s := range VisaStageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

// NextVisaStage returns the immediate successor of stage and whether one
// exists.
func NextVisaStage(stage VisaStage) (VisaStage, bool) {
	i := VisaStageIndex(stage)
	if i < 0 || i >= len(VisaStageOrder)-1 {
		return "", false
	}
	return VisaStageOrder[i+1], true
}

// VisaOverallStatus is the aggregate status of a visa process
type VisaOverallStatus string

const (
	VisaInProgress VisaOverallStatus = "in_progress"
	VisaOnHold     VisaOverallStatus = "on_hold"
	VisaCompleted  VisaOverallStatus = "completed"
	VisaRejected   VisaOverallStatus = "rejected"
)

// Per-stage status values. Medical uses fit/unfit; the other stages use
// passed/failed.
const (
	StageStatusPassed  = "passed"
	StageStatusFailed  = "failed"
	MedicalStatusFit   = "fit"
	MedicalStatusUnfit = "unfit"
)

// StageOutcomeFailed reports whether a per-stage status value is a failing
// outcome for that stage.
func StageOutcomeFailed(stage VisaStage, status string) bool {
	if stage == VisaStageMedical {
		return status == MedicalStatusUnfit || status == StageStatusFailed
	}
	return status == StageStatusFailed
}

// VisaProcessing is the one-to-one visa sub-state-machine record for a
// candidate. CurrentStage only moves forward; OverallStatus becomes completed
// only at the terminal stage, and rejected/completed are terminal.
type VisaProcessing struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	DeletedAt     gorm.DeletedAt    `gorm:"index" json:"-"`
	CandidateID   uint              `gorm:"uniqueIndex;not null" json:"candidate_id"`
	CurrentStage  VisaStage         `gorm:"type:varchar(20);default:'interview'" json:"current_stage"`
	OverallStatus VisaOverallStatus `gorm:"type:varchar(20);default:'in_progress'" json:"overall_status"`
	HoldReason    string            `gorm:"type:text" json:"hold_reason,omitempty"`

	// Per-stage fields, each recorded independently as its stage is reached
	InterviewStatus string     `gorm:"type:varchar(20)" json:"interview_status,omitempty"`
	InterviewDate   *time.Time `json:"interview_date,omitempty"`
	TakamolStatus   string     `gorm:"type:varchar(20)" json:"takamol_status,omitempty"`
	TakamolRef      string     `gorm:"type:varchar(50)" json:"takamol_ref,omitempty"`
	MedicalStatus   string     `gorm:"type:varchar(20)" json:"medical_status,omitempty"`
	MedicalDate     *time.Time `json:"medical_date,omitempty"`
	BiometricStatus string     `gorm:"type:varchar(20)" json:"biometric_status,omitempty"`
	BiometricDate   *time.Time `json:"biometric_date,omitempty"`
	ENumber         string     `gorm:"type:varchar(50)" json:"enumber,omitempty"`
	ENumberStatus   string     `gorm:"type:varchar(20)" json:"enumber_status,omitempty"`
	VisaNumber      string     `gorm:"type:varchar(50)" json:"visa_number,omitempty"`
	VisaStatus      string     `gorm:"type:varchar(20)" json:"visa_status,omitempty"`
	PTNNumber       string     `gorm:"type:varchar(50)" json:"ptn_number,omitempty"`
	PTNStatus       string     `gorm:"type:varchar(20)" json:"ptn_status,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsTerminal reports whether the process can no longer advance.
func (v *VisaProcessing) IsTerminal() bool {
	return v.OverallStatus == VisaCompleted || v.OverallStatus == VisaRejected
}

// TableName specifies the table name for VisaProcessing
func (VisaProcessing) TableName() string {
	return "visa_processings"
}
