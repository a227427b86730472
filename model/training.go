package model

import (
	"time"

	"gorm.io/gorm"
)

// TrainingStatus represents the state of a candidate's training
type TrainingStatus string

const (
	TrainingInProgress TrainingStatus = "in_progress"
	TrainingCompleted  TrainingStatus = "completed"
	TrainingFailed     TrainingStatus = "failed"
)

// AssessmentType distinguishes interim from final assessments
type AssessmentType string

const (
	AssessmentInterim AssessmentType = "interim"
	AssessmentFinal   AssessmentType = "final"
)

// AssessmentResult is the outcome of a single assessment
type AssessmentResult string

const (
	ResultPass AssessmentResult = "pass"
	ResultFail AssessmentResult = "fail"
)

// Training tracks a candidate's progress through their batch's training.
// Completion requires a passing interim and a passing final assessment, both
// tied to the candidate's current batch.
type Training struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	CandidateID       uint           `gorm:"uniqueIndex;not null" json:"candidate_id"`
	BatchID           uint           `gorm:"not null;index" json:"batch_id"`
	Status            TrainingStatus `gorm:"type:varchar(20);default:'in_progress'" json:"status"`
	StartedAt         time.Time      `json:"started_at"`
	CompletedAt       *time.Time     `json:"completed_at,omitempty"`
	AttendancePercent float64        `gorm:"default:0" json:"attendance_percent"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	Batch     Batch     `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE" json:"batch,omitempty"`
}

// TableName specifies the table name for Training
func (Training) TableName() string {
	return "trainings"
}

// TrainingAssessment is one interim or final assessment of a candidate within
// a batch.
type TrainingAssessment struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	CandidateID uint             `gorm:"not null;index" json:"candidate_id"`
	BatchID     uint             `gorm:"not null;index" json:"batch_id"`
	Type        AssessmentType   `gorm:"type:varchar(10);not null" json:"type"`
	Result      AssessmentResult `gorm:"type:varchar(10);not null" json:"result"`
	Score       float64          `gorm:"default:0" json:"score"`
	AssessedAt  time.Time        `json:"assessed_at"`
	AssessorID  uint             `gorm:"index" json:"assessor_id"`
	Remarks     string           `gorm:"type:text" json:"remarks"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	Batch     Batch     `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE" json:"-"`
	Assessor  User      `gorm:"foreignKey:AssessorID;constraint:OnDelete:SET NULL" json:"assessor,omitempty"`
}

// IsTrainingComplete evaluates the completion rule over a candidate's
// assessments: at least one passing interim and one passing final, both in
// batchID. Out-of-batch records are ignored rather than invalidating.
func IsTrainingComplete(assessments []TrainingAssessment, batchID uint) bool {
	var interimPass, finalPass bool
	for _, a := range assessments {
		if a.BatchID != batchID || a.Result != ResultPass {
			continue
		}
		switch a.Type {
		case AssessmentInterim:
			interimPass = true
		case AssessmentFinal:
			finalPass = true
		}
	}
	return interimPass && finalPass
}

// TableName specifies the table name for TrainingAssessment
func (TrainingAssessment) TableName() string {
	return "training_assessments"
}
