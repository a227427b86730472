package model

import (
	"time"

	"gorm.io/gorm"
)

// ComplaintPriority represents the severity of a complaint
type ComplaintPriority string

const (
	PriorityLow      ComplaintPriority = "low"
	PriorityMedium   ComplaintPriority = "medium"
	PriorityHigh     ComplaintPriority = "high"
	PriorityCritical ComplaintPriority = "critical"
)

// ComplaintStatus represents the handling state of a complaint
type ComplaintStatus string

const (
	ComplaintOpen          ComplaintStatus = "open"
	ComplaintAssigned      ComplaintStatus = "assigned"
	ComplaintInvestigating ComplaintStatus = "investigating"
	ComplaintResolved      ComplaintStatus = "resolved"
	ComplaintClosed        ComplaintStatus = "closed"
)

// MaxEscalationLevel caps complaint escalation; going beyond requires manual
// intervention outside the system.
const MaxEscalationLevel = 3

// DefaultSLADays is applied when a complaint is filed without an explicit SLA.
const DefaultSLADays = 7

// Complaint is a grievance filed against or on behalf of a candidate. An
// active critical complaint forces the candidate's visa process on hold.
type Complaint struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	DeletedAt       gorm.DeletedAt    `gorm:"index" json:"-"`
	CandidateID     uint              `gorm:"not null;index" json:"candidate_id"`
	Subject         string            `gorm:"not null" json:"subject"`
	Description     string            `gorm:"type:text" json:"description"`
	Priority        ComplaintPriority `gorm:"type:varchar(10);default:'medium';index" json:"priority"`
	Status          ComplaintStatus   `gorm:"type:varchar(20);default:'open';index" json:"status"`
	EscalationLevel int               `gorm:"default:0" json:"escalation_level"` // 0-3, only ever increases
	SLADays         int               `gorm:"default:7" json:"sla_days"`
	ReportedAt      time.Time         `gorm:"not null" json:"reported_at"`
	SLABreached     bool              `gorm:"default:false" json:"sla_breached"` // written only by the derivation sweep
	AssignedToID    *uint             `gorm:"index" json:"assigned_to_id,omitempty"`
	ResolvedAt      *time.Time        `json:"resolved_at,omitempty"`
	Resolution      string            `gorm:"type:text" json:"resolution,omitempty"`

	// Relationships
	Candidate  Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	AssignedTo *User     `gorm:"foreignKey:AssignedToID;constraint:OnDelete:SET NULL" json:"assigned_to,omitempty"`
}

// ActiveComplaintStatuses are the statuses in which a complaint still blocks.
var ActiveComplaintStatuses = []ComplaintStatus{
	ComplaintOpen,
	ComplaintAssigned,
	ComplaintInvestigating,
}

// IsActive reports whether the complaint is still unresolved.
func (c *Complaint) IsActive() bool {
	for _, s := range ActiveComplaintStatuses {
		if c.Status == s {
			return true
		}
	}
	return false
}

// IsBlocking reports whether the complaint forces a visa-process hold.
func (c *Complaint) IsBlocking() bool {
	return c.IsActive() && c.Priority == PriorityCritical
}

// CanEscalate reports whether the escalation level may be raised by one. The
// level only ever increases and stops at MaxEscalationLevel.
func (c *Complaint) CanEscalate() bool {
	return c.EscalationLevel < MaxEscalationLevel
}

// SLADueAt is the moment the SLA expires.
func (c *Complaint) SLADueAt() time.Time {
	return c.ReportedAt.AddDate(0, 0, c.SLADays)
}

// IsSLABreached derives the breach state from the reported time and SLA
// window. The stored flag is a materialization of this, never an input.
func (c *Complaint) IsSLABreached(now time.Time) bool {
	return c.IsActive() && now.After(c.SLADueAt())
}

// TableName specifies the table name for Complaint
func (Complaint) TableName() string {
	return "complaints"
}
