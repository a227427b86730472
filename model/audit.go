package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// StatusTransitionLog records every successful candidate status transition:
// who moved the candidate, from where to where, and a snapshot of the gate
// evaluation at the time.
type StatusTransitionLog struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	CandidateID uint            `gorm:"not null;index" json:"candidate_id"`
	FromStatus  CandidateStatus `gorm:"type:varchar(20);not null" json:"from_status"`
	ToStatus    CandidateStatus `gorm:"type:varchar(20);not null" json:"to_status"`
	ActorID     uint            `gorm:"index" json:"actor_id"`
	Remarks     string          `gorm:"type:text" json:"remarks"`
	Metadata    datatypes.JSON  `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	Candidate Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
	Actor     User      `gorm:"foreignKey:ActorID;constraint:OnDelete:SET NULL" json:"actor,omitempty"`
}

// TableName specifies the table name for StatusTransitionLog
func (StatusTransitionLog) TableName() string {
	return "status_transition_logs"
}

// AdminAuditLog represents the audit trail for administrative actions outside
// the candidate pipeline (user management, setting changes).
type AdminAuditLog struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	AdminID     uint           `gorm:"not null;index" json:"admin_id"`
	Action      string         `gorm:"type:varchar(100);not null" json:"action"` // e.g., "user_create", "role_change"
	Resource    string         `gorm:"type:varchar(100)" json:"resource"`        // e.g., "users", "campuses"
	ResourceID  uint           `json:"resource_id"`
	OldValue    string         `gorm:"type:jsonb" json:"old_value"`
	NewValue    string         `gorm:"type:jsonb" json:"new_value"`
	IPAddress   string         `gorm:"type:varchar(45)" json:"ip_address"`
	Description string         `gorm:"type:text" json:"description"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Admin User `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"admin,omitempty"`
}

// TableName specifies the table name for AdminAuditLog
func (AdminAuditLog) TableName() string {
	return "admin_audit_logs"
}
