package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationType represents the type/severity of notification
type NotificationType string

const (
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeError   NotificationType = "error"
)

// NotificationCategory represents what triggered the notification
type NotificationCategory string

const (
	NotificationCategoryDocumentExpiry      NotificationCategory = "document_expiry"
	NotificationCategoryComplaintEscalation NotificationCategory = "complaint_escalation"
	NotificationCategorySLABreach           NotificationCategory = "sla_breach"
	NotificationCategoryStatusChange        NotificationCategory = "status_change"
	NotificationCategoryGeneral             NotificationCategory = "general"
)

// UserNotification is a correspondence trigger surfaced to a user. Delivery
// (email/SMS) happens outside this system; only the fact is recorded here.
type UserNotification struct {
	ID          uint                 `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`
	DeletedAt   gorm.DeletedAt       `gorm:"index" json:"-"`
	UserID      uint                 `gorm:"index;not null" json:"user_id"`
	Type        NotificationType     `gorm:"type:varchar(20);not null" json:"type"`
	Category    NotificationCategory `gorm:"type:varchar(30);not null" json:"category"`
	Title       string               `gorm:"type:varchar(255);not null" json:"title"`
	Message     string               `gorm:"type:text" json:"message"`
	Read        bool                 `gorm:"default:false" json:"read"`
	CandidateID *uint                `gorm:"index" json:"candidate_id,omitempty"`
	Metadata    datatypes.JSON       `gorm:"type:jsonb" json:"metadata,omitempty"`

	// Relationships
	User      User       `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Candidate *Candidate `gorm:"foreignKey:CandidateID;constraint:OnDelete:CASCADE" json:"-"`
}

// NotificationMetadata holds common metadata fields serialized into Metadata.
type NotificationMetadata struct {
	DocumentType    string `json:"document_type,omitempty"`
	ExpiryDate      string `json:"expiry_date,omitempty"`
	ComplaintID     uint   `json:"complaint_id,omitempty"`
	EscalationLevel int    `json:"escalation_level,omitempty"`
	FromStatus      string `json:"from_status,omitempty"`
	ToStatus        string `json:"to_status,omitempty"`
}

// TableName specifies the table name for UserNotification
func (UserNotification) TableName() string {
	return "user_notifications"
}
