package model

import (
	"time"

	"gorm.io/gorm"
)

// Role constants. Ownership-scoped roles (campus_admin, oep) carry a CampusID
// or OEPID restricting which candidates they may act on.
const (
	RoleSuperAdmin      = "super_admin"
	RoleProjectDirector = "project_director"
	RoleCampusAdmin     = "campus_admin"
	RoleOEP             = "oep"
	RoleVisaPartner     = "visa_partner"
	RoleInstructor      = "instructor"
	RoleViewer          = "viewer"
)

// User represents a staff account operating the pipeline
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'viewer'" json:"role"`
	CampusID     *uint          `gorm:"index" json:"campus_id,omitempty"` // scope for campus_admin / instructor
	OEPID        *uint          `gorm:"index" json:"oep_id,omitempty"`    // scope for oep
	TokenVersion int            `gorm:"default:0" json:"-"`               // increment to invalidate all user tokens

	// Relationships
	Campus         *Campus             `gorm:"foreignKey:CampusID;constraint:OnDelete:SET NULL" json:"campus,omitempty"`
	OEP            *OEP                `gorm:"foreignKey:OEPID;constraint:OnDelete:SET NULL" json:"oep,omitempty"`
	AuditLogs      []AdminAuditLog     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}
