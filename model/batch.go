package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// BatchStatus represents the lifecycle of a training batch
type BatchStatus string

const (
	BatchStatusOpen      BatchStatus = "open"
	BatchStatusFull      BatchStatus = "full"
	BatchStatusCompleted BatchStatus = "completed"
)

// Batch is a capacity-bounded container of candidates sharing a
// (campus, program, trade) key. CurrentSize never exceeds MaxSize; once a
// batch fills up, allocation creates a new batch for the same key.
type Batch struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
	CampusID    uint           `gorm:"not null;index:idx_batch_key" json:"campus_id"`
	ProgramID   uint           `gorm:"not null;index:idx_batch_key" json:"program_id"`
	TradeID     uint           `gorm:"not null;index:idx_batch_key" json:"trade_id"`
	Code        string         `gorm:"type:varchar(30);uniqueIndex;not null" json:"code"` // e.g., "ISB-TEC-WLD-B02"
	Number      int            `gorm:"not null" json:"number"`                            // ordinal per key, starting at 1
	MaxSize     int            `gorm:"not null" json:"max_size"`
	CurrentSize int            `gorm:"not null;default:0" json:"current_size"`
	Status      BatchStatus    `gorm:"type:varchar(20);default:'open'" json:"status"`

	// Relationships
	Campus     Campus      `gorm:"foreignKey:CampusID;constraint:OnDelete:CASCADE" json:"campus,omitempty"`
	Program    Program     `gorm:"foreignKey:ProgramID;constraint:OnDelete:CASCADE" json:"program,omitempty"`
	Trade      Trade       `gorm:"foreignKey:TradeID;constraint:OnDelete:CASCADE" json:"trade,omitempty"`
	Candidates []Candidate `gorm:"foreignKey:BatchID" json:"candidates,omitempty"`
}

// HasCapacity reports whether the batch can take one more candidate.
func (b *Batch) HasCapacity() bool {
	return b.CurrentSize < b.MaxSize
}

// BatchCode builds the batch code for a key and ordinal, e.g. "ISB-TEC-WLD-B02".
func BatchCode(campusCode, programCode, tradeCode string, number int) string {
	return fmt.Sprintf("%s-%s-%s-B%02d", campusCode, programCode, tradeCode, number)
}

// AllocationNumber builds a candidate's allocation code from the key codes and
// a per-key sequence, e.g. "ISB-TEC-WLD-0001".
func AllocationNumber(campusCode, programCode, tradeCode string, seq int) string {
	return fmt.Sprintf("%s-%s-%s-%04d", campusCode, programCode, tradeCode, seq)
}

// TableName specifies the table name for Batch
func (Batch) TableName() string {
	return "batches"
}
