package entity

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is the static doctor/assistant pairing used for room inheritance
// and cascade updates. Read-only input to the engine.
type Assignment struct {
	ID          int       `gorm:"primaryKey;autoIncrement" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"doctor_id"`
	AssistantID uuid.UUID `gorm:"type:uuid;not null;index" json:"assistant_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Doctor    Employee `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
	Assistant Employee `gorm:"foreignKey:AssistantID" json:"assistant,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}
