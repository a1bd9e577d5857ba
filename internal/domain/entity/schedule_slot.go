package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScheduleSlot is a materialized half-day planning entry. The unique index on
// (date, day_part, employee_id) guarantees at most one slot per employee per
// half-day at the store level.
type ScheduleSlot struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Date          time.Time  `gorm:"type:date;not null;uniqueIndex:idx_slot_unique,priority:1;index" json:"date"`
	DayPart       DayPart    `gorm:"type:varchar(20);not null;uniqueIndex:idx_slot_unique,priority:2" json:"day_part"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_slot_unique,priority:3;index" json:"employee_id"`
	EmployeeRole  Role       `gorm:"type:varchar(20);not null;index" json:"employee_role"`
	AssignedRoom  string     `gorm:"type:varchar(50)" json:"assigned_room,omitempty"`
	WaitingRoom   bool       `gorm:"not null;default:false" json:"waiting_room"`
	Notes         string     `gorm:"type:text" json:"notes,omitempty"`
	WorkRequestID *uuid.UUID `gorm:"type:uuid;index" json:"work_request_id,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Employee Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

func (ScheduleSlot) TableName() string {
	return "schedule_slots"
}

func (s *ScheduleSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
