package dto

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleSlotResponse struct {
	ID           uuid.UUID `json:"id"`
	Date         string    `json:"date"`
	DayPart      string    `json:"day_part"`
	EmployeeID   uuid.UUID `json:"employee_id"`
	EmployeeName string    `json:"employee_name,omitempty"`
	EmployeeRole string    `json:"employee_role"`
	AssignedRoom string    `json:"assigned_room,omitempty"`
	WaitingRoom  bool      `json:"waiting_room"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type PlanningResponse struct {
	Slots []ScheduleSlotResponse `json:"slots"`
	Total int                    `json:"total"`
}
