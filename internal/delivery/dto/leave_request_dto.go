package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitLeaveRequestRequest struct {
	SubjectID string `json:"subject_id" validate:"required,uuid"`
	DateStart string `json:"date_start" validate:"required"`
	DateEnd   string `json:"date_end" validate:"required"`
	LeaveType string `json:"leave_type" validate:"required,oneof=vacation sick training other"`
	DayPart   string `json:"day_part" validate:"required,oneof=morning afternoon full_day"`
	Reason    string `json:"reason" validate:"max=500"`
}

type LeaveRequestResponse struct {
	ID           uuid.UUID  `json:"id"`
	SubjectID    uuid.UUID  `json:"subject_id"`
	DateStart    string     `json:"date_start"`
	DateEnd      string     `json:"date_end"`
	LeaveType    string     `json:"leave_type"`
	DayPart      string     `json:"day_part"`
	Status       string     `json:"status"`
	Reason       string     `json:"reason,omitempty"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CancelledBy  *uuid.UUID `json:"cancelled_by,omitempty"`
	DecidedBy    *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt    *time.Time `json:"decided_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type LeaveRequestListResponse struct {
	Requests []LeaveRequestResponse `json:"requests"`
	Total    int                    `json:"total"`
}
