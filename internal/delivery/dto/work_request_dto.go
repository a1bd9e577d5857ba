package dto

import (
	"time"

	"github.com/google/uuid"
)

type SubmitWorkRequestRequest struct {
	SubjectID     string `json:"subject_id" validate:"required,uuid"`
	RequestedDate string `json:"requested_date" validate:"required"`
	DayPart       string `json:"day_part" validate:"required,oneof=morning afternoon full_day"`
	Reason        string `json:"reason" validate:"max=500"`
}

type CancelRequest struct {
	Reason string `json:"reason" validate:"required,max=500"`
}

type DecisionRequest struct {
	Comment string `json:"comment" validate:"max=500"`
}

type WorkRequestResponse struct {
	ID            uuid.UUID  `json:"id"`
	SubjectID     uuid.UUID  `json:"subject_id"`
	RequestedDate string     `json:"requested_date"`
	DayPart       string     `json:"day_part"`
	Status        string     `json:"status"`
	Reason        string     `json:"reason,omitempty"`
	CancelReason  string     `json:"cancel_reason,omitempty"`
	CancelledBy   *uuid.UUID `json:"cancelled_by,omitempty"`
	DecidedBy     *uuid.UUID `json:"decided_by,omitempty"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type WorkRequestListResponse struct {
	Requests []WorkRequestResponse `json:"requests"`
	Total    int                   `json:"total"`
}
