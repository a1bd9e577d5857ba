package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LeaveType categorizes a leave request
type LeaveType string

const (
	LeaveTypeVacation LeaveType = "vacation"
	LeaveTypeSick     LeaveType = "sick"
	LeaveTypeTraining LeaveType = "training"
	LeaveTypeOther    LeaveType = "other"
)

// LeaveRequest represents an absence over a date range. DayPart supports
// half-day leave; full_day covers both halves of every day in the range.
type LeaveRequest struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID    uuid.UUID     `gorm:"type:uuid;not null;index" json:"subject_id"`
	DateStart    time.Time     `gorm:"type:date;not null;index" json:"date_start"`
	DateEnd      time.Time     `gorm:"type:date;not null" json:"date_end"`
	LeaveType    LeaveType     `gorm:"type:varchar(20);not null" json:"leave_type"`
	DayPart      DayPart       `gorm:"type:varchar(20);not null" json:"day_part"`
	Status       RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reason       string        `gorm:"type:text" json:"reason,omitempty"`
	CancelReason string        `gorm:"type:text" json:"cancel_reason,omitempty"`
	CancelledBy  *uuid.UUID    `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	DecidedBy    *uuid.UUID    `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt    *time.Time    `json:"decided_at,omitempty"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Subject Employee `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

func (r *LeaveRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Dates lists every calendar day the leave covers, inclusive.
func (r *LeaveRequest) Dates() []time.Time {
	var dates []time.Time
	start := r.DateStart.Truncate(24 * time.Hour)
	end := r.DateEnd.Truncate(24 * time.Hour)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// IsPending checks if the request still awaits a decision
func (r *LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}

// IsApproved checks if the leave is in effect
func (r *LeaveRequest) IsApproved() bool {
	return r.Status == StatusApproved
}

// MarkApproved transitions pending -> approved and records the approver.
func (r *LeaveRequest) MarkApproved(approver uuid.UUID) error {
	status, err := r.Status.Transition(StatusApproved)
	if err != nil {
		return err
	}
	r.Status = status
	r.decide(approver)
	return nil
}

// MarkRejected transitions pending -> rejected and records the approver.
func (r *LeaveRequest) MarkRejected(approver uuid.UUID) error {
	status, err := r.Status.Transition(StatusRejected)
	if err != nil {
		return err
	}
	r.Status = status
	r.decide(approver)
	return nil
}

// MarkCancelPending transitions approved -> cancel_pending.
func (r *LeaveRequest) MarkCancelPending(requester uuid.UUID, reason string) error {
	status, err := r.Status.Transition(StatusCancelPending)
	if err != nil {
		return err
	}
	r.Status = status
	r.CancelReason = reason
	return nil
}

// MarkCancelled finalizes a cancellation from cancel_pending or approved.
func (r *LeaveRequest) MarkCancelled(actor uuid.UUID, reason string) error {
	status, err := r.Status.Transition(StatusCancelled)
	if err != nil {
		return err
	}
	r.Status = status
	if reason != "" {
		r.CancelReason = reason
	}
	r.CancelledBy = &actor
	return nil
}

func (r *LeaveRequest) decide(by uuid.UUID) {
	now := time.Now()
	r.DecidedBy = &by
	r.DecidedAt = &now
}
