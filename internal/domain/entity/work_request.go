package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WorkRequest represents a request to work a half-day or full day on a date.
// It is never deleted while approved; cancellation moves the status instead.
type WorkRequest struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID     uuid.UUID     `gorm:"type:uuid;not null;index" json:"subject_id"`
	RequestedDate time.Time     `gorm:"type:date;not null;index" json:"requested_date"`
	DayPart       DayPart       `gorm:"type:varchar(20);not null" json:"day_part"`
	Status        RequestStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Reason        string        `gorm:"type:text" json:"reason,omitempty"`
	CancelReason  string        `gorm:"type:text" json:"cancel_reason,omitempty"`
	CancelledBy   *uuid.UUID    `gorm:"type:uuid" json:"cancelled_by,omitempty"`
	DecidedBy     *uuid.UUID    `gorm:"type:uuid" json:"decided_by,omitempty"`
	DecidedAt     *time.Time    `json:"decided_at,omitempty"`
	CreatedAt     time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Subject Employee `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (WorkRequest) TableName() string {
	return "work_requests"
}

func (r *WorkRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// IsPending checks if the request still awaits a decision
func (r *WorkRequest) IsPending() bool {
	return r.Status == StatusPending
}

// IsApproved checks if the request has been materialized
func (r *WorkRequest) IsApproved() bool {
	return r.Status == StatusApproved
}

// MarkApproved transitions pending -> approved and records the approver.
func (r *WorkRequest) MarkApproved(approver uuid.UUID) error {
	status, err := r.Status.Transition(StatusApproved)
	if err != nil {
		return err
	}
	r.Status = status
	r.decide(approver)
	return nil
}

// MarkRejected transitions pending -> rejected and records the approver.
func (r *WorkRequest) MarkRejected(approver uuid.UUID) error {
	status, err := r.Status.Transition(StatusRejected)
	if err != nil {
		return err
	}
	r.Status = status
	r.decide(approver)
	return nil
}

// MarkCancelPending transitions approved -> cancel_pending and stores the
// withdrawal reason.
func (r *WorkRequest) MarkCancelPending(requester uuid.UUID, reason string) error {
	status, err := r.Status.Transition(StatusCancelPending)
	if err != nil {
		return err
	}
	r.Status = status
	r.CancelReason = reason
	return nil
}

// MarkCancelled finalizes a cancellation, from cancel_pending (approved
// withdrawal) or directly from approved (manager bypass).
func (r *WorkRequest) MarkCancelled(actor uuid.UUID, reason string) error {
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

func (r *WorkRequest) decide(by uuid.UUID) {
	now := time.Now()
	r.DecidedBy = &by
	r.DecidedAt = &now
}
