package entity

import "errors"

// ErrInvalidState is returned when a lifecycle transition is attempted from a
// state that does not allow it.
var ErrInvalidState = errors.New("invalid request state for this transition")

// RequestStatus is the lifecycle state shared by work and leave requests.
type RequestStatus string

const (
	StatusPending       RequestStatus = "pending"
	StatusApproved      RequestStatus = "approved"
	StatusRejected      RequestStatus = "rejected"
	StatusCancelPending RequestStatus = "cancel_pending"
	StatusCancelled     RequestStatus = "cancelled"
)

// allowedTransitions is the full lifecycle table:
// pending -> approved | rejected
// approved -> cancel_pending | cancelled (direct manager cancellation)
// cancel_pending -> cancelled
// rejected and cancelled are terminal.
var allowedTransitions = map[RequestStatus][]RequestStatus{
	StatusPending:       {StatusApproved, StatusRejected},
	StatusApproved:      {StatusCancelPending, StatusCancelled},
	StatusCancelPending: {StatusCancelled},
}

// CanTransition reports whether moving from s to target is legal.
func (s RequestStatus) CanTransition(target RequestStatus) bool {
	for _, next := range allowedTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Transition validates and returns the target status.
func (s RequestStatus) Transition(target RequestStatus) (RequestStatus, error) {
	if !s.CanTransition(target) {
		return s, ErrInvalidState
	}
	return target, nil
}

// IsTerminal reports whether no further transition may leave the state.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusRejected || s == StatusCancelled
}
