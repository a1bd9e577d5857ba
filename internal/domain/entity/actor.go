package entity

import "github.com/google/uuid"

// Actor identifies who performs an engine operation. Handlers build it from
// the authenticated context; the engine uses it for the role contract checks
// and for the audit trail.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// MayDecide reports whether the actor can approve, reject or cancel requests.
func (a Actor) MayDecide() bool {
	return a.Role.IsManagerial()
}

// MayWithdraw reports whether the actor can ask to cancel the given
// subject's approved request: the subject themselves or a manager.
func (a Actor) MayWithdraw(subjectID uuid.UUID) bool {
	return a.ID == subjectID || a.Role.IsManagerial()
}
