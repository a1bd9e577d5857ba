package service

import (
	"errors"
	"strings"

	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/domain/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrSlotConflict is returned when a slot already occupies the employee's
// half-day but belongs to a different request. Distinct from the idempotent
// no-op on re-materializing the same request.
var ErrSlotConflict = errors.New("a conflicting planning entry already exists for this employee and half-day")

// Materializer converts approved requests into planning entries and removes
// them again on cancellation. Full-day requests are handled as one logical
// transaction: both half-day placements are computed first and nothing is
// written unless both would succeed, so the planning can never hold exactly
// one half of a full-day pair.
type Materializer struct {
	log      *logrus.Logger
	slotRepo repository.ScheduleSlotRepository
	capacity *CapacityPolicy
	rooms    *RoomAllocator
}

func NewMaterializer(
	log *logrus.Logger,
	slotRepo repository.ScheduleSlotRepository,
	capacity *CapacityPolicy,
	rooms *RoomAllocator,
) *Materializer {
	return &Materializer{
		log:      log,
		slotRepo: slotRepo,
		capacity: capacity,
		rooms:    rooms,
	}
}

// Materialize writes the planning entries for a work request. Must run inside
// the transaction that also flips the request status: a failed placement
// rolls everything back and the request stays pending.
//
// Re-materializing a request whose slots already exist is a no-op per
// existing half, never a duplicate.
func (m *Materializer) Materialize(db *gorm.DB, request *entity.WorkRequest, subject *entity.Employee) ([]entity.ScheduleSlot, error) {
	type placement struct {
		part    entity.DayPart
		room    string
		waiting bool
	}

	var pending []placement
	var existing []entity.ScheduleSlot
	var adopted []*entity.ScheduleSlot

	// Phase 1: evaluate every half-day before writing anything.
	for _, part := range request.DayPart.Halves() {
		current, err := m.slotRepo.FindByKey(db, request.RequestedDate, part, request.SubjectID)
		if err != nil {
			return nil, err
		}
		if current != nil {
			if current.WorkRequestID == nil {
				// Unlinked entry (seeded or legacy). Adopt it so a later
				// cancellation finds it by request id.
				adopted = append(adopted, current)
				continue
			}
			if *current.WorkRequestID != request.ID {
				return nil, ErrSlotConflict
			}
			existing = append(existing, *current)
			continue
		}

		if err := m.capacity.MayPlace(db, request.RequestedDate, part, subject.Role); err != nil {
			return nil, err
		}

		room, waiting, err := m.rooms.RoomFor(db, request.RequestedDate, part, subject.Role, subject.ID)
		if err != nil {
			return nil, err
		}
		pending = append(pending, placement{part: part, room: room, waiting: waiting})
	}

	// Phase 2: all placements passed, write them.
	created := existing
	for _, slot := range adopted {
		requestID := request.ID
		slot.WorkRequestID = &requestID
		if err := m.slotRepo.Update(db, slot); err != nil {
			return nil, err
		}
		created = append(created, *slot)
	}
	for _, p := range pending {
		requestID := request.ID
		slot := entity.ScheduleSlot{
			Date:          request.RequestedDate,
			DayPart:       p.part,
			EmployeeID:    request.SubjectID,
			EmployeeRole:  subject.Role,
			AssignedRoom:  p.room,
			WaitingRoom:   p.waiting,
			WorkRequestID: &requestID,
		}
		if err := m.slotRepo.Create(db, &slot); err != nil {
			if isUniqueViolation(err) {
				// Lost a race outside the exclusivity scope; the unique
				// index on (date, part, employee) is the last line of defense.
				return nil, ErrSlotConflict
			}
			return nil, err
		}
		created = append(created, slot)
	}

	m.log.Debugf("Materialized request %s: %d slot(s) for %s on %s",
		request.ID, len(created), request.SubjectID, request.RequestedDate.Format("2006-01-02"))
	return created, nil
}

// Dematerialize removes every planning entry linked to a work request. Both
// halves of a full-day pair go in the same transaction, mirroring the
// all-or-nothing write on approval.
func (m *Materializer) Dematerialize(db *gorm.DB, request *entity.WorkRequest) (int64, error) {
	slots, err := m.slotRepo.FindByWorkRequestID(db, request.ID)
	if err != nil {
		return 0, err
	}

	var removed int64
	for _, slot := range slots {
		affected, err := m.slotRepo.Delete(db, slot.ID)
		if err != nil {
			return removed, err
		}
		removed += affected
	}

	m.log.Debugf("Dematerialized request %s: %d slot(s) removed", request.ID, removed)
	return removed, nil
}

// ApplyLeave removes the subject's planning entries for every (date,
// half-day) the leave covers. A missing entry is not an error: the employee
// simply was not scheduled then.
func (m *Materializer) ApplyLeave(db *gorm.DB, leave *entity.LeaveRequest) (int64, error) {
	var removed int64
	for _, date := range leave.Dates() {
		for _, part := range leave.DayPart.Halves() {
			affected, err := m.slotRepo.DeleteByKey(db, date, part, leave.SubjectID)
			if err != nil {
				return removed, err
			}
			removed += affected
		}
	}

	m.log.Debugf("Applied leave %s: %d slot(s) removed for %s", leave.ID, removed, leave.SubjectID)
	return removed, nil
}

// isUniqueViolation checks for a postgres unique constraint error (23505).
// sqlite (used in tests) reports constraint failures as plain strings.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
