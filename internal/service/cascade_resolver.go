package service

import (
	"fmt"
	"time"

	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// CascadeResolver keeps paired assistants coherent when a doctor's leave is
// approved: for every covered (date, half-day) it strips the assistant's
// inherited room and moves them to a fallback room or the waiting room,
// per policy. It only rewrites existing slots; an assistant without a slot
// on a covered half-day is simply skipped. Re-running for the same leave
// produces the same end state.
type CascadeResolver struct {
	log            *logrus.Logger
	slotRepo       repository.ScheduleSlotRepository
	assignmentRepo repository.AssignmentRepository
	rooms          *RoomAllocator
}

func NewCascadeResolver(
	log *logrus.Logger,
	slotRepo repository.ScheduleSlotRepository,
	assignmentRepo repository.AssignmentRepository,
	rooms *RoomAllocator,
) *CascadeResolver {
	return &CascadeResolver{
		log:            log,
		slotRepo:       slotRepo,
		assignmentRepo: assignmentRepo,
		rooms:          rooms,
	}
}

// ResolveDoctorLeave updates every paired assistant's slots affected by the
// leave. Returns the ids of assistants whose slots were rewritten, for
// notification. Must run in the same transaction as the leave approval.
func (c *CascadeResolver) ResolveDoctorLeave(db *gorm.DB, leave *entity.LeaveRequest) ([]uuid.UUID, error) {
	assignments, err := c.assignmentRepo.FindByDoctorID(db, leave.SubjectID)
	if err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return nil, nil
	}

	affected := map[uuid.UUID]bool{}
	for _, date := range leave.Dates() {
		for _, part := range leave.DayPart.Halves() {
			for _, pairing := range assignments {
				changed, err := c.reassign(db, date, part, pairing.AssistantID)
				if err != nil {
					return nil, err
				}
				if changed {
					affected[pairing.AssistantID] = true
				}
			}
		}
	}

	ids := make([]uuid.UUID, 0, len(affected))
	for id := range affected {
		ids = append(ids, id)
	}
	return ids, nil
}

// reassign rewrites one assistant slot. Idempotent: a slot already parked in
// the waiting room or in a fallback room is left alone.
func (c *CascadeResolver) reassign(db *gorm.DB, date time.Time, part entity.DayPart, assistantID uuid.UUID) (bool, error) {
	slot, err := c.slotRepo.FindByKey(db, date, part, assistantID)
	if err != nil {
		return false, err
	}
	if slot == nil {
		return false, nil
	}
	if slot.AssignedRoom == "" && slot.WaitingRoom {
		return false, nil
	}
	if slot.AssignedRoom != "" && c.rooms.IsFallbackRoom(slot.AssignedRoom) {
		return false, nil
	}

	room, waiting, err := c.rooms.FallbackRoom(db, date, part)
	if err != nil {
		return false, err
	}

	previous := slot.AssignedRoom
	slot.AssignedRoom = room
	slot.WaitingRoom = waiting
	slot.Notes = appendNote(slot.Notes, "paired doctor on leave")

	if err := c.slotRepo.Update(db, slot); err != nil {
		return false, err
	}

	c.log.Infof("Cascade: assistant %s on %s %s moved from %q to %q (waiting=%v)",
		assistantID, date.Format("2006-01-02"), part, previous, room, waiting)
	return true, nil
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return fmt.Sprintf("%s; %s", notes, note)
}
