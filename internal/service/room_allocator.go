package service

import (
	"time"

	"go-clinic-planning/config"
	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoomAllocator implements the role-based room rules: doctors draw from the
// doctor pool, assistants inherit the paired doctor's room when that doctor
// works the same half-day, secretaries take an administrative desk.
type RoomAllocator struct {
	cfg            config.PlanningConfig
	slotRepo       repository.ScheduleSlotRepository
	assignmentRepo repository.AssignmentRepository
}

func NewRoomAllocator(
	cfg config.PlanningConfig,
	slotRepo repository.ScheduleSlotRepository,
	assignmentRepo repository.AssignmentRepository,
) *RoomAllocator {
	return &RoomAllocator{
		cfg:            cfg,
		slotRepo:       slotRepo,
		assignmentRepo: assignmentRepo,
	}
}

// RoomFor picks a room for the employee at (date, part). An empty room with
// waiting=true means no room could be allocated and the employee is parked
// in the waiting room.
func (a *RoomAllocator) RoomFor(db *gorm.DB, date time.Time, part entity.DayPart, role entity.Role, employeeID uuid.UUID) (string, bool, error) {
	switch role {
	case entity.RoleDoctor:
		return a.firstFree(db, date, part, a.cfg.DoctorRooms)
	case entity.RoleAssistant:
		return a.assistantRoom(db, date, part, employeeID)
	case entity.RoleSecretary:
		return a.firstFree(db, date, part, a.cfg.SecretaryDesks)
	default:
		return "", false, nil
	}
}

// FallbackRoom picks a free room from the fallback pool, used when a cascade
// strips an assistant of an inherited room. waiting=true when the pool is
// exhausted or the policy prefers the waiting room.
func (a *RoomAllocator) FallbackRoom(db *gorm.DB, date time.Time, part entity.DayPart) (string, bool, error) {
	if a.cfg.CascadeToWaitingRoom {
		return "", true, nil
	}
	return a.firstFree(db, date, part, a.cfg.FallbackRooms)
}

// IsFallbackRoom reports whether the room belongs to the fallback pool.
func (a *RoomAllocator) IsFallbackRoom(room string) bool {
	for _, r := range a.cfg.FallbackRooms {
		if r == room {
			return true
		}
	}
	return false
}

func (a *RoomAllocator) assistantRoom(db *gorm.DB, date time.Time, part entity.DayPart, assistantID uuid.UUID) (string, bool, error) {
	assignments, err := a.assignmentRepo.FindByAssistantID(db, assistantID)
	if err != nil {
		return "", false, err
	}

	// Inherit from the paired doctor's slot on the same half-day
	for _, pairing := range assignments {
		doctorSlot, err := a.slotRepo.FindByKey(db, date, part, pairing.DoctorID)
		if err != nil {
			return "", false, err
		}
		if doctorSlot != nil && doctorSlot.AssignedRoom != "" {
			return doctorSlot.AssignedRoom, false, nil
		}
	}

	return a.firstFree(db, date, part, a.cfg.AssistantRooms)
}

func (a *RoomAllocator) firstFree(db *gorm.DB, date time.Time, part entity.DayPart, pool []string) (string, bool, error) {
	if len(pool) == 0 {
		return "", true, nil
	}

	used, err := a.slotRepo.RoomsInUse(db, date, part)
	if err != nil {
		return "", false, err
	}

	inUse := make(map[string]bool, len(used))
	for _, room := range used {
		inUse[room] = true
	}

	for _, room := range pool {
		if !inUse[room] {
			return room, false, nil
		}
	}
	return "", true, nil
}
