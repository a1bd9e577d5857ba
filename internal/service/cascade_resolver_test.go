package service

import (
	"testing"

	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func setupCascade(t *testing.T, cascadeToWaiting bool) (*gorm.DB, *CascadeResolver) {
	t.Helper()

	db := newTestDB(t)
	cfg := testPlanningConfig()
	cfg.CascadeToWaitingRoom = cascadeToWaiting
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	rooms := NewRoomAllocator(cfg, slotRepo, assignmentRepo)

	return db, NewCascadeResolver(newTestLogger(), slotRepo, assignmentRepo, rooms)
}

func TestCascadeMovesAssistantToFallback(t *testing.T) {
	db, cascade := setupCascade(t, false)

	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-cascade")
	assistant := createEmployee(t, db, entity.RoleAssistant, "asst-cascade")
	createAssignment(t, db, doctor.ID, assistant.ID)

	onLeave := day("2026-04-06")
	unaffected := day("2026-04-07")
	createSlot(t, db, onLeave, entity.DayPartMorning, assistant, "Room 1", nil)
	createSlot(t, db, onLeave, entity.DayPartAfternoon, assistant, "Room 1", nil)
	createSlot(t, db, unaffected, entity.DayPartMorning, assistant, "Room 1", nil)

	leave := &entity.LeaveRequest{
		ID:        uuid.New(),
		SubjectID: doctor.ID,
		DateStart: onLeave,
		DateEnd:   onLeave,
		DayPart:   entity.DayPartFullDay,
	}

	affected, err := cascade.ResolveDoctorLeave(db, leave)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(affected) != 1 || affected[0] != assistant.ID {
		t.Fatalf("expected assistant in affected set, got %v", affected)
	}

	var moved []entity.ScheduleSlot
	if err := db.Where("employee_id = ? AND date = ?", assistant.ID, onLeave).Find(&moved).Error; err != nil {
		t.Fatalf("load slots: %v", err)
	}
	if len(moved) != 2 {
		t.Fatalf("cascade must rewrite, never delete: got %d slot(s)", len(moved))
	}
	for _, slot := range moved {
		if slot.AssignedRoom != "Room 9" {
			t.Errorf("part %s: expected fallback Room 9, got %q", slot.DayPart, slot.AssignedRoom)
		}
		if slot.Notes == "" {
			t.Errorf("part %s: expected an explanatory note", slot.DayPart)
		}
	}

	var untouched entity.ScheduleSlot
	if err := db.Where("employee_id = ? AND date = ?", assistant.ID, unaffected).First(&untouched).Error; err != nil {
		t.Fatalf("load unaffected slot: %v", err)
	}
	if untouched.AssignedRoom != "Room 1" {
		t.Fatalf("slot outside the leave range was rewritten to %q", untouched.AssignedRoom)
	}

	t.Run("Idempotent", func(t *testing.T) {
		again, err := cascade.ResolveDoctorLeave(db, leave)
		if err != nil {
			t.Fatalf("re-resolve: %v", err)
		}
		if len(again) != 0 {
			t.Fatalf("replay reported %d affected assistant(s), want 0", len(again))
		}
	})
}

func TestCascadeWaitingRoomPolicy(t *testing.T) {
	db, cascade := setupCascade(t, true)

	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-waitpolicy")
	assistant := createEmployee(t, db, entity.RoleAssistant, "asst-waitpolicy")
	createAssignment(t, db, doctor.ID, assistant.ID)

	date := day("2026-04-08")
	createSlot(t, db, date, entity.DayPartMorning, assistant, "Room 1", nil)

	leave := &entity.LeaveRequest{
		ID:        uuid.New(),
		SubjectID: doctor.ID,
		DateStart: date,
		DateEnd:   date,
		DayPart:   entity.DayPartMorning,
	}

	if _, err := cascade.ResolveDoctorLeave(db, leave); err != nil {
		t.Fatalf("resolve: %v", err)
	}

	var slot entity.ScheduleSlot
	if err := db.Where("employee_id = ? AND date = ?", assistant.ID, date).First(&slot).Error; err != nil {
		t.Fatalf("load slot: %v", err)
	}
	if !slot.WaitingRoom || slot.AssignedRoom != "" {
		t.Fatalf("expected waiting room, got room=%q waiting=%v", slot.AssignedRoom, slot.WaitingRoom)
	}
}

func TestCascadeNoPairingNoChange(t *testing.T) {
	db, cascade := setupCascade(t, false)

	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-solo")
	leave := &entity.LeaveRequest{
		ID:        uuid.New(),
		SubjectID: doctor.ID,
		DateStart: day("2026-04-09"),
		DateEnd:   day("2026-04-09"),
		DayPart:   entity.DayPartFullDay,
	}

	affected, err := cascade.ResolveDoctorLeave(db, leave)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if len(affected) != 0 {
		t.Fatalf("unpaired doctor produced affected assistants: %v", affected)
	}
}
