package service

import (
	"testing"

	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/repository"

	"github.com/google/uuid"
)

func TestMaterializeFullDay(t *testing.T) {
	db := newTestDB(t)
	cfg := testPlanningConfig()
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	capacity := NewCapacityPolicy(cfg, slotRepo)
	rooms := NewRoomAllocator(cfg, slotRepo, assignmentRepo)
	m := NewMaterializer(newTestLogger(), slotRepo, capacity, rooms)

	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-full-day")
	request := &entity.WorkRequest{
		ID:            uuid.New(),
		SubjectID:     doctor.ID,
		RequestedDate: day("2026-03-02"),
		DayPart:       entity.DayPartFullDay,
		Status:        entity.StatusPending,
	}

	slots, err := m.Materialize(db, request, doctor)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots for a full day, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.AssignedRoom != "Room 1" {
			t.Errorf("expected Room 1 for part %s, got %q", slot.DayPart, slot.AssignedRoom)
		}
		if slot.WorkRequestID == nil || *slot.WorkRequestID != request.ID {
			t.Errorf("slot not linked to request")
		}
	}

	t.Run("Idempotent", func(t *testing.T) {
		again, err := m.Materialize(db, request, doctor)
		if err != nil {
			t.Fatalf("re-materialize: %v", err)
		}
		if len(again) != 2 {
			t.Fatalf("expected 2 slots on replay, got %d", len(again))
		}

		var count int64
		db.Model(&entity.ScheduleSlot{}).Where("employee_id = ?", doctor.ID).Count(&count)
		if count != 2 {
			t.Fatalf("replay duplicated slots: %d", count)
		}
	})
}

func TestMaterializeAllOrNothing(t *testing.T) {
	db := newTestDB(t)
	cfg := testPlanningConfig()
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	capacity := NewCapacityPolicy(cfg, slotRepo)
	rooms := NewRoomAllocator(cfg, slotRepo, assignmentRepo)
	m := NewMaterializer(newTestLogger(), slotRepo, capacity, rooms)

	date := day("2026-03-03")
	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-atomic")

	// Afternoon already occupied by a different request
	otherID := uuid.New()
	createSlot(t, db, date, entity.DayPartAfternoon, doctor, "Room 2", &otherID)

	request := &entity.WorkRequest{
		ID:            uuid.New(),
		SubjectID:     doctor.ID,
		RequestedDate: date,
		DayPart:       entity.DayPartFullDay,
		Status:        entity.StatusPending,
	}

	_, err := m.Materialize(db, request, doctor)
	if err != ErrSlotConflict {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}

	// The morning half must not have been written
	var count int64
	db.Model(&entity.ScheduleSlot{}).
		Where("employee_id = ? AND day_part = ?", doctor.ID, entity.DayPartMorning).
		Count(&count)
	if count != 0 {
		t.Fatalf("conflicting full day wrote %d morning slot(s), want 0", count)
	}
}

func TestMaterializeCapacityExceeded(t *testing.T) {
	db := newTestDB(t)
	cfg := testPlanningConfig()
	cfg.MaxDoctorsPerHalfDay = 1
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	capacity := NewCapacityPolicy(cfg, slotRepo)
	rooms := NewRoomAllocator(cfg, slotRepo, assignmentRepo)
	m := NewMaterializer(newTestLogger(), slotRepo, capacity, rooms)

	date := day("2026-03-04")
	first := createEmployee(t, db, entity.RoleDoctor, "dr-first")
	second := createEmployee(t, db, entity.RoleDoctor, "dr-second")
	createSlot(t, db, date, entity.DayPartMorning, first, "Room 1", nil)

	request := &entity.WorkRequest{
		ID:            uuid.New(),
		SubjectID:     second.ID,
		RequestedDate: date,
		DayPart:       entity.DayPartMorning,
		Status:        entity.StatusPending,
	}

	_, err := m.Materialize(db, request, second)
	if err != ErrCapacityExceeded {
		t.Fatalf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestMaterializeWaitingRoomWhenPoolExhausted(t *testing.T) {
	db := newTestDB(t)
	cfg := testPlanningConfig()
	cfg.DoctorRooms = []string{"Room 1"}
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	capacity := NewCapacityPolicy(cfg, slotRepo)
	rooms := NewRoomAllocator(cfg, slotRepo, assignmentRepo)
	m := NewMaterializer(newTestLogger(), slotRepo, capacity, rooms)

	date := day("2026-03-05")
	first := createEmployee(t, db, entity.RoleDoctor, "dr-room")
	second := createEmployee(t, db, entity.RoleDoctor, "dr-waiting")
	createSlot(t, db, date, entity.DayPartMorning, first, "Room 1", nil)

	request := &entity.WorkRequest{
		ID:            uuid.New(),
		SubjectID:     second.ID,
		RequestedDate: date,
		DayPart:       entity.DayPartMorning,
		Status:        entity.StatusPending,
	}

	slots, err := m.Materialize(db, request, second)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(slots))
	}
	if !slots[0].WaitingRoom || slots[0].AssignedRoom != "" {
		t.Fatalf("expected waiting room placement, got room=%q waiting=%v", slots[0].AssignedRoom, slots[0].WaitingRoom)
	}
}

func TestMaterializeAdoptsUnlinkedSlot(t *testing.T) {
	db := newTestDB(t)
	cfg := testPlanningConfig()
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	capacity := NewCapacityPolicy(cfg, slotRepo)
	rooms := NewRoomAllocator(cfg, slotRepo, assignmentRepo)
	m := NewMaterializer(newTestLogger(), slotRepo, capacity, rooms)

	date := day("2026-03-12")
	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-adopt")
	// Seeded entry with no request linkage
	createSlot(t, db, date, entity.DayPartMorning, doctor, "Room 1", nil)

	request := &entity.WorkRequest{
		ID:            uuid.New(),
		SubjectID:     doctor.ID,
		RequestedDate: date,
		DayPart:       entity.DayPartFullDay,
		Status:        entity.StatusPending,
	}

	slots, err := m.Materialize(db, request, doctor)
	if err != nil {
		t.Fatalf("materialize: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(slots))
	}
	for _, slot := range slots {
		if slot.WorkRequestID == nil || *slot.WorkRequestID != request.ID {
			t.Fatalf("%s slot not linked to the request", slot.DayPart)
		}
	}

	// Cancellation finds the adopted half by request id too
	removed, err := m.Dematerialize(db, request)
	if err != nil {
		t.Fatalf("dematerialize: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected both halves removed, got %d", removed)
	}
}

func TestDematerialize(t *testing.T) {
	db := newTestDB(t)
	cfg := testPlanningConfig()
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	capacity := NewCapacityPolicy(cfg, slotRepo)
	rooms := NewRoomAllocator(cfg, slotRepo, assignmentRepo)
	m := NewMaterializer(newTestLogger(), slotRepo, capacity, rooms)

	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-demat")
	request := &entity.WorkRequest{
		ID:            uuid.New(),
		SubjectID:     doctor.ID,
		RequestedDate: day("2026-03-06"),
		DayPart:       entity.DayPartFullDay,
		Status:        entity.StatusPending,
	}

	if _, err := m.Materialize(db, request, doctor); err != nil {
		t.Fatalf("materialize: %v", err)
	}

	removed, err := m.Dematerialize(db, request)
	if err != nil {
		t.Fatalf("dematerialize: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 slots removed, got %d", removed)
	}

	var count int64
	db.Model(&entity.ScheduleSlot{}).Where("employee_id = ?", doctor.ID).Count(&count)
	if count != 0 {
		t.Fatalf("slots left after dematerialize: %d", count)
	}
}

func TestApplyLeave(t *testing.T) {
	db := newTestDB(t)
	cfg := testPlanningConfig()
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	capacity := NewCapacityPolicy(cfg, slotRepo)
	rooms := NewRoomAllocator(cfg, slotRepo, assignmentRepo)
	m := NewMaterializer(newTestLogger(), slotRepo, capacity, rooms)

	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-leave")
	createSlot(t, db, day("2026-03-09"), entity.DayPartMorning, doctor, "Room 1", nil)
	createSlot(t, db, day("2026-03-09"), entity.DayPartAfternoon, doctor, "Room 1", nil)
	createSlot(t, db, day("2026-03-10"), entity.DayPartMorning, doctor, "Room 1", nil)
	// Outside the leave range, must survive
	createSlot(t, db, day("2026-03-11"), entity.DayPartMorning, doctor, "Room 1", nil)

	leave := &entity.LeaveRequest{
		ID:        uuid.New(),
		SubjectID: doctor.ID,
		DateStart: day("2026-03-09"),
		DateEnd:   day("2026-03-10"),
		LeaveType: entity.LeaveTypeVacation,
		DayPart:   entity.DayPartFullDay,
		Status:    entity.StatusPending,
	}

	removed, err := m.ApplyLeave(db, leave)
	if err != nil {
		t.Fatalf("apply leave: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 slots removed, got %d", removed)
	}

	var count int64
	db.Model(&entity.ScheduleSlot{}).Where("employee_id = ?", doctor.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected the out-of-range slot to survive, got %d slot(s)", count)
	}
}
