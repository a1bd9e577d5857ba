package usecase

import (
	"context"
	"testing"

	"go-clinic-planning/internal/delivery/dto"
	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/service"
)

func TestLeaveRequestLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctor := f.createEmployee(t, entity.RoleDoctor, "dr-leave")
	doctorActor := entity.Actor{ID: doctor.ID, Role: entity.RoleDoctor}
	manager := f.manager(t)

	// Approved work days that the leave will clear
	for _, date := range []string{"2026-04-06", "2026-04-07", "2026-04-08"} {
		submitted, err := f.work.Submit(ctx, &dto.SubmitWorkRequestRequest{
			SubjectID:     doctor.ID.String(),
			RequestedDate: date,
			DayPart:       "full_day",
		}, doctorActor)
		if err != nil {
			t.Fatalf("submit work %s: %v", date, err)
		}
		if _, err := f.work.Approve(ctx, submitted.ID, manager); err != nil {
			t.Fatalf("approve work %s: %v", date, err)
		}
	}
	if got := f.slotCount(t, doctor.ID); got != 6 {
		t.Fatalf("expected 6 slots before leave, got %d", got)
	}

	submitted, err := f.leave.Submit(ctx, &dto.SubmitLeaveRequestRequest{
		SubjectID: doctor.ID.String(),
		DateStart: "2026-04-06",
		DateEnd:   "2026-04-07",
		LeaveType: "vacation",
		DayPart:   "full_day",
		Reason:    "holiday",
	}, doctorActor)
	if err != nil {
		t.Fatalf("submit leave: %v", err)
	}
	if submitted.Status != string(entity.StatusPending) {
		t.Fatalf("expected pending, got %s", submitted.Status)
	}
	if got := f.slotCount(t, doctor.ID); got != 6 {
		t.Fatal("submission must not touch the planning")
	}

	approved, err := f.leave.Approve(ctx, submitted.ID, manager)
	if err != nil {
		t.Fatalf("approve leave: %v", err)
	}
	if approved.Status != string(entity.StatusApproved) {
		t.Fatalf("expected approved, got %s", approved.Status)
	}
	var stored entity.LeaveRequest
	if err := f.db.First(&stored, "id = ?", submitted.ID).Error; err != nil {
		t.Fatalf("reload leave: %v", err)
	}
	if !stored.IsApproved() {
		t.Fatalf("stored leave must be approved, got %s", stored.Status)
	}
	// Two covered days cleared, the third survives
	if got := f.slotCount(t, doctor.ID); got != 2 {
		t.Fatalf("expected 2 slots after leave, got %d", got)
	}

	t.Run("CancellationDoesNotRestoreSlots", func(t *testing.T) {
		if _, err := f.leave.RequestCancellation(ctx, submitted.ID, doctorActor, "plans changed"); err != nil {
			t.Fatalf("request cancellation: %v", err)
		}
		cancelled, err := f.leave.ApproveCancellation(ctx, submitted.ID, manager, "")
		if err != nil {
			t.Fatalf("approve cancellation: %v", err)
		}
		if cancelled.Status != string(entity.StatusCancelled) {
			t.Fatalf("expected cancelled, got %s", cancelled.Status)
		}
		// Cleared days stay cleared; rescheduling needs fresh work requests
		if got := f.slotCount(t, doctor.ID); got != 2 {
			t.Fatalf("cancellation restored slots: got %d", got)
		}
	})
}

func TestLeaveApprovalCascadesToAssistant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctor := f.createEmployee(t, entity.RoleDoctor, "dr-paired")
	assistant := f.createEmployee(t, entity.RoleAssistant, "asst-paired")
	manager := f.manager(t)
	if err := f.db.Create(&entity.Assignment{DoctorID: doctor.ID, AssistantID: assistant.ID}).Error; err != nil {
		t.Fatalf("create assignment: %v", err)
	}

	// Doctor works the morning in Room 1, assistant inherits the room
	for _, subject := range []*entity.Employee{doctor, assistant} {
		submitted, err := f.work.Submit(ctx, &dto.SubmitWorkRequestRequest{
			SubjectID:     subject.ID.String(),
			RequestedDate: "2026-04-13",
			DayPart:       "morning",
		}, manager)
		if err != nil {
			t.Fatalf("submit for %s: %v", subject.FullName, err)
		}
		if _, err := f.work.Approve(ctx, submitted.ID, manager); err != nil {
			t.Fatalf("approve for %s: %v", subject.FullName, err)
		}
	}

	var assistantSlot entity.ScheduleSlot
	if err := f.db.Where("employee_id = ?", assistant.ID).First(&assistantSlot).Error; err != nil {
		t.Fatalf("load assistant slot: %v", err)
	}
	if assistantSlot.AssignedRoom != "Room 1" {
		t.Fatalf("assistant should inherit Room 1, got %q", assistantSlot.AssignedRoom)
	}

	leave, err := f.leave.Submit(ctx, &dto.SubmitLeaveRequestRequest{
		SubjectID: doctor.ID.String(),
		DateStart: "2026-04-13",
		DateEnd:   "2026-04-13",
		LeaveType: "sick",
		DayPart:   "morning",
	}, entity.Actor{ID: doctor.ID, Role: entity.RoleDoctor})
	if err != nil {
		t.Fatalf("submit leave: %v", err)
	}
	if _, err := f.leave.Approve(ctx, leave.ID, manager); err != nil {
		t.Fatalf("approve leave: %v", err)
	}

	// Doctor's slot is gone
	if got := f.slotCount(t, doctor.ID); got != 0 {
		t.Fatalf("doctor slot must be removed, got %d", got)
	}

	// Assistant's slot is rewritten to the fallback room, not deleted
	if err := f.db.Where("employee_id = ?", assistant.ID).First(&assistantSlot).Error; err != nil {
		t.Fatalf("reload assistant slot: %v", err)
	}
	if assistantSlot.AssignedRoom != "Room 9" {
		t.Fatalf("assistant should move to fallback Room 9, got %q", assistantSlot.AssignedRoom)
	}
	if assistantSlot.Notes == "" {
		t.Fatal("cascade must explain the move in the slot notes")
	}

	events := f.notifier.byType(service.EventAssistantReassigned)
	if len(events) != 1 {
		t.Fatalf("expected 1 reassignment event, got %d", len(events))
	}
	found := false
	for _, recipient := range events[0].RecipientIDs {
		if recipient == assistant.ID {
			found = true
		}
	}
	if !found {
		t.Fatal("reassignment event must reach the assistant")
	}
}

func TestLeaveSubmitValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctor := f.createEmployee(t, entity.RoleDoctor, "dr-val")
	actor := entity.Actor{ID: doctor.ID, Role: entity.RoleDoctor}

	t.Run("ReversedRange", func(t *testing.T) {
		_, err := f.leave.Submit(ctx, &dto.SubmitLeaveRequestRequest{
			SubjectID: doctor.ID.String(),
			DateStart: "2026-04-10",
			DateEnd:   "2026-04-08",
			LeaveType: "vacation",
			DayPart:   "full_day",
		}, actor)
		if err != ErrInvalidDateRange {
			t.Fatalf("expected ErrInvalidDateRange, got %v", err)
		}
	})

	t.Run("BadDate", func(t *testing.T) {
		_, err := f.leave.Submit(ctx, &dto.SubmitLeaveRequestRequest{
			SubjectID: doctor.ID.String(),
			DateStart: "next tuesday",
			DateEnd:   "2026-04-08",
			LeaveType: "vacation",
			DayPart:   "full_day",
		}, actor)
		if err != ErrInvalidDateFormat {
			t.Fatalf("expected ErrInvalidDateFormat, got %v", err)
		}
	})
}

func TestPlanningRange(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	doctor := f.createEmployee(t, entity.RoleDoctor, "dr-range")
	manager := f.manager(t)

	for _, date := range []string{"2026-05-04", "2026-05-05", "2026-05-08"} {
		submitted, err := f.work.Submit(ctx, &dto.SubmitWorkRequestRequest{
			SubjectID:     doctor.ID.String(),
			RequestedDate: date,
			DayPart:       "morning",
		}, manager)
		if err != nil {
			t.Fatalf("submit %s: %v", date, err)
		}
		if _, err := f.work.Approve(ctx, submitted.ID, manager); err != nil {
			t.Fatalf("approve %s: %v", date, err)
		}
	}

	board, err := f.planning.GetPlanningRange(ctx, "2026-05-04", "2026-05-06")
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	if board.Total != 2 {
		t.Fatalf("expected 2 entries in range, got %d", board.Total)
	}

	t.Run("ReversedRange", func(t *testing.T) {
		if _, err := f.planning.GetPlanningRange(ctx, "2026-05-06", "2026-05-04"); err != ErrInvalidDateRange {
			t.Fatalf("expected ErrInvalidDateRange, got %v", err)
		}
	})
}
