package service

import (
	"testing"

	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/repository"
)

func TestCapacityPolicy(t *testing.T) {
	db := newTestDB(t)
	cfg := testPlanningConfig()
	cfg.MaxDoctorsPerHalfDay = 1
	cfg.MaxSecretariesPerHalfDay = 0
	slotRepo := repository.NewScheduleSlotRepository()
	policy := NewCapacityPolicy(cfg, slotRepo)

	date := day("2026-06-01")
	doctor := createEmployee(t, db, entity.RoleDoctor, "dr-cap")
	secretary := createEmployee(t, db, entity.RoleSecretary, "sec-cap")

	t.Run("UnderCap", func(t *testing.T) {
		if err := policy.MayPlace(db, date, entity.DayPartMorning, entity.RoleDoctor); err != nil {
			t.Fatalf("expected placement allowed, got %v", err)
		}
	})

	t.Run("AtCap", func(t *testing.T) {
		createSlot(t, db, date, entity.DayPartMorning, doctor, "Room 1", nil)

		err := policy.MayPlace(db, date, entity.DayPartMorning, entity.RoleDoctor)
		if err != ErrCapacityExceeded {
			t.Fatalf("expected ErrCapacityExceeded, got %v", err)
		}
	})

	t.Run("OtherHalfUnaffected", func(t *testing.T) {
		if err := policy.MayPlace(db, date, entity.DayPartAfternoon, entity.RoleDoctor); err != nil {
			t.Fatalf("expected afternoon placement allowed, got %v", err)
		}
	})

	t.Run("ZeroMeansUncapped", func(t *testing.T) {
		createSlot(t, db, date, entity.DayPartMorning, secretary, "Desk A", nil)

		if err := policy.MayPlace(db, date, entity.DayPartMorning, entity.RoleSecretary); err != nil {
			t.Fatalf("expected uncapped role allowed, got %v", err)
		}
	})
}
