package service

import (
	"errors"
	"time"

	"go-clinic-planning/config"
	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/domain/repository"

	"gorm.io/gorm"
)

// ErrCapacityExceeded is a soft failure: the half-day already holds the
// configured maximum for the role. The caller may retry another date.
var ErrCapacityExceeded = errors.New("half-day capacity for this role is exhausted")

// CapacityPolicy decides whether a new slot may be placed for a given
// date, half-day and role, against the configured per-role maxima.
type CapacityPolicy struct {
	cfg      config.PlanningConfig
	slotRepo repository.ScheduleSlotRepository
}

func NewCapacityPolicy(cfg config.PlanningConfig, slotRepo repository.ScheduleSlotRepository) *CapacityPolicy {
	return &CapacityPolicy{
		cfg:      cfg,
		slotRepo: slotRepo,
	}
}

// MayPlace evaluates the current slot count for (date, part, role), excluding
// the slot about to be placed. A configured maximum of zero or less means the
// role is not capped.
func (p *CapacityPolicy) MayPlace(db *gorm.DB, date time.Time, part entity.DayPart, role entity.Role) error {
	max := p.maxFor(role)
	if max <= 0 {
		return nil
	}

	count, err := p.slotRepo.CountByDatePartRole(db, date, part, role)
	if err != nil {
		return err
	}
	if count >= int64(max) {
		return ErrCapacityExceeded
	}
	return nil
}

func (p *CapacityPolicy) maxFor(role entity.Role) int {
	switch role {
	case entity.RoleDoctor:
		return p.cfg.MaxDoctorsPerHalfDay
	case entity.RoleAssistant:
		return p.cfg.MaxAssistantsPerHalfDay
	case entity.RoleSecretary:
		return p.cfg.MaxSecretariesPerHalfDay
	default:
		return 0
	}
}
