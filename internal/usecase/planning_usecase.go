package usecase

import (
	"context"
	"time"

	"go-clinic-planning/internal/converter"
	"go-clinic-planning/internal/delivery/dto"
	"go-clinic-planning/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PlanningUsecase interface {
	GetPlanning(ctx context.Context, date string) (*dto.PlanningResponse, error)
	GetPlanningRange(ctx context.Context, start, end string) (*dto.PlanningResponse, error)
	GetEmployeePlanning(ctx context.Context, employeeID uuid.UUID, date string) (*dto.PlanningResponse, error)
}

type planningUsecase struct {
	db       *gorm.DB
	log      *logrus.Logger
	slotRepo repository.ScheduleSlotRepository
}

func NewPlanningUsecase(db *gorm.DB, log *logrus.Logger, slotRepo repository.ScheduleSlotRepository) PlanningUsecase {
	return &planningUsecase{
		db:       db,
		log:      log,
		slotRepo: slotRepo,
	}
}

// GetPlanning returns every planning entry for one day.
func (u *planningUsecase) GetPlanning(ctx context.Context, date string) (*dto.PlanningResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	slots, err := u.slotRepo.FindByDate(u.db.WithContext(ctx), day)
	if err != nil {
		u.log.Warnf("Failed to load planning for %s: %+v", date, err)
		return nil, err
	}

	return &dto.PlanningResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

// GetPlanningRange returns planning entries between start and end inclusive,
// ordered by date and day part. Used by the week and month views.
func (u *planningUsecase) GetPlanningRange(ctx context.Context, start, end string) (*dto.PlanningResponse, error) {
	startDay, err := time.Parse("2006-01-02", start)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	endDay, err := time.Parse("2006-01-02", end)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if endDay.Before(startDay) {
		return nil, ErrInvalidDateRange
	}

	slots, err := u.slotRepo.FindByDateRange(u.db.WithContext(ctx), startDay, endDay)
	if err != nil {
		u.log.Warnf("Failed to load planning range %s..%s: %+v", start, end, err)
		return nil, err
	}

	return &dto.PlanningResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}

// GetEmployeePlanning returns one employee's entries for a day.
func (u *planningUsecase) GetEmployeePlanning(ctx context.Context, employeeID uuid.UUID, date string) (*dto.PlanningResponse, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	slots, err := u.slotRepo.FindByEmployeeAndDate(u.db.WithContext(ctx), employeeID, day)
	if err != nil {
		u.log.Warnf("Failed to load planning for employee %s on %s: %+v", employeeID, date, err)
		return nil, err
	}

	return &dto.PlanningResponse{
		Slots: converter.SlotsToResponses(slots),
		Total: len(slots),
	}, nil
}
