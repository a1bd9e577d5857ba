package repository

import (
	"time"

	"go-clinic-planning/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ScheduleSlotRepository interface {
	Create(db *gorm.DB, slot *entity.ScheduleSlot) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.ScheduleSlot, error)
	FindByKey(db *gorm.DB, date time.Time, part entity.DayPart, employeeID uuid.UUID) (*entity.ScheduleSlot, error)
	FindByDate(db *gorm.DB, date time.Time) ([]entity.ScheduleSlot, error)
	FindByDateRange(db *gorm.DB, start, end time.Time) ([]entity.ScheduleSlot, error)
	FindByEmployeeAndDate(db *gorm.DB, employeeID uuid.UUID, date time.Time) ([]entity.ScheduleSlot, error)
	FindByWorkRequestID(db *gorm.DB, requestID uuid.UUID) ([]entity.ScheduleSlot, error)
	CountByDatePartRole(db *gorm.DB, date time.Time, part entity.DayPart, role entity.Role) (int64, error)
	RoomsInUse(db *gorm.DB, date time.Time, part entity.DayPart) ([]string, error)
	Update(db *gorm.DB, slot *entity.ScheduleSlot) error
	Delete(db *gorm.DB, id uuid.UUID) (int64, error)
	DeleteByKey(db *gorm.DB, date time.Time, part entity.DayPart, employeeID uuid.UUID) (int64, error)
}
