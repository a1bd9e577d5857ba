package repository

import (
	"errors"
	"time"

	"go-clinic-planning/internal/domain/entity"
	domainRepo "go-clinic-planning/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type scheduleSlotRepository struct{}

func NewScheduleSlotRepository() domainRepo.ScheduleSlotRepository {
	return &scheduleSlotRepository{}
}

func (r *scheduleSlotRepository) Create(db *gorm.DB, slot *entity.ScheduleSlot) error {
	return db.Create(slot).Error
}

func (r *scheduleSlotRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.ScheduleSlot, error) {
	var slot entity.ScheduleSlot
	err := db.Where("id = ?", id).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *scheduleSlotRepository) FindByKey(db *gorm.DB, date time.Time, part entity.DayPart, employeeID uuid.UUID) (*entity.ScheduleSlot, error) {
	var slot entity.ScheduleSlot
	err := db.Where("date = ? AND day_part = ? AND employee_id = ?", date, part, employeeID).First(&slot).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &slot, nil
}

func (r *scheduleSlotRepository) FindByDate(db *gorm.DB, date time.Time) ([]entity.ScheduleSlot, error) {
	var slots []entity.ScheduleSlot
	err := db.Preload("Employee").
		Where("date = ?", date).
		Order("day_part ASC, employee_role ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *scheduleSlotRepository) FindByDateRange(db *gorm.DB, start, end time.Time) ([]entity.ScheduleSlot, error) {
	var slots []entity.ScheduleSlot
	err := db.Preload("Employee").
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC, day_part ASC, employee_role ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *scheduleSlotRepository) FindByEmployeeAndDate(db *gorm.DB, employeeID uuid.UUID, date time.Time) ([]entity.ScheduleSlot, error) {
	var slots []entity.ScheduleSlot
	err := db.Where("employee_id = ? AND date = ?", employeeID, date).
		Order("day_part ASC").
		Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *scheduleSlotRepository) FindByWorkRequestID(db *gorm.DB, requestID uuid.UUID) ([]entity.ScheduleSlot, error) {
	var slots []entity.ScheduleSlot
	err := db.Where("work_request_id = ?", requestID).Find(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

func (r *scheduleSlotRepository) CountByDatePartRole(db *gorm.DB, date time.Time, part entity.DayPart, role entity.Role) (int64, error) {
	var count int64
	err := db.Model(&entity.ScheduleSlot{}).
		Where("date = ? AND day_part = ? AND employee_role = ?", date, part, role).
		Count(&count).Error
	return count, err
}

func (r *scheduleSlotRepository) RoomsInUse(db *gorm.DB, date time.Time, part entity.DayPart) ([]string, error) {
	var rooms []string
	err := db.Model(&entity.ScheduleSlot{}).
		Where("date = ? AND day_part = ? AND assigned_room <> ''", date, part).
		Pluck("assigned_room", &rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *scheduleSlotRepository) Update(db *gorm.DB, slot *entity.ScheduleSlot) error {
	return db.Omit("Employee").Save(slot).Error
}

func (r *scheduleSlotRepository) Delete(db *gorm.DB, id uuid.UUID) (int64, error) {
	affected := db.Where("id = ?", id).Delete(&entity.ScheduleSlot{})
	return affected.RowsAffected, affected.Error
}

func (r *scheduleSlotRepository) DeleteByKey(db *gorm.DB, date time.Time, part entity.DayPart, employeeID uuid.UUID) (int64, error) {
	affected := db.Where("date = ? AND day_part = ? AND employee_id = ?", date, part, employeeID).
		Delete(&entity.ScheduleSlot{})
	return affected.RowsAffected, affected.Error
}
