package repository

import (
	"go-clinic-planning/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssignmentRepository interface {
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Assignment, error)
	FindByAssistantID(db *gorm.DB, assistantID uuid.UUID) ([]entity.Assignment, error)
}
