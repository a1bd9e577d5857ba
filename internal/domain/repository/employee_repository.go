package repository

import (
	"go-clinic-planning/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeRepository interface {
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Employee, error)
	FindByRole(db *gorm.DB, role entity.Role) ([]entity.Employee, error)
}
