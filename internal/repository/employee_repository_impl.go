package repository

import (
	"errors"

	"go-clinic-planning/internal/domain/entity"
	domainRepo "go-clinic-planning/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type employeeRepository struct{}

func NewEmployeeRepository() domainRepo.EmployeeRepository {
	return &employeeRepository{}
}

func (r *employeeRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Employee, error) {
	var employee entity.Employee
	err := db.Where("id = ?", id).First(&employee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) FindByRole(db *gorm.DB, role entity.Role) ([]entity.Employee, error) {
	var employees []entity.Employee
	err := db.Where("role = ?", role).Order("full_name ASC").Find(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}
