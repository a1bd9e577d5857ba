package repository

import (
	"go-clinic-planning/internal/domain/entity"
	domainRepo "go-clinic-planning/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type assignmentRepository struct{}

func NewAssignmentRepository() domainRepo.AssignmentRepository {
	return &assignmentRepository{}
}

func (r *assignmentRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	err := db.Where("doctor_id = ?", doctorID).Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}

func (r *assignmentRepository) FindByAssistantID(db *gorm.DB, assistantID uuid.UUID) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	err := db.Where("assistant_id = ?", assistantID).Find(&assignments).Error
	if err != nil {
		return nil, err
	}
	return assignments, nil
}
