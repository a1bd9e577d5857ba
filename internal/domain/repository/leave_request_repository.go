package repository

import (
	"go-clinic-planning/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LeaveRequestRepository interface {
	Create(db *gorm.DB, request *entity.LeaveRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.LeaveRequest, error)
	FindWithFilter(db *gorm.DB, filter *entity.RequestFilter) ([]entity.LeaveRequest, error)
	Update(db *gorm.DB, request *entity.LeaveRequest) error
}
