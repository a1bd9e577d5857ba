package repository

import (
	"go-clinic-planning/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WorkRequestRepository interface {
	Create(db *gorm.DB, request *entity.WorkRequest) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.WorkRequest, error)
	FindWithFilter(db *gorm.DB, filter *entity.RequestFilter) ([]entity.WorkRequest, error)
	Update(db *gorm.DB, request *entity.WorkRequest) error
}
