package repository

import (
	"errors"

	"go-clinic-planning/internal/domain/entity"
	domainRepo "go-clinic-planning/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type workRequestRepository struct{}

func NewWorkRequestRepository() domainRepo.WorkRequestRepository {
	return &workRequestRepository{}
}

func (r *workRequestRepository) Create(db *gorm.DB, request *entity.WorkRequest) error {
	return db.Create(request).Error
}

func (r *workRequestRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.WorkRequest, error) {
	var request entity.WorkRequest
	err := db.Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *workRequestRepository) FindWithFilter(db *gorm.DB, filter *entity.RequestFilter) ([]entity.WorkRequest, error) {
	var requests []entity.WorkRequest
	query := db.Model(&entity.WorkRequest{})

	if filter != nil {
		if filter.SubjectID != "" {
			query = query.Where("subject_id = ?", filter.SubjectID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.StartAt != "" {
			query = query.Where("requested_date >= ?", filter.StartAt)
		}
		if filter.EndAt != "" {
			query = query.Where("requested_date <= ?", filter.EndAt)
		}
	}

	err := query.Order("requested_date ASC, created_at ASC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *workRequestRepository) Update(db *gorm.DB, request *entity.WorkRequest) error {
	return db.Omit("Subject").Save(request).Error
}
