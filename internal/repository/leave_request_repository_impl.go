package repository

import (
	"errors"

	"go-clinic-planning/internal/domain/entity"
	domainRepo "go-clinic-planning/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type leaveRequestRepository struct{}

func NewLeaveRequestRepository() domainRepo.LeaveRequestRepository {
	return &leaveRequestRepository{}
}

func (r *leaveRequestRepository) Create(db *gorm.DB, request *entity.LeaveRequest) error {
	return db.Create(request).Error
}

func (r *leaveRequestRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.LeaveRequest, error) {
	var request entity.LeaveRequest
	err := db.Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *leaveRequestRepository) FindWithFilter(db *gorm.DB, filter *entity.RequestFilter) ([]entity.LeaveRequest, error) {
	var requests []entity.LeaveRequest
	query := db.Model(&entity.LeaveRequest{})

	if filter != nil {
		if filter.SubjectID != "" {
			query = query.Where("subject_id = ?", filter.SubjectID)
		}
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.StartAt != "" {
			query = query.Where("date_end >= ?", filter.StartAt)
		}
		if filter.EndAt != "" {
			query = query.Where("date_start <= ?", filter.EndAt)
		}
	}

	err := query.Order("date_start ASC, created_at ASC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *leaveRequestRepository) Update(db *gorm.DB, request *entity.LeaveRequest) error {
	return db.Omit("Subject").Save(request).Error
}
