package usecase

import (
	"context"

	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultAuditLogLimit = 50

type AuditLogUsecase interface {
	GetRecent(ctx context.Context, limit int) ([]entity.AuditLog, error)
}

type auditLogUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(db *gorm.DB, log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditLogUsecase {
	return &auditLogUsecase{
		db:        db,
		log:       log,
		auditRepo: auditRepo,
	}
}

// GetRecent returns the newest audit entries, newest first.
func (u *auditLogUsecase) GetRecent(ctx context.Context, limit int) ([]entity.AuditLog, error) {
	if limit <= 0 {
		limit = defaultAuditLogLimit
	}

	logs, err := u.auditRepo.FindRecent(u.db.WithContext(ctx), limit)
	if err != nil {
		u.log.Warnf("Failed to load audit logs: %+v", err)
		return nil, err
	}
	return logs, nil
}
