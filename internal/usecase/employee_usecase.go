package usecase

import (
	"context"
	"errors"

	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrUnknownRole = errors.New("unknown employee role")

type EmployeeUsecase interface {
	ListByRole(ctx context.Context, role string) ([]entity.Employee, error)
}

type employeeUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	employeeRepo repository.EmployeeRepository
}

func NewEmployeeUsecase(db *gorm.DB, log *logrus.Logger, employeeRepo repository.EmployeeRepository) EmployeeUsecase {
	return &employeeUsecase{
		db:           db,
		log:          log,
		employeeRepo: employeeRepo,
	}
}

// ListByRole returns the employees holding one role, for planning and
// pairing overviews.
func (u *employeeUsecase) ListByRole(ctx context.Context, role string) ([]entity.Employee, error) {
	parsed := entity.Role(role)
	if !parsed.IsSchedulable() && !parsed.IsManagerial() {
		return nil, ErrUnknownRole
	}

	employees, err := u.employeeRepo.FindByRole(u.db.WithContext(ctx), parsed)
	if err != nil {
		u.log.Warnf("Failed to list employees with role %s: %+v", role, err)
		return nil, err
	}
	return employees, nil
}
