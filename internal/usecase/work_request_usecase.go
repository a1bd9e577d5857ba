package usecase

import (
	"context"
	"errors"
	"time"

	"go-clinic-planning/config"
	"go-clinic-planning/internal/converter"
	"go-clinic-planning/internal/delivery/dto"
	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/domain/repository"
	"go-clinic-planning/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrRequestNotFound       = errors.New("request not found")
	ErrEmployeeNotFound      = errors.New("employee not found")
	ErrSubjectInactive       = errors.New("subject employee is not active")
	ErrSubjectNotSchedulable = errors.New("subject role does not appear on the planning")
	ErrPastDate              = errors.New("requested date is in the past")
	ErrInvalidDateFormat     = errors.New("invalid date format, use YYYY-MM-DD")
	ErrNotAllowed            = errors.New("actor role does not permit this operation")
)

type WorkRequestUsecase interface {
	Submit(ctx context.Context, req *dto.SubmitWorkRequestRequest, actor entity.Actor) (*dto.WorkRequestResponse, error)
	Approve(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.WorkRequestResponse, error)
	Reject(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.WorkRequestResponse, error)
	RequestCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string) (*dto.WorkRequestResponse, error)
	ApproveCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, comment string) (*dto.WorkRequestResponse, error)
	CancelDirectly(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string) (*dto.WorkRequestResponse, error)
	List(ctx context.Context, filter *entity.RequestFilter) (*dto.WorkRequestListResponse, error)
}

type workRequestUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	cfg          config.PlanningConfig
	requestRepo  repository.WorkRequestRepository
	employeeRepo repository.EmployeeRepository
	materializer *service.Materializer
	locks        *service.ScheduleLockService
	audit        service.AuditService
	notifier     service.Notifier
}

func NewWorkRequestUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.PlanningConfig,
	requestRepo repository.WorkRequestRepository,
	employeeRepo repository.EmployeeRepository,
	materializer *service.Materializer,
	locks *service.ScheduleLockService,
	audit service.AuditService,
	notifier service.Notifier,
) WorkRequestUsecase {
	return &workRequestUsecase{
		db:           db,
		log:          log,
		cfg:          cfg,
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		materializer: materializer,
		locks:        locks,
		audit:        audit,
		notifier:     notifier,
	}
}

// Submit creates a pending work request after validating the subject and the
// requested date.
func (u *workRequestUsecase) Submit(ctx context.Context, req *dto.SubmitWorkRequestRequest, actor entity.Actor) (*dto.WorkRequestResponse, error) {
	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return nil, ErrEmployeeNotFound
	}

	requestedDate, err := time.Parse("2006-01-02", req.RequestedDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	if !u.cfg.AllowPastRequests {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if requestedDate.Before(today) {
			return nil, ErrPastDate
		}
	}

	subject, err := u.employeeRepo.FindByID(u.db.WithContext(ctx), subjectID)
	if err != nil {
		u.log.Warnf("Failed to find employee %s: %+v", subjectID, err)
		return nil, err
	}
	if subject == nil {
		return nil, ErrEmployeeNotFound
	}
	if !subject.IsActive {
		return nil, ErrSubjectInactive
	}
	if !subject.Role.IsSchedulable() {
		return nil, ErrSubjectNotSchedulable
	}

	request := &entity.WorkRequest{
		SubjectID:     subjectID,
		RequestedDate: requestedDate,
		DayPart:       entity.DayPart(req.DayPart),
		Status:        entity.StatusPending,
		Reason:        req.Reason,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requestRepo.Create(tx, request); err != nil {
		u.log.Warnf("Failed to create work request: %+v", err)
		return nil, err
	}

	u.audit.LogCreate(tx, &actor.ID, entity.AuditActionWorkRequestSubmit, "work_request", request.ID.String(), map[string]interface{}{
		"subject_id":     request.SubjectID.String(),
		"requested_date": req.RequestedDate,
		"day_part":       req.DayPart,
	})

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Work request submitted: id=%s, subject=%s, date=%s, part=%s",
		request.ID, request.SubjectID, req.RequestedDate, req.DayPart)
	return converter.WorkRequestToResponse(request), nil
}

// Approve materializes the request and flips it to approved in one
// transaction. If any half-day placement fails, nothing is written and the
// request stays pending so the caller can retry.
func (u *workRequestUsecase) Approve(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.WorkRequestResponse, error) {
	if !actor.MayDecide() {
		return nil, ErrNotAllowed
	}

	request, release, err := u.lockRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	// Re-read under the exclusivity scope
	request, err = u.requestRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if !request.IsPending() {
		return nil, entity.ErrInvalidState
	}

	subject, err := u.employeeRepo.FindByID(tx, request.SubjectID)
	if err != nil {
		return nil, err
	}
	if subject == nil {
		return nil, ErrEmployeeNotFound
	}

	if _, err := u.materializer.Materialize(tx, request, subject); err != nil {
		u.log.Warnf("Materialization failed for request %s, request stays pending: %+v", id, err)
		return nil, err
	}

	if err := request.MarkApproved(actor.ID); err != nil {
		return nil, err
	}
	if err := u.requestRepo.Update(tx, request); err != nil {
		u.log.Warnf("Failed to update request %s: %+v", id, err)
		return nil, err
	}

	u.audit.LogTransition(tx, &actor.ID, entity.AuditActionWorkRequestApprove, "work_request", request.ID.String(), entity.StatusPending, entity.StatusApproved)

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventRequestApproved, request)
	u.log.Infof("Work request approved: id=%s, subject=%s", request.ID, request.SubjectID)
	return converter.WorkRequestToResponse(request), nil
}

// Reject declines a pending request. No slot side effects.
func (u *workRequestUsecase) Reject(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.WorkRequestResponse, error) {
	if !actor.MayDecide() {
		return nil, ErrNotAllowed
	}

	request, release, err := u.lockRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	request, err = u.requestRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	if err := request.MarkRejected(actor.ID); err != nil {
		return nil, err
	}
	if err := u.requestRepo.Update(tx, request); err != nil {
		return nil, err
	}

	u.audit.LogTransition(tx, &actor.ID, entity.AuditActionWorkRequestReject, "work_request", request.ID.String(), entity.StatusPending, entity.StatusRejected)

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventRequestRejected, request)
	return converter.WorkRequestToResponse(request), nil
}

// RequestCancellation moves an approved request to cancel_pending. Only the
// subject themselves or a manager may withdraw.
func (u *workRequestUsecase) RequestCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string) (*dto.WorkRequestResponse, error) {
	request, release, err := u.lockRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	if !actor.MayWithdraw(request.SubjectID) {
		return nil, ErrNotAllowed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	request, err = u.requestRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	if err := request.MarkCancelPending(actor.ID, reason); err != nil {
		return nil, err
	}
	if err := u.requestRepo.Update(tx, request); err != nil {
		return nil, err
	}

	u.audit.LogTransition(tx, &actor.ID, entity.AuditActionWorkRequestCancel, "work_request", request.ID.String(), entity.StatusApproved, entity.StatusCancelPending)

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventCancellationRequested, request)
	return converter.WorkRequestToResponse(request), nil
}

// ApproveCancellation finalizes a withdrawal: removes the materialized slots
// and marks the request cancelled, atomically.
func (u *workRequestUsecase) ApproveCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, comment string) (*dto.WorkRequestResponse, error) {
	if !actor.MayDecide() {
		return nil, ErrNotAllowed
	}
	return u.finalizeCancellation(ctx, id, actor, comment, entity.StatusCancelPending)
}

// CancelDirectly is the manager bypass: an approved request is cancelled
// without going through cancel_pending.
func (u *workRequestUsecase) CancelDirectly(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string) (*dto.WorkRequestResponse, error) {
	if !actor.MayDecide() {
		return nil, ErrNotAllowed
	}
	return u.finalizeCancellation(ctx, id, actor, reason, entity.StatusApproved)
}

func (u *workRequestUsecase) finalizeCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string, expected entity.RequestStatus) (*dto.WorkRequestResponse, error) {
	request, release, err := u.lockRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	defer release()

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	request, err = u.requestRepo.FindByID(tx, id)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}
	if request.Status != expected {
		return nil, entity.ErrInvalidState
	}

	previous := request.Status
	if err := request.MarkCancelled(actor.ID, reason); err != nil {
		return nil, err
	}

	if _, err := u.materializer.Dematerialize(tx, request); err != nil {
		u.log.Warnf("Failed to remove slots for request %s: %+v", id, err)
		return nil, err
	}

	if err := u.requestRepo.Update(tx, request); err != nil {
		return nil, err
	}

	u.audit.LogTransition(tx, &actor.ID, entity.AuditActionWorkRequestCancel, "work_request", request.ID.String(), previous, entity.StatusCancelled)

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventRequestCancelled, request)
	u.log.Infof("Work request cancelled: id=%s, by=%s", request.ID, actor.ID)
	return converter.WorkRequestToResponse(request), nil
}

// List returns requests matching the filter. Read path, no lock.
func (u *workRequestUsecase) List(ctx context.Context, filter *entity.RequestFilter) (*dto.WorkRequestListResponse, error) {
	requests, err := u.requestRepo.FindWithFilter(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list work requests: %+v", err)
		return nil, err
	}

	return &dto.WorkRequestListResponse{
		Requests: converter.WorkRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

// lockRequest acquires the subject's exclusivity key plus the capacity scope
// of every half-day the request touches. The capacity keys serialize slot
// writes for the same (date, half-day, role) across different employees, so
// the count-then-insert in the materializer and the room pick cannot
// interleave with a concurrent approval.
func (u *workRequestUsecase) lockRequest(ctx context.Context, id uuid.UUID) (*entity.WorkRequest, func(), error) {
	request, err := u.requestRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		return nil, nil, err
	}
	if request == nil {
		return nil, nil, ErrRequestNotFound
	}

	subject, err := u.employeeRepo.FindByID(u.db.WithContext(ctx), request.SubjectID)
	if err != nil {
		return nil, nil, err
	}
	if subject == nil {
		return nil, nil, ErrEmployeeNotFound
	}

	keys := []string{service.LockKey(request.RequestedDate, request.SubjectID)}
	for _, part := range request.DayPart.Halves() {
		keys = append(keys, service.CapacityKey(request.RequestedDate, part, subject.Role))
	}

	release, err := u.locks.Acquire(ctx, keys...)
	if err != nil {
		return nil, nil, err
	}
	return request, release, nil
}

func (u *workRequestUsecase) publish(ctx context.Context, eventType string, request *entity.WorkRequest) {
	event := service.Event{
		Type:         eventType,
		RecipientIDs: []uuid.UUID{request.SubjectID},
		Payload: map[string]interface{}{
			"request_id": request.ID.String(),
			"date":       request.RequestedDate.Format("2006-01-02"),
			"day_part":   string(request.DayPart),
			"status":     string(request.Status),
		},
	}
	if err := u.notifier.Notify(ctx, event); err != nil {
		u.log.Warnf("Failed to publish %s event for request %s (non-fatal): %+v", eventType, request.ID, err)
	}
}
