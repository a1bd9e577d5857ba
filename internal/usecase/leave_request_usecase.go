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

var ErrInvalidDateRange = errors.New("date_end must not be before date_start")

type LeaveRequestUsecase interface {
	Submit(ctx context.Context, req *dto.SubmitLeaveRequestRequest, actor entity.Actor) (*dto.LeaveRequestResponse, error)
	Approve(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.LeaveRequestResponse, error)
	Reject(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.LeaveRequestResponse, error)
	RequestCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string) (*dto.LeaveRequestResponse, error)
	ApproveCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, comment string) (*dto.LeaveRequestResponse, error)
	CancelDirectly(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string) (*dto.LeaveRequestResponse, error)
	List(ctx context.Context, filter *entity.RequestFilter) (*dto.LeaveRequestListResponse, error)
}

type leaveRequestUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	cfg          config.PlanningConfig
	requestRepo  repository.LeaveRequestRepository
	employeeRepo repository.EmployeeRepository
	materializer *service.Materializer
	cascade      *service.CascadeResolver
	locks        *service.ScheduleLockService
	audit        service.AuditService
	notifier     service.Notifier
}

func NewLeaveRequestUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	cfg config.PlanningConfig,
	requestRepo repository.LeaveRequestRepository,
	employeeRepo repository.EmployeeRepository,
	materializer *service.Materializer,
	cascade *service.CascadeResolver,
	locks *service.ScheduleLockService,
	audit service.AuditService,
	notifier service.Notifier,
) LeaveRequestUsecase {
	return &leaveRequestUsecase{
		db:           db,
		log:          log,
		cfg:          cfg,
		requestRepo:  requestRepo,
		employeeRepo: employeeRepo,
		materializer: materializer,
		cascade:      cascade,
		locks:        locks,
		audit:        audit,
		notifier:     notifier,
	}
}

// Submit creates a pending leave request after validating the subject and
// the date range.
func (u *leaveRequestUsecase) Submit(ctx context.Context, req *dto.SubmitLeaveRequestRequest, actor entity.Actor) (*dto.LeaveRequestResponse, error) {
	subjectID, err := uuid.Parse(req.SubjectID)
	if err != nil {
		return nil, ErrEmployeeNotFound
	}

	dateStart, err := time.Parse("2006-01-02", req.DateStart)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	dateEnd, err := time.Parse("2006-01-02", req.DateEnd)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if dateEnd.Before(dateStart) {
		return nil, ErrInvalidDateRange
	}

	if !u.cfg.AllowPastRequests {
		today := time.Now().UTC().Truncate(24 * time.Hour)
		if dateStart.Before(today) {
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

	request := &entity.LeaveRequest{
		SubjectID: subjectID,
		DateStart: dateStart,
		DateEnd:   dateEnd,
		LeaveType: entity.LeaveType(req.LeaveType),
		DayPart:   entity.DayPart(req.DayPart),
		Status:    entity.StatusPending,
		Reason:    req.Reason,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.requestRepo.Create(tx, request); err != nil {
		u.log.Warnf("Failed to create leave request: %+v", err)
		return nil, err
	}

	u.audit.LogCreate(tx, &actor.ID, entity.AuditActionLeaveRequestSubmit, "leave_request", request.ID.String(), map[string]interface{}{
		"subject_id": request.SubjectID.String(),
		"date_start": req.DateStart,
		"date_end":   req.DateEnd,
		"day_part":   req.DayPart,
		"leave_type": req.LeaveType,
	})

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.log.Infof("Leave request submitted: id=%s, subject=%s, range=%s..%s",
		request.ID, request.SubjectID, req.DateStart, req.DateEnd)
	return converter.LeaveRequestToResponse(request), nil
}

// Approve marks the leave approved, removes the subject's planning entries
// over the covered range and, when the subject is a doctor, cascades the
// room changes to paired assistants. All in one transaction.
func (u *leaveRequestUsecase) Approve(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.LeaveRequestResponse, error) {
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

	if err := request.MarkApproved(actor.ID); err != nil {
		return nil, err
	}

	if _, err := u.materializer.ApplyLeave(tx, request); err != nil {
		u.log.Warnf("Failed to clear planning for leave %s, request stays pending: %+v", id, err)
		return nil, err
	}

	var reassigned []uuid.UUID
	if subject.Role == entity.RoleDoctor {
		reassigned, err = u.cascade.ResolveDoctorLeave(tx, request)
		if err != nil {
			u.log.Warnf("Cascade failed for leave %s, request stays pending: %+v", id, err)
			return nil, err
		}
	}

	if err := u.requestRepo.Update(tx, request); err != nil {
		return nil, err
	}

	u.audit.LogTransition(tx, &actor.ID, entity.AuditActionLeaveRequestApprove, "leave_request", request.ID.String(), entity.StatusPending, entity.StatusApproved)
	if len(reassigned) > 0 {
		u.audit.LogCreate(tx, &actor.ID, entity.AuditActionSlotCascadeUpdate, "leave_request", request.ID.String(), reassigned)
	}

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventRequestApproved, request, nil)
	if len(reassigned) > 0 {
		u.publish(ctx, service.EventAssistantReassigned, request, reassigned)
	}
	u.log.Infof("Leave request approved: id=%s, subject=%s, reassigned=%d",
		request.ID, request.SubjectID, len(reassigned))
	return converter.LeaveRequestToResponse(request), nil
}

// Reject declines a pending leave request.
func (u *leaveRequestUsecase) Reject(ctx context.Context, id uuid.UUID, actor entity.Actor) (*dto.LeaveRequestResponse, error) {
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

	u.audit.LogTransition(tx, &actor.ID, entity.AuditActionLeaveRequestReject, "leave_request", request.ID.String(), entity.StatusPending, entity.StatusRejected)

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventRequestRejected, request, nil)
	return converter.LeaveRequestToResponse(request), nil
}

// RequestCancellation moves an approved leave to cancel_pending.
func (u *leaveRequestUsecase) RequestCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string) (*dto.LeaveRequestResponse, error) {
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

	u.audit.LogTransition(tx, &actor.ID, entity.AuditActionLeaveRequestCancel, "leave_request", request.ID.String(), entity.StatusApproved, entity.StatusCancelPending)

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventCancellationRequested, request, nil)
	return converter.LeaveRequestToResponse(request), nil
}

// ApproveCancellation finalizes a leave withdrawal. Cascaded assistant rooms
// are deliberately not restored; rescheduling goes through a fresh approval.
func (u *leaveRequestUsecase) ApproveCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, comment string) (*dto.LeaveRequestResponse, error) {
	if !actor.MayDecide() {
		return nil, ErrNotAllowed
	}
	return u.finalizeCancellation(ctx, id, actor, comment, entity.StatusCancelPending)
}

// CancelDirectly is the manager bypass for an approved leave.
func (u *leaveRequestUsecase) CancelDirectly(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string) (*dto.LeaveRequestResponse, error) {
	if !actor.MayDecide() {
		return nil, ErrNotAllowed
	}
	return u.finalizeCancellation(ctx, id, actor, reason, entity.StatusApproved)
}

func (u *leaveRequestUsecase) finalizeCancellation(ctx context.Context, id uuid.UUID, actor entity.Actor, reason string, expected entity.RequestStatus) (*dto.LeaveRequestResponse, error) {
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
	if err := u.requestRepo.Update(tx, request); err != nil {
		return nil, err
	}

	u.audit.LogTransition(tx, &actor.ID, entity.AuditActionLeaveRequestCancel, "leave_request", request.ID.String(), previous, entity.StatusCancelled)

	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	u.publish(ctx, service.EventRequestCancelled, request, nil)
	u.log.Infof("Leave request cancelled: id=%s, by=%s", request.ID, actor.ID)
	return converter.LeaveRequestToResponse(request), nil
}

// List returns leave requests matching the filter. Read path, no lock.
func (u *leaveRequestUsecase) List(ctx context.Context, filter *entity.RequestFilter) (*dto.LeaveRequestListResponse, error) {
	requests, err := u.requestRepo.FindWithFilter(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list leave requests: %+v", err)
		return nil, err
	}

	return &dto.LeaveRequestListResponse{
		Requests: converter.LeaveRequestsToResponses(requests),
		Total:    len(requests),
	}, nil
}

// lockRequest acquires the exclusivity key of every (date, subject) pair the
// leave covers. For a doctor's leave it also takes the assistant capacity
// scope of each covered half-day: the cascade picks fallback rooms there, and
// those picks must not interleave with concurrent assistant placements. Keys
// are sorted inside Acquire so overlapping ranges cannot deadlock each other.
func (u *leaveRequestUsecase) lockRequest(ctx context.Context, id uuid.UUID) (*entity.LeaveRequest, func(), error) {
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

	var keys []string
	for _, date := range request.Dates() {
		keys = append(keys, service.LockKey(date, request.SubjectID))
		for _, part := range request.DayPart.Halves() {
			keys = append(keys, service.CapacityKey(date, part, subject.Role))
			if subject.Role == entity.RoleDoctor {
				keys = append(keys, service.CapacityKey(date, part, entity.RoleAssistant))
			}
		}
	}

	release, err := u.locks.Acquire(ctx, keys...)
	if err != nil {
		return nil, nil, err
	}
	return request, release, nil
}

func (u *leaveRequestUsecase) publish(ctx context.Context, eventType string, request *entity.LeaveRequest, extraRecipients []uuid.UUID) {
	recipients := append([]uuid.UUID{request.SubjectID}, extraRecipients...)
	event := service.Event{
		Type:         eventType,
		RecipientIDs: recipients,
		Payload: map[string]interface{}{
			"request_id": request.ID.String(),
			"date_start": request.DateStart.Format("2006-01-02"),
			"date_end":   request.DateEnd.Format("2006-01-02"),
			"day_part":   string(request.DayPart),
			"status":     string(request.Status),
		},
	}
	if err := u.notifier.Notify(ctx, event); err != nil {
		u.log.Warnf("Failed to publish %s event for leave %s (non-fatal): %+v", eventType, request.ID, err)
	}
}
