package handler

import (
	"encoding/json"
	"net/http"

	"go-clinic-planning/internal/delivery/dto"
	"go-clinic-planning/internal/delivery/http/middleware"
	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/service"
	"go-clinic-planning/internal/usecase"
	"go-clinic-planning/pkg/response"
	"go-clinic-planning/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type WorkRequestHandler struct {
	workRequestUsecase usecase.WorkRequestUsecase
	validator          *validator.CustomValidator
}

func NewWorkRequestHandler(workRequestUsecase usecase.WorkRequestUsecase, validator *validator.CustomValidator) *WorkRequestHandler {
	return &WorkRequestHandler{
		workRequestUsecase: workRequestUsecase,
		validator:          validator,
	}
}

func (h *WorkRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.SubmitWorkRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.workRequestUsecase.Submit(r.Context(), &req, actor)
	if err != nil {
		switch err {
		case usecase.ErrEmployeeNotFound:
			response.NotFound(w, "Employee not found")
		case usecase.ErrSubjectInactive:
			response.Error(w, http.StatusConflict, "Employee is not active", nil)
		case usecase.ErrSubjectNotSchedulable:
			response.Error(w, http.StatusConflict, "Employee role cannot be scheduled", nil)
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Date must be formatted as YYYY-MM-DD", nil)
		case usecase.ErrPastDate:
			response.Error(w, http.StatusBadRequest, "Cannot request a date in the past", nil)
		default:
			response.InternalServerError(w, "Failed to submit work request")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Work request submitted successfully", result)
}

func (h *WorkRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	result, err := h.workRequestUsecase.Approve(r.Context(), requestID, actor)
	if err != nil {
		h.writeMutationError(w, err, "Failed to approve work request")
		return
	}

	response.Success(w, http.StatusOK, "Work request approved successfully", result)
}

func (h *WorkRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	result, err := h.workRequestUsecase.Reject(r.Context(), requestID, actor)
	if err != nil {
		h.writeMutationError(w, err, "Failed to reject work request")
		return
	}

	response.Success(w, http.StatusOK, "Work request rejected successfully", result)
}

func (h *WorkRequestHandler) RequestCancellation(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	var req dto.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.workRequestUsecase.RequestCancellation(r.Context(), requestID, actor, req.Reason)
	if err != nil {
		h.writeMutationError(w, err, "Failed to request cancellation")
		return
	}

	response.Success(w, http.StatusOK, "Cancellation requested successfully", result)
}

func (h *WorkRequestHandler) ApproveCancellation(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	var req dto.DecisionRequest
	if r.Body != nil {
		// Body is optional for a cancellation approval
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	result, err := h.workRequestUsecase.ApproveCancellation(r.Context(), requestID, actor, req.Comment)
	if err != nil {
		h.writeMutationError(w, err, "Failed to approve cancellation")
		return
	}

	response.Success(w, http.StatusOK, "Cancellation approved successfully", result)
}

func (h *WorkRequestHandler) CancelDirectly(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	requestID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request ID", nil)
		return
	}

	var req dto.CancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.workRequestUsecase.CancelDirectly(r.Context(), requestID, actor, req.Reason)
	if err != nil {
		h.writeMutationError(w, err, "Failed to cancel work request")
		return
	}

	response.Success(w, http.StatusOK, "Work request cancelled successfully", result)
}

func (h *WorkRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.RequestFilter{
		SubjectID: query.Get("subject_id"),
		Status:    query.Get("status"),
		StartAt:   query.Get("start_at"),
		EndAt:     query.Get("end_at"),
	}

	result, err := h.workRequestUsecase.List(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list work requests")
		return
	}

	response.Success(w, http.StatusOK, "Work requests retrieved successfully", result)
}

func (h *WorkRequestHandler) writeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrRequestNotFound:
		response.NotFound(w, "Work request not found")
	case usecase.ErrEmployeeNotFound:
		response.NotFound(w, "Employee not found")
	case usecase.ErrNotAllowed:
		response.Forbidden(w, "You are not allowed to perform this action")
	case entity.ErrInvalidState:
		response.Error(w, http.StatusConflict, "Request is not in a state that allows this action", nil)
	case service.ErrBusy:
		response.Error(w, http.StatusConflict, "Schedule is busy, please retry", nil)
	case service.ErrCapacityExceeded:
		response.Error(w, http.StatusConflict, "Half-day capacity for this role is exhausted", nil)
	case service.ErrSlotConflict:
		response.Error(w, http.StatusConflict, "A conflicting planning entry already exists", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
