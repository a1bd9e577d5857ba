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

type LeaveRequestHandler struct {
	leaveRequestUsecase usecase.LeaveRequestUsecase
	validator           *validator.CustomValidator
}

func NewLeaveRequestHandler(leaveRequestUsecase usecase.LeaveRequestUsecase, validator *validator.CustomValidator) *LeaveRequestHandler {
	return &LeaveRequestHandler{
		leaveRequestUsecase: leaveRequestUsecase,
		validator:           validator,
	}
}

func (h *LeaveRequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "")
		return
	}

	var req dto.SubmitLeaveRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	result, err := h.leaveRequestUsecase.Submit(r.Context(), &req, actor)
	if err != nil {
		switch err {
		case usecase.ErrEmployeeNotFound:
			response.NotFound(w, "Employee not found")
		case usecase.ErrSubjectInactive:
			response.Error(w, http.StatusConflict, "Employee is not active", nil)
		case usecase.ErrInvalidDateFormat:
			response.Error(w, http.StatusBadRequest, "Dates must be formatted as YYYY-MM-DD", nil)
		case usecase.ErrInvalidDateRange:
			response.Error(w, http.StatusBadRequest, "End date must not be before start date", nil)
		case usecase.ErrPastDate:
			response.Error(w, http.StatusBadRequest, "Cannot request a date in the past", nil)
		default:
			response.InternalServerError(w, "Failed to submit leave request")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Leave request submitted successfully", result)
}

func (h *LeaveRequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.leaveRequestUsecase.Approve(r.Context(), requestID, actor)
	if err != nil {
		h.writeMutationError(w, err, "Failed to approve leave request")
		return
	}

	response.Success(w, http.StatusOK, "Leave request approved successfully", result)
}

func (h *LeaveRequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.leaveRequestUsecase.Reject(r.Context(), requestID, actor)
	if err != nil {
		h.writeMutationError(w, err, "Failed to reject leave request")
		return
	}

	response.Success(w, http.StatusOK, "Leave request rejected successfully", result)
}

func (h *LeaveRequestHandler) RequestCancellation(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.leaveRequestUsecase.RequestCancellation(r.Context(), requestID, actor, req.Reason)
	if err != nil {
		h.writeMutationError(w, err, "Failed to request cancellation")
		return
	}

	response.Success(w, http.StatusOK, "Cancellation requested successfully", result)
}

func (h *LeaveRequestHandler) ApproveCancellation(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.leaveRequestUsecase.ApproveCancellation(r.Context(), requestID, actor, req.Comment)
	if err != nil {
		h.writeMutationError(w, err, "Failed to approve cancellation")
		return
	}

	response.Success(w, http.StatusOK, "Cancellation approved successfully", result)
}

func (h *LeaveRequestHandler) CancelDirectly(w http.ResponseWriter, r *http.Request) {
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

	result, err := h.leaveRequestUsecase.CancelDirectly(r.Context(), requestID, actor, req.Reason)
	if err != nil {
		h.writeMutationError(w, err, "Failed to cancel leave request")
		return
	}

	response.Success(w, http.StatusOK, "Leave request cancelled successfully", result)
}

func (h *LeaveRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := &entity.RequestFilter{
		SubjectID: query.Get("subject_id"),
		Status:    query.Get("status"),
		StartAt:   query.Get("start_at"),
		EndAt:     query.Get("end_at"),
	}

	result, err := h.leaveRequestUsecase.List(r.Context(), filter)
	if err != nil {
		response.InternalServerError(w, "Failed to list leave requests")
		return
	}

	response.Success(w, http.StatusOK, "Leave requests retrieved successfully", result)
}

func (h *LeaveRequestHandler) writeMutationError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrRequestNotFound:
		response.NotFound(w, "Leave request not found")
	case usecase.ErrEmployeeNotFound:
		response.NotFound(w, "Employee not found")
	case usecase.ErrNotAllowed:
		response.Forbidden(w, "You are not allowed to perform this action")
	case entity.ErrInvalidState:
		response.Error(w, http.StatusConflict, "Request is not in a state that allows this action", nil)
	case service.ErrBusy:
		response.Error(w, http.StatusConflict, "Schedule is busy, please retry", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
