package converter

import (
	"go-clinic-planning/internal/delivery/dto"
	"go-clinic-planning/internal/domain/entity"
)

// WorkRequestToResponse converts a WorkRequest entity to its response DTO
func WorkRequestToResponse(request *entity.WorkRequest) *dto.WorkRequestResponse {
	if request == nil {
		return nil
	}

	return &dto.WorkRequestResponse{
		ID:            request.ID,
		SubjectID:     request.SubjectID,
		RequestedDate: request.RequestedDate.Format("2006-01-02"),
		DayPart:       string(request.DayPart),
		Status:        string(request.Status),
		Reason:        request.Reason,
		CancelReason:  request.CancelReason,
		CancelledBy:   request.CancelledBy,
		DecidedBy:     request.DecidedBy,
		DecidedAt:     request.DecidedAt,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

// WorkRequestsToResponses converts a slice of WorkRequest entities
func WorkRequestsToResponses(requests []entity.WorkRequest) []dto.WorkRequestResponse {
	responses := make([]dto.WorkRequestResponse, len(requests))
	for i, request := range requests {
		resp := WorkRequestToResponse(&request)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// LeaveRequestToResponse converts a LeaveRequest entity to its response DTO
func LeaveRequestToResponse(request *entity.LeaveRequest) *dto.LeaveRequestResponse {
	if request == nil {
		return nil
	}

	return &dto.LeaveRequestResponse{
		ID:           request.ID,
		SubjectID:    request.SubjectID,
		DateStart:    request.DateStart.Format("2006-01-02"),
		DateEnd:      request.DateEnd.Format("2006-01-02"),
		LeaveType:    string(request.LeaveType),
		DayPart:      string(request.DayPart),
		Status:       string(request.Status),
		Reason:       request.Reason,
		CancelReason: request.CancelReason,
		CancelledBy:  request.CancelledBy,
		DecidedBy:    request.DecidedBy,
		DecidedAt:    request.DecidedAt,
		CreatedAt:    request.CreatedAt,
		UpdatedAt:    request.UpdatedAt,
	}
}

// LeaveRequestsToResponses converts a slice of LeaveRequest entities
func LeaveRequestsToResponses(requests []entity.LeaveRequest) []dto.LeaveRequestResponse {
	responses := make([]dto.LeaveRequestResponse, len(requests))
	for i, request := range requests {
		resp := LeaveRequestToResponse(&request)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
