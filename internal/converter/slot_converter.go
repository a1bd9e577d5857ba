package converter

import (
	"go-clinic-planning/internal/delivery/dto"
	"go-clinic-planning/internal/domain/entity"

	"github.com/google/uuid"
)

// SlotToResponse converts a ScheduleSlot entity to its response DTO
func SlotToResponse(slot *entity.ScheduleSlot) *dto.ScheduleSlotResponse {
	if slot == nil {
		return nil
	}

	response := &dto.ScheduleSlotResponse{
		ID:           slot.ID,
		Date:         slot.Date.Format("2006-01-02"),
		DayPart:      string(slot.DayPart),
		EmployeeID:   slot.EmployeeID,
		EmployeeRole: string(slot.EmployeeRole),
		AssignedRoom: slot.AssignedRoom,
		WaitingRoom:  slot.WaitingRoom,
		Notes:        slot.Notes,
		CreatedAt:    slot.CreatedAt,
	}

	if slot.Employee.ID != uuid.Nil {
		response.EmployeeName = slot.Employee.FullName
	}

	return response
}

// SlotsToResponses converts a slice of ScheduleSlot entities
func SlotsToResponses(slots []entity.ScheduleSlot) []dto.ScheduleSlotResponse {
	responses := make([]dto.ScheduleSlotResponse, len(slots))
	for i, slot := range slots {
		resp := SlotToResponse(&slot)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}
