package handler

import (
	"net/http"

	"go-clinic-planning/internal/usecase"
	"go-clinic-planning/pkg/response"
)

type EmployeeHandler struct {
	employeeUsecase usecase.EmployeeUsecase
}

func NewEmployeeHandler(employeeUsecase usecase.EmployeeUsecase) *EmployeeHandler {
	return &EmployeeHandler{
		employeeUsecase: employeeUsecase,
	}
}

func (h *EmployeeHandler) ListByRole(w http.ResponseWriter, r *http.Request) {
	role := r.URL.Query().Get("role")

	employees, err := h.employeeUsecase.ListByRole(r.Context(), role)
	if err != nil {
		if err == usecase.ErrUnknownRole {
			response.Error(w, http.StatusBadRequest, "Unknown employee role", nil)
			return
		}
		response.InternalServerError(w, "Failed to list employees")
		return
	}

	response.Success(w, http.StatusOK, "Employees retrieved successfully", employees)
}
