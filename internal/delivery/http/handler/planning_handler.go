package handler

import (
	"net/http"

	"go-clinic-planning/internal/usecase"
	"go-clinic-planning/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type PlanningHandler struct {
	planningUsecase usecase.PlanningUsecase
}

func NewPlanningHandler(planningUsecase usecase.PlanningUsecase) *PlanningHandler {
	return &PlanningHandler{planningUsecase: planningUsecase}
}

// GetByDate returns the whole planning board for one day.
func (h *PlanningHandler) GetByDate(w http.ResponseWriter, r *http.Request) {
	date := mux.Vars(r)["date"]

	result, err := h.planningUsecase.GetPlanning(r.Context(), date)
	if err != nil {
		h.writeError(w, err, "Failed to get planning")
		return
	}

	response.Success(w, http.StatusOK, "Planning retrieved successfully", result)
}

// GetRange returns planning entries between the start and end query params.
func (h *PlanningHandler) GetRange(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	start := query.Get("start")
	end := query.Get("end")

	result, err := h.planningUsecase.GetPlanningRange(r.Context(), start, end)
	if err != nil {
		h.writeError(w, err, "Failed to get planning range")
		return
	}

	response.Success(w, http.StatusOK, "Planning retrieved successfully", result)
}

// GetEmployeeByDate returns one employee's planning entries for a day.
func (h *PlanningHandler) GetEmployeeByDate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	employeeID, err := uuid.Parse(vars["employeeId"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid employee ID", nil)
		return
	}

	result, err := h.planningUsecase.GetEmployeePlanning(r.Context(), employeeID, vars["date"])
	if err != nil {
		h.writeError(w, err, "Failed to get employee planning")
		return
	}

	response.Success(w, http.StatusOK, "Planning retrieved successfully", result)
}

func (h *PlanningHandler) writeError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrInvalidDateFormat:
		response.Error(w, http.StatusBadRequest, "Date must be formatted as YYYY-MM-DD", nil)
	case usecase.ErrInvalidDateRange:
		response.Error(w, http.StatusBadRequest, "End date must not be before start date", nil)
	default:
		response.InternalServerError(w, fallback)
	}
}
