package handler

import (
	"net/http"
	"strconv"

	"go-clinic-planning/internal/usecase"
	"go-clinic-planning/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	auditLogs, err := h.auditLogUsecase.GetRecent(r.Context(), limit)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	meta := &response.Meta{
		Limit: limit,
		Total: int64(len(auditLogs)),
	}
	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs, meta)
}
