package http

import (
	"net/http"

	"go-clinic-planning/internal/delivery/http/handler"
	"go-clinic-planning/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router              *mux.Router
	workRequestHandler  *handler.WorkRequestHandler
	leaveRequestHandler *handler.LeaveRequestHandler
	planningHandler     *handler.PlanningHandler
	auditLogHandler     *handler.AuditLogHandler
	employeeHandler     *handler.EmployeeHandler
	authMiddleware      *middleware.AuthMiddleware
	corsMiddleware      *middleware.CORSMiddleware
}

func NewRouter(
	workRequestHandler *handler.WorkRequestHandler,
	leaveRequestHandler *handler.LeaveRequestHandler,
	planningHandler *handler.PlanningHandler,
	auditLogHandler *handler.AuditLogHandler,
	employeeHandler *handler.EmployeeHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
) *Router {
	return &Router{
		router:              mux.NewRouter(),
		workRequestHandler:  workRequestHandler,
		leaveRequestHandler: leaveRequestHandler,
		planningHandler:     planningHandler,
		auditLogHandler:     auditLogHandler,
		employeeHandler:     employeeHandler,
		authMiddleware:      authMiddleware,
		corsMiddleware:      corsMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Requests and planning views (any authenticated employee)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(r.authMiddleware.Authenticate)

	protected.HandleFunc("/work-requests", r.workRequestHandler.Submit).Methods(http.MethodPost)
	protected.HandleFunc("/work-requests", r.workRequestHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/work-requests/{id}/cancellation", r.workRequestHandler.RequestCancellation).Methods(http.MethodPost)

	protected.HandleFunc("/leave-requests", r.leaveRequestHandler.Submit).Methods(http.MethodPost)
	protected.HandleFunc("/leave-requests", r.leaveRequestHandler.List).Methods(http.MethodGet)
	protected.HandleFunc("/leave-requests/{id}/cancellation", r.leaveRequestHandler.RequestCancellation).Methods(http.MethodPost)

	protected.HandleFunc("/planning/range", r.planningHandler.GetRange).Methods(http.MethodGet)
	protected.HandleFunc("/planning/{date}", r.planningHandler.GetByDate).Methods(http.MethodGet)
	protected.HandleFunc("/planning/{date}/employees/{employeeId}", r.planningHandler.GetEmployeeByDate).Methods(http.MethodGet)

	// Decisions (managers and superadmins only)
	managerial := api.PathPrefix("").Subrouter()
	managerial.Use(r.authMiddleware.Authenticate)
	managerial.Use(middleware.RequireManagerial)

	managerial.HandleFunc("/work-requests/{id}/approve", r.workRequestHandler.Approve).Methods(http.MethodPost)
	managerial.HandleFunc("/work-requests/{id}/reject", r.workRequestHandler.Reject).Methods(http.MethodPost)
	managerial.HandleFunc("/work-requests/{id}/cancellation/approve", r.workRequestHandler.ApproveCancellation).Methods(http.MethodPost)
	managerial.HandleFunc("/work-requests/{id}/cancel", r.workRequestHandler.CancelDirectly).Methods(http.MethodPost)

	managerial.HandleFunc("/leave-requests/{id}/approve", r.leaveRequestHandler.Approve).Methods(http.MethodPost)
	managerial.HandleFunc("/leave-requests/{id}/reject", r.leaveRequestHandler.Reject).Methods(http.MethodPost)
	managerial.HandleFunc("/leave-requests/{id}/cancellation/approve", r.leaveRequestHandler.ApproveCancellation).Methods(http.MethodPost)
	managerial.HandleFunc("/leave-requests/{id}/cancel", r.leaveRequestHandler.CancelDirectly).Methods(http.MethodPost)

	managerial.HandleFunc("/audit-logs", r.auditLogHandler.GetRecent).Methods(http.MethodGet)
	managerial.HandleFunc("/employees", r.employeeHandler.ListByRole).Methods(http.MethodGet)

	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
