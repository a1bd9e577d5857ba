package usecase

import (
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"go-clinic-planning/config"
	"go-clinic-planning/internal/domain/entity"
	"go-clinic-planning/internal/repository"
	"go-clinic-planning/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// recordingNotifier captures published events for assertions.
type recordingNotifier struct {
	mu     sync.Mutex
	events []service.Event
}

func (n *recordingNotifier) Notify(ctx context.Context, event service.Event) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, event)
	return nil
}

func (n *recordingNotifier) byType(eventType string) []service.Event {
	n.mu.Lock()
	defer n.mu.Unlock()
	var matched []service.Event
	for _, event := range n.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

type fixture struct {
	db       *gorm.DB
	cfg      config.PlanningConfig
	notifier *recordingNotifier
	locks    *service.ScheduleLockService
	work     WorkRequestUsecase
	leave    LeaveRequestUsecase
	planning PlanningUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	err = db.AutoMigrate(
		&entity.Employee{},
		&entity.Assignment{},
		&entity.WorkRequest{},
		&entity.LeaveRequest{},
		&entity.ScheduleSlot{},
		&entity.AuditLog{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	cfg := config.PlanningConfig{
		MaxDoctorsPerHalfDay:    2,
		MaxAssistantsPerHalfDay: 2,
		DoctorRooms:             []string{"Room 1", "Room 2"},
		AssistantRooms:          []string{"Room 5"},
		SecretaryDesks:          []string{"Desk A"},
		FallbackRooms:           []string{"Room 9"},
		AllowPastRequests:       true,
		LockTimeout:             2 * time.Second,
	}

	employeeRepo := repository.NewEmployeeRepository()
	workRepo := repository.NewWorkRequestRepository()
	leaveRepo := repository.NewLeaveRequestRepository()
	slotRepo := repository.NewScheduleSlotRepository()
	assignmentRepo := repository.NewAssignmentRepository()
	auditRepo := repository.NewAuditLogRepository()

	locks := service.NewScheduleLockService(cfg.LockTimeout, log)
	t.Cleanup(locks.Stop)
	capacity := service.NewCapacityPolicy(cfg, slotRepo)
	rooms := service.NewRoomAllocator(cfg, slotRepo, assignmentRepo)
	materializer := service.NewMaterializer(log, slotRepo, capacity, rooms)
	cascade := service.NewCascadeResolver(log, slotRepo, assignmentRepo, rooms)
	audit := service.NewAuditService(log, auditRepo)
	notifier := &recordingNotifier{}

	return &fixture{
		db:       db,
		cfg:      cfg,
		notifier: notifier,
		locks:    locks,
		work:     NewWorkRequestUsecase(db, log, cfg, workRepo, employeeRepo, materializer, locks, audit, notifier),
		leave:    NewLeaveRequestUsecase(db, log, cfg, leaveRepo, employeeRepo, materializer, cascade, locks, audit, notifier),
		planning: NewPlanningUsecase(db, log, slotRepo),
	}
}

func (f *fixture) createEmployee(t *testing.T, role entity.Role, name string) *entity.Employee {
	t.Helper()

	employee := &entity.Employee{
		ID:       uuid.New(),
		Email:    name + "@clinic.test",
		FullName: name,
		Role:     role,
		IsActive: true,
	}
	if err := f.db.Create(employee).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return employee
}

func (f *fixture) manager(t *testing.T) entity.Actor {
	t.Helper()
	return entity.Actor{ID: f.createEmployee(t, entity.RoleManager, "mgr-"+uuid.NewString()[:8]).ID, Role: entity.RoleManager}
}

func (f *fixture) slotCount(t *testing.T, employeeID uuid.UUID) int64 {
	t.Helper()

	var count int64
	if err := f.db.Model(&entity.ScheduleSlot{}).Where("employee_id = ?", employeeID).Count(&count).Error; err != nil {
		t.Fatalf("count slots: %v", err)
	}
	return count
}
