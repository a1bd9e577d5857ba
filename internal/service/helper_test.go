package service

import (
	"io"
	"testing"
	"time"

	"go-clinic-planning/config"
	"go-clinic-planning/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	// A pooled second connection would see a different in-memory database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

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

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func testPlanningConfig() config.PlanningConfig {
	return config.PlanningConfig{
		MaxDoctorsPerHalfDay:     2,
		MaxAssistantsPerHalfDay:  2,
		MaxSecretariesPerHalfDay: 1,
		DoctorRooms:              []string{"Room 1", "Room 2"},
		AssistantRooms:           []string{"Room 5"},
		SecretaryDesks:           []string{"Desk A"},
		FallbackRooms:            []string{"Room 9"},
		AllowPastRequests:        true,
		LockTimeout:              time.Second,
	}
}

func createEmployee(t *testing.T, db *gorm.DB, role entity.Role, name string) *entity.Employee {
	t.Helper()

	employee := &entity.Employee{
		ID:       uuid.New(),
		Email:    name + "@clinic.test",
		FullName: name,
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(employee).Error; err != nil {
		t.Fatalf("create employee: %v", err)
	}
	return employee
}

func createAssignment(t *testing.T, db *gorm.DB, doctorID, assistantID uuid.UUID) {
	t.Helper()

	if err := db.Create(&entity.Assignment{DoctorID: doctorID, AssistantID: assistantID}).Error; err != nil {
		t.Fatalf("create assignment: %v", err)
	}
}

func createSlot(t *testing.T, db *gorm.DB, date time.Time, part entity.DayPart, employee *entity.Employee, room string, requestID *uuid.UUID) *entity.ScheduleSlot {
	t.Helper()

	slot := &entity.ScheduleSlot{
		Date:          date,
		DayPart:       part,
		EmployeeID:    employee.ID,
		EmployeeRole:  employee.Role,
		AssignedRoom:  room,
		WorkRequestID: requestID,
	}
	if err := db.Create(slot).Error; err != nil {
		t.Fatalf("create slot: %v", err)
	}
	return slot
}

func day(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}
