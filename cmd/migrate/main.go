package main

import (
	"fmt"
	"os"

	"go-clinic-planning/config"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// Applies the SQL migrations in db/migrations. Pass "down" to roll back one
// step, anything else (or nothing) migrates up.
func main() {
	logrus.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.DB.User, cfg.DB.Password, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name,
	)

	m, err := migrate.New("file://db/migrations", dsn)
	if err != nil {
		logrus.Fatalf("Failed to initialize migrations: %v", err)
	}
	defer m.Close()

	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	switch direction {
	case "down":
		err = m.Steps(-1)
	default:
		err = m.Up()
	}

	if err != nil && err != migrate.ErrNoChange {
		logrus.Fatalf("Migration failed: %v", err)
	}

	logrus.Info("Migrations applied successfully")
}
