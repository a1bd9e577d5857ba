package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Planning PlanningConfig
}

type AppConfig struct {
	Port string
	Env  string
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret       string
	AccessExpiry time.Duration
}

// PlanningConfig carries the scheduling policy: per-role half-day capacity,
// room pools and the concurrency guard rails.
type PlanningConfig struct {
	MaxDoctorsPerHalfDay     int
	MaxAssistantsPerHalfDay  int
	MaxSecretariesPerHalfDay int

	DoctorRooms    []string
	AssistantRooms []string
	SecretaryDesks []string
	FallbackRooms  []string

	// AllowPastRequests permits submitting requests for dates already gone.
	AllowPastRequests bool

	// CascadeToWaitingRoom moves an orphaned assistant to the waiting room
	// instead of a fallback room when the paired doctor goes on leave.
	CascadeToWaitingRoom bool

	// LockTimeout bounds how long a mutation waits for the per-(date,
	// employee) exclusivity scope before giving up as busy.
	LockTimeout time.Duration
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	accessExpiry, err := time.ParseDuration(viper.GetString("JWT_ACCESS_EXPIRY"))
	if err != nil {
		accessExpiry = 15 * time.Minute
	}

	lockTimeout, err := time.ParseDuration(viper.GetString("PLANNING_LOCK_TIMEOUT"))
	if err != nil {
		lockTimeout = 3 * time.Second
	}

	config := &Config{
		App: AppConfig{
			Port: viper.GetString("APP_PORT"),
			Env:  viper.GetString("APP_ENV"),
		},
		DB: DBConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Name:     viper.GetString("DB_NAME"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret:       viper.GetString("JWT_SECRET"),
			AccessExpiry: accessExpiry,
		},
		Planning: PlanningConfig{
			MaxDoctorsPerHalfDay:     intOrDefault("PLANNING_MAX_DOCTORS", 4),
			MaxAssistantsPerHalfDay:  intOrDefault("PLANNING_MAX_ASSISTANTS", 4),
			MaxSecretariesPerHalfDay: intOrDefault("PLANNING_MAX_SECRETARIES", 2),
			DoctorRooms:              splitList(viper.GetString("PLANNING_DOCTOR_ROOMS")),
			AssistantRooms:           splitList(viper.GetString("PLANNING_ASSISTANT_ROOMS")),
			SecretaryDesks:           splitList(viper.GetString("PLANNING_SECRETARY_DESKS")),
			FallbackRooms:            splitList(viper.GetString("PLANNING_FALLBACK_ROOMS")),
			AllowPastRequests:        viper.GetBool("PLANNING_ALLOW_PAST_REQUESTS"),
			CascadeToWaitingRoom:     viper.GetBool("PLANNING_CASCADE_TO_WAITING_ROOM"),
			LockTimeout:              lockTimeout,
		},
	}

	return config, nil
}

func intOrDefault(key string, def int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return def
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
