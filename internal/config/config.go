package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"studytrack-backend/internal/stats"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Database
	DatabaseURL   string
	MigrationsDir string

	// Redis
	RedisURL string

	// JWT
	JWTSecret string

	// Study calendar
	WeekStart time.Weekday
	TimeZone  *time.Location

	// Practice
	PracticeAttemptTTL time.Duration

	// Workers
	WorkerCount int

	// SMTP
	SMTPHost string
	SMTPPort string
	SMTPUser string
	SMTPPass string
	SMTPFrom string

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Env:                getEnvOrDefault("ENV", "development"),
		DatabaseURL:        mustGetEnv("DATABASE_URL"),
		MigrationsDir:      getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:           mustGetEnv("REDIS_URL"),
		JWTSecret:          mustGetEnv("JWT_SECRET"),
		WeekStart:          getEnvAsWeekdayOrDefault("WEEK_START", time.Monday),
		TimeZone:           getEnvAsLocationOrDefault("TIMEZONE", time.UTC),
		PracticeAttemptTTL: time.Duration(getEnvAsIntOrDefault("PRACTICE_ATTEMPT_TTL_MINUTES", 120)) * time.Minute,
		WorkerCount:        getEnvAsIntOrDefault("WORKER_COUNT", 3),
		SMTPHost:           getEnvOrDefault("SMTP_HOST", ""),
		SMTPPort:           getEnvOrDefault("SMTP_PORT", "587"),
		SMTPUser:           getEnvOrDefault("SMTP_USER", ""),
		SMTPPass:           getEnvOrDefault("SMTP_PASS", ""),
		SMTPFrom:           getEnvOrDefault("SMTP_FROM", "noreply@studytrack.app"),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
	}

	return cfg
}

// Week returns the calendar used for weekly study totals.
func (c *Config) Week() stats.WeekConfig {
	return stats.WeekConfig{Start: c.WeekStart, Location: c.TimeZone}
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsWeekdayOrDefault(key string, defaultVal time.Weekday) time.Weekday {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	d, err := stats.ParseWeekday(val)
	if err != nil {
		log.Printf("config: %s: %v, using %s", key, err, defaultVal)
		return defaultVal
	}
	return d
}

func getEnvAsLocationOrDefault(key string, defaultVal *time.Location) *time.Location {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	loc, err := time.LoadLocation(val)
	if err != nil {
		log.Printf("config: %s: %v, using %s", key, err, defaultVal)
		return defaultVal
	}
	return loc
}
