package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Redis    RedisConfig
	DB       DBConfig
	Auth     AuthConfig
	Gateway  GatewayConfig
	Services ServicesConfig
	Payroll  PayrollConfig
	Timezone string
}

type DBConfig struct {
	DSN string
}

type AuthConfig struct {
	AdminPIN  string
	JWTSecret string
	TokenTTL  time.Duration
}

type GatewayConfig struct {
	Port      string
	RateLimit string
}

type ServicesConfig struct {
	AttendanceAddr string
	PayrollAddr    string
	AttendancePort string
	PayrollPort    string
}

type PayrollConfig struct {
	DraftTTL time.Duration
}

func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return Config{
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		DB: DBConfig{
			DSN: getEnv("DB_DSN", ""),
		},
		Auth: AuthConfig{
			AdminPIN:  getEnv("ADMIN_PIN", ""),
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getDuration("ADMIN_TOKEN_TTL", 8*time.Hour),
		},
		Gateway: GatewayConfig{
			Port:      getEnv("GATEWAY_PORT", "8080"),
			RateLimit: getEnv("RATE_LIMIT", "60-M"),
		},
		Services: ServicesConfig{
			AttendanceAddr: getEnv("ATTENDANCE_SERVICE_ADDR", "localhost:50061"),
			PayrollAddr:    getEnv("PAYROLL_SERVICE_ADDR", "localhost:50062"),
			AttendancePort: getEnv("ATTENDANCE_SERVICE_PORT", "50061"),
			PayrollPort:    getEnv("PAYROLL_SERVICE_PORT", "50062"),
		},
		Payroll: PayrollConfig{
			DraftTTL: getDuration("PAYROLL_DRAFT_TTL", 24*time.Hour),
		},
		Timezone: getEnv("TIMEZONE", "America/Mexico_City"),
	}
}

// Location resolves the zone used for day boundaries.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// RequireAuth fails when the admin gate has no PIN or signing secret.
func (c Config) RequireAuth() error {
	if c.Auth.AdminPIN == "" {
		return fmt.Errorf("ADMIN_PIN is required")
	}
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using %s", key, raw, defaultValue)
		return defaultValue
	}
	return d
}
