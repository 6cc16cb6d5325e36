// Package config loads service settings from the environment. A .env file in
// the working directory is read first when present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/leave-entitlement/holidays"
)

type Config struct {
	Addr           string
	DBPath         string
	HolidayAPIURL  string
	HolidayTimeout time.Duration
	PolicyFile     string
	CORSOrigins    []string
	MetricsEnabled bool
	Environment    string
}

// Load reads .env (if any) and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		Addr:           getEnv("APP_ADDR", ":8080"),
		DBPath:         getEnv("DB_PATH", "leave.db"),
		HolidayAPIURL:  getEnv("HOLIDAY_API_URL", holidays.DefaultURL),
		HolidayTimeout: getEnvDuration("HOLIDAY_TIMEOUT", holidays.DefaultTimeout),
		PolicyFile:     getEnv("POLICY_FILE", ""),
		CORSOrigins:    getEnvList("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", true),
		Environment:    getEnv("APP_ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
