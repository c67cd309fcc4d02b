package config

import (
	"os"
	"strconv"
	"time"

	"github.com/anonto42/engagement/backend/internal/logs"
	"github.com/joho/godotenv"
)

const (
	BackendPostgresMongo = "postgres-mongo"
	BackendMemory        = "memory"
)

type Config struct {
	Port                    string
	Env                     string
	StoreBackend            string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	FirebaseCredentialsPath string
	FirebaseProjectID       string
	LogLevel                string
	ToggleMaxAttempts       int
	RateLimitRPS            float64
	ReconcileConcurrency    int
	DBTimeout               time.Duration
}

// Load reads the configuration from the environment, loading .env first if
// one exists.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logs.LogJSON("DEBUG", "no .env file found, using the process environment", nil)
	}

	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		StoreBackend:            getEnv("STORE_BACKEND", BackendPostgresMongo),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socialmedia"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		LogLevel:                getEnv("LOG_LEVEL", "info"),
		ToggleMaxAttempts:       getEnvInt("TOGGLE_MAX_ATTEMPTS", 3),
		RateLimitRPS:            getEnvFloat("RATE_LIMIT_RPS", 20),
		ReconcileConcurrency:    getEnvInt("RECONCILE_CONCURRENCY", 4),
		DBTimeout:               getEnvDuration("DB_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		logs.LogJSON("WARN", "invalid integer in environment, using default", map[string]interface{}{"key": key, "value": value})
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		logs.LogJSON("WARN", "invalid number in environment, using default", map[string]interface{}{"key": key, "value": value})
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		logs.LogJSON("WARN", "invalid duration in environment, using default", map[string]interface{}{"key": key, "value": value})
	}
	return defaultValue
}
