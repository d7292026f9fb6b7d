package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	ServerPort     string
	DatabaseType   string
	DatabaseURL    string
	DatabasePath   string
	MigrationsPath string
	JWTSecret      string
	TokenDuration  time.Duration
	WorkerSecret   string
	AWSRegion      string
	SESFromEmail   string
	SESFromName    string
	AppBaseURL     string
	Debug          bool
}

// Load reads configuration from the environment with sensible
// defaults. A .env file in the working directory is read first when
// present, without overriding variables already set.
func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	return &Config{
		ServerPort:     getEnv("PORT", "8080"),
		DatabaseType:   getEnv("DB_TYPE", "sqlite"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabasePath:   getEnv("DB_PATH", "./lexidrill.db"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      getEnv("JWT_SECRET", ""),
		TokenDuration:  getDurationEnv("TOKEN_DURATION", 24*time.Hour),
		WorkerSecret:   getEnv("WORKER_SECRET", ""),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		SESFromEmail:   getEnv("SES_FROM_EMAIL", ""),
		SESFromName:    getEnv("SES_FROM_NAME", "LexiDrill"),
		AppBaseURL:     getEnv("APP_BASE_URL", "http://localhost:8080"),
		Debug:          getEnv("DEBUG", "") == "true",
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDurationEnv reads a duration environment variable or returns a
// default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid %s value %q, using default %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}
