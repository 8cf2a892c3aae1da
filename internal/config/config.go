// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Storage backends
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds the application configuration.
type Config struct {
	Port           string
	Env            string
	JWTSecret      string
	StorageBackend string
	PostgresDSN    string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
}

// LoadEnv loads variables from a .env file if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found: %v", err)
	}
}

// Load builds the configuration from the environment.
func Load() Config {
	return Config{
		Port:           GetEnv("PORT", "3000"),
		Env:            GetEnv("ENV", "development"),
		JWTSecret:      GetEnv("JWT_SECRET", "cardvault-dev-secret"),
		StorageBackend: GetEnv("STORAGE_BACKEND", StorageMemory),
		PostgresDSN:    GetEnv("POSTGRES_DSN", "host=localhost user=postgres password=postgres dbname=cardvault port=5432 sslmode=disable"),
		RedisAddr:      GetEnv("REDIS_ADDR", ""),
		RedisPassword:  GetEnv("REDIS_PASSWORD", ""),
		RedisDB:        GetIntEnv("REDIS_DB", 0),
	}
}

// GetEnv returns an environment variable or a default value.
func GetEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultVal
}

// GetIntEnv returns an int environment variable or a default value.
func GetIntEnv(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// IsProduction checks if the app runs in production mode.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}
