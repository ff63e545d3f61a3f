package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store driver names accepted by STORE_DRIVER.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Config struct {
	App   AppConfig
	Store StoreConfig
	JWT   JWTConfig
}

type AppConfig struct {
	Environment string // development or production
	Port        int
}

type StoreConfig struct {
	Driver        string
	SQLitePath    string
	MongoURI      string
	MongoDatabase string
}

type JWTConfig struct {
	Secret   string
	TokenTTL time.Duration
}

// Load reads configuration from the environment, with a .env file as an
// optional overlay for development.
func Load() (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnvInt("PORT", 8080),
		},
		Store: StoreConfig{
			Driver:        getEnv("STORE_DRIVER", DriverSQLite),
			SQLitePath:    getEnv("SQLITE_DB_PATH", "./blogify.db"),
			MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDatabase: getEnv("MONGO_DATABASE", "blogify"),
		},
		JWT: JWTConfig{
			Secret:   os.Getenv("JWT_SECRET"),
			TokenTTL: time.Duration(getEnvInt("JWT_TTL_HOURS", 24*7)) * time.Hour,
		},
	}

	switch cfg.Store.Driver {
	case DriverMemory, DriverSQLite, DriverMongo:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	if cfg.JWT.Secret == "" {
		if cfg.App.Environment != "development" {
			return nil, fmt.Errorf("JWT_SECRET is required outside development")
		}
		cfg.JWT.Secret = "insecure-dev-secret"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
