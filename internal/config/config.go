package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	// ServerAddr is the listen address of the HTTP server.
	ServerAddr string
	// SessionSecret signs the session cookie that carries the auth token.
	SessionSecret string
	// AppEnv, when set, forces one environment for every hostname.
	AppEnv Environment
	// EnvironmentsFile is an optional YAML file overriding the API endpoints.
	EnvironmentsFile string
	// BackendTimeout bounds every call to the portfolio API.
	BackendTimeout time.Duration
	// UploadMaxBytes caps a single staged image.
	UploadMaxBytes int64
	// UploadStagingDir holds staged images; empty keeps them in memory.
	UploadStagingDir string
	// UploadTTL is how long a staged image survives without being submitted.
	UploadTTL time.Duration
}

const devSessionSecret = "folio-development-session-secret"

// New loads configuration from environment variables, reading a .env file
// first when one exists.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return FromEnv()
}

// FromEnv builds the configuration from the current process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		ServerAddr:       getenv("SERVER_ADDR", ":8080"),
		SessionSecret:    os.Getenv("SESSION_SECRET"),
		AppEnv:           Environment(os.Getenv("APP_ENV")),
		EnvironmentsFile: os.Getenv("ENVIRONMENTS_FILE"),
		UploadStagingDir: os.Getenv("UPLOAD_STAGING_DIR"),
	}

	var err error
	if cfg.BackendTimeout, err = durationEnv("BACKEND_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.UploadTTL, err = durationEnv("UPLOAD_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.UploadMaxBytes, err = int64Env("UPLOAD_MAX_BYTES", 10<<20); err != nil {
		return nil, err
	}

	if cfg.AppEnv != "" && !cfg.AppEnv.Valid() {
		return nil, errors.New("APP_ENV must be either development or production")
	}
	if cfg.SessionSecret == "" {
		if cfg.AppEnv == Production {
			return nil, errors.New("SESSION_SECRET is required in production")
		}
		log.Println("SESSION_SECRET not set, using the development secret")
		cfg.SessionSecret = devSessionSecret
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New(key + " must be a Go duration such as 10s")
	}
	return d, nil
}

func int64Env(key string, fallback int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return n, nil
}
