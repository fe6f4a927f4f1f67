package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	APIBaseURL     string
	RequestTimeout time.Duration
	StoragePath    string
	AppEnv         string

	// Client-side ceiling on remote cart calls, requests per second.
	RemoteRateLimit float64
	RemoteRateBurst int
}

const (
	defaultTimeout   = 10 * time.Second
	defaultRateLimit = 5.0
	defaultRateBurst = 10
)

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		APIBaseURL:      os.Getenv("API_BASE_URL"),
		RequestTimeout:  durationEnv("API_TIMEOUT_MS", defaultTimeout),
		StoragePath:     os.Getenv("STORAGE_PATH"),
		AppEnv:          os.Getenv("APP_ENV"),
		RemoteRateLimit: floatEnv("REMOTE_RATE_LIMIT", defaultRateLimit),
		RemoteRateBurst: intEnv("REMOTE_RATE_BURST", defaultRateBurst),
	}

	if cfg.APIBaseURL == "" {
		log.Fatal("Environment variables not loaded properly")
	}
	if cfg.StoragePath == "" {
		cfg.StoragePath = "souq.db"
	}

	return cfg
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	ms, err := strconv.Atoi(raw)
	if err != nil || ms <= 0 {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func floatEnv(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
