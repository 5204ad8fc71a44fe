// Package config loads server configuration from the environment.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the server together.
type Config struct {
	Host           string
	Port           string
	DataDir        string
	StoreBackend   string
	DatabaseURL    string
	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present.
func Load() *Config {
	_ = godotenv.Load()

	ttl := 24 * time.Hour
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			ttl = d
		}
	}

	return &Config{
		Host:           env("HOST", "0.0.0.0"),
		Port:           env("PORT", "8080"),
		DataDir:        env("DATA_DIR", "./data"),
		StoreBackend:   env("STORE_BACKEND", "json"),
		DatabaseURL:    env("DATABASE_URL", ""),
		JWTSecret:      env("JWT_SECRET", "your-secret-key-change-in-production"),
		TokenTTL:       ttl,
		AllowedOrigins: strings.Split(env("ALLOWED_ORIGINS", "*"), ","),
	}
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
