package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all server configuration, loaded from the environment with an
// optional .env file.
type Config struct {
	ListenAddr    string
	DataDir       string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AuthTokens    string
	NotifyOff     bool
}

// Load reads configuration from a .env file (if present) and the
// environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		ListenAddr:    envOrDefault("LISTEN_ADDR", ":8080"),
		DataDir:       envOrDefault("DATA_DIR", "data"),
		RedisAddr:     envOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       envIntOrDefault("REDIS_DB", 0),
		AuthTokens:    os.Getenv("AUTH_TOKENS"),
		NotifyOff:     os.Getenv("NOTIFY_DISABLED") == "true",
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOrDefault(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
