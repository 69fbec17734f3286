package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	Env        string

	// CSRFSecret signs the reference cookie payload. Empty disables
	// signing (the cookie is then plain JSON).
	CSRFSecret   string
	CSRFTokenTTL time.Duration
	// SecureCookies toggles the Secure cookie attribute. On for every
	// environment except "development".
	SecureCookies bool

	JWTSecret string

	RedisAddr string

	RateLimit  int
	RateWindow time.Duration
}

// Load reads configuration from the environment, after best-effort
// loading a local .env file.
func Load() Config {
	_ = godotenv.Load()

	env := envOr("GUARD_ENV", "development")
	return Config{
		ListenAddr:    envOr("GUARD_LISTEN_ADDR", ":8090"),
		Env:           env,
		CSRFSecret:    os.Getenv("GUARD_CSRF_SECRET"),
		CSRFTokenTTL:  envDuration("GUARD_CSRF_TTL", 30*time.Minute),
		SecureCookies: env != "development",
		JWTSecret:     envOr("GUARD_JWT_SECRET", "dev-jwt-secret-change-me"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RateLimit:     envInt("GUARD_RATE_LIMIT", 60),
		RateWindow:    envDuration("GUARD_RATE_WINDOW", time.Minute),
	}
}

func envOr(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func envInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if v, err := strconv.Atoi(val); err == nil {
			return v
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if v, err := time.ParseDuration(val); err == nil && v > 0 {
			return v
		}
	}
	return def
}
