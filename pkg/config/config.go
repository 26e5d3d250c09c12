package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the settings every shop process reads from the environment.
type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DatabaseDriver string
	DatabaseURL    string

	JWTAccessSecret []byte

	AuthHTTPURL string

	KafkaBrokers []string
}

func Load() Config {
	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "ecom"),
		LogLevel:    os.Getenv("LOG_LEVEL"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DatabaseDriver: EnvDefault("DATABASE_DRIVER", "postgres"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),

		AuthHTTPURL: os.Getenv("AUTH_URL"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// EnvSecondsDefault reads a whole number of seconds.
func EnvSecondsDefault(key string, def time.Duration) time.Duration {
	n := EnvIntDefault(key, -1)
	if n < 0 {
		return def
	}
	return time.Duration(n) * time.Second
}
