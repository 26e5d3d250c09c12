package config

import (
	"os"
	"time"

	"github.com/m2gi/ecom/pkg/config"
	pkgdb "github.com/m2gi/ecom/pkg/db"
)

type ServiceConfig struct {
	config.Config

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartCacheTTL  time.Duration

	ESURL          string
	ESUser         string
	ESPassword     string
	ESProductIndex string

	CookieSecure bool
}

// Load reads the environment and aborts when a required value is missing.
func Load() ServiceConfig {
	cfg := fromEnv()

	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")
	config.MustOneOf(cfg.DatabaseDriver, "DATABASE_DRIVER", pkgdb.DriverPostgres, pkgdb.DriverSQLite)

	return cfg
}

func fromEnv() ServiceConfig {
	return ServiceConfig{
		Config: config.Load(),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       config.EnvIntDefault("REDIS_DB", 0),
		CartCacheTTL:  config.EnvSecondsDefault("CART_CACHE_TTL_SECONDS", 15*time.Minute),

		ESURL:          os.Getenv("ES_URL"),
		ESUser:         os.Getenv("ES_USER"),
		ESPassword:     os.Getenv("ES_PASSWORD"),
		ESProductIndex: config.EnvDefault("ES_PRODUCT_INDEX", "product"),

		CookieSecure: os.Getenv("COOKIE_SECURE") == "true",
	}
}
