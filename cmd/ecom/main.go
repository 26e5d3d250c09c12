package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/m2gi/ecom/internal/cache"
	ecomcfg "github.com/m2gi/ecom/internal/config"
	"github.com/m2gi/ecom/internal/events"
	"github.com/m2gi/ecom/internal/httpserver"
	"github.com/m2gi/ecom/internal/repo"
	"github.com/m2gi/ecom/internal/search"
	"github.com/m2gi/ecom/internal/service"
	"github.com/m2gi/ecom/pkg/authclient"
	pkgdb "github.com/m2gi/ecom/pkg/db"
	jwthelp "github.com/m2gi/ecom/pkg/jwt"
	"github.com/m2gi/ecom/pkg/logging"
	"github.com/m2gi/ecom/pkg/middleware/csrf"
	loggingmw "github.com/m2gi/ecom/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env: %v", err)
	}

	cfg := ecomcfg.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	db, err := pkgdb.Open(ctx, cfg.DatabaseDriver, cfg.DatabaseURL)
	if err == nil {
		err = repo.Migrate(ctx, db)
	}
	cancel()
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	r := &repo.GormRepo{DB: db}

	var cartCache cache.CartCache = cache.Nop{}
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			logger.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
		}
		pingCancel()
		cartCache = cache.NewRedisCache(rdb, cfg.CartCacheTTL)
	}

	var publisher events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers)
	}

	var engine search.Engine
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			logger.Warn("search_unavailable", "url", cfg.ESURL, "error", err)
		} else {
			engine = search.NewElastic(es, cfg.ESProductIndex)
		}
	}

	cartSvc := service.NewCartService(r, cartCache, publisher)
	productSvc := service.NewProductService(r, engine, publisher)
	productSvc.Carts = cartSvc
	categorySvc := &service.CategoryService{Repo: r}

	var authClient *authclient.Client
	if cfg.AuthHTTPURL != "" {
		authClient = authclient.NewClient(cfg.AuthHTTPURL)
	}

	e := httpserver.New()
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORS())
	e.Use(echomw.Secure())

	csrfCfg := csrf.DefaultConfig()
	csrfCfg.GuardCookie = jwthelp.AccessCookie
	csrfCfg.Secure = cfg.CookieSecure
	csrfCfg.SkipPaths = []string{"/health/live", "/health/ready"}
	e.Use(csrf.Middleware(csrfCfg))

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:     &httpserver.CartHTTP{Svc: cartSvc},
		ProductHandler:  &httpserver.ProductHTTP{Svc: productSvc},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: categorySvc},
		JWTSecret:       cfg.JWTAccessSecret,
		AuthClient:      authClient,
		DB:              db,
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	go func() {
		logger.Info("http_listen", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}
	if err := publisher.Close(); err != nil {
		logger.Error("publisher_close_error", "error", err)
	}
	if rdb != nil {
		_ = rdb.Close()
	}
	if err := pkgdb.Close(db); err != nil {
		logger.Error("db_close_error", "error", err)
	}

	logger.Info("ecom stopped")
}
