// File: app/app.go
package app

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"user-management-api/config"
	"user-management-api/db"
	"user-management-api/handler"
	"user-management-api/logger"
	"user-management-api/repository"
	"user-management-api/router"
	"user-management-api/service"

	"github.com/redis/go-redis/v9"
)

// App holds the wired components of the service.
type App struct {
	Config *config.Config
	DB     *sql.DB
	Router http.Handler
}

// New wires repositories, services and handlers. rdb may be nil, which
// disables the user cache.
func New(cfg *config.Config, database *sql.DB, rdb *redis.Client) *App {
	authService := service.NewAuthService(cfg.JWT, cfg.Security.BcryptCost)

	var cache service.ICacheClient
	if rdb != nil {
		cache = rdb
	}

	userRepo := repository.NewUserRepository(database)
	userService := service.NewUserService(userRepo, authService, cache, service.UserServiceOptions{
		CacheTTL:         cfg.Redis.UserCacheTTL,
		MaxLoginAttempts: cfg.Security.MaxLoginAttempts,
	})
	userHandler := handler.NewUserHandler(userService)

	return &App{
		Config: cfg,
		DB:     database,
		Router: router.NewRouter(userHandler, authService),
	}
}

func Run() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Error loading configuration: %v", err)
	}
	logger.Init(cfg.Log.Level, cfg.Log.Format)
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect(cfg)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.RunMigrations(cfg.Database.MigrationsPath, cfg.DatabaseURL()); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	rdb, err := db.ConnectRedis(cfg)
	if err != nil {
		logger.Log.WithError(err).Warn("Redis unavailable, user cache disabled")
	} else {
		defer rdb.Close()
	}

	application := New(cfg, database, rdb)

	port := cfg.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: application.Router,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Errorf("Server forced to shutdown: %v", err)
		return
	}

	logger.Log.Info("Server exited properly")
}
