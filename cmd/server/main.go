// @title           Vizinho HTTP Service API
// @version         1.0
// @description     Residential community portal: reports, fines, panic alerts, lost items, announcements and reservations

// @BasePath  /api

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Enter the token with the `Bearer ` prefix
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"vizinho-http-service/internal/app/middleware"
	"vizinho-http-service/internal/app/routes"
	"vizinho-http-service/internal/domain/services"
	"vizinho-http-service/internal/domain/services/container"
	"vizinho-http-service/internal/infrastructure/config"
	"vizinho-http-service/internal/infrastructure/database"
	Logger "vizinho-http-service/pkg/logger"
)

func main() {
	runtime.GOMAXPROCS(runtime.NumCPU())

	// .env is optional, the variables may already be set
	envErr := godotenv.Load()

	cfg := config.GetConfig()

	if err := Logger.SetupLogger(cfg.LogDir); err != nil {
		fmt.Printf("failed to set up logger: %v\n", err)
		os.Exit(1)
	}
	if envErr != nil {
		Logger.Warning("could not load .env file: %v", envErr)
	} else {
		Logger.Info(".env file loaded")
	}

	pool, err := database.NewConnectionPool(cfg)
	if err != nil {
		log.Fatalf("failed to create database connection pool: %v", err)
	}
	db := pool.GetDB()

	if cfg.DBMigrationMode == "drop" {
		Logger.Warning("running in drop mode, every table will be dropped and recreated")
	}
	if err := database.Migrate(db, cfg.DBMigrationMode); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	var redisService services.InterfaceRedisService
	if cfg.RedisEnabled {
		redisService = services.NewRedisService(cfg)
	}

	serviceContainer := container.NewServiceContainer(db, cfg, redisService)

	userService := serviceContainer.GetService("user").(services.InterfaceUserService)
	if err := userService.EnsureAdminExists(context.Background()); err != nil {
		log.Fatalf("failed to ensure default administrator: %v", err)
	}

	scheduler := serviceContainer.GetService("scheduler").(services.InterfaceSchedulerService)
	if err := scheduler.AddFunc("@every 5m", middleware.CleanExpiredCache); err != nil {
		Logger.Error("failed to schedule cache cleanup: %v", err)
	}
	if err := scheduler.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	r := routes.SetupRouter(serviceContainer, cfg)

	printSystemInfo(pool)

	srv := &http.Server{
		// listen on every interface, not only localhost
		Addr:    "0.0.0.0:" + cfg.ServerPort,
		Handler: r,
	}

	go func() {
		Logger.Info("server listening on http://0.0.0.0:%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Logger.Error("server failed: %v", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		Logger.Error("server shutdown: %v", err)
	}

	serviceContainer.Close()
	if err := pool.Close(); err != nil {
		Logger.Error("closing database: %v", err)
	}
}

// printSystemInfo logs pool and runtime figures at start-up
func printSystemInfo(pool *database.ConnectionPool) {
	stats, err := pool.Stats()
	if err == nil {
		log.Printf("database pool: %+v", stats)
	}

	log.Printf("CPU cores: %d", runtime.NumCPU())
	log.Printf("goroutines: %d", runtime.NumGoroutine())

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	log.Printf("memory: Alloc=%v MiB, TotalAlloc=%v MiB, Sys=%v MiB",
		m.Alloc/1024/1024, m.TotalAlloc/1024/1024, m.Sys/1024/1024)
}
