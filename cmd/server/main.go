package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"blog/docs"
	"blog/internal/auth"
	"blog/internal/cache"
	"blog/internal/config"
	"blog/internal/db"
	"blog/internal/handler"
	"blog/internal/logger"
	"blog/internal/repository"
	"blog/internal/router"
	"blog/internal/service"
	"blog/internal/view"
)

const shutdownTimeout = 10 * time.Second

// @title Blog API
// @version 1.0
// @description Users, posts and bearer token authentication.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		logger.New(logger.InfoLevel).Fatalw("load config", "err", err)
	}

	log := logger.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, log)
	if err != nil {
		log.Fatalw("database init", "err", err)
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, log); err != nil {
		log.Fatalw("auto-migrate", "err", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()
	if err := cacheClient.Ping(context.Background()); err != nil {
		log.Warnw("redis unavailable, user lookups will not be cached", "err", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	postRepo := repository.NewPostRepository(gormDB)

	// Initialize auth components
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtService, err := auth.NewJWTService(cfg.SecretKey, cfg.Algorithm, cfg.AccessTTL)
	if err != nil {
		log.Fatalw("token service init", "err", err)
	}

	// Initialize services
	userService := service.NewUserService(userRepo, postRepo, hasher, cacheClient, log)
	postService := service.NewPostService(postRepo, userRepo)
	authService := service.NewAuthService(userService, jwtService)

	renderer, err := view.New()
	if err != nil {
		log.Fatalw("templates", "err", err)
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "https://"), "http://")
	}

	e := echo.New()
	router.Register(
		e,
		cfg,
		log,
		renderer,
		handler.NewUserHandler(userService),
		handler.NewAuthHandler(authService),
		handler.NewPostHandler(postService),
		handler.NewPageHandler(userService, postService),
	)

	go func() {
		addr := ":" + cfg.ServerPort
		log.Infow("server listening", "addr", addr, "swagger", "http://"+docs.SwaggerInfo.Host+"/swagger/index.html")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server start", "err", err)
		}
	}()

	waitForShutdown(e, log)
}

// waitForShutdown blocks until SIGINT or SIGTERM and then drains in-flight
// requests.
func waitForShutdown(e *echo.Echo, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
