package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"aits/docs"
	"aits/internal/auth"
	"aits/internal/cache"
	"aits/internal/config"
	"aits/internal/db"
	"aits/internal/handler"
	"aits/internal/repository"
	"aits/internal/router"
	"aits/internal/service"
)

// @title Academic Issue Tracking API
// @version 1.0
// @description Students submit academic issues, registrars assign them to lecturers, lecturers resolve them.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}

	// Drop tables if RESET_DB environment variable is set
	if cfg.ResetDB {
		log.Println("RESET_DB=true detected, dropping all tables...")
		if err := db.Reset(gormDB); err != nil {
			log.Printf("Warning: Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	if err := db.Migrate(gormDB); err != nil {
		log.Fatalf("auto-migrate: %v", err)
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		// Logout needs redis; everything else degrades to cache misses.
		log.Printf("Warning: redis unreachable at %s: %v", cfg.RedisAddr, err)
	}
	cancel()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	issueRepo := repository.NewIssueRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	tokenStore := auth.NewTokenStore(cacheClient)
	tokenService := auth.NewTokenService(jwtService, tokenStore)

	// Initialize services
	authService := service.NewAuthService(userRepo, tokenService, cfg.BcryptCost)
	userService := service.NewUserService(userRepo, cacheClient, cfg.ProfileCacheTTL)
	issueService := service.NewIssueService(issueRepo, userRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	issueHandler := handler.NewIssueHandler(issueService)

	// Register routes
	router.Register(e, cfg, tokenService, authHandler, userHandler, issueHandler)

	// Log swagger full path
	swaggerURL := "http://localhost:" + cfg.ServerPort + "/swagger/index.html"
	if cfg.SwaggerHost != "" {
		host := strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
		docs.SwaggerInfo.Host = host
		if strings.HasPrefix(cfg.SwaggerHost, "http") {
			swaggerURL = cfg.SwaggerHost + "/swagger/index.html"
		} else {
			swaggerURL = "http://" + cfg.SwaggerHost + "/swagger/index.html"
		}
	}
	log.Printf("Swagger documentation available at: %s", swaggerURL)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
