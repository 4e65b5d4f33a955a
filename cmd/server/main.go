package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mpaulosky/blogsite/internal/app"
	"github.com/mpaulosky/blogsite/internal/config"
	"github.com/mpaulosky/blogsite/internal/domain"
	"github.com/mpaulosky/blogsite/internal/handler"
	"github.com/mpaulosky/blogsite/internal/logger"
	"github.com/mpaulosky/blogsite/internal/metrics"
	"github.com/mpaulosky/blogsite/internal/middleware"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration",
			slog.String("error", err.Error()))
	}
	logger.Init(cfg.LogLevel)

	// Wire services, then run role synchronization before serving traffic
	application, err := app.RegisterServices(context.Background(), cfg, false)
	if err != nil {
		logger.Fatal("Failed to register services",
			slog.String("error", err.Error()))
	}
	defer application.Close()

	if err := application.RunAtStartup(context.Background()); err != nil {
		logger.Fatal("Role synchronization failed",
			slog.String("error", err.Error()))
	}

	// Start database pool metrics collector
	poolStatsCollector := metrics.NewPoolStatsCollector(application.Pool)
	poolStatsCollector.Start(15 * time.Second)
	defer poolStatsCollector.Stop()

	// Initialize handlers
	articleHandler := handler.NewArticleHandler(
		application.Articles,
		application.Categories,
		application.NewUserRepository,
		application.Cache,
		application.Validator,
	)
	categoryHandler := handler.NewCategoryHandler(application.Categories, application.Cache, application.Validator)
	userHandler := handler.NewUserHandler(application.NewUserRepository)
	authHandler := handler.NewAuthHandler(application.Identity, application.JWT, application.Validator)
	healthHandler := handler.NewHealthHandler(application.Pool, application.Cache)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(gin.Logger())
	router.Use(middleware.Authenticate(application.JWT))
	router.Use(middleware.OutputCache(application.Cache, cfg.CacheTTL))

	// Health and metrics endpoints
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)
	router.GET("/live", healthHandler.Live)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
		}

		articles := v1.Group("/articles")
		{
			articles.GET("", articleHandler.List)
			articles.GET("/:date/:slug", articleHandler.Get)

			writers := articles.Group("", middleware.RequireRole(domain.RoleAdmin, domain.RoleAuthor))
			{
				writers.POST("", articleHandler.Create)
				writers.PUT("/:slug", articleHandler.Update)
				writers.POST("/:slug/archive", articleHandler.Archive)
			}
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", categoryHandler.List)
			categories.GET("/:id", categoryHandler.Get)

			admins := categories.Group("", middleware.RequireRole(domain.RoleAdmin))
			{
				admins.POST("", categoryHandler.Create)
				admins.PUT("/:id", categoryHandler.Update)
				admins.POST("/:id/archive", categoryHandler.Archive)
			}
		}

		users := v1.Group("/users")
		{
			users.GET("/me", userHandler.Me)
			users.GET("", middleware.RequireRole(domain.RoleAdmin), userHandler.List)
			users.PUT("/:id/role", middleware.RequireRole(domain.RoleAdmin), userHandler.UpdateRole)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Starting server",
			slog.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server",
				slog.String("error", err.Error()))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error",
			slog.String("error", err.Error()))
	}

	logger.Info("Server exited")
}
