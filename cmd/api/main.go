package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Hydrocarbon2023/TuringPOCPlatform/docs" // This is for Swagger
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/auth"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/config"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/database"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/handlers"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/logger"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/middleware"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/models"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/repository"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/scheduler"
	"github.com/Hydrocarbon2023/TuringPOCPlatform/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"
)

// @title Turing PoC Platform API
// @version 1.0
// @description Backend API for the Turing project incubation and proof-of-concept platform

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level: cfg.Log.Level,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	teamRepo := repository.NewTeamRepository(db.DB)
	projectRepo := repository.NewProjectRepository(db.DB)
	auditRepo := repository.NewAuditRecordRepository(db.DB)
	reviewRepo := repository.NewReviewRepository(db.DB)
	incubationRepo := repository.NewIncubationRepository(db.DB)
	milestoneRepo := repository.NewMilestoneRepository(db.DB)
	pocRepo := repository.NewPoCRepository(db.DB)
	fundRepo := repository.NewFundRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	intentionRepo := repository.NewIntentionRepository(db.DB)
	resourceRepo := repository.NewResourceRepository(db.DB)
	applicationRepo := repository.NewApplicationRepository(db.DB)
	achievementRepo := repository.NewAchievementRepository(db.DB)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	authSvc := service.NewAuthService(userRepo, authService)
	userSvc := service.NewUserService(userRepo, authService)
	teamSvc := service.NewTeamService(db.DB, teamRepo, userRepo)
	reviewSvc := service.NewReviewService(db.DB, reviewRepo, projectRepo, notificationRepo)
	projectSvc := service.NewProjectService(db.DB, projectRepo, teamRepo, userRepo, auditRepo, reviewRepo, notificationRepo, reviewSvc)
	incubationSvc := service.NewIncubationService(db.DB, incubationRepo, milestoneRepo, pocRepo, projectRepo, userRepo, teamRepo, reviewRepo)
	fundSvc := service.NewFundService(db.DB, fundRepo, projectRepo, userRepo, teamRepo, reviewRepo)
	marketplaceSvc := service.NewMarketplaceService(db.DB, intentionRepo, resourceRepo, applicationRepo, projectRepo, userRepo, teamRepo, reviewRepo, notificationRepo)
	notificationSvc := service.NewNotificationService(notificationRepo)
	achievementSvc := service.NewAchievementService(achievementRepo, projectRepo, userRepo, teamRepo, reviewRepo)

	// Start background scheduler
	sched := scheduler.NewScheduler(projectRepo, reviewSvc, &cfg.Scheduler)
	sched.Start()
	defer sched.Stop()

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	rbacMw := middleware.NewRBACMiddleware(db.DB)
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authSvc, userSvc)
	userHandler := handlers.NewUserHandler(userSvc)
	teamHandler := handlers.NewTeamHandler(teamSvc)
	projectHandler := handlers.NewProjectHandler(projectSvc, reviewSvc)
	reviewHandler := handlers.NewReviewHandler(reviewSvc)
	incubationHandler := handlers.NewIncubationHandler(incubationSvc)
	fundHandler := handlers.NewFundHandler(fundSvc)
	notificationHandler := handlers.NewNotificationHandler(notificationSvc)
	marketplaceHandler := handlers.NewMarketplaceHandler(marketplaceSvc)
	achievementHandler := handlers.NewAchievementHandler(achievementSvc)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Authenticated user routes
	mux.Handle("GET /api/v1/auth/me",
		authMw.Authenticate(http.HandlerFunc(authHandler.Me)),
	)

	// Admin user management
	mux.Handle("GET /api/v1/admin/users",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleAdmin)(
				http.HandlerFunc(userHandler.List),
			),
		),
	)
	mux.Handle("POST /api/v1/admin/users",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleAdmin)(
				http.HandlerFunc(userHandler.Create),
			),
		),
	)
	mux.Handle("DELETE /api/v1/admin/users/{id}",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleAdmin)(
				http.HandlerFunc(userHandler.Delete),
			),
		),
	)

	// Team routes
	mux.Handle("POST /api/v1/teams",
		authMw.Authenticate(http.HandlerFunc(teamHandler.Create)),
	)
	mux.Handle("GET /api/v1/teams",
		authMw.Authenticate(http.HandlerFunc(teamHandler.MyTeams)),
	)
	mux.Handle("GET /api/v1/teams/{id}",
		authMw.Authenticate(http.HandlerFunc(teamHandler.Get)),
	)
	mux.Handle("POST /api/v1/teams/{id}/members",
		authMw.Authenticate(http.HandlerFunc(teamHandler.AddMember)),
	)

	// Project lifecycle routes
	mux.Handle("POST /api/v1/projects",
		authMw.Authenticate(http.HandlerFunc(projectHandler.Submit)),
	)
	mux.Handle("GET /api/v1/projects",
		authMw.Authenticate(http.HandlerFunc(projectHandler.List)),
	)
	mux.Handle("GET /api/v1/projects/{id}",
		authMw.Authenticate(http.HandlerFunc(projectHandler.Get)),
	)
	mux.Handle("POST /api/v1/projects/{id}/audit",
		authMw.Authenticate(
			rbacMw.RequireAnyRole(models.RoleSecretary, models.RoleAdmin)(
				http.HandlerFunc(projectHandler.Audit),
			),
		),
	)
	mux.Handle("GET /api/v1/projects/{id}/audits",
		authMw.Authenticate(
			rbacMw.RequireAnyRole(models.RoleSecretary, models.RoleAdmin)(
				http.HandlerFunc(projectHandler.AuditTrail),
			),
		),
	)
	mux.Handle("POST /api/v1/projects/{id}/reviewers",
		authMw.Authenticate(
			rbacMw.RequireAnyRole(models.RoleSecretary, models.RoleAdmin)(
				http.HandlerFunc(projectHandler.AssignReviewer),
			),
		),
	)
	mux.Handle("PUT /api/v1/projects/{id}/status",
		authMw.Authenticate(
			rbacMw.RequireAnyRole(models.RoleSecretary, models.RoleAdmin)(
				http.HandlerFunc(projectHandler.UpdateStatus),
			),
		),
	)
	mux.Handle("GET /api/v1/projects/{id}/opinions",
		authMw.Authenticate(
			rbacMw.RequireAnyRole(models.RoleSecretary, models.RoleAdmin)(
				http.HandlerFunc(projectHandler.Opinions),
			),
		),
	)

	// Review routes
	mux.Handle("GET /api/v1/review-tasks",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleReviewer)(
				http.HandlerFunc(reviewHandler.MyTasks),
			),
		),
	)
	mux.Handle("POST /api/v1/review-tasks/{id}/opinions",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleReviewer)(
				http.HandlerFunc(reviewHandler.Submit),
			),
		),
	)

	// Incubation routes
	mux.Handle("GET /api/v1/projects/{id}/incubation",
		authMw.Authenticate(http.HandlerFunc(incubationHandler.Get)),
	)
	mux.Handle("PUT /api/v1/projects/{id}/incubation",
		authMw.Authenticate(http.HandlerFunc(incubationHandler.Upsert)),
	)
	mux.Handle("GET /api/v1/projects/{id}/milestones",
		authMw.Authenticate(http.HandlerFunc(incubationHandler.ListMilestones)),
	)
	mux.Handle("PATCH /api/v1/milestones/{id}",
		authMw.Authenticate(http.HandlerFunc(incubationHandler.UpdateMilestone)),
	)
	mux.Handle("POST /api/v1/projects/{id}/pocs",
		authMw.Authenticate(http.HandlerFunc(incubationHandler.CreatePoC)),
	)
	mux.Handle("GET /api/v1/projects/{id}/pocs",
		authMw.Authenticate(http.HandlerFunc(incubationHandler.ListPoCs)),
	)
	mux.Handle("PATCH /api/v1/pocs/{id}",
		authMw.Authenticate(http.HandlerFunc(incubationHandler.UpdatePoC)),
	)

	// Fund routes
	mux.Handle("POST /api/v1/projects/{id}/funds",
		authMw.Authenticate(
			rbacMw.RequireAnyRole(models.RoleSecretary, models.RoleAdmin)(
				http.HandlerFunc(fundHandler.RecordFund),
			),
		),
	)
	mux.Handle("POST /api/v1/projects/{id}/expenditures",
		authMw.Authenticate(http.HandlerFunc(fundHandler.RecordExpenditure)),
	)
	mux.Handle("GET /api/v1/projects/{id}/funds",
		authMw.Authenticate(http.HandlerFunc(fundHandler.GetFunds)),
	)

	// Notification routes
	mux.Handle("GET /api/v1/notifications",
		authMw.Authenticate(http.HandlerFunc(notificationHandler.List)),
	)
	mux.Handle("POST /api/v1/notifications/read",
		authMw.Authenticate(http.HandlerFunc(notificationHandler.MarkAllRead)),
	)

	// Marketplace routes
	mux.Handle("POST /api/v1/projects/{id}/intentions",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleSupporter)(
				http.HandlerFunc(marketplaceHandler.CreateIntention),
			),
		),
	)
	mux.Handle("GET /api/v1/projects/{id}/intentions",
		authMw.Authenticate(http.HandlerFunc(marketplaceHandler.ProjectIntentions)),
	)
	mux.Handle("GET /api/v1/intentions",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleSupporter)(
				http.HandlerFunc(marketplaceHandler.MyIntentions),
			),
		),
	)
	mux.Handle("POST /api/v1/resources",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleSupporter)(
				http.HandlerFunc(marketplaceHandler.PublishResource),
			),
		),
	)
	mux.Handle("GET /api/v1/resources",
		authMw.Authenticate(http.HandlerFunc(marketplaceHandler.ListResources)),
	)
	mux.Handle("GET /api/v1/resources/mine",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleSupporter)(
				http.HandlerFunc(marketplaceHandler.MyResources),
			),
		),
	)
	mux.Handle("POST /api/v1/resources/{id}/applications",
		authMw.Authenticate(http.HandlerFunc(marketplaceHandler.Apply)),
	)
	mux.Handle("GET /api/v1/resources/{id}/applications",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleSupporter)(
				http.HandlerFunc(marketplaceHandler.ResourceApplications),
			),
		),
	)
	mux.Handle("GET /api/v1/applications",
		authMw.Authenticate(http.HandlerFunc(marketplaceHandler.MyApplications)),
	)
	mux.Handle("PUT /api/v1/applications/{id}",
		authMw.Authenticate(
			rbacMw.RequireRole(models.RoleSupporter)(
				http.HandlerFunc(marketplaceHandler.RespondToApplication),
			),
		),
	)

	// Achievement routes
	mux.Handle("POST /api/v1/projects/{id}/achievements",
		authMw.Authenticate(http.HandlerFunc(achievementHandler.Publish)),
	)
	mux.Handle("GET /api/v1/projects/{id}/achievements",
		authMw.Authenticate(http.HandlerFunc(achievementHandler.List)),
	)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
				return
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
			return
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		middleware.SecurityHeaders(
			corsMw.Handler(
				rateLimiter.Limit(mux),
			),
		),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
