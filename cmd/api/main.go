package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ludica-app/ludica-api/internal/config"
	"github.com/ludica-app/ludica-api/internal/database"
	"github.com/ludica-app/ludica-api/internal/handler"
	"github.com/ludica-app/ludica-api/internal/middleware"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/repository"
	"github.com/ludica-app/ludica-api/internal/router"
	"github.com/ludica-app/ludica-api/internal/service"
	cloud "github.com/ludica-app/ludica-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Theme{},
		&models.Activity{},
		&models.Assignment{},
		&models.PointEntry{},
		&models.Level{},
		&models.UserLevel{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Ranking{},
		&models.DiagnosticTest{},
		&models.DiagnosticQuestion{},
		&models.DiagnosticAnswer{},
		&models.DiagnosticResult{},
		&models.Play{},
		&models.Attendance{},
		&models.Resource{},
		&models.UsageLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		log.Fatalf("failed to connect to nats: %v", err)
	}
	if natsConn != nil {
		defer natsConn.Close()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	themeRepo := repository.NewThemeRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	levelRepo := repository.NewLevelRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	pointRepo := repository.NewPointRepository(db)
	rankingRepo := repository.NewRankingRepository(db)
	diagnosticRepo := repository.NewDiagnosticRepository(db)
	playRepo := repository.NewPlayRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	resourceRepo := repository.NewResourceRepository(db)
	usageRepo := repository.NewUsageLogRepository(db)

	publisher := service.NewEventPublisher(natsConn, cfg.GamificationSubject, redisClient, logger)

	gamificationService := service.NewGamificationService(db, redisClient, publisher, logger)
	authService := service.NewAuthService(userRepo, validate, cfg, logger)
	userService := service.NewUserService(userRepo, validate, logger)
	levelService := service.NewLevelService(levelRepo, validate, logger)
	badgeService := service.NewBadgeService(badgeRepo, validate, logger)
	rankingService := service.NewRankingService(rankingRepo, pointRepo, redisClient, cfg.LeaderboardCacheTTL, logger)
	themeService := service.NewThemeService(themeRepo, validate, logger)
	activityService := service.NewActivityService(activityRepo, themeRepo, validate, uploader, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, activityRepo, userRepo, gamificationService, validate, uploader, logger)
	diagnosticService := service.NewDiagnosticService(diagnosticRepo, cfg.DiagnosticThresholds, validate, logger)
	playService := service.NewPlayService(playRepo, gamificationService, validate, logger)
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, validate, logger)
	resourceService := service.NewResourceService(resourceRepo, themeRepo, validate, uploader, logger)
	usageService := service.NewUsageService(usageRepo, validate, logger)
	dashboardService := service.NewDashboardService(
		gamificationService,
		levelService,
		badgeService,
		rankingService,
		assignmentRepo,
		playRepo,
		redisClient,
		cfg.DashboardCacheTTL,
		logger,
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{
		Logger:       &logger,
		AllowOrigins: cfg.CORSAllowOrigins,
	})

	healthChecks := map[string]handler.HealthChecker{
		"postgres": func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	}

	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       handler.NewAuthHandler(authService, logger),
		PointHandler:      handler.NewPointHandler(gamificationService, logger),
		LevelHandler:      handler.NewLevelHandler(levelService, logger),
		BadgeHandler:      handler.NewBadgeHandler(badgeService, logger),
		RankingHandler:    handler.NewRankingHandler(rankingService, logger),
		ThemeHandler:      handler.NewThemeHandler(themeService, logger),
		ActivityHandler:   handler.NewActivityHandler(activityService, logger),
		AssignmentHandler: handler.NewAssignmentHandler(assignmentService, logger),
		DiagnosticHandler: handler.NewDiagnosticHandler(diagnosticService, logger),
		PlayHandler:       handler.NewPlayHandler(playService, logger),
		AttendanceHandler: handler.NewAttendanceHandler(attendanceService, logger),
		ResourceHandler:   handler.NewResourceHandler(resourceService, logger),
		UsageHandler:      handler.NewUsageHandler(usageService, logger),
		UserHandler:       handler.NewUserHandler(userService, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		HealthChecks:      healthChecks,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}
