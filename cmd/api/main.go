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
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/noah-isme/praktik-go-api/internal/config"
	"github.com/noah-isme/praktik-go-api/internal/database"
	"github.com/noah-isme/praktik-go-api/internal/handler"
	"github.com/noah-isme/praktik-go-api/internal/middleware"
	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/repository"
	"github.com/noah-isme/praktik-go-api/internal/router"
	"github.com/noah-isme/praktik-go-api/internal/service"
	cloud "github.com/noah-isme/praktik-go-api/pkg/cloudinary"
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
		&models.Subject{},
		&models.Practical{},
		&models.PracticalSubmission{},
		&models.Certificate{},
		&models.CertificateSubmission{},
		&models.ExamMode{},
		&models.ActivityLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable, transition events stay local")
		} else {
			defer natsConn.Close()
		}
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
	subjectRepo := repository.NewSubjectRepository(db)
	practicalRepo := repository.NewPracticalRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	examModeRepo := repository.NewExamModeRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	notifier := service.NewNotifier(natsConn, "praktik.workflow", activityRepo, logger)
	showcaseService := service.NewShowcaseService(submissionRepo, examModeRepo, redisClient, cfg.ShowcaseCacheTTL, logger)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	userService := service.NewUserService(userRepo, authService, validate, logger)
	subjectService := service.NewSubjectService(subjectRepo, userRepo, validate, logger)
	practicalService := service.NewPracticalService(practicalRepo, subjectRepo, validate, logger)
	submissionService := service.NewSubmissionService(submissionRepo, practicalRepo, validate, uploader.In("practicals"), showcaseService, notifier, logger)
	certificateService := service.NewCertificateService(certificateRepo, subjectRepo, practicalRepo, submissionRepo, userRepo, validate, uploader.In("certificates"), notifier, logger)
	examModeService := service.NewExamModeService(examModeRepo, showcaseService, logger)
	dashboardService := service.NewDashboardService(userRepo, subjectRepo, practicalRepo, submissionRepo, certificateRepo, examModeRepo, certificateService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:        handler.NewAuthHandler(authService, logger),
		UserHandler:        handler.NewUserHandler(userService, logger),
		SubjectHandler:     handler.NewSubjectHandler(subjectService, logger),
		PracticalHandler:   handler.NewPracticalHandler(practicalService, logger),
		SubmissionHandler:  handler.NewSubmissionHandler(submissionService, logger),
		CertificateHandler: handler.NewCertificateHandler(certificateService, logger),
		ExamModeHandler:    handler.NewExamModeHandler(examModeService, logger),
		DashboardHandler:   handler.NewDashboardHandler(dashboardService, logger),
		ShowcaseHandler:    handler.NewShowcaseHandler(showcaseService, logger),
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
