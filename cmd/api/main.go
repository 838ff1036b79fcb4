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

	"github.com/noah-isme/sinau-go-api/internal/config"
	"github.com/noah-isme/sinau-go-api/internal/database"
	"github.com/noah-isme/sinau-go-api/internal/handler"
	"github.com/noah-isme/sinau-go-api/internal/middleware"
	"github.com/noah-isme/sinau-go-api/internal/models"
	"github.com/noah-isme/sinau-go-api/internal/repository"
	"github.com/noah-isme/sinau-go-api/internal/router"
	"github.com/noah-isme/sinau-go-api/internal/service"
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
		&models.Student{},
		&models.Course{},
		&models.Module{},
		&models.Lesson{},
		&models.Exam{},
		&models.ExamSubmission{},
		&models.LessonProgress{},
		&models.IssuedCertificate{},
		&models.GamificationProfile{},
		&models.GamificationEvent{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	// Certificate events are best effort; the API runs without a broker.
	natsConn, err := database.ConnectNATS(cfg.NATSURL)
	if err != nil {
		logger.Warn().Err(err).Msg("nats unavailable, certificate events disabled")
		natsConn = nil
	} else {
		defer natsConn.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	courseRepo := repository.NewCourseRepository(db)
	progressRepo := repository.NewLessonProgressRepository(db)
	submissionRepo := repository.NewExamSubmissionRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	gamificationRepo := repository.NewGamificationRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	certificateService := service.NewCertificateService(certificateRepo, natsConn, cfg.NATSSubject, logger)
	gamificationService := service.NewGamificationService(gamificationRepo, logger)
	dispatcher := service.NewCompletionDispatcher(certificateService, gamificationService, logger)
	progressService := service.NewProgressService(progressRepo, courseRepo, submissionRepo, dispatcher, validate, cfg.PassThreshold, logger)
	examService := service.NewExamService(submissionRepo, courseRepo, validate, cfg.PassThreshold, logger)
	courseService := service.NewCourseService(courseRepo, progressRepo, submissionRepo, redisClient, cfg.CourseCacheTTL, validate, cfg.PassThreshold, logger)
	seedService := service.NewSeedService(studentRepo, courseRepo, cfg.SeedEnabled, cfg.SeedToken, logger)

	courseHandler := handler.NewCourseHandler(courseService, logger)
	progressHandler := handler.NewProgressHandler(progressService, logger)
	examHandler := handler.NewExamHandler(examService, logger)
	certificateHandler := handler.NewCertificateHandler(certificateService, logger)
	gamificationHandler := handler.NewGamificationHandler(gamificationService, logger)
	seedHandler := handler.NewSeedHandler(seedService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		CourseHandler:       courseHandler,
		ProgressHandler:     progressHandler,
		ExamHandler:         examHandler,
		CertificateHandler:  certificateHandler,
		GamificationHandler: gamificationHandler,
		SeedHandler:         seedHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
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
