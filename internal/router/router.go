package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/sinau-go-api/internal/config"
	"github.com/noah-isme/sinau-go-api/internal/handler"
	"github.com/noah-isme/sinau-go-api/internal/middleware"
	"github.com/noah-isme/sinau-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler       *handler.CourseHandler
	ProgressHandler     *handler.ProgressHandler
	ExamHandler         *handler.ExamHandler
	CertificateHandler  *handler.CertificateHandler
	GamificationHandler *handler.GamificationHandler
	SeedHandler         *handler.SeedHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Course catalog, outline and navigation
	if deps.CourseHandler != nil {
		courses := app.Group("/api/v1/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)

		admin := app.Group("/api/v1/admin/courses", jwtMiddleware, middleware.RequireRole("admin", "teacher"))
		deps.CourseHandler.RegisterAdmin(admin)
	}

	// Progression write path
	if deps.ProgressHandler != nil {
		progress := app.Group("/api/v1/progress", jwtMiddleware, middleware.RateLimit("progress", 60, time.Minute))
		deps.ProgressHandler.Register(progress)
	}

	// Exam submissions and module verdicts
	if deps.ExamHandler != nil {
		exams := app.Group("/api/v1/exams", jwtMiddleware, middleware.RateLimit("exams", 30, time.Minute))
		deps.ExamHandler.Register(exams)
	}

	// Issued certificates
	if deps.CertificateHandler != nil {
		certificates := app.Group("/api/v1/certificates", jwtMiddleware)
		deps.CertificateHandler.Register(certificates)
	}

	// Gamification profile and events
	if deps.GamificationHandler != nil {
		gamification := app.Group("/api/v1/gamification", jwtMiddleware)
		deps.GamificationHandler.Register(gamification)
	}

	// Development tooling, token-gated inside the service
	if deps.SeedHandler != nil {
		seed := app.Group("/api/v1/tooling/seed")
		deps.SeedHandler.Register(seed)
	}
}
