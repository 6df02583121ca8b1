package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/praktik-go-api/internal/config"
	"github.com/noah-isme/praktik-go-api/internal/handler"
	"github.com/noah-isme/praktik-go-api/internal/middleware"
	"github.com/noah-isme/praktik-go-api/internal/models"
	"github.com/noah-isme/praktik-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler        *handler.AuthHandler
	UserHandler        *handler.UserHandler
	SubjectHandler     *handler.SubjectHandler
	PracticalHandler   *handler.PracticalHandler
	SubmissionHandler  *handler.SubmissionHandler
	CertificateHandler *handler.CertificateHandler
	ExamModeHandler    *handler.ExamModeHandler
	DashboardHandler   *handler.DashboardHandler
	ShowcaseHandler    *handler.ShowcaseHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application. Role groups
// enforce a coarse role check at the edge; ownership and department scoping
// happen inside the services.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	if deps.ShowcaseHandler != nil {
		deps.ShowcaseHandler.Register(api)
	}

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	student := api.Group("/student", jwtMiddleware, middleware.RequireRole(string(models.RoleStudent)))
	teacher := api.Group("/teacher", jwtMiddleware, middleware.RequireRole(string(models.RoleTeacher)))
	hod := api.Group("/hod", jwtMiddleware, middleware.RequireRole(string(models.RoleHOD)))
	admin := api.Group("/admin", jwtMiddleware, middleware.RequireRole(string(models.RoleAdmin)))
	examiner := api.Group("/examiner", jwtMiddleware, middleware.RequireRole(string(models.RoleExaminer)))

	if deps.PracticalHandler != nil {
		practicals := api.Group("", jwtMiddleware)
		deps.PracticalHandler.Register(practicals)
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.RegisterStudent(student)
		deps.SubmissionHandler.RegisterTeacher(teacher)
	}

	if deps.CertificateHandler != nil {
		deps.CertificateHandler.RegisterStudent(student)
		deps.CertificateHandler.RegisterTeacher(teacher)
		deps.CertificateHandler.RegisterHOD(hod)
		deps.CertificateHandler.RegisterExaminer(examiner)
	}

	if deps.SubjectHandler != nil {
		subjects := api.Group("/subjects", jwtMiddleware)
		deps.SubjectHandler.Register(subjects)
	}

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterHOD(hod)
		deps.UserHandler.RegisterAdmin(admin)
	}

	if deps.ExamModeHandler != nil {
		deps.ExamModeHandler.Register(hod)
	}

	if deps.DashboardHandler != nil {
		deps.DashboardHandler.RegisterStudent(student)
		deps.DashboardHandler.RegisterTeacher(teacher)
		deps.DashboardHandler.RegisterHOD(hod)
		deps.DashboardHandler.RegisterAdmin(admin)
		deps.DashboardHandler.RegisterExaminer(examiner)
	}
}
