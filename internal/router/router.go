package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/classroom-api/internal/config"
	"github.com/noah-isme/classroom-api/internal/handler"
	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/observability"
	"github.com/noah-isme/classroom-api/internal/service"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	IdentityHandler         *handler.IdentityHandler
	OrganizationHandler     *handler.OrganizationHandler
	GroupHandler            *handler.GroupHandler
	TaskHandler             *handler.TaskHandler
	TeacherDashboardHandler *handler.TeacherDashboardHandler
	ActivityHandler         *handler.ActivityHandler
	StudentDashboardHandler *handler.StudentDashboardHandler
	SubmissionHandler       *handler.SubmissionHandler
	JWTMiddleware           fiber.Handler
	UploadLimiter           fiber.Handler
	// ExposeMetrics mounts the Prometheus scrape endpoint at /metrics.
	ExposeMetrics bool
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	if deps.ExposeMetrics {
		app.Get("/metrics", observability.MetricsHandler())
	}

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = middleware.JWTProtected(cfg.JWTSecret)
	}

	authenticated := api.Group("", jwtMiddleware)

	if deps.IdentityHandler != nil {
		deps.IdentityHandler.Register(authenticated)
	}
	if deps.OrganizationHandler != nil {
		deps.OrganizationHandler.Register(authenticated.Group("/organizations"))
	}

	teacher := authenticated.Group("/teacher", middleware.RequireRole(service.RoleTeacher))
	if deps.TeacherDashboardHandler != nil {
		deps.TeacherDashboardHandler.Register(teacher)
	}
	if deps.GroupHandler != nil {
		deps.GroupHandler.Register(teacher.Group("/groups"))
	}
	if deps.TaskHandler != nil {
		deps.TaskHandler.Register(teacher.Group("/tasks"))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(teacher)
	}

	student := authenticated.Group("/student", middleware.RequireRole(service.RoleStudent))
	if deps.StudentDashboardHandler != nil {
		deps.StudentDashboardHandler.Register(student)
	}
	if deps.SubmissionHandler != nil {
		var guards []fiber.Handler
		if deps.UploadLimiter != nil {
			guards = append(guards, deps.UploadLimiter)
		}
		deps.SubmissionHandler.Register(student, guards...)
	}
}
