package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/ludica-app/ludica-api/internal/config"
	"github.com/ludica-app/ludica-api/internal/handler"
	"github.com/ludica-app/ludica-api/internal/middleware"
	"github.com/ludica-app/ludica-api/internal/models"
	"github.com/ludica-app/ludica-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	PointHandler      *handler.PointHandler
	LevelHandler      *handler.LevelHandler
	BadgeHandler      *handler.BadgeHandler
	RankingHandler    *handler.RankingHandler
	ThemeHandler      *handler.ThemeHandler
	ActivityHandler   *handler.ActivityHandler
	AssignmentHandler *handler.AssignmentHandler
	DiagnosticHandler *handler.DiagnosticHandler
	PlayHandler       *handler.PlayHandler
	AttendanceHandler *handler.AttendanceHandler
	ResourceHandler   *handler.ResourceHandler
	UsageHandler      *handler.UsageHandler
	UserHandler       *handler.UserHandler
	DashboardHandler  *handler.DashboardHandler
	JWTMiddleware     fiber.Handler
	HealthChecks      map[string]handler.HealthChecker
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg, deps.HealthChecks))
	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	staffOnly := middleware.RequireRole(models.RoleTeacher, models.RoleAdmin)
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	studentOnly := middleware.RequireRole(models.RoleStudent)

	if deps.AuthHandler != nil {
		// Unauthenticated auth routes are keyed by IP; the limiter slows
		// down credential stuffing without touching signed-in traffic.
		auth := api.Group("/auth", middleware.RateLimit("auth", 20, time.Minute))
		deps.AuthHandler.Register(auth)
		deps.AuthHandler.RegisterProtected(auth.Group("", jwtMiddleware))
	}

	if deps.PointHandler != nil {
		points := api.Group("/puntos", jwtMiddleware)
		deps.PointHandler.Register(points)
		deps.PointHandler.RegisterStaff(points.Group("", staffOnly))
	}

	if deps.LevelHandler != nil {
		levels := api.Group("/niveles", jwtMiddleware)
		deps.LevelHandler.Register(levels)
		deps.LevelHandler.RegisterAdmin(levels.Group("", adminOnly))
	}

	if deps.BadgeHandler != nil {
		badges := api.Group("/insignias", jwtMiddleware)
		deps.BadgeHandler.Register(badges)
		deps.BadgeHandler.RegisterAdmin(badges.Group("", adminOnly))
	}

	if deps.RankingHandler != nil {
		ranking := api.Group("/ranking", jwtMiddleware)
		deps.RankingHandler.Register(ranking)
		deps.RankingHandler.RegisterStaff(ranking.Group("", staffOnly))
	}

	if deps.ThemeHandler != nil {
		themes := api.Group("/tematicas", jwtMiddleware)
		deps.ThemeHandler.Register(themes)
		deps.ThemeHandler.RegisterStaff(themes.Group("", staffOnly))
	}

	if deps.ActivityHandler != nil {
		activities := api.Group("/actividades", jwtMiddleware)
		deps.ActivityHandler.Register(activities)
		deps.ActivityHandler.RegisterStaff(activities.Group("", staffOnly))
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/asignaciones", jwtMiddleware)
		deps.AssignmentHandler.Register(assignments)
		deps.AssignmentHandler.RegisterStudent(assignments.Group("", studentOnly))
		deps.AssignmentHandler.RegisterStaff(assignments.Group("", staffOnly))
	}

	if deps.DiagnosticHandler != nil {
		diagnostics := api.Group("/pruebas-diagnosticas", jwtMiddleware)
		deps.DiagnosticHandler.Register(diagnostics)
		deps.DiagnosticHandler.RegisterStudent(diagnostics.Group("", studentOnly))
		deps.DiagnosticHandler.RegisterStaff(diagnostics.Group("", staffOnly))
	}

	if deps.PlayHandler != nil {
		plays := api.Group("/jugadas", jwtMiddleware)
		deps.PlayHandler.RegisterStudent(plays.Group("", studentOnly))
		deps.PlayHandler.RegisterStaff(plays.Group("", staffOnly))
	}

	if deps.AttendanceHandler != nil {
		attendance := api.Group("/asistencias", jwtMiddleware)
		deps.AttendanceHandler.RegisterStudent(attendance.Group("", studentOnly))
		deps.AttendanceHandler.RegisterStaff(attendance.Group("", staffOnly))
	}

	if deps.ResourceHandler != nil {
		resources := api.Group("/recursos", jwtMiddleware)
		deps.ResourceHandler.Register(resources)
		deps.ResourceHandler.RegisterStaff(resources.Group("", staffOnly))
	}

	if deps.UsageHandler != nil {
		usage := api.Group("/datos-uso", jwtMiddleware)
		deps.UsageHandler.Register(usage)
		deps.UsageHandler.RegisterAdmin(usage.Group("", adminOnly))
	}

	if deps.UserHandler != nil {
		users := api.Group("/admin/usuarios", jwtMiddleware, adminOnly)
		deps.UserHandler.RegisterAdmin(users)
		if deps.AuthHandler != nil {
			deps.AuthHandler.RegisterAdmin(users)
		}
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware)
		deps.DashboardHandler.RegisterStudent(dashboard.Group("", studentOnly))
		deps.DashboardHandler.RegisterStaff(dashboard.Group("", staffOnly))
	}
}
