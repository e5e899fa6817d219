package router

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/acrlib/library-kiosk-api/internal/handler"
	"github.com/acrlib/library-kiosk-api/internal/observability"
)

// Dependencies aggregates everything the router needs to wire the API
// surface.
type Dependencies struct {
	Attendance *handler.AttendanceHandler
	Students   *handler.StudentHandler
	Admin      *handler.AdminHandler
	HealthPing func(ctx context.Context) error
	AdminGuard fiber.Handler
}

// Register mounts all HTTP routes on the app.
func Register(app *fiber.App, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api")
	api.Get("/health", handler.HealthCheck(deps.HealthPing))
	api.Get("/classrooms", deps.AdminGuard, deps.Students.ClassRooms)

	deps.Attendance.Register(api.Group("/attendance"), deps.AdminGuard)
	deps.Students.Register(api.Group("/students"), deps.AdminGuard)
	deps.Admin.Register(api.Group("/admin"), deps.AdminGuard)
}
