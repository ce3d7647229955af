package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/middleware"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// RegisterAdmin registers catalog management under /v1/admin. Every route
// requires the ADMIN role; purge runs after each successful write.
func RegisterAdmin(e *echo.Echo, h Handlers, jwtSecret string, purge echo.MiddlewareFunc) {
	g := e.Group("/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
		purge,
	)

	g.POST("/courses", h.Catalog.CreateCourse)
	g.PUT("/courses/:id", h.Catalog.UpdateCourse)
	g.DELETE("/courses/:id", h.Catalog.DeleteCourse)

	g.POST("/instances", h.Catalog.CreateInstance)
	g.PUT("/instances/:id", h.Catalog.UpdateInstance)
	g.DELETE("/instances/:id", h.Catalog.DeleteInstance)
	g.POST("/instances/:id/notify", h.Notification.Notify)

	g.PATCH("/enrollments/:id/attended", h.Enrollment.MarkAttended)

	g.POST("/instructors", h.Instructor.Create)
	g.PUT("/instructors/:id", h.Instructor.Update)
	g.DELETE("/instructors/:id", h.Instructor.Delete)

	g.POST("/sync", h.Admin.SyncAll)
	g.POST("/reset", h.Admin.Reset)
}
