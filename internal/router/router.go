// Package router wires handlers and middleware onto the echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/handler"
	"github.com/iliyamo/yoga-studio-booking/internal/middleware"
)

// Handlers is every HTTP handler the API exposes.
type Handlers struct {
	Auth         *handler.AuthHandler
	Catalog      *handler.CatalogHandler
	Search       *handler.SearchHandler
	Enrollment   *handler.EnrollmentHandler
	Booking      *handler.BookingHandler
	Instructor   *handler.InstructorHandler
	Notification *handler.NotificationHandler
	Admin        *handler.AdminHandler
	Status       *handler.StatusHandler
}

// Register mounts every route. Public catalog reads go through the response
// cache; admin writes purge it.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rc *middleware.ResponseCache) {
	RegisterRoutes(e, h.Status)
	RegisterAuth(e, h.Auth, jwtSecret)
	RegisterPublic(e, h, rc.Middleware())
	RegisterCustomer(e, h, jwtSecret)
	RegisterAdmin(e, h, jwtSecret, rc.PurgeOnWrite())
}

// RegisterRoutes registers the health and status probes.
func RegisterRoutes(e *echo.Echo, s *handler.StatusHandler) {
	e.GET("/healthz", handler.Health)
	e.GET("/v1/status", s.Status)
}

// RegisterAuth registers token endpoints under /v1/auth and GET /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	// rotates the refresh token
	g.POST("/refresh", a.Refresh)
	g.POST("/refresh-access", a.RefreshAccess)
	g.POST("/logout", a.Logout)

	e.GET("/v1/me", a.Me, middleware.JWTAuth(jwtSecret))
}

// RegisterPublic registers the browse and search endpoints. No login needed.
func RegisterPublic(e *echo.Echo, h Handlers, cached echo.MiddlewareFunc) {
	e.GET("/v1/courses", h.Catalog.ListCourses, cached)
	e.GET("/v1/courses/:id", h.Catalog.GetCourse, cached)
	e.GET("/v1/courses/:id/instances", h.Catalog.CourseInstances, cached)
	e.GET("/v1/courses/:id/instances/upcoming", h.Catalog.UpcomingInstances)
	e.GET("/v1/courses/:id/notifications", h.Notification.History)
	e.GET("/v1/instances/:id", h.Catalog.GetInstance, cached)
	e.GET("/v1/instances/:id/spots", h.Enrollment.Spots)
	e.GET("/v1/search/instances", h.Search.Instances, cached)
	e.GET("/v1/search/courses", h.Search.Courses, cached)
	e.GET("/v1/instructors", h.Instructor.List, cached)
	e.GET("/v1/instructors/:id", h.Instructor.Get, cached)
}
