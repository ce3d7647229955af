package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/middleware"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
)

// RegisterCustomer registers endpoints for any logged-in user. They share
// /v1 with the public routes, so the middleware is attached per route
// instead of through a group.
func RegisterCustomer(e *echo.Echo, h Handlers, jwtSecret string) {
	auth := []echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	}

	e.POST("/v1/instances/:id/enroll", h.Enrollment.Enroll, auth...)
	e.DELETE("/v1/instances/:id/enroll", h.Enrollment.Cancel, auth...)
	e.GET("/v1/me/enrollments", h.Enrollment.Mine, auth...)

	e.POST("/v1/courses/:id/subscribe", h.Notification.Subscribe, auth...)
	e.DELETE("/v1/courses/:id/subscribe", h.Notification.Unsubscribe, auth...)
	e.GET("/v1/me/subscriptions", h.Notification.Subscriptions, auth...)

	e.POST("/v1/bookings", h.Booking.Create, auth...)
	e.GET("/v1/bookings", h.Booking.ListByEmail, auth...)
}

