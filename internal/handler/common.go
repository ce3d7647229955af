package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/yoga-studio-booking/internal/logger"
	"github.com/iliyamo/yoga-studio-booking/internal/middleware"
	"github.com/iliyamo/yoga-studio-booking/internal/model"
	"github.com/iliyamo/yoga-studio-booking/internal/netstatus"
	"github.com/iliyamo/yoga-studio-booking/internal/service"
)

const requestTimeout = 5 * time.Second

var errUnauthenticated = errors.New("user not authenticated")

// getUserID returns the authenticated caller's ID.
func getUserID(c echo.Context) (uint64, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return 0, errUnauthenticated
	}
	return id, nil
}

func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), requestTimeout)
}

// decode binds the request body into req and validates it with the
// registered echo Validator. It writes the 400 itself and returns false
// when the body is unusable.
func decode(c echo.Context, req any) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(req); err != nil {
		if v, ok := c.Echo().Validator.(*Validator); ok {
			if fields, ok := v.Fields(err); ok {
				return false, c.JSON(http.StatusBadRequest, echo.Map{"error": "validation failed", "fields": fields})
			}
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return true, nil
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case service.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, service.ErrWeekdayMismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrNoClassInstances):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrClassCancelled),
		errors.Is(err, service.ErrClassFull),
		errors.Is(err, service.ErrAlreadyEnrolled):
		return http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// fail writes err as {"error": ...}. Server-side failures get the
// user-facing network message instead of the raw error.
func fail(c echo.Context, err error) error {
	status := statusFor(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.Path()).Msg("request failed")
		msg = netstatus.ErrorMessage(err)
	}
	return c.JSON(status, echo.Map{"error": msg})
}

// list answers a list load with its display state. A failed load is shown
// as empty and carries the error text.
func list[T any](c echo.Context, items []T, err error) error {
	state := model.StateFor(len(items), err)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			status = http.StatusServiceUnavailable
		}
		return c.JSON(status, echo.Map{
			"state": state.Visible(),
			"items": []T{},
			"error": netstatus.ErrorMessage(err),
		})
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, echo.Map{"state": state, "items": items})
}
